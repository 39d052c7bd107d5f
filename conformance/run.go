package conformance

import (
	"fmt"
	"io"

	audiostream "github.com/tphakala/go-audio-stream"
)

// RunConversion pushes srcBuf through a fresh conversion stream, flushes
// it, and drains the output into a [BufferSizes]-sized buffer. It
// returns the number of destination bytes produced. A construction
// failure is returned unwrapped so callers can tell an invalid spec
// from a conversion error; the stream is closed on every path.
//
// The content of srcBuf does not matter here. Callers checking the
// matrix pass zero-filled buffers and assert only on sizes and success.
func RunConversion(src, dst audiostream.Spec, srcBuf []byte) (int, error) {
	stream, err := audiostream.New(src, dst)
	if err != nil {
		return 0, err
	}
	defer stream.Close()

	if _, err := stream.Write(srcBuf); err != nil {
		return 0, fmt.Errorf("push: %w", err)
	}
	if err := stream.Flush(); err != nil {
		return 0, fmt.Errorf("flush: %w", err)
	}

	_, dstLen := BufferSizes(src, dst, len(srcBuf)/src.FrameBytes())
	out := make([]byte, dstLen)
	produced := 0
	for produced < len(out) {
		n, err := stream.Read(out[produced:])
		produced += n
		if err == io.EOF {
			break
		}
		if err != nil {
			return produced, fmt.Errorf("pull: %w", err)
		}
		if n == 0 {
			break
		}
	}
	return produced, nil
}
