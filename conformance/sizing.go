package conformance

import (
	audiostream "github.com/tphakala/go-audio-stream"
	"github.com/tphakala/go-audio-stream/internal/convert"
)

// BufferSizes computes the byte lengths of the source buffer holding
// frames sample frames, and of a destination buffer large enough for
// everything a conversion of that source can produce.
//
// The destination length scales the frame count by the destination
// frame size and, when the conversion upsamples, inflates it by the
// rounded-up rate ratio. Downsampling applies no deflation, so the
// destination side may over-allocate but never under-allocates. Both
// results are aligned down to whole frames of their side.
//
// Both specs must be valid and frames positive; invalid specs are
// rejected when the conversion stream is built, before any sizing runs.
func BufferSizes(src, dst audiostream.Spec, frames int) (srcLen, dstLen int) {
	srcFrame := src.FrameBytes()
	srcLen = convert.AlignDown(frames*srcFrame, srcFrame)

	dstFrame := dst.FrameBytes()
	dstLen = dstFrame * (srcLen / srcFrame)
	if dst.Rate > src.Rate {
		dstLen *= ceilDiv(dst.Rate, src.Rate)
	}
	dstLen = convert.AlignDown(dstLen, dstFrame)
	return srcLen, dstLen
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
