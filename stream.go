package audiostream

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	resampler "github.com/tphakala/go-audio-resampler"

	"github.com/tphakala/go-audio-stream/internal/convert"
)

// Common errors returned by the package.
var (
	// ErrInvalidSpec marks a conversion spec with a zero or unknown field.
	ErrInvalidSpec = errors.New("invalid conversion spec")

	// ErrStreamClosed is returned by any operation on a closed stream.
	ErrStreamClosed = errors.New("stream closed")

	// ErrStreamFlushed is returned when writing input after Flush.
	ErrStreamFlushed = errors.New("stream already flushed")
)

// Drain parameters used by Flush to pull the nominal output length out of
// the resampler pipeline, whose filters hold back latency-worth of samples.
const (
	drainBlockFrames = 2048
	maxDrainTries    = 8
)

// Stream converts interleaved PCM bytes from a source spec to a destination
// spec. Format and channel-count conversion happen in this package; sample
// rate conversion is delegated to one mono resampler per destination channel
// from github.com/tphakala/go-audio-resampler, using the medium quality
// preset.
//
// A Stream is an io.Writer for source bytes and an io.Reader for converted
// bytes. Write input with Write, signal end of input with Flush, then drain
// with Read until io.EOF. Before Flush, Read returns (0, nil) when no
// converted data is queued yet.
//
// Output length is deterministic: once Flush returns, the stream has
// produced exactly floor(inputFrames * dstRate / srcRate) destination
// frames (inputFrames when the rates match).
//
// Calls on a single Stream must be serialized by the caller. Distinct
// Streams are independent and may be used concurrently.
type Stream struct {
	src, dst Spec

	srcEnc, dstEnc convert.Encoding

	// identity streams copy aligned bytes through untouched.
	identity bool

	// resamplers holds one mono rate converter per destination channel,
	// nil when source and destination rates match.
	resamplers []resampler.Resampler

	// pending buffers an incomplete trailing source frame between writes.
	pending []byte

	inFrames  int // whole source frames consumed by Write
	outFrames int // destination frames encoded into out

	out     bytes.Buffer
	flushed bool
	closed  bool
}

// New creates a conversion stream from src to dst. Both specs are validated
// first: any zero or unknown field on either side fails construction with an
// error wrapping ErrInvalidSpec that names the side and the fields, and no
// stream is produced.
func New(src, dst Spec) (*Stream, error) {
	if err := src.Validate(); err != nil {
		return nil, fmt.Errorf("source spec: %w", err)
	}
	if err := dst.Validate(); err != nil {
		return nil, fmt.Errorf("destination spec: %w", err)
	}

	s := &Stream{
		src:      src,
		dst:      dst,
		srcEnc:   src.Format.encoding(),
		dstEnc:   dst.Format.encoding(),
		identity: src == dst,
	}

	if src.Rate != dst.Rate {
		s.resamplers = make([]resampler.Resampler, dst.Channels)
		for ch := range s.resamplers {
			r, err := resampler.New(&resampler.Config{
				InputRate:  float64(src.Rate),
				OutputRate: float64(dst.Rate),
				Channels:   1,
				Quality:    resampler.QualitySpec{Preset: resampler.QualityMedium},
			})
			if err != nil {
				return nil, fmt.Errorf("create channel resampler: %w", err)
			}
			s.resamplers[ch] = r
		}
	}
	return s, nil
}

// Source returns the source spec.
func (s *Stream) Source() Spec {
	return s.src
}

// Destination returns the destination spec.
func (s *Stream) Destination() Spec {
	return s.dst
}

// Write pushes source bytes into the stream. Complete frames are converted
// immediately and queued for Read; an incomplete trailing frame is buffered
// until a later Write completes it. Write never blocks.
func (s *Stream) Write(p []byte) (int, error) {
	if s.closed {
		return 0, ErrStreamClosed
	}
	if s.flushed {
		return 0, ErrStreamFlushed
	}

	s.pending = append(s.pending, p...)
	usable := convert.AlignDown(len(s.pending), s.src.FrameBytes())
	if usable == 0 {
		return len(p), nil
	}

	if err := s.process(s.pending[:usable]); err != nil {
		return 0, err
	}
	s.pending = append(s.pending[:0], s.pending[usable:]...)
	return len(p), nil
}

// process converts whole source frames and queues the result.
func (s *Stream) process(chunk []byte) error {
	frames := len(chunk) / s.src.FrameBytes()
	s.inFrames += frames

	if s.identity {
		s.out.Write(chunk)
		s.outFrames += frames
		return nil
	}

	samples := convert.Decode(chunk, s.srcEnc)
	planes := convert.Deinterleave(samples, s.src.Channels)
	planes = convert.Remix(planes, s.dst.Channels)
	return s.resampleAndQueue(planes)
}

// resampleAndQueue runs remixed planes through the per-channel rate
// converters (when present) and queues the encoded result.
func (s *Stream) resampleAndQueue(planes [][]float64) error {
	if s.resamplers != nil {
		for ch := range planes {
			resampled, err := s.resamplers[ch].Process(planes[ch])
			if err != nil {
				return fmt.Errorf("resample channel %d: %w", ch, err)
			}
			planes[ch] = resampled
		}
	}
	s.queuePlanes(planes)
	return nil
}

// queuePlanes interleaves, encodes and queues destination planes.
func (s *Stream) queuePlanes(planes [][]float64) {
	inter := convert.Interleave(planes)
	if len(inter) == 0 {
		return
	}
	s.outFrames += len(inter) / s.dst.Channels
	s.out.Write(convert.Encode(inter, s.dstEnc))
}

// Flush marks the end of input and settles the output queue at its exact
// nominal length. An incomplete trailing frame left from Write is discarded.
// Flush is idempotent.
func (s *Stream) Flush() error {
	if s.closed {
		return ErrStreamClosed
	}
	if s.flushed {
		return nil
	}
	s.flushed = true
	s.pending = nil

	if s.resamplers == nil {
		return nil
	}

	expected := int(int64(s.inFrames) * int64(s.dst.Rate) / int64(s.src.Rate))

	// Filter stages sit on latency-worth of input; push silence through
	// until the nominal frame count has come out the far end.
	for try := 0; try < maxDrainTries && s.outFrames < expected; try++ {
		zeros := make([][]float64, len(s.resamplers))
		for ch := range zeros {
			zeros[ch] = make([]float64, drainBlockFrames)
		}
		if err := s.resampleAndQueue(zeros); err != nil {
			return err
		}
	}

	// Collect whatever the stages still hold.
	tails := make([][]float64, len(s.resamplers))
	for ch := range s.resamplers {
		tail, err := s.resamplers[ch].Flush()
		if err != nil {
			return fmt.Errorf("flush channel %d: %w", ch, err)
		}
		tails[ch] = tail
	}
	s.queuePlanes(tails)

	s.settle(expected)
	return nil
}

// settle trims drain overshoot from the queue tail, or pads encoded silence,
// so the stream ends up having produced exactly expected frames.
func (s *Stream) settle(expected int) {
	frameBytes := s.dst.FrameBytes()
	if s.outFrames > expected {
		excess := (s.outFrames - expected) * frameBytes
		if excess > s.out.Len() {
			excess = s.out.Len()
		}
		s.out.Truncate(s.out.Len() - excess)
		s.outFrames = expected
		return
	}
	if deficit := expected - s.outFrames; deficit > 0 {
		silence := make([][]float64, s.dst.Channels)
		for ch := range silence {
			silence[ch] = make([]float64, deficit)
		}
		s.queuePlanes(silence)
	}
}

// Read fills p with converted bytes. It returns (0, nil) when the stream has
// no queued output and more input may still arrive, and io.EOF once the
// stream is flushed and fully drained.
func (s *Stream) Read(p []byte) (int, error) {
	if s.closed {
		return 0, ErrStreamClosed
	}
	if s.out.Len() == 0 {
		if s.flushed {
			return 0, io.EOF
		}
		return 0, nil
	}
	return s.out.Read(p)
}

// Available returns the number of converted bytes queued for Read.
func (s *Stream) Available() int {
	return s.out.Len()
}

// Close releases the stream. Every later call fails with ErrStreamClosed.
// Closing an already-closed stream is a no-op.
func (s *Stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.resamplers = nil
	s.pending = nil
	s.out.Reset()
	return nil
}

// Ensure Stream satisfies the standard streaming interfaces.
var (
	_ io.Reader = (*Stream)(nil)
	_ io.Writer = (*Stream)(nil)
	_ io.Closer = (*Stream)(nil)
)
