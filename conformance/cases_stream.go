package conformance

import (
	"errors"

	audiostream "github.com/tphakala/go-audio-stream"
)

// matrixFrames is the number of sample frames synthesized per matrix
// conversion.
const matrixFrames = 64

// runBuildStream walks the fixed matrix and round-trips a conversion
// stream for every case: each of the 224 source entries must both build
// against its random destination and close cleanly.
func runBuildStream(rec *Recorder, env *Env) {
	count := 0
	for c := range FixedMatrix(env.RNG) {
		count++
		stream, err := audiostream.New(c.Source, c.Destination)
		if !rec.Checkf(err == nil, "create %s: %v", c, err) {
			continue
		}
		rec.Checkf(stream.Close() == nil, "close %s", c)
	}
	rec.Checkf(count == MatrixSize(), "fixed matrix yielded %d cases, want %d", count, MatrixSize())
}

// runBuildStreamNegative zeroes every non-empty subset of the six
// scalar fields across a valid pair. Construction has to fail each
// time, with a message naming the problem, before any buffer is sized.
func runBuildStreamNegative(rec *Recorder, env *Env) {
	base := ConversionCase{
		Source:      audiostream.Spec{Format: audiostream.FormatS8, Channels: 1, Rate: 22050},
		Destination: audiostream.Spec{Format: audiostream.FormatS16LE, Channels: 2, Rate: 44100},
	}

	for bits := 1; bits < 64; bits++ {
		src, dst := base.Source, base.Destination
		if bits&(1<<0) != 0 {
			src.Format = 0
		}
		if bits&(1<<1) != 0 {
			src.Channels = 0
		}
		if bits&(1<<2) != 0 {
			src.Rate = 0
		}
		if bits&(1<<3) != 0 {
			dst.Format = 0
		}
		if bits&(1<<4) != 0 {
			dst.Channels = 0
		}
		if bits&(1<<5) != 0 {
			dst.Rate = 0
		}

		stream, err := audiostream.New(src, dst)
		if !rec.Checkf(err != nil, "zero subset %06b: construction succeeded", bits) {
			_ = stream.Close()
			continue
		}
		rec.Checkf(err.Error() != "", "zero subset %06b: empty error message", bits)
		rec.Checkf(errors.Is(err, audiostream.ErrInvalidSpec),
			"zero subset %06b: %v does not wrap ErrInvalidSpec", bits, err)
	}
}

// runConvertMatrix is the heart of the suite. For every variation mask
// it walks the varied matrix, checks the sizing arithmetic, and runs a
// real conversion over a zero-filled source buffer: a valid pair must
// convert successfully and produce output.
func runConvertMatrix(rec *Recorder, env *Env) {
	for mask := VariationMask(1); mask <= maskAll; mask++ {
		count := 0
		for c := range VariedMatrix(env.RNG, mask) {
			count++
			if !rec.Checkf(c.Source != c.Destination, "mask %s: no-op case %s", mask, c) {
				continue
			}

			srcLen, dstLen := BufferSizes(c.Source, c.Destination, matrixFrames)
			if !rec.Checkf(srcLen > 0 && dstLen > 0,
				"mask %s: %s: sizes %d/%d not positive", mask, c, srcLen, dstLen) {
				continue
			}
			rec.Checkf(dstLen%c.Destination.FrameBytes() == 0,
				"mask %s: %s: destination length %d not frame aligned", mask, c, dstLen)

			produced, err := RunConversion(c.Source, c.Destination, make([]byte, srcLen))
			if !rec.Checkf(err == nil, "mask %s: convert %s: %v", mask, c, err) {
				continue
			}
			rec.Checkf(produced > 0, "mask %s: %s produced no output", mask, c)
			rec.Checkf(produced%c.Destination.FrameBytes() == 0,
				"mask %s: %s produced %d bytes, not frame aligned", mask, c, produced)
		}
		rec.Checkf(count == MatrixSize(), "mask %s yielded %d cases, want %d", mask, count, MatrixSize())
	}
	rec.Passf("varied matrix covered %d conversions", int(maskAll)*MatrixSize())
}
