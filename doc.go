// Package audiostream converts PCM audio between sample formats, channel
// layouts and sample rates through a streaming byte interface.
//
// The package models audio the way conversion pipelines see it: a [Spec]
// names a [SampleFormat] (bit depth, signedness, float flag, byte order),
// a channel count and a sample rate, and a [Stream] rewrites interleaved
// bytes from one spec into another. Format and channel conversion are
// implemented here; rate conversion is delegated to the resampling library
// (github.com/tphakala/go-audio-resampler), one mono resampler per
// destination channel.
//
// # Quick Start
//
//	src := audiostream.Spec{Format: audiostream.FormatS16LE, Channels: 1, Rate: 22050}
//	dst := audiostream.Spec{Format: audiostream.FormatF32LE, Channels: 2, Rate: 44100}
//
//	s, err := audiostream.New(src, dst)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Close()
//
//	if _, err := s.Write(input); err != nil {
//	    log.Fatal(err)
//	}
//	if err := s.Flush(); err != nil {
//	    log.Fatal(err)
//	}
//	output, err := io.ReadAll(s)
//
// # Sample Formats
//
// [SampleFormat] is a bitfield tag covering the eight concrete layouts
// (U8, S8, S16, S32 and F32 in both byte orders). [FormatS16Native],
// [FormatS32Native] and [FormatF32Native] resolve to the host byte order at
// startup. Unknown tags fail [Spec.Validate] and are rejected by [New].
//
// # Streaming Model
//
// A [Stream] is an io.Writer for source bytes and an io.Reader for converted
// bytes. Input need not arrive frame-aligned: incomplete trailing frames are
// buffered across writes. [Stream.Flush] ends the input, drains the
// resampler tails and makes Read report io.EOF after the queue empties.
// Writing after Flush fails with [ErrStreamFlushed]. For whole buffers,
// [Convert] wraps the write/flush/drain cycle in one call.
//
// # Related Packages
//
// The device package layers a small driver registry (null, disk and an
// opt-in oto playback bridge) on top of this package, and the conformance
// package exercises the whole surface with a randomized conversion matrix.
package audiostream
