package conformance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audiostream "github.com/tphakala/go-audio-stream"
)

func TestBufferSizesIdentity(t *testing.T) {
	spec := audiostream.Spec{Format: audiostream.FormatS16LE, Channels: 2, Rate: 22050}

	srcLen, dstLen := BufferSizes(spec, spec, 64)
	assert.Equal(t, 64*spec.FrameBytes(), srcLen)
	assert.Equal(t, srcLen, dstLen, "no conversion, equal buffers")
}

func TestBufferSizesUpsampleScenario(t *testing.T) {
	src := audiostream.Spec{Format: audiostream.FormatS8, Channels: 1, Rate: 22050}
	dst := audiostream.Spec{Format: audiostream.FormatS16LE, Channels: 2, Rate: 44100}

	srcLen, dstLen := BufferSizes(src, dst, 64)
	assert.Equal(t, 64, srcLen, "one byte per mono 8-bit frame")
	assert.Zero(t, dstLen%dst.FrameBytes())
	// 64 frames * 4 bytes per destination frame, doubled for the 2x
	// rate increase.
	assert.Equal(t, 64*4*2, dstLen)
}

func TestBufferSizesDownsampleNoDeflation(t *testing.T) {
	src := audiostream.Spec{Format: audiostream.FormatS16LE, Channels: 2, Rate: 48000}
	dst := audiostream.Spec{Format: audiostream.FormatS16LE, Channels: 2, Rate: 44100}

	srcLen, dstLen := BufferSizes(src, dst, 64)
	assert.Equal(t, 64*src.FrameBytes(), srcLen)
	assert.Equal(t, 64*dst.FrameBytes(), dstLen, "downsampling keeps one destination frame per source frame")
}

func TestBufferSizesFractionalUpsampleRoundsUp(t *testing.T) {
	src := audiostream.Spec{Format: audiostream.FormatS16LE, Channels: 2, Rate: 44100}
	dst := audiostream.Spec{Format: audiostream.FormatS16LE, Channels: 2, Rate: 48000}

	_, dstLen := BufferSizes(src, dst, 64)
	// ceil(48000/44100) = 2, even though the true ratio is barely
	// above 1.
	assert.Equal(t, 64*dst.FrameBytes()*2, dstLen)
}

func TestBufferSizesAllTablePairsPositive(t *testing.T) {
	var sources []audiostream.Spec
	for _, f := range Formats {
		for _, ch := range ChannelCounts {
			for _, rate := range Rates {
				sources = append(sources, audiostream.Spec{Format: f, Channels: ch, Rate: rate})
			}
		}
	}

	for _, src := range sources {
		for _, dst := range sources {
			srcLen, dstLen := BufferSizes(src, dst, 64)
			require.Positivef(t, srcLen, "%s to %s", src, dst)
			require.Positivef(t, dstLen, "%s to %s", src, dst)
			require.Zerof(t, srcLen%src.FrameBytes(), "%s to %s: source misaligned", src, dst)
			require.Zerof(t, dstLen%dst.FrameBytes(), "%s to %s: destination misaligned", src, dst)
		}
	}
}

func TestCeilDiv(t *testing.T) {
	assert.Equal(t, 2, ceilDiv(44100, 22050))
	assert.Equal(t, 2, ceilDiv(48000, 44100))
	assert.Equal(t, 1, ceilDiv(22050, 22050))
	assert.Equal(t, 5, ceilDiv(48000, 11025))
}
