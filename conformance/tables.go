package conformance

import audiostream "github.com/tphakala/go-audio-stream"

// Formats is the format axis of the coverage matrix. The list keeps the
// historical ordering and deliberately includes the native-order and
// alias entries even though they duplicate concrete layouts: a draw
// landing on an alias still exercises the spelled-out name.
var Formats = []audiostream.SampleFormat{
	audiostream.FormatS8,
	audiostream.FormatU8,
	audiostream.FormatS16LE,
	audiostream.FormatS16BE,
	audiostream.FormatS16Native,
	audiostream.FormatS16,
	audiostream.FormatS32LE,
	audiostream.FormatS32BE,
	audiostream.FormatS32Native,
	audiostream.FormatS32,
	audiostream.FormatF32LE,
	audiostream.FormatF32BE,
	audiostream.FormatF32Native,
	audiostream.FormatF32,
}

// pinnedFormatIndex is the Formats entry a varied draw falls back to
// when the format dimension is not varied.
const pinnedFormatIndex = 1

// ChannelCounts is the channel axis: mono, stereo, quad, 5.1.
var ChannelCounts = []int{1, 2, 4, 6}

// Rates is the sample-rate axis in Hz.
var Rates = []int{11025, 22050, 44100, 48000}

// MatrixSize is the number of source specs in the fixed coverage matrix.
func MatrixSize() int {
	return len(Formats) * len(ChannelCounts) * len(Rates)
}
