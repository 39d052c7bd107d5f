package convert

import "github.com/tphakala/simd/f64"

// Deinterleave splits interleaved samples into per-channel planes. Trailing
// samples that do not fill a whole frame are dropped.
func Deinterleave(samples []float64, channels int) [][]float64 {
	frames := len(samples) / channels
	out := make([][]float64, channels)
	for ch := range channels {
		out[ch] = make([]float64, frames)
	}
	for f := range frames {
		base := f * channels
		for ch := range channels {
			out[ch][f] = samples[base+ch]
		}
	}
	return out
}

// Interleave merges per-channel planes into interleaved samples. Channels are
// truncated to the shortest plane so the result holds whole frames only.
func Interleave(chans [][]float64) []float64 {
	if len(chans) == 0 {
		return nil
	}
	frames := len(chans[0])
	for _, c := range chans[1:] {
		if len(c) < frames {
			frames = len(c)
		}
	}
	if len(chans) == 2 && len(chans[0]) == len(chans[1]) {
		out := make([]float64, 2*frames)
		f64.Interleave2(out, chans[0], chans[1])
		return out
	}
	out := make([]float64, frames*len(chans))
	for f := range frames {
		base := f * len(chans)
		for ch := range chans {
			out[base+ch] = chans[ch][f]
		}
	}
	return out
}

// Remix maps src channel planes onto dstChannels planes.
//
// The policy is positional and symmetric so that folding an up-mixed signal
// back down recovers the original layout:
//   - equal counts reuse the input planes
//   - mono fans out to every destination channel
//   - fewer destinations: dst[i] averages the source channels congruent to i
//     modulo dstChannels (4ch to stereo folds rears onto fronts)
//   - more destinations: dst[i] repeats source channel i modulo the source
//     count (stereo to quad repeats the front pair on the rears)
func Remix(src [][]float64, dstChannels int) [][]float64 {
	srcChannels := len(src)
	switch {
	case srcChannels == dstChannels:
		return src
	case srcChannels == 1:
		out := make([][]float64, dstChannels)
		for ch := range dstChannels {
			out[ch] = src[0]
		}
		return out
	case srcChannels > dstChannels:
		frames := len(src[0])
		out := make([][]float64, dstChannels)
		for ch := range dstChannels {
			out[ch] = make([]float64, frames)
		}
		counts := make([]int, dstChannels)
		for sc := range srcChannels {
			dc := sc % dstChannels
			counts[dc]++
			for f := range src[sc] {
				out[dc][f] += src[sc][f]
			}
		}
		for ch := range dstChannels {
			f64.Scale(out[ch], out[ch], 1.0/float64(counts[ch]))
		}
		return out
	default:
		out := make([][]float64, dstChannels)
		for ch := range dstChannels {
			out[ch] = src[ch%srcChannels]
		}
		return out
	}
}
