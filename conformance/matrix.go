package conformance

import (
	"fmt"
	"iter"
	"math/rand/v2"
	"strings"

	audiostream "github.com/tphakala/go-audio-stream"
)

// ConversionCase pairs a source spec with a destination spec. Cases are
// built per iteration, converted, and discarded; nothing holds on to
// them between iterations.
type ConversionCase struct {
	Source      audiostream.Spec
	Destination audiostream.Spec
}

func (c ConversionCase) String() string {
	return c.Source.String() + " -> " + c.Destination.String()
}

// VariationMask selects which destination dimensions a varied draw may
// re-roll. Dimensions outside the mask stay tied to the source (or to
// the pinned format entry, see [VariedMatrix]).
type VariationMask uint8

const (
	VaryFormat VariationMask = 1 << iota
	VaryChannels
	VaryRate

	maskAll = VaryFormat | VaryChannels | VaryRate
)

func (m VariationMask) String() string {
	if m == 0 {
		return "none"
	}
	var parts []string
	if m&VaryFormat != 0 {
		parts = append(parts, "format")
	}
	if m&VaryChannels != 0 {
		parts = append(parts, "channels")
	}
	if m&VaryRate != 0 {
		parts = append(parts, "rate")
	}
	if rest := m &^ maskAll; rest != 0 {
		parts = append(parts, fmt.Sprintf("unknown(%#02x)", uint8(rest)))
	}
	return strings.Join(parts, "|")
}

// FixedMatrix yields one case per source entry of the fixed tables, in
// table order with the format axis outermost. The destination is drawn
// uniformly from the same tables, independent of the source, so a
// destination equal to its source is allowed. The sequence is lazy and
// restartable; a second range draws fresh destinations rather than
// replaying the first.
func FixedMatrix(rng *rand.Rand) iter.Seq[ConversionCase] {
	return func(yield func(ConversionCase) bool) {
		for _, format := range Formats {
			for _, channels := range ChannelCounts {
				for _, rate := range Rates {
					c := ConversionCase{
						Source: audiostream.Spec{Format: format, Channels: channels, Rate: rate},
						Destination: audiostream.Spec{
							Format:   Formats[rng.IntN(len(Formats))],
							Channels: ChannelCounts[rng.IntN(len(ChannelCounts))],
							Rate:     Rates[rng.IntN(len(Rates))],
						},
					}
					if !yield(c) {
						return
					}
				}
			}
		}
	}
}

// VariedMatrix yields one case per source entry of the fixed tables.
// Destination dimensions named by mask are re-rolled from their tables;
// an unmasked channel count or rate copies the source entry, while an
// unmasked format falls back to Formats[pinnedFormatIndex]. The draw
// repeats until the destination differs from the source in at least one
// field, so every yielded case is a genuine conversion. Equality is
// compared by field value, not table index: the alias entries make
// distinct indices collide on the same spec.
//
// VariedMatrix panics if mask is empty or carries unknown bits, and if
// any table has fewer than two entries. Both conditions would let the
// rejection loop run forever for some source entries.
func VariedMatrix(rng *rand.Rand, mask VariationMask) iter.Seq[ConversionCase] {
	if mask == 0 || mask&^maskAll != 0 {
		panic(fmt.Sprintf("conformance: invalid variation mask %#02x", uint8(mask)))
	}
	if len(Formats) < 2 || len(ChannelCounts) < 2 || len(Rates) < 2 {
		panic("conformance: variation tables need at least two entries each")
	}
	return func(yield func(ConversionCase) bool) {
		for _, format := range Formats {
			for ci, channels := range ChannelCounts {
				for ri, rate := range Rates {
					src := audiostream.Spec{Format: format, Channels: channels, Rate: rate}
					dst := drawVaried(rng, mask, ci, ri)
					for dst == src {
						dst = drawVaried(rng, mask, ci, ri)
					}
					if !yield(ConversionCase{Source: src, Destination: dst}) {
						return
					}
				}
			}
		}
	}
}

func drawVaried(rng *rand.Rand, mask VariationMask, srcChannelIdx, srcRateIdx int) audiostream.Spec {
	dst := audiostream.Spec{
		Format:   Formats[pinnedFormatIndex],
		Channels: ChannelCounts[srcChannelIdx],
		Rate:     Rates[srcRateIdx],
	}
	if mask&VaryFormat != 0 {
		dst.Format = Formats[rng.IntN(len(Formats))]
	}
	if mask&VaryChannels != 0 {
		dst.Channels = ChannelCounts[rng.IntN(len(ChannelCounts))]
	}
	if mask&VaryRate != 0 {
		dst.Rate = Rates[rng.IntN(len(Rates))]
	}
	return dst
}
