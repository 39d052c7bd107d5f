package audiostream

import (
	"fmt"
	"strings"
)

// Spec describes one side of a conversion: the sample format, the number of
// interleaved channels and the sample rate in Hz. Specs are plain comparable
// values; two specs are equal when all three fields match.
type Spec struct {
	Format   SampleFormat
	Channels int
	Rate     int
}

// FrameBytes returns the size of one sample frame (one sample per channel).
func (s Spec) FrameBytes() int {
	return s.Format.SampleBytes() * s.Channels
}

// Validate reports whether the spec can describe real audio. The returned
// error wraps ErrInvalidSpec and names every offending field, so callers can
// surface the full problem in one message.
func (s Spec) Validate() error {
	var bad []string
	if !s.Format.IsValid() {
		bad = append(bad, fmt.Sprintf("format %s", s.Format))
	}
	if s.Channels <= 0 {
		bad = append(bad, fmt.Sprintf("channels %d", s.Channels))
	}
	if s.Rate <= 0 {
		bad = append(bad, fmt.Sprintf("rate %d", s.Rate))
	}
	if len(bad) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidSpec, strings.Join(bad, ", "))
}

// String renders the spec in a compact "S16LE/2ch/44100Hz" form.
func (s Spec) String() string {
	return fmt.Sprintf("%s/%dch/%dHz", s.Format, s.Channels, s.Rate)
}
