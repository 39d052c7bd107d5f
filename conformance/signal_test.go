package conformance

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-audio-stream/internal/testutil"
)

func TestSineWave(t *testing.T) {
	tone := SineWave(8192, 440, 22050, 0.6)
	require.Len(t, tone, 8192)

	testutil.AssertNoNaNOrInf(t, tone)
	testutil.AssertAllInRange(t, tone, -0.6, 0.6)

	// A long sine's RMS sits at amplitude over root two.
	testutil.AssertRelativeError(t, 0.6/math.Sqrt2, RMS(tone), 0.01)
}

func TestRMSKnownSignals(t *testing.T) {
	assert.Zero(t, RMS(nil))
	assert.InDelta(t, 0.25, RMS([]float64{0.25, 0.25, 0.25, 0.25}), 1e-12)
	assert.InDelta(t, 1.0, RMS([]float64{1, -1, 1, -1}), 1e-12)
}

func TestDominantFrequencyPureTone(t *testing.T) {
	const rate = 44100
	tone := SineWave(4096, 1000, rate, 0.8)

	binWidth := float64(rate) / 4096
	got := DominantFrequency(tone, rate)
	assert.InDelta(t, 1000, got, binWidth)
}

func TestDominantFrequencyIgnoresDC(t *testing.T) {
	const rate = 22050
	tone := SineWave(4096, 500, rate, 0.1)
	for i := range tone {
		tone[i] += 0.8 // large DC offset must not win
	}

	binWidth := float64(rate) / 4096
	got := DominantFrequency(tone, rate)
	assert.InDelta(t, 500, got, binWidth)
}
