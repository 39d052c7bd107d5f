// Package testutil provides reusable test helper functions for audio stream tests.
package testutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// SineWave synthesizes n samples of a sine at freq Hz sampled at rate Hz
// with the given peak amplitude.
func SineWave(n int, freq, rate, amplitude float64) []float64 {
	out := make([]float64, n)
	step := 2 * math.Pi * freq / rate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// AssertNoNaNOrInf verifies that no elements in the slice are NaN or Inf.
func AssertNoNaNOrInf(t *testing.T, s []float64, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		if math.IsNaN(v) {
			return assert.Fail(t, "found NaN", "s[%d] is NaN", i)
		}
		if math.IsInf(v, 0) {
			return assert.Fail(t, "found Inf", "s[%d] is Inf", i)
		}
	}
	return true
}

// AssertAllInRange verifies that all elements are within [min, max].
func AssertAllInRange(t *testing.T, s []float64, minVal, maxVal float64, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		if v < minVal || v > maxVal {
			return assert.Fail(t, "value out of range",
				"s[%d]=%f is outside range [%f, %f]", i, v, minVal, maxVal)
		}
	}
	return true
}

// AssertFrameAligned verifies that a byte count holds whole frames.
func AssertFrameAligned(t *testing.T, byteLen, frameBytes int, msgAndArgs ...any) bool {
	t.Helper()
	if frameBytes <= 0 {
		return assert.Fail(t, "invalid frame size", "frameBytes=%d", frameBytes)
	}
	return assert.Zero(t, byteLen%frameBytes,
		"%d bytes do not divide into %d-byte frames", byteLen, frameBytes)
}

// AssertRelativeError verifies that the relative error between actual and expected is within tolerance.
func AssertRelativeError(t *testing.T, expected, actual, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	if expected == 0 {
		return assert.InDelta(t, expected, actual, tolerance, msgAndArgs...)
	}
	relError := math.Abs(actual-expected) / math.Abs(expected)
	return assert.LessOrEqual(t, relError, tolerance,
		"relative error %e exceeds tolerance %e (expected=%f, actual=%f)",
		relError, tolerance, expected, actual)
}
