package conformance

import (
	"io"
	"math"
	"math/cmplx"

	"github.com/tphakala/simd/f64"
	"gonum.org/v1/gonum/dsp/fourier"

	audiostream "github.com/tphakala/go-audio-stream"
	"github.com/tphakala/go-audio-stream/internal/convert"
)

const (
	toneFrames    = 8192
	toneFrequency = 440.0
	toneAmplitude = 0.6

	// rmsTolerance absorbs the level dip from resampler latency: the
	// filter delay replaces a short stretch of the tone with silence.
	rmsTolerance = 0.2
)

// SineWave synthesizes n samples of a freq Hz sine sampled at rate Hz,
// scaled to the given peak amplitude.
func SineWave(n int, freq float64, rate int, amplitude float64) []float64 {
	samples := make([]float64, n)
	step := 2 * math.Pi * freq / float64(rate)
	for i := range samples {
		samples[i] = math.Sin(float64(i) * step)
	}
	f64.Scale(samples, samples, amplitude)
	return samples
}

// RMS returns the root mean square level of samples.
func RMS(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	return math.Sqrt(f64.DotProduct(samples, samples) / float64(len(samples)))
}

// DominantFrequency returns the frequency in Hz of the strongest non-DC
// bin in the sample spectrum.
func DominantFrequency(samples []float64, rate int) float64 {
	fft := fourier.NewFFT(len(samples))
	coeffs := fft.Coefficients(nil, samples)
	best, bestMag := 1, 0.0
	for i, c := range coeffs {
		if i == 0 {
			continue
		}
		if mag := cmplx.Abs(c); mag > bestMag {
			best, bestMag = i, mag
		}
	}
	return fft.Freq(best) * float64(rate)
}

// runSignalIntegrity converts a synthesized sine from mono 16-bit
// 22050 Hz to stereo float 44100 Hz and checks that level and pitch
// survive the trip. The mono fan-out must leave both output channels
// identical.
func runSignalIntegrity(rec *Recorder, env *Env) {
	src := audiostream.Spec{Format: audiostream.FormatS16LE, Channels: 1, Rate: 22050}
	dst := audiostream.Spec{Format: audiostream.FormatF32LE, Channels: 2, Rate: 44100}

	tone := SineWave(toneFrames, toneFrequency, src.Rate, toneAmplitude)
	raw := convert.Encode(tone, convert.Encoding{Bits: 16, Signed: true})

	stream, err := audiostream.New(src, dst)
	if !rec.Checkf(err == nil, "create %s to %s: %v", src, dst, err) {
		return
	}
	defer stream.Close()

	if _, err := stream.Write(raw); err != nil {
		rec.Failf("push tone: %v", err)
		return
	}
	if err := stream.Flush(); err != nil {
		rec.Failf("flush: %v", err)
		return
	}
	out, err := io.ReadAll(stream)
	if !rec.Checkf(err == nil, "pull: %v", err) {
		return
	}
	if !rec.Checkf(len(out) > 0, "conversion produced no output") {
		return
	}

	samples := convert.Decode(out, convert.Encoding{Bits: 32, Float: true, Signed: true})
	planes := convert.Deinterleave(samples, dst.Channels)
	left, right := planes[0], planes[1]

	same := len(left) == len(right)
	for i := 0; same && i < len(left); i++ {
		same = left[i] == right[i]
	}
	rec.Checkf(same, "stereo fan-out channels differ")

	wantRMS := toneAmplitude / math.Sqrt2
	gotRMS := RMS(left)
	rec.Checkf(math.Abs(gotRMS-wantRMS) <= wantRMS*rmsTolerance,
		"RMS %.4f, want %.4f within %.0f%%", gotRMS, wantRMS, rmsTolerance*100)

	binWidth := float64(dst.Rate) / float64(len(left))
	gotFreq := DominantFrequency(left, dst.Rate)
	rec.Checkf(math.Abs(gotFreq-toneFrequency) <= 1.5*binWidth,
		"dominant frequency %.2f Hz, want %.2f within %.2f", gotFreq, toneFrequency, 1.5*binWidth)

	rec.Passf("tone RMS %.4f, dominant %.2f Hz over %d frames", gotRMS, gotFreq, len(left))
}
