// Package convert implements the raw PCM transformations behind stream
// conversion. Bytes are decoded into interleaved float64 samples in [-1, 1),
// reshaped between interleaved and planar layouts, remixed to a different
// channel count, and encoded back into bytes.
//
// All functions are pure and allocation patterns are predictable: callers in
// hot paths can reuse the returned slices across iterations.
package convert

import (
	"encoding/binary"
	"math"
)

// Encoding describes the byte-level layout of one PCM sample. It carries the
// minimum needed for codec work so that this package stays free of the root
// package's types.
type Encoding struct {
	Bits      int // 8, 16 or 32
	Float     bool
	Signed    bool
	BigEndian bool
}

// Bytes returns the number of bytes per sample.
func (e Encoding) Bytes() int {
	return e.Bits / 8
}

func (e Encoding) order() binary.ByteOrder {
	if e.BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// Scaling factors between normalized float64 and integer PCM.
const (
	scale8  = 128.0
	scale16 = 32768.0
	scale32 = 2147483648.0

	unsignedBias = 128
)

// Decode converts raw PCM bytes into interleaved float64 samples. Integer
// samples map onto [-1, 1); float samples pass through unchanged. The input
// length must be a multiple of the sample size.
func Decode(src []byte, enc Encoding) []float64 {
	n := len(src) / enc.Bytes()
	out := make([]float64, n)
	ord := enc.order()

	switch {
	case enc.Float:
		for i := range n {
			bits := ord.Uint32(src[i*4:])
			out[i] = float64(math.Float32frombits(bits))
		}
	case enc.Bits == 8 && enc.Signed:
		for i := range n {
			out[i] = float64(int8(src[i])) / scale8
		}
	case enc.Bits == 8:
		for i := range n {
			out[i] = float64(int(src[i])-unsignedBias) / scale8
		}
	case enc.Bits == 16:
		for i := range n {
			out[i] = float64(int16(ord.Uint16(src[i*2:]))) / scale16
		}
	default: // 32-bit integer
		for i := range n {
			out[i] = float64(int32(ord.Uint32(src[i*4:]))) / scale32
		}
	}
	return out
}

// Encode converts interleaved float64 samples into raw PCM bytes. Integer
// targets clamp to the representable range; float targets are written as-is.
func Encode(samples []float64, enc Encoding) []byte {
	out := make([]byte, len(samples)*enc.Bytes())
	ord := enc.order()

	switch {
	case enc.Float:
		for i, s := range samples {
			ord.PutUint32(out[i*4:], math.Float32bits(float32(s)))
		}
	case enc.Bits == 8 && enc.Signed:
		for i, s := range samples {
			out[i] = byte(int8(clamp(s*scale8, math.MinInt8, math.MaxInt8)))
		}
	case enc.Bits == 8:
		for i, s := range samples {
			out[i] = byte(clamp(s*scale8+unsignedBias, 0, math.MaxUint8))
		}
	case enc.Bits == 16:
		for i, s := range samples {
			ord.PutUint16(out[i*2:], uint16(int16(clamp(s*scale16, math.MinInt16, math.MaxInt16))))
		}
	default:
		for i, s := range samples {
			ord.PutUint32(out[i*4:], uint32(int32(clamp(s*scale32, math.MinInt32, math.MaxInt32))))
		}
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// AlignDown rounds n down to a multiple of frame. Frame sizes are not
// necessarily powers of two (12 bytes for 6-channel S16), so this must stay
// a true modulo rather than a mask.
func AlignDown(n, frame int) int {
	if frame <= 0 {
		return 0
	}
	return n - n%frame
}
