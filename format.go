package audiostream

import (
	"encoding/binary"
	"fmt"

	"github.com/tphakala/go-audio-stream/internal/convert"
)

// SampleFormat identifies the byte-level layout of one PCM sample as a
// bitfield: the low byte holds the bit depth, bit 8 marks float encodings,
// bit 12 big-endian byte order and bit 15 signed integers.
type SampleFormat uint16

// Bitfield layout.
const (
	formatMaskBits      SampleFormat = 0x00FF
	formatFlagFloat     SampleFormat = 1 << 8
	formatFlagBigEndian SampleFormat = 1 << 12
	formatFlagSigned    SampleFormat = 1 << 15
)

// Concrete sample formats.
const (
	// FormatU8 is unsigned 8-bit PCM biased at 0x80.
	FormatU8 SampleFormat = 0x0008
	// FormatS8 is signed 8-bit PCM.
	FormatS8 SampleFormat = 0x8008
	// FormatS16LE is signed 16-bit little-endian PCM.
	FormatS16LE SampleFormat = 0x8010
	// FormatS16BE is signed 16-bit big-endian PCM.
	FormatS16BE SampleFormat = 0x9010
	// FormatS32LE is signed 32-bit little-endian PCM.
	FormatS32LE SampleFormat = 0x8020
	// FormatS32BE is signed 32-bit big-endian PCM.
	FormatS32BE SampleFormat = 0x9020
	// FormatF32LE is 32-bit little-endian IEEE float PCM.
	FormatF32LE SampleFormat = 0x8120
	// FormatF32BE is 32-bit big-endian IEEE float PCM.
	FormatF32BE SampleFormat = 0x9120
)

// Default-order aliases. Little-endian is the conventional interchange
// order, so the unsuffixed names resolve to the LE layouts.
const (
	FormatS16 = FormatS16LE
	FormatS32 = FormatS32LE
	FormatF32 = FormatF32LE
)

// Native byte-order formats, resolved once at startup from the host order.
var (
	FormatS16Native = hostOrder(FormatS16LE, FormatS16BE)
	FormatS32Native = hostOrder(FormatS32LE, FormatS32BE)
	FormatF32Native = hostOrder(FormatF32LE, FormatF32BE)
)

func hostOrder(le, be SampleFormat) SampleFormat {
	var probe [2]byte
	binary.NativeEndian.PutUint16(probe[:], 1)
	if probe[0] == 0 {
		return be
	}
	return le
}

// BitDepth returns the bits per sample (8, 16 or 32).
func (f SampleFormat) BitDepth() int {
	return int(f & formatMaskBits)
}

// SampleBytes returns the bytes per sample.
func (f SampleFormat) SampleBytes() int {
	return f.BitDepth() / 8
}

// IsFloat reports whether samples are IEEE floats.
func (f SampleFormat) IsFloat() bool {
	return f&formatFlagFloat != 0
}

// IsSigned reports whether integer samples are signed.
func (f SampleFormat) IsSigned() bool {
	return f&formatFlagSigned != 0
}

// IsBigEndian reports whether multi-byte samples use big-endian order.
func (f SampleFormat) IsBigEndian() bool {
	return f&formatFlagBigEndian != 0
}

// IsValid reports whether f is one of the eight concrete layouts.
func (f SampleFormat) IsValid() bool {
	switch f {
	case FormatU8, FormatS8,
		FormatS16LE, FormatS16BE,
		FormatS32LE, FormatS32BE,
		FormatF32LE, FormatF32BE:
		return true
	}
	return false
}

// String returns the conventional short name, such as "S16LE".
func (f SampleFormat) String() string {
	switch f {
	case FormatU8:
		return "U8"
	case FormatS8:
		return "S8"
	case FormatS16LE:
		return "S16LE"
	case FormatS16BE:
		return "S16BE"
	case FormatS32LE:
		return "S32LE"
	case FormatS32BE:
		return "S32BE"
	case FormatF32LE:
		return "F32LE"
	case FormatF32BE:
		return "F32BE"
	}
	return fmt.Sprintf("unknown(0x%04X)", uint16(f))
}

// encoding bridges the format tag to the codec layer.
func (f SampleFormat) encoding() convert.Encoding {
	return convert.Encoding{
		Bits:      f.BitDepth(),
		Float:     f.IsFloat(),
		Signed:    f.IsSigned(),
		BigEndian: f.IsBigEndian(),
	}
}
