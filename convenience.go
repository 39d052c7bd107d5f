package audiostream

import "io"

// Common sample rates for building specs.
const (
	// RateTelephony is the telephony (PSTN narrowband) sample rate.
	RateTelephony = 8000

	// RateVoIP is the VoIP wideband sample rate.
	RateVoIP = 16000

	// RateSpeech is the speech recognition common sample rate.
	RateSpeech = 22050

	// RateCD is the CD quality sample rate (Red Book standard).
	RateCD = 44100

	// RateDAT is the DAT/DVD sample rate.
	RateDAT = 48000

	// RateHiRes96 is the high-resolution 2x DAT sample rate.
	RateHiRes96 = 96000

	// RateHiRes192 is the very high resolution 4x DAT sample rate.
	RateHiRes192 = 192000
)

// Convert is a convenience function for one-shot conversion. It builds
// a stream from src to dst, pushes the whole input through it, and
// returns every byte produced. Callers holding the complete signal in
// memory can use this instead of driving a [Stream] by hand.
func Convert(src, dst Spec, input []byte) ([]byte, error) {
	s, err := New(src, dst)
	if err != nil {
		return nil, err
	}
	defer func() { _ = s.Close() }()

	if _, err := s.Write(input); err != nil {
		return nil, err
	}
	if err := s.Flush(); err != nil {
		return nil, err
	}
	return io.ReadAll(s)
}
