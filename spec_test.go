package audiostream

import (
	"errors"
	"strings"
	"testing"
)

func TestSpecFrameBytes(t *testing.T) {
	tests := []struct {
		spec Spec
		want int
	}{
		{Spec{Format: FormatU8, Channels: 1, Rate: 22050}, 1},
		{Spec{Format: FormatS16LE, Channels: 2, Rate: 44100}, 4},
		{Spec{Format: FormatS16LE, Channels: 6, Rate: 48000}, 12},
		{Spec{Format: FormatF32BE, Channels: 4, Rate: 48000}, 16},
	}
	for _, tt := range tests {
		if got := tt.spec.FrameBytes(); got != tt.want {
			t.Errorf("%v FrameBytes() = %d, want %d", tt.spec, got, tt.want)
		}
	}
}

func TestSpecValidate(t *testing.T) {
	valid := Spec{Format: FormatS16LE, Channels: 2, Rate: 44100}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate(%v) = %v, want nil", valid, err)
	}

	tests := []struct {
		name string
		spec Spec
		want string // substring the error must name
	}{
		{"zero format", Spec{Channels: 2, Rate: 44100}, "format"},
		{"unknown format", Spec{Format: 0x0011, Channels: 2, Rate: 44100}, "format"},
		{"zero channels", Spec{Format: FormatS16LE, Rate: 44100}, "channels"},
		{"negative channels", Spec{Format: FormatS16LE, Channels: -1, Rate: 44100}, "channels"},
		{"zero rate", Spec{Format: FormatS16LE, Channels: 2}, "rate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.Validate()
			if err == nil {
				t.Fatalf("Validate(%v) = nil, want error", tt.spec)
			}
			if !errors.Is(err, ErrInvalidSpec) {
				t.Errorf("error %v does not wrap ErrInvalidSpec", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not name %q", err, tt.want)
			}
		})
	}
}

// TestSpecValidateNamesEveryField verifies a fully-zero spec reports all
// three fields in one message.
func TestSpecValidateNamesEveryField(t *testing.T) {
	err := Spec{}.Validate()
	if err == nil {
		t.Fatal("Validate(zero spec) = nil, want error")
	}
	for _, field := range []string{"format", "channels", "rate"} {
		if !strings.Contains(err.Error(), field) {
			t.Errorf("error %q does not name %q", err, field)
		}
	}
}

func TestSpecString(t *testing.T) {
	s := Spec{Format: FormatS16LE, Channels: 2, Rate: 44100}
	if got, want := s.String(), "S16LE/2ch/44100Hz"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
