package device

import (
	"fmt"

	audiostream "github.com/tphakala/go-audio-stream"
)

// Null device names.
const (
	nullOutputName  = "Null Output"
	nullCaptureName = "Null Capture"
)

// nullDriver is the always-available backend: playback is discarded and
// capture yields silence. It accepts every valid spec.
type nullDriver struct{}

// NewNullDriver returns the built-in discard/silence driver. The default
// registry already holds one; the constructor exists for callers that
// assemble their own registry.
func NewNullDriver() Driver { return nullDriver{} }

func (nullDriver) Name() string { return "null" }

func (nullDriver) Devices(dir Direction) []Info {
	if dir == Capture {
		return []Info{{Name: nullCaptureName}}
	}
	return []Info{{Name: nullOutputName}}
}

func (nullDriver) OpenSink(deviceName string, spec audiostream.Spec) (Sink, error) {
	if deviceName != "" && deviceName != nullOutputName {
		return nil, fmt.Errorf("%w: %q", ErrNoSuchDevice, deviceName)
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return nullSink{}, nil
}

func (nullDriver) OpenSource(deviceName string, spec audiostream.Spec) (Source, error) {
	if deviceName != "" && deviceName != nullCaptureName {
		return nil, fmt.Errorf("%w: %q", ErrNoSuchDevice, deviceName)
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return nullSource{silence: silenceByte(spec.Format)}, nil
}

// silenceByte returns the byte that encodes digital silence for a format.
// Unsigned 8-bit audio is biased, so its silence sits at the midpoint.
func silenceByte(f audiostream.SampleFormat) byte {
	if f == audiostream.FormatU8 {
		return 0x80
	}
	return 0x00
}

type nullSink struct{}

func (nullSink) WriteFrames([]byte) error { return nil }
func (nullSink) Close() error             { return nil }

type nullSource struct {
	silence byte
}

func (s nullSource) ReadFrames(p []byte) error {
	for i := range p {
		p[i] = s.silence
	}
	return nil
}

func (nullSource) Close() error { return nil }
