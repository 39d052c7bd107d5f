package device

import (
	"errors"

	audiostream "github.com/tphakala/go-audio-stream"
)

// Common errors returned by the package.
var (
	// ErrNoSuchDriver is returned when looking up an unregistered driver.
	ErrNoSuchDriver = errors.New("no such audio driver")

	// ErrNoSuchDevice is returned for unknown device names or indices.
	ErrNoSuchDevice = errors.New("no such audio device")

	// ErrUnsupported is returned by drivers for directions they cannot serve.
	ErrUnsupported = errors.New("operation not supported by driver")

	// ErrClosed is returned by operations on a closed subsystem or device.
	ErrClosed = errors.New("audio subsystem closed")
)

// Direction distinguishes playback (application produces audio) from
// capture (application consumes audio).
type Direction int

// Device directions.
const (
	Playback Direction = iota
	Capture
)

// String returns "playback" or "capture".
func (d Direction) String() string {
	if d == Capture {
		return "capture"
	}
	return "playback"
}

// Info describes one enumerable device of a driver.
type Info struct {
	Name string
}

// Sink consumes interleaved PCM frames during playback. WriteFrames may
// block while the backend drains; implementations are not required to be
// goroutine-safe.
type Sink interface {
	WriteFrames(p []byte) error
	Close() error
}

// Source produces interleaved PCM frames during capture. ReadFrames fills
// the whole buffer before returning.
type Source interface {
	ReadFrames(p []byte) error
	Close() error
}

// Driver is one audio backend. Built-in drivers cover the null and disk
// backends; real output backends register themselves the same way (see the
// otodriver package).
type Driver interface {
	Name() string

	// Devices enumerates the devices available in one direction.
	Devices(dir Direction) []Info

	// OpenSink opens a playback device. An empty device name selects the
	// driver's default device.
	OpenSink(device string, spec audiostream.Spec) (Sink, error)

	// OpenSource opens a capture device. Drivers without capture support
	// return ErrUnsupported.
	OpenSource(device string, spec audiostream.Spec) (Source, error)
}
