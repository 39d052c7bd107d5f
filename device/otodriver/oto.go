// Package otodriver provides a playback driver backed by the oto library.
//
// oto opens a real operating system audio context, so the driver is not
// part of the default registry. Call [Register] to make it available:
//
//	if err := otodriver.Register(); err != nil {
//		log.Fatal(err)
//	}
//	sub, err := device.Open("oto")
//
// The operating system context is created on the first sink open and pins
// the hardware sample rate and channel count for the lifetime of the
// process. Later sinks with different specs are converted to the pinned
// spec before playback.
package otodriver

import (
	"fmt"
	"io"
	"sync"

	"github.com/ebitengine/oto/v3"

	audiostream "github.com/tphakala/go-audio-stream"
	"github.com/tphakala/go-audio-stream/device"
)

const (
	driverName        = "oto"
	defaultOutputName = "System Default"
)

// Driver plays audio through the operating system via oto.
type Driver struct {
	mu     sync.Mutex
	ctx    *oto.Context
	pinned audiostream.Spec
}

var (
	_ device.Driver = (*Driver)(nil)
	_ device.Sink   = (*sink)(nil)
)

// New returns an oto-backed playback driver.
func New() *Driver {
	return &Driver{}
}

// Register adds an oto driver to the default registry.
func Register() error {
	return device.Register(New())
}

// Name returns the registry name of the driver.
func (d *Driver) Name() string {
	return driverName
}

// Devices reports the single system output endpoint. oto does not
// enumerate hardware, so capture always reports no devices.
func (d *Driver) Devices(dir device.Direction) []device.Info {
	if dir != device.Playback {
		return nil
	}
	return []device.Info{{Name: defaultOutputName}}
}

// OpenSource always fails: oto is playback only.
func (d *Driver) OpenSource(string, audiostream.Spec) (device.Source, error) {
	return nil, fmt.Errorf("%w: oto driver is playback only", device.ErrUnsupported)
}

// OpenSink opens a player for the system output. The first open creates
// the process-wide audio context at the requested rate and channel
// count; later opens convert to that pinned spec.
func (d *Driver) OpenSink(name string, spec audiostream.Spec) (device.Sink, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if name != "" && name != defaultOutputName {
		return nil, fmt.Errorf("%w: %q", device.ErrNoSuchDevice, name)
	}

	pinned, err := d.ensureContext(spec)
	if err != nil {
		return nil, err
	}

	conv, err := audiostream.New(spec, pinned)
	if err != nil {
		return nil, err
	}

	pr, pw := io.Pipe()
	d.mu.Lock()
	player := d.ctx.NewPlayer(pr)
	d.mu.Unlock()
	player.Play()

	return &sink{conv: conv, pw: pw, player: player}, nil
}

// ensureContext creates the oto context on first use and returns the
// pinned playback spec. oto allows a single context per process, so a
// second open reuses the first context regardless of its spec.
func (d *Driver) ensureContext(spec audiostream.Spec) (audiostream.Spec, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.ctx != nil {
		return d.pinned, nil
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   spec.Rate,
		ChannelCount: spec.Channels,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return audiostream.Spec{}, fmt.Errorf("create oto context: %w", err)
	}
	<-ready

	d.ctx = ctx
	d.pinned = audiostream.Spec{
		Format:   audiostream.FormatS16LE,
		Channels: spec.Channels,
		Rate:     spec.Rate,
	}
	return d.pinned, nil
}

// sink feeds converted audio to an oto player through a pipe.
type sink struct {
	conv   *audiostream.Stream
	pw     *io.PipeWriter
	player *oto.Player
	buf    []byte
}

// WriteFrames converts the frames to the pinned playback spec and
// blocks until the player has accepted them.
func (s *sink) WriteFrames(p []byte) error {
	if _, err := s.conv.Write(p); err != nil {
		return err
	}
	return s.drain()
}

// drain moves everything the conversion stream has produced into the pipe.
func (s *sink) drain() error {
	for {
		n := s.conv.Available()
		if n == 0 {
			return nil
		}
		if cap(s.buf) < n {
			s.buf = make([]byte, n)
		}
		got, err := s.conv.Read(s.buf[:n])
		if err != nil {
			return err
		}
		if got == 0 {
			return nil
		}
		if _, err := s.pw.Write(s.buf[:got]); err != nil {
			return fmt.Errorf("oto pipe: %w", err)
		}
	}
}

// Close flushes the conversion tail, hands the remainder to the player,
// and releases the player. The process-wide context stays alive.
func (s *sink) Close() error {
	flushErr := s.conv.Flush()
	if flushErr == nil {
		flushErr = s.drain()
	}
	_ = s.pw.Close()
	if err := s.player.Close(); err != nil && flushErr == nil {
		flushErr = fmt.Errorf("close oto player: %w", err)
	}
	if err := s.conv.Close(); err != nil && flushErr == nil {
		flushErr = err
	}
	return flushErr
}
