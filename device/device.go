// Package device layers a small driver model over the audiostream package:
// a registry of named backends, a subsystem handle per initialized driver,
// and callback-driven playback and capture devices with pause, lock and
// status semantics.
//
// Built-in drivers are "null" (discards playback, captures silence) and
// "disk" (records playback into WAV files). Real audio output lives in the
// optional otodriver subpackage and registers itself the same way.
package device

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	audiostream "github.com/tphakala/go-audio-stream"
)

// defaultBufferFrames is the device buffer length used when Config leaves
// BufferFrames zero.
const defaultBufferFrames = 4096

// Status describes the callback pump state of a device.
type Status int32

// Device states. A freshly opened device is paused; a closed or failed
// device is stopped.
const (
	StatusStopped Status = iota
	StatusPaused
	StatusPlaying
)

// String returns "stopped", "paused" or "playing".
func (s Status) String() string {
	switch s {
	case StatusPaused:
		return "paused"
	case StatusPlaying:
		return "playing"
	default:
		return "stopped"
	}
}

// Config describes a device to open.
type Config struct {
	// Device names the driver device; empty selects the driver default.
	Device string

	// Direction selects playback or capture.
	Direction Direction

	// Spec is the PCM layout the callback exchanges with the device.
	Spec audiostream.Spec

	// BufferFrames is the callback buffer length in frames. Zero means
	// defaultBufferFrames.
	BufferFrames int

	// Callback fills the buffer on playback devices and consumes it on
	// capture devices. It runs on the device pump goroutine, paced at the
	// spec rate, and never concurrently with a held Lock.
	Callback func(buf []byte)
}

// Validate reports whether the config can open a device.
func (c *Config) Validate() error {
	if err := c.Spec.Validate(); err != nil {
		return fmt.Errorf("device spec: %w", err)
	}
	if c.BufferFrames < 0 {
		return fmt.Errorf("buffer frames %d must not be negative", c.BufferFrames)
	}
	if c.Callback == nil {
		return fmt.Errorf("callback must not be nil")
	}
	return nil
}

// Device is an open playback or capture endpoint. Its callback runs on a
// dedicated pump goroutine while the device is playing.
type Device struct {
	sub          *Subsystem
	spec         audiostream.Spec
	dir          Direction
	bufferFrames int
	callback     func([]byte)

	sink   Sink
	source Source

	// cbMu serializes the callback with Lock/Unlock holders.
	cbMu sync.Mutex

	status  atomic.Int32
	pumpErr atomic.Value // error

	stop      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
	closeErr  error
}

func newDevice(sub *Subsystem, cfg Config) (*Device, error) {
	d := &Device{
		sub:          sub,
		spec:         cfg.Spec,
		dir:          cfg.Direction,
		bufferFrames: cfg.BufferFrames,
		callback:     cfg.Callback,
		stop:         make(chan struct{}),
	}
	if d.bufferFrames == 0 {
		d.bufferFrames = defaultBufferFrames
	}

	var err error
	switch cfg.Direction {
	case Capture:
		d.source, err = sub.drv.OpenSource(cfg.Device, cfg.Spec)
	default:
		d.sink, err = sub.drv.OpenSink(cfg.Device, cfg.Spec)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s device: %w", cfg.Direction, err)
	}

	d.status.Store(int32(StatusPaused))
	d.wg.Add(1)
	go d.pump()
	return d, nil
}

// Spec returns the PCM layout the device was opened with.
func (d *Device) Spec() audiostream.Spec {
	return d.spec
}

// BufferFrames returns the callback buffer length in frames.
func (d *Device) BufferFrames() int {
	return d.bufferFrames
}

// Status returns the current pump state.
func (d *Device) Status() Status {
	return Status(d.status.Load())
}

// Play starts callback delivery on a paused device. Playing and stopped
// devices are unaffected.
func (d *Device) Play() {
	d.status.CompareAndSwap(int32(StatusPaused), int32(StatusPlaying))
}

// Pause suspends callback delivery on a playing device. Paused and stopped
// devices are unaffected.
func (d *Device) Pause() {
	d.status.CompareAndSwap(int32(StatusPlaying), int32(StatusPaused))
}

// Lock blocks the device callback until Unlock. While held, the pump will
// not invoke the callback, so state the callback touches may be mutated
// safely.
func (d *Device) Lock() {
	d.cbMu.Lock()
}

// Unlock releases a held Lock.
func (d *Device) Unlock() {
	d.cbMu.Unlock()
}

// Err returns the driver error that stopped the device, if any.
func (d *Device) Err() error {
	if err, ok := d.pumpErr.Load().(error); ok {
		return err
	}
	return nil
}

// Close stops the pump, closes the driver endpoint and detaches the device
// from its subsystem. Close is idempotent. It must not be called while
// holding Lock.
func (d *Device) Close() error {
	d.closeOnce.Do(func() {
		d.status.Store(int32(StatusStopped))
		close(d.stop)
		d.wg.Wait()

		if d.sink != nil {
			d.closeErr = d.sink.Close()
		}
		if d.source != nil {
			d.closeErr = d.source.Close()
		}
		d.sub.forget(d)
	})
	return d.closeErr
}

// fail records a driver error and stops the device.
func (d *Device) fail(err error) {
	d.pumpErr.Store(err)
	d.status.Store(int32(StatusStopped))
}

// pump paces the callback at the device rate, exchanging one buffer of
// bufferFrames per cycle with the driver endpoint.
func (d *Device) pump() {
	defer d.wg.Done()

	interval := time.Duration(d.bufferFrames) * time.Second / time.Duration(d.spec.Rate)
	if interval <= 0 {
		interval = time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	buf := make([]byte, d.bufferFrames*d.spec.FrameBytes())
	for {
		select {
		case <-d.stop:
			return
		case <-ticker.C:
			if d.Status() != StatusPlaying {
				continue
			}
			if d.dir == Capture {
				if err := d.source.ReadFrames(buf); err != nil {
					d.fail(fmt.Errorf("capture read: %w", err))
					return
				}
				d.cbMu.Lock()
				d.callback(buf)
				d.cbMu.Unlock()
				continue
			}
			d.cbMu.Lock()
			d.callback(buf)
			d.cbMu.Unlock()
			if err := d.sink.WriteFrames(buf); err != nil {
				d.fail(fmt.Errorf("playback write: %w", err))
				return
			}
		}
	}
}
