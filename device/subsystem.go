package device

import (
	"fmt"
	"sync"
)

// Subsystem is an initialized audio backend: the analog of bringing the
// audio layer up on one driver. Devices are opened through it and are torn
// down with it. Open/Close cycles are cheap and repeatable.
type Subsystem struct {
	drv Driver

	mu     sync.Mutex
	open   map[*Device]struct{}
	closed bool
}

// Open initializes the audio subsystem on the named driver from the default
// registry. An empty name selects the first registered driver.
func Open(driver string) (*Subsystem, error) {
	return OpenRegistry(defaultRegistry, driver)
}

// OpenRegistry initializes the audio subsystem on the named driver from a
// caller-owned registry.
func OpenRegistry(reg *Registry, driver string) (*Subsystem, error) {
	if driver == "" {
		names := reg.Drivers()
		if len(names) == 0 {
			return nil, fmt.Errorf("%w: registry is empty", ErrNoSuchDriver)
		}
		driver = names[0]
	}
	drv, err := reg.Lookup(driver)
	if err != nil {
		return nil, err
	}
	return &Subsystem{
		drv:  drv,
		open: make(map[*Device]struct{}),
	}, nil
}

// Driver returns the name of the driver the subsystem runs on.
func (s *Subsystem) Driver() string {
	return s.drv.Name()
}

// Devices enumerates the driver's devices in one direction. A closed
// subsystem has no devices.
func (s *Subsystem) Devices(dir Direction) []Info {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return nil
	}
	return s.drv.Devices(dir)
}

// DeviceName returns the name of the device at index in one direction.
// Negative and out-of-range indices fail with ErrNoSuchDevice.
func (s *Subsystem) DeviceName(index int, dir Direction) (string, error) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return "", ErrClosed
	}

	infos := s.drv.Devices(dir)
	if index < 0 || index >= len(infos) {
		return "", fmt.Errorf("%w: %s index %d out of range (%d devices)",
			ErrNoSuchDevice, dir, index, len(infos))
	}
	return infos[index].Name, nil
}

// OpenDevice opens a device on this subsystem's driver. The device starts
// paused; call Play to start the callback pump.
func (s *Subsystem) OpenDevice(cfg Config) (*Device, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	s.mu.Unlock()

	d, err := newDevice(s, cfg)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.closed {
		// Lost the race with Close; roll back.
		s.mu.Unlock()
		_ = d.Close()
		return nil, ErrClosed
	}
	s.open[d] = struct{}{}
	s.mu.Unlock()
	return d, nil
}

// forget removes a closed device from the subsystem's tracking.
func (s *Subsystem) forget(d *Device) {
	s.mu.Lock()
	delete(s.open, d)
	s.mu.Unlock()
}

// Close tears the subsystem down, closing any device still open. Close is
// idempotent.
func (s *Subsystem) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	devices := make([]*Device, 0, len(s.open))
	for d := range s.open {
		devices = append(devices, d)
	}
	s.open = nil
	s.mu.Unlock()

	var firstErr error
	for _, d := range devices {
		if err := d.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
