package conformance

import (
	"errors"
	"sync/atomic"
	"time"

	audiostream "github.com/tphakala/go-audio-stream"
	"github.com/tphakala/go-audio-stream/device"
)

const (
	// pumpBufferFrames keeps the callback period short for the cases
	// that count callback invocations.
	pumpBufferFrames = 256
	settleDelay      = 25 * time.Millisecond
	freezeWindow     = 100 * time.Millisecond
	waitTimeout      = 2 * time.Second
)

// waitUntil polls cond until it holds or the timeout passes.
func waitUntil(timeout time.Duration, cond func() bool) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(2 * time.Millisecond)
	}
	return cond()
}

// openFirstDriver opens a subsystem on the registry's first driver and
// records a failure when that is impossible.
func openFirstDriver(rec *Recorder, env *Env) *device.Subsystem {
	sub, err := device.OpenRegistry(env.Registry, "")
	if !rec.Checkf(err == nil, "open subsystem: %v", err) {
		return nil
	}
	return sub
}

// runDeviceEnumeration opens every registered driver and resolves each
// enumerated device index back to a non-empty name.
func runDeviceEnumeration(rec *Recorder, env *Env) {
	for _, drvName := range env.Registry.Drivers() {
		sub, err := device.OpenRegistry(env.Registry, drvName)
		if !rec.Checkf(err == nil, "open %q: %v", drvName, err) {
			continue
		}
		for _, dir := range []device.Direction{device.Playback, device.Capture} {
			infos := sub.Devices(dir)
			rec.Logf("driver %q: %d %s devices", drvName, len(infos), dir)
			for i, info := range infos {
				name, err := sub.DeviceName(i, dir)
				if !rec.Checkf(err == nil, "%s/%s device %d: %v", drvName, dir, i, err) {
					continue
				}
				rec.Checkf(name != "", "%s/%s device %d: empty name", drvName, dir, i)
				rec.Checkf(name == info.Name,
					"%s/%s device %d: name %q, enumerated %q", drvName, dir, i, name, info.Name)
			}
		}
		rec.Checkf(sub.Close() == nil, "close %q", drvName)
	}
}

// runDeviceEnumerationNegative asks for device names at negative and
// past-the-end indices; every request must fail with ErrNoSuchDevice.
func runDeviceEnumerationNegative(rec *Recorder, env *Env) {
	sub := openFirstDriver(rec, env)
	if sub == nil {
		return
	}
	defer sub.Close()

	for _, dir := range []device.Direction{device.Playback, device.Capture} {
		n := len(sub.Devices(dir))
		for _, index := range []int{-1, -5, n, n + 100} {
			_, err := sub.DeviceName(index, dir)
			rec.Checkf(errors.Is(err, device.ErrNoSuchDevice),
				"%s index %d: got %v, want ErrNoSuchDevice", dir, index, err)
		}
	}
}

// runDriverNames checks that registry names are non-empty, unique, and
// resolve to drivers reporting the same name.
func runDriverNames(rec *Recorder, env *Env) {
	names := env.Registry.Drivers()
	if !rec.Checkf(len(names) > 0, "registry has no drivers") {
		return
	}
	seen := make(map[string]bool, len(names))
	for i, name := range names {
		rec.Checkf(name != "", "driver %d: empty name", i)
		rec.Checkf(!seen[name], "driver %d: duplicate name %q", i, name)
		seen[name] = true

		drv, err := env.Registry.Lookup(name)
		if !rec.Checkf(err == nil, "lookup %q: %v", name, err) {
			continue
		}
		rec.Checkf(drv.Name() == name, "driver %q reports name %q", name, drv.Name())
	}
}

// runCurrentDriver checks that an open subsystem names the driver it
// was opened on and that the name is a registered one.
func runCurrentDriver(rec *Recorder, env *Env) {
	sub := openFirstDriver(rec, env)
	if sub == nil {
		return
	}
	defer sub.Close()

	name := sub.Driver()
	if !rec.Checkf(name != "", "open subsystem reports empty driver name") {
		return
	}
	for _, known := range env.Registry.Drivers() {
		if known == name {
			rec.Passf("current driver %q", name)
			return
		}
	}
	rec.Failf("current driver %q not in registry list", name)
}

// runOpenCloseStatus opens a device with the standard and the custom
// configuration and walks the full status lifecycle on each.
func runOpenCloseStatus(rec *Recorder, env *Env) {
	variants := []struct {
		name string
		cfg  device.Config
	}{
		{"standard", device.Config{
			Direction:    device.Playback,
			Spec:         audiostream.Spec{Format: audiostream.FormatS16Native, Channels: 2, Rate: 22050},
			BufferFrames: 4096,
		}},
		{"custom", device.Config{
			Direction:    device.Playback,
			Spec:         audiostream.Spec{Format: audiostream.FormatF32Native, Channels: 2, Rate: 48000},
			BufferFrames: 2048,
		}},
	}

	sub := openFirstDriver(rec, env)
	if sub == nil {
		return
	}
	defer sub.Close()

	for _, v := range variants {
		cfg := v.cfg
		cfg.Callback = func([]byte) {}
		dev, err := sub.OpenDevice(cfg)
		if !rec.Checkf(err == nil, "%s: open %s: %v", v.name, cfg.Spec, err) {
			continue
		}
		rec.Checkf(dev.Status() == device.StatusPaused, "%s: opened %v, want paused", v.name, dev.Status())
		dev.Play()
		rec.Checkf(dev.Status() == device.StatusPlaying, "%s: after Play %v", v.name, dev.Status())
		dev.Pause()
		rec.Checkf(dev.Status() == device.StatusPaused, "%s: after Pause %v", v.name, dev.Status())
		rec.Checkf(dev.Err() == nil, "%s: device error %v", v.name, dev.Err())
		rec.Checkf(dev.Close() == nil, "%s: close failed", v.name)
		rec.Checkf(dev.Status() == device.StatusStopped, "%s: after Close %v", v.name, dev.Status())
	}
}

// runLockUnlock verifies that a held device lock keeps the pump from
// invoking the callback and that releasing it resumes delivery.
func runLockUnlock(rec *Recorder, env *Env) {
	sub := openFirstDriver(rec, env)
	if sub == nil {
		return
	}
	defer sub.Close()

	var calls atomic.Int64
	dev, err := sub.OpenDevice(device.Config{
		Direction:    device.Playback,
		Spec:         audiostream.Spec{Format: audiostream.FormatS16Native, Channels: 2, Rate: 48000},
		BufferFrames: pumpBufferFrames,
		Callback:     func([]byte) { calls.Add(1) },
	})
	if !rec.Checkf(err == nil, "open device: %v", err) {
		return
	}
	defer dev.Close()

	dev.Play()
	if !rec.Checkf(waitUntil(waitTimeout, func() bool { return calls.Load() > 0 }),
		"callback never ran after Play") {
		return
	}

	dev.Lock()
	frozen := calls.Load()
	time.Sleep(freezeWindow)
	held := calls.Load()
	dev.Unlock()
	rec.Checkf(held == frozen, "callback ran %d times under a held lock", held-frozen)

	rec.Checkf(waitUntil(waitTimeout, func() bool { return calls.Load() > held }),
		"callback did not resume after Unlock")
}

// runPauseUnpause counts callback invocations across the pause/play
// transitions: none while paused, some after each Play.
func runPauseUnpause(rec *Recorder, env *Env) {
	sub := openFirstDriver(rec, env)
	if sub == nil {
		return
	}
	defer sub.Close()

	var calls atomic.Int64
	dev, err := sub.OpenDevice(device.Config{
		Direction:    device.Playback,
		Spec:         audiostream.Spec{Format: audiostream.FormatS16Native, Channels: 2, Rate: 48000},
		BufferFrames: pumpBufferFrames,
		Callback:     func([]byte) { calls.Add(1) },
	})
	if !rec.Checkf(err == nil, "open device: %v", err) {
		return
	}
	defer dev.Close()

	time.Sleep(settleDelay)
	rec.Checkf(calls.Load() == 0, "%d callbacks while paused after open", calls.Load())

	dev.Play()
	if !rec.Checkf(waitUntil(waitTimeout, func() bool { return calls.Load() > 0 }),
		"callback never ran after Play") {
		return
	}

	dev.Pause()
	time.Sleep(settleDelay) // an in-flight callback may still land
	frozen := calls.Load()
	time.Sleep(freezeWindow)
	rec.Checkf(calls.Load() == frozen, "callbacks advanced by %d while paused", calls.Load()-frozen)

	dev.Play()
	rec.Checkf(waitUntil(waitTimeout, func() bool { return calls.Load() > frozen }),
		"callback did not resume after second Play")
}

// runInitQuit opens and closes the subsystem repeatedly; closed
// subsystems must reject further calls and reopening must work.
func runInitQuit(rec *Recorder, env *Env) {
	for i := range 3 {
		sub, err := device.OpenRegistry(env.Registry, "")
		if !rec.Checkf(err == nil, "cycle %d: open: %v", i, err) {
			return
		}
		rec.Checkf(sub.Driver() != "", "cycle %d: empty driver name", i)
		rec.Checkf(sub.Close() == nil, "cycle %d: close failed", i)

		_, err = sub.DeviceName(0, device.Playback)
		rec.Checkf(errors.Is(err, device.ErrClosed), "cycle %d: DeviceName after close: %v", i, err)
	}
}

// runOpenCloseCycle opens a subsystem and a device, closes both, and
// repeats. Nothing may leak from one cycle into the next.
func runOpenCloseCycle(rec *Recorder, env *Env) {
	for i := range 3 {
		sub, err := device.OpenRegistry(env.Registry, "")
		if !rec.Checkf(err == nil, "cycle %d: open subsystem: %v", i, err) {
			return
		}
		dev, err := sub.OpenDevice(device.Config{
			Direction:    device.Playback,
			Spec:         audiostream.Spec{Format: audiostream.FormatS16Native, Channels: 2, Rate: 22050},
			BufferFrames: 4096,
			Callback:     func([]byte) {},
		})
		if rec.Checkf(err == nil, "cycle %d: open device: %v", i, err) {
			rec.Checkf(dev.Status() == device.StatusPaused, "cycle %d: opened %v", i, dev.Status())
			rec.Checkf(dev.Close() == nil, "cycle %d: device close failed", i)
		}
		rec.Checkf(sub.Close() == nil, "cycle %d: subsystem close failed", i)
	}
}
