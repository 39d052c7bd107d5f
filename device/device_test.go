package device

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audiostream "github.com/tphakala/go-audio-stream"
)

// testSpec is a cheap spec for pump tests: small frames, fast ticks.
var testSpec = audiostream.Spec{
	Format:   audiostream.FormatS16LE,
	Channels: 2,
	Rate:     48000,
}

const (
	testBufferFrames = 64
	waitFor          = 2 * time.Second
	tick             = 2 * time.Millisecond
)

func TestRegistryRegistrationOrder(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(nullDriver{}))
	require.NoError(t, reg.Register(NewDiskDriver(t.TempDir())))

	assert.Equal(t, []string{"null", "disk"}, reg.Drivers())

	err := reg.Register(nullDriver{})
	require.Error(t, err, "duplicate registration must fail")

	_, err = reg.Lookup("missing")
	assert.ErrorIs(t, err, ErrNoSuchDriver)

	d, err := reg.Lookup("null")
	require.NoError(t, err)
	assert.Equal(t, "null", d.Name())
}

func TestDefaultRegistryHasBuiltins(t *testing.T) {
	names := Drivers()
	require.GreaterOrEqual(t, len(names), 2)
	assert.Equal(t, "null", names[0], "null driver must be the default")
	assert.Contains(t, names, "disk")
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open("bogus")
	assert.ErrorIs(t, err, ErrNoSuchDriver)
}

func TestOpenEmptyNamePicksFirstDriver(t *testing.T) {
	sub, err := Open("")
	require.NoError(t, err)
	defer sub.Close()

	assert.Equal(t, "null", sub.Driver())
}

func TestSubsystemDeviceEnumeration(t *testing.T) {
	sub, err := Open("null")
	require.NoError(t, err)
	defer sub.Close()

	for _, dir := range []Direction{Playback, Capture} {
		infos := sub.Devices(dir)
		require.Len(t, infos, 1, "null driver exposes one %s device", dir)
		assert.NotEmpty(t, infos[0].Name)

		name, err := sub.DeviceName(0, dir)
		require.NoError(t, err)
		assert.Equal(t, infos[0].Name, name)
	}
}

func TestSubsystemDeviceNameOutOfRange(t *testing.T) {
	sub, err := Open("null")
	require.NoError(t, err)
	defer sub.Close()

	for _, index := range []int{-1, -5, 1, 100} {
		_, err := sub.DeviceName(index, Playback)
		assert.ErrorIs(t, err, ErrNoSuchDevice, "index %d", index)
	}
}

func TestConfigValidate(t *testing.T) {
	valid := Config{
		Spec:     testSpec,
		Callback: func([]byte) {},
	}
	require.NoError(t, valid.Validate())

	noCallback := valid
	noCallback.Callback = nil
	assert.Error(t, noCallback.Validate())

	badSpec := valid
	badSpec.Spec = audiostream.Spec{}
	err := badSpec.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, audiostream.ErrInvalidSpec)

	negative := valid
	negative.BufferFrames = -1
	assert.Error(t, negative.Validate())
}

func TestDevicePlayPauseLifecycle(t *testing.T) {
	sub, err := Open("null")
	require.NoError(t, err)
	defer sub.Close()

	var calls atomic.Int64
	dev, err := sub.OpenDevice(Config{
		Direction:    Playback,
		Spec:         testSpec,
		BufferFrames: testBufferFrames,
		Callback:     func([]byte) { calls.Add(1) },
	})
	require.NoError(t, err)
	defer dev.Close()

	// Devices open paused and deliver no callbacks.
	assert.Equal(t, StatusPaused, dev.Status())
	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, calls.Load(), "paused device must not invoke the callback")

	dev.Play()
	assert.Equal(t, StatusPlaying, dev.Status())
	require.Eventually(t, func() bool { return calls.Load() > 0 }, waitFor, tick,
		"playing device must invoke the callback")

	dev.Pause()
	assert.Equal(t, StatusPaused, dev.Status())
	time.Sleep(20 * time.Millisecond) // let an in-flight cycle finish
	paused := calls.Load()
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, paused, calls.Load(), "paused device must stop invoking the callback")

	// Play resumes counting.
	dev.Play()
	require.Eventually(t, func() bool { return calls.Load() > paused }, waitFor, tick)

	require.NoError(t, dev.Close())
	assert.Equal(t, StatusStopped, dev.Status())
	require.NoError(t, dev.Close(), "Close must be idempotent")

	// Play after close stays stopped.
	dev.Play()
	assert.Equal(t, StatusStopped, dev.Status())
}

func TestDeviceLockBlocksCallback(t *testing.T) {
	sub, err := Open("null")
	require.NoError(t, err)
	defer sub.Close()

	var calls atomic.Int64
	dev, err := sub.OpenDevice(Config{
		Direction:    Playback,
		Spec:         testSpec,
		BufferFrames: testBufferFrames,
		Callback:     func([]byte) { calls.Add(1) },
	})
	require.NoError(t, err)
	defer dev.Close()

	dev.Play()
	require.Eventually(t, func() bool { return calls.Load() > 0 }, waitFor, tick)

	dev.Lock()
	locked := calls.Load()
	time.Sleep(100 * time.Millisecond)
	frozen := calls.Load()
	dev.Unlock()

	assert.Equal(t, locked, frozen, "held lock must freeze the callback counter")
	require.Eventually(t, func() bool { return calls.Load() > frozen }, waitFor, tick,
		"callbacks must resume after Unlock")
}

func TestDeviceCaptureDeliversSilence(t *testing.T) {
	sub, err := Open("null")
	require.NoError(t, err)
	defer sub.Close()

	spec := audiostream.Spec{Format: audiostream.FormatU8, Channels: 1, Rate: 48000}
	captured := make(chan []byte, 1)
	dev, err := sub.OpenDevice(Config{
		Direction:    Capture,
		Spec:         spec,
		BufferFrames: testBufferFrames,
		Callback: func(buf []byte) {
			select {
			case captured <- append([]byte(nil), buf...):
			default:
			}
		},
	})
	require.NoError(t, err)
	defer dev.Close()

	dev.Play()
	select {
	case buf := <-captured:
		require.Len(t, buf, testBufferFrames*spec.FrameBytes())
		for i, b := range buf {
			require.Equal(t, byte(0x80), b, "byte %d: U8 silence is 0x80", i)
		}
	case <-time.After(waitFor):
		t.Fatal("capture callback never fired")
	}
}

func TestSubsystemCloseClosesDevices(t *testing.T) {
	sub, err := Open("null")
	require.NoError(t, err)

	dev, err := sub.OpenDevice(Config{
		Direction:    Playback,
		Spec:         testSpec,
		BufferFrames: testBufferFrames,
		Callback:     func([]byte) {},
	})
	require.NoError(t, err)

	require.NoError(t, sub.Close())
	assert.Equal(t, StatusStopped, dev.Status())

	require.NoError(t, sub.Close(), "Close must be idempotent")

	_, err = sub.OpenDevice(Config{
		Direction:    Playback,
		Spec:         testSpec,
		BufferFrames: testBufferFrames,
		Callback:     func([]byte) {},
	})
	assert.ErrorIs(t, err, ErrClosed)

	_, err = sub.DeviceName(0, Playback)
	assert.ErrorIs(t, err, ErrClosed)
	assert.Nil(t, sub.Devices(Playback))
}

func TestSubsystemReopenCycles(t *testing.T) {
	for range 3 {
		sub, err := Open("null")
		require.NoError(t, err)
		assert.Equal(t, "null", sub.Driver())
		require.NoError(t, sub.Close())
	}
}

func TestDirectionString(t *testing.T) {
	assert.Equal(t, "playback", Playback.String())
	assert.Equal(t, "capture", Capture.String())
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "stopped", StatusStopped.String())
	assert.Equal(t, "paused", StatusPaused.String())
	assert.Equal(t, "playing", StatusPlaying.String())
}

func TestNullDriverUnknownDeviceNames(t *testing.T) {
	drv := nullDriver{}

	_, err := drv.OpenSink("No Such Output", testSpec)
	assert.ErrorIs(t, err, ErrNoSuchDevice)

	_, err = drv.OpenSource("No Such Capture", testSpec)
	assert.ErrorIs(t, err, ErrNoSuchDevice)
}

func TestNullDriverRejectsInvalidSpec(t *testing.T) {
	drv := nullDriver{}

	_, err := drv.OpenSink("", audiostream.Spec{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, audiostream.ErrInvalidSpec))
}
