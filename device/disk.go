package device

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	audiostream "github.com/tphakala/go-audio-stream"
)

// diskWriterName is the single playback device the disk driver exposes.
const diskWriterName = "Disk Writer"

// diskDriver records playback into WAV files, one file per opened sink.
// Incoming audio is converted to 16-bit PCM through an audiostream.Stream
// so every valid spec can be recorded.
type diskDriver struct {
	dir string

	mu  sync.Mutex
	seq int
}

// NewDiskDriver returns a disk driver writing WAV files into dir. An empty
// dir means the current working directory.
func NewDiskDriver(dir string) Driver {
	if dir == "" {
		dir = "."
	}
	return &diskDriver{dir: dir}
}

func (d *diskDriver) Name() string { return "disk" }

func (d *diskDriver) Devices(dir Direction) []Info {
	if dir == Capture {
		return nil
	}
	return []Info{{Name: diskWriterName}}
}

func (d *diskDriver) OpenSink(deviceName string, spec audiostream.Spec) (Sink, error) {
	if deviceName != "" && deviceName != diskWriterName {
		return nil, fmt.Errorf("%w: %q", ErrNoSuchDevice, deviceName)
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	d.mu.Lock()
	d.seq++
	path := filepath.Join(d.dir, fmt.Sprintf("audio-%03d.wav", d.seq))
	d.mu.Unlock()

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}

	// Same rate and channel count, 16-bit little-endian samples: the
	// conversion is purely a format rewrite and completes per write.
	conv, err := audiostream.New(spec, audiostream.Spec{
		Format:   audiostream.FormatS16LE,
		Channels: spec.Channels,
		Rate:     spec.Rate,
	})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("create conversion stream: %w", err)
	}

	const wavFormatPCM = 1
	return &diskSink{
		file: f,
		enc:  wav.NewEncoder(f, spec.Rate, 16, spec.Channels, wavFormatPCM),
		conv: conv,
		format: &audio.Format{
			NumChannels: spec.Channels,
			SampleRate:  spec.Rate,
		},
	}, nil
}

func (d *diskDriver) OpenSource(string, audiostream.Spec) (Source, error) {
	return nil, fmt.Errorf("%w: disk capture", ErrUnsupported)
}

type diskSink struct {
	file   *os.File
	enc    *wav.Encoder
	conv   *audiostream.Stream
	format *audio.Format

	scratch []byte
	ints    []int
}

func (s *diskSink) WriteFrames(p []byte) error {
	if _, err := s.conv.Write(p); err != nil {
		return fmt.Errorf("convert frames: %w", err)
	}

	for s.conv.Available() > 0 {
		n := s.conv.Available()
		if cap(s.scratch) < n {
			s.scratch = make([]byte, n)
		}
		read, err := s.conv.Read(s.scratch[:n])
		if err != nil {
			return fmt.Errorf("drain conversion: %w", err)
		}
		if read == 0 {
			break
		}
		if err := s.writeSamples(s.scratch[:read]); err != nil {
			return err
		}
	}
	return nil
}

// writeSamples hands little-endian 16-bit bytes to the WAV encoder.
func (s *diskSink) writeSamples(raw []byte) error {
	n := len(raw) / 2
	if cap(s.ints) < n {
		s.ints = make([]int, n)
	}
	data := s.ints[:n]
	for i := range n {
		data[i] = int(int16(binary.LittleEndian.Uint16(raw[i*2:])))
	}

	buf := &audio.IntBuffer{
		Format:         s.format,
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := s.enc.Write(buf); err != nil {
		return fmt.Errorf("write wav samples: %w", err)
	}
	return nil
}

func (s *diskSink) Close() error {
	_ = s.conv.Close()
	if err := s.enc.Close(); err != nil {
		_ = s.file.Close()
		return fmt.Errorf("finalize wav: %w", err)
	}
	if err := s.file.Close(); err != nil {
		return fmt.Errorf("close wav file: %w", err)
	}
	return nil
}
