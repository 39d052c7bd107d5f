// Command wav-convert rewrites a WAV file to a different channel count
// or sample rate.
//
// Usage:
//
//	wav-convert -rate 48000 input.wav output.wav
//	wav-convert -rate 22050 -channels 1 stereo.wav mono.wav
//	wav-convert -channels 2 mono.wav stereo.wav
//
// Input must be 16-bit PCM; the output is written as 16-bit PCM.
package main

import (
	"encoding/binary"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	audiostream "github.com/tphakala/go-audio-stream"
)

const (
	// Frames decoded per chunk. Larger chunks cut decoder overhead.
	chunkFrames = 8192

	bitDepth16   = 16
	wavFormatPCM = 1
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	rate := flag.Int("rate", 0, "Target sample rate in Hz (0 keeps the input rate)")
	channels := flag.Int("channels", 0, "Target channel count (0 keeps the input layout)")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	args := flag.Args()
	if len(args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] input.wav output.wav\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -rate 48000 input.wav output.wav    # Resample to 48kHz\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -channels 1 stereo.wav mono.wav     # Fold to mono\n", os.Args[0])
		return fmt.Errorf("insufficient arguments")
	}

	return convertWAV(args[0], args[1], *rate, *channels, *verbose)
}

func convertWAV(inPath, outPath string, rate, channels int, verbose bool) (err error) {
	in, err := os.Open(inPath)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	dec := wav.NewDecoder(in)
	if !dec.IsValidFile() {
		return fmt.Errorf("%s is not a valid WAV file", inPath)
	}
	if int(dec.BitDepth) != bitDepth16 {
		return fmt.Errorf("only 16-bit PCM input is supported, got %d-bit", dec.BitDepth)
	}
	format := dec.Format()

	src := audiostream.Spec{
		Format:   audiostream.FormatS16LE,
		Channels: format.NumChannels,
		Rate:     format.SampleRate,
	}
	dst := src
	if rate > 0 {
		dst.Rate = rate
	}
	if channels > 0 {
		dst.Channels = channels
	}
	if dst == src {
		return fmt.Errorf("input already matches the requested layout (%s)", src)
	}

	if verbose {
		log.Printf("Input: %s (%s)", inPath, src)
		log.Printf("Output: %s (%s)", outPath, dst)
	}

	stream, err := audiostream.New(src, dst)
	if err != nil {
		return err
	}
	defer func() { _ = stream.Close() }()

	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	enc := wav.NewEncoder(out, dst.Rate, bitDepth16, dst.Channels, wavFormatPCM)
	// Close in encoder-then-file order; the encoder rewrites the header.
	defer func() {
		if closeErr := enc.Close(); err == nil {
			err = closeErr
		}
		if closeErr := out.Close(); err == nil {
			err = closeErr
		}
	}()

	sink := &wavSink{
		enc:    enc,
		format: &audio.Format{NumChannels: dst.Channels, SampleRate: dst.Rate},
	}

	intBuf := &audio.IntBuffer{
		Format:         format,
		Data:           make([]int, chunkFrames*src.Channels),
		SourceBitDepth: bitDepth16,
	}
	raw := make([]byte, chunkFrames*src.FrameBytes())
	var inFrames, outFrames int64

	for {
		n, err := dec.PCMBuffer(intBuf)
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read %s: %w", inPath, err)
		}
		if n == 0 {
			break
		}

		samples := intBuf.Data[:n*src.Channels]
		chunk := raw[:len(samples)*2]
		for i, s := range samples {
			binary.LittleEndian.PutUint16(chunk[i*2:], uint16(int16(s)))
		}
		if _, err := stream.Write(chunk); err != nil {
			return err
		}
		inFrames += int64(n)

		wrote, err := sink.drain(stream)
		if err != nil {
			return err
		}
		outFrames += wrote
	}

	if err := stream.Flush(); err != nil {
		return err
	}
	wrote, err := sink.drain(stream)
	if err != nil {
		return err
	}
	outFrames += wrote

	fmt.Printf("Converted %s -> %s\n", filepath.Base(inPath), filepath.Base(outPath))
	fmt.Printf("  %s -> %s\n", src, dst)
	fmt.Printf("  %d frames -> %d frames\n", inFrames, outFrames)
	return nil
}

// wavSink moves converted S16LE bytes from the stream into the encoder.
type wavSink struct {
	enc    *wav.Encoder
	format *audio.Format
	buf    []byte
	ints   []int
}

func (w *wavSink) drain(stream *audiostream.Stream) (int64, error) {
	var frames int64
	for {
		n := stream.Available()
		if n == 0 {
			return frames, nil
		}
		if cap(w.buf) < n {
			w.buf = make([]byte, n)
		}
		got, err := stream.Read(w.buf[:n])
		if err != nil && !errors.Is(err, io.EOF) {
			return frames, err
		}
		if got == 0 {
			return frames, nil
		}

		count := got / 2
		if cap(w.ints) < count {
			w.ints = make([]int, count)
		}
		ints := w.ints[:count]
		for i := range ints {
			ints[i] = int(int16(binary.LittleEndian.Uint16(w.buf[i*2:])))
		}
		if err := w.enc.Write(&audio.IntBuffer{
			Format:         w.format,
			Data:           ints,
			SourceBitDepth: bitDepth16,
		}); err != nil {
			return frames, err
		}
		frames += int64(count / w.format.NumChannels)
	}
}
