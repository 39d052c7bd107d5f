// Command audio-info lists the registered audio drivers, their devices,
// and the supported sample formats.
//
// Usage:
//
//	audio-info              # all drivers, all devices, format table
//	audio-info -driver oto  # focus one driver
package main

import (
	"flag"
	"fmt"
	"log"

	audiostream "github.com/tphakala/go-audio-stream"
	"github.com/tphakala/go-audio-stream/device"
	"github.com/tphakala/go-audio-stream/device/otodriver"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	driverFlag := flag.String("driver", "", "Show only this driver")
	flag.Parse()

	// The oto bridge stays out of the default registry; an enumeration
	// tool is the place to surface it.
	if err := otodriver.Register(); err != nil {
		log.Printf("oto driver unavailable: %v", err)
	}

	names := device.Drivers()
	if *driverFlag != "" {
		names = []string{*driverFlag}
	}

	fmt.Println("Drivers:")
	for _, name := range names {
		drv, err := device.Default().Lookup(name)
		if err != nil {
			return err
		}
		fmt.Printf("  %s\n", name)
		for _, dir := range []device.Direction{device.Playback, device.Capture} {
			infos := drv.Devices(dir)
			if len(infos) == 0 {
				fmt.Printf("    %-8s (none)\n", dir)
				continue
			}
			for _, info := range infos {
				fmt.Printf("    %-8s %s\n", dir, info.Name)
			}
		}
	}

	fmt.Println("\nSample formats:")
	fmt.Printf("  %-6s %5s %7s %7s %6s\n", "name", "bits", "signed", "endian", "float")
	formats := []audiostream.SampleFormat{
		audiostream.FormatU8, audiostream.FormatS8,
		audiostream.FormatS16LE, audiostream.FormatS16BE,
		audiostream.FormatS32LE, audiostream.FormatS32BE,
		audiostream.FormatF32LE, audiostream.FormatF32BE,
	}
	for _, f := range formats {
		endian := "little"
		switch {
		case f.BitDepth() == 8:
			endian = "-"
		case f.IsBigEndian():
			endian = "big"
		}
		fmt.Printf("  %-6s %5d %7t %7s %6t\n", f, f.BitDepth(), f.IsSigned(), endian, f.IsFloat())
	}
	fmt.Printf("\nNative order: S16 is %s, S32 is %s, F32 is %s\n",
		audiostream.FormatS16Native, audiostream.FormatS32Native, audiostream.FormatF32Native)
	return nil
}
