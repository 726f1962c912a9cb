package source

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
)

// Serial reads a GNSS receiver attached over USB/UART.
//
// u-blox and similar receivers typically appear as /dev/ttyACM* and output
// NMEA at 9600 baud by default. Device may be empty to auto-detect.
type Serial struct {
	Device string
	Baud   int
}

func (s *Serial) Run(ctx context.Context, onLine LineFunc) error {
	device := strings.TrimSpace(s.Device)
	if device == "" {
		device = autoDetectDevice()
		if device == "" {
			return fmt.Errorf("serial auto-detect failed: no /dev/ttyACM* or /dev/ttyUSB* found")
		}
	}
	baud := s.Baud
	if baud == 0 {
		baud = 9600
	}

	port, err := openSerial(device, baud)
	if err != nil {
		return fmt.Errorf("serial open failed device=%s baud=%d: %w", device, baud, err)
	}
	log.Printf("serial enabled device=%s baud=%d", device, baud)

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
		// Unblocks a pending read.
		_ = port.Close()
	}()

	err = readLines(ctx, port, func(line string) error {
		// Some receivers include non-NMEA chatter; filter quickly.
		if !strings.HasPrefix(line, "$") {
			return nil
		}
		return onLine(line)
	})
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

func autoDetectDevice() string {
	candidates := []string{}
	for i := 0; i < 10; i++ {
		candidates = append(candidates, fmt.Sprintf("/dev/ttyACM%d", i))
	}
	for i := 0; i < 10; i++ {
		candidates = append(candidates, fmt.Sprintf("/dev/ttyUSB%d", i))
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
