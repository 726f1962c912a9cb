//go:build !linux

package source

import (
	"io"

	"go.bug.st/serial"
)

func openSerial(path string, baud int) (io.ReadCloser, error) {
	return serial.Open(path, &serial.Mode{BaudRate: baud})
}
