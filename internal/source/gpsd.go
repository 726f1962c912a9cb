package source

import (
	"strings"
	"time"
)

const gpsdDefaultAddr = "127.0.0.1:2947"

// gpsdWatchNMEA asks gpsd to pass through the receiver's raw NMEA sentences.
// gpsd still emits a few JSON status objects (VERSION, DEVICES, WATCH) first.
const gpsdWatchNMEA = "?WATCH={\"enable\":true,\"nmea\":true}\n"

// NewGPSD returns a line client for a gpsd daemon in NMEA pass-through mode.
func NewGPSD(addr string, reconnectDelay time.Duration) (*LineClient, error) {
	if strings.TrimSpace(addr) == "" {
		addr = gpsdDefaultAddr
	}
	return NewLineClient(LineClientConfig{
		Name:           "gpsd",
		Addr:           addr,
		ReconnectDelay: reconnectDelay,
		Greeting:       []byte(gpsdWatchNMEA),
		NMEAOnly:       true,
	})
}
