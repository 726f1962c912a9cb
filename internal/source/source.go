// Package source reads NMEA text line by line from files, serial receivers,
// TCP feeds and recorded replay logs.
package source

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"nmea2geojson/internal/config"
)

// LineFunc is called once per non-empty line, trimmed of surrounding space.
type LineFunc func(line string) error

// Source delivers lines until its input ends or ctx is cancelled.
type Source interface {
	Run(ctx context.Context, onLine LineFunc) error
}

// Reporter is implemented by sources that track connection state.
type Reporter interface {
	Snapshot(nowUTC time.Time) LineSnapshot
}

type LineSnapshot struct {
	Name        string `json:"name"`
	Addr        string `json:"addr"`
	State       string `json:"state"`
	LastError   string `json:"last_error,omitempty"`
	LastSeenUTC string `json:"last_seen_utc,omitempty"`
	Lines       uint64 `json:"lines"`
}

// New builds the source selected by cfg.Kind.
func New(cfg config.SourceConfig) (Source, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Kind)) {
	case "", "file":
		return &File{Path: cfg.Path}, nil
	case "serial":
		return &Serial{Device: cfg.Device, Baud: cfg.Baud}, nil
	case "tcp":
		return NewLineClient(LineClientConfig{Name: "nmea", Addr: cfg.Addr, ReconnectDelay: cfg.ReconnectDelay})
	case "gpsd":
		return NewGPSD(cfg.Addr, cfg.ReconnectDelay)
	case "replay":
		return &Replay{Path: cfg.Path, Speed: cfg.ReplaySpeed, Loop: cfg.ReplayLoop}, nil
	default:
		return nil, fmt.Errorf("unknown source kind %q", cfg.Kind)
	}
}

// readLines scans r until EOF, ctx cancellation or an onLine error.
func readLines(ctx context.Context, r io.Reader, onLine LineFunc) error {
	scanner := bufio.NewScanner(r)
	// NMEA sentences are typically < 82 chars, but logs can carry other chatter.
	scanner.Buffer(make([]byte, 0, 256), 64*1024)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := onLine(line); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return ctx.Err()
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
