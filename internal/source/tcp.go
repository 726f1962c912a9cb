package source

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"
)

type LineClientConfig struct {
	Name string
	Addr string

	ReconnectDelay time.Duration
	MaxLineBytes   int

	// DialTimeout is used for the initial TCP connect.
	DialTimeout time.Duration

	// Greeting is written after every connect (e.g. a gpsd WATCH command).
	Greeting []byte
	// NMEAOnly drops lines that do not start with '$'.
	NMEAOnly bool
}

// LineClient reads newline-delimited NMEA from a TCP feed and reconnects
// after failures until its context is cancelled.
type LineClient struct {
	cfg LineClientConfig

	running atomic.Bool

	mu       sync.RWMutex
	state    string
	lastErr  string
	lastSeen time.Time
	count    uint64
}

func NewLineClient(cfg LineClientConfig) (*LineClient, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("line client name is required")
	}
	if cfg.Addr == "" {
		return nil, fmt.Errorf("line client addr is required")
	}
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = 1 * time.Second
	}
	if cfg.MaxLineBytes <= 0 {
		cfg.MaxLineBytes = 64 * 1024
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 2 * time.Second
	}
	return &LineClient{cfg: cfg, state: "stopped"}, nil
}

// Run blocks until ctx is cancelled. Errors returned by onLine are recorded
// in the snapshot and do not stop the client.
func (c *LineClient) Run(ctx context.Context, onLine LineFunc) error {
	if c == nil {
		return fmt.Errorf("line client is nil")
	}
	if onLine == nil {
		return fmt.Errorf("line onLine is nil")
	}
	if c.running.Swap(true) {
		return fmt.Errorf("line client already running")
	}
	defer c.running.Store(false)

	c.runLoop(ctx, onLine)
	return ctx.Err()
}

func (c *LineClient) Snapshot(nowUTC time.Time) LineSnapshot {
	if c == nil {
		return LineSnapshot{}
	}
	c.mu.RLock()
	state := c.state
	lastErr := c.lastErr
	lastSeen := c.lastSeen
	count := c.count
	c.mu.RUnlock()

	out := LineSnapshot{
		Name:      c.cfg.Name,
		Addr:      c.cfg.Addr,
		State:     state,
		LastError: lastErr,
		Lines:     count,
	}
	if !lastSeen.IsZero() {
		out.LastSeenUTC = lastSeen.UTC().Format(time.RFC3339Nano)
	}
	return out
}

func (c *LineClient) runLoop(ctx context.Context, onLine LineFunc) {
	dialer := &net.Dialer{Timeout: c.cfg.DialTimeout}

	for {
		select {
		case <-ctx.Done():
			c.setState("stopped", "")
			return
		default:
		}

		c.setState("connecting", "")
		conn, err := dialer.DialContext(ctx, "tcp", c.cfg.Addr)
		if err != nil {
			c.setState("error", err.Error())
			if !sleepCtx(ctx, c.cfg.ReconnectDelay) {
				c.setState("stopped", "")
				return
			}
			continue
		}

		if len(c.cfg.Greeting) > 0 {
			if _, err := conn.Write(c.cfg.Greeting); err != nil {
				_ = conn.Close()
				c.setState("error", fmt.Sprintf("greeting failed: %v", err))
				if !sleepCtx(ctx, c.cfg.ReconnectDelay) {
					c.setState("stopped", "")
					return
				}
				continue
			}
		}

		c.setState("connected", "")
		stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
		reader := bufio.NewReader(conn)

		for {
			line, err := reader.ReadBytes('\n')
			if err != nil {
				_ = conn.Close()
				if ctx.Err() != nil {
					stop()
					c.setState("stopped", "")
					return
				}
				if errors.Is(err, net.ErrClosed) {
					c.setState("disconnected", "")
				} else {
					c.setState("disconnected", err.Error())
				}
				break
			}

			if len(line) > c.cfg.MaxLineBytes {
				c.setState("error", fmt.Sprintf("line too large (%d bytes)", len(line)))
				continue
			}
			line = bytes.TrimSpace(line)
			if len(line) == 0 {
				continue
			}
			if c.cfg.NMEAOnly && line[0] != '$' {
				continue
			}

			if err := onLine(string(line)); err != nil {
				c.setState("error", "handler: "+err.Error())
				continue
			}

			now := time.Now().UTC()
			c.mu.Lock()
			c.lastSeen = now
			c.count++
			c.mu.Unlock()
		}
		stop()

		if !sleepCtx(ctx, c.cfg.ReconnectDelay) {
			c.setState("stopped", "")
			return
		}
	}
}

func (c *LineClient) setState(state string, lastErr string) {
	c.mu.Lock()
	c.state = state
	if lastErr != "" {
		c.lastErr = lastErr
	} else if state == "connected" || state == "connecting" || state == "stopped" {
		// Clear stale errors on healthy/neutral states.
		c.lastErr = ""
	}
	c.mu.Unlock()
}
