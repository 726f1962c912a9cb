package source

import (
	"context"
	"fmt"
	"os"
	"time"

	"nmea2geojson/internal/replay"
)

// Replay plays back a log written by replay.Writer with its original timing.
type Replay struct {
	Path  string
	Speed float64
	Loop  bool

	// Sleeper overrides the ctx-aware sleeper (tests).
	Sleeper replay.Sleeper
}

type ctxSleeper struct{ ctx context.Context }

func (s ctxSleeper) Sleep(d time.Duration) { sleepCtx(s.ctx, d) }

func (r *Replay) Run(ctx context.Context, onLine LineFunc) error {
	f, err := os.Open(r.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s not found", r.Path)
		}
		return err
	}
	recs, err := replay.NewReader(f).ReadAll()
	_ = f.Close()
	if err != nil {
		return err
	}

	speed := r.Speed
	if speed == 0 {
		speed = 1
	}
	sleeper := r.Sleeper
	if sleeper == nil {
		sleeper = ctxSleeper{ctx: ctx}
	}

	return replay.Play(recs, speed, r.Loop, sleeper, func(line string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return onLine(line)
	})
}
