// Package track feeds NMEA lines through the parser and keeps the resulting
// positions, counters and the last fix.
package track

import (
	"errors"
	"strings"
	"sync"
	"time"

	"nmea2geojson/internal/geojson"
	"nmea2geojson/internal/nmea"
)

// Fix is one position taken from an RMC, GGA or GLL sentence.
type Fix struct {
	TalkerID    string   `json:"talker"`
	Type        string   `json:"type"`
	LatDeg      float64  `json:"lat_deg"`
	LonDeg      float64  `json:"lon_deg"`
	Time        string   `json:"time,omitempty"`
	GroundKt    *float64 `json:"ground_kt,omitempty"`
	TrackDeg    *float64 `json:"track_deg,omitempty"`
	AltM        *float64 `json:"alt_m,omitempty"`
	ReceivedUTC string   `json:"received_utc"`
}

type Rejected struct {
	Malformed       uint64 `json:"malformed"`
	MissingChecksum uint64 `json:"missing_checksum"`
	Mismatch        uint64 `json:"checksum_mismatch"`
	FieldCount      uint64 `json:"field_count"`
	Unrecognized    uint64 `json:"unrecognized"`
}

type Snapshot struct {
	Lines     uint64            `json:"lines"`
	Sentences uint64            `json:"sentences"`
	Positions uint64            `json:"positions"`
	ByType    map[string]uint64 `json:"by_type"`
	Rejected  Rejected          `json:"rejected"`
	LastFix   *Fix              `json:"last_fix,omitempty"`
	LastError string            `json:"last_error,omitempty"`
}

type Options struct {
	// SkipVoid drops RMC positions flagged V (void) by the receiver.
	SkipVoid bool
	// Logger receives the reason for every rejected line. May be nil.
	Logger nmea.Logger
}

// Collector is safe for concurrent use.
type Collector struct {
	parser *nmea.Parser
	opts   Options
	track  *geojson.Track
	now    func() time.Time

	mu        sync.Mutex
	snap      Snapshot
	listeners []func(Fix)
}

func New(parser *nmea.Parser, opts Options) *Collector {
	if parser == nil {
		parser = nmea.NewParser(opts.Logger)
	}
	return &Collector{
		parser: parser,
		opts:   opts,
		track:  geojson.NewTrack(),
		now:    time.Now,
		snap:   Snapshot{ByType: map[string]uint64{}},
	}
}

// OnFix registers fn to be called for every accepted position. fn runs on the
// caller's goroutine and should not block.
func (c *Collector) OnFix(fn func(Fix)) {
	if fn == nil {
		return
	}
	c.mu.Lock()
	c.listeners = append(c.listeners, fn)
	c.mu.Unlock()
}

// Add parses one line. It reports whether a position was appended to the track.
func (c *Collector) Add(line string) bool {
	s, err := c.parser.ParseSentence(line)

	c.mu.Lock()
	c.snap.Lines++
	if err != nil {
		c.rejectLocked(err)
		if errors.Is(err, nmea.ErrUnrecognizedType) {
			c.snap.Sentences++
			c.snap.ByType[string(s.Type)]++
		}
		c.mu.Unlock()
		c.logf("%v: %q", err, strings.TrimSpace(line))
		return false
	}
	c.snap.Sentences++
	c.snap.ByType[string(s.Type)]++

	x, y, ok := s.Position()
	if !ok {
		c.mu.Unlock()
		return false
	}
	if rmc, isRMC := s.Data.(nmea.RMC); isRMC && c.opts.SkipVoid && !rmc.Active() {
		c.mu.Unlock()
		return false
	}

	fix := fixFrom(s, x, y, c.now().UTC())
	c.track.Add(x, y)
	c.snap.Positions++
	c.snap.LastFix = &fix
	listeners := make([]func(Fix), len(c.listeners))
	copy(listeners, c.listeners)
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(fix)
	}
	return true
}

func (c *Collector) rejectLocked(err error) {
	switch {
	case errors.Is(err, nmea.ErrMissingChecksum):
		c.snap.Rejected.MissingChecksum++
	case errors.Is(err, nmea.ErrChecksumMismatch):
		c.snap.Rejected.Mismatch++
	case errors.Is(err, nmea.ErrFieldCountMismatch):
		c.snap.Rejected.FieldCount++
	case errors.Is(err, nmea.ErrUnrecognizedType):
		c.snap.Rejected.Unrecognized++
	default:
		c.snap.Rejected.Malformed++
	}
	c.snap.LastError = err.Error()
}

func (c *Collector) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.snap
	out.ByType = make(map[string]uint64, len(c.snap.ByType))
	for k, v := range c.snap.ByType {
		out.ByType[k] = v
	}
	if c.snap.LastFix != nil {
		f := *c.snap.LastFix
		out.LastFix = &f
	}
	return out
}

// Feature returns the positions collected so far as a GeoJSON feature.
func (c *Collector) Feature(id int) geojson.Feature {
	return c.track.Feature(id)
}

func (c *Collector) logf(format string, v ...any) {
	if c.opts.Logger == nil {
		return
	}
	c.opts.Logger.Printf(format, v...)
}

func fixFrom(s nmea.Sentence, x, y float64, nowUTC time.Time) Fix {
	f := Fix{
		TalkerID:    s.TalkerID,
		Type:        string(s.Type),
		LatDeg:      y,
		LonDeg:      x,
		ReceivedUTC: nowUTC.Format(time.RFC3339Nano),
	}
	switch d := s.Data.(type) {
	case nmea.RMC:
		kt := d.Knots
		trk := d.TrueCourse
		f.GroundKt = &kt
		f.TrackDeg = &trk
		f.Time = d.Timestamp
	case nmea.GGA:
		alt := d.AltitudeM
		f.AltM = &alt
		f.Time = d.Time
	case nmea.GLL:
		f.Time = d.Time
	}
	return f
}
