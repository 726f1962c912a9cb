package web

import (
	"sync/atomic"
	"time"

	"nmea2geojson/internal/source"
	"nmea2geojson/internal/track"
)

// Collector is the part of track.Collector the web UI reads.
type Collector interface {
	Snapshot() track.Snapshot
}

type Status struct {
	startUnixNano int64
	sourceKind    atomic.Value // string
	reporter      atomic.Value // reporterBox
	coll          Collector
}

type reporterBox struct{ r source.Reporter }

func NewStatus(coll Collector) *Status {
	s := &Status{coll: coll}
	atomic.StoreInt64(&s.startUnixNano, time.Now().UTC().UnixNano())
	s.sourceKind.Store("")
	s.reporter.Store(reporterBox{})
	return s
}

// SetSource records the configured source; r may be nil for sources that do
// not track connection state.
func (s *Status) SetSource(kind string, r source.Reporter) {
	s.sourceKind.Store(kind)
	s.reporter.Store(reporterBox{r: r})
}

type StatusSnapshot struct {
	Service    string               `json:"service"`
	NowUTC     string               `json:"now_utc"`
	UptimeSec  int64                `json:"uptime_sec"`
	SourceKind string               `json:"source_kind"`
	Source     *source.LineSnapshot `json:"source,omitempty"`
	Track      track.Snapshot       `json:"track"`
}

func (s *Status) Snapshot(nowUTC time.Time) StatusSnapshot {
	if nowUTC.IsZero() {
		nowUTC = time.Now().UTC()
	}
	start := time.Unix(0, atomic.LoadInt64(&s.startUnixNano)).UTC()

	snap := StatusSnapshot{
		Service:    "nmea2geojson",
		NowUTC:     nowUTC.UTC().Format(time.RFC3339Nano),
		UptimeSec:  int64(nowUTC.Sub(start).Seconds()),
		SourceKind: s.sourceKind.Load().(string),
	}
	if r := s.reporter.Load().(reporterBox).r; r != nil {
		ls := r.Snapshot(nowUTC)
		snap.Source = &ls
	}
	if s.coll != nil {
		snap.Track = s.coll.Snapshot()
	}
	return snap
}
