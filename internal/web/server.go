package web

import (
	"bytes"
	"net/http"
	"time"

	"nmea2geojson/internal/geojson"
)

// TrackSource returns the current track as a GeoJSON feature.
type TrackSource interface {
	Feature(id int) geojson.Feature
}

type Options struct {
	Status    *Status
	Track     TrackSource
	FeatureID int
	Logs      *LogBuffer
	Stream    *FixStream
}

func Handler(opts Options) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/status", func(w http.ResponseWriter, r *http.Request) {
		if !allowGet(w, r) {
			return
		}
		if opts.Status == nil {
			http.Error(w, "status unavailable", http.StatusNotFound)
			return
		}
		writeJSON(w, opts.Status.Snapshot(time.Now().UTC()))
	})

	mux.HandleFunc("/api/track", func(w http.ResponseWriter, r *http.Request) {
		if !allowGet(w, r) {
			return
		}
		if opts.Track == nil {
			http.Error(w, "track unavailable", http.StatusNotFound)
			return
		}
		var buf bytes.Buffer
		if err := geojson.Encode(&buf, opts.Track.Feature(opts.FeatureID)); err != nil {
			http.Error(w, "encode failed: "+err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/geo+json")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write(buf.Bytes())
	})

	if opts.Logs != nil {
		mux.Handle("/api/logs", opts.Logs.Handler())
	}
	if opts.Stream != nil {
		mux.Handle("/ws", opts.Stream)
	}

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		if !allowGet(w, r) {
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("nmea2geojson\n\n/api/status\n/api/track\n/api/logs\n/ws\n"))
	})

	return mux
}

func allowGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}
