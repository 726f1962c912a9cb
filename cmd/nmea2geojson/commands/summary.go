package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"nmea2geojson/internal/replay"
	"nmea2geojson/internal/source"
	"nmea2geojson/internal/track"
)

type logSummary struct {
	Segments    int
	MaxDuration time.Duration
	Track       track.Snapshot
}

func summaryCmd() *cobra.Command {
	var replayLog bool
	cmd := &cobra.Command{
		Use:   "summary FILE",
		Short: "Count sentence types and rejection reasons in an NMEA file or replay log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printLogSummary(cmd.OutOrStdout(), args[0], replayLog)
		},
	}
	cmd.Flags().BoolVar(&replayLog, "replay", false, "FILE is a replay log (<t_ns>,<sentence> lines)")
	return cmd
}

func summarizeLines(ctx context.Context, path string) (logSummary, error) {
	coll := track.New(nil, track.Options{})
	err := (&source.File{Path: path}).Run(ctx, func(line string) error {
		coll.Add(line)
		return nil
	})
	if err != nil {
		return logSummary{}, err
	}
	return logSummary{Track: coll.Snapshot()}, nil
}

func summarizeReplayLog(records []replay.Record) logSummary {
	coll := track.New(nil, track.Options{})
	s := logSummary{}

	origin := time.Duration(0)
	hasLines := false
	segments := 0

	for _, r := range records {
		if r.Start {
			segments++
			origin = r.At
			continue
		}
		hasLines = true

		at := r.At - origin
		if at < 0 {
			at = 0
		}
		if at > s.MaxDuration {
			s.MaxDuration = at
		}
		coll.Add(r.Line)
	}
	if segments == 0 && hasLines {
		segments = 1
	}
	s.Segments = segments
	s.Track = coll.Snapshot()
	return s
}

func printLogSummary(w io.Writer, path string, replayLog bool) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return fmt.Errorf("path is empty")
	}

	var s logSummary
	if replayLog {
		f, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("%s not found", path)
			}
			return err
		}
		recs, err := replay.NewReader(f).ReadAll()
		_ = f.Close()
		if err != nil {
			return err
		}
		s = summarizeReplayLog(recs)
	} else {
		var err error
		s, err = summarizeLines(context.Background(), path)
		if err != nil {
			return err
		}
	}

	_, _ = fmt.Fprintf(w, "path: %s\n", path)
	if replayLog {
		_, _ = fmt.Fprintf(w, "segments: %d\n", s.Segments)
		_, _ = fmt.Fprintf(w, "max_duration: %s\n", s.MaxDuration)
	}
	_, _ = fmt.Fprintf(w, "lines: %d\n", s.Track.Lines)
	_, _ = fmt.Fprintf(w, "sentences: %d\n", s.Track.Sentences)
	_, _ = fmt.Fprintf(w, "positions: %d\n", s.Track.Positions)

	keys := make([]string, 0, len(s.Track.ByType))
	for k := range s.Track.ByType {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	_, _ = fmt.Fprintf(w, "by_type:\n")
	for _, k := range keys {
		_, _ = fmt.Fprintf(w, "  %s: %d\n", k, s.Track.ByType[k])
	}

	rej := s.Track.Rejected
	_, _ = fmt.Fprintf(w, "rejected:\n")
	_, _ = fmt.Fprintf(w, "  malformed: %d\n", rej.Malformed)
	_, _ = fmt.Fprintf(w, "  missing_checksum: %d\n", rej.MissingChecksum)
	_, _ = fmt.Fprintf(w, "  checksum_mismatch: %d\n", rej.Mismatch)
	_, _ = fmt.Fprintf(w, "  field_count: %d\n", rej.FieldCount)
	_, _ = fmt.Fprintf(w, "  unrecognized: %d\n", rej.Unrecognized)
	return nil
}
