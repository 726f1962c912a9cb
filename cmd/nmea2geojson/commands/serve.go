package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"nmea2geojson/internal/config"
	"nmea2geojson/internal/nmea"
	"nmea2geojson/internal/publish"
	"nmea2geojson/internal/replay"
	"nmea2geojson/internal/source"
	"nmea2geojson/internal/track"
	"nmea2geojson/internal/udp"
	"nmea2geojson/internal/web"
)

func serveCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Collect a live or recorded NMEA source and serve the track",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("config load failed: %w", err)
			}
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return runServe(ctx, cfg, os.Stderr)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "./dev.yaml", "path to YAML config")
	return cmd
}

// runServe wires source -> collector -> outputs and blocks until ctx is done
// or the source fails. A source that simply ends (file, non-looping replay)
// leaves the web endpoints up until ctx is done.
func runServe(ctx context.Context, cfg config.Config, logOut io.Writer) error {
	logBuf := web.NewLogBuffer(cfg.Web.LogLines)
	prevOut := log.Writer()
	log.SetOutput(io.MultiWriter(logOut, logBuf))
	defer log.SetOutput(prevOut)

	nmeaLog := log.New(log.Writer(), "nmea: ", log.LstdFlags)
	coll := track.New(nmea.NewParser(nmeaLog), track.Options{SkipVoid: cfg.GeoJSON.SkipVoid, Logger: nmeaLog})

	src, err := source.New(cfg.Source)
	if err != nil {
		return err
	}

	status := web.NewStatus(coll)
	var reporter source.Reporter
	if r, ok := src.(source.Reporter); ok {
		reporter = r
	}
	status.SetSource(cfg.Source.Kind, reporter)

	stream := web.NewFixStream()
	coll.OnFix(stream.Publish)

	if cfg.MQTT.Enable {
		pub, err := publish.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("mqtt connect failed: %w", err)
		}
		defer pub.Close()
		coll.OnFix(pub.OnFix)
	}

	var fwd *udp.Forwarder
	if cfg.Forward.Enable {
		fwd, err = udp.NewForwarder(cfg.Forward.Dest)
		if err != nil {
			return fmt.Errorf("udp forwarder init failed: %w", err)
		}
		defer fwd.Close()
		log.Printf("udp forward dest=%s", cfg.Forward.Dest)
	}

	var rec *replay.Writer
	if cfg.Record.Enable {
		rec, err = replay.CreateWriter(cfg.Record.Path)
		if err != nil {
			return fmt.Errorf("record open failed: %w", err)
		}
		defer func() {
			if err := rec.Close(); err != nil {
				log.Printf("record close failed: %v", err)
			}
		}()
		log.Printf("recording path=%s", cfg.Record.Path)
	}

	var srv *http.Server
	if cfg.Web.Listen != "" {
		srv = &http.Server{
			Addr: cfg.Web.Listen,
			Handler: web.Handler(web.Options{
				Status:    status,
				Track:     coll,
				FeatureID: cfg.GeoJSON.ID,
				Logs:      logBuf,
				Stream:    stream,
			}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			log.Printf("web listening addr=%s", cfg.Web.Listen)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("web server stopped: %v", err)
			}
		}()
	}

	log.Printf("nmea2geojson starting source=%s", cfg.Source.Kind)

	var forwardErrs uint64
	srcErr := src.Run(ctx, func(line string) error {
		if rec != nil {
			if err := rec.WriteLine(time.Now(), line); err != nil {
				log.Printf("record write failed: %v", err)
			}
		}
		coll.Add(line)
		if fwd != nil {
			if outcome, _ := nmea.Verify(line); outcome == nmea.Valid {
				if err := fwd.Send(line); err != nil {
					// Log only the first failure of a burst.
					if forwardErrs == 0 {
						log.Printf("udp forward failed: %v", err)
					}
					forwardErrs++
				} else {
					forwardErrs = 0
				}
			}
		}
		return nil
	})

	var runErr error
	switch {
	case srcErr != nil && ctx.Err() == nil:
		log.Printf("source stopped: %v", srcErr)
		runErr = srcErr
	case ctx.Err() == nil:
		snap := coll.Snapshot()
		log.Printf("source finished lines=%d positions=%d", snap.Lines, snap.Positions)
		<-ctx.Done()
	}

	log.Printf("nmea2geojson stopping")
	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		_ = srv.Shutdown(shutdownCtx)
		cancel()
	}

	if cfg.GeoJSON.Output != "" {
		if err := writeFeatureFile(cfg.GeoJSON.Output, coll.Feature(cfg.GeoJSON.ID)); err != nil {
			log.Printf("geojson write failed path=%s: %v", cfg.GeoJSON.Output, err)
			if runErr == nil {
				runErr = err
			}
		} else {
			log.Printf("geojson written path=%s", cfg.GeoJSON.Output)
		}
	}
	return runErr
}
