package commands

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/spf13/cobra"

	"nmea2geojson/internal/geojson"
	"nmea2geojson/internal/nmea"
	"nmea2geojson/internal/source"
	"nmea2geojson/internal/track"
)

// progressEvery is how many input lines pass between progress dots.
const progressEvery = 100

type convertOptions struct {
	Path     string
	Output   string
	ID       int
	SkipVoid bool
	Verbose  bool
}

func convertCmd() *cobra.Command {
	var opts convertOptions
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert an NMEA log file into a GeoJSON MultiLineString feature",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd.Context(), opts, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	cmd.Flags().StringVarP(&opts.Path, "file", "f", "", "NMEA input file (- for stdin)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write GeoJSON here instead of stdout")
	cmd.Flags().IntVar(&opts.ID, "id", 2, "feature id property")
	cmd.Flags().BoolVar(&opts.SkipVoid, "skip-void", false, "drop RMC positions flagged void")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log rejected lines to stderr")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func runConvert(ctx context.Context, opts convertOptions, stdin io.Reader, stdout, stderr io.Writer) error {
	var logger nmea.Logger
	if opts.Verbose {
		logger = log.New(stderr, "nmea: ", 0)
	}
	coll := track.New(nmea.NewParser(logger), track.Options{SkipVoid: opts.SkipVoid, Logger: logger})

	src := &source.File{Path: opts.Path, Stdin: stdin}
	count := 0
	err := src.Run(ctx, func(line string) error {
		count++
		if count%progressEvery == 0 {
			_, _ = fmt.Fprint(stderr, ".")
		}
		coll.Add(line)
		return nil
	})
	if count >= progressEvery {
		_, _ = fmt.Fprintln(stderr)
	}
	if err != nil {
		return err
	}

	feature := coll.Feature(opts.ID)
	if opts.Output != "" {
		return writeFeatureFile(opts.Output, feature)
	}
	return geojson.Encode(stdout, feature)
}
