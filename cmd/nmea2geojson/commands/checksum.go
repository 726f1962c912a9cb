package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"nmea2geojson/internal/nmea"
)

func checksumCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checksum SENTENCE...",
		Short: "Print the computed checksum and verification outcome of each sentence",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChecksum(cmd.OutOrStdout(), args)
		},
	}
}

func runChecksum(w io.Writer, sentences []string) error {
	failed := 0
	for _, s := range sentences {
		sum, err := nmea.Checksum(s)
		if err != nil {
			failed++
			_, _ = fmt.Fprintf(w, "%s error=%v\n", s, err)
			continue
		}
		outcome, err := nmea.Verify(s)
		if err != nil {
			failed++
			_, _ = fmt.Fprintf(w, "%s checksum=%s outcome=%s reason=%v\n", s, sum, outcome, err)
			continue
		}
		_, _ = fmt.Fprintf(w, "%s checksum=%s outcome=%s\n", s, sum, outcome)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d sentences did not verify", failed, len(sentences))
	}
	return nil
}
