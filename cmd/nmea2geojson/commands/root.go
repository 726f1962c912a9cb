package commands

import (
	"github.com/spf13/cobra"
)

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "nmea2geojson",
		Short:        "Validate NMEA 0183 sentences and turn positions into GeoJSON",
		SilenceUsage: true,
	}
	root.AddCommand(convertCmd(), summaryCmd(), checksumCmd(), serveCmd())
	return root
}
