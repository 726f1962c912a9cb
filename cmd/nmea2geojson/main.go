package main

import (
	"os"

	"nmea2geojson/cmd/nmea2geojson/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
