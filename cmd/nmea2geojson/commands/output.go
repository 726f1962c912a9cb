package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"nmea2geojson/internal/geojson"
)

// writeFeatureFile writes f next to path and renames it into place so readers
// never see a half-written document.
func writeFeatureFile(path string, f geojson.Feature) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if err := geojson.Encode(tmp, f); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("encode geojson: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}
