// Package commands holds the nmea2geojson command tree: convert (one-shot file
// to GeoJSON), summary, checksum and serve (live source with web, MQTT and UDP
// outputs).
package commands
