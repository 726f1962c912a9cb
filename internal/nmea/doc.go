// Package nmea validates and parses NMEA 0183 sentences.
//
// It is intentionally small and geared toward turning GPS receiver output into
// coordinates:
// - Verify the XOR checksum (sentences without one are rejected)
// - Convert ddmm.mmmm + hemisphere into signed decimal degrees
// - Extract positions from RMC, GGA and GLL, speeds from VTG
// - Pass TXT, GSV and GSA fields through untouched
package nmea
