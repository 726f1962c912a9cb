package nmea

import (
	"strings"
	"testing"

	gonmea "github.com/adrianmo/go-nmea"
)

// Cross-check against an independent NMEA implementation.

func TestChecksum_MatchesGoNMEA(t *testing.T) {
	for _, line := range []string{rmcLine, ggaLine, gllLine, vtgLine, gsvBody + "*67"} {
		body := line[1:strings.IndexByte(line, '*')]
		got, err := Checksum(line)
		if err != nil {
			t.Fatalf("Checksum(%q) error: %v", line, err)
		}
		if want := gonmea.Checksum(body); got != want {
			t.Fatalf("checksum=%s go-nmea=%s for %q", got, want, line)
		}
	}
}

func TestParse_PositionsMatchGoNMEA(t *testing.T) {
	p := NewParser(nil)

	ref, err := gonmea.Parse(rmcLine)
	if err != nil {
		t.Fatalf("go-nmea parse rmc: %v", err)
	}
	rmcRef := ref.(gonmea.RMC)
	s, ok := p.Parse(rmcLine)
	if !ok {
		t.Fatalf("expected ok")
	}
	rmc := s.Data.(RMC)
	near(t, "rmc lat", rmc.Latitude, rmcRef.Latitude)
	near(t, "rmc lon", rmc.Longitude, rmcRef.Longitude)
	near(t, "rmc speed", rmc.Knots, rmcRef.Speed)
	near(t, "rmc course", rmc.TrueCourse, rmcRef.Course)

	ref, err = gonmea.Parse(ggaLine)
	if err != nil {
		t.Fatalf("go-nmea parse gga: %v", err)
	}
	ggaRef := ref.(gonmea.GGA)
	s, ok = p.Parse(ggaLine)
	if !ok {
		t.Fatalf("expected ok")
	}
	gga := s.Data.(GGA)
	near(t, "gga lat", gga.Latitude, ggaRef.Latitude)
	near(t, "gga lon", gga.Longitude, ggaRef.Longitude)
	near(t, "gga alt", gga.AltitudeM, ggaRef.Altitude)
	if int64(gga.Satellites) != ggaRef.NumSatellites {
		t.Fatalf("sats=%d go-nmea=%d", gga.Satellites, ggaRef.NumSatellites)
	}
	if s.TalkerID != ref.TalkerID() {
		t.Fatalf("talker=%q go-nmea=%q", s.TalkerID, ref.TalkerID())
	}
}
