package nmea

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Logger receives advisory messages. *log.Logger satisfies it.
type Logger interface {
	Printf(format string, v ...any)
}

// Parser turns lines into Sentences. It keeps no state between calls apart
// from the logger, so one Parser may be shared across goroutines.
type Parser struct {
	log Logger
}

// NewParser returns a Parser that reports advisories to l. A nil l discards them.
func NewParser(l Logger) *Parser {
	return &Parser{log: l}
}

type extractor struct {
	minFields int
	extract   func(p *Parser, f []string) Data
}

var extractors = map[Type]extractor{
	TypeRMC: {minFields: 11, extract: (*Parser).rmc},
	TypeVTG: {minFields: 7, extract: (*Parser).vtg},
	TypeGGA: {minFields: 5, extract: (*Parser).gga},
	TypeGLL: {minFields: 4, extract: (*Parser).gll},
	TypeTXT: {extract: raw(TypeTXT)},
	TypeGSV: {extract: raw(TypeGSV)},
	TypeGSA: {extract: raw(TypeGSA)},
}

// Parse returns the parsed sentence and true, or an empty Sentence and false
// when the line fails verification or is too short for its type. A verified
// line of an unhandled type is returned with nil Data.
//
// The reason for a rejection only goes to the logger; use ParseSentence to get
// it as an error.
func (p *Parser) Parse(line string) (Sentence, bool) {
	s, err := p.ParseSentence(line)
	switch {
	case err == nil:
		return s, true
	case errors.Is(err, ErrUnrecognizedType):
		p.logf("unhandled sentence: %s", s.Type)
		return s, true
	default:
		p.logf("%v: %q", err, strings.TrimSpace(line))
		return Sentence{}, false
	}
}

// ParseSentence is Parse with the rejection reason surfaced. For
// ErrUnrecognizedType the Sentence is still populated, without Data.
func (p *Parser) ParseSentence(line string) (Sentence, error) {
	line = strings.TrimSpace(line)
	if _, err := Verify(line); err != nil {
		return Sentence{}, err
	}

	// Verified lines look like "", head, fields..., checksum.
	tokens := splitAny(line, "$*,")
	tokens = tokens[1 : len(tokens)-1]
	head := tokens[0]

	s := Sentence{Fields: tokens[1:]}
	if len(head) >= 2 {
		s.TalkerID = head[:2]
		s.Type = Type(head[2:])
	} else {
		s.TalkerID = head
	}

	ex, ok := extractors[s.Type]
	if !ok {
		return s, fmt.Errorf("%w: %s", ErrUnrecognizedType, s.Type)
	}
	if len(s.Fields) < ex.minFields {
		return Sentence{}, &FieldCountError{Type: s.Type, Want: ex.minFields, Got: len(s.Fields)}
	}
	s.Data = ex.extract(p, s.Fields)
	return s, nil
}

// RMC fields:
//
//	0: time (hhmmss)
//	1: status (A=active, V=void)
//	2: latitude (ddmm.mm)
//	3: N/S
//	4: longitude (dddmm.mm)
//	5: E/W
//	6: speed over ground (knots)
//	7: true course
//	8: date (ddmmyy)
//	9: magnetic variation (degrees)
//	10: E/W
func (p *Parser) rmc(f []string) Data {
	return RMC{
		Timestamp:  f[0],
		Validity:   f[1],
		Latitude:   p.coord(TypeRMC, "latitude", f[2], f[3]),
		Longitude:  p.coord(TypeRMC, "longitude", f[4], f[5]),
		Knots:      p.number(TypeRMC, "speed", f[6]),
		TrueCourse: p.number(TypeRMC, "course", f[7]),
		Date:       f[8],
		Variation:  p.coord(TypeRMC, "variation", f[9], f[10]),
	}
}

// VTG fields:
//
//	0: true track, 1: T
//	2: magnetic track, 3: M
//	4: speed (knots), 5: N
//	6: speed (km/h), 7: K
func (p *Parser) vtg(f []string) Data {
	return VTG{
		Knots: p.number(TypeVTG, "knots", f[4]),
		Kmh:   p.number(TypeVTG, "kmh", f[6]),
	}
}

// GGA fields:
//
//	0: time
//	1: latitude
//	2: N/S
//	3: longitude
//	4: E/W
//	5: fix quality (0=invalid)
//	6: number of satellites
//	7: HDOP
//	8: altitude (meters)
func (p *Parser) gga(f []string) Data {
	g := GGA{
		Time:      f[0],
		Latitude:  p.coord(TypeGGA, "latitude", f[1], f[2]),
		Longitude: p.coord(TypeGGA, "longitude", f[3], f[4]),
	}
	if len(f) > 5 {
		g.FixQuality = p.count(TypeGGA, "quality", f[5])
	}
	if len(f) > 6 {
		g.Satellites = p.count(TypeGGA, "satellites", f[6])
	}
	if len(f) > 7 {
		g.HDOP = p.number(TypeGGA, "hdop", f[7])
	}
	if len(f) > 8 {
		g.AltitudeM = p.number(TypeGGA, "altitude", f[8])
	}
	return g
}

// GLL fields:
//
//	0: latitude, 1: N/S
//	2: longitude, 3: E/W
//	4: time (optional)
//	5: status (optional)
func (p *Parser) gll(f []string) Data {
	g := GLL{
		Latitude:  p.coord(TypeGLL, "latitude", f[0], f[1]),
		Longitude: p.coord(TypeGLL, "longitude", f[2], f[3]),
	}
	if len(f) > 4 {
		g.Time = f[4]
	}
	if len(f) > 5 {
		g.Status = f[5]
	}
	return g
}

func raw(t Type) func(p *Parser, f []string) Data {
	return func(_ *Parser, f []string) Data {
		return Raw{Type: t, Fields: append([]string(nil), f...)}
	}
}

func (p *Parser) coord(t Type, name string, value string, hemi string) float64 {
	if _, exact := parseNumber(value); !exact {
		p.logf("%s %s %q is not numeric", t, name, value)
	}
	return ToDecimalDegrees(value, hemi)
}

func (p *Parser) number(t Type, name string, value string) float64 {
	v, exact := parseNumber(value)
	if !exact {
		p.logf("%s %s %q is not numeric", t, name, value)
	}
	return v
}

// count reads a small non-negative integer field; anything outside
// [0, MaxInt32] reads as zero.
func (p *Parser) count(t Type, name string, value string) int {
	v := p.number(t, name, value)
	if v < 0 || v > math.MaxInt32 {
		p.logf("%s %s %q is out of range", t, name, value)
		return 0
	}
	return int(v)
}

func (p *Parser) logf(format string, v ...any) {
	if p == nil || p.log == nil {
		return
	}
	p.log.Printf(format, v...)
}
