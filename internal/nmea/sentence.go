package nmea

// Type is the three letter sentence code that follows the talker ID.
type Type string

const (
	TypeRMC Type = "RMC"
	TypeVTG Type = "VTG"
	TypeGGA Type = "GGA"
	TypeGLL Type = "GLL"
	TypeTXT Type = "TXT"
	TypeGSV Type = "GSV"
	TypeGSA Type = "GSA"
)

// Sentence is one verified NMEA line.
//
// Fields is the comma-split payload without the talker/type token and without
// the checksum. Data is nil when the sentence type is not handled.
type Sentence struct {
	TalkerID string
	Type     Type
	Fields   []string
	Data     Data
}

// Position returns x (longitude) and y (latitude) when the sentence carries one.
func (s Sentence) Position() (x, y float64, ok bool) {
	p, ok := s.Data.(Positioner)
	if !ok {
		return 0, 0, false
	}
	x, y = p.Position()
	return x, y, true
}

// Data is implemented by RMC, VTG, GGA, GLL and Raw only.
type Data interface {
	sentenceType() Type
}

// Positioner is implemented by the sentence data that carries a lat/lon pair.
type Positioner interface {
	Position() (x, y float64)
}

// RMC: Recommended Minimum Specific GNSS Data.
type RMC struct {
	Timestamp  string // hhmmss(.ss)
	Validity   string // A=active, V=void
	Latitude   float64
	Longitude  float64
	Knots      float64
	TrueCourse float64
	Date       string // ddmmyy
	Variation  float64
}

func (RMC) sentenceType() Type { return TypeRMC }

func (r RMC) X() float64 { return r.Longitude }
func (r RMC) Y() float64 { return r.Latitude }

func (r RMC) Position() (x, y float64) { return r.Longitude, r.Latitude }

// Active reports whether the receiver flagged the fix as usable.
func (r RMC) Active() bool { return r.Validity == "A" }

// VTG: Track made good and ground speed. Track angles are not extracted.
type VTG struct {
	Knots float64
	Kmh   float64
}

func (VTG) sentenceType() Type { return TypeVTG }

// GGA: Global Positioning System Fix Data.
//
// Only the position is required; the remaining values are filled when the
// receiver sent them and are zero otherwise.
type GGA struct {
	Time       string
	Latitude   float64
	Longitude  float64
	FixQuality int
	Satellites int
	HDOP       float64
	AltitudeM  float64
}

func (GGA) sentenceType() Type { return TypeGGA }

func (g GGA) X() float64 { return g.Longitude }
func (g GGA) Y() float64 { return g.Latitude }

func (g GGA) Position() (x, y float64) { return g.Longitude, g.Latitude }

// GLL: Geographic position, latitude/longitude.
type GLL struct {
	Latitude  float64
	Longitude float64
	Time      string
	Status    string
}

func (GLL) sentenceType() Type { return TypeGLL }

func (g GLL) X() float64 { return g.Longitude }
func (g GLL) Y() float64 { return g.Latitude }

func (g GLL) Position() (x, y float64) { return g.Longitude, g.Latitude }

// Raw carries the fields of informational sentences (TXT, GSV, GSA) as sent.
type Raw struct {
	Type   Type
	Fields []string
}

func (r Raw) sentenceType() Type { return r.Type }
