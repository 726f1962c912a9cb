package nmea

import (
	"fmt"
	"strings"
)

// Outcome is the result of Verify. The numeric values mirror the conventional
// -1/0/1 encoding.
type Outcome int

const (
	Invalid  Outcome = -1
	Mismatch Outcome = 0
	Valid    Outcome = 1
)

// Int returns -1, 0 or 1.
func (o Outcome) Int() int { return int(o) }

func (o Outcome) String() string {
	switch o {
	case Invalid:
		return "invalid"
	case Mismatch:
		return "mismatch"
	case Valid:
		return "valid"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Verify checks that sentence has the shape $<body>*<checksum> and that the
// checksum matches the body. The returned error names the reason for any
// outcome other than Valid.
func Verify(sentence string) (Outcome, error) {
	sentence = strings.TrimSpace(sentence)

	parts := splitAny(sentence, "$*")
	if len(parts) != 3 {
		return Invalid, ErrMalformed
	}
	if parts[2] == "" {
		return Invalid, ErrMissingChecksum
	}

	want, err := Checksum(sentence)
	if err != nil {
		return Invalid, err
	}
	if !strings.EqualFold(parts[2], want) {
		return Mismatch, fmt.Errorf("%w: got %s want %s", ErrChecksumMismatch, parts[2], want)
	}
	return Valid, nil
}

// splitAny splits s at every byte contained in seps, keeping empty parts.
func splitAny(s string, seps string) []string {
	parts := make([]string, 0, 16)
	start := 0
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(seps, s[i]) >= 0 {
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}
