package nmea

import (
	"fmt"
	"strings"
)

// Checksum returns the two digit uppercase hex XOR of every byte between the
// leading '$' and the first '*' (or the end of the input when there is no '*').
// Any checksum text already present after '*' is ignored.
func Checksum(sentence string) (string, error) {
	if !strings.HasPrefix(sentence, "$") {
		return "", ErrInvalidFormat
	}
	ck := byte(0)
	for i := 1; i < len(sentence); i++ {
		if sentence[i] == '*' {
			break
		}
		ck ^= sentence[i]
	}
	return fmt.Sprintf("%02X", ck), nil
}
