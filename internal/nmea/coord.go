package nmea

import (
	"math"
	"strconv"
	"strings"
)

// ToDecimalDegrees converts NMEA {D}DDmm.mmmm plus a hemisphere letter into
// signed decimal degrees. S and W (any case) are negative.
//
// The value is parsed permissively: the longest numeric prefix is used and
// anything non-numeric reads as zero. No range checks are applied.
func ToDecimalDegrees(value string, hemisphere string) float64 {
	v, _ := parseNumber(value)
	deg := math.Trunc(v / 100.0)
	mins := (v - deg*100.0) / 60.0
	dec := deg + mins

	if strings.EqualFold(hemisphere, "S") || strings.EqualFold(hemisphere, "W") {
		dec = -dec
	}
	return dec
}

// parseNumber reads a float the permissive way. exact is false when s had
// anything other than a complete number in it (surrounding space aside).
func parseNumber(s string) (v float64, exact bool) {
	s = strings.TrimSpace(s)
	n := numericPrefixLen(s)
	if n == 0 {
		return 0, s == ""
	}
	v, err := strconv.ParseFloat(s[:n], 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		// Out of range reads as zero, like any other unusable value.
		return 0, false
	}
	return v, n == len(s)
}

func numericPrefixLen(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		j := i + 1
		frac := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			frac++
		}
		if digits+frac > 0 {
			i = j
			digits += frac
		}
	}
	if digits == 0 {
		return 0
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && isDigit(s[k]) {
			k++
		}
		if k > j {
			i = k
		}
	}
	return i
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
