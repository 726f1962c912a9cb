package nmea

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidFormat is returned by Checksum for input that does not start with '$'.
	ErrInvalidFormat = errors.New("nmea: not an NMEA sentence")

	ErrMalformed          = errors.New("nmea: missing/extra delimiters")
	ErrMissingChecksum    = errors.New("nmea: missing checksum")
	ErrChecksumMismatch   = errors.New("nmea: checksum mismatch")
	ErrUnrecognizedType   = errors.New("nmea: unhandled sentence")
	ErrFieldCountMismatch = errors.New("nmea: field count mismatch")
)

// FieldCountError reports a checksum-valid sentence that is too short for its
// extractor. It matches ErrFieldCountMismatch with errors.Is.
type FieldCountError struct {
	Type Type
	Want int
	Got  int
}

func (e *FieldCountError) Error() string {
	return fmt.Sprintf("nmea: %s needs %d fields, got %d", e.Type, e.Want, e.Got)
}

func (e *FieldCountError) Is(target error) bool {
	return target == ErrFieldCountMismatch
}
