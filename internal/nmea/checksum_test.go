package nmea

import (
	"errors"
	"testing"
)

const gsvBody = "$GPGSV,3,2,09,75,47,206,50,83,00,157,,84,55,132,33,85,52,002,53,0"

func TestChecksum_MissingDollar(t *testing.T) {
	for _, in := range []string{"", "GPGSV,3,2,09*", " $GPGLL,5133.81,N*75", "*00"} {
		got, err := Checksum(in)
		if !errors.Is(err, ErrInvalidFormat) {
			t.Fatalf("Checksum(%q) err=%v want ErrInvalidFormat", in, err)
		}
		if got != "" {
			t.Fatalf("Checksum(%q)=%q want empty", in, got)
		}
	}
}

func TestChecksum_IgnoresTrailingChecksumText(t *testing.T) {
	cases := []string{
		gsvBody,
		gsvBody + "*",
		gsvBody + "*58",
		gsvBody + "*67",
		gsvBody + "*67\r\n",
	}
	for _, in := range cases {
		got, err := Checksum(in)
		if err != nil {
			t.Fatalf("Checksum(%q) error: %v", in, err)
		}
		if got != "67" {
			t.Fatalf("Checksum(%q)=%q want 67", in, got)
		}
	}
}

func TestChecksum_ZeroPaddedUppercase(t *testing.T) {
	got, err := Checksum("$")
	if err != nil {
		t.Fatalf("Checksum error: %v", err)
	}
	if got != "00" {
		t.Fatalf("checksum=%q want 00", got)
	}

	// 'A' ^ 'B' = 0x03
	got, _ = Checksum("$AB*")
	if got != "03" {
		t.Fatalf("checksum=%q want 03", got)
	}

	got, _ = Checksum("$GPTXT,01,01,02,ANTSTATUS=OK")
	if got != "3B" {
		t.Fatalf("checksum=%q want 3B", got)
	}
}
