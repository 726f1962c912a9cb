package replay

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

type fakeSleeper struct {
	slept []time.Duration
}

func (fs *fakeSleeper) Sleep(d time.Duration) {
	fs.slept = append(fs.slept, d)
}

func TestReaderReadAll(t *testing.T) {
	in := strings.NewReader(`
# comment

START
0, $GPGLL,5133.81,N,00042.25,W*75
10,$GPVTG,360.0,T,348.7,M,000.0,N,000.0,K*43
`)

	recs, err := NewReader(in).ReadAll()
	if err != nil {
		t.Fatalf("ReadAll() error: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("expected 3 records, got %d", len(recs))
	}
	if !recs[0].Start {
		t.Fatalf("expected START marker, got %+v", recs[0])
	}
	if recs[1].At != 0 || recs[1].Line != "$GPGLL,5133.81,N,00042.25,W*75" {
		t.Fatalf("unexpected record 1: %+v", recs[1])
	}
	if recs[2].At != 10*time.Nanosecond {
		t.Fatalf("expected At=10ns, got %s", recs[2].At)
	}
	if recs[2].Line != "$GPVTG,360.0,T,348.7,M,000.0,N,000.0,K*43" {
		t.Fatalf("unexpected line 2: %q", recs[2].Line)
	}
}

func TestReaderReadAll_InvalidLines(t *testing.T) {
	for _, in := range []string{
		"not-a-valid-line\n",
		"abc,$GPGLL*00\n",
		"-5,$GPGLL*00\n",
		"10,\n",
	} {
		if _, err := NewReader(strings.NewReader(in)).ReadAll(); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}

func TestPlay_RespectsTimingAndStart(t *testing.T) {
	var lines []string
	fs := &fakeSleeper{}

	recs := []Record{
		{At: 1 * time.Second, Start: true},
		{At: 1 * time.Second, Line: "a"},
		{At: 1*time.Second + 100*time.Nanosecond, Line: "b"},
		{At: 2 * time.Second, Start: true},
		{At: 2*time.Second + 50*time.Nanosecond, Line: "c"},
	}

	err := Play(recs, 1.0, false, fs, func(line string) error {
		lines = append(lines, line)
		return nil
	})
	if err != nil {
		t.Fatalf("Play() error: %v", err)
	}
	if strings.Join(lines, "") != "abc" {
		t.Fatalf("lines=%q", lines)
	}
	if len(fs.slept) != 1 || fs.slept[0] != 100*time.Nanosecond {
		t.Fatalf("slept=%v want [100ns]", fs.slept)
	}
}

func TestPlay_SpeedMultiplier(t *testing.T) {
	fs := &fakeSleeper{}
	recs := []Record{
		{Line: "a"},
		{At: 2 * time.Second, Line: "b"},
	}
	if err := Play(recs, 2.0, false, fs, func(string) error { return nil }); err != nil {
		t.Fatalf("Play() error: %v", err)
	}
	if len(fs.slept) != 1 || fs.slept[0] != 1*time.Second {
		t.Fatalf("slept=%v want [1s]", fs.slept)
	}
}

func TestPlay_Errors(t *testing.T) {
	if err := Play([]Record{{Line: "a"}}, 0, false, nil, func(string) error { return nil }); err == nil {
		t.Fatalf("expected speed error")
	}
	if err := Play(nil, 1, false, nil, func(string) error { return nil }); err == nil {
		t.Fatalf("expected no records error")
	}
	stop := errors.New("stop")
	calls := 0
	err := Play([]Record{{Line: "a"}}, 1, true, &fakeSleeper{}, func(string) error {
		calls++
		if calls == 3 {
			return stop
		}
		return nil
	})
	if !errors.Is(err, stop) || calls != 3 {
		t.Fatalf("err=%v calls=%d", err, calls)
	}
}

func TestWriterRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nmea.log")
	w, err := CreateWriter(path)
	if err != nil {
		t.Fatalf("CreateWriter() error: %v", err)
	}
	base := w.start
	if err := w.WriteLine(base.Add(5*time.Millisecond), "$GPGLL,5133.81,N,00042.25,W*75\r\n"); err != nil {
		t.Fatalf("WriteLine() error: %v", err)
	}
	if err := w.WriteLine(base, "   "); err != nil {
		t.Fatalf("blank WriteLine() error: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if err := w.WriteLine(base, "$X*00"); err == nil {
		t.Fatalf("expected error after close")
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer f.Close()
	recs, err := NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("ReadAll() error: %v", err)
	}
	if len(recs) != 2 || !recs[0].Start {
		t.Fatalf("recs=%+v", recs)
	}
	if recs[1].At != 5*time.Millisecond || recs[1].Line != "$GPGLL,5133.81,N,00042.25,W*75" {
		t.Fatalf("rec=%+v", recs[1])
	}
}
