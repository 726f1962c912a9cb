package source

import (
	"context"
	"fmt"
	"io"
	"os"
)

// File reads a text file of NMEA sentences. Path "-" reads Stdin.
type File struct {
	Path  string
	Stdin io.Reader
}

func (f *File) Run(ctx context.Context, onLine LineFunc) error {
	if f.Path == "-" {
		in := f.Stdin
		if in == nil {
			in = os.Stdin
		}
		return readLines(ctx, in, onLine)
	}

	fh, err := os.Open(f.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s not found", f.Path)
		}
		return err
	}
	defer fh.Close()
	return readLines(ctx, fh, onLine)
}
