package lstinfo

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shenwei356/xopen"
)

// ParseError reports a table line that does not parse into a Record.
type ParseError struct {
	LineNum int
	Line    string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v: %q", e.LineNum, e.Err, e.Line)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Reader yields table records one at a time, in file order. It cannot be rewound.
type Reader struct {
	sc      *bufio.Scanner
	closer  io.Closer
	lineNum int
}

func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	return &Reader{sc: sc}
}

// Open reads a table from path (plain or compressed).
func Open(path string) (*Reader, error) {
	fh, err := xopen.Ropen(path)
	if errors.Is(err, xopen.ErrNoContent) {
		return NewReader(strings.NewReader("")), nil
	}
	if err != nil {
		return nil, err
	}
	r := NewReader(fh)
	r.closer = fh
	return r, nil
}

// Read returns the next record, io.EOF once the table is exhausted, or a
// *ParseError. Blank lines are skipped.
func (r *Reader) Read() (*Record, error) {
	for r.sc.Scan() {
		r.lineNum++
		line := strings.TrimRight(r.sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		rec, err := ParseLine(line)
		if err != nil {
			return nil, &ParseError{LineNum: r.lineNum, Line: line, Err: err}
		}
		return rec, nil
	}
	if err := r.sc.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// ReadAll drains r.
func ReadAll(r *Reader) ([]*Record, error) {
	var recs []*Record
	for {
		rec, err := r.Read()
		if err == io.EOF {
			return recs, nil
		}
		if err != nil {
			return recs, err
		}
		recs = append(recs, rec)
	}
}

// Write renders records one per line.
func Write(w io.Writer, recs []*Record) error {
	bw := bufio.NewWriter(w)
	for _, rec := range recs {
		if _, err := bw.WriteString(rec.String() + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}
