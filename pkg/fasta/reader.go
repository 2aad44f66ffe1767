// Package fasta streams FASTA records without touching their sequence lines,
// so a record can be copied back out byte for byte under a new header.
package fasta

import (
	"bufio"
	"errors"
	"io"
	"strings"

	"github.com/shenwei356/xopen"
)

// Record is one FASTA entry.
type Record struct {
	// Header is the header line as read, '>' included, line terminator removed.
	// It is empty for lines found before the first header.
	Header string
	// Lines are the sequence lines, each with its original terminator.
	Lines []string
}

// ID is the first whitespace separated token of the header, without '>'.
func (r *Record) ID() string {
	fields := strings.Fields(strings.TrimPrefix(r.Header, ">"))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// WriteSequence copies the sequence lines to w unchanged.
func (r *Record) WriteSequence(w io.StringWriter) error {
	for _, l := range r.Lines {
		if _, err := w.WriteString(l); err != nil {
			return err
		}
	}
	return nil
}

// Reader yields records in file order. It is not restartable.
type Reader struct {
	br     *bufio.Reader
	closer io.Closer
	next   string // header line read ahead of the record it opens
	done   bool
}

func NewReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReaderSize(r, 64*1024)}
}

// Open reads FASTA from path, plain or compressed. An empty file yields no
// record.
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

// Read returns the next record, or io.EOF when the input is exhausted.
func (r *Reader) Read() (*Record, error) {
	if r.done {
		return nil, io.EOF
	}

	var rec *Record
	if r.next != "" {
		rec = &Record{Header: trimEOL(r.next)}
		r.next = ""
	}

	for {
		line, err := r.br.ReadString('\n')
		if len(line) > 0 {
			if line[0] == '>' {
				if rec != nil {
					r.next = line
					return rec, nil
				}
				rec = &Record{Header: trimEOL(line)}
			} else {
				if rec == nil {
					rec = &Record{}
				}
				rec.Lines = append(rec.Lines, line)
			}
		}
		if err == io.EOF {
			r.done = true
			if rec == nil {
				return nil, io.EOF
			}
			return rec, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

func trimEOL(s string) string {
	return strings.TrimRight(s, "\r\n")
}
