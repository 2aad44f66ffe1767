package fasta

import (
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const plain = `>seq1 first record
ACGT
ACG
>seq2
NNnn
`

func readAll(t *testing.T, r *Reader) []*Record {
	t.Helper()
	var recs []*Record
	for {
		rec, err := r.Read()
		if err == io.EOF {
			return recs
		}
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		recs = append(recs, rec)
	}
}

func TestReadKeepsLines(t *testing.T) {
	recs := readAll(t, NewReader(strings.NewReader(plain)))
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if recs[0].Header != ">seq1 first record" || recs[0].ID() != "seq1" {
		t.Fatalf("unexpected first header: %+v", recs[0])
	}
	if strings.Join(recs[0].Lines, "") != "ACGT\nACG\n" {
		t.Fatalf("sequence lines changed: %q", recs[0].Lines)
	}
	if recs[1].ID() != "seq2" || strings.Join(recs[1].Lines, "") != "NNnn\n" {
		t.Fatalf("unexpected second record: %+v", recs[1])
	}
}

func TestReadNoTrailingNewline(t *testing.T) {
	recs := readAll(t, NewReader(strings.NewReader(">a\nAC\n>b\nGT")))
	if len(recs) != 2 || recs[1].Lines[0] != "GT" {
		t.Fatalf("unexpected records: %+v", recs)
	}
}

func TestReadPreamble(t *testing.T) {
	recs := readAll(t, NewReader(strings.NewReader("junk\n>a\nAC\n")))
	if len(recs) != 2 || recs[0].Header != "" || recs[0].Lines[0] != "junk\n" {
		t.Fatalf("unexpected records: %+v", recs)
	}
}

func TestReadEmpty(t *testing.T) {
	if recs := readAll(t, NewReader(strings.NewReader(""))); len(recs) != 0 {
		t.Fatalf("expected no record, got %d", len(recs))
	}
}

func TestOpenEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.faa")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	r, err := Open(path)
	if err != nil {
		t.Fatalf("open empty file: %v", err)
	}
	defer r.Close()
	if recs := readAll(t, r); len(recs) != 0 {
		t.Fatalf("expected no record, got %d", len(recs))
	}
}

func TestOpenGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.fa.gz")
	fh, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	gw := gzip.NewWriter(fh)
	if _, err := gw.Write([]byte(plain)); err != nil {
		t.Fatalf("write gz: %v", err)
	}
	gw.Close()
	fh.Close()

	r, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer r.Close()

	var ids []string
	for _, rec := range readAll(t, r) {
		ids = append(ids, rec.ID())
	}
	if len(ids) != 2 || ids[0] != "seq1" || ids[1] != "seq2" {
		t.Fatalf("gzip parse failed, ids=%v", ids)
	}
}
