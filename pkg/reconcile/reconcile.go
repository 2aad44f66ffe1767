// Package reconcile rewrites the headers of upstream annotator sequence files
// (.faa proteins, .ffn genes) with the information of the annotation table of
// the same genome.
//
// Both inputs are ordered by an increasing number: the number after the last
// '_' of a sequence header, and the gene number of the table locus. The two
// streams are walked together by Merge, one Matcher per sequence file kind.
package reconcile

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/RedSnail/PanACoTA/internal/util"
	"github.com/RedSnail/PanACoTA/pkg/fasta"
	"github.com/RedSnail/PanACoTA/pkg/lstinfo"
	"github.com/shenwei356/xopen"
)

// Matcher returns the annotation record that belongs to a sequence record.
type Matcher interface {
	Match(rec *fasta.Record) (*lstinfo.Record, error)
}

// Merge copies every record of seqs to w, replacing each header with the one
// built from the annotation record the matcher pairs it with. It stops at the
// first error.
func Merge(seqs *fasta.Reader, m Matcher, w io.StringWriter) error {
	for {
		rec, err := seqs.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		if rec.Header != "" {
			ann, err := m.Match(rec)
			if err != nil {
				return err
			}
			if _, err := w.WriteString(ann.Header() + "\n"); err != nil {
				return err
			}
		}
		if err := rec.WriteSequence(w); err != nil {
			return err
		}
	}
}

// Proteins writes prtPath from the protein file faaPath and its table.
// On failure prtPath is removed.
func Proteins(tablePath, faaPath, prtPath string) error {
	return reconcileFile(tablePath, faaPath, prtPath, func(t *lstinfo.Reader) Matcher {
		return NewProteinMatcher(t, tablePath, faaPath)
	})
}

// Genes writes genPath from the gene file ffnPath and its table. CRISPR
// headers in ffnPath start with the genome name.
// On failure genPath is removed.
func Genes(tablePath, ffnPath, genPath, genome string) error {
	return reconcileFile(tablePath, ffnPath, genPath, func(t *lstinfo.Reader) Matcher {
		return NewGeneMatcher(t, genome, tablePath, ffnPath)
	})
}

func reconcileFile(tablePath, seqPath, outPath string, newMatcher func(*lstinfo.Reader) Matcher) error {
	table, err := lstinfo.Open(tablePath)
	if err != nil {
		return fmt.Errorf("open annotation table: %w", err)
	}
	defer table.Close()

	seqs, err := fasta.Open(seqPath)
	if err != nil {
		return fmt.Errorf("open sequence file: %w", err)
	}
	defer seqs.Close()

	out, err := xopen.Wopen(outPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", outPath, err)
	}

	err = Merge(seqs, newMatcher(table), out)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		if rerr := util.RemoveIfExists(outPath); rerr != nil {
			return errors.Join(err, rerr)
		}
		return err
	}
	return nil
}

// tableCursor pulls annotation records for one sequence file and turns table
// problems into reconciliation errors.
type tableCursor struct {
	table  *lstinfo.Reader
	unit   Unit
	path   string
	source string
}

// next returns the next annotation record, or nil at the end of the table.
func (c *tableCursor) next() (*lstinfo.Record, error) {
	ann, err := c.table.Read()
	if err == io.EOF {
		return nil, nil
	}
	var perr *lstinfo.ParseError
	if errors.As(err, &perr) {
		return nil, &Error{Kind: MalformedTableField, Unit: c.unit, Table: c.path, Line: perr.Line, Err: perr.Err}
	}
	return ann, err
}

func (c *tableCursor) missing(header string) error {
	return &Error{Kind: UnmatchedIdentifier, Unit: c.unit, Header: header, Source: c.source, Table: c.path}
}

func (c *tableCursor) malformedHeader(header string, err error) error {
	return &Error{Kind: MalformedHeader, Unit: c.unit, Header: header, Source: c.source, Table: c.path, Err: err}
}

// ProteinMatcher pairs protein headers with table records by scanning the
// table forward until it reaches a gene number at least as large as the
// header number. Records without a gene number (CRISPRs) are skipped.
type ProteinMatcher struct {
	tableCursor
}

func NewProteinMatcher(table *lstinfo.Reader, tablePath, faaPath string) *ProteinMatcher {
	return &ProteinMatcher{tableCursor{table: table, unit: Protein, path: tablePath, source: faaPath}}
}

func (m *ProteinMatcher) Match(rec *fasta.Record) (*lstinfo.Record, error) {
	num, err := headerNumber(rec)
	if err != nil {
		return nil, m.malformedHeader(rec.Header, err)
	}

	for {
		ann, err := m.next()
		if err != nil {
			return nil, err
		}
		if ann == nil {
			return nil, m.missing(rec.Header)
		}
		n, err := ann.GeneNumber()
		if err != nil || n < num {
			continue
		}
		if n == num {
			return ann, nil
		}
		return nil, m.missing(rec.Header)
	}
}

// GeneMatcher pairs gene headers with table records in lockstep, one record
// per header. CRISPR headers start with the genome name and are checked
// against a CRISPR counter starting at 1.
type GeneMatcher struct {
	tableCursor
	genome string
	crispr int
}

func NewGeneMatcher(table *lstinfo.Reader, genome, tablePath, ffnPath string) *GeneMatcher {
	return &GeneMatcher{
		tableCursor: tableCursor{table: table, unit: Gene, path: tablePath, source: ffnPath},
		genome:      genome,
		crispr:      1,
	}
}

func (m *GeneMatcher) Match(rec *fasta.Record) (*lstinfo.Record, error) {
	if m.isCRISPR(rec) {
		return m.matchCRISPR(rec)
	}

	num, err := headerNumber(rec)
	if err != nil {
		return nil, m.malformedHeader(rec.Header, err)
	}
	ann, err := m.next()
	if err != nil {
		return nil, err
	}
	if ann == nil {
		return nil, m.missing(rec.Header)
	}
	n, err := ann.GeneNumber()
	if err != nil {
		return nil, &Error{Kind: MalformedTableField, Unit: Gene, Table: m.path, Line: ann.String(), Err: err}
	}
	if n != num {
		return nil, m.missing(rec.Header)
	}
	return ann, nil
}

func (m *GeneMatcher) matchCRISPR(rec *fasta.Record) (*lstinfo.Record, error) {
	ann, err := m.next()
	if err != nil {
		return nil, err
	}
	if ann == nil {
		return nil, m.missing(rec.Header)
	}
	if !ann.IsCRISPR() {
		return nil, &Error{Kind: TypeMismatch, Unit: Gene, Header: rec.Header, Source: m.source, Table: m.path, Type: ann.Type}
	}
	n, err := ann.CRISPRNumber()
	if err != nil {
		return nil, &Error{Kind: MalformedTableField, Unit: Gene, Table: m.path, Line: ann.String(), Err: err}
	}
	if n != m.crispr {
		return nil, &Error{Kind: CounterMismatch, Unit: Gene, Header: rec.Header, Source: m.source, Table: m.path, Want: m.crispr, Got: n}
	}
	m.crispr++
	return ann, nil
}

// isCRISPR reports whether the header id starts with the genome name, as a
// whole word: "GENO.1216.00002_1" does, "GENO.1216.000021_1" does not.
func (m *GeneMatcher) isCRISPR(rec *fasta.Record) bool {
	id := rec.ID()
	if m.genome == "" || !strings.HasPrefix(id, m.genome) {
		return false
	}
	rest := id[len(m.genome):]
	if rest == "" {
		return true
	}
	c := rest[0]
	return !(c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z')
}

// headerNumber parses <prefix>_<integer> from the first token of the header.
func headerNumber(rec *fasta.Record) (int, error) {
	id := rec.ID()
	i := strings.LastIndexByte(id, '_')
	if i < 0 {
		return 0, fmt.Errorf("%w in %q", errNoSeparator, id)
	}
	num := id[i+1:]
	for j := 0; j < len(num); j++ {
		if num[j] < '0' || num[j] > '9' {
			return 0, &strconv.NumError{Func: "Atoi", Num: num, Err: strconv.ErrSyntax}
		}
	}
	return strconv.Atoi(num)
}
