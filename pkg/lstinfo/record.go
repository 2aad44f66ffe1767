// Annotation table records (LSTINFO files).
//
// One line per feature, tab separated:
//
//	start end strand type locus gene_name | product | EC_number | inference
//
// locus is <genome>.<b|i><contig>_<number> for genes, or
// <genome>.<b|i><contig>_CRISPR<number> for repeat regions.

package lstinfo

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

type Strand byte

const (
	Direct     Strand = 'D'
	Complement Strand = 'C'
)

func (s Strand) String() string {
	return string(s)
}

func parseStrand(s string) (Strand, error) {
	switch s {
	case "D":
		return Direct, nil
	case "C":
		return Complement, nil
	}
	return 0, fmt.Errorf("unknown strand %q", s)
}

// Feature types that mark a CRISPR array.
const (
	TypeRepeatRegion = "repeat_region"
	TypeCRISPR       = "CRISPR"
)

const crisprTag = "_CRISPR"

var ErrNotNumbered = errors.New("locus has no numeric suffix")

type Record struct {
	Start  int
	End    int
	Strand Strand
	Type   string
	Locus  string
	Name   string
	// Info is the trailing "| product | EC_number | inference" column, kept verbatim.
	Info string
}

// Length in bases, both ends included.
func (r *Record) Length() int {
	return r.End - r.Start + 1
}

func (r *Record) IsCRISPR() bool {
	return r.Type == TypeRepeatRegion || r.Type == TypeCRISPR
}

// GeneNumber returns the integer after the last '_' of the locus. CRISPR loci
// have no such integer and return ErrNotNumbered.
func (r *Record) GeneNumber() (int, error) {
	i := strings.LastIndexByte(r.Locus, '_')
	if i < 0 {
		return 0, ErrNotNumbered
	}
	suffix := r.Locus[i+1:]
	if !isDigits(suffix) {
		return 0, ErrNotNumbered
	}
	return strconv.Atoi(suffix)
}

// CRISPRNumber returns n for a locus ending in _CRISPR<n>.
func (r *Record) CRISPRNumber() (int, error) {
	i := strings.LastIndex(r.Locus, crisprTag)
	if i < 0 {
		return 0, fmt.Errorf("locus %q has no %s suffix", r.Locus, crisprTag)
	}
	return strconv.Atoi(r.Locus[i+len(crisprTag):])
}

// Product, EC number and inference as split out of Info.
func (r *Record) Product() string   { return r.infoField(0) }
func (r *Record) ECNumber() string  { return r.infoField(1) }
func (r *Record) Inference() string { return r.infoField(2) }

func (r *Record) infoField(i int) string {
	// inference may itself contain '|', so only the first two separate fields.
	parts := strings.SplitN(strings.TrimPrefix(strings.TrimSpace(r.Info), "|"), "|", 3)
	if i >= len(parts) {
		return ""
	}
	return strings.TrimSpace(parts[i])
}

// Header renders the rewritten FASTA header line (without trailing newline):
// >locus length gene_name info
func (r *Record) Header() string {
	return ">" + strings.Join([]string{r.Locus, strconv.Itoa(r.Length()), r.Name, r.Info}, " ")
}

// String renders the record as one table line, without trailing newline.
func (r *Record) String() string {
	return strings.Join([]string{
		strconv.Itoa(r.Start), strconv.Itoa(r.End), r.Strand.String(),
		r.Type, r.Locus, r.Name, r.Info,
	}, "\t")
}

// FormatInfo builds the trailing info column from its parts.
func FormatInfo(product, ecNumber, inference string) string {
	return "| " + product + " | " + ecNumber + " | " + inference
}

// ParseLine parses one table line.
func ParseLine(line string) (*Record, error) {
	fields := strings.SplitN(line, "\t", 7)
	if len(fields) != 7 {
		return nil, fmt.Errorf("expected 7 tab-separated columns, got %d", len(fields))
	}

	start, err := strconv.Atoi(fields[0])
	if err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}
	end, err := strconv.Atoi(fields[1])
	if err != nil {
		return nil, fmt.Errorf("end: %w", err)
	}
	strand, err := parseStrand(fields[2])
	if err != nil {
		return nil, err
	}

	return &Record{
		Start:  start,
		End:    end,
		Strand: strand,
		Type:   fields[3],
		Locus:  fields[4],
		Name:   fields[5],
		Info:   fields[6],
	}, nil
}

// Locus is the structured form of a locus id.
type Locus struct {
	Genome string
	Border bool // contig location 'b' (first/last feature of its contig), else 'i'
	Contig int
	Number int
	CRISPR bool
}

func (l Locus) String() string {
	loc := "i"
	if l.Border {
		loc = "b"
	}
	if l.CRISPR {
		return fmt.Sprintf("%s.%s%04d%s%d", l.Genome, loc, l.Contig, crisprTag, l.Number)
	}
	return fmt.Sprintf("%s.%s%04d_%05d", l.Genome, loc, l.Contig, l.Number)
}

// ParseLocus splits a locus id into its parts.
func ParseLocus(s string) (Locus, error) {
	var l Locus

	dot := strings.LastIndexByte(s, '.')
	if dot <= 0 || dot == len(s)-1 {
		return l, fmt.Errorf("locus %q: no genome name", s)
	}
	l.Genome = s[:dot]
	rest := s[dot+1:]

	switch rest[0] {
	case 'b':
		l.Border = true
	case 'i':
	default:
		return l, fmt.Errorf("locus %q: contig location must be 'b' or 'i'", s)
	}
	rest = rest[1:]

	us := strings.IndexByte(rest, '_')
	if us < 0 {
		return l, fmt.Errorf("locus %q: missing '_'", s)
	}
	contig, err := strconv.Atoi(rest[:us])
	if err != nil {
		return l, fmt.Errorf("locus %q: contig number: %w", s, err)
	}
	l.Contig = contig

	num := rest[us+1:]
	if strings.HasPrefix(num, "CRISPR") {
		l.CRISPR = true
		num = strings.TrimPrefix(num, "CRISPR")
	}
	n, err := strconv.Atoi(num)
	if err != nil {
		return l, fmt.Errorf("locus %q: number: %w", s, err)
	}
	l.Number = n
	return l, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
