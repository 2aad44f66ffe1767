package pangenome

import (
	"encoding/csv"
	"io"
	"strconv"
)

// SummaryColumns is the header of the summary file, family id column first.
var SummaryColumns = []string{
	"num_fam", "nb_members", "sum_quanti", "sum_quali",
	"nb_0", "nb_mono", "nb_multi", "sum_0-mono-multi", "max_multi",
}

// Summary holds the eight per-family counters, in file order.
type Summary [8]int

func (s Summary) Members() int     { return s[0] }
func (s Summary) SumQuanti() int   { return s[1] }
func (s Summary) SumQuali() int    { return s[2] }
func (s Summary) Absent() int      { return s[3] }
func (s Summary) Mono() int        { return s[4] }
func (s Summary) Multi() int       { return s[5] }
func (s Summary) NbGenomes() int   { return s[6] }
func (s Summary) MaxCopies() int   { return s[7] }
func (s Summary) IsCore() bool     { return s.Absent() == 0 && s.NbGenomes() > 0 }
func (s Summary) IsMonoCopy() bool { return s.Multi() == 0 && s.SumQuali() > 0 }

func summarize(members int, quanti []int) Summary {
	var s Summary
	s[0] = members
	for _, n := range quanti {
		s[1] += n
		switch {
		case n == 0:
			s[3]++
		case n == 1:
			s[2]++
			s[4]++
		default:
			s[2]++
			s[5]++
		}
		if n > s[7] {
			s[7] = n
		}
	}
	s[6] = s[3] + s[4] + s[5]
	return s
}

// Row is the matrix line of one family. Presence and Abundance follow the
// genome order of the Matrix.
type Row struct {
	Family    string
	Presence  []int
	Abundance []int
	Summary   Summary
}

type Matrix struct {
	Genomes []string
	Rows    []Row
}

// Build computes the matrix rows, one per family in fams order.
func Build(fams Families, grouped FamsByStrain, genomes []string) *Matrix {
	m := &Matrix{Genomes: genomes, Rows: make([]Row, 0, len(fams))}
	for _, fam := range fams {
		byGenome := grouped[fam.ID]
		row := Row{
			Family:    fam.ID,
			Presence:  make([]int, len(genomes)),
			Abundance: make([]int, len(genomes)),
		}
		for i, g := range genomes {
			n := len(byGenome[g])
			row.Abundance[i] = n
			if n > 0 {
				row.Presence[i] = 1
			}
		}
		row.Summary = summarize(len(fam.Members), row.Abundance)
		m.Rows = append(m.Rows, row)
	}
	return m
}

func (m *Matrix) WriteQuali(w io.Writer) error {
	return m.writeRows(w, append([]string{"fam_num"}, m.Genomes...), func(r Row) []int { return r.Presence })
}

func (m *Matrix) WriteQuanti(w io.Writer) error {
	return m.writeRows(w, append([]string{"fam_num"}, m.Genomes...), func(r Row) []int { return r.Abundance })
}

func (m *Matrix) WriteSummary(w io.Writer) error {
	return m.writeRows(w, SummaryColumns, func(r Row) []int { return r.Summary[:] })
}

func (m *Matrix) writeRows(w io.Writer, header []string, values func(Row) []int) error {
	tw := csv.NewWriter(w)
	tw.Comma = '\t'
	if err := tw.Write(header); err != nil {
		return err
	}
	for _, row := range m.Rows {
		vals := values(row)
		rec := make([]string, 0, len(vals)+1)
		rec = append(rec, row.Family)
		for _, v := range vals {
			rec = append(rec, strconv.Itoa(v))
		}
		if err := tw.Write(rec); err != nil {
			return err
		}
	}
	tw.Flush()
	return tw.Error()
}
