// Conversion of prokka .tbl feature tables into annotation tables.

package lstinfo

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shenwei356/xopen"
)

const na = "NA"

type tblFeature struct {
	start, end int
	typ        string
	quals      map[string][]string
}

func (f *tblFeature) qual(key, fallback string) string {
	if v := f.quals[key]; len(v) > 0 && v[0] != "" {
		return v[0]
	}
	return fallback
}

// second inference qualifier, the first one being the ab initio prediction.
func (f *tblFeature) inference() string {
	if v := f.quals["inference"]; len(v) > 1 {
		return v[1]
	}
	return na
}

// FromTbl converts a prokka feature table into annotation records for genome.
// Contigs without features are skipped and do not use up a contig number.
func FromTbl(r io.Reader, genome string) ([]*Record, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)

	var (
		recs      []*Record
		contig    string
		contigNum int
		crisprNum = 1
		feats     []*tblFeature
		lineNum   int
	)

	flush := func() error {
		if len(feats) == 0 {
			return nil
		}
		contigNum++
		for i, f := range feats {
			loc := Locus{
				Genome: genome,
				Border: i == 0 || i == len(feats)-1,
				Contig: contigNum,
			}
			rec := &Record{Start: f.start, End: f.end, Strand: Direct, Type: f.typ}
			if rec.Start > rec.End {
				rec.Start, rec.End = rec.End, rec.Start
				rec.Strand = Complement
			}

			if f.typ == TypeRepeatRegion {
				loc.CRISPR = true
				loc.Number = crisprNum
				crisprNum++
				rec.Name = f.qual("gene", "crispr")
				rec.Info = FormatInfo(f.qual("product", "crispr-array"), f.qual("EC_number", na), f.inference())
			} else {
				tag := f.qual("locus_tag", "")
				us := strings.LastIndexByte(tag, '_')
				if us < 0 {
					return fmt.Errorf("contig %s: %s feature %d-%d has no usable locus_tag %q",
						contig, f.typ, f.start, f.end, tag)
				}
				n, err := strconv.Atoi(tag[us+1:])
				if err != nil {
					return fmt.Errorf("contig %s: locus_tag %q: %w", contig, tag, err)
				}
				loc.Number = n
				rec.Name = f.qual("gene", na)
				rec.Info = FormatInfo(f.qual("product", na), f.qual("EC_number", na), f.inference())
			}
			rec.Locus = loc.String()
			recs = append(recs, rec)
		}
		feats = feats[:0]
		return nil
	}

	var current *tblFeature
	for sc.Scan() {
		lineNum++
		line := strings.TrimRight(sc.Text(), "\r")

		switch {
		case strings.HasPrefix(line, ">Feature"):
			if err := flush(); err != nil {
				return nil, err
			}
			contig = strings.TrimSpace(strings.TrimPrefix(line, ">Feature"))
			current = nil

		case strings.TrimSpace(line) == "":

		case strings.HasPrefix(line, "\t"):
			// qualifier of the current feature
			parts := strings.Fields(line)
			if current == nil || len(parts) == 0 {
				continue
			}
			key := parts[0]
			value := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), key))
			current.quals[key] = append(current.quals[key], value)

		default:
			parts := strings.Split(line, "\t")
			if len(parts) < 3 {
				return nil, fmt.Errorf("tbl line %d: expected start, end and type: %q", lineNum, line)
			}
			start, err := strconv.Atoi(strings.Trim(parts[0], "<>"))
			if err != nil {
				return nil, fmt.Errorf("tbl line %d: start: %w", lineNum, err)
			}
			end, err := strconv.Atoi(strings.Trim(parts[1], "<>"))
			if err != nil {
				return nil, fmt.Errorf("tbl line %d: end: %w", lineNum, err)
			}
			f := &tblFeature{start: start, end: end, typ: parts[2], quals: map[string][]string{}}
			current = f
			if f.typ != "gene" {
				feats = append(feats, f)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return recs, nil
}

// ConvertTbl reads tblPath and writes the annotation table for genome to lstPath.
func ConvertTbl(tblPath, lstPath, genome string) error {
	in, err := xopen.Ropen(tblPath)
	if err != nil {
		return err
	}
	defer in.Close()

	recs, err := FromTbl(in, genome)
	if err != nil {
		return fmt.Errorf("%s: %w", tblPath, err)
	}

	out, err := xopen.Wopen(lstPath)
	if err != nil {
		return err
	}
	if err := Write(out, recs); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
