package pangenome

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shenwei356/xopen"
)

// Read parses a pangenome listing: one family per line, the family id followed
// by its genes, separated by spaces. Blank lines are skipped.
func Read(r io.Reader) (Families, error) {
	var fams Families
	seen := make(map[string]struct{})
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	for n := 1; sc.Scan(); n++ {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if _, dup := seen[fields[0]]; dup {
			return nil, fmt.Errorf("line %d: %w: %s", n, ErrDuplicateFamily, fields[0])
		}
		seen[fields[0]] = struct{}{}
		fams = append(fams, Family{ID: fields[0], Members: fields[1:]})
	}
	return fams, sc.Err()
}

func Write(w io.Writer, fams Families) error {
	bw := bufio.NewWriter(w)
	for _, fam := range fams {
		bw.WriteString(fam.ID)
		for _, gene := range fam.Members {
			bw.WriteByte(' ')
			bw.WriteString(gene)
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadFile reads a pangenome listing, gzipped or not. An empty file holds no
// family.
func ReadFile(path string) (Families, error) {
	f, err := xopen.Ropen(path)
	if errors.Is(err, xopen.ErrNoContent) {
		return Families{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	fams, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return fams, nil
}

func WriteFile(path string, fams Families) error {
	f, err := xopen.Wopen(path)
	if err != nil {
		return err
	}
	if err := Write(f, fams); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
