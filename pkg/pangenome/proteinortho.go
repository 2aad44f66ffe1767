package pangenome

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// proteinortho tsv columns before the gene lists: species, genes, alg.-conn.
const proteinOrthoMeta = 3

// ParseProteinOrtho reads a proteinortho result table. Families are numbered
// from 1 in row order. Genes of a genome are comma separated, '*' marks a
// genome without gene.
func ParseProteinOrtho(r io.Reader) (Families, error) {
	var fams Families
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	header := true
	for sc.Scan() {
		if header {
			header = false
			continue
		}
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.FieldsFunc(line, func(c rune) bool {
			return c == ' ' || c == '*' || c == ',' || c == '\t'
		})
		var members []string
		if len(fields) > proteinOrthoMeta {
			members = fields[proteinOrthoMeta:]
		}
		fams = append(fams, Family{ID: strconv.Itoa(len(fams) + 1), Members: members})
	}
	return fams, sc.Err()
}
