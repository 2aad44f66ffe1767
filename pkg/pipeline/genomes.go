package pipeline

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/shenwei356/xopen"
)

// ReadGenomeList reads genome names from the first column of a list file.
// Blank lines and lines starting with '#' are skipped.
func ReadGenomeList(path string) ([]string, error) {
	f, err := xopen.Ropen(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var genomes []string
	seen := make(map[string]struct{})
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		if _, dup := seen[fields[0]]; dup {
			return nil, fmt.Errorf("%s: genome %s listed twice", path, fields[0])
		}
		seen[fields[0]] = struct{}{}
		genomes = append(genomes, fields[0])
	}
	return genomes, sc.Err()
}
