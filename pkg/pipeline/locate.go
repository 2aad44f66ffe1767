// Package pipeline runs the per-genome format step and the pangenome
// post-treatment over a whole genome set.
package pipeline

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/RedSnail/PanACoTA/pkg/reconcile"
)

// Upstream are the annotator outputs of one genome.
type Upstream struct {
	Tbl string
	Faa string
	Ffn string
}

// ResultDir is the annotator output directory of genome.
func ResultDir(prokkaDir, genome string) string {
	return filepath.Join(prokkaDir, genome+"-prokkaRes")
}

// Locate finds exactly one .tbl, .faa and .ffn file for genome.
func Locate(prokkaDir, genome string) (*Upstream, error) {
	dir := ResultDir(prokkaDir, genome)
	var found [3]string
	for i, ext := range []string{"tbl", "faa", "ffn"} {
		matches, err := filepath.Glob(filepath.Join(dir, "*."+ext))
		if err != nil {
			return nil, fmt.Errorf("glob %s files in %s: %w", ext, dir, err)
		}
		sort.Strings(matches)
		switch len(matches) {
		case 0:
			return nil, &reconcile.Error{Kind: reconcile.MissingUpstreamFile,
				Genome: genome, Pattern: ext, Source: dir}
		case 1:
			found[i] = matches[0]
		default:
			return nil, &reconcile.Error{Kind: reconcile.AmbiguousUpstreamFile,
				Genome: genome, Pattern: ext, Source: dir, Candidates: matches}
		}
	}
	return &Upstream{Tbl: found[0], Faa: found[1], Ffn: found[2]}, nil
}
