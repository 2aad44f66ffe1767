// Package pangenome turns gene families into presence/absence (quali) and
// copy-number (quanti) matrices across a set of genomes, with an 8-column
// summary per family.
package pangenome

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrAmbiguousGenome = errors.New("ambiguous genome names")
	ErrUnknownGene     = errors.New("gene does not belong to any genome")
	ErrDuplicateFamily = errors.New("duplicate family id")
)

// Family is one cluster of genes. Members are gene ids such as
// GENO.1216.00002.b0001_00001, whose owning genome is GENO.1216.00002.
type Family struct {
	ID      string
	Members []string
}

// Families keeps the order in which families were read; every output follows it.
type Families []Family

// FamsByStrain maps family id → genome → genes of that genome in the family.
type FamsByStrain map[string]map[string][]string

// GenomesOf derives the sorted genome list from gene ids, taking the text
// before the last '.' of each id.
func GenomesOf(fams Families) ([]string, error) {
	seen := make(map[string]struct{})
	for _, fam := range fams {
		for _, gene := range fam.Members {
			dot := strings.LastIndexByte(gene, '.')
			if dot <= 0 {
				return nil, fmt.Errorf("family %s: %q: %w", fam.ID, gene, ErrUnknownGene)
			}
			seen[gene[:dot]] = struct{}{}
		}
	}
	genomes := make([]string, 0, len(seen))
	for g := range seen {
		genomes = append(genomes, g)
	}
	sort.Strings(genomes)
	return genomes, nil
}

// Resolver finds the genome a gene id belongs to. A gene belongs to genome G
// when it starts with G followed by '.'. Genome sets in which that could match
// two names are rejected by NewResolver.
type Resolver struct {
	names map[string]struct{}
}

func NewResolver(genomes []string) (*Resolver, error) {
	r := &Resolver{names: make(map[string]struct{}, len(genomes))}
	for _, g := range genomes {
		if g == "" {
			return nil, errors.New("empty genome name")
		}
		if _, dup := r.names[g]; dup {
			return nil, fmt.Errorf("%w: %s given twice", ErrAmbiguousGenome, g)
		}
		r.names[g] = struct{}{}
	}
	for g := range r.names {
		for i := 0; i < len(g); i++ {
			if g[i] != '.' {
				continue
			}
			if _, ok := r.names[g[:i]]; ok {
				return nil, fmt.Errorf("%w: %s is a prefix of %s", ErrAmbiguousGenome, g[:i], g)
			}
		}
	}
	return r, nil
}

// Resolve returns the genome owning gene.
func (r *Resolver) Resolve(gene string) (string, bool) {
	for i := len(gene) - 1; i > 0; i-- {
		if gene[i] != '.' {
			continue
		}
		if _, ok := r.names[gene[:i]]; ok {
			return gene[:i], true
		}
	}
	return "", false
}

// Group splits every family's members by owning genome.
func Group(fams Families, r *Resolver) (FamsByStrain, error) {
	grouped := make(FamsByStrain, len(fams))
	for _, fam := range fams {
		if _, dup := grouped[fam.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateFamily, fam.ID)
		}
		byGenome := make(map[string][]string)
		for _, gene := range fam.Members {
			genome, ok := r.Resolve(gene)
			if !ok {
				return nil, fmt.Errorf("family %s: %s: %w", fam.ID, gene, ErrUnknownGene)
			}
			byGenome[genome] = append(byGenome[genome], gene)
		}
		grouped[fam.ID] = byGenome
	}
	return grouped, nil
}
