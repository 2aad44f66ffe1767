package db

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/RedSnail/PanACoTA/internal/util"
	"github.com/RedSnail/PanACoTA/pkg/fasta"
)

var ErrSequenceNotFound = errors.New("sequence not found")

// Folders written by the format step under the data directory.
const (
	ProteinsDir = "Proteins"
	GenesDir    = "Genes"
	LstinfoDir  = "LSTINFO"
)

// SequenceDB serves sequences from the reconciled Proteins/<genome>.prt and
// Genes/<genome>.gen files.
type SequenceDB struct {
	Dir string
}

type GeneRequest struct {
	GeneID string `json:"gene_id"`
	IsProt bool   `json:"is_prot"`
}

// Genome is the owner of the gene, the id without its last '.' part.
func (g GeneRequest) Genome() string {
	if i := strings.LastIndexByte(g.GeneID, '.'); i > 0 {
		return g.GeneID[:i]
	}
	return ""
}

func NewSequenceDB(dir string) (*SequenceDB, error) {
	required_folders := []string{
		dir,
		path.Join(dir, ProteinsDir),
		path.Join(dir, GenesDir),
	}

	var errs error
	for _, folder := range required_folders {
		if _, err := os.Stat(folder); os.IsNotExist(err) {
			errs = errors.Join(errs, fmt.Errorf("%w: %s", os.ErrNotExist, folder))
		}
	}
	if errs != nil {
		return nil, errs
	}
	return &SequenceDB{Dir: dir}, nil
}

func (seqdb *SequenceDB) file(genome string, prot bool) string {
	if prot {
		return path.Join(seqdb.Dir, ProteinsDir, genome+".prt")
	}
	return path.Join(seqdb.Dir, GenesDir, genome+".gen")
}

// GetGeneSequence returns the FASTA record of one gene.
func (seqdb *SequenceDB) GetGeneSequence(req GeneRequest) ([]byte, error) {
	out, err := seqdb.GetMultipleGene([]GeneRequest{req}, req.IsProt)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetMultipleGene returns the FASTA records of several genes, in request
// order. Each genome file is read once.
func (seqdb *SequenceDB) GetMultipleGene(reqs []GeneRequest, is_prot bool) ([]byte, error) {
	byGenome := make(map[string]map[string]string)
	for _, req := range reqs {
		genome := req.Genome()
		if genome == "" {
			return nil, fmt.Errorf("%w: %s", ErrSequenceNotFound, req.GeneID)
		}
		if byGenome[genome] == nil {
			byGenome[genome] = make(map[string]string)
		}
		byGenome[genome][req.GeneID] = ""
	}

	for genome, wanted := range byGenome {
		if err := seqdb.collect(seqdb.file(genome, is_prot), wanted); err != nil {
			return nil, err
		}
	}

	var out strings.Builder
	for _, req := range reqs {
		rec := byGenome[req.Genome()][req.GeneID]
		if rec == "" {
			return nil, fmt.Errorf("%w: %s", ErrSequenceNotFound, req.GeneID)
		}
		out.WriteString(rec)
	}
	return []byte(out.String()), nil
}

// collect fills wanted (gene id → record text) from one sequence file.
func (seqdb *SequenceDB) collect(file string, wanted map[string]string) error {
	if !util.FileExists(file) {
		return fmt.Errorf("%w: no sequence file %s", ErrSequenceNotFound, file)
	}
	r, err := fasta.Open(file)
	if err != nil {
		return err
	}
	defer r.Close()

	left := len(wanted)
	for left > 0 {
		rec, err := r.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if got, ok := wanted[rec.ID()]; !ok || got != "" || rec.Header == "" {
			continue
		}
		var sb strings.Builder
		sb.WriteString(rec.Header)
		sb.WriteByte('\n')
		if err := rec.WriteSequence(&sb); err != nil {
			return err
		}
		wanted[rec.ID()] = sb.String()
		left--
	}
	return nil
}
