package pangenome

import (
	"fmt"
	"io"

	"github.com/RedSnail/PanACoTA/internal/util"
	"github.com/RedSnail/PanACoTA/logger"
	"github.com/shenwei356/xopen"
	"go.uber.org/zap"
)

// Outputs are the files written by PostTreat for one base path.
type Outputs struct {
	Quali    string
	Quanti   string
	Summary  string
	Snapshot string
}

func OutputsFor(base string) Outputs {
	return Outputs{
		Quali:    base + ".quali.txt",
		Quanti:   base + ".quanti.txt",
		Summary:  base + ".summary.txt",
		Snapshot: base + ".bin",
	}
}

type Result struct {
	Matrix          *Matrix
	ByStrain        FamsByStrain
	Outputs         Outputs
	SnapshotWritten bool
}

// PostTreat groups fams by genome, writes the quali, quanti and summary
// matrices next to base, and the snapshot when there is none yet. When
// genomes is empty it is derived from the gene ids.
func PostTreat(fams Families, genomes []string, base string) (*Result, error) {
	if len(genomes) == 0 {
		var err error
		if genomes, err = GenomesOf(fams); err != nil {
			return nil, err
		}
	}
	r, err := NewResolver(genomes)
	if err != nil {
		return nil, err
	}
	grouped, err := Group(fams, r)
	if err != nil {
		return nil, err
	}

	m := Build(fams, grouped, genomes)
	out := OutputsFor(base)
	for _, f := range []struct {
		path  string
		write func(io.Writer) error
	}{
		{out.Quali, m.WriteQuali},
		{out.Quanti, m.WriteQuanti},
		{out.Summary, m.WriteSummary},
	} {
		if err := writeTo(f.path, f.write); err != nil {
			return nil, err
		}
	}

	written, err := SaveSnapshot(out.Snapshot, &Snapshot{Genomes: genomes, Families: fams, ByStrain: grouped})
	if err != nil {
		return nil, err
	}
	if !written {
		logger.Debug("snapshot already present, kept", zap.String("path", out.Snapshot))
	}
	logger.Info("pangenome post-treated",
		zap.Int("families", len(fams)),
		zap.Int("genomes", len(genomes)),
		zap.String("base", base))

	return &Result{Matrix: m, ByStrain: grouped, Outputs: out, SnapshotWritten: written}, nil
}

func writeTo(path string, write func(io.Writer) error) error {
	f, err := xopen.Wopen(path)
	if err != nil {
		return err
	}
	err = write(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		util.RemoveIfExists(path)
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
