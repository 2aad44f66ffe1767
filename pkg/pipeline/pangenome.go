package pipeline

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/RedSnail/PanACoTA/logger"
	ggdb "github.com/RedSnail/PanACoTA/pkg/db"
	"github.com/RedSnail/PanACoTA/pkg/pangenome"
	"github.com/shenwei356/xopen"
)

// Input formats accepted by Pangenome.
const (
	FormatListing      = "lst"
	FormatProteinOrtho = "proteinortho"
)

type PangenomeConfig struct {
	Input  string
	Format string
	// genome order of the matrices; derived from gene ids when empty
	Genomes []string
	// output prefix of the .quali.txt, .quanti.txt, .summary.txt and .bin files
	Base string
	// optional store to save the result into
	DB *sql.DB
}

// ReadFamilies loads families from a pangenome listing or a proteinortho table.
func ReadFamilies(path, format string) (pangenome.Families, error) {
	switch format {
	case FormatListing, "":
		return pangenome.ReadFile(path)
	case FormatProteinOrtho:
		f, err := xopen.Ropen(path)
		if errors.Is(err, xopen.ErrNoContent) {
			return pangenome.Families{}, nil
		}
		if err != nil {
			return nil, err
		}
		defer f.Close()
		fams, err := pangenome.ParseProteinOrtho(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return fams, nil
	}
	return nil, fmt.Errorf("unknown pangenome format %q", format)
}

// Pangenome post-treats a family file and optionally saves the result.
func Pangenome(ctx context.Context, cfg PangenomeConfig) (*pangenome.Result, error) {
	log := logger.L().With(zap.String("run_id", uuid.NewString()))

	fams, err := ReadFamilies(cfg.Input, cfg.Format)
	if err != nil {
		return nil, err
	}
	log.Info("Families read", zap.String("input", cfg.Input), zap.Int("families", len(fams)))

	res, err := pangenome.PostTreat(fams, cfg.Genomes, cfg.Base)
	if err != nil {
		return nil, err
	}
	log.Info("Matrices written",
		zap.String("quali", res.Outputs.Quali),
		zap.String("quanti", res.Outputs.Quanti),
		zap.String("summary", res.Outputs.Summary),
		zap.Bool("snapshot_written", res.SnapshotWritten))

	if cfg.DB != nil {
		if err := ggdb.Save(ctx, cfg.DB, res.Matrix, res.ByStrain); err != nil {
			return nil, fmt.Errorf("save pangenome: %w", err)
		}
		log.Info("Pangenome saved to store")
	}
	return res, nil
}
