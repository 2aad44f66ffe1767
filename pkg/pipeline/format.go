package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/RedSnail/PanACoTA/internal/util"
	"github.com/RedSnail/PanACoTA/logger"
	ggdb "github.com/RedSnail/PanACoTA/pkg/db"
	"github.com/RedSnail/PanACoTA/pkg/lstinfo"
	"github.com/RedSnail/PanACoTA/pkg/reconcile"
)

type FormatConfig struct {
	// directory holding <genome>-prokkaRes folders
	ProkkaDir string
	// LSTINFO, Proteins and Genes are created here
	OutDir  string
	Threads int
	// reformat genomes whose outputs already exist
	Force bool
}

// Formatted are the files produced for one genome.
type Formatted struct {
	Lst string
	Prt string
	Gen string
}

func OutputsFor(outDir, genome string) Formatted {
	return Formatted{
		Lst: filepath.Join(outDir, ggdb.LstinfoDir, genome+".lst"),
		Prt: filepath.Join(outDir, ggdb.ProteinsDir, genome+".prt"),
		Gen: filepath.Join(outDir, ggdb.GenesDir, genome+".gen"),
	}
}

// Format converts every genome's annotator outputs. A genome that fails is
// logged and returned in skipped; the others go on. The only returned error
// is a setup failure or ctx cancellation.
func Format(ctx context.Context, cfg FormatConfig, genomes []string) (skipped []string, err error) {
	for _, sub := range []string{ggdb.LstinfoDir, ggdb.ProteinsDir, ggdb.GenesDir} {
		if err := os.MkdirAll(filepath.Join(cfg.OutDir, sub), 0o755); err != nil {
			return nil, err
		}
	}

	log := logger.L().With(zap.String("run_id", uuid.NewString()))
	log.Info("Formatting genomes", zap.Int("genomes", len(genomes)), zap.Int("threads", cfg.Threads))

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	if cfg.Threads > 0 {
		g.SetLimit(cfg.Threads)
	}
	for _, genome := range genomes {
		genome := genome
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if ferr := formatGenome(log, cfg, genome); ferr != nil {
				mu.Lock()
				skipped = append(skipped, genome)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Strings(skipped)
	if len(skipped) > 0 {
		log.Warn("Some genomes could not be formatted", zap.Strings("skipped", skipped))
	}
	log.Info("Formatting done", zap.Int("formatted", len(genomes)-len(skipped)))
	return skipped, nil
}

// formatGenome writes the lst, prt and gen files of one genome, logging the
// reason when it cannot.
func formatGenome(log *zap.Logger, cfg FormatConfig, genome string) error {
	log = log.With(zap.String("genome", genome))
	out := OutputsFor(cfg.OutDir, genome)

	if !cfg.Force && util.FileExists(out.Lst) && util.FileExists(out.Prt) && util.FileExists(out.Gen) {
		log.Info("Already formatted, kept")
		return nil
	}

	up, err := Locate(cfg.ProkkaDir, genome)
	if err != nil {
		logFailure(log, err)
		return err
	}

	if err := lstinfo.ConvertTbl(up.Tbl, out.Lst, genome); err != nil {
		log.Error("Could not convert annotation table", zap.String("tbl", up.Tbl), zap.Error(err))
		return err
	}
	// a skipped genome keeps neither .prt nor .gen
	if err := reconcile.Genes(out.Lst, up.Ffn, out.Gen, genome); err != nil {
		logFailure(log, err)
		log.Error(fmt.Sprintf("gen file not created from %s.", up.Ffn))
		return errors.Join(err, util.RemoveIfExists(out.Prt))
	}
	if err := reconcile.Proteins(out.Lst, up.Faa, out.Prt); err != nil {
		logFailure(log, err)
		log.Error(fmt.Sprintf("prt file not created from %s.", up.Faa))
		return errors.Join(err, util.RemoveIfExists(out.Gen))
	}
	log.Debug("Formatted", zap.String("prt", out.Prt), zap.String("gen", out.Gen))
	return nil
}

func logFailure(log *zap.Logger, err error) {
	if kind := reconcile.KindOf(err); kind != 0 {
		log.Error(err.Error(), zap.Stringer("kind", kind))
		return
	}
	log.Error(err.Error())
}
