package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/RedSnail/PanACoTA/internal/config"
	"github.com/RedSnail/PanACoTA/logger"
	ggdb "github.com/RedSnail/PanACoTA/pkg/db"
	"github.com/RedSnail/PanACoTA/pkg/handler"
	"github.com/RedSnail/PanACoTA/pkg/middle"
	"github.com/RedSnail/PanACoTA/pkg/pipeline"
)

var formatCmd = &cobra.Command{
	Use:   "format [genome...]",
	Short: "Convert annotator outputs into LSTINFO, Proteins and Genes files",
	Long: `Convert annotator outputs into LSTINFO, Proteins and Genes files.

For each genome, <prokka-dir>/<genome>-prokkaRes must hold exactly one .tbl, .faa
and .ffn file. Genomes that cannot be formatted are logged and listed at the end;
the others are formatted anyway.

Example usage:

	panacota format --prokka-dir tmp_files --list genomes.lst --threads 4
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		prokkaDir, _ := cmd.Flags().GetString("prokka-dir")
		listFile, _ := cmd.Flags().GetString("list")
		force, _ := cmd.Flags().GetBool("force")

		genomes := args
		if listFile != "" {
			listed, err := pipeline.ReadGenomeList(listFile)
			if err != nil {
				return err
			}
			genomes = append(genomes, listed...)
		}
		if len(genomes) == 0 {
			return errors.New("no genome given, use arguments or --list")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		skipped, err := pipeline.Format(ctx, pipeline.FormatConfig{
			ProkkaDir: prokkaDir,
			OutDir:    cfg.DataDir,
			Threads:   cfg.Threads,
			Force:     force,
		}, genomes)
		if err != nil {
			return err
		}
		for _, g := range skipped {
			fmt.Fprintln(cmd.OutOrStdout(), g)
		}
		return nil
	},
}

var pangenomeCmd = &cobra.Command{
	Use:   "pangenome",
	Short: "Build quali, quanti and summary matrices from gene families",
	Long: `Build quali, quanti and summary matrices from gene families.

The input is a pangenome listing (one family per line: id then genes) or a
proteinortho table. Outputs are <out>.quali.txt, <out>.quanti.txt,
<out>.summary.txt, and <out>.bin when it does not exist yet.

Example usage:

	panacota pangenome -i PanGenome-GENO.lst -o PanGenome-GENO.lst --save
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		input, _ := cmd.Flags().GetString("input")
		format, _ := cmd.Flags().GetString("format")
		base, _ := cmd.Flags().GetString("out")
		genomes, _ := cmd.Flags().GetStringSlice("genomes")
		save, _ := cmd.Flags().GetBool("save")

		if base == "" {
			base = input
		}
		pcfg := pipeline.PangenomeConfig{Input: input, Format: format, Genomes: genomes, Base: base}
		if save {
			db, err := ggdb.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer db.Close()
			pcfg.DB = db
		}

		_, err := pipeline.Pangenome(cmd.Context(), pcfg)
		return err
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a stored pangenome over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()

		db, err := ggdb.Open(cfg.DBPath)
		if err != nil {
			return err
		}
		defer db.Close()

		dbctx := &handler.DBContext{DB: db}
		if seqdb, err := ggdb.NewSequenceDB(cfg.DataDir); err != nil {
			logger.Warn("Sequence routes disabled", zap.Error(err))
		} else {
			dbctx.Sequence_DB = seqdb
		}

		logger.Info("Start:", zap.String("Version", VERSION))
		logger.Info("Open database on", zap.String("DB_LOC", cfg.DBPath))

		mux := handler.NewRouter(dbctx)
		srv := &http.Server{
			Addr: cfg.Listen,
			Handler: middle.Chain(mux,
				middle.RequestIDMiddleware(logger.L()),
				middle.LoggingMiddleware(logger.L())),
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		logger.Info("Server starting on", zap.String("addr", cfg.Listen))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	formatCmd.Flags().String("prokka-dir", "tmp_files", "Directory holding the <genome>-prokkaRes folders")
	formatCmd.Flags().StringP("list", "l", "", "File listing genomes, one per line (first column)")
	formatCmd.Flags().IntP(config.KeyThreads, "t", 1, "Genomes formatted in parallel (env PANACOTA_THREADS)")
	formatCmd.Flags().Bool("force", false, "Format again genomes that already have outputs")
	formatCmd.Flags().SortFlags = false

	pangenomeCmd.Flags().StringP("input", "i", "", "Pangenome listing or proteinortho table")
	pangenomeCmd.Flags().String("format", pipeline.FormatListing,
		"Input format: "+strings.Join([]string{pipeline.FormatListing, pipeline.FormatProteinOrtho}, ", "))
	pangenomeCmd.Flags().StringP("out", "o", "", "Output prefix (default: the input path)")
	pangenomeCmd.Flags().StringSlice("genomes", nil, "Genome order of the matrix columns (default: from gene ids)")
	pangenomeCmd.Flags().Bool("save", false, "Also save the pangenome to the store")
	pangenomeCmd.Flags().String(config.KeyDB, "", "Store path (default <data>/db/pangenome.db)")
	pangenomeCmd.MarkFlagRequired("input")
	pangenomeCmd.MarkFlagFilename("input")

	serveCmd.Flags().String(config.KeyListen, "0.0.0.0:8080", "Listen address (env PANACOTA_LISTEN)")
	serveCmd.Flags().String(config.KeyDB, "", "Store path (default <data>/db/pangenome.db)")
}

