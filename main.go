package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/RedSnail/PanACoTA/internal/config"
	"github.com/RedSnail/PanACoTA/logger"
)

const VERSION = "0.1.0"

var v = config.New()

var rootCmd = &cobra.Command{
	Use:   "panacota",
	Short: "Format annotated genomes and post-treat their pangenome",
	Long: `panacota formats annotator outputs (tbl, faa, ffn) into LSTINFO, Proteins and
Genes files, builds the quali/quanti/summary matrices of a pangenome, and serves
a stored pangenome over HTTP.

Settings come from flags, then PANACOTA_* environment variables (a .env file is
loaded when present), then defaults.`,
	SilenceUsage: true,
	Version:      VERSION,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.BindFlags(v, cmd.Flags()); err != nil {
			return err
		}
		cfg := config.Load(v)

		var logPaths []string
		if logFile, _ := cmd.Flags().GetString("log-file"); logFile != "" {
			logPaths = append(logPaths, logFile)
		}
		if err := logger.InitLogger(logger.ParseLevel(cfg.LogLevel), logPaths...); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		logger.Debug("Configuration", zap.Any("config", cfg))
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String(config.KeyData, "./data", "Data directory (env PANACOTA_DATA)")
	pf.String(config.KeyLogLevel, "info", "Log level: debug, info, warn, error")
	pf.String("log-file", "", "Also write logs to this file")

	rootCmd.AddCommand(formatCmd, pangenomeCmd, serveCmd)
}

func main() {
	// Establish logger, the configured level replaces it once flags are parsed
	if err := logger.InitLogger(zapcore.InfoLevel); err != nil {
		panic(err)
	}
	config.LoadDotEnv()
	defer logger.Sync() // Make sure that the buffered is flushed.

	if err := rootCmd.Execute(); err != nil {
		logger.Error("Command failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func loadConfig() *config.Config {
	return config.Load(v)
}
