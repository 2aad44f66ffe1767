// Package config resolves settings from flags, PANACOTA_* environment
// variables (optionally loaded from a .env file) and defaults, in that order.
package config

import (
	"path"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/RedSnail/PanACoTA/logger"
)

const (
	KeyData     = "data"
	KeyThreads  = "threads"
	KeyLogLevel = "log-level"
	KeyDB       = "db"
	KeyListen   = "listen"
)

type Config struct {
	DataDir  string
	Threads  int
	LogLevel string
	DBPath   string
	Listen   string
}

// LoadDotEnv loads .env files into the environment. Missing files are not an
// error.
func LoadDotEnv(files ...string) {
	if err := godotenv.Load(files...); err != nil {
		logger.Warn("No .env found, using local environment")
	}
}

// New returns a viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("PANACOTA")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyData, "./data")
	v.SetDefault(KeyThreads, 1)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyListen, "0.0.0.0:8080")
	return v
}

// BindFlags makes flags take precedence over environment and defaults.
// Flags absent from fs are ignored.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for _, key := range []string{KeyData, KeyThreads, KeyLogLevel, KeyDB, KeyListen} {
		if f := fs.Lookup(key); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}
	return nil
}

func Load(v *viper.Viper) *Config {
	cfg := &Config{
		DataDir:  v.GetString(KeyData),
		Threads:  v.GetInt(KeyThreads),
		LogLevel: v.GetString(KeyLogLevel),
		DBPath:   v.GetString(KeyDB),
		Listen:   v.GetString(KeyListen),
	}
	if cfg.DBPath == "" {
		cfg.DBPath = path.Join(cfg.DataDir, "db", "pangenome.db")
	}
	if cfg.Threads < 1 {
		cfg.Threads = 1
	}
	return cfg
}
