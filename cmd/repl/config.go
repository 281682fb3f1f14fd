package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// envPrefix namespaces every environment override, e.g. PREDSQL_ENGINE.
const envPrefix = "PREDSQL_"

// replConfig is the startup configuration of the REPL.
type replConfig struct {
	Engine      string `koanf:"engine"`
	DatabaseURL string `koanf:"database_url"`
	Mapping     string `koanf:"mapping"`
	LogLevel    string `koanf:"log_level"`
	Quote       bool   `koanf:"quote"`
	History     string `koanf:"history"`
}

// registerFlags declares the command-line flags read by loadConfig.
func registerFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "config file (default ./predsql.yaml if present)")
	fs.String("engine", "", "SQL dialect: postgres, mysql or sqlite")
	fs.String("database-url", "", "DSN to connect to on startup")
	fs.String("mapping", "", "YAML file of field -> column mappings")
	fs.String("log-level", "", "debug, info, warn or error")
	fs.Bool("quote", false, "quote column identifiers")
	fs.String("history", "", "readline history file")
}

// loadConfig layers defaults, the config file, PREDSQL_* environment
// variables and explicitly set flags, in increasing priority.
// DATABASE_URL is honoured when no other layer sets a DSN.
func loadConfig(flags *pflag.FlagSet) (*replConfig, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]any{
		"log_level": "warn",
		"history":   historyPath(),
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	var cfgFile string
	if flags != nil {
		cfgFile, _ = flags.GetString("config")
	}
	if cfgFile == "" {
		for _, name := range []string{"predsql.yaml", "predsql.yml"} {
			if _, err := os.Stat(name); err == nil {
				cfgFile = name
				break
			}
		}
	}
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed || f.Name == "config" {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg replConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.Engine = strings.ToLower(strings.TrimSpace(cfg.Engine))
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	return &cfg, nil
}
