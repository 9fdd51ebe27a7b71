// Package cli implements the thin command-line wrapper around the core
// engine (out-of-scope per §1; kept only as a demonstration surface).
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/retrieved/thicket/internal/config"
	"github.com/retrieved/thicket/internal/engine"
)

var (
	configPath string
	dbPath     string
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "retrieved",
	Short: "A local, markdown-first knowledge retrieval engine",
	Long: `retrieved indexes trees of markdown and plain-text files into a
chunk-granular inverted index and answers structured queries ranked by
BM25-style scoring, elbow cutoff, and hierarchical aggregation.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch cmd.Name() {
		case "init", "help", "completion":
			return nil
		}
		var err error
		cfg, err = loadConfig()
		return err
	},
}

func init() {
	home, _ := os.UserHomeDir()
	defaultConfig := filepath.Join(home, ".config", "retrieved", "config.toml")
	defaultDB := filepath.Join(home, ".config", "retrieved", "index.db")

	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfig, "path to config.toml")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", defaultDB, "path to the index database")

	rootCmd.AddCommand(searchCmd, contextCmd, explainCmd, scanCmd, getCmd)
}

// Execute runs the CLI's root command.
func Execute() error {
	return rootCmd.Execute()
}

func loadConfig() (*config.Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return &config.Config{StemmerLanguage: "english"}, nil
	}
	c, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if c.StemmerLanguage == "" {
		c.StemmerLanguage = "english"
	}
	return c, nil
}

func openEngine() (*engine.Engine, error) {
	manifestPath := dbPath + ".manifest.json"
	return engine.Open(dbPath, manifestPath, cfg)
}
