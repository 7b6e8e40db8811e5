// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the paper-insights CLI and server.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-insights/internal/logger"
	"github.com/pdiddy/paper-insights/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// loadedSecrets holds contact data loaded from .secrets/ at startup.
	loadedSecrets secrets.Secrets

	// log is the process logger, configured once flags and config are read.
	log = logger.New("paper-insights", "")
)

// rootCmd is the base command for the paper-insights CLI.
var rootCmd = &cobra.Command{
	Use:   "paper-insights",
	Short: "Category rankings and keyword summaries for arXiv papers",
	Long: `paper-insights answers two questions about arXiv papers: which subject
categories were most frequent in a given year of a metadata dump, and which
keywords best summarise a single paper.

"serve" exposes both over HTTP. "categories" and "keywords" run them once
and print the result.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		log = logger.New("paper-insights", viper.GetString("log.level"))

		s, err := secrets.Load(viper.GetString("secrets_dir"), log)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			log.Debug("secrets loaded", slog.Any("keys", s.Keys()))
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./paper-insights.yaml or ~/.config/paper-insights/paper-insights.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (default info)")
	rootCmd.PersistentFlags().String("secrets-dir", ".secrets/", "directory of secret files")

	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("secrets_dir", rootCmd.PersistentFlags().Lookup("secrets-dir"))
	setDefaults()
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("paper-insights")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "paper-insights"))
		}
	}

	viper.SetEnvPrefix("PAPER_INSIGHTS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
