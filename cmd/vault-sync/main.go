// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the vault-sync CLI.
// See docs/ARCHITECTURE § CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the vault-sync CLI.
var rootCmd = &cobra.Command{
	Use:   "vault-sync",
	Short: "Convert wiki-style vault notes into a static site's content tree",
	Long: `vault-sync converts notes from a wiki-style vault (Obsidian-like markup)
into a Hugo-like static site's content format: it synthesizes front
matter, extracts tags, filters configured header sections, and rewrites
embedded images into the site's storage layout.

The sync subcommand runs a batch over selected notes; history lists the
outcomes of past runs.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./vault-sync.yaml or ~/.config/vault-sync/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("vault-sync")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "vault-sync"))
		}
	}

	viper.SetEnvPrefix("VAULT_SYNC")
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
