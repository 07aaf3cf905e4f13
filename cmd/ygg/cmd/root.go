/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ssargent/yggdrasil/pkg/config"
)

var (
	cfgFile string
	cfg     *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ygg",
	Short: "Yggdrasil - Persistent B-tree index manager",
	Long: `Yggdrasil manages persistent B-tree index files mapping unsigned
32-bit integer keys to unsigned 32-bit integer values.

An index lives in a single file of fixed 512-byte blocks. Use the
interactive shell for exploratory work, the one-shot subcommands for
scripting, or serve an index over HTTP.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cfgFile == "" {
			cfgFile = config.GetDefaultConfigPath()
		}
		if config.ConfigExists(cfgFile) {
			loaded, err := config.LoadConfig(cfgFile)
			if err != nil {
				return err
			}
			cfg = loaded
		} else {
			cfg = config.DefaultConfig()
		}
		if cfg.DataDir != "" {
			if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
				return fmt.Errorf("failed to create data dir: %w", err)
			}
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default ~/.config/ygg/config.yaml)")
}
