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

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the Yggdrasil configuration",
	Long: `Initialize the Yggdrasil configuration file.

This command will:
- Create the config directory if needed
- Write a config file with defaults
- Generate a random API key for the serve command

Examples:
  ygg init
  ygg init --data-dir=./indexes`,
	Run: func(cmd *cobra.Command, args []string) {
		dataDir, _ := cmd.Flags().GetString("data-dir")
		force, _ := cmd.Flags().GetBool("force")

		path := cfgFile
		if path == "" {
			path = config.GetDefaultConfigPath()
		}
		if config.ConfigExists(path) && !force {
			fmt.Printf("Config file '%s' already exists (use --force to overwrite)\n", path)
			os.Exit(1)
		}

		bootstrapped, err := config.BootstrapConfig(path, dataDir)
		if err != nil {
			fmt.Printf("Error initializing config: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Config written to %s\n", path)
		fmt.Printf("Data directory: %s\n", bootstrapped.DataDir)
		fmt.Printf("API key: %s\n", bootstrapped.Security.APIKey)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().String("data-dir", "", "Data directory for index files")
	initCmd.Flags().BoolP("force", "f", false, "Overwrite an existing config file")
}
