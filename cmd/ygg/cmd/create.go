/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ssargent/yggdrasil/pkg/index"
)

// createCmd represents the create command
var createCmd = &cobra.Command{
	Use:   "create <file>",
	Short: "Create a new empty index file",
	Long: `Create a new empty index file: a header block with the magic and a
zero root offset. An existing file is only replaced with --force.

Example:
  ygg create books.idx`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		force, _ := cmd.Flags().GetBool("force")
		path := resolveIndexPath(args[0])

		session := index.NewSession()
		if err := session.Create(path, force); err != nil {
			if errors.Is(err, index.ErrIndexExists) {
				fmt.Printf("Error: file '%s' already exists (use --force to overwrite)\n", path)
			} else {
				fmt.Printf("Error creating index file: %v\n", err)
			}
			os.Exit(1)
		}

		fmt.Printf("Index file '%s' created.\n", path)
	},
}

func init() {
	rootCmd.AddCommand(createCmd)
	createCmd.Flags().BoolP("force", "f", false, "Overwrite an existing file")
}

// resolveIndexPath resolves a bare index name against the configured data
// directory. Paths with a directory component are used verbatim.
func resolveIndexPath(name string) string {
	if filepath.IsAbs(name) || strings.ContainsRune(name, os.PathSeparator) {
		return name
	}
	if cfg == nil || cfg.DataDir == "" {
		return name
	}
	return filepath.Join(cfg.DataDir, name)
}
