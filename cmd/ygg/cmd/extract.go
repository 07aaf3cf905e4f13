/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ssargent/yggdrasil/pkg/index"
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <file> <out>",
	Short: "Export all key-value pairs to a text file",
	Long: `Export every key-value pair in an index to a text file, one
"key,value" per line in ascending key order. The output format is the
same one load consumes.

Example:
  ygg extract books.idx books-sorted.csv`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		session := index.NewSession()
		if err := session.Open(resolveIndexPath(args[0])); err != nil {
			fmt.Printf("Error opening index: %v\n", err)
			os.Exit(1)
		}
		defer session.Close()

		count, err := session.Extract(args[1])
		if err != nil {
			fmt.Printf("Error extracting data: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Data extracted to '%s' (%d records).\n", args[1], count)
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
}
