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

// loadCmd represents the load command
var loadCmd = &cobra.Command{
	Use:   "load <file> <datafile>",
	Short: "Bulk load key-value pairs from a text file",
	Long: `Bulk load key-value pairs into an index from a text file with one
"key,value" record per line. Malformed lines and duplicate keys are
reported and skipped.

Example:
  ygg load books.idx books.csv`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		session := index.NewSession()
		if err := session.Open(resolveIndexPath(args[0])); err != nil {
			fmt.Printf("Error opening index: %v\n", err)
			os.Exit(1)
		}
		defer session.Close()

		result, err := session.Load(args[1])
		if result != nil {
			for _, bad := range result.Malformed {
				fmt.Printf("Invalid line: %s\n", bad)
			}
		}
		if err != nil {
			fmt.Printf("Error loading data: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Loaded %d records from '%s'", result.Inserted, args[1])
		if result.Duplicates > 0 {
			fmt.Printf(" (%d duplicates skipped)", result.Duplicates)
		}
		fmt.Println(".")
	},
}

func init() {
	rootCmd.AddCommand(loadCmd)
}
