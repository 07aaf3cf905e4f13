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

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <file> <key>",
	Short: "Look up a key in an index",
	Long: `Look up a key in an index file and print its value.

Example:
  ygg search books.idx 42`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		key, err := parseUint32(args[1])
		if err != nil {
			fmt.Println("Error: key must be a decimal unsigned 32-bit integer")
			os.Exit(1)
		}

		session := index.NewSession()
		if err := session.Open(resolveIndexPath(args[0])); err != nil {
			fmt.Printf("Error opening index: %v\n", err)
			os.Exit(1)
		}
		defer session.Close()

		value, found, err := session.Search(key)
		if err != nil {
			fmt.Printf("Error searching index: %v\n", err)
			os.Exit(1)
		}
		if !found {
			fmt.Printf("Key %d not found.\n", key)
			return
		}

		fmt.Printf("Found key %d with value %d.\n", key, value)
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
}
