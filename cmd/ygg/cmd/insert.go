/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ssargent/yggdrasil/pkg/btree"
	"github.com/ssargent/yggdrasil/pkg/index"
)

// insertCmd represents the insert command
var insertCmd = &cobra.Command{
	Use:   "insert <file> <key> <value>",
	Short: "Insert a key-value pair into an index",
	Long: `Insert a key-value pair into an index file. Both key and value are
decimal unsigned 32-bit integers; inserting an existing key fails.

Example:
  ygg insert books.idx 42 100`,
	Args: cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		key, err1 := parseUint32(args[1])
		value, err2 := parseUint32(args[2])
		if err1 != nil || err2 != nil {
			fmt.Println("Error: key and value must be decimal unsigned 32-bit integers")
			os.Exit(1)
		}

		session := index.NewSession()
		if err := session.Open(resolveIndexPath(args[0])); err != nil {
			fmt.Printf("Error opening index: %v\n", err)
			os.Exit(1)
		}
		defer session.Close()

		if err := session.Insert(key, value); err != nil {
			var dup *btree.DuplicateKeyError
			if errors.As(err, &dup) {
				fmt.Printf("Error: duplicate key %d\n", dup.Key)
			} else {
				fmt.Printf("Error inserting key: %v\n", err)
			}
			os.Exit(1)
		}

		fmt.Printf("Inserted key %d.\n", key)
	},
}

func init() {
	rootCmd.AddCommand(insertCmd)
}
