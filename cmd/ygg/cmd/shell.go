/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ssargent/yggdrasil/pkg/btree"
	"github.com/ssargent/yggdrasil/pkg/index"
)

// shellCmd represents the shell command
var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Run the interactive index manager",
	Long: `Run the interactive B-tree index manager.

The shell reads one command per line. Command names are case-insensitive;
arguments (such as file names) keep their case.

Example:
  ygg shell`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		session := index.NewSession()
		defer session.Close()
		runShell(session, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

// runShell drives the command loop until quit, exit, or end of input.
func runShell(session *index.Session, in io.Reader, out io.Writer) {
	fmt.Fprintln(out, "Welcome to the B-Tree Index Manager. Type 'help' for a list of commands.")
	reader := bufio.NewReader(in)
	for {
		fmt.Fprint(out, "Command> ")
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			// End of input behaves like quit.
			fmt.Fprintln(out)
			return
		}
		if quit := executeLine(session, line, reader, out); quit {
			return
		}
		if err != nil {
			fmt.Fprintln(out)
			return
		}
	}
}

// executeLine runs one shell command and reports whether the shell should
// terminate. The command word is lowered; arguments are left untouched.
func executeLine(session *index.Session, line string, in *bufio.Reader, out io.Writer) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	command, args := strings.ToLower(fields[0]), fields[1:]

	switch command {
	case "quit", "exit":
		fmt.Fprintln(out, "Exiting.")
		return true
	case "create":
		if len(args) != 1 {
			fmt.Fprintln(out, "Usage: create <filename>")
			return false
		}
		shellCreate(session, args[0], in, out)
	case "open":
		if len(args) != 1 {
			fmt.Fprintln(out, "Usage: open <filename>")
			return false
		}
		shellOpen(session, args[0], out)
	case "insert":
		if len(args) != 2 {
			fmt.Fprintln(out, "Usage: insert <key> <value>")
			return false
		}
		key, err1 := parseUint32(args[0])
		value, err2 := parseUint32(args[1])
		if err1 != nil || err2 != nil {
			fmt.Fprintln(out, "Error: Key and value must be unsigned 32-bit integers.")
			return false
		}
		shellInsert(session, key, value, out)
	case "search":
		if len(args) != 1 {
			fmt.Fprintln(out, "Usage: search <key>")
			return false
		}
		key, err := parseUint32(args[0])
		if err != nil {
			fmt.Fprintln(out, "Error: Key must be an unsigned 32-bit integer.")
			return false
		}
		shellSearch(session, key, out)
	case "load":
		if len(args) != 1 {
			fmt.Fprintln(out, "Usage: load <filename>")
			return false
		}
		shellLoad(session, args[0], out)
	case "print":
		shellPrint(session, out)
	case "extract":
		if len(args) != 1 {
			fmt.Fprintln(out, "Usage: extract <filename>")
			return false
		}
		shellExtract(session, args[0], out)
	case "help":
		printHelp(out)
	default:
		fmt.Fprintln(out, "Unknown command. Type 'help' for a list of commands.")
	}
	return false
}

func shellCreate(session *index.Session, path string, in *bufio.Reader, out io.Writer) {
	err := session.Create(path, false)
	if errors.Is(err, index.ErrIndexExists) {
		fmt.Fprintf(out, "File '%s' already exists. Overwrite? (y/n): ", path)
		answer, _ := in.ReadString('\n')
		if strings.ToLower(strings.TrimSpace(answer)) != "y" {
			fmt.Fprintln(out, "Operation cancelled.")
			return
		}
		err = session.Create(path, true)
	}
	if err != nil {
		fmt.Fprintln(out, "Error creating index file.")
		return
	}
	fmt.Fprintf(out, "Index file '%s' created.\n", path)
}

func shellOpen(session *index.Session, path string, out io.Writer) {
	err := session.Open(path)
	switch {
	case err == nil:
		fmt.Fprintf(out, "Index file '%s' opened.\n", path)
	case errors.Is(err, os.ErrNotExist):
		fmt.Fprintf(out, "Error: File '%s' does not exist.\n", path)
	default:
		fmt.Fprintf(out, "Error: %v\n", err)
	}
}

func shellInsert(session *index.Session, key, value uint32, out io.Writer) {
	err := session.Insert(key, value)
	var dup *btree.DuplicateKeyError
	switch {
	case err == nil:
		fmt.Fprintf(out, "Inserted key %d.\n", key)
	case errors.As(err, &dup):
		fmt.Fprintf(out, "Error: Duplicate key %d.\n", dup.Key)
	case errors.Is(err, index.ErrNoIndexOpen):
		fmt.Fprintln(out, "Error: No index file is open.")
	default:
		fmt.Fprintln(out, "An error occurred during insertion.")
	}
}

func shellSearch(session *index.Session, key uint32, out io.Writer) {
	if empty, err := session.Empty(); err != nil {
		fmt.Fprintln(out, "Error: No index file is open.")
		return
	} else if empty {
		fmt.Fprintln(out, "The B-tree is empty.")
		return
	}
	value, found, err := session.Search(key)
	switch {
	case err != nil:
		fmt.Fprintln(out, "An error occurred during search.")
	case found:
		fmt.Fprintf(out, "Found key %d with value %d.\n", key, value)
	default:
		fmt.Fprintf(out, "Key %d not found.\n", key)
	}
}

func shellLoad(session *index.Session, path string, out io.Writer) {
	if !session.IsOpen() {
		fmt.Fprintln(out, "Error: No index file is open.")
		return
	}
	result, err := session.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(out, "Error: File '%s' does not exist.\n", path)
		return
	}
	if result != nil {
		for _, bad := range result.Malformed {
			fmt.Fprintf(out, "Invalid line: %s\n", bad)
		}
		if result.Duplicates > 0 {
			fmt.Fprintf(out, "Skipped %d duplicate keys.\n", result.Duplicates)
		}
	}
	if err != nil {
		fmt.Fprintln(out, "Error loading data from file.")
		return
	}
	fmt.Fprintf(out, "Data loaded from '%s' (%d records).\n", path, result.Inserted)
}

func shellPrint(session *index.Session, out io.Writer) {
	empty, err := session.Empty()
	if err != nil {
		fmt.Fprintln(out, "Error: No index file is open.")
		return
	}
	if empty {
		fmt.Fprintln(out, "The B-tree is empty.")
		return
	}
	fmt.Fprintln(out, "All key-value pairs in the B-tree:")
	if _, err := session.Dump(out); err != nil {
		fmt.Fprintln(out, "An error occurred during traversal.")
	}
}

func shellExtract(session *index.Session, path string, out io.Writer) {
	empty, err := session.Empty()
	if err != nil {
		fmt.Fprintln(out, "Error: No index file is open.")
		return
	}
	if empty {
		fmt.Fprintln(out, "The B-tree is empty.")
		return
	}
	count, err := session.Extract(path)
	if err != nil {
		fmt.Fprintln(out, "Error extracting data to file.")
		return
	}
	fmt.Fprintf(out, "Data extracted to '%s' (%d records).\n", path, count)
}

func printHelp(out io.Writer) {
	fmt.Fprintln(out, "Available commands:")
	fmt.Fprintln(out, "  create <filename>      - Create a new index file")
	fmt.Fprintln(out, "  open <filename>        - Open an existing index file")
	fmt.Fprintln(out, "  insert <key> <value>   - Insert a key-value pair")
	fmt.Fprintln(out, "  search <key>           - Search for a key")
	fmt.Fprintln(out, "  load <filename>        - Load key-value pairs from a file")
	fmt.Fprintln(out, "  print                  - Print all key-value pairs in the B-tree")
	fmt.Fprintln(out, "  extract <filename>     - Extract all key-value pairs to a file")
	fmt.Fprintln(out, "  quit or exit           - Exit the program")
}

// parseUint32 parses a decimal unsigned 32-bit integer.
func parseUint32(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}
