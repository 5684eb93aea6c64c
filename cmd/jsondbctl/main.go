// Package main provides jsondbctl, a thin command-line collaborator
// that opens a database at a log path and submits one program to it.
// Framing, addressing, and authentication belong to the network front
// ends this module treats as external collaborators; jsondbctl exists
// only to exercise that boundary from a shell.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/freeeve/jsondb"
)

func main() {
	var logPath string

	rootCmd := &cobra.Command{
		Use:   "jsondbctl",
		Short: "Submit one JSON program to a jsondb log file",
	}
	rootCmd.PersistentFlags().StringVar(&logPath, "log", "", "path to the append-only log (default: XDG data dir)")

	evalCmd := &cobra.Command{
		Use:           "eval <json-program>",
		Short:         "Parse and evaluate one JSON program",
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(_ *cobra.Command, args []string) error {
			return runEval(logPath, args[0])
		},
	}
	rootCmd.AddCommand(evalCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func runEval(logPath, program string) error {
	opts := jsondb.DefaultOptions()
	if logPath != "" {
		opts.LogPath = logPath
	}

	db, err := jsondb.Open(opts)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer db.Close()

	result, err := db.Exec([]byte(program))
	if err != nil {
		return fmt.Errorf("eval: %w", err)
	}

	fmt.Println(string(result))
	return nil
}
