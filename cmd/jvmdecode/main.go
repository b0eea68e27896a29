package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose int

	rootCmd := &cobra.Command{
		Use:          "jvmdecode",
		Short:        "Decode and disassemble JVM class files",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return configureLogging(verbose)
		},
	}

	rootCmd.PersistentFlags().CountVarP(&verbose, "verbose", "v", "increase log verbosity (-vv also logs decoder internals)")

	rootCmd.AddCommand(newDumpCmd())
	rootCmd.AddCommand(newDisasmCmd())
	rootCmd.AddCommand(newGraphCmd())
	rootCmd.AddCommand(newScanCmd())

	return rootCmd
}
