package main

import (
	"fmt"

	"github.com/dhamidi/jvmdecode/format"
	"github.com/spf13/cobra"
)

func newDumpCmd() *cobra.Command {
	var dumpFormat string
	var code bool

	cmd := &cobra.Command{
		Use:   "dump <file.class>...",
		Short: "Dump the decoded structure of class files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, filename := range args {
				cf, err := loadClass(filename, cmd.InOrStdin())
				if err != nil {
					return err
				}

				var encoder format.Encoder
				switch dumpFormat {
				case "json":
					enc := format.NewJSONEncoder(cmd.OutOrStdout())
					enc.Code = code
					encoder = enc
				case "line":
					enc := format.NewLineEncoder(cmd.OutOrStdout())
					enc.Code = code
					encoder = enc
				default:
					return fmt.Errorf("unknown format: %s (expected json or line)", dumpFormat)
				}
				if err := encoder.Encode(cf); err != nil {
					return fmt.Errorf("encode %s: %w", dumpFormat, err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&dumpFormat, "format", "f", "line", "output format (json, line)")
	cmd.Flags().BoolVarP(&code, "code", "c", false, "include disassembled bytecode")

	return cmd
}
