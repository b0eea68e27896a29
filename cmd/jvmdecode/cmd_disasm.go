package main

import (
	"github.com/dhamidi/jvmdecode/format"
	"github.com/spf13/cobra"
)

func newDisasmCmd() *cobra.Command {
	var method string
	var descriptor string

	cmd := &cobra.Command{
		Use:   "disasm <file.class>",
		Short: "Disassemble method bytecode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cf, err := loadClass(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			enc := format.NewDisasmEncoder(cmd.OutOrStdout())
			enc.Method = method
			enc.Descriptor = descriptor
			return enc.Encode(cf)
		},
	}

	cmd.Flags().StringVarP(&method, "method", "m", "", "only disassemble methods with this name")
	cmd.Flags().StringVarP(&descriptor, "descriptor", "d", "", "only disassemble methods with this descriptor")

	return cmd
}
