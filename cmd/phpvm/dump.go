package main

import (
	"os"

	"github.com/spf13/cobra"
)

var dumpCmd = &cobra.Command{
	Use:   "dump FILE",
	Short: "Print the disassembled bytecode of a script or .phpc file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadConfig(cmd, args[0])
		if err != nil {
			return err
		}
		prog, _, err := loadProgram(c, args[0], false)
		if err != nil {
			return err
		}
		prog.DebugPrint(os.Stdout)
		return nil
	},
}
