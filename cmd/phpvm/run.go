package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/timewinder-dev/phpvm/interp"
)

var noCache bool

var runCmd = &cobra.Command{
	Use:   "run FILE",
	Short: "Compile and execute a script or a compiled .phpc file",
	Args:  cobra.ExactArgs(1),
	RunE:  runCommand,
}

func init() {
	runCmd.Flags().BoolVar(&noCache, "no-cache", false, "Always compile from source and skip the bytecode cache")
}

func runCommand(cmd *cobra.Command, args []string) error {
	c, err := loadConfig(cmd, args[0])
	if err != nil {
		return err
	}
	prog, g, err := loadProgram(c, args[0], !noCache)
	if err != nil {
		return err
	}
	m := interp.New(prog, g)
	m.Stdout = os.Stdout
	m.MaxDepth = c.Runtime.MaxDepth
	return m.Run()
}
