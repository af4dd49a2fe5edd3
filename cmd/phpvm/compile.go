package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/gookit/color"
	"github.com/spf13/cobra"
	"github.com/timewinder-dev/phpvm/cas"
	"github.com/timewinder-dev/phpvm/stdlib"
	"github.com/timewinder-dev/phpvm/vm"
)

var outPath string

var compileCmd = &cobra.Command{
	Use:   "compile FILE",
	Short: "Write the serialized bytecode of a script",
	Args:  cobra.ExactArgs(1),
	RunE:  compileCommand,
}

func init() {
	compileCmd.Flags().StringVarP(&outPath, "output", "o", "", "Output file (default: FILE with a .phpc extension)")
}

func compileCommand(cmd *cobra.Command, args []string) error {
	c, err := loadConfig(cmd, args[0])
	if err != nil {
		return err
	}
	prog, err := vm.CompilePath(args[0], stdlib.NewGlobals(c.Stdlib.Disabled...))
	if err != nil {
		return err
	}
	out := outPath
	if out == "" {
		out = strings.TrimSuffix(args[0], ".php") + cas.Ext
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := prog.Serialize(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintln(os.Stderr, color.Green.Sprintf("Compiled %s to %s", args[0], out))
	return nil
}
