package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/timewinder-dev/phpvm/vm"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of phpvm",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("phpvm version 0.1.0 (bytecode format %d)\n", vm.FormatVersion)
	},
}
