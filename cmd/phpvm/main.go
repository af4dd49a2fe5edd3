package main

import (
	"fmt"
	"os"

	"github.com/gookit/color"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/timewinder-dev/phpvm/config"
)

var (
	logLevel   string
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "phpvm",
	Short: "Compile and run PHP-flavoured scripts on a bytecode VM",
	Long: `phpvm compiles scripts written in a small PHP-like language into
bytecode and executes them on a stack machine. Compiled programs are cached
by source fingerprint.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		setLevel(logLevel)
	},
}

func setLevel(name string) {
	level, err := zerolog.ParseLevel(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid log level '%s', using 'info'\n", name)
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
}

// loadConfig reads --config, or phpvm.toml beside the script. The file's
// log level applies unless --log-level was given.
func loadConfig(cmd *cobra.Command, script string) (*config.Config, error) {
	var (
		c   *config.Config
		err error
	)
	if configPath != "" {
		c, err = config.Load(configPath)
	} else {
		c, err = config.Find(script)
	}
	if err != nil {
		return nil, err
	}
	if !cmd.Flags().Changed("log-level") && c.LogLevel != "" {
		setLevel(c.LogLevel)
	}
	if c.Path != "" {
		log.Debug().Str("path", c.Path).Msg("loaded config")
	}
	return c, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Set log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Configuration file (default: phpvm.toml beside the script)")
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(dumpCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.Red.Sprint("Fatal error: ")+err.Error())
		os.Exit(1)
	}
}
