package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
	iconPath   string
)

var rootCmd = &cobra.Command{
	Use:   "pyexe-builder [script.py]",
	Short: "Package a Python script into a standalone executable",
	Long: `pyexe-builder opens a small window that runs PyInstaller on a chosen
script, streams its output live and reports the result.

The interpreter, packager flags and output folder come from the config file
(default: ` + "`$XDG_CONFIG_HOME/pyexe-builder/config.yaml`" + `) or PYEXE_* environment
variables. A script and icon given on the command line only pre-fill the form.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := Options{
			ConfigPath: configPath,
			LogLevel:   logLevel,
			IconPath:   iconPath,
		}
		if len(args) == 1 {
			opts.SourcePath = args[0]
		}

		application, err := NewApplication(opts)
		if err != nil {
			return fmt.Errorf("application initialization failed: %w", err)
		}
		return application.Run()
	},
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "path to a YAML config file")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.Flags().StringVar(&iconPath, "icon", "", "icon to pre-fill (.ico, or .png/.jpg to convert)")
	rootCmd.Version = AppVersion
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
