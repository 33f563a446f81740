package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"termapp/pkg/config"
)

var (
	// Root command flags
	verbose     bool
	configDir   string
	profileFile string
	logLevel    string
	logFile     string

	// Root command
	rootCmd = &cobra.Command{
		Use:   "termapp",
		Short: "A minimal terminal UI shell",
		Long: `termapp draws a framed set of views with a command prompt on a
terminal, a serial line or an in-memory screen, and dispatches typed
commands and arrow keys to handlers.`,
		Version:           "1.0.0",
		Run:               runRoot,
		SilenceUsage:      true,
		DisableAutoGenTag: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
)

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "profile directory (default is the user config directory)")
	rootCmd.PersistentFlags().StringVar(&profileFile, "profile-file", config.DefaultProfileFile, "profile storage file; .yaml or .yml selects YAML")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "log file (default termapp-debug.log)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(portsCmd)
}

// runRoot shows help when no subcommand is given
func runRoot(cmd *cobra.Command, args []string) {
	_ = cmd.Help()
}

func newConfigManager() *config.FileConfigManager {
	return config.NewFileConfigManagerWithFile(configDir, profileFile)
}
