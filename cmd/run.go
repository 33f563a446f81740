package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"termapp/pkg/app"
	"termapp/pkg/config"
	"termapp/pkg/demo"
)

var runFlags settingsFlags

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [profile]",
	Short: "Run the interactive shell",
	Long: `Run the interactive shell on this terminal, on standard input or
over a serial line. A saved profile supplies the settings; flags given on
the command line override it.

Examples:
  # Run on this terminal
  termapp run

  # Run a saved profile with a different leader
  termapp run bench --leader '$'

  # Drive the shell from a serial console
  termapp run --source serial -p /dev/ttyUSB0 -b 115200 --width 80 --height 24`,
	Args:    cobra.MaximumNArgs(1),
	Aliases: []string{"start"},
	RunE:    runShell,
}

func init() {
	runFlags.bind(runCmd)
}

// resolveSettings loads the named profile, or the defaults, and applies the
// command line on top
func resolveSettings(cmd *cobra.Command, args []string, flags *settingsFlags) (config.Settings, error) {
	settings := config.DefaultSettings()
	if len(args) == 1 {
		loaded, err := newConfigManager().LoadProfile(args[0])
		if err != nil {
			return config.Settings{}, fmt.Errorf("failed to load profile: %w", err)
		}
		settings = loaded
	}
	flags.apply(cmd, &settings)
	applyGlobal(&settings)

	if err := settings.Validate(); err != nil {
		return config.Settings{}, fmt.Errorf("invalid settings: %w", err)
	}
	return settings, nil
}

func runShell(cmd *cobra.Command, args []string) error {
	settings, err := resolveSettings(cmd, args, &runFlags)
	if err != nil {
		return err
	}

	if verbose {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Source: %s\n", settings.Source)
		if settings.Source == config.SourceSerial {
			fmt.Fprintf(out, "Port: %s %d %d-%s-%d\n",
				settings.Serial.Port,
				settings.Serial.BaudRate,
				settings.Serial.DataBits,
				settings.Serial.Parity,
				settings.Serial.StopBits)
		}
		fmt.Fprintf(out, "Keymap: %s\n", settings.Keymap)
	}

	return app.RunInteractive(settings, demo.Build)
}
