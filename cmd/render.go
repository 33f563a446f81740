package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"termapp/pkg/app"
	"termapp/pkg/config"
	"termapp/pkg/demo"
	"termapp/pkg/logging"
)

var (
	renderKeys     string
	renderKeysFile string
	renderWidth    int
	renderHeight   int
	renderKeymap   string
)

// renderCmd represents the render command
var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Run the shell on an in-memory screen and print it",
	Long: `Feed a key script to the shell running on an in-memory screen and
print the final screen. Keys accept Go escapes, so \r is Enter and \x1b[A is
the up arrow. The run ends when the script does.

Example:
  termapp render --keys 'hello\rhelp\r' --width 60 --height 16`,
	Args: cobra.NoArgs,
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderKeys, "keys", "k", "", "key script with Go escapes")
	renderCmd.Flags().StringVarP(&renderKeysFile, "keys-file", "f", "", "read raw key bytes from a file")
	renderCmd.Flags().IntVar(&renderWidth, "width", 60, "screen width")
	renderCmd.Flags().IntVar(&renderHeight, "height", 16, "screen height")
	renderCmd.Flags().StringVar(&renderKeymap, "keymap", "vt", "key encoding (vt, conio)")
}

// decodeKeys interprets Go escape sequences in a key script
func decodeKeys(script string) ([]byte, error) {
	s, err := strconv.Unquote(`"` + script + `"`)
	if err != nil {
		return nil, fmt.Errorf("invalid key script %q: %w", script, err)
	}
	return []byte(s), nil
}

func runRender(cmd *cobra.Command, args []string) error {
	var keys []byte
	var err error
	if renderKeysFile != "" {
		keys, err = os.ReadFile(renderKeysFile)
		if err != nil {
			return fmt.Errorf("failed to read key file: %w", err)
		}
	} else if keys, err = decodeKeys(renderKeys); err != nil {
		return err
	}

	settings := config.DefaultSettings()
	settings.Width = renderWidth
	settings.Height = renderHeight
	settings.Keymap = renderKeymap
	applyGlobal(&settings)
	if err := logging.Initialize(settings.LogLevel, settings.LogFile); err != nil {
		return err
	}
	defer logging.Sync()

	screen, stats, err := app.RunHeadless(settings, demo.Build, keys)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, screen.String())
	if verbose {
		fmt.Fprintf(out, "\nCommands: %d  Dispatched: %d  Unrecognized keys: %d  Clipped: %d\n",
			stats.Commits, stats.Dispatched, stats.Unrecognized, screen.Dropped())
	}
	return nil
}
