package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	profileFlags       settingsFlags
	profileDescription string
)

// profileCmd represents the profile command
var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage saved profiles",
	Long: `Manage saved profiles.

A profile stores the startup settings of the shell: source, keymap, leader,
serial line, console size and history export.`,
	Aliases: []string{"config"},
}

// profileSaveCmd saves a profile
var profileSaveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "Save a profile",
	Long: `Save the default settings, changed by any flags given, under a name.
Saving over an existing profile keeps its creation time and description.

Example:
  termapp profile save bench -p /dev/ttyUSB0 -b 9600 --keymap conio`,
	Args: cobra.ExactArgs(1),
	RunE: runProfileSave,
}

// profileListCmd lists all profiles
var profileListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List all saved profiles",
	Aliases: []string{"ls"},
	Args:    cobra.NoArgs,
	RunE:    runProfileList,
}

// profileShowCmd shows one profile
var profileShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show details of a saved profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileShow,
}

// profileDeleteCmd deletes a profile
var profileDeleteCmd = &cobra.Command{
	Use:     "delete <name>",
	Short:   "Delete a saved profile",
	Aliases: []string{"rm", "remove"},
	Args:    cobra.ExactArgs(1),
	RunE:    runProfileDelete,
}

func init() {
	profileCmd.AddCommand(profileSaveCmd)
	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileDeleteCmd)

	profileFlags.bind(profileSaveCmd)
	profileSaveCmd.Flags().StringVar(&profileDescription, "description", "", "profile description")
}

func runProfileSave(cmd *cobra.Command, args []string) error {
	name := args[0]
	settings, err := resolveSettings(cmd, nil, &profileFlags)
	if err != nil {
		return err
	}

	manager := newConfigManager()
	if err := manager.SaveProfile(name, settings); err != nil {
		return fmt.Errorf("error saving profile: %w", err)
	}
	if cmd.Flags().Changed("description") {
		if err := manager.SetProfileDescription(name, profileDescription); err != nil {
			return err
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Profile '%s' saved to %s\n", name, manager.GetProfilePath())
	return nil
}

func runProfileList(cmd *cobra.Command, args []string) error {
	profiles, err := newConfigManager().ListProfiles()
	if err != nil {
		return fmt.Errorf("error listing profiles: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(profiles) == 0 {
		fmt.Fprintln(out, "No saved profiles found.")
		fmt.Fprintln(out, "\nUse 'termapp profile save <name>' to save a profile.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSOURCE\tKEYMAP\tLAST USED\tCREATED")
	fmt.Fprintln(w, "----\t------\t------\t---------\t-------")
	for _, p := range profiles {
		lastUsed := "Never"
		if !p.LastUsedAt.IsZero() {
			lastUsed = p.LastUsedAt.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			p.Name,
			p.Settings.Source,
			p.Settings.Keymap,
			lastUsed,
			p.CreatedAt.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

func runProfileShow(cmd *cobra.Command, args []string) error {
	info, err := newConfigManager().GetProfile(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Profile: %s\n", info.Name)
	fmt.Fprintln(out, strings.Repeat("=", len(info.Name)+9))
	if info.Description != "" {
		fmt.Fprintf(out, "Description: %s\n", info.Description)
	}
	fmt.Fprintf(out, "Created:     %s\n", info.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(out, "Last Used:   %s\n\n", info.LastUsedAt.Format(time.RFC3339))

	data, err := yaml.Marshal(info.Settings)
	if err != nil {
		return fmt.Errorf("failed to format settings: %w", err)
	}
	_, err = out.Write(data)
	return err
}

func runProfileDelete(cmd *cobra.Command, args []string) error {
	if err := newConfigManager().DeleteProfile(args[0]); err != nil {
		return fmt.Errorf("error deleting profile: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Profile '%s' deleted.\n", args[0])
	return nil
}
