package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sanigam/video-learning/internal"
)

// settingsCmd represents the settings command
var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage per-user settings",
	Long: `Show and manage per-user settings. Settings are stored as JSON files
keyed by email address, and hold preferences plus the stored learning path.

The user is selected with --email, or the user_email config value.`,
	Example: `  # Show current settings
  vlearn settings show --email learner@example.com

  # Change the stored email address
  vlearn settings set-email old@example.com new@example.com

  # Schedule a settings reset (applied on next use)
  vlearn settings reset --email learner@example.com`,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current user's settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, email, err := settingsStore(cmd)
		if err != nil {
			return err
		}

		settings, err := store.Load(email)
		if err != nil {
			return err
		}
		return printJSON(settings)
	},
}

var settingsSetEmailCmd = &cobra.Command{
	Use:   "set-email [old email] [new email]",
	Short: "Move settings to a new email address",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := internal.NewSettingsStore(config.UserDataDir)
		if err != nil {
			return err
		}

		settings, err := store.UpdateEmail(args[0], args[1])
		if err != nil {
			return err
		}

		fmt.Printf("Settings moved to %s\n", settings.Email)
		return nil
	},
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Schedule a settings reset for the current user",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, email, err := settingsStore(cmd)
		if err != nil {
			return err
		}

		if err := store.RequestReset(email); err != nil {
			return err
		}

		fmt.Printf("Settings reset scheduled for %s; defaults apply on next use\n", email)
		return nil
	},
}

// settingsStore resolves the store and the target email for a subcommand.
func settingsStore(cmd *cobra.Command) (*internal.SettingsStore, string, error) {
	email, _ := cmd.Flags().GetString("email")
	if email == "" {
		email = config.UserEmail
	}
	if email == "" {
		return nil, "", fmt.Errorf("no email given: use --email or set user_email in config")
	}

	store, err := internal.NewSettingsStore(config.UserDataDir)
	if err != nil {
		return nil, "", err
	}
	return store, email, nil
}

func init() {
	settingsShowCmd.Flags().String("email", "", "Email address of the user")
	settingsResetCmd.Flags().String("email", "", "Email address of the user")
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetEmailCmd)
	settingsCmd.AddCommand(settingsResetCmd)
	rootCmd.AddCommand(settingsCmd)
}
