package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/voyagerhq/voyager/internal/auth"
	"github.com/voyagerhq/voyager/internal/ui"
)

var (
	loginName  string
	loginEmail string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Create the local user profile",
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the local user profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := auth.Logout(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, err := auth.Current()
		if errors.Is(err, auth.ErrNotLoggedIn) {
			return fmt.Errorf("not logged in. Run: voyager login")
		}
		if err != nil {
			return err
		}
		if profile.Email != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "%s <%s>\n", profile.Name, profile.Email)
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), profile.Name)
		}
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginName, "name", "", "Display name (skips the prompt)")
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Email address")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	name, email := loginName, loginEmail
	if name == "" {
		var err error
		name, email, err = ui.PromptProfile()
		if err != nil {
			return err
		}
	}

	if err := auth.Login(auth.Profile{Name: name, Email: email}); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s.\n", name)
	return nil
}
