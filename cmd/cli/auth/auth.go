package auth

import (
	"fmt"
	"net/http"
	"os"

	"github.com/crucial707/asset-tracker/cmd/cli/client"
	"github.com/crucial707/asset-tracker/cmd/cli/config"
	"github.com/spf13/cobra"
)

// InitAuth registers login, logout and whoami on the root command.
func InitAuth(rootCmd *cobra.Command) {
	rootCmd.AddCommand(loginCmd(), logoutCmd(), whoamiCmd())
}

// loginCmd logs in a user and stores the JWT token locally.
func loginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the asset API",
		Long:  "Authenticate with email and password and store a JWT token for subsequent CLI commands. The password may also be given via ASSETCTL_PASSWORD.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("ASSETCTL_PASSWORD")
			}
			if email == "" || password == "" {
				return fmt.Errorf("email and password are required")
			}

			var loginResp struct {
				Token string `json:"token"`
				User  struct {
					Name string `json:"name"`
					Role string `json:"role"`
				} `json:"user"`
			}
			payload := map[string]string{"email": email, "password": password}
			if err := client.Do(http.MethodPost, "/api/auth/login", payload, &loginResp, false); err != nil {
				return fmt.Errorf("failed to login: %w", err)
			}
			if loginResp.Token == "" {
				return fmt.Errorf("login succeeded but no token returned")
			}

			if err := config.SaveToken(loginResp.Token); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s).\n", loginResp.User.Name, loginResp.User.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email to authenticate as")
	cmd.Flags().StringVar(&password, "password", "", "Password")

	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the locally saved token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.ClearToken(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the user behind the saved token",
		RunE: func(cmd *cobra.Command, args []string) error {
			var out struct {
				User struct {
					Name  string `json:"name"`
					Email string `json:"email"`
					Role  string `json:"role"`
				} `json:"user"`
			}
			if err := client.Do(http.MethodGet, "/api/auth/verify", nil, &out, true); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s <%s> (%s)\n", out.User.Name, out.User.Email, out.User.Role)
			return nil
		},
	}
}
