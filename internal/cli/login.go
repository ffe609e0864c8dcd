package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/cardcollector/internal/collector"
	"github.com/rshade/cardcollector/internal/config"
)

// NewLoginCmd creates the login command. The session cookie is stored in the
// config directory and sent by every later command.
func NewLoginCmd() *cobra.Command {
	var (
		username      string
		passwordStdin bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the collection service",
		Example: `  # Prompt for the password
  collector login --username alice

  # Read the password from stdin
  echo "$PASSWORD" | collector login --username alice --password-stdin`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetGlobalConfig()
			if username == "" {
				username = cfg.Server.Username
			}
			if username == "" {
				return fmt.Errorf("%w: --username is required (or set server.username)", collector.ErrValidation)
			}

			password, err := readPassword(cmd, passwordStdin)
			if err != nil {
				return err
			}

			client, err := newClient()
			if err != nil {
				return err
			}
			if err = client.Login(cmd.Context(), collector.Credentials{Username: username, Password: password}); err != nil {
				return err
			}
			if err = config.SaveSession(client.Session()); err != nil {
				return err
			}
			cmd.Printf("Logged in as %s.\n", username)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "user name (default from server.username)")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin")

	return cmd
}

func readPassword(cmd *cobra.Command, fromStdin bool) (string, error) {
	if fromStdin {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return "", fmt.Errorf("%w: reading password from stdin: %w", collector.ErrValidation, err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}
	if !isTerminal(os.Stdin) {
		return "", fmt.Errorf("%w: no terminal to prompt for a password, use --password-stdin", collector.ErrValidation)
	}
	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(raw), nil
}

// NewLogoutCmd creates the logout command.
func NewLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and forget the stored session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := config.LoadSession(); err == nil {
				client, clientErr := newClient()
				if clientErr != nil {
					return clientErr
				}
				if logoutErr := client.Logout(cmd.Context()); logoutErr != nil {
					logger.Warn().Ctx(cmd.Context()).Err(logoutErr).Str("operation", "logout").
						Msg("server logout failed, clearing local session anyway")
				}
			}
			if err := config.ClearSession(); err != nil {
				return err
			}
			cmd.Println("Logged out.")
			return nil
		},
	}
}
