package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/taskmaster/client/internal/adapters/authmock"
	"github.com/taskmaster/client/internal/ports"
)

// NewLoginCommand creates the login command
func NewLoginCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the task service",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp()
			if err != nil {
				return err
			}
			defer app.Close()

			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")

			if email == "" {
				email, err = prompt("Email: ")
				if err != nil {
					return err
				}
			}
			if password == "" {
				password, err = promptSecret("Password: ")
				if err != nil {
					return err
				}
			}

			user, err := app.Auth.Login(cmd.Context(), ports.LoginRequest{
				Email:    email,
				Password: password,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Logged in as %s <%s>\n", user.Name, user.Email)
			return nil
		},
	}

	cmd.Flags().String("email", "", "Account email")
	cmd.Flags().String("password", "", "Account password (prompted when omitted)")
	return cmd
}

// NewLogoutCommand creates the logout command
func NewLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and clear the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp()
			if err != nil {
				return err
			}
			defer app.Close()

			return app.Auth.Logout(cmd.Context())
		},
	}
}

// NewRegisterCommand creates the register command
func NewRegisterCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account and log in",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp()
			if err != nil {
				return err
			}
			defer app.Close()

			name, _ := cmd.Flags().GetString("name")
			email, _ := cmd.Flags().GetString("email")

			if name == "" || email == "" {
				return fmt.Errorf("name and email are required")
			}

			password, err := promptSecret("Password: ")
			if err != nil {
				return err
			}
			confirm, err := promptSecret("Confirm password: ")
			if err != nil {
				return err
			}

			user, err := app.Auth.Register(cmd.Context(), ports.RegisterRequest{
				Name:            name,
				Email:           email,
				Password:        password,
				ConfirmPassword: confirm,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Registered and logged in as %s <%s>\n", user.Name, user.Email)
			return nil
		},
	}

	cmd.Flags().String("name", "", "Display name (required)")
	cmd.Flags().String("email", "", "Account email (required)")
	return cmd
}

// NewWhoamiCommand creates the whoami command
func NewWhoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp()
			if err != nil {
				return err
			}
			defer app.Close()

			if err := requireLogin(cmd.Context(), app); err != nil {
				return err
			}

			user := app.Auth.CurrentUser()
			fmt.Printf("%s <%s> (%s)\n", user.Name, user.Email, user.Role)
			return nil
		},
	}
}

// NewDemoUsersCommand lists the demo accounts the mock strategy ships with
func NewDemoUsersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "demo-users",
		Short: "List the built-in demo accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp()
			if err != nil {
				return err
			}
			defer app.Close()

			mock, ok := app.AuthAPI.(*authmock.Service)
			if !ok {
				return fmt.Errorf("demo accounts are only available with mock auth")
			}

			for _, creds := range mock.Users() {
				fmt.Printf("%-28s %s\n", creds.Email, creds.Password)
			}
			return nil
		},
	}
}

func prompt(label string) (string, error) {
	fmt.Fprint(os.Stderr, label)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func promptSecret(label string) (string, error) {
	fmt.Fprint(os.Stderr, label)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
