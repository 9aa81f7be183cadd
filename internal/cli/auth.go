package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"routehub-client/internal/dto"
	"routehub-client/internal/notify"
	"routehub-client/internal/response"
)

func newLoginCmd(st *state) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := st.appFor(cmd)
			if err != nil {
				return err
			}

			reader := bufio.NewReader(cmd.InOrStdin())
			if email == "" {
				if email, err = readLine(cmd, reader, "Email"); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = readPassword(cmd, reader, "Password"); err != nil {
					return err
				}
			}

			user, err := app.Session.Login(cmd.Context(), app.Users, email, password)
			if err != nil {
				if response.IsLocal(err) {
					return app.warn(err)
				}
				return app.fail(err)
			}

			name := strings.TrimSpace(user.FirstName + " " + user.LastName)
			if name == "" {
				name = user.UserName
			}
			app.Sink.Notify(fmt.Sprintf("Welcome, %s!", name), notify.KindSuccess)
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password (prompted when omitted)")
	return cmd
}

func newLogoutCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := st.appFor(cmd)
			if err != nil {
				return err
			}
			if err := app.Session.Logout(cmd.Context()); err != nil {
				return app.fail(err)
			}
			app.Sink.Notify("Signed out", notify.KindSuccess)
			return nil
		},
	}
}

func newRegisterCmd(st *state) *cobra.Command {
	var req dto.RegisterRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a RouteHub account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := st.appFor(cmd)
			if err != nil {
				return err
			}

			reader := bufio.NewReader(cmd.InOrStdin())
			prompts := []struct {
				label  string
				target *string
				secret bool
			}{
				{"Username", &req.UserName, false},
				{"Email", &req.Email, false},
				{"First name", &req.FirstName, false},
				{"Last name", &req.LastName, false},
				{"Password", &req.Password, true},
			}
			for _, p := range prompts {
				if *p.target != "" {
					continue
				}
				read := readLine
				if p.secret {
					read = readPassword
				}
				if *p.target, err = read(cmd, reader, p.label); err != nil {
					return err
				}
			}

			if len(strings.TrimSpace(req.UserName)) < 3 {
				return app.warn(response.NewValidationError("Username must be at least 3 characters"))
			}
			if len(req.Password) < 6 {
				return app.warn(response.NewValidationError("Password must be at least 6 characters"))
			}

			if err := app.Users.Register(cmd.Context(), req); err != nil {
				return app.fail(err)
			}
			app.Sink.Notify("Registration successful. You can now sign in.", notify.KindSuccess)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.UserName, "username", "", "user name")
	cmd.Flags().StringVar(&req.Email, "email", "", "email address")
	cmd.Flags().StringVar(&req.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&req.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&req.Password, "password", "", "password (prompted when omitted)")
	return cmd
}

func newWhoamiCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := st.appFor(cmd)
			if err != nil {
				return err
			}
			id, ok := app.Session.Current()
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Not signed in.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (@%s)\nid: %s\n", id.DisplayName, id.UserName, id.UserID)
			return nil
		},
	}
}
