package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/and161185/blogfront/internal/errs"
	"github.com/and161185/blogfront/internal/model"
	"github.com/and161185/blogfront/internal/service"
	"github.com/and161185/blogfront/internal/session"
	"github.com/and161185/blogfront/internal/storage"
)

// demoPassword is advertised next to session.DemoEmail; any password works.
const demoPassword = "demo123"

func loginCmd(a *app) *cobra.Command {
	var f service.LoginForm
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Start a local session",
		Long:  fmt.Sprintf("Start a local session. Any credentials are accepted.\nDemo Credentials: %s / %s", session.DemoEmail, demoPassword),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := a.auth.Login(cmd.Context(), f)
			if err != nil {
				return a.authFailed(err, "Login failed", "Please check your credentials and try again.")
			}
			a.console.Success("Login successful!", "Welcome back to BlogApp")
			a.printIdentity(id, true)
			return nil
		},
	}
	cmd.Flags().StringVarP(&f.Email, "email", "e", "", "email")
	cmd.Flags().StringVarP(&f.Password, "password", "p", "", "password")
	return cmd
}

func signupCmd(a *app) *cobra.Command {
	var f service.SignupForm
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create a local account and start a session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := a.auth.Signup(cmd.Context(), f)
			if err != nil {
				return a.authFailed(err, "Signup failed", "Please try again later.")
			}
			a.console.Success("Account created successfully!", "Welcome to BlogApp! You can now start creating posts.")
			a.printIdentity(id, true)
			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&f.Name, "name", "n", "", "full name")
	fl.StringVarP(&f.Email, "email", "e", "", "email")
	fl.StringVarP(&f.Password, "password", "p", "", "password")
	fl.StringVar(&f.ConfirmPassword, "confirm", "", "repeat the password")
	fl.BoolVar(&f.AcceptTerms, "accept-terms", false, "accept the terms and conditions")
	return cmd
}

func logoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the local session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.auth.Logout(cmd.Context()); err != nil {
				return err
			}
			a.console.Success("Logged out successfully", "")
			return nil
		},
	}
}

func whoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			id, ok := a.sessions.Current()
			a.printIdentity(id, ok)
			return nil
		},
	}
}

func watchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print the session every time another bf process changes it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w, ok := a.kv.(storage.Watcher)
			if !ok {
				return fmt.Errorf("storage backend %q cannot be watched; use --storage file", a.cfg.Storage.Backend)
			}
			id, authed := a.sessions.Current()
			a.printIdentity(id, authed)
			err := a.sessions.Follow(cmd.Context(), w, a.printIdentity)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}

func (a *app) printIdentity(id model.Identity, ok bool) {
	if a.jsonOut {
		out := struct {
			Authenticated bool            `json:"isAuthenticated"`
			User          *model.Identity `json:"user"`
		}{Authenticated: ok}
		if ok {
			out.User = &id
		}
		printJSON(a.out, out)
		return
	}
	if !ok {
		fmt.Fprintln(a.out, "not logged in")
		return
	}
	fmt.Fprintf(a.out, "%s <%s> (id %d)\n", id.Name, id.Email, id.ID)
}

// authFailed shows form errors verbatim and anything else as the page's failure toast.
func (a *app) authFailed(err error, title, desc string) error {
	if errors.Is(err, errs.ErrValidation) {
		return a.report(err, title, desc)
	}
	a.log.Warn(title, zap.Error(err))
	a.console.Error(title, desc)
	return errShown
}
