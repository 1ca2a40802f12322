package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/stackbank/internal/api"
	"github.com/Veraticus/stackbank/internal/cli"
	"github.com/Veraticus/stackbank/internal/session"
)

func loginCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session token",
		RunE: withRuntime(func(cmd *cobra.Command, rt *clientRuntime, _ []string) error {
			ctx := cmd.Context()
			prompter := cli.NewPrompter(cmd.InOrStdin(), cmd.ErrOrStderr())

			var err error
			if email == "" {
				if email, err = prompter.Ask(ctx, "Email"); err != nil {
					return err
				}
			}
			password, err := prompter.AskSecret(ctx, "Password")
			if err != nil {
				return err
			}

			if err := api.ValidateLogin(email, password); err != nil {
				return err
			}
			if err := rt.client.Login(ctx, email, password); err != nil {
				return errors.New(api.UserMessage(err, api.MsgLoginFailed))
			}

			rt.success("Logged in as " + email)
			return nil
		}),
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	return cmd
}

func registerCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		RunE: withRuntime(func(cmd *cobra.Command, rt *clientRuntime, _ []string) error {
			ctx := cmd.Context()
			prompter := cli.NewPrompter(cmd.InOrStdin(), cmd.ErrOrStderr())

			var err error
			if email == "" {
				if email, err = prompter.Ask(ctx, "Email"); err != nil {
					return err
				}
			}
			password, err := prompter.AskSecret(ctx, "Password")
			if err != nil {
				return err
			}
			confirm, err := prompter.AskSecret(ctx, "Confirm Password")
			if err != nil {
				return err
			}

			if err := api.ValidateRegister(email, password, confirm); err != nil {
				return err
			}
			if err := rt.client.Register(ctx, email, password, confirm); err != nil {
				return errors.New(api.UserMessage(err, api.MsgRegisterFailed))
			}

			rt.success("Account created for " + email)
			return nil
		}),
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session token",
		RunE: withRuntime(func(_ *cobra.Command, rt *clientRuntime, _ []string) error {
			if !rt.store.Clear() {
				fmt.Fprintln(rt.out, cli.FormatInfo("No active session."))
				return nil
			}
			rt.success(api.MsgLoggedOut)
			return nil
		}),
	}
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether a session is stored",
		RunE: withRuntime(func(_ *cobra.Command, rt *clientRuntime, _ []string) error {
			fmt.Fprintln(rt.out, cli.FormatField("Service", rt.client.BaseURL()))
			fmt.Fprintln(rt.out, cli.FormatField("Storage", rt.cfg.SessionBackend))
			if !rt.store.IsActive() {
				fmt.Fprintln(rt.out, cli.FormatField("Session", "none"))
				return nil
			}
			fmt.Fprintln(rt.out, cli.FormatField("Session", "active ("+session.Fingerprint(rt.store.Token())+")"))
			fmt.Fprintln(rt.out, cli.FormatField("Idle timeout", rt.cfg.IdleTimeout.String()))
			return nil
		}),
	}
}
