package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/stackbank/internal/api"
	"github.com/Veraticus/stackbank/internal/cli"
	"github.com/Veraticus/stackbank/internal/model"
)

func profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "View or edit your profile",
	}

	cmd.AddCommand(profileShowCmd())
	cmd.AddCommand(profileEmailCmd())
	cmd.AddCommand(profilePasswordCmd())
	return cmd
}

func profileShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show email and account number",
		RunE: withRuntime(func(cmd *cobra.Command, rt *clientRuntime, _ []string) error {
			if err := rt.requireSession(); err != nil {
				return err
			}
			profile, err := rt.client.Profile(cmd.Context())
			if err != nil {
				return rt.failure(err, api.MsgProfileLoadFailed)
			}

			fmt.Fprintln(rt.out, cli.RenderBox("Profile", fmt.Sprintf("%s\n%s\n%s",
				cli.FormatField("Avatar", model.Initials(profile.Email)),
				cli.FormatField("Email", profile.Email),
				cli.FormatField("Account Number", profile.AccountNumber),
			)))
			return nil
		}),
	}
}

func profileEmailCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "email [new-email]",
		Short: "Change the account email",
		Args:  cobra.MaximumNArgs(1),
		RunE: withRuntime(func(cmd *cobra.Command, rt *clientRuntime, args []string) error {
			if err := rt.requireSession(); err != nil {
				return err
			}
			ctx := cmd.Context()

			var email string
			if len(args) == 1 {
				email = args[0]
			} else {
				var err error
				prompter := cli.NewPrompter(cmd.InOrStdin(), cmd.ErrOrStderr())
				if email, err = prompter.Ask(ctx, "New Email"); err != nil {
					return err
				}
			}

			if err := api.ValidateEmailUpdate(email); err != nil {
				return err
			}
			if err := rt.client.UpdateEmail(ctx, email); err != nil {
				return rt.failure(err, api.MsgEmailUpdateFailed)
			}
			rt.success(api.MsgEmailUpdated)
			return nil
		}),
	}
}

func profilePasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "password",
		Short: "Change the account password",
		Args:  cobra.NoArgs,
		RunE: withRuntime(func(cmd *cobra.Command, rt *clientRuntime, _ []string) error {
			if err := rt.requireSession(); err != nil {
				return err
			}
			ctx := cmd.Context()
			prompter := cli.NewPrompter(cmd.InOrStdin(), cmd.ErrOrStderr())

			oldPassword, err := prompter.AskSecret(ctx, "Current Password")
			if err != nil {
				return err
			}
			newPassword, err := prompter.AskSecret(ctx, "New Password")
			if err != nil {
				return err
			}

			if err := api.ValidatePasswordChange(oldPassword, newPassword); err != nil {
				return err
			}
			if err := rt.client.ChangePassword(ctx, oldPassword, newPassword); err != nil {
				return rt.failure(err, api.MsgPasswordChangeFailed)
			}
			rt.success(api.MsgPasswordChanged)
			return nil
		}),
	}
}
