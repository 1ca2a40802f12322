package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/stackbank/internal/cli"
	"github.com/Veraticus/stackbank/internal/config"
	"github.com/Veraticus/stackbank/internal/sheets"
)

func sheetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "Manage the Google Sheets export",
	}

	cmd.AddCommand(sheetsAuthCmd())
	return cmd
}

func sheetsAuthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Authorize access to Google Sheets",
		Long: `Runs the OAuth2 consent flow in your browser and stores the resulting
token so 'stackbank history export --to sheets' can upload without prompting.

Requires sheets.client_id and sheets.client_secret (or GOOGLE_SHEETS_CLIENT_ID
and GOOGLE_SHEETS_CLIENT_SECRET).`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			oauth, err := config.LoadSheetsOAuth(viper.GetViper())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			token, err := sheets.Authorize(cmd.Context(), oauth, func(url string) {
				fmt.Fprintln(out, cli.FormatInfo("Open this URL in your browser to authorize access:"))
				fmt.Fprintln(out, url)
			})
			if err != nil {
				return fmt.Errorf("authorization failed: %w", err)
			}

			fmt.Fprintln(out, cli.FormatSuccess("Google Sheets authorized. Token saved to "+oauth.TokenFile))
			if token.RefreshToken == "" {
				fmt.Fprintln(out, cli.FormatWarning("No refresh token was issued; you may need to authorize again when it expires."))
			}
			return nil
		},
	}
}
