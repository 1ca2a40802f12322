package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Veraticus/stackbank/internal/api"
	"github.com/Veraticus/stackbank/internal/cli"
	"github.com/Veraticus/stackbank/internal/model"
)

// recentLimit caps the transactions printed by the account command.
const recentLimit = 5

func accountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "account",
		Short: "Show balance and recent transactions",
		RunE: withRuntime(func(cmd *cobra.Command, rt *clientRuntime, _ []string) error {
			if err := rt.requireSession(); err != nil {
				return err
			}

			var (
				summary *api.AccountSummary
				profile *model.Profile
			)
			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				var err error
				summary, err = rt.client.Account(ctx)
				return rt.failure(err, api.MsgAccountLoadFailed)
			})
			g.Go(func() error {
				var err error
				profile, err = rt.client.Profile(ctx)
				return rt.failure(err, api.MsgProfileLoadFailed)
			})
			if err := g.Wait(); err != nil {
				return err
			}

			fmt.Fprintln(rt.out, cli.FormatTitle("Dashboard"))
			fmt.Fprintln(rt.out, cli.FormatField("Email", profile.Email))
			fmt.Fprintln(rt.out, cli.FormatField("Account Number", summary.Account.AccountNumber))
			fmt.Fprintln(rt.out, cli.FormatField("Balance", "$"+summary.Account.Balance.StringFixed(2)))
			fmt.Fprintln(rt.out)

			if len(summary.Transactions) == 0 {
				fmt.Fprintln(rt.out, cli.SubtleStyle.Render("No recent transactions."))
				return nil
			}
			recent := summary.Transactions
			if len(recent) > recentLimit {
				recent = recent[:recentLimit]
			}
			fmt.Fprintln(rt.out, "Recent Transactions")
			return printRecords(rt, recent)
		}),
	}
}

func transferCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "transfer <account-number> <amount>",
		Short: "Send money to another account",
		Args:  cobra.ExactArgs(2),
		RunE: withRuntime(func(cmd *cobra.Command, rt *clientRuntime, args []string) error {
			return pay(cmd, rt, args, api.MsgTransferSuccess, api.MsgTransferFailed, rt.client.Transfer)
		}),
	}
}

func payBillCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "paybill <biller> <amount>",
		Aliases: []string{"pay-bill"},
		Short:   "Pay a bill",
		Args:    cobra.ExactArgs(2),
		RunE: withRuntime(func(cmd *cobra.Command, rt *clientRuntime, args []string) error {
			return pay(cmd, rt, args, api.MsgBillSuccess, api.MsgBillFailed, rt.client.PayBill)
		}),
	}
}

type payFunc func(ctx context.Context, target, amount string) error

func pay(cmd *cobra.Command, rt *clientRuntime, args []string, success, fallback string, send payFunc) error {
	if err := rt.requireSession(); err != nil {
		return err
	}
	target, amount := args[0], args[1]
	if _, err := api.ParseAmount(target, amount); err != nil {
		return err
	}
	if err := send(cmd.Context(), target, amount); err != nil {
		return rt.failure(err, fallback)
	}
	rt.success(success)
	return nil
}

// printRecords writes records as an aligned table.
func printRecords(rt *clientRuntime, records []model.TransactionRecord) error {
	w := tabwriter.NewWriter(rt.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TYPE\tAMOUNT\tDATE\tDETAILS")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Type, r.Amount.StringFixed(2), r.Date, r.Counterparty())
	}
	return w.Flush()
}
