package main

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/stackbank/internal/api"
	"github.com/Veraticus/stackbank/internal/cli"
	"github.com/Veraticus/stackbank/internal/config"
	"github.com/Veraticus/stackbank/internal/ledger"
	"github.com/Veraticus/stackbank/internal/model"
	"github.com/Veraticus/stackbank/internal/sheets"
)

// Export destinations.
const (
	exportCSV    = "csv"
	exportSheets = "sheets"
)

// now is replaced in tests.
var now = time.Now

type filterFlags struct {
	search string
	kind   string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.search, "search", "s", "", "case-insensitive text search")
	cmd.Flags().StringVarP(&f.kind, "type", "t", "",
		fmt.Sprintf("transaction type (%s)", strings.Join(typeNames(), ", ")))
}

func (f *filterFlags) filter() (ledger.Filter, error) {
	kind, err := model.ParseTransactionType(f.kind)
	if err != nil {
		return ledger.Filter{}, err
	}
	return ledger.Filter{Search: f.search, Type: kind}, nil
}

func typeNames() []string {
	names := make([]string, 0, len(model.TransactionTypes))
	for _, t := range model.TransactionTypes {
		names = append(names, string(t))
	}
	return names
}

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List and export transaction history",
	}

	cmd.AddCommand(historyListCmd())
	cmd.AddCommand(historyExportCmd())
	return cmd
}

func historyListCmd() *cobra.Command {
	var flags filterFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions matching the filters",
		RunE: withRuntime(func(cmd *cobra.Command, rt *clientRuntime, _ []string) error {
			filter, err := flags.filter()
			if err != nil {
				return err
			}
			if err := rt.requireSession(); err != nil {
				return err
			}

			records, err := rt.client.History(cmd.Context())
			if err != nil {
				return rt.failure(err, api.MsgHistoryLoadFailed)
			}

			visible := ledger.Visible(records, filter)
			if len(visible) == 0 {
				fmt.Fprintln(rt.out, cli.SubtleStyle.Render("No transactions found."))
				return nil
			}
			return printRecords(rt, visible)
		}),
	}

	flags.register(cmd)
	return cmd
}

func historyExportCmd() *cobra.Command {
	var (
		flags filterFlags
		to    string
		dir   string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the filtered history to CSV or Google Sheets",
		RunE: withRuntime(func(cmd *cobra.Command, rt *clientRuntime, _ []string) error {
			filter, err := flags.filter()
			if err != nil {
				return err
			}
			to = strings.ToLower(to)
			if to != exportCSV && to != exportSheets {
				return fmt.Errorf("invalid export destination '%s': must be '%s' or '%s'", to, exportCSV, exportSheets)
			}
			if err := rt.requireSession(); err != nil {
				return err
			}
			if dir == "" {
				dir = rt.cfg.ExportDir
			}

			ctx := cmd.Context()
			bar := cli.NewProgress(cmd.ErrOrStderr(), 3, "Fetching history")

			records, err := rt.client.History(ctx)
			if err != nil {
				return rt.failure(err, api.MsgHistoryLoadFailed)
			}
			cli.Step(bar, "Filtering")

			visible := ledger.Visible(records, filter)
			if len(visible) == 0 {
				return ledger.ErrNothingToExport
			}
			cli.Step(bar, "Writing")

			switch to {
			case exportSheets:
				sheetsCfg, err := config.LoadSheetsConfig(viper.GetViper())
				if err != nil {
					return fmt.Errorf("sheets export not configured: %w", err)
				}
				writer, err := sheets.NewWriter(ctx, *sheetsCfg, slog.Default())
				if err != nil {
					return err
				}
				result, err := writer.WriteLedger(ctx, visible)
				if err != nil {
					return err
				}
				cli.Step(bar, "Done")
				rt.success(fmt.Sprintf("%s %d rows written to %s", api.MsgExportSuccess, result.Rows, result.SpreadsheetURL))
			default:
				path, err := ledger.ExportFile(dir, now(), visible)
				if err != nil {
					return err
				}
				cli.Step(bar, "Done")
				rt.success(fmt.Sprintf("%s %d rows written to %s", api.MsgExportSuccess, len(visible), path))
			}
			return nil
		}),
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&to, "to", exportCSV, "destination (csv, sheets)")
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "directory for the CSV file (default: export.dir)")
	return cmd
}
