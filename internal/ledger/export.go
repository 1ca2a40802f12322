package ledger

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Veraticus/stackbank/internal/model"
)

// ErrNothingToExport is returned when there are no visible records. Callers
// treat it as "export not offered" rather than a failure.
var ErrNothingToExport = errors.New("no transactions to export")

// Header is the fixed column order of every export.
var Header = []string{"Type", "Amount", "Date", "Biller", "To", "From"}

// Row coerces a record into its export cells. Absent fields become "".
func Row(r model.TransactionRecord) []string {
	return []string{
		string(r.Type),
		r.AmountString(),
		r.Date,
		deref(r.Biller),
		deref(r.To),
		deref(r.From),
	}
}

// Rows returns the header followed by one row per record.
func Rows(records []model.TransactionRecord) [][]string {
	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, Header)
	for _, r := range records {
		rows = append(rows, Row(r))
	}
	return rows
}

// WriteCSV writes records as comma separated values with CRLF line endings.
// Fields holding quotes, commas or line breaks are quoted and embedded
// quotes are doubled.
func WriteCSV(w io.Writer, records []model.TransactionRecord) error {
	if len(records) == 0 {
		return ErrNothingToExport
	}

	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	if err := cw.WriteAll(Rows(records)); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

// ExportFileName is the download name for an export made at now.
func ExportFileName(now time.Time) string {
	return fmt.Sprintf("transactions-%s.csv", now.UTC().Format("2006-01-02"))
}

// ExportFile writes records to dir/ExportFileName(now) and returns the path.
func ExportFile(dir string, now time.Time, records []model.TransactionRecord) (string, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, records); err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	path := filepath.Join(dir, ExportFileName(now))
	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	slog.Info("Exported transactions", "path", path, "rows", len(records))
	return path, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
