package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/Veraticus/stackbank/internal/common"
	"github.com/Veraticus/stackbank/internal/ledger"
	"github.com/Veraticus/stackbank/internal/model"
)

func testRecords() []model.TransactionRecord {
	return []model.TransactionRecord{
		{Type: model.TypeBillPayment, Amount: decimal.RequireFromString("42.10"), Date: "2024-03-01", Biller: model.StringPtr("Electric")},
		{Type: model.TypeTransferOut, Amount: decimal.NewFromInt(100), Date: "2024-03-02", To: model.StringPtr("200002")},
	}
}

func TestPrepareLedgerData(t *testing.T) {
	values := prepareLedgerData(testRecords())

	require.Len(t, values, 3)
	assert.Equal(t, []any{"Type", "Amount", "Date", "Biller", "To", "From"}, values[0])
	assert.Equal(t, []any{"Bill Payment", "42.1", "2024-03-01", "Electric", "", ""}, values[1])
	assert.Equal(t, []any{"Transfer Out", "100", "2024-03-02", "", "200002", ""}, values[2])
}

func TestClassifyAPIError(t *testing.T) {
	plain := errors.New("boom")
	assert.Equal(t, plain, classifyAPIError(plain))
	assert.NoError(t, classifyAPIError(nil))

	rateLimited := classifyAPIError(&googleapi.Error{Code: http.StatusTooManyRequests})
	assert.ErrorIs(t, rateLimited, common.ErrRateLimit)

	var retryable *common.RetryableError
	notFound := classifyAPIError(&googleapi.Error{Code: http.StatusNotFound})
	require.ErrorAs(t, notFound, &retryable)
	assert.False(t, retryable.Retryable)

	serverErr := &googleapi.Error{Code: http.StatusBadGateway}
	assert.Equal(t, error(serverErr), classifyAPIError(serverErr))
}

// fakeSheets serves the handful of Sheets endpoints the writer uses.
type fakeSheets struct {
	updates   map[string][][]any
	inputs    map[string]string
	calls     []string
	sheetName string
	mu        sync.Mutex
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := r.URL.Path
	f.calls = append(f.calls, r.Method+" "+path)
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodPost && path == "/v4/spreadsheets":
		_ = json.NewEncoder(w).Encode(sheets.Spreadsheet{
			SpreadsheetId:  "created-1",
			SpreadsheetUrl: "https://example.test/created-1",
			Sheets:         []*sheets.Sheet{{Properties: &sheets.SheetProperties{Title: f.sheetName, SheetId: 7}}},
		})
	case r.Method == http.MethodGet && strings.HasPrefix(path, "/v4/spreadsheets/"):
		_ = json.NewEncoder(w).Encode(sheets.Spreadsheet{
			SpreadsheetId: strings.TrimPrefix(path, "/v4/spreadsheets/"),
			Sheets:        []*sheets.Sheet{{Properties: &sheets.SheetProperties{Title: "Other", SheetId: 1}}},
		})
	case strings.HasSuffix(path, ":clear"):
		_, _ = w.Write([]byte(`{}`))
	case strings.HasSuffix(path, ":batchUpdate"):
		_ = json.NewEncoder(w).Encode(sheets.BatchUpdateSpreadsheetResponse{
			Replies: []*sheets.Response{{AddSheet: &sheets.AddSheetResponse{
				Properties: &sheets.SheetProperties{Title: f.sheetName, SheetId: 9},
			}}},
		})
	case r.Method == http.MethodPut && strings.Contains(path, "/values/"):
		var body sheets.ValueRange
		_ = json.NewDecoder(r.Body).Decode(&body)
		rng := path[strings.Index(path, "/values/")+len("/values/"):]
		f.updates[rng] = body.Values
		f.inputs[rng] = r.URL.Query().Get("valueInputOption")
		_, _ = w.Write([]byte(`{}`))
	default:
		http.NotFound(w, r)
	}
}

func newFakeWriter(t *testing.T, mutate func(*Config)) (*Writer, *fakeSheets) {
	t.Helper()

	config := DefaultConfig()
	config.ServiceAccountPath = "unused.json"
	config.RetryDelay = time.Millisecond
	mutate(&config)

	fake := &fakeSheets{updates: make(map[string][][]any), inputs: make(map[string]string), sheetName: config.SheetName}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	service, err := sheets.NewService(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	return newWriter(service, config, slog.Default()), fake
}

func TestWriter_WriteLedger_CreatesSpreadsheet(t *testing.T) {
	writer, fake := newFakeWriter(t, func(*Config) {})

	result, err := writer.WriteLedger(context.Background(), testRecords())
	require.NoError(t, err)

	assert.Equal(t, "created-1", result.SpreadsheetID)
	assert.Equal(t, 2, result.Rows)

	written := fake.updates["'Transactions'!A1"]
	require.Len(t, written, 3)
	assert.Equal(t, "Type", written[0][0])
	assert.Equal(t, "Electric", written[1][3])
	assert.Contains(t, fake.calls, "POST /v4/spreadsheets/created-1:batchUpdate")
}

func TestWriter_WriteLedger_AddsMissingSheet(t *testing.T) {
	writer, fake := newFakeWriter(t, func(c *Config) {
		c.SpreadsheetID = "existing-1"
		c.EnableFormatting = false
		c.BatchSize = 2
	})

	_, err := writer.WriteLedger(context.Background(), testRecords())
	require.NoError(t, err)

	assert.Contains(t, fake.calls, "GET /v4/spreadsheets/existing-1")
	assert.Len(t, fake.updates["'Transactions'!A1"], 2)
	assert.Len(t, fake.updates["'Transactions'!A3"], 1)
}

func TestWriter_WriteLedger_StoresCellsVerbatim(t *testing.T) {
	writer, fake := newFakeWriter(t, func(c *Config) { c.EnableFormatting = false })

	records := []model.TransactionRecord{
		{Type: model.TypeBillPayment, Amount: decimal.NewFromInt(5), Date: "2024-03-01", Biller: model.StringPtr("=SUM(A1:A9)")},
		{Type: model.TypeTransferOut, Amount: decimal.NewFromInt(7), Date: "2024-03-02", To: model.StringPtr("000123")},
	}
	_, err := writer.WriteLedger(context.Background(), records)
	require.NoError(t, err)

	rng := "'Transactions'!A1"
	assert.Equal(t, "RAW", fake.inputs[rng])

	written := fake.updates[rng]
	want := ledger.Rows(records)
	require.Len(t, written, len(want))
	for i, row := range want {
		for j, cell := range row {
			assert.Equal(t, cell, written[i][j], "row %d col %d", i, j)
		}
	}
}

func TestWriter_WriteLedger_NothingToExport(t *testing.T) {
	writer, fake := newFakeWriter(t, func(*Config) {})

	_, err := writer.WriteLedger(context.Background(), nil)
	assert.ErrorIs(t, err, ledger.ErrNothingToExport)
	assert.Empty(t, fake.calls)
}

func TestTokenFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token.json")
	token := &oauth2.Token{AccessToken: "access", RefreshToken: "refresh", TokenType: "Bearer"}

	require.NoError(t, SaveToken(path, token))
	loaded, err := LoadToken(path)
	require.NoError(t, err)
	assert.Equal(t, "refresh", loaded.RefreshToken)

	_, err = LoadToken(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestAuthorize_RequiresClient(t *testing.T) {
	_, err := Authorize(context.Background(), OAuth2Config{}, func(string) {})
	assert.ErrorContains(t, err, "client id and secret are required")
}
