package model

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitials(t *testing.T) {
	tests := []struct {
		email string
		want  string
	}{
		{"", "U"},
		{"test@user.com", "T"},
		{"jane.doe@example.com", "JD"},
		{"mary_ann-smith@example.com", "MA"},
		{"@example.com", "@"},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.want, Initials(tt.email))
		})
	}
}

func TestTransactionRecord_JSON(t *testing.T) {
	raw := `{"type":"Bill Payment","amount":20.5,"date":"2024-01-02","biller":"Electric"}`

	var rec TransactionRecord
	require.NoError(t, json.Unmarshal([]byte(raw), &rec))

	assert.Equal(t, TypeBillPayment, rec.Type)
	assert.True(t, decimal.RequireFromString("20.5").Equal(rec.Amount))
	assert.Equal(t, "20.5", rec.AmountString())
	require.NotNil(t, rec.Biller)
	assert.Equal(t, "Electric", *rec.Biller)
	assert.Nil(t, rec.To)
	assert.Nil(t, rec.From)
	assert.Equal(t, "Electric", rec.Counterparty())
}

func TestParseTransactionType(t *testing.T) {
	got, err := ParseTransactionType("Transfer In")
	require.NoError(t, err)
	assert.Equal(t, TypeTransferIn, got)

	got, err = ParseTransactionType("")
	require.NoError(t, err)
	assert.Equal(t, TransactionType(""), got)

	_, err = ParseTransactionType("transfer in")
	assert.Error(t, err)
}
