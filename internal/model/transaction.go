// Package model defines the records exchanged with the account service.
package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a ledger entry.
type TransactionType string

// Transaction types reported by the account service.
const (
	TypeTransferOut TransactionType = "Transfer Out"
	TypeTransferIn  TransactionType = "Transfer In"
	TypeBillPayment TransactionType = "Bill Payment"
)

// TransactionTypes lists every known type in display order.
var TransactionTypes = []TransactionType{TypeTransferOut, TypeTransferIn, TypeBillPayment}

// IsValid reports whether t is one of the known transaction types.
func (t TransactionType) IsValid() bool {
	for _, known := range TransactionTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ParseTransactionType validates user input naming a transaction type.
// The empty string is accepted and means "any type".
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(s)
	if s == "" || t.IsValid() {
		return t, nil
	}
	return "", fmt.Errorf("unknown transaction type %q", s)
}

// TransactionRecord is a single ledger entry as returned by the service.
// Optional counterparty fields are nil when the service omits them.
type TransactionRecord struct {
	Biller *string         `json:"biller,omitempty"`
	To     *string         `json:"to,omitempty"`
	From   *string         `json:"from,omitempty"`
	Type   TransactionType `json:"type"`
	Date   string          `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

// AmountString renders the amount as a plain number with no currency
// formatting, e.g. "50" or "20.5".
func (r TransactionRecord) AmountString() string {
	return r.Amount.String()
}

// Counterparty returns the most descriptive party of the record.
func (r TransactionRecord) Counterparty() string {
	switch {
	case r.Biller != nil:
		return *r.Biller
	case r.To != nil:
		return *r.To
	case r.From != nil:
		return *r.From
	default:
		return ""
	}
}

// StringPtr returns a pointer to s, for building records.
func StringPtr(s string) *string {
	return &s
}
