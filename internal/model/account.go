package model

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Account is the signed-in user's account summary.
type Account struct {
	AccountNumber string          `json:"accountNumber"`
	Balance       decimal.Decimal `json:"balance"`
}

// Profile holds the editable user profile.
type Profile struct {
	Email         string `json:"email"`
	AccountNumber string `json:"accountNumber"`
}

// Initials derives avatar initials from an email address: the first letter
// of the first two name parts split on '.', '_' or '-', or "U" when empty.
func Initials(email string) string {
	if email == "" {
		return "U"
	}

	name, _, _ := strings.Cut(email, "@")
	if name == "" {
		return upperFirst(email)
	}

	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '.' || r == '_' || r == '-'
	})
	switch len(parts) {
	case 0:
		return upperFirst(name)
	case 1:
		return upperFirst(parts[0])
	default:
		return upperFirst(parts[0]) + upperFirst(parts[1])
	}
}

func upperFirst(s string) string {
	r, _ := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return ""
	}
	return string(unicode.ToUpper(r))
}
