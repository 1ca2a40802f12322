package api

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/stackbank/internal/common"
)

// ValidateLogin checks the login form.
func ValidateLogin(email, password string) error {
	if strings.TrimSpace(email) == "" || password == "" {
		return common.NewValidationError(MsgLoginMissing)
	}
	return nil
}

// ValidateRegister checks the registration form.
func ValidateRegister(email, password, confirm string) error {
	if strings.TrimSpace(email) == "" || password == "" || confirm == "" {
		return common.NewValidationError(MsgFillAllFields)
	}
	if password != confirm {
		return common.NewValidationError(MsgPasswordMismatch)
	}
	return nil
}

// ParseAmount validates a payment amount entered by the user. The target
// (account number or biller) must be non-empty and the amount a positive
// decimal.
func ParseAmount(target, amount string) (decimal.Decimal, error) {
	target = strings.TrimSpace(target)
	amount = strings.TrimSpace(amount)
	if target == "" || amount == "" {
		return decimal.Zero, common.NewValidationError(MsgFillAllFields)
	}
	value, err := decimal.NewFromString(amount)
	if err != nil || !value.IsPositive() {
		return decimal.Zero, common.NewValidationError(MsgInvalidAmount)
	}
	return value, nil
}

// ValidateEmailUpdate checks the update-email form.
func ValidateEmailUpdate(email string) error {
	if strings.TrimSpace(email) == "" {
		return common.NewValidationError(MsgEmailMissing)
	}
	return nil
}

// ValidatePasswordChange checks the change-password form.
func ValidatePasswordChange(oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return common.NewValidationError(MsgPasswordMissing)
	}
	return nil
}
