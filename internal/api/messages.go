package api

// User-facing messages for each action.
const (
	MsgLoginMissing         = "Please enter both email and password."
	MsgLoginFailed          = "Login failed."
	MsgFillAllFields        = "Please fill in all fields."
	MsgPasswordMismatch     = "Passwords do not match."
	MsgRegisterFailed       = "Registration failed."
	MsgAccountLoadFailed    = "Failed to load account data."
	MsgInvalidAmount        = "Please enter a valid amount."
	MsgTransferSuccess      = "Transfer successful!"
	MsgTransferFailed       = "Transfer failed."
	MsgBillSuccess          = "Bill payment successful!"
	MsgBillFailed           = "Bill payment failed."
	MsgProfileLoadFailed    = "Failed to load profile."
	MsgEmailMissing         = "Please enter a new email."
	MsgEmailUpdated         = "Email updated successfully!"
	MsgEmailUpdateFailed    = "Failed to update email."
	MsgPasswordMissing      = "Please enter your current and new password."
	MsgPasswordChanged      = "Password changed successfully!"
	MsgPasswordChangeFailed = "Failed to change password."
	MsgHistoryLoadFailed    = "Failed to load transaction history."
	MsgExportSuccess        = "Transactions exported."
	MsgLoggedOut            = "You have been logged out."
)
