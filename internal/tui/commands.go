package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/stackbank/internal/api"
	"github.com/Veraticus/stackbank/internal/ledger"
	"github.com/Veraticus/stackbank/internal/model"
)

const requestTimeout = 30 * time.Second

// Backend is the account service as used by the screens.
type Backend interface {
	Login(ctx context.Context, email, password string) error
	Register(ctx context.Context, email, password, confirm string) error
	Account(ctx context.Context) (*api.AccountSummary, error)
	Transfer(ctx context.Context, to, amount string) error
	PayBill(ctx context.Context, biller, amount string) error
	Profile(ctx context.Context) (*model.Profile, error)
	UpdateEmail(ctx context.Context, email string) error
	ChangePassword(ctx context.Context, oldPassword, newPassword string) error
	History(ctx context.Context) ([]model.TransactionRecord, error)
}

func (e env) request() (context.Context, context.CancelFunc) {
	return context.WithTimeout(e.ctx, requestTimeout)
}

// loginCmd signs in with the given credentials.
func loginCmd(e env, email, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := e.request()
		defer cancel()

		return authResultMsg{visitTag: e.tag(), err: e.backend.Login(ctx, email, password)}
	}
}

// registerCmd creates an account and signs in.
func registerCmd(e env, email, password, confirm string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := e.request()
		defer cancel()

		return authResultMsg{visitTag: e.tag(), err: e.backend.Register(ctx, email, password, confirm)}
	}
}

// loadAccount fetches the dashboard summary.
func loadAccount(e env) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := e.request()
		defer cancel()

		summary, err := e.backend.Account(ctx)
		return accountLoadedMsg{visitTag: e.tag(), summary: summary, err: err}
	}
}

// paymentCmd sends a transfer or a bill payment.
func paymentCmd(e env, kind paymentKind, target, amount string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := e.request()
		defer cancel()

		var err error
		switch kind {
		case paymentBill:
			err = e.backend.PayBill(ctx, target, amount)
		default:
			err = e.backend.Transfer(ctx, target, amount)
		}
		return paymentResultMsg{visitTag: e.tag(), kind: kind, err: err}
	}
}

// loadProfile fetches the profile for the profile screen.
func loadProfile(e env) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := e.request()
		defer cancel()

		profile, err := e.backend.Profile(ctx)
		return profileLoadedMsg{visitTag: e.tag(), profile: profile, err: err}
	}
}

// updateEmailCmd changes the account email.
func updateEmailCmd(e env, email string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := e.request()
		defer cancel()

		err := e.backend.UpdateEmail(ctx, email)
		return profileUpdatedMsg{visitTag: e.tag(), action: actionEmail, email: email, err: err}
	}
}

// changePasswordCmd changes the account password.
func changePasswordCmd(e env, oldPassword, newPassword string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := e.request()
		defer cancel()

		err := e.backend.ChangePassword(ctx, oldPassword, newPassword)
		return profileUpdatedMsg{visitTag: e.tag(), action: actionPassword, err: err}
	}
}

// loadHistory fetches the full transaction history.
func loadHistory(e env) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := e.request()
		defer cancel()

		records, err := e.backend.History(ctx)
		return historyLoadedMsg{visitTag: e.tag(), records: records, err: err}
	}
}

// exportCmd writes records to a timestamped CSV file in the export directory.
func exportCmd(e env, records []model.TransactionRecord) tea.Cmd {
	return func() tea.Msg {
		path, err := ledger.ExportFile(e.exportDir, e.now(), records)
		return exportResultMsg{visitTag: e.tag(), path: path, count: len(records), err: err}
	}
}

// loadAvatar fetches the signed-in email for the navigation bar.
func loadAvatar(ctx context.Context, backend Backend, epoch uint64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, requestTimeout)
		defer cancel()

		profile, err := backend.Profile(ctx)
		msg := avatarLoadedMsg{epoch: epoch, err: err}
		if profile != nil {
			msg.email = profile.Email
		}
		return msg
	}
}
