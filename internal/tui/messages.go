package tui

import (
	"github.com/Veraticus/stackbank/internal/api"
	"github.com/Veraticus/stackbank/internal/model"
	"github.com/Veraticus/stackbank/internal/nav"
)

// visited is implemented by results that belong to one screen mount.
type visited interface {
	visitID() uint64
}

// visitTag ties an async result to the screen mount that requested it.
type visitTag struct {
	visit uint64
}

func (v visitTag) visitID() uint64 { return v.visit }

// Wake-ups delivered from other goroutines. They carry no state the model
// relies on: the model re-reads history and session on every update.
type (
	routeChangedMsg struct {
		event nav.Event
	}

	sessionChangedMsg struct {
		active bool
	}

	notificationsChangedMsg struct{}
)

// authResultMsg reports a login or register attempt.
type authResultMsg struct {
	err error
	visitTag
}

// accountLoadedMsg carries the dashboard summary.
type accountLoadedMsg struct {
	err     error
	summary *api.AccountSummary
	visitTag
}

// paymentResultMsg reports a transfer or a bill payment.
type paymentResultMsg struct {
	err  error
	kind paymentKind
	visitTag
}

// profileLoadedMsg carries the profile screen data.
type profileLoadedMsg struct {
	err     error
	profile *model.Profile
	visitTag
}

// profileUpdatedMsg reports an email update or a password change.
type profileUpdatedMsg struct {
	err    error
	action profileAction
	email  string
	visitTag
}

// historyLoadedMsg carries the full transaction history.
type historyLoadedMsg struct {
	err     error
	records []model.TransactionRecord
	visitTag
}

// exportResultMsg reports a CSV export.
type exportResultMsg struct {
	err   error
	path  string
	count int
	visitTag
}

// avatarLoadedMsg carries the signed-in email shown in the navigation bar.
// It is tagged with the session epoch instead of a visit.
type avatarLoadedMsg struct {
	err   error
	email string
	epoch uint64
}

// emailChangedMsg updates the navigation bar after a profile edit.
type emailChangedMsg struct {
	email string
}
