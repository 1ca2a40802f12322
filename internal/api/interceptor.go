package api

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/Veraticus/stackbank/internal/nav"
)

// Verdict is the classification of a response status.
type Verdict int

// Response verdicts.
const (
	VerdictProceed Verdict = iota
	VerdictUnauthorized
)

func (v Verdict) String() string {
	if v == VerdictUnauthorized {
		return "unauthorized"
	}
	return "proceed"
}

// Classify maps an HTTP status to a verdict. It has no side effects.
func Classify(status int) Verdict {
	if status == http.StatusUnauthorized {
		return VerdictUnauthorized
	}
	return VerdictProceed
}

// SessionClearer is the part of the session store the interceptor writes.
type SessionClearer interface {
	Clear() bool
}

// Interceptor applies the de-authentication effects for unauthorized
// responses to authenticated calls.
type Interceptor struct {
	session   SessionClearer
	navigator nav.Navigator
}

// NewInterceptor creates an interceptor clearing session and navigating with
// navigator.
func NewInterceptor(session SessionClearer, navigator nav.Navigator) *Interceptor {
	return &Interceptor{session: session, navigator: navigator}
}

// Intercept inspects resp before any other handling. For an unauthorized
// response it discards the body, clears the session, replaces the current
// route with the entry route and returns ErrUnauthorized. The redirect happens
// only for the call that actually ended the session, so concurrent
// unauthorized responses navigate once.
func (i *Interceptor) Intercept(resp *http.Response) error {
	if Classify(resp.StatusCode) != VerdictUnauthorized {
		return nil
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()

	if i.session.Clear() {
		attrs := []any{"status", resp.StatusCode}
		if resp.Request != nil {
			attrs = append(attrs, "method", resp.Request.Method, "path", resp.Request.URL.Path)
		}
		slog.Info("Session rejected by service, signing out", attrs...)
		i.navigator.Replace(nav.EntryRoute)
	}
	return ErrUnauthorized
}
