// Package api is the client for the banking service. Every authenticated
// call attaches the session token and passes its response through the
// Interceptor before anything else looks at it.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Veraticus/stackbank/internal/common"
	"github.com/Veraticus/stackbank/internal/model"
	"github.com/Veraticus/stackbank/internal/nav"
)

// DefaultBaseURL is the local development service.
const DefaultBaseURL = "http://localhost:3001/api"

// DefaultTimeout bounds a single request.
const DefaultTimeout = 15 * time.Second

// RequestIDHeader carries a per-request id for correlating logs.
const RequestIDHeader = "X-Request-ID"

// Session is the part of the session store the client uses.
type Session interface {
	Token() string
	SetToken(ctx context.Context, token string) error
	Clear() bool
}

// Client talks to the banking service.
type Client struct {
	session     Session
	httpClient  *http.Client
	interceptor *Interceptor
	baseURL     string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// NewClient creates a client for the service at baseURL. Unauthorized
// responses clear session and redirect through navigator.
func NewClient(baseURL string, session Session, navigator nav.Navigator, opts ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: invalid base URL %q", common.ErrInvalidConfig, baseURL)
	}
	if session == nil {
		return nil, fmt.Errorf("%w: session is required", common.ErrMissingConfig)
	}

	c := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		session:     session,
		httpClient:  &http.Client{Timeout: DefaultTimeout},
		interceptor: NewInterceptor(session, navigator),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the service root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Login authenticates and stores the returned token in the session.
func (c *Client) Login(ctx context.Context, email, password string) error {
	if err := ValidateLogin(email, password); err != nil {
		return err
	}
	return c.authenticate(ctx, "/login", credentials{Email: strings.TrimSpace(email), Password: password}, MsgLoginFailed)
}

// Register creates an account and stores the returned token in the session.
func (c *Client) Register(ctx context.Context, email, password, confirm string) error {
	if err := ValidateRegister(email, password, confirm); err != nil {
		return err
	}
	return c.authenticate(ctx, "/register", credentials{Email: strings.TrimSpace(email), Password: password}, MsgRegisterFailed)
}

func (c *Client) authenticate(ctx context.Context, path string, creds credentials, fallback string) error {
	var out tokenResponse
	if err := c.do(ctx, http.MethodPost, path, creds, false, &out, fallback); err != nil {
		return err
	}
	if out.Token == "" {
		return fmt.Errorf("%w: missing token", ErrInvalidResponse)
	}
	if err := c.session.SetToken(ctx, out.Token); err != nil {
		return common.NewUserError(fallback, err)
	}
	return nil
}

// AccountSummary is the dashboard payload.
type AccountSummary struct {
	Transactions []model.TransactionRecord
	Account      model.Account
}

// accountResponse accepts recentTransactions as an alias for transactions.
// Only the canonical field leaves this package.
type accountResponse struct {
	Transactions       []model.TransactionRecord `json:"transactions"`
	RecentTransactions []model.TransactionRecord `json:"recentTransactions"`
	Account            model.Account             `json:"account"`
}

// Account fetches the account and its recent transactions.
func (c *Client) Account(ctx context.Context) (*AccountSummary, error) {
	var out accountResponse
	if err := c.do(ctx, http.MethodGet, "/account", nil, true, &out, MsgAccountLoadFailed); err != nil {
		return nil, err
	}
	txs := out.Transactions
	if txs == nil {
		txs = out.RecentTransactions
	}
	if txs == nil {
		txs = []model.TransactionRecord{}
	}
	return &AccountSummary{Account: out.Account, Transactions: txs}, nil
}

type transferRequest struct {
	ToAccountNumber string      `json:"toAccountNumber"`
	Amount          json.Number `json:"amount"`
}

// Transfer moves amount to the account numbered to.
func (c *Client) Transfer(ctx context.Context, to, amount string) error {
	value, err := ParseAmount(to, amount)
	if err != nil {
		return err
	}
	req := transferRequest{ToAccountNumber: strings.TrimSpace(to), Amount: jsonAmount(value)}
	return c.do(ctx, http.MethodPost, "/transfer", req, true, nil, MsgTransferFailed)
}

type billRequest struct {
	Biller string      `json:"biller"`
	Amount json.Number `json:"amount"`
}

// PayBill pays amount to biller.
func (c *Client) PayBill(ctx context.Context, biller, amount string) error {
	value, err := ParseAmount(biller, amount)
	if err != nil {
		return err
	}
	req := billRequest{Biller: strings.TrimSpace(biller), Amount: jsonAmount(value)}
	return c.do(ctx, http.MethodPost, "/paybill", req, true, nil, MsgBillFailed)
}

// Profile fetches the signed-in user's profile.
func (c *Client) Profile(ctx context.Context) (*model.Profile, error) {
	var out model.Profile
	if err := c.do(ctx, http.MethodGet, "/profile", nil, true, &out, MsgProfileLoadFailed); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateEmail changes the signed-in user's email.
func (c *Client) UpdateEmail(ctx context.Context, email string) error {
	if err := ValidateEmailUpdate(email); err != nil {
		return err
	}
	body := map[string]string{"email": strings.TrimSpace(email)}
	return c.do(ctx, http.MethodPost, "/profile", body, true, nil, MsgEmailUpdateFailed)
}

// ChangePassword replaces the signed-in user's password.
func (c *Client) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	if err := ValidatePasswordChange(oldPassword, newPassword); err != nil {
		return err
	}
	body := map[string]string{"oldPassword": oldPassword, "newPassword": newPassword}
	return c.do(ctx, http.MethodPost, "/change-password", body, true, nil, MsgPasswordChangeFailed)
}

type historyResponse struct {
	History []model.TransactionRecord `json:"history"`
}

// History fetches the full transaction history.
func (c *Client) History(ctx context.Context) ([]model.TransactionRecord, error) {
	var out historyResponse
	if err := c.do(ctx, http.MethodGet, "/history", nil, true, &out, MsgHistoryLoadFailed); err != nil {
		return nil, err
	}
	if out.History == nil {
		return []model.TransactionRecord{}, nil
	}
	return out.History, nil
}

func jsonAmount(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

// do performs one request. Authenticated calls without a token are refused
// locally and never reach the service.
func (c *Client) do(ctx context.Context, method, path string, body any, authed bool, out any, fallback string) error {
	var token string
	if authed {
		token = c.session.Token()
		if token == "" {
			return fmt.Errorf("%w: %w", ErrUnauthorized, common.ErrNoSession)
		}
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding %s request: %w", path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building %s request: %w", path, err)
	}
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		slog.Warn("Request failed", "method", method, "path", path, "request_id", requestID, "error", err)
		return fmt.Errorf("%w: %w", ErrConnectivity, err)
	}
	defer func() { _ = resp.Body.Close() }()

	slog.Debug("Request completed",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(start))

	if authed {
		if err := c.interceptor.Intercept(resp); err != nil {
			return err
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeServiceError(resp, fallback)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidResponse, path, err)
	}
	return nil
}

type errorResponse struct {
	Error string `json:"error"`
}

func decodeServiceError(resp *http.Response, fallback string) error {
	var body errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		body.Error = ""
	}
	message := strings.TrimSpace(body.Error)
	if message == "" {
		message = fallback
	}
	return &ServiceError{Status: resp.StatusCode, Message: message}
}
