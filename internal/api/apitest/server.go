// Package apitest runs an in-memory banking service for tests. It speaks the
// same JSON contract as the real service.
package apitest

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"

	"github.com/Veraticus/stackbank/internal/model"
)

// DefaultBalance is the opening balance for registered users.
var DefaultBalance = decimal.NewFromInt(1000)

type user struct {
	email         string
	password      string
	accountNumber string
	balance       decimal.Decimal
	history       []model.TransactionRecord
}

type failure struct {
	message string
	status  int
}

// Server is a fake banking service. All state is guarded by one mutex so
// transfers are atomic.
type Server struct {
	srv *httptest.Server
	// Now stamps new transactions.
	Now func() time.Time

	users      map[string]*user
	byAccount  map[string]*user
	tokens     map[string]string
	failures   map[string]failure
	hits       map[string]int
	requestIDs []string
	mu         sync.Mutex
	nextAcct   int
	useAlias   bool
}

// NewServer starts a fake service. Callers must Close it.
func NewServer() *Server {
	s := &Server{
		Now:       time.Now,
		users:     make(map[string]*user),
		byAccount: make(map[string]*user),
		tokens:    make(map[string]string),
		failures:  make(map[string]failure),
		hits:      make(map[string]int),
		nextAcct:  100000,
	}
	s.srv = httptest.NewServer(s.routes())
	return s
}

// URL is the API root, suitable as a client base URL.
func (s *Server) URL() string {
	return s.srv.URL + "/api"
}

// Close shuts the server down.
func (s *Server) Close() {
	s.srv.Close()
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.record)

	r.Route("/api", func(api chi.Router) {
		api.Post("/login", s.handleLogin)
		api.Post("/register", s.handleRegister)

		api.Group(func(authed chi.Router) {
			authed.Use(s.authenticate)
			authed.Get("/account", s.handleAccount)
			authed.Post("/transfer", s.handleTransfer)
			authed.Post("/paybill", s.handlePayBill)
			authed.Get("/profile", s.handleProfile)
			authed.Post("/profile", s.handleUpdateEmail)
			authed.Post("/change-password", s.handleChangePassword)
			authed.Get("/history", s.handleHistory)
		})
	})
	return r
}

// AddUser creates a user and returns its account number.
func (s *Server) AddUser(email, password string, balance decimal.Decimal) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addUserLocked(email, password, balance).accountNumber
}

func (s *Server) addUserLocked(email, password string, balance decimal.Decimal) *user {
	s.nextAcct++
	u := &user{
		email:         email,
		password:      password,
		accountNumber: fmt.Sprintf("%d", s.nextAcct),
		balance:       balance,
	}
	s.users[email] = u
	s.byAccount[u.accountNumber] = u
	return u
}

// IssueToken signs email in and returns a valid token.
func (s *Server) IssueToken(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.issueLocked(email)
}

func (s *Server) issueLocked(email string) string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	token := hex.EncodeToString(buf)
	s.tokens[token] = email
	return token
}

// RevokeAll invalidates every issued token.
func (s *Server) RevokeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.tokens)
}

// SetHistory replaces a user's transaction history.
func (s *Server) SetHistory(email string, records []model.TransactionRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[email]; ok {
		u.history = append([]model.TransactionRecord(nil), records...)
	}
}

// Balance returns a user's current balance.
func (s *Server) Balance(email string) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[email]; ok {
		return u.balance
	}
	return decimal.Zero
}

// Fail makes every request to path answer status with message. An empty
// message sends a body without an error field.
func (s *Server) Fail(path string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures["/api"+path] = failure{status: status, message: message}
}

// UseRecentTransactionsAlias makes /account report transactions under the
// recentTransactions field.
func (s *Server) UseRecentTransactionsAlias(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.useAlias = on
}

// Hits returns how many requests reached path.
func (s *Server) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits["/api"+path]
}

// RequestIDs returns the request ids seen so far, in arrival order.
func (s *Server) RequestIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requestIDs...)
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.hits[r.URL.Path]++
		s.requestIDs = append(s.requestIDs, middleware.GetReqID(r.Context()))
		f, failing := s.failures[r.URL.Path]
		s.mu.Unlock()

		if failing {
			if f.message == "" {
				respondJSON(w, f.status, map[string]string{})
				return
			}
			respondError(w, f.status, f.message)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type ctxKey struct{}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		s.mu.Lock()
		email, known := s.tokens[token]
		s.mu.Unlock()
		if !ok || !known {
			respondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r.WithContext(withEmail(r, email)))
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[req.Email]
	if !ok || u.password != req.Password {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"token": s.issueLocked(u.email)})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decode(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Email and password are required")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[req.Email]; exists {
		respondError(w, http.StatusConflict, "User already exists")
		return
	}
	u := s.addUserLocked(req.Email, req.Password, DefaultBalance)
	respondJSON(w, http.StatusCreated, map[string]string{"token": s.issueLocked(u.email)})
}

func (s *Server) handleAccount(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.users[emailFrom(r)]
	txs := append([]model.TransactionRecord{}, u.history...)
	body := map[string]any{
		"account": model.Account{AccountNumber: u.accountNumber, Balance: u.balance},
	}
	if s.useAlias {
		body["recentTransactions"] = txs
	} else {
		body["transactions"] = txs
	}
	respondJSON(w, http.StatusOK, body)
}

type paymentRequest struct {
	ToAccountNumber string          `json:"toAccountNumber"`
	Biller          string          `json:"biller"`
	Amount          decimal.Decimal `json:"amount"`
}

func (s *Server) handleTransfer(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	from := s.users[emailFrom(r)]
	to, ok := s.byAccount[req.ToAccountNumber]
	switch {
	case !req.Amount.IsPositive():
		respondError(w, http.StatusBadRequest, "Invalid amount")
		return
	case !ok:
		respondError(w, http.StatusNotFound, "Recipient account not found")
		return
	case to == from:
		respondError(w, http.StatusBadRequest, "Cannot transfer to the same account")
		return
	case from.balance.LessThan(req.Amount):
		respondError(w, http.StatusBadRequest, "Insufficient funds")
		return
	}

	date := s.Now().UTC().Format(time.RFC3339)
	from.balance = from.balance.Sub(req.Amount)
	to.balance = to.balance.Add(req.Amount)
	from.history = append([]model.TransactionRecord{{
		Type: model.TypeTransferOut, Amount: req.Amount, Date: date, To: model.StringPtr(to.accountNumber),
	}}, from.history...)
	to.history = append([]model.TransactionRecord{{
		Type: model.TypeTransferIn, Amount: req.Amount, Date: date, From: model.StringPtr(from.accountNumber),
	}}, to.history...)
	respondJSON(w, http.StatusOK, map[string]any{"balance": from.balance})
}

func (s *Server) handlePayBill(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.users[emailFrom(r)]
	switch {
	case req.Biller == "" || !req.Amount.IsPositive():
		respondError(w, http.StatusBadRequest, "Invalid bill payment")
		return
	case u.balance.LessThan(req.Amount):
		respondError(w, http.StatusBadRequest, "Insufficient funds")
		return
	}
	u.balance = u.balance.Sub(req.Amount)
	u.history = append([]model.TransactionRecord{{
		Type:   model.TypeBillPayment,
		Amount: req.Amount,
		Date:   s.Now().UTC().Format(time.RFC3339),
		Biller: model.StringPtr(req.Biller),
	}}, u.history...)
	respondJSON(w, http.StatusOK, map[string]any{"balance": u.balance})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.users[emailFrom(r)]
	respondJSON(w, http.StatusOK, model.Profile{Email: u.email, AccountNumber: u.accountNumber})
}

func (s *Server) handleUpdateEmail(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	current := emailFrom(r)
	if _, taken := s.users[req.Email]; taken && req.Email != current {
		respondError(w, http.StatusConflict, "Email already in use")
		return
	}
	u := s.users[current]
	delete(s.users, current)
	u.email = req.Email
	s.users[u.email] = u
	for token, email := range s.tokens {
		if email == current {
			s.tokens[token] = u.email
		}
	}
	respondJSON(w, http.StatusOK, map[string]string{"email": u.email})
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OldPassword string `json:"oldPassword"`
		NewPassword string `json:"newPassword"`
	}
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.users[emailFrom(r)]
	if u.password != req.OldPassword {
		respondError(w, http.StatusBadRequest, "Current password is incorrect")
		return
	}
	u.password = req.NewPassword
	respondJSON(w, http.StatusOK, map[string]string{"message": "Password changed"})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.users[emailFrom(r)]
	respondJSON(w, http.StatusOK, map[string]any{
		"history": append([]model.TransactionRecord{}, u.history...),
	})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
