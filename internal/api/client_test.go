package api

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/stackbank/internal/api/apitest"
	"github.com/Veraticus/stackbank/internal/common"
	"github.com/Veraticus/stackbank/internal/model"
	"github.com/Veraticus/stackbank/internal/nav"
	"github.com/Veraticus/stackbank/internal/session"
)

type recordingNavigator struct {
	mu       sync.Mutex
	replaced []nav.Route
	pushes   atomic.Int32
	hard     atomic.Int32
}

func (r *recordingNavigator) Push(nav.Route) { r.pushes.Add(1) }

func (r *recordingNavigator) Replace(route nav.Route) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.replaced = append(r.replaced, route)
}

func (r *recordingNavigator) HardRedirect(nav.Route) { r.hard.Add(1) }

func (r *recordingNavigator) Replaced() []nav.Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]nav.Route(nil), r.replaced...)
}

type fixture struct {
	server    *apitest.Server
	store     *session.Store
	navigator *recordingNavigator
	client    *Client
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	server := apitest.NewServer()
	t.Cleanup(server.Close)

	store, err := session.Open(context.Background(), &session.MemoryPersister{})
	require.NoError(t, err)

	navigator := &recordingNavigator{}
	client, err := NewClient(server.URL(), store, navigator)
	require.NoError(t, err)

	return &fixture{server: server, store: store, navigator: navigator, client: client}
}

func (f *fixture) signIn(t *testing.T, email string) {
	t.Helper()
	f.server.AddUser(email, "secret", decimal.NewFromInt(500))
	require.NoError(t, f.store.SetToken(context.Background(), f.server.IssueToken(email)))
}

func TestNewClient_RejectsBadBaseURL(t *testing.T) {
	store, err := session.Open(context.Background(), &session.MemoryPersister{})
	require.NoError(t, err)

	_, err = NewClient("not a url", store, &recordingNavigator{})
	assert.ErrorIs(t, err, common.ErrInvalidConfig)

	c, err := NewClient("", store, &recordingNavigator{})
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, c.BaseURL())
}

func TestClient_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("stores token on success", func(t *testing.T) {
		f := newFixture(t)
		f.server.AddUser("ana@example.com", "secret", decimal.NewFromInt(10))

		require.NoError(t, f.client.Login(ctx, "ana@example.com", "secret"))
		assert.True(t, f.store.IsActive())
	})

	t.Run("service error message surfaces", func(t *testing.T) {
		f := newFixture(t)
		f.server.AddUser("ana@example.com", "secret", decimal.NewFromInt(10))

		err := f.client.Login(ctx, "ana@example.com", "wrong")
		var serviceErr *ServiceError
		require.ErrorAs(t, err, &serviceErr)
		assert.Equal(t, http.StatusUnauthorized, serviceErr.Status)
		assert.Equal(t, "Invalid credentials", UserMessage(err, MsgLoginFailed))
		assert.False(t, f.store.IsActive())
		assert.Empty(t, f.navigator.Replaced(), "unauthenticated calls never redirect")
	})

	t.Run("validation skips the network", func(t *testing.T) {
		f := newFixture(t)

		err := f.client.Login(ctx, "", "")
		assert.Equal(t, MsgLoginMissing, UserMessage(err, MsgLoginFailed))
		assert.Zero(t, f.server.Hits("/login"))
	})

	t.Run("fallback when body has no error", func(t *testing.T) {
		f := newFixture(t)
		f.server.Fail("/login", http.StatusInternalServerError, "")

		err := f.client.Login(ctx, "ana@example.com", "secret")
		assert.Equal(t, MsgLoginFailed, UserMessage(err, MsgLoginFailed))
	})
}

func TestClient_Register(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	err := f.client.Register(ctx, "ben@example.com", "a", "b")
	assert.Equal(t, MsgPasswordMismatch, UserMessage(err, MsgRegisterFailed))
	assert.Zero(t, f.server.Hits("/register"))

	require.NoError(t, f.client.Register(ctx, "ben@example.com", "pw", "pw"))
	assert.True(t, f.store.IsActive())

	f.store.Clear()
	err = f.client.Register(ctx, "ben@example.com", "pw", "pw")
	assert.Equal(t, "User already exists", UserMessage(err, MsgRegisterFailed))
}

func TestClient_Account(t *testing.T) {
	ctx := context.Background()

	for _, alias := range []bool{false, true} {
		name := "transactions"
		if alias {
			name = "recentTransactions alias"
		}
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			f.signIn(t, "ana@example.com")
			f.server.UseRecentTransactionsAlias(alias)
			f.server.SetHistory("ana@example.com", []model.TransactionRecord{
				{Type: model.TypeBillPayment, Amount: decimal.NewFromInt(20), Date: "2024-01-02", Biller: model.StringPtr("Water")},
			})

			summary, err := f.client.Account(ctx)
			require.NoError(t, err)
			assert.True(t, summary.Account.Balance.Equal(decimal.NewFromInt(500)))
			assert.NotEmpty(t, summary.Account.AccountNumber)
			require.Len(t, summary.Transactions, 1)
			assert.Equal(t, "Water", summary.Transactions[0].Counterparty())
		})
	}
}

func TestClient_TransferAndPayBill(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.signIn(t, "ana@example.com")
	recipient := f.server.AddUser("ben@example.com", "pw", decimal.Zero)

	require.NoError(t, f.client.Transfer(ctx, recipient, "125.50"))
	assert.Equal(t, "374.5", f.server.Balance("ana@example.com").String())
	assert.Equal(t, "125.5", f.server.Balance("ben@example.com").String())

	require.NoError(t, f.client.PayBill(ctx, "Electric", "74.5"))
	assert.Equal(t, "300", f.server.Balance("ana@example.com").String())

	history, err := f.client.History(ctx)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, model.TypeBillPayment, history[0].Type)
	assert.Equal(t, model.TypeTransferOut, history[1].Type)
	assert.Equal(t, recipient, history[1].Counterparty())

	err = f.client.Transfer(ctx, recipient, "10000")
	assert.Equal(t, "Insufficient funds", UserMessage(err, MsgTransferFailed))

	tests := []struct {
		name   string
		target string
		amount string
		want   string
	}{
		{name: "missing target", target: "", amount: "5", want: MsgFillAllFields},
		{name: "missing amount", target: "Gas", amount: " ", want: MsgFillAllFields},
		{name: "not a number", target: "Gas", amount: "five", want: MsgInvalidAmount},
		{name: "negative", target: "Gas", amount: "-3", want: MsgInvalidAmount},
		{name: "zero", target: "Gas", amount: "0", want: MsgInvalidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := f.server.Hits("/paybill")
			err := f.client.PayBill(ctx, tt.target, tt.amount)
			assert.Equal(t, tt.want, UserMessage(err, MsgBillFailed))
			assert.Equal(t, before, f.server.Hits("/paybill"))
		})
	}
}

func TestClient_Profile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.signIn(t, "ana@example.com")

	profile, err := f.client.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", profile.Email)

	require.NoError(t, f.client.UpdateEmail(ctx, "ana.b@example.com"))
	profile, err = f.client.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ana.b@example.com", profile.Email)

	err = f.client.ChangePassword(ctx, "wrong", "new")
	assert.Equal(t, "Current password is incorrect", UserMessage(err, MsgPasswordChangeFailed))
	require.NoError(t, f.client.ChangePassword(ctx, "secret", "new"))

	err = f.client.UpdateEmail(ctx, "  ")
	assert.Equal(t, MsgEmailMissing, UserMessage(err, MsgEmailUpdateFailed))
}

func TestClient_HistoryEmpty(t *testing.T) {
	f := newFixture(t)
	f.signIn(t, "ana@example.com")

	history, err := f.client.History(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, history)
	assert.Empty(t, history)
}

func TestClient_UnauthorizedClearsSessionAndRedirects(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.signIn(t, "ana@example.com")
	f.server.RevokeAll()

	_, err := f.client.Account(ctx)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.False(t, f.store.IsActive())
	assert.Equal(t, []nav.Route{nav.RouteLogin}, f.navigator.Replaced())
	assert.Zero(t, f.navigator.pushes.Load())
	assert.Zero(t, f.navigator.hard.Load())
}

func TestClient_ConcurrentUnauthorizedRedirectsOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.signIn(t, "ana@example.com")
	f.server.RevokeAll()

	const calls = 8
	var wg sync.WaitGroup
	errs := make([]error, calls)
	for i := 0; i < calls; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.client.History(ctx)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.ErrorIs(t, err, ErrUnauthorized)
	}
	assert.False(t, f.store.IsActive())
	assert.Equal(t, []nav.Route{nav.RouteLogin}, f.navigator.Replaced())
}

func TestClient_NoTokenNeverSends(t *testing.T) {
	f := newFixture(t)

	_, err := f.client.Profile(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.ErrorIs(t, err, common.ErrNoSession)
	assert.Zero(t, f.server.Hits("/profile"))
	assert.Empty(t, f.navigator.Replaced())
}

func TestClient_ServiceErrorKeepsSession(t *testing.T) {
	f := newFixture(t)
	f.signIn(t, "ana@example.com")
	f.server.Fail("/account", http.StatusInternalServerError, "")

	_, err := f.client.Account(context.Background())
	var serviceErr *ServiceError
	require.ErrorAs(t, err, &serviceErr)
	assert.Equal(t, MsgAccountLoadFailed, UserMessage(err, MsgAccountLoadFailed))
	assert.True(t, f.store.IsActive())
	assert.Empty(t, f.navigator.Replaced())
}

func TestClient_ConnectivityError(t *testing.T) {
	server := apitest.NewServer()
	url := server.URL()
	server.Close()

	store, err := session.Open(context.Background(), &session.MemoryPersister{})
	require.NoError(t, err)
	require.NoError(t, store.SetToken(context.Background(), "tok"))
	client, err := NewClient(url, store, &recordingNavigator{})
	require.NoError(t, err)

	_, err = client.History(context.Background())
	assert.ErrorIs(t, err, ErrConnectivity)
	assert.Equal(t, NetworkErrorMessage, UserMessage(err, MsgHistoryLoadFailed))
	assert.True(t, store.IsActive())
}

func TestClient_SendsRequestID(t *testing.T) {
	f := newFixture(t)
	f.signIn(t, "ana@example.com")

	_, err := f.client.Profile(context.Background())
	require.NoError(t, err)

	ids := f.server.RequestIDs()
	require.Len(t, ids, 1)
	_, err = uuid.Parse(ids[0])
	assert.NoError(t, err)
}

func TestUserMessage(t *testing.T) {
	assert.Empty(t, UserMessage(nil, "x"))
	assert.Equal(t, "x", UserMessage(errors.New("boom"), "x"))
	assert.Equal(t, "x", UserMessage(&ServiceError{Status: 500}, "x"))
	assert.Equal(t, NetworkErrorMessage, UserMessage(ErrInvalidResponse, "x"))
	assert.Equal(t, "shown", UserMessage(common.NewUserError("shown", errors.New("cause")), "x"))
}
