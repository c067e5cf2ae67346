package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sdk "github.com/fitroom/fitroom-go"
	"github.com/fitroom/fitroom-go/routes"
	"github.com/fitroom/fitroom-go/storage"
)

func newManager(t *testing.T, handler http.Handler, persist storage.Store) *Manager {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	store := NewStore(persist, zerolog.Nop())
	client, err := sdk.NewClient(sdk.Config{BaseURL: srv.URL, Session: store})
	require.NoError(t, err)
	return NewManager(store, client, zerolog.Nop())
}

func TestInitializeWithoutTokensSignsOut(t *testing.T) {
	m := newManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}), storage.NewMemStore())

	state := m.Initialize(context.Background())
	assert.False(t, state.Authenticated)
}

func TestInitializeValidatesStoredSession(t *testing.T) {
	persist := storage.NewMemStore()
	seed := NewStore(persist, zerolog.Nop())
	seed.SetSession(testSession("acc-1", "ref-1"))

	mux := http.NewServeMux()
	mux.HandleFunc(routes.AuthMe, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer acc-1", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(sdk.User{ID: "u1", DisplayName: "Ada", Credits: 7})
	})
	m := newManager(t, mux, persist)

	state := m.Initialize(context.Background())
	assert.True(t, state.Authenticated)
	require.NotNil(t, state.User)
	assert.Equal(t, "Ada", state.User.DisplayName)
}

func TestInitializeRejectedSessionClears(t *testing.T) {
	persist := storage.NewMemStore()
	seed := NewStore(persist, zerolog.Nop())
	seed.SetSession(testSession("acc-1", "ref-1"))

	mux := http.NewServeMux()
	mux.HandleFunc(routes.AuthMe, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"code":"unauthorized","message":"No"}`))
	})
	mux.HandleFunc(routes.AuthRefresh, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"code":"refresh_invalid","message":"Dead"}`))
	})
	m := newManager(t, mux, persist)

	state := m.Initialize(context.Background())
	assert.False(t, state.Authenticated)
	_, ok, _ := persist.Get(storage.KeySession)
	assert.False(t, ok, "rejected session is removed from storage")
}

func TestLoginStoresSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(routes.AuthLogin, func(w http.ResponseWriter, r *http.Request) {
		var req sdk.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "a@b.c", req.Email)
		_ = json.NewEncoder(w).Encode(testSession("acc-1", "ref-1"))
	})
	persist := storage.NewMemStore()
	m := newManager(t, mux, persist)

	require.NoError(t, m.Login(context.Background(), "a@b.c", "hunter2"))
	snap := m.Store().Snapshot()
	assert.True(t, snap.Authenticated)
	assert.Equal(t, "acc-1", snap.AccessToken)
	_, ok, _ := persist.Get(storage.KeySession)
	assert.True(t, ok)
}

func TestLoginFailureLeavesStateUntouched(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(routes.AuthLogin, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"code":"invalid_credentials","message":"Wrong email or password"}`))
	})
	m := newManager(t, mux, storage.NewMemStore())

	err := m.Login(context.Background(), "a@b.c", "nope")
	require.Error(t, err)
	assert.Equal(t, "Wrong email or password", sdk.ErrorMessage(err))
	assert.False(t, m.Store().Snapshot().Authenticated)
}

func TestLogoutClearsEvenWhenRevokeFails(t *testing.T) {
	var revokeCalled bool
	mux := http.NewServeMux()
	mux.HandleFunc(routes.AuthLogout, func(w http.ResponseWriter, r *http.Request) {
		revokeCalled = true
		w.WriteHeader(http.StatusInternalServerError)
	})
	persist := storage.NewMemStore()
	seed := NewStore(persist, zerolog.Nop())
	seed.SetSession(testSession("acc-1", "ref-1"))
	m := newManager(t, mux, persist)

	m.Logout(context.Background())
	assert.True(t, revokeCalled)
	assert.False(t, m.Store().Snapshot().Authenticated)
}

func TestRefreshBalanceUpdatesCredits(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(routes.BillingBalance, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(sdk.Balance{CreditsBalance: 42})
	})
	persist := storage.NewMemStore()
	seed := NewStore(persist, zerolog.Nop())
	seed.SetSession(testSession("acc-1", "ref-1"))
	m := newManager(t, mux, persist)

	require.NoError(t, m.RefreshBalance(context.Background()))
	assert.Equal(t, int64(42), m.Store().Snapshot().User.Credits)
}
