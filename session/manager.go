package session

import (
	"context"

	"github.com/rs/zerolog"

	sdk "github.com/fitroom/fitroom-go"
)

// Manager layers the session lifecycle over the API client: it is the
// only writer of the session outside the pipeline's refresh path. Errors
// returned here are regular SDK errors; sdk.ErrorMessage converts them to
// user-displayable text.
type Manager struct {
	store  *Store
	client *sdk.Client
	logger zerolog.Logger
}

// NewManager wires the manager to a store and client. The client must
// have been built with the same store as its SessionBridge.
func NewManager(store *Store, client *sdk.Client, logger zerolog.Logger) *Manager {
	return &Manager{store: store, client: client, logger: logger}
}

// Store exposes the underlying state container for subscribers.
func (m *Manager) Store() *Store { return m.store }

// Initialize validates a hydrated session against the server at startup.
// Without tokens it signs out immediately; with tokens it fetches the
// profile and clears the session if the server rejects it. The returned
// state reflects the outcome.
func (m *Manager) Initialize(ctx context.Context) State {
	snap := m.store.Snapshot()
	if snap.AccessToken == "" || snap.RefreshToken == "" {
		m.store.ClearSession()
		return m.store.Snapshot()
	}
	user, err := m.client.Auth.Me(ctx)
	if err != nil {
		m.logger.Info().Err(err).Msg("stored session rejected, signing out")
		m.store.ClearSession()
		return m.store.Snapshot()
	}
	m.store.SetUser(user)
	return m.store.Snapshot()
}

// Register creates an account and stores the resulting session.
func (m *Manager) Register(ctx context.Context, email, password, displayName string) error {
	sess, err := m.client.Auth.Register(ctx, sdk.RegisterRequest{
		Email:       email,
		Password:    password,
		DisplayName: displayName,
	})
	if err != nil {
		return err
	}
	m.store.SetSession(sess)
	return nil
}

// Login signs in with credentials and stores the resulting session.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	sess, err := m.client.Auth.Login(ctx, sdk.LoginRequest{Email: email, Password: password})
	if err != nil {
		return err
	}
	m.store.SetSession(sess)
	return nil
}

// LoginGoogle signs in with a Google ID token and stores the session.
func (m *Manager) LoginGoogle(ctx context.Context, idToken string) error {
	sess, err := m.client.Auth.LoginGoogle(ctx, idToken)
	if err != nil {
		return err
	}
	m.store.SetSession(sess)
	return nil
}

// Logout revokes the refresh token server-side (best effort) and clears
// the local session unconditionally.
func (m *Manager) Logout(ctx context.Context) {
	if refresh := m.store.RefreshToken(); refresh != "" {
		if err := m.client.Auth.Logout(ctx, refresh); err != nil {
			m.logger.Debug().Err(err).Msg("logout revoke failed")
		}
	}
	m.store.ClearSession()
}

// RefreshProfile re-fetches the profile for the signed-in user.
func (m *Manager) RefreshProfile(ctx context.Context) error {
	user, err := m.client.Auth.Me(ctx)
	if err != nil {
		return err
	}
	m.store.SetUser(user)
	return nil
}

// RefreshBalance re-fetches the credit balance, e.g. after a payment
// settles.
func (m *Manager) RefreshBalance(ctx context.Context) error {
	balance, err := m.client.Billing.Balance(ctx)
	if err != nil {
		return err
	}
	m.store.SetCredits(balance.CreditsBalance)
	return nil
}
