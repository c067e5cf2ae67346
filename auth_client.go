package sdk

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/fitroom/fitroom-go/routes"
)

// AuthClient issues credential and account requests against the FitRoom API.
//
// None of these endpoints are subject to the pipeline's refresh logic: a
// 401 here is a definitive answer about the submitted credentials and is
// propagated directly.
type AuthClient struct {
	client *Client
}

// RegisterRequest contains the fields to create an account.
type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

// LoginRequest encapsulates email/password inputs for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// GoogleLoginRequest wraps a verified Google ID token.
type GoogleLoginRequest struct {
	IDToken string `json:"idToken"`
}

// LogoutRequest carries the refresh token to revoke.
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// ensureInitialized returns an error if the client is not properly initialized.
func (a *AuthClient) ensureInitialized() error {
	if a == nil || a.client == nil {
		return fmt.Errorf("sdk: auth client not initialized")
	}
	return nil
}

// Register creates an account and returns the new session. The caller (or
// a session.Manager) is responsible for storing it.
func (a *AuthClient) Register(ctx context.Context, req RegisterRequest) (Session, error) {
	if err := a.ensureInitialized(); err != nil {
		return Session{}, err
	}
	if strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Password) == "" {
		return Session{}, ConfigError{Reason: "email and password required"}
	}
	var sess Session
	if err := a.client.sendAndDecode(ctx, http.MethodPost, routes.AuthRegister, req, &sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

// Login exchanges user credentials for a session.
func (a *AuthClient) Login(ctx context.Context, req LoginRequest) (Session, error) {
	if err := a.ensureInitialized(); err != nil {
		return Session{}, err
	}
	if strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Password) == "" {
		return Session{}, ConfigError{Reason: "email and password required"}
	}
	var sess Session
	if err := a.client.sendAndDecode(ctx, http.MethodPost, routes.AuthLogin, req, &sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

// LoginGoogle exchanges a Google ID token for a session.
func (a *AuthClient) LoginGoogle(ctx context.Context, idToken string) (Session, error) {
	if err := a.ensureInitialized(); err != nil {
		return Session{}, err
	}
	if strings.TrimSpace(idToken) == "" {
		return Session{}, ConfigError{Reason: "id token required"}
	}
	var sess Session
	if err := a.client.sendAndDecode(ctx, http.MethodPost, routes.AuthGoogle, GoogleLoginRequest{IDToken: idToken}, &sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

// Logout revokes the refresh token server-side. Clearing local session
// state is the owner's job regardless of the outcome.
func (a *AuthClient) Logout(ctx context.Context, refreshToken string) error {
	if err := a.ensureInitialized(); err != nil {
		return err
	}
	if strings.TrimSpace(refreshToken) == "" {
		return ConfigError{Reason: "refresh token required"}
	}
	return a.client.sendAndDecode(ctx, http.MethodPost, routes.AuthLogout, LogoutRequest{RefreshToken: refreshToken}, nil)
}

// Me returns the current authenticated user's profile.
func (a *AuthClient) Me(ctx context.Context) (User, error) {
	if err := a.ensureInitialized(); err != nil {
		return User{}, err
	}
	var user User
	if err := a.client.sendAndDecode(ctx, http.MethodGet, routes.AuthMe, nil, &user); err != nil {
		return User{}, err
	}
	return user, nil
}

// Refresh forces a token refresh through the shared flight and returns the
// new access token. Concurrent callers coalesce onto one physical refresh.
func (a *AuthClient) Refresh(ctx context.Context) (string, error) {
	if err := a.ensureInitialized(); err != nil {
		return "", err
	}
	return a.client.refreshAccessToken(ctx)
}
