package sdk

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitroom/fitroom-go/headers"
	"github.com/fitroom/fitroom-go/routes"
)

func TestNewClientDefaults(t *testing.T) {
	client, err := NewClient(Config{})
	require.NoError(t, err)
	assert.Equal(t, defaultBaseURL, client.baseURL)
	assert.Equal(t, AccessRefreshSkew, client.refreshSkew)
	assert.NotNil(t, client.Auth)
	assert.NotNil(t, client.Social)
	assert.NotNil(t, client.Billing)
	assert.NotNil(t, client.TryOn)
}

func TestNewClientBaseURLValidation(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		wantErr bool
		want    string
	}{
		{"trailing slash trimmed", "https://api.example.com/api/v1/", false, "https://api.example.com/api/v1"},
		{"whitespace trimmed", "  https://api.example.com  ", false, "https://api.example.com"},
		{"missing scheme", "api.example.com", true, ""},
		{"scheme only", "https://", true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(Config{BaseURL: tt.baseURL})
			if tt.wantErr {
				var cfgErr ConfigError
				require.ErrorAs(t, err, &cfgErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, client.baseURL)
		})
	}
}

func TestRequestCarriesIdentificationHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		_ = json.NewEncoder(w).Encode(User{ID: "u1"})
	}))
	defer srv.Close()

	client, err := NewClient(Config{BaseURL: srv.URL, Session: &StaticTokens{Access: testJWT(t, time.Hour)}})
	require.NoError(t, err)
	_, err = client.Auth.Me(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, got.Get(headers.RequestID))
	assert.Equal(t, "go/"+Version, got.Get(headers.Client))
	assert.Equal(t, defaultUserAgent, got.Get("User-Agent"))
	assert.Contains(t, got.Get("Authorization"), "Bearer ")
}

func TestSendAndDecodeToleratesEmptyAndNullBodies(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(routes.SocialLookDraftMe, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			_, _ = w.Write([]byte("null"))
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		}
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client, err := NewClient(Config{BaseURL: srv.URL, Session: &StaticTokens{Access: testJWT(t, time.Hour)}})
	require.NoError(t, err)

	draft, err := client.Social.LookDraft(context.Background())
	require.NoError(t, err)
	assert.Nil(t, draft, "a null body is a missing draft, not an error")

	require.NoError(t, client.Social.DeleteLookDraft(context.Background()))
}

func TestMissingDraftIs404Tolerant(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"code":"not_found","message":"No draft"}`))
	}))
	defer srv.Close()

	client, err := NewClient(Config{BaseURL: srv.URL, Session: &StaticTokens{Access: testJWT(t, time.Hour)}})
	require.NoError(t, err)

	draft, err := client.Social.LookDraft(context.Background())
	require.NoError(t, err)
	assert.Nil(t, draft)
}
