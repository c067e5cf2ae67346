package sdk

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitroom/fitroom-go/routes"
)

func newTryOnClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := NewClient(Config{BaseURL: srv.URL, Session: &StaticTokens{Access: testJWT(t, time.Hour)}})
	require.NoError(t, err)
	return client
}

func TestAnalyzeSubmitsMultipartForm(t *testing.T) {
	client := newTryOnClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, routes.TryOnAnalyze, r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Denim jacket", r.FormValue("clothingName"))
		assert.Equal(t, "m", r.FormValue("clothingSize"))
		assert.Equal(t, "182", r.FormValue("heightCm"))
		assert.Equal(t, "male", r.FormValue("gender"))
		_, _, err := r.FormFile("personImage")
		assert.NoError(t, err)
		_, _, err = r.FormFile("clothingImage")
		assert.NoError(t, err)
		_ = json.NewEncoder(w).Encode(TryOnResult{
			JobID:            "job-1",
			ResultMimeType:   "image/png",
			CreditsSpent:     1,
			RemainingCredits: 9,
		})
	}))

	result, err := client.TryOn.Analyze(context.Background(), TryOnRequest{
		PersonImage:   strings.NewReader("person-bytes"),
		ClothingImage: strings.NewReader("clothing-bytes"),
		ClothingName:  "Denim jacket",
		ClothingSize:  "m",
		HeightCm:      182,
		WeightKg:      80,
		Gender:        GenderMale,
		AgeYears:      30,
	})
	require.NoError(t, err)
	assert.Equal(t, "job-1", result.JobID)
	assert.Equal(t, int64(9), result.RemainingCredits)
}

func TestAnalyzeValidatesInputs(t *testing.T) {
	client := newTryOnClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))

	_, err := client.TryOn.Analyze(context.Background(), TryOnRequest{ClothingName: "Coat"})
	var cfgErr ConfigError
	require.ErrorAs(t, err, &cfgErr)

	_, err = client.TryOn.Analyze(context.Background(), TryOnRequest{
		PersonImage:   strings.NewReader("p"),
		ClothingImage: strings.NewReader("c"),
	})
	require.ErrorAs(t, err, &cfgErr)
}

func TestAnalyzeOutOfCreditsSurfacesAs402(t *testing.T) {
	client := newTryOnClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"code":"insufficient_credits","message":"Not enough credits"}`))
	}))

	_, err := client.TryOn.Analyze(context.Background(), TryOnRequest{
		PersonImage:   strings.NewReader("p"),
		ClothingImage: strings.NewReader("c"),
		ClothingName:  "Coat",
	})
	require.Error(t, err)
	assert.True(t, IsPaymentRequired(err))
	assert.Equal(t, "Not enough credits", ErrorMessage(err))
}

func TestStyleHints(t *testing.T) {
	client := newTryOnClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, routes.TryOnStyleHints, r.URL.Path)
		var payload struct {
			JobID string `json:"jobId"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "job-1", payload.JobID)
		_, _ = w.Write([]byte(`{"hints":[{"style":"casual","reason":"Relaxed cut"}]}`))
	}))

	hints, err := client.TryOn.StyleHints(context.Background(), "job-1")
	require.NoError(t, err)
	require.Len(t, hints, 1)
	assert.Equal(t, "casual", hints[0].Style)
}
