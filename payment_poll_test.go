package sdk

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBillingPollClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := NewClient(Config{BaseURL: srv.URL, Session: &StaticTokens{Access: testJWT(t, time.Hour)}})
	require.NoError(t, err)
	return client
}

func TestAwaitPaymentSettlesOnPaid(t *testing.T) {
	var polls atomic.Int32
	client := newBillingPollClient(t, func(w http.ResponseWriter, r *http.Request) {
		status := "PENDING"
		if polls.Add(1) >= 5 {
			status = "PAID"
		}
		_ = json.NewEncoder(w).Encode(PaymentStatus{PaymentID: "pay-1", Status: status})
	})

	result, err := client.Billing.AwaitPayment(context.Background(), "pay-1", PollOptions{Interval: time.Millisecond})
	require.NoError(t, err)
	assert.Equal(t, PaymentOutcomePaid, result.Outcome)
	assert.Equal(t, "PAID", result.Status)
	assert.Equal(t, int32(5), polls.Load(), "polling stops at the first terminal state")
}

func TestAwaitPaymentTerminalFailureStates(t *testing.T) {
	for _, status := range []string{"FAILED", "EXPIRED", "CANCELED", "canceled"} {
		t.Run(status, func(t *testing.T) {
			client := newBillingPollClient(t, func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(PaymentStatus{PaymentID: "pay-1", Status: status})
			})
			result, err := client.Billing.AwaitPayment(context.Background(), "pay-1", PollOptions{Interval: time.Millisecond})
			require.NoError(t, err)
			assert.Equal(t, PaymentOutcomeFailed, result.Outcome)
		})
	}
}

func TestAwaitPaymentExhaustedBudgetIsInconclusive(t *testing.T) {
	var polls atomic.Int32
	client := newBillingPollClient(t, func(w http.ResponseWriter, r *http.Request) {
		polls.Add(1)
		_ = json.NewEncoder(w).Encode(PaymentStatus{PaymentID: "pay-1", Status: "PENDING"})
	})

	result, err := client.Billing.AwaitPayment(context.Background(), "pay-1", PollOptions{Interval: time.Millisecond, MaxAttempts: 7})
	require.NoError(t, err, "an exhausted budget is not an error")
	assert.Equal(t, PaymentOutcomeInconclusive, result.Outcome)
	assert.Equal(t, "PENDING", result.Status)
	assert.Equal(t, int32(7), polls.Load())
}

func TestAwaitPaymentToleratesPollErrors(t *testing.T) {
	var polls atomic.Int32
	client := newBillingPollClient(t, func(w http.ResponseWriter, r *http.Request) {
		if polls.Add(1) <= 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode(PaymentStatus{PaymentID: "pay-1", Status: "PAID"})
	})

	result, err := client.Billing.AwaitPayment(context.Background(), "pay-1", PollOptions{Interval: time.Millisecond})
	require.NoError(t, err)
	assert.Equal(t, PaymentOutcomePaid, result.Outcome)
	assert.Equal(t, int32(3), polls.Load(), "failed polls count against the budget but do not abort")
}

func TestAwaitPaymentCancelReturnsInconclusive(t *testing.T) {
	client := newBillingPollClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(PaymentStatus{PaymentID: "pay-1", Status: "PENDING"})
	})

	ctx, cancel := context.WithTimeout(context.Background(), 25*time.Millisecond)
	defer cancel()
	result, err := client.Billing.AwaitPayment(ctx, "pay-1", PollOptions{Interval: 5 * time.Millisecond})
	require.Error(t, err)
	assert.Equal(t, PaymentOutcomeInconclusive, result.Outcome, "abandoning the wait never declares failure")
}

func TestPaymentStatusTerminality(t *testing.T) {
	assert.True(t, PaymentStatus{Status: "paid"}.Terminal())
	assert.True(t, PaymentStatus{Status: "Paid"}.Paid())
	assert.False(t, PaymentStatus{Status: "PENDING"}.Terminal())
	assert.False(t, PaymentStatus{Status: "WAITING_FOR_CAPTURE"}.Terminal())
	assert.False(t, PaymentStatus{Status: ""}.Terminal())
}
