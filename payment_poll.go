package sdk

import (
	"context"
	"time"
)

const (
	defaultPollInterval    = 2 * time.Second
	defaultPollMaxAttempts = 30
)

// PaymentOutcome is the three-valued result of awaiting a payment.
type PaymentOutcome int

const (
	// PaymentOutcomePaid means the payment settled successfully.
	PaymentOutcomePaid PaymentOutcome = iota
	// PaymentOutcomeFailed means the payment reached a terminal state other
	// than paid (failed, expired, canceled).
	PaymentOutcomeFailed
	// PaymentOutcomeInconclusive means the attempt budget ran out before a
	// terminal state appeared. The payment may still settle; callers must
	// not treat this as a failure.
	PaymentOutcomeInconclusive
)

// PaymentResult pairs the outcome with the last observed status.
type PaymentResult struct {
	Outcome PaymentOutcome
	// Status is the last status string seen; empty when no poll succeeded.
	Status string
}

// PollOptions tune the payment polling loop. Zero values select the
// defaults (2s interval, 30 attempts).
type PollOptions struct {
	Interval    time.Duration
	MaxAttempts int
}

func (o PollOptions) normalized() PollOptions {
	if o.Interval <= 0 {
		o.Interval = defaultPollInterval
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = defaultPollMaxAttempts
	}
	return o
}

// AwaitPayment polls the payment status endpoint at a fixed interval until
// a terminal state or the attempt budget is exhausted. Individual poll
// errors are tolerated; the attempt still counts against the budget.
//
// Example:
//
//	checkout, err := client.Billing.CreateCheckout(ctx, req)
//	// direct the user to checkout.RedirectURL, then:
//	result, err := client.Billing.AwaitPayment(ctx, checkout.PaymentID, sdk.PollOptions{})
//	if err == nil && result.Outcome == sdk.PaymentOutcomePaid {
//	    balance, _ = client.Billing.Balance(ctx)
//	}
func (c *BillingClient) AwaitPayment(ctx context.Context, paymentID string, opts PollOptions) (PaymentResult, error) {
	if err := c.ensureInitialized(); err != nil {
		return PaymentResult{}, err
	}
	opts = opts.normalized()

	timer := time.NewTimer(opts.Interval)
	defer timer.Stop()

	last := ""
	for attempt := 0; attempt < opts.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return PaymentResult{Outcome: PaymentOutcomeInconclusive, Status: last}, ctx.Err()
		case <-timer.C:
		}
		timer.Reset(opts.Interval)

		status, err := c.PaymentStatus(ctx, paymentID)
		if err != nil {
			c.client.logger.Debug().Err(err).Str("payment_id", paymentID).Msg("payment status poll failed")
			continue
		}
		last = status.Status
		if !status.Terminal() {
			continue
		}
		if status.Paid() {
			return PaymentResult{Outcome: PaymentOutcomePaid, Status: status.Status}, nil
		}
		return PaymentResult{Outcome: PaymentOutcomeFailed, Status: status.Status}, nil
	}
	return PaymentResult{Outcome: PaymentOutcomeInconclusive, Status: last}, nil
}
