package payments

import (
	"context"
	"net/http"
	"time"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
)

// SessionCreator creates hosted checkout sessions at the payment processor.
type SessionCreator interface {
	CreateSession(ctx context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

// StripeSessions creates checkout sessions with an explicitly keyed client
// instead of the package-level stripe.Key.
type StripeSessions struct {
	client session.Client
}

// NewStripeSessions returns a client whose HTTP calls are bounded by timeout.
func NewStripeSessions(secretKey string, timeout time.Duration) *StripeSessions {
	return newStripeSessions(secretKey, &stripe.BackendConfig{
		HTTPClient: &http.Client{Timeout: timeout},
	})
}

func newStripeSessions(secretKey string, cfg *stripe.BackendConfig) *StripeSessions {
	backend := stripe.GetBackendWithConfig(stripe.APIBackend, cfg)
	return &StripeSessions{client: session.Client{B: backend, Key: secretKey}}
}

// CreateSession sends params with ctx attached, so cancelling the caller
// aborts the outbound request.
func (s *StripeSessions) CreateSession(ctx context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	params.Context = ctx
	return s.client.New(params)
}
