package payments

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/stripe/stripe-go/v82"

	"github.com/mariphil/foundation-site/internal/domain/donation"
)

const (
	productMonthly  = "Monthly Donation"
	productOneTime  = "One-time Donation"
	baseDescription = "Donation to Mariphil Foundation Inc."

	// SessionIDPlaceholder is substituted by the processor in the success URL.
	SessionIDPlaceholder = "{CHECKOUT_SESSION_ID}"
)

// CheckoutResult is what the donation form needs to redirect the donor.
type CheckoutResult struct {
	URL       string `json:"url"`
	SessionID string `json:"-"`
}

// Initiator turns a donation intent into a hosted checkout session. It never
// records a donation; that only happens once the processor confirms payment.
type Initiator struct {
	sessions SessionCreator
	baseURL  string
	currency string

	// err is a configuration failure detected at construction. Every call
	// returns it without contacting the processor.
	err error
}

func NewInitiator(sessions SessionCreator, publicBaseURL, homeCurrency string) *Initiator {
	return &Initiator{
		sessions: sessions,
		baseURL:  strings.TrimRight(publicBaseURL, "/"),
		currency: strings.ToUpper(homeCurrency),
	}
}

// NewFailedInitiator returns an initiator that rejects every request with err.
func NewFailedInitiator(err error) *Initiator {
	return &Initiator{err: err}
}

// Err reports the memoized configuration failure, if any.
func (i *Initiator) Err() error { return i.err }

func (i *Initiator) CreateCheckoutSession(ctx context.Context, intent donation.Intent) (CheckoutResult, error) {
	if i.err != nil {
		return CheckoutResult{}, i.err
	}

	intent.Normalize()
	if err := intent.Validate(); err != nil {
		return CheckoutResult{}, err
	}

	params := SessionParams(intent, i.baseURL, i.currency)
	cs, err := i.sessions.CreateSession(ctx, params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) {
			slog.ErrorContext(ctx, "Stripe rejected checkout session",
				slog.String("type", string(stripeErr.Type)),
				slog.String("code", string(stripeErr.Code)),
				slog.String("error", stripeErr.Msg),
			)
		} else {
			slog.ErrorContext(ctx, "Failed to create checkout session", slog.String("error", err.Error()))
		}
		return CheckoutResult{}, &donation.UpstreamError{Service: "stripe", Err: err}
	}
	if cs == nil || cs.URL == "" {
		return CheckoutResult{}, &donation.UpstreamError{Service: "stripe", Err: errors.New("checkout session has no redirect url")}
	}

	slog.InfoContext(ctx, "Checkout session created",
		slog.String("session_id", cs.ID),
		slog.Bool("recurring", intent.Recurring),
	)
	return CheckoutResult{URL: cs.URL, SessionID: cs.ID}, nil
}

// SessionParams builds the processor request for a validated intent.
func SessionParams(intent donation.Intent, baseURL, currency string) *stripe.CheckoutSessionParams {
	unitAmount := donation.ToMinorUnits(intent.Amount)
	meta := donation.MetadataFor(intent).ToMap()

	name := productOneTime
	mode := stripe.CheckoutSessionModePayment
	if intent.Recurring {
		name = productMonthly
		mode = stripe.CheckoutSessionModeSubscription
	}
	description := baseDescription
	if intent.Message != "" {
		description += " - " + intent.Message
	}

	priceData := &stripe.CheckoutSessionLineItemPriceDataParams{
		Currency: stripe.String(strings.ToLower(currency)),
		ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name:        stripe.String(name),
			Description: stripe.String(description),
		},
		UnitAmount: stripe.Int64(unitAmount),
	}
	if intent.Recurring {
		priceData.Recurring = &stripe.CheckoutSessionLineItemPriceDataRecurringParams{
			Interval: stripe.String(string(stripe.PriceRecurringIntervalMonth)),
		}
	}

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: priceData,
				Quantity:  stripe.Int64(1),
			},
		},
		Mode:          stripe.String(string(mode)),
		SuccessURL:    stripe.String(baseURL + "/donation/thank-you?session_id=" + SessionIDPlaceholder),
		CancelURL:     stripe.String(baseURL + "/donate"),
		CustomerEmail: stripe.String(intent.DonorEmail),
		Metadata:      meta,
	}
	if intent.Recurring {
		// Renewal invoices only carry subscription metadata.
		params.SubscriptionData = &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: meta,
		}
	}
	return params
}
