package payments

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/mariphil/foundation-site/internal/db"
	"github.com/mariphil/foundation-site/internal/domain/donation"
	"github.com/mariphil/foundation-site/internal/events"
	"github.com/mariphil/foundation-site/internal/mailer"
	"github.com/mariphil/foundation-site/internal/store"
	"github.com/mariphil/foundation-site/internal/utils"
)

const billingReasonSubscriptionCycle = "subscription_cycle"

// DonationStore is the persistence the reconciler needs.
type DonationStore interface {
	InsertDonation(ctx context.Context, arg db.InsertDonationParams) (db.Donation, error)
}

// Ack describes how an authenticated event was dispatched.
type Ack struct {
	EventID    string
	Kind       EventKind
	DonationID string
	Duplicate  bool
}

type ReconcilerConfig struct {
	WebhookSecret  string
	HomeCurrency   string
	RecordRenewals bool
}

// Reconciler records donations from signed processor webhooks.
type Reconciler struct {
	cfg    ReconcilerConfig
	store  DonationStore
	mailer mailer.Sender
	events events.Publisher
	now    func() time.Time
}

func NewReconciler(cfg ReconcilerConfig, st DonationStore, sender mailer.Sender, pub events.Publisher) *Reconciler {
	if sender == nil {
		sender = mailer.LogSender{}
	}
	if pub == nil {
		pub = events.Noop{}
	}
	return &Reconciler{
		cfg:    cfg,
		store:  st,
		mailer: sender,
		events: pub,
		now:    time.Now,
	}
}

// HandleWebhook authenticates rawBody against signatureHeader and dispatches
// the event. Only persistence failures are returned for a checkout that
// verified; notification failures are logged and swallowed.
func (r *Reconciler) HandleWebhook(ctx context.Context, rawBody []byte, signatureHeader string) (Ack, error) {
	if r.cfg.WebhookSecret == "" {
		return Ack{}, &donation.ConfigurationError{Setting: "STRIPE_WEBHOOK_SECRET"}
	}

	event, err := webhook.ConstructEventWithOptions(rawBody, signatureHeader, r.cfg.WebhookSecret, webhook.ConstructEventOptions{
		Tolerance:                webhook.DefaultTolerance,
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return Ack{}, fmt.Errorf("%w: %v", donation.ErrAuthentication, err)
	}

	ack := Ack{EventID: event.ID, Kind: KindOf(event.Type)}
	logger := slog.With(slog.String("event_id", event.ID), slog.String("event_type", string(event.Type)))

	switch ack.Kind {
	case KindCheckoutCompleted:
		var cs stripe.CheckoutSession
		if err := decodeObject(event, &cs); err != nil {
			return ack, err
		}
		d := DonationFromCheckoutSession(&cs, r.cfg.HomeCurrency, r.now())
		return r.record(ctx, logger, ack, d)

	case KindInvoicePaid:
		var inv stripe.Invoice
		if err := decodeObject(event, &inv); err != nil {
			return ack, err
		}
		logger.InfoContext(ctx, "Recurring payment succeeded",
			slog.String("invoice_id", inv.ID),
			slog.String("billing_reason", string(inv.BillingReason)),
		)
		if r.cfg.RecordRenewals && string(inv.BillingReason) == billingReasonSubscriptionCycle {
			d := DonationFromRenewal(&inv, r.cfg.HomeCurrency, r.now())
			return r.record(ctx, logger, ack, d)
		}
		return ack, nil

	case KindInvoiceFailed:
		var inv stripe.Invoice
		if err := decodeObject(event, &inv); err != nil {
			return ack, err
		}
		logger.WarnContext(ctx, "Recurring payment failed", slog.String("invoice_id", inv.ID))
		return ack, nil

	default:
		logger.InfoContext(ctx, "Unhandled event type")
		return ack, nil
	}
}

func decodeObject(event stripe.Event, v any) error {
	if event.Data == nil || len(event.Data.Raw) == 0 {
		return errors.New("event has no data object")
	}
	if err := json.Unmarshal(event.Data.Raw, v); err != nil {
		return fmt.Errorf("decode %s data object: %w", event.Type, err)
	}
	return nil
}

// record stores d at most once per external reference, then notifies.
func (r *Reconciler) record(ctx context.Context, logger *slog.Logger, ack Ack, d donation.Donation) (Ack, error) {
	d.ID = utils.NewID(utils.PrefixDonation)

	row, err := r.store.InsertDonation(ctx, d.InsertParams(ack.EventID))
	switch {
	case errors.Is(err, sql.ErrNoRows) || store.IsUniqueViolation(err):
		ack.Duplicate = true
		logger.InfoContext(ctx, "Donation already recorded", slog.String("reference", d.ExternalPaymentReference))
		return ack, nil
	case err != nil:
		return ack, &donation.PersistenceError{Op: "insert donation", Err: err}
	}

	stored := donation.FromRecord(row)
	ack.DonationID = stored.ID
	logger.InfoContext(ctx, "Donation recorded",
		slog.String("donation_id", stored.ID),
		slog.String("reference", stored.ExternalPaymentReference),
		slog.String("amount", stored.Amount.StringFixed(2)),
		slog.String("currency", stored.Currency),
		slog.Bool("recurring", stored.Recurring),
	)

	// The record is durable from here on. Neither step below may fail the event.
	notifyCtx := context.WithoutCancel(ctx)
	r.sendReceipt(notifyCtx, logger, stored)
	if err := r.events.PublishDonationRecorded(notifyCtx, events.NewDonationRecorded(stored)); err != nil {
		logger.WarnContext(ctx, "Failed to publish donation event",
			slog.String("donation_id", stored.ID),
			slog.String("error", err.Error()),
		)
	}
	return ack, nil
}

func (r *Reconciler) sendReceipt(ctx context.Context, logger *slog.Logger, d donation.Donation) {
	if d.DonorEmail == "" {
		return
	}
	html, err := mailer.Receipt(d)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to render receipt", slog.String("error", err.Error()))
		return
	}
	if err := r.mailer.Send(ctx, d.DonorEmail, mailer.ReceiptSubject, html); err != nil {
		logger.WarnContext(ctx, "Failed to send thank you email",
			slog.String("donation_id", d.ID),
			slog.String("error", err.Error()),
		)
	}
}
