package donation

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mariphil/foundation-site/internal/db"
)

// Donation is the durable record of one confirmed payment.
type Donation struct {
	ID                       string          `json:"id"`
	DonorName                string          `json:"donorName"`
	DonorEmail               string          `json:"donorEmail"`
	Amount                   decimal.Decimal `json:"amount"`
	Currency                 string          `json:"currency"`
	ExternalPaymentReference string          `json:"externalPaymentReference"`
	CheckoutSessionID        string          `json:"checkoutSessionId,omitempty"`
	Recurring                bool            `json:"recurring"`
	Message                  *string         `json:"message"`
	CreatedAt                time.Time       `json:"createdAt"`
}

// TypeLabel is the human readable donation type used on receipts.
func (d Donation) TypeLabel() string {
	if d.Recurring {
		return "Monthly Recurring"
	}
	return "One-time"
}

// InsertParams maps the record onto the insert query.
func (d Donation) InsertParams(sourceEventID string) db.InsertDonationParams {
	p := db.InsertDonationParams{
		ID:                       d.ID,
		DonorName:                d.DonorName,
		DonorEmail:               d.DonorEmail,
		Amount:                   d.Amount,
		Currency:                 d.Currency,
		ExternalPaymentReference: d.ExternalPaymentReference,
		CheckoutSessionID:        sql.NullString{String: d.CheckoutSessionID, Valid: d.CheckoutSessionID != ""},
		Recurring:                d.Recurring,
		SourceEventID:            sourceEventID,
		CreatedAt:                d.CreatedAt,
	}
	if d.Message != nil {
		p.Message = sql.NullString{String: *d.Message, Valid: true}
	}
	return p
}

// FromRecord converts a stored row.
func FromRecord(r db.Donation) Donation {
	d := Donation{
		ID:                       r.ID,
		DonorName:                r.DonorName,
		DonorEmail:               r.DonorEmail,
		Amount:                   r.Amount.Round(2),
		Currency:                 r.Currency,
		ExternalPaymentReference: r.ExternalPaymentReference,
		CheckoutSessionID:        r.CheckoutSessionID.String,
		Recurring:                r.Recurring,
		CreatedAt:                r.CreatedAt,
	}
	if r.Message.Valid {
		msg := r.Message.String
		d.Message = &msg
	}
	return d
}

// OptionalMessage turns an empty message into nil.
func OptionalMessage(msg string) *string {
	if msg == "" {
		return nil
	}
	return &msg
}
