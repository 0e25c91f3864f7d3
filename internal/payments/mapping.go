package payments

import (
	"time"

	"github.com/stripe/stripe-go/v82"

	"github.com/mariphil/foundation-site/internal/domain/donation"
)

// DonationFromCheckoutSession builds the donation record for a completed
// session. It never fails: the payment already happened, so missing metadata
// falls back to an anonymous one-time donation.
func DonationFromCheckoutSession(cs *stripe.CheckoutSession, homeCurrency string, now time.Time) donation.Donation {
	meta := donation.MetadataFromMap(cs.Metadata)
	email := meta.DonorEmail
	if email == "" && cs.CustomerDetails != nil {
		email = cs.CustomerDetails.Email
	}

	return donation.Donation{
		DonorName:                meta.DonorName,
		DonorEmail:               email,
		Amount:                   donation.FromMinorUnits(cs.AmountTotal),
		Currency:                 donation.NormalizeCurrency(string(cs.Currency), homeCurrency),
		ExternalPaymentReference: SessionReference(cs),
		CheckoutSessionID:        cs.ID,
		Recurring:                meta.Recurring,
		Message:                  donation.OptionalMessage(meta.Message),
		CreatedAt:                now.UTC(),
	}
}

// SessionReference picks the processor identifier a donation is keyed on:
// the payment intent, else the subscription, else the session itself.
func SessionReference(cs *stripe.CheckoutSession) string {
	if cs.PaymentIntent != nil && cs.PaymentIntent.ID != "" {
		return cs.PaymentIntent.ID
	}
	if cs.Subscription != nil && cs.Subscription.ID != "" {
		return cs.Subscription.ID
	}
	return cs.ID
}

// DonationFromRenewal builds a donation for a paid subscription renewal
// invoice, keyed on the invoice id.
func DonationFromRenewal(inv *stripe.Invoice, homeCurrency string, now time.Time) donation.Donation {
	var bag map[string]string
	if inv.Parent != nil && inv.Parent.SubscriptionDetails != nil {
		bag = inv.Parent.SubscriptionDetails.Metadata
	}
	meta := donation.MetadataFromMap(bag)
	if meta.DonorName == donation.AnonymousDonor && inv.CustomerName != "" {
		meta.DonorName = inv.CustomerName
	}
	if meta.DonorEmail == "" {
		meta.DonorEmail = inv.CustomerEmail
	}

	return donation.Donation{
		DonorName:                meta.DonorName,
		DonorEmail:               meta.DonorEmail,
		Amount:                   donation.FromMinorUnits(inv.AmountPaid),
		Currency:                 donation.NormalizeCurrency(string(inv.Currency), homeCurrency),
		ExternalPaymentReference: inv.ID,
		Recurring:                true,
		Message:                  donation.OptionalMessage(meta.Message),
		CreatedAt:                now.UTC(),
	}
}
