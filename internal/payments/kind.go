package payments

import "github.com/stripe/stripe-go/v82"

// EventKind is the closed set of processor events the reconciler distinguishes.
type EventKind int

const (
	KindOther EventKind = iota
	KindCheckoutCompleted
	KindInvoicePaid
	KindInvoiceFailed
)

func (k EventKind) String() string {
	switch k {
	case KindCheckoutCompleted:
		return "checkout_completed"
	case KindInvoicePaid:
		return "invoice_paid"
	case KindInvoiceFailed:
		return "invoice_failed"
	default:
		return "other"
	}
}

// KindOf classifies a processor event type.
func KindOf(t stripe.EventType) EventKind {
	switch t {
	case stripe.EventTypeCheckoutSessionCompleted:
		return KindCheckoutCompleted
	case stripe.EventTypeInvoicePaymentSucceeded:
		return KindInvoicePaid
	case stripe.EventTypeInvoicePaymentFailed:
		return KindInvoiceFailed
	default:
		return KindOther
	}
}
