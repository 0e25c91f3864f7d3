package donation

import (
	"errors"
	"fmt"
)

// ErrAuthentication is returned when an inbound webhook fails signature
// verification. Nothing about the payload may be trusted after it.
var ErrAuthentication = errors.New("webhook signature verification failed")

// ValidationError is a user-correctable input problem.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ConfigurationError marks a required setting that is absent from the
// deployment. It is never retried.
type ConfigurationError struct {
	Setting string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s is not configured", e.Setting)
}

// UpstreamError wraps a rejection or transport failure from an external
// service such as the payment processor or the email sender.
type UpstreamError struct {
	Service string
	Err     error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Service, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// PersistenceError wraps a database failure. Webhook handlers surface it so
// the processor redelivers the event.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
