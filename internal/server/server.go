package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/netip"
	"sync"
	"time"

	"github.com/mariphil/foundation-site/internal/contact"
	"github.com/mariphil/foundation-site/internal/content"
	"github.com/mariphil/foundation-site/internal/db"
	"github.com/mariphil/foundation-site/internal/domain/donation"
	"github.com/mariphil/foundation-site/internal/domain/role"
	"github.com/mariphil/foundation-site/internal/payments"
	"github.com/mariphil/foundation-site/internal/ratelimit"
	"github.com/mariphil/foundation-site/internal/utils"
)

const (
	maxJSONBody    = 16 << 10
	maxWebhookBody = 64 << 10
)

// CheckoutCreator starts a hosted checkout for a donation intent.
type CheckoutCreator interface {
	CreateCheckoutSession(ctx context.Context, intent donation.Intent) (payments.CheckoutResult, error)
}

// WebhookReconciler authenticates and dispatches processor webhooks.
type WebhookReconciler interface {
	HandleWebhook(ctx context.Context, rawBody []byte, signatureHeader string) (payments.Ack, error)
}

// Deps are the collaborators the HTTP layer dispatches to.
type Deps struct {
	Queries       db.Querier
	Checkout      CheckoutCreator
	Webhooks      WebhookReconciler
	Content       *content.Service
	Contact       *contact.Service
	Limiter       *ratelimit.Limiter
	APISecret     string
	AdminTokenTTL time.Duration
	// TrustedProxies may set X-Forwarded-For; see utils.ClientIP.
	TrustedProxies []netip.Prefix
}

type server struct {
	query    db.Querier
	checkout CheckoutCreator
	webhooks WebhookReconciler
	content  *content.Service
	contact  *contact.Service
	limiter  *ratelimit.Limiter
	trusted  []netip.Prefix

	apiSecret []byte
	tokenTTL  time.Duration

	mu  sync.Mutex
	rl  map[string]*lockout
	now func() time.Time
}

const (
	maxLoginFails   = 5
	lockoutDuration = 15 * time.Minute
	maxLockouts     = 10_000
)

type lockout struct {
	fails int
	last  time.Time
	until time.Time
}

func NewServer(d Deps) *server {
	ttl := d.AdminTokenTTL
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &server{
		query:     d.Queries,
		checkout:  d.Checkout,
		webhooks:  d.Webhooks,
		content:   d.Content,
		contact:   d.Contact,
		limiter:   d.Limiter,
		trusted:   d.TrustedProxies,
		apiSecret: []byte(d.APISecret),
		tokenTTL:  ttl,
		rl:        make(map[string]*lockout),
		now:       time.Now,
	}
}

// Routes registers every endpoint and wraps the mux in request logging.
func (s *server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", s.HandleHealth)

	mux.Handle("POST /api/donations/create-checkout", s.limiter.Middleware("checkout", http.HandlerFunc(s.HandleCreateCheckout)))
	mux.HandleFunc("POST /api/webhooks/stripe", s.HandleStripeWebhook)
	mux.Handle("POST /api/contact", s.limiter.Middleware("contact", http.HandlerFunc(s.HandleContact)))

	mux.HandleFunc("GET /api/projects", s.HandleListProjects)
	mux.HandleFunc("GET /api/projects/all", s.HandleListAllProjects)
	mux.HandleFunc("GET /api/projects/{slug}", s.HandleGetProject)
	mux.HandleFunc("GET /api/news", s.HandleListNews)
	mux.HandleFunc("GET /api/news/all", s.HandleListAllNews)
	mux.HandleFunc("GET /api/news/{slug}", s.HandleGetNews)

	mux.Handle("POST /api/admin/login", s.limiter.Middleware("admin-login", http.HandlerFunc(s.HandleAdminLogin)))
	mux.Handle("GET /api/admin/donations", s.AdminAuthMiddleware(role.CanReadDonations, http.HandlerFunc(s.HandleAdminDonations)))
	mux.Handle("GET /api/admin/contact-messages", s.AdminAuthMiddleware(role.CanReadContactMessages, http.HandlerFunc(s.HandleAdminContactMessages)))

	return RequestLogger(mux)
}

// APIError is the error body of every endpoint.
type APIError struct {
	Error string `json:"error"`
}

// writeAPIError writes a standard API error response
func writeAPIError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(APIError{Error: message})
	if err != nil {
		slog.Error("Failed to write API error response", slog.String("error", err.Error()))
	}
}

func writeDecodeError(w http.ResponseWriter, err error) {
	if errors.Is(err, utils.ErrBodyTooLarge) {
		writeAPIError(w, http.StatusRequestEntityTooLarge, "Payload too large")
		return
	}
	writeAPIError(w, http.StatusBadRequest, "Invalid JSON body")
}

// HandleHealth GET /api/health
func (s *server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type checkoutResponse struct {
	URL string `json:"url"`
}

// HandleCreateCheckout POST /api/donations/create-checkout
func (s *server) HandleCreateCheckout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var in donation.Intent
	if err := utils.DecodeJSON(w, r, maxJSONBody, &in); err != nil {
		writeDecodeError(w, err)
		return
	}

	res, err := s.checkout.CreateCheckoutSession(ctx, in)
	if err != nil {
		var verr *donation.ValidationError
		var cerr *donation.ConfigurationError
		switch {
		case errors.As(err, &verr):
			slog.DebugContext(ctx, "Rejected donation intent", slog.String("field", verr.Field), slog.String("error", verr.Message))
			writeAPIError(w, http.StatusBadRequest, verr.Message)
		case errors.As(err, &cerr):
			slog.ErrorContext(ctx, "Checkout is not configured", slog.String("error", err.Error()))
			writeAPIError(w, http.StatusInternalServerError, "Failed to create checkout session")
		default:
			slog.ErrorContext(ctx, "Failed to create checkout session", slog.String("error", err.Error()))
			writeAPIError(w, http.StatusInternalServerError, "Failed to create checkout session")
		}
		return
	}

	utils.WriteJSON(w, http.StatusOK, checkoutResponse{URL: res.URL})
}

// HandleStripeWebhook POST /api/webhooks/stripe
// The body is passed on unparsed: the signature covers the exact bytes sent.
func (s *server) HandleStripeWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeAPIError(w, http.StatusRequestEntityTooLarge, "Payload too large")
			return
		}
		writeAPIError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	ack, err := s.webhooks.HandleWebhook(ctx, payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		switch {
		case errors.Is(err, donation.ErrAuthentication):
			slog.WarnContext(ctx, "Webhook signature verification failed",
				slog.String("remote_addr", utils.ClientIP(r, s.trusted)),
				slog.String("error", err.Error()),
			)
			writeAPIError(w, http.StatusBadRequest, "Invalid signature")
		default:
			slog.ErrorContext(ctx, "Webhook handler failed",
				slog.String("event_id", ack.EventID),
				slog.String("error", err.Error()),
			)
			writeAPIError(w, http.StatusInternalServerError, "Webhook handler failed")
		}
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]bool{"received": true})
}

type contactResponse struct {
	Message        string          `json:"message"`
	ContactMessage contact.Message `json:"contactMessage"`
}

// HandleContact POST /api/contact
func (s *server) HandleContact(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var in contact.Input
	if err := utils.DecodeJSON(w, r, maxJSONBody, &in); err != nil {
		writeDecodeError(w, err)
		return
	}

	msg, err := s.contact.Submit(ctx, in)
	if err != nil {
		var verr *donation.ValidationError
		if errors.As(err, &verr) {
			writeAPIError(w, http.StatusBadRequest, verr.Message)
			return
		}
		slog.ErrorContext(ctx, "Error submitting contact message", slog.String("error", err.Error()))
		writeAPIError(w, http.StatusInternalServerError, "Failed to send message")
		return
	}

	utils.WriteJSON(w, http.StatusCreated, contactResponse{Message: "Message sent successfully", ContactMessage: msg})
}

// HandleListProjects GET /api/projects
func (s *server) HandleListProjects(w http.ResponseWriter, r *http.Request) {
	writeCollection(w, r, "projects", s.content.ListProjects)
}

// HandleListAllProjects GET /api/projects/all
func (s *server) HandleListAllProjects(w http.ResponseWriter, r *http.Request) {
	writeCollection(w, r, "projects", s.content.ListAllProjects)
}

// HandleGetProject GET /api/projects/{slug}
func (s *server) HandleGetProject(w http.ResponseWriter, r *http.Request) {
	writeItem(w, r, "Project", s.content.ProjectBySlug)
}

// HandleListNews GET /api/news
func (s *server) HandleListNews(w http.ResponseWriter, r *http.Request) {
	writeCollection(w, r, "news", s.content.ListNews)
}

// HandleListAllNews GET /api/news/all
func (s *server) HandleListAllNews(w http.ResponseWriter, r *http.Request) {
	writeCollection(w, r, "news", s.content.ListAllNews)
}

// HandleGetNews GET /api/news/{slug}
func (s *server) HandleGetNews(w http.ResponseWriter, r *http.Request) {
	writeItem(w, r, "Article", s.content.NewsBySlug)
}

func writeCollection[T any](w http.ResponseWriter, r *http.Request, name string, list func(context.Context) ([]T, error)) {
	items, err := list(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to fetch "+name, slog.String("error", err.Error()))
		writeAPIError(w, http.StatusInternalServerError, "Failed to fetch "+name)
		return
	}
	utils.WriteJSON(w, http.StatusOK, items)
}

func writeItem[T any](w http.ResponseWriter, r *http.Request, name string, get func(context.Context, string) (T, error)) {
	item, err := get(r.Context(), r.PathValue("slug"))
	if errors.Is(err, content.ErrNotFound) {
		writeAPIError(w, http.StatusNotFound, name+" not found")
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to fetch item", slog.String("kind", name), slog.String("error", err.Error()))
		writeAPIError(w, http.StatusInternalServerError, "Failed to fetch "+name)
		return
	}
	utils.WriteJSON(w, http.StatusOK, item)
}
