package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
	"golang.org/x/crypto/bcrypt"

	"github.com/mariphil/foundation-site/internal/contact"
	"github.com/mariphil/foundation-site/internal/content"
	"github.com/mariphil/foundation-site/internal/db"
	"github.com/mariphil/foundation-site/internal/domain/donation"
	"github.com/mariphil/foundation-site/internal/domain/role"
	"github.com/mariphil/foundation-site/internal/payments"
	"github.com/mariphil/foundation-site/internal/ratelimit"
	"github.com/mariphil/foundation-site/internal/store"
)

const (
	testWebhookSecret = "whsec_server_test"
	testAPISecret     = "test-api-secret"
)

type fakeSessions struct {
	calls int
	err   error
}

func (f *fakeSessions) CreateSession(_ context.Context, _ *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &stripe.CheckoutSession{ID: "cs_test_1", URL: "https://checkout.stripe.com/c/pay/cs_test_1"}, nil
}

type nopMailer struct{ calls int }

func (m *nopMailer) Send(context.Context, string, string, string) error {
	m.calls++
	return nil
}

type testEnv struct {
	q        *db.Queries
	sessions *fakeSessions
	mail     *nopMailer
	deps     Deps
	handler  http.Handler
}

func newTestEnv(t *testing.T, mutate ...func(*Deps)) *testEnv {
	t.Helper()
	st, err := store.New(store.DriverSQLite, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	if err := st.AutoMigrate(context.Background()); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	env := &testEnv{q: db.New(st.DB), sessions: &fakeSessions{}, mail: &nopMailer{}}
	env.deps = Deps{
		Queries:  env.q,
		Checkout: payments.NewInitiator(env.sessions, "http://localhost:3000", "PHP"),
		Webhooks: payments.NewReconciler(payments.ReconcilerConfig{
			WebhookSecret: testWebhookSecret,
			HomeCurrency:  "PHP",
		}, env.q, env.mail, nil),
		Content:       content.NewService(env.q, nil, 0),
		Contact:       contact.NewService(env.q, env.mail, "admin@mariphilfoundation.org"),
		APISecret:     testAPISecret,
		AdminTokenTTL: time.Hour,
	}
	for _, m := range mutate {
		m(&env.deps)
	}
	env.handler = NewServer(env.deps).Routes()
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr *bytes.Reader
	switch b := body.(type) {
	case nil:
		rdr = bytes.NewReader(nil)
	case []byte:
		rdr = bytes.NewReader(b)
	case string:
		rdr = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rdr = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)
	return rr
}

func errorMessage(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body APIError
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("error body is not JSON: %s", rr.Body.String())
	}
	return body.Error
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(t, http.MethodGet, "/api/health", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected a request id header")
	}
}

func TestCreateCheckout(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(t, http.MethodPost, "/api/donations/create-checkout", map[string]any{
		"amount":     1500,
		"recurring":  false,
		"donorName":  "Juan Dela Cruz",
		"donorEmail": "juan@example.com",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp checkoutResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil || resp.URL == "" {
		t.Fatalf("expected url in response, got %s", rr.Body.String())
	}

	n, err := env.q.CountDonations(context.Background())
	if err != nil || n != 0 {
		t.Fatalf("checkout must not record a donation, got %d (%v)", n, err)
	}
}

func TestCreateCheckout_Errors(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*Deps)
		sessionErr error
		body       any
		wantStatus int
		wantError  string
	}{
		{
			name:       "invalid json",
			body:       "{amount:",
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid JSON body",
		},
		{
			name:       "missing amount",
			body:       map[string]any{"donorName": "Juan", "donorEmail": "juan@example.com"},
			wantStatus: http.StatusBadRequest,
			wantError:  "amount must be greater than zero",
		},
		{
			name:       "missing email",
			body:       map[string]any{"amount": 10, "donorName": "Juan"},
			wantStatus: http.StatusBadRequest,
			wantError:  "donorEmail is required",
		},
		{
			name:       "processor rejects",
			sessionErr: &stripe.Error{Msg: "Invalid API Key provided"},
			body:       map[string]any{"amount": 10, "donorName": "Juan", "donorEmail": "juan@example.com"},
			wantStatus: http.StatusInternalServerError,
			wantError:  "Failed to create checkout session",
		},
		{
			name: "not configured",
			mutate: func(d *Deps) {
				d.Checkout = payments.NewFailedInitiator(&donation.ConfigurationError{Setting: "STRIPE_SECRET_KEY"})
			},
			body:       map[string]any{"amount": 10, "donorName": "Juan", "donorEmail": "juan@example.com"},
			wantStatus: http.StatusInternalServerError,
			wantError:  "Failed to create checkout session",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var mutators []func(*Deps)
			if tt.mutate != nil {
				mutators = append(mutators, tt.mutate)
			}
			env := newTestEnv(t, mutators...)
			env.sessions.err = tt.sessionErr
			rr := env.do(t, http.MethodPost, "/api/donations/create-checkout", tt.body)
			if rr.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, rr.Code, rr.Body.String())
			}
			if got := errorMessage(t, rr); got != tt.wantError {
				t.Fatalf("expected error %q, got %q", tt.wantError, got)
			}
		})
	}
}

func signedCheckoutEvent(t *testing.T, secret string) ([]byte, string) {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"id":          "evt_server_1",
		"object":      "event",
		"type":        "checkout.session.completed",
		"api_version": "2025-03-31.basil",
		"data": map[string]any{"object": map[string]any{
			"id":             "cs_test_1",
			"object":         "checkout.session",
			"amount_total":   150000,
			"currency":       "php",
			"payment_intent": "pi_server_1",
			"metadata": map[string]string{
				"donorName": "Juan Dela Cruz", "donorEmail": "juan@example.com", "recurring": "false", "message": "",
			},
		}},
	})
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}
	header := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{Payload: body, Secret: secret, Timestamp: time.Now()}).Header
	return body, header
}

func TestStripeWebhook(t *testing.T) {
	env := newTestEnv(t)
	body, header := signedCheckoutEvent(t, testWebhookSecret)

	for i := 0; i < 2; i++ {
		rr := env.do(t, http.MethodPost, "/api/webhooks/stripe", body, "Stripe-Signature", header)
		if rr.Code != http.StatusOK {
			t.Fatalf("delivery %d: expected 200, got %d: %s", i+1, rr.Code, rr.Body.String())
		}
		if strings.TrimSpace(rr.Body.String()) != `{"received":true}` {
			t.Fatalf("unexpected body %s", rr.Body.String())
		}
	}

	n, err := env.q.CountDonations(context.Background())
	if err != nil || n != 1 {
		t.Fatalf("expected exactly one donation, got %d (%v)", n, err)
	}
	if env.mail.calls != 1 {
		t.Fatalf("expected one receipt, got %d", env.mail.calls)
	}
}

func TestStripeWebhook_Rejections(t *testing.T) {
	body, _ := signedCheckoutEvent(t, testWebhookSecret)
	_, forged := signedCheckoutEvent(t, "whsec_forged")

	tests := []struct {
		name       string
		mutate     func(*Deps)
		body       []byte
		header     string
		wantStatus int
	}{
		{name: "forged signature", body: body, header: forged, wantStatus: http.StatusBadRequest},
		{name: "missing signature", body: body, header: "", wantStatus: http.StatusBadRequest},
		{name: "oversized body", body: bytes.Repeat([]byte("x"), maxWebhookBody+1), header: forged, wantStatus: http.StatusRequestEntityTooLarge},
		{
			name: "secret not configured",
			mutate: func(d *Deps) {
				d.Webhooks = payments.NewReconciler(payments.ReconcilerConfig{HomeCurrency: "PHP"}, d.Queries, nil, nil)
			},
			body: body, header: forged, wantStatus: http.StatusInternalServerError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var mutators []func(*Deps)
			if tt.mutate != nil {
				mutators = append(mutators, tt.mutate)
			}
			env := newTestEnv(t, mutators...)
			rr := env.do(t, http.MethodPost, "/api/webhooks/stripe", tt.body, "Stripe-Signature", tt.header)
			if rr.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, rr.Code, rr.Body.String())
			}
			if errorMessage(t, rr) == "" {
				t.Fatalf("expected error message")
			}
			n, _ := env.q.CountDonations(context.Background())
			if n != 0 {
				t.Fatalf("rejected webhook recorded %d donations", n)
			}
		})
	}
}

func TestStripeWebhook_UndecodableObjectIs500(t *testing.T) {
	env := newTestEnv(t)
	body := []byte(`{"id":"evt_bad","object":"event","type":"checkout.session.completed","api_version":"2025-03-31.basil",` +
		`"data":{"object":{"id":"cs_1","object":"checkout.session","amount_total":"lots"}}}`)
	header := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{Payload: body, Secret: testWebhookSecret, Timestamp: time.Now()}).Header

	rr := env.do(t, http.MethodPost, "/api/webhooks/stripe", body, "Stripe-Signature", header)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 so the processor retries, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestContact(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(t, http.MethodPost, "/api/contact", map[string]string{
		"name": "Maria", "email": "maria@example.com", "message": "Hello!",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp contactResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Message != "Message sent successfully" || resp.ContactMessage.ID == "" {
		t.Fatalf("unexpected response %+v", resp)
	}

	rr = env.do(t, http.MethodPost, "/api/contact", map[string]string{"name": "Maria"})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if got := errorMessage(t, rr); got != "Name, email, and message are required" {
		t.Fatalf("unexpected error %q", got)
	}
}

func TestContent_EmptyAndNotFound(t *testing.T) {
	env := newTestEnv(t)
	for _, path := range []string{"/api/projects", "/api/news", "/api/projects/all", "/api/news/all"} {
		rr := env.do(t, http.MethodGet, path, nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rr.Code)
		}
		if strings.TrimSpace(rr.Body.String()) != "[]" {
			t.Fatalf("%s: expected [], got %s", path, rr.Body.String())
		}
	}
	for _, path := range []string{"/api/projects/nope", "/api/news/nope"} {
		rr := env.do(t, http.MethodGet, path, nil)
		if rr.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", path, rr.Code)
		}
	}
}

func TestContent_BySlug(t *testing.T) {
	env := newTestEnv(t)
	now := time.Now().UTC()
	if err := env.q.UpsertProject(context.Background(), db.UpsertProjectParams{
		ID: "prj_1", Title: "Children's Village", Slug: "childrens-village", Status: "active", CreatedAt: now, UpdatedAt: now,
	}); err != nil {
		t.Fatalf("UpsertProject: %v", err)
	}
	rr := env.do(t, http.MethodGet, "/api/projects/childrens-village", nil)
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"title":"Children's Village"`) {
		t.Fatalf("unexpected response %d %s", rr.Code, rr.Body.String())
	}
}

func createAdmin(t *testing.T, q *db.Queries, email, password string, r role.Role) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	if err := q.CreateAdminUserIfMissing(context.Background(), db.CreateAdminUserIfMissingParams{
		ID: "adm_" + string(r), Email: email, Name: "Admin", Role: string(r), PasswordHash: string(hash), CreatedAt: time.Now().UTC(),
	}); err != nil {
		t.Fatalf("CreateAdminUserIfMissing: %v", err)
	}
}

func login(t *testing.T, env *testEnv, email, password string) (int, string) {
	t.Helper()
	rr := env.do(t, http.MethodPost, "/api/admin/login", map[string]string{"email": email, "password": password})
	var resp adminLoginResponse
	_ = json.Unmarshal(rr.Body.Bytes(), &resp)
	return rr.Code, resp.AccessToken
}

func TestAdmin_LoginAndLists(t *testing.T) {
	env := newTestEnv(t)
	createAdmin(t, env.q, "admin@mariphilfoundation.org", "s3cret-pass", role.ADMIN)

	body, header := signedCheckoutEvent(t, testWebhookSecret)
	if rr := env.do(t, http.MethodPost, "/api/webhooks/stripe", body, "Stripe-Signature", header); rr.Code != http.StatusOK {
		t.Fatalf("webhook: %d", rr.Code)
	}

	code, token := login(t, env, "Admin@MariphilFoundation.org", "s3cret-pass")
	if code != http.StatusOK || token == "" {
		t.Fatalf("expected login success, got %d", code)
	}

	rr := env.do(t, http.MethodGet, "/api/admin/donations?limit=10", nil, "Authorization", "Bearer "+token)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var donations []map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &donations); err != nil {
		t.Fatalf("decode donations: %v", err)
	}
	if len(donations) != 1 || donations[0]["externalPaymentReference"] != "pi_server_1" {
		t.Fatalf("unexpected donations %v", donations)
	}

	rr = env.do(t, http.MethodGet, "/api/admin/contact-messages", nil, "Authorization", "Bearer "+token)
	if rr.Code != http.StatusOK || strings.TrimSpace(rr.Body.String()) != "[]" {
		t.Fatalf("expected empty inbox, got %d %s", rr.Code, rr.Body.String())
	}

	rr = env.do(t, http.MethodGet, "/api/admin/donations?limit=zero", nil, "Authorization", "Bearer "+token)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad limit, got %d", rr.Code)
	}
}

func TestAdmin_Authorization(t *testing.T) {
	env := newTestEnv(t)
	createAdmin(t, env.q, "editor@mariphilfoundation.org", "editor-pass", role.EDITOR)

	if rr := env.do(t, http.MethodGet, "/api/admin/donations", nil); rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rr.Code)
	}
	if rr := env.do(t, http.MethodGet, "/api/admin/donations", nil, "Authorization", "Bearer not-a-jwt"); rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for garbage token, got %d", rr.Code)
	}

	_, token := login(t, env, "editor@mariphilfoundation.org", "editor-pass")
	if rr := env.do(t, http.MethodGet, "/api/admin/donations", nil, "Authorization", "Bearer "+token); rr.Code != http.StatusForbidden {
		t.Fatalf("editors must not read donations, got %d", rr.Code)
	}
	if rr := env.do(t, http.MethodGet, "/api/admin/contact-messages", nil, "Authorization", "Bearer "+token); rr.Code != http.StatusOK {
		t.Fatalf("editors may read contact messages, got %d", rr.Code)
	}
}

func TestAdmin_WrongPasswordTriggersLockout(t *testing.T) {
	env := newTestEnv(t)
	createAdmin(t, env.q, "admin@mariphilfoundation.org", "s3cret-pass", role.ADMIN)

	for i := 0; i < 5; i++ {
		if code, _ := login(t, env, "admin@mariphilfoundation.org", "wrong"); code != http.StatusUnauthorized {
			t.Fatalf("expected 401 on wrong password, got %d", code)
		}
	}
	if code, _ := login(t, env, "admin@mariphilfoundation.org", "s3cret-pass"); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after lockout, got %d", code)
	}
}

func TestAdmin_LockoutIsPerCaller(t *testing.T) {
	env := newTestEnv(t)
	createAdmin(t, env.q, "admin@mariphilfoundation.org", "s3cret-pass", role.ADMIN)

	loginFrom := func(remote, password string) int {
		raw, _ := json.Marshal(map[string]string{"email": "admin@mariphilfoundation.org", "password": password})
		req := httptest.NewRequest(http.MethodPost, "/api/admin/login", bytes.NewReader(raw))
		req.RemoteAddr = remote
		rr := httptest.NewRecorder()
		env.handler.ServeHTTP(rr, req)
		return rr.Code
	}
	for i := 0; i < maxLoginFails; i++ {
		loginFrom("198.51.100.66:4000", "wrong")
	}
	if code := loginFrom("198.51.100.66:4000", "s3cret-pass"); code != http.StatusTooManyRequests {
		t.Fatalf("expected the guessing caller to be locked out, got %d", code)
	}
	if code := loginFrom("203.0.113.10:5000", "s3cret-pass"); code != http.StatusOK {
		t.Fatalf("expected another caller to log in, got %d", code)
	}
}

func TestLockouts_ArePruned(t *testing.T) {
	s := NewServer(Deps{})
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	for i := 0; i < maxLockouts; i++ {
		s.registerFail(fmt.Sprintf("user%d@example.com|192.0.2.1", i))
	}
	if len(s.rl) != maxLockouts {
		t.Fatalf("expected %d entries, got %d", maxLockouts, len(s.rl))
	}

	now = now.Add(lockoutDuration + time.Minute)
	s.registerFail("late@example.com|192.0.2.1")
	if len(s.rl) != 1 {
		t.Fatalf("expected stale entries to be pruned, got %d", len(s.rl))
	}

	for i := 0; i < maxLockouts+50; i++ {
		s.registerFail(fmt.Sprintf("flood%d@example.com|192.0.2.2", i))
	}
	if len(s.rl) > maxLockouts {
		t.Fatalf("lockout table grew past %d: %d", maxLockouts, len(s.rl))
	}
}

func TestLockouts_FailuresExpire(t *testing.T) {
	s := NewServer(Deps{})
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	key := "admin@mariphilfoundation.org|192.0.2.1"

	for i := 0; i < maxLoginFails-1; i++ {
		s.registerFail(key)
	}
	now = now.Add(lockoutDuration + time.Second)
	s.registerFail(key)
	if err := s.checkLockout(key); err != nil {
		t.Fatalf("old failures must not count towards a lockout")
	}
}

func TestOversizedJSONBody(t *testing.T) {
	env := newTestEnv(t)
	big := `{"name":"Maria","email":"maria@example.com","message":"` + strings.Repeat("x", maxJSONBody) + `"}`
	for _, path := range []string{"/api/contact", "/api/donations/create-checkout", "/api/admin/login"} {
		rr := env.do(t, http.MethodPost, path, big)
		if rr.Code != http.StatusRequestEntityTooLarge {
			t.Fatalf("%s: expected 413, got %d", path, rr.Code)
		}
		if got := errorMessage(t, rr); got != "Payload too large" {
			t.Fatalf("%s: unexpected error %q", path, got)
		}
	}
}

type countingRedis struct{ counts map[string]int64 }

func (c *countingRedis) Incr(ctx context.Context, key string) *redis.IntCmd {
	c.counts[key]++
	cmd := redis.NewIntCmd(ctx, "incr", key)
	cmd.SetVal(c.counts[key])
	return cmd
}

func (c *countingRedis) Expire(ctx context.Context, key string, _ time.Duration) *redis.BoolCmd {
	cmd := redis.NewBoolCmd(ctx, "expire", key)
	cmd.SetVal(true)
	return cmd
}

func TestRateLimitedCheckout(t *testing.T) {
	env := newTestEnv(t, func(d *Deps) {
		d.Limiter = ratelimit.New(&countingRedis{counts: map[string]int64{}}, 2, nil)
	})
	body := map[string]any{"amount": 10, "donorName": "Juan", "donorEmail": "juan@example.com"}
	for i := 0; i < 2; i++ {
		if rr := env.do(t, http.MethodPost, "/api/donations/create-checkout", body); rr.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, rr.Code)
		}
	}
	rr := env.do(t, http.MethodPost, "/api/donations/create-checkout", body)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rr.Code)
	}
	if env.sessions.calls != 2 {
		t.Fatalf("limited request reached the processor: %d calls", env.sessions.calls)
	}
	// Webhooks are never rate limited.
	payload, header := signedCheckoutEvent(t, testWebhookSecret)
	for i := 0; i < 3; i++ {
		if rr := env.do(t, http.MethodPost, "/api/webhooks/stripe", payload, "Stripe-Signature", header); rr.Code != http.StatusOK {
			t.Fatalf("webhook %d: expected 200, got %d", i+1, rr.Code)
		}
	}
}

func TestRequestLogger_KeepsValidRequestID(t *testing.T) {
	id := "7d444840-9dc0-11d1-b245-5ffdce74fad2"
	var seen string
	h := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = GetRequestIDFromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", id)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if seen != id || rr.Header().Get("X-Request-ID") != id {
		t.Fatalf("expected request id %s to be kept, got %q", id, seen)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "<script>")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if got := rr.Header().Get("X-Request-ID"); got == "<script>" || got == "" {
		t.Fatalf("expected a fresh request id, got %q", got)
	}
}

func TestListLimit(t *testing.T) {
	tests := []struct {
		query   string
		want    int
		wantErr bool
	}{
		{"", defaultListLimit, false},
		{"limit=5", 5, false},
		{"limit=1000", maxListLimit, false},
		{"limit=0", 0, true},
		{"limit=abc", 0, true},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/?%s", tt.query), nil)
		got, err := listLimit(req)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("listLimit(%q) = %d, %v", tt.query, got, err)
		}
	}
}
