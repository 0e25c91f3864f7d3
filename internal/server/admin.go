package server

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/mariphil/foundation-site/internal/domain/donation"
	"github.com/mariphil/foundation-site/internal/domain/role"
	"github.com/mariphil/foundation-site/internal/utils"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// Context key for storing the admin identity in request context
type contextKey string

const (
	adminIDContextKey   contextKey = "adminID"
	adminRoleContextKey contextKey = "adminRole"
)

type adminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type adminLoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// HandleAdminLogin POST /api/admin/login
func (s *server) HandleAdminLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if len(s.apiSecret) == 0 {
		slog.ErrorContext(ctx, "Admin login unavailable", slog.String("error", (&donation.ConfigurationError{Setting: "API_SECRET"}).Error()))
		writeAPIError(w, http.StatusInternalServerError, "Admin login is not configured")
		return
	}

	var req adminLoginRequest
	if err := utils.DecodeJSON(w, r, maxJSONBody, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		writeAPIError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	// Lockout is keyed by email and caller address.
	clientIP := utils.ClientIP(r, s.trusted)
	lockKey := email + "|" + clientIP
	if err := s.checkLockout(lockKey); err != nil {
		writeAPIError(w, http.StatusTooManyRequests, "too many attempts, try later")
		return
	}

	u, err := s.query.GetAdminUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		slog.ErrorContext(ctx, "Failed to load admin user", slog.String("error", err.Error()))
		writeAPIError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if err != nil || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		s.registerFail(lockKey)
		slog.WarnContext(ctx, "Failed admin login", slog.String("remote_addr", clientIP))
		writeAPIError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	s.resetFail(lockKey)

	token, err := s.issueToken(u.ID, role.Role(u.Role))
	if err != nil {
		slog.ErrorContext(ctx, "Failed to generate access token", slog.String("error", err.Error()))
		writeAPIError(w, http.StatusInternalServerError, "internal error")
		return
	}
	utils.WriteJSON(w, http.StatusOK, adminLoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.tokenTTL.Seconds()),
	})
}

func (s *server) issueToken(userID string, r role.Role) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  userID,
		"role": string(r),
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(s.tokenTTL).Unix(),
	})
	return token.SignedString(s.apiSecret)
}

// AdminAuthMiddleware validates bearer tokens and checks the caller's role with allowed.
func (s *server) AdminAuthMiddleware(allowed func(role.Role) bool, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeAPIError(w, http.StatusUnauthorized, "missing authorization header")
			return
		}
		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || tokenString == "" {
			writeAPIError(w, http.StatusUnauthorized, "invalid authorization header format")
			return
		}
		if len(s.apiSecret) == 0 {
			writeAPIError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, errors.New("unexpected signing method")
			}
			return s.apiSecret, nil
		})
		if err != nil || !token.Valid {
			writeAPIError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		sub, _ := claims["sub"].(string)
		rawRole, _ := claims["role"].(string)
		rl := role.Role(rawRole)
		if sub == "" || !role.IsValid(rl) {
			writeAPIError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		if !allowed(rl) {
			writeAPIError(w, http.StatusForbidden, "forbidden")
			return
		}

		ctx := context.WithValue(r.Context(), adminIDContextKey, sub)
		ctx = context.WithValue(ctx, adminRoleContextKey, rl)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func GetAdminIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(adminIDContextKey).(string)
	return id, ok
}

// HandleAdminDonations GET /api/admin/donations?limit=N
func (s *server) HandleAdminDonations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	limit, err := listLimit(r)
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, err.Error())
		return
	}

	rows, err := s.query.ListRecentDonations(ctx, int64(limit))
	if err != nil {
		slog.ErrorContext(ctx, "Failed to list donations", slog.String("error", err.Error()))
		writeAPIError(w, http.StatusInternalServerError, "Failed to fetch donations")
		return
	}
	out := make([]donation.Donation, 0, len(rows))
	for _, row := range rows {
		out = append(out, donation.FromRecord(row))
	}
	adminID, _ := GetAdminIDFromContext(ctx)
	slog.InfoContext(ctx, "Donations listed", slog.String("admin_id", adminID), slog.Int("count", len(out)))
	utils.WriteJSON(w, http.StatusOK, out)
}

// HandleAdminContactMessages GET /api/admin/contact-messages?limit=N
func (s *server) HandleAdminContactMessages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	limit, err := listLimit(r)
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, err.Error())
		return
	}

	msgs, err := s.contact.Recent(ctx, limit)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to list contact messages", slog.String("error", err.Error()))
		writeAPIError(w, http.StatusInternalServerError, "Failed to fetch contact messages")
		return
	}
	utils.WriteJSON(w, http.StatusOK, msgs)
}

func listLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return defaultListLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, errors.New("limit must be a positive integer")
	}
	return min(n, maxListLimit), nil
}

// Lockout helpers
func (s *server) checkLockout(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.rl[key]
	if st == nil {
		return nil
	}
	if st.until.After(s.now()) {
		return errors.New("locked")
	}
	return nil
}

func (s *server) registerFail(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	st := s.rl[key]
	if st == nil {
		if len(s.rl) >= maxLockouts {
			s.pruneLockouts(now)
		}
		st = &lockout{}
		s.rl[key] = st
	}
	if now.Sub(st.last) > lockoutDuration {
		st.fails = 0
	}
	st.fails++
	st.last = now
	if st.fails >= maxLoginFails {
		st.until = now.Add(lockoutDuration)
		st.fails = 0
	}
}

// pruneLockouts drops entries that are neither locked nor recently failed.
// If every entry is live, the stalest one is evicted. Callers hold s.mu.
func (s *server) pruneLockouts(now time.Time) {
	var (
		oldestKey string
		oldest    time.Time
	)
	for k, st := range s.rl {
		if !st.until.After(now) && now.Sub(st.last) > lockoutDuration {
			delete(s.rl, k)
			continue
		}
		if oldestKey == "" || st.last.Before(oldest) {
			oldestKey, oldest = k, st.last
		}
	}
	if len(s.rl) >= maxLockouts && oldestKey != "" {
		delete(s.rl, oldestKey)
	}
}

func (s *server) resetFail(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rl, key)
}
