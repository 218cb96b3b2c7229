package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/isdelr/diary/internal/models"
	"github.com/rs/zerolog/log"
)

// CookieName is the name of the session cookie.
const CookieName = "session"

var (
	// ErrNoSession means the request carries no session cookie.
	ErrNoSession = errors.New("no session")
	// ErrInvalidSession means the cookie is malformed, tampered with or expired.
	ErrInvalidSession = errors.New("invalid session")
)

// Claims defines the session token claims. Subject holds the user id.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type contextKey string

// SessionClaimsKey is the context key for session claims.
const SessionClaimsKey = contextKey("sessionClaims")

// Manager issues, reads and clears session cookies signed with a secret key.
type Manager struct {
	secret []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

// NewManager creates a Manager. secure sets the cookie Secure flag.
func NewManager(secret []byte, ttl time.Duration, secure bool) *Manager {
	return &Manager{secret: secret, ttl: ttl, secure: secure, now: time.Now}
}

// Issue signs a session for user and sets it as a cookie on w.
func (m *Manager) Issue(w http.ResponseWriter, user models.User) error {
	now := m.now()
	expirationTime := now.Add(m.ttl)
	claims := &Claims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expirationTime),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return fmt.Errorf("sign session: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Expires:  expirationTime,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
	})
	return nil
}

// Read parses and validates the session cookie of r.
func (m *Manager) Read(r *http.Request) (*Claims, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil, ErrNoSession
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(cookie.Value, claims, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	if claims.Email == "" {
		return nil, ErrInvalidSession
	}
	return claims, nil
}

// Clear expires the session cookie. Clearing an absent session is a no-op.
func (m *Manager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
	})
}

// RequireSession redirects anonymous clients to loginPath and passes the
// session claims down via context otherwise.
func (m *Manager) RequireSession(loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := m.Read(r)
			if err != nil {
				if errors.Is(err, ErrInvalidSession) {
					log.Debug().Err(err).Str("path", r.URL.Path).Msg("Rejected session cookie")
					m.Clear(w)
				}
				http.Redirect(w, r, loginPath, http.StatusFound)
				return
			}

			ctx := context.WithValue(r.Context(), SessionClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext returns the session claims stored by RequireSession.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(SessionClaimsKey).(*Claims)
	return claims, ok
}
