package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go-paylink/internal/backend"
	"go-paylink/internal/config"
	"go-paylink/internal/models"

	"github.com/golang-jwt/jwt/v4"
)

type contextKey string

const (
	userContextKey  contextKey = "user"
	tokenContextKey contextKey = "token"
)

// Cookie names
const (
	AccessTokenCookie = "access_token"
	FlowCookie        = "checkout_flow"
)

// flowClaims binds a browser to its in-memory checkout flow
type flowClaims struct {
	FlowID string `json:"flow_id"`
	jwt.RegisteredClaims
}

// Gate performs page-level auth checks before a page renders. The token is
// resolved from the http-only session cookie and validated by fetching the
// current user from the backend; this server never holds the backend's
// signing key.
type Gate struct {
	backend *backend.Client
	secret  []byte
	secure  bool
	flowTTL time.Duration
}

// NewGate creates the auth gate
func NewGate(client *backend.Client, cfg *config.Config) *Gate {
	return &Gate{
		backend: client,
		secret:  []byte(cfg.CookieSecret),
		secure:  cfg.SecureCookies,
		flowTTL: cfg.FlowTTL,
	}
}

// Token resolves the access token from the session cookie
func (g *Gate) Token(r *http.Request) string {
	cookie, err := r.Cookie(AccessTokenCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// SetSession stores the access token in an http-only session cookie
func (g *Gate) SetSession(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     AccessTokenCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   g.secure,
		SameSite: http.SameSiteLaxMode,
		// No MaxAge: session cookie, deleted when the browser closes
	})
}

// ClearSession expires the session cookie immediately
func (g *Gate) ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     AccessTokenCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   g.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// RequireUser gates a page on a valid session: token from cookie, user
// fetched from the backend. Unauthenticated requests are redirected to
// sign-in before any page content is produced.
func (g *Gate) RequireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := g.Token(r)
		if token == "" {
			http.Redirect(w, r, "/signin", http.StatusSeeOther)
			return
		}

		user, err := g.backend.GetProfile(token)
		if err != nil {
			if errors.Is(err, backend.ErrUnauthorized) {
				g.ClearSession(w)
			}
			http.Redirect(w, r, "/signin", http.StatusSeeOther)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		ctx = context.WithValue(ctx, tokenContextKey, token)
		next(w, r.WithContext(ctx))
	}
}

// RequireAdmin additionally checks the role attribute on the fetched user
func (g *Gate) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return g.RequireUser(func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		if user == nil || user.Role != models.RoleAdmin {
			http.Redirect(w, r, "/signin?error=unauthorized", http.StatusSeeOther)
			return
		}
		next(w, r)
	})
}

// UserFromContext retrieves the gated user from the request context
func UserFromContext(ctx context.Context) *models.User {
	if user, ok := ctx.Value(userContextKey).(*models.User); ok {
		return user
	}
	return nil
}

// TokenFromContext retrieves the access token from the request context
func TokenFromContext(ctx context.Context) string {
	if token, ok := ctx.Value(tokenContextKey).(string); ok {
		return token
	}
	return ""
}

// ============== Checkout Flow Cookie ==============

// SetFlow signs the flow id into the checkout cookie
func (g *Gate) SetFlow(w http.ResponseWriter, flowID string) error {
	claims := flowClaims{
		FlowID: flowID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(g.flowTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.secret)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     FlowCookie,
		Value:    signed,
		Path:     "/",
		HttpOnly: true,
		Secure:   g.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(g.flowTTL / time.Second),
	})
	return nil
}

// FlowID verifies the checkout cookie and returns the flow id, or empty
func (g *Gate) FlowID(r *http.Request) string {
	cookie, err := r.Cookie(FlowCookie)
	if err != nil {
		return ""
	}

	claims := &flowClaims{}
	token, err := jwt.ParseWithClaims(cookie.Value, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return g.secret, nil
	})
	if err != nil || !token.Valid {
		return ""
	}
	return claims.FlowID
}

// ClearFlow expires the checkout cookie
func (g *Gate) ClearFlow(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     FlowCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   g.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
