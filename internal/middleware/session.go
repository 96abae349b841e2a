// internal/middleware/session.go
package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/qazimabbas/LostnFound/internal/api"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "jwt"

// Claims represents the JWT claims for our application
type Claims struct {
	AccountID uuid.UUID `json:"accountId"`
	jwt.RegisteredClaims
}

// Sessions issues and validates the signed session cookies. Secure controls
// the cookie's Secure/SameSite attributes.
type Sessions struct {
	secret []byte
	ttl    time.Duration
	secure bool
}

func NewSessions(secret string, ttl time.Duration, secure bool) *Sessions {
	return &Sessions{
		secret: []byte(secret),
		ttl:    ttl,
		secure: secure,
	}
}

// GenerateToken creates a new JWT token for the given account ID
func (s *Sessions) GenerateToken(accountID uuid.UUID) (string, error) {
	expirationTime := time.Now().Add(s.ttl)

	claims := &Claims{
		AccountID: accountID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "lostnfound-api",
			Subject:   accountID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateToken validates the provided JWT token
func (s *Sessions) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			// Verify signing method
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
	)
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

// SetCookie attaches the session cookie to the response.
func (s *Sessions) SetCookie(w http.ResponseWriter, token string) {
	sameSite := http.SameSiteLaxMode
	if s.secure {
		sameSite = http.SameSiteStrictMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.ttl.Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: sameSite,
	})
}

// ClearCookie removes the session cookie.
func (s *Sessions) ClearCookie(w http.ResponseWriter) {
	sameSite := http.SameSiteLaxMode
	if s.secure {
		sameSite = http.SameSiteStrictMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: sameSite,
	})
}

// Middleware authenticates the request from the session cookie. A missing
// cookie is a plain 401; an invalid or expired token also clears the cookie.
func (s *Sessions) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookieName)
		if err != nil || cookie.Value == "" {
			api.WriteMessage(w, http.StatusUnauthorized, "Not authorized, please login")
			return
		}

		claims, err := s.ValidateToken(cookie.Value)
		if err != nil {
			s.ClearCookie(w)
			api.WriteMessage(w, http.StatusUnauthorized, "Invalid token, please login again")
			return
		}

		if claims.ExpiresAt != nil && time.Now().After(claims.ExpiresAt.Time) {
			s.ClearCookie(w)
			api.WriteMessage(w, http.StatusUnauthorized, "Token expired, please login again")
			return
		}

		ctx := SetAccountIDInContext(r.Context(), claims.AccountID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Define a custom context key type to avoid collisions
type contextKey string

// AccountIDKey is the key used to store the caller's account ID in the context
const AccountIDKey contextKey = "account_id"

// SetAccountIDInContext saves the account ID in the request context
func SetAccountIDInContext(ctx context.Context, accountID uuid.UUID) context.Context {
	return context.WithValue(ctx, AccountIDKey, accountID)
}

// GetAccountIDFromContext retrieves the account ID from the context
func GetAccountIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	accountID, ok := ctx.Value(AccountIDKey).(uuid.UUID)
	return accountID, ok
}
