package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"Loom/internal/api/handlers/common"
)

type contextKey string

const userIDKey contextKey = "authenticated_user_id"

// JWTAuth validates HS256 bearer tokens and injects the subject user id
// into the request context.
type JWTAuth struct {
	secret   []byte
	issuer   string
	audience string
	logger   *zap.Logger
}

// NewJWTAuth creates the auth middleware.
func NewJWTAuth(secret, issuer, audience string, logger *zap.Logger) *JWTAuth {
	return &JWTAuth{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
		logger:   logger,
	}
}

// RequireAuth ensures the request carries a valid bearer token. Returns 401
// otherwise.
func (a *JWTAuth) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject, ok := a.authenticate(r)
		if !ok {
			common.WriteProblem(w, r, a.logger, http.StatusUnauthorized, "invalid or missing bearer token")
			return
		}
		ctx := context.WithValue(r.Context(), userIDKey, subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuth loads the user id when a valid token is present but lets
// anonymous requests through. Used by read endpoints that personalize for
// known viewers.
func (a *JWTAuth) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if subject, ok := a.authenticate(r); ok {
			r = r.WithContext(context.WithValue(r.Context(), userIDKey, subject))
		}
		next.ServeHTTP(w, r)
	})
}

func (a *JWTAuth) authenticate(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	raw := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))

	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return a.secret, nil
	},
		jwt.WithIssuer(a.issuer),
		jwt.WithAudience(a.audience),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil || !token.Valid {
		a.logger.Warn("token rejected",
			zap.String("path", r.URL.Path),
			zap.Error(err))
		return "", false
	}

	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", false
	}
	return subject, true
}

// GetUserID extracts the authenticated user id from the context. Returns
// empty string for anonymous requests.
func GetUserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// SetTestUserID injects a user id into the context. Only for tests.
func SetTestUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}
