package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"fairtrace/pkg/domain"
)

// CallerValidator validates a bearer token and returns the caller identity
// it asserts.
type CallerValidator interface {
	Validate(tokenString string) (domain.Identity, error)
}

type contextKeyCaller struct{}

// GetCaller retrieves the authenticated caller identity from the context.
func GetCaller(ctx context.Context) domain.Identity {
	caller, ok := ctx.Value(contextKeyCaller{}).(domain.Identity)
	if !ok {
		return ""
	}
	return caller
}

// WithCaller injects a caller identity directly; used by handler tests.
func WithCaller(ctx context.Context, caller domain.Identity) context.Context {
	return context.WithValue(ctx, contextKeyCaller{}, caller)
}

// RequireCaller rejects requests without a valid bearer token and puts the
// asserted caller identity in the request context. Admin gating is not done
// here; each store's authority gate decides what the caller may do.
func RequireCaller(validator CallerValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || token == "" {
				unauthorized(w, r, logger, "missing bearer token")
				return
			}
			caller, err := validator.Validate(token)
			if err != nil {
				unauthorized(w, r, logger, err.Error())
				return
			}
			ctx := WithCaller(r.Context(), caller)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, r *http.Request, logger *slog.Logger, reason string) {
	logger.WarnContext(r.Context(), "unauthorized request",
		"request_id", GetRequestID(r.Context()),
		"reason", reason,
	)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized"}`))
}
