package handlers

import (
	"context"
	"net/http"
	"strings"

	"gitlab.com/results-api.net/internal/core/ports/primary"
	"gitlab.com/results-api.net/internal/domain"
	"gitlab.com/results-api.net/internal/handlers/response"
	"gitlab.com/results-api.net/internal/static/errs"
)

type callerKey struct{}

// WithCaller stores the identified caller on ctx.
func WithCaller(ctx context.Context, caller domain.Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}

// CallerFromContext returns the caller set by RequireCaller, or the zero Caller.
func CallerFromContext(ctx context.Context) domain.Caller {
	caller, _ := ctx.Value(callerKey{}).(domain.Caller)
	return caller
}

type MiddlewareProvider struct {
	jwtProvider primary.JWTService
	logger      primary.Logger
}

func New(jwtProvider primary.JWTService, logger primary.Logger) *MiddlewareProvider {
	return &MiddlewareProvider{
		jwtProvider: jwtProvider,
		logger:      logger,
	}
}

// RequireCaller rejects requests without a valid bearer token with 401 and
// passes the token's caller down otherwise.
func (m *MiddlewareProvider) RequireCaller(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found || tokenString == "" {
			response.WriteError(w, r, errs.Unauthenticated)
			return
		}

		payload, err := m.jwtProvider.ParseTokenHMAC(r.Context(), tokenString)
		if err != nil {
			m.logger.Debug("Rejected bearer token", "path", r.URL.Path, "error", err)
			response.WriteError(w, r, errs.Unauthenticated)
			return
		}

		caller := payload.Caller()
		if !caller.Authenticated() {
			response.WriteError(w, r, errs.Unauthenticated)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), caller)))
	})
}
