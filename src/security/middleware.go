package security

import (
	"context"
	"log/slog"
	"net/http"

	"webservicepoc/src/domain"
)

// PrincipalResolver finds the principal of a request; nil means anonymous.
type PrincipalResolver interface {
	Principal(r *http.Request) (*domain.Principal, error)
}

type principalCtxKey struct{}

func WithPrincipal(ctx context.Context, principal *domain.Principal) context.Context {
	return context.WithValue(ctx, principalCtxKey{}, principal)
}

func PrincipalFrom(ctx context.Context) (*domain.Principal, bool) {
	principal, ok := ctx.Value(principalCtxKey{}).(*domain.Principal)
	return principal, ok && principal != nil
}

// Middleware resolves the principal, stores it in the request context and
// applies the policy: Deny answers 403, Redirect sends the browser to
// loginURL.
func Middleware(logger *slog.Logger, policy *Policy, resolver PrincipalResolver, loginURL string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := resolver.Principal(r)
			if err != nil {
				logger.Warn("Failed to resolve principal", "path", r.URL.Path, "error", err)
				principal = nil
			}

			switch policy.Authorize(r.URL.Path, principal) {
			case Deny:
				logger.Info("Access denied", "path", r.URL.Path, "user_id", principal.UserID, "role", principal.Role)
				http.Error(w, domain.ErrForbidden.Error(), http.StatusForbidden)
				return
			case Redirect:
				http.Redirect(w, r, loginURL, http.StatusFound)
				return
			}

			if principal != nil {
				r = r.WithContext(WithPrincipal(r.Context(), principal))
			}

			next.ServeHTTP(w, r)
		})
	}
}
