package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/gigshift-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/gigshift-attendance-go/internal/handler/http/response"
)

func requireRole(role auth.Role, denied error) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if !ok {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}
			if p.Role != role {
				response.HandleError(w, denied)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireWorker requires the worker role. AuthRequired has already checked the worker_id claim.
func RequireWorker(next http.Handler) http.Handler {
	return requireRole(auth.RoleWorker, auth.ErrWorkerAccessRequired)(next)
}

// RequireAdmin requires the admin role
func RequireAdmin(next http.Handler) http.Handler {
	return requireRole(auth.RoleAdmin, auth.ErrAdminAccessRequired)(next)
}
