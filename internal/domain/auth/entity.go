package auth

import "fmt"

type Role string

const (
	RoleWorker Role = "worker"
	RoleAdmin  Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleWorker || r == RoleAdmin
}

// Principal is the caller identity carried by an access token.
type Principal struct {
	WorkerID string
	Role     Role
}

// PrincipalFromClaims reads worker_id and role from verified token claims.
func PrincipalFromClaims(claims map[string]interface{}) (Principal, error) {
	roleStr, ok := claims["role"].(string)
	if !ok || !Role(roleStr).Valid() {
		return Principal{}, fmt.Errorf("role claim is missing or invalid: %w", ErrInvalidToken)
	}

	p := Principal{Role: Role(roleStr)}
	if id, ok := claims["worker_id"].(string); ok {
		p.WorkerID = id
	}
	if p.Role == RoleWorker && p.WorkerID == "" {
		return Principal{}, ErrMissingWorkerIdentity
	}

	return p, nil
}
