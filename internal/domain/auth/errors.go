package auth

import "errors"

var (
	ErrInvalidToken          = errors.New("invalid or expired token")
	ErrWorkerAccessRequired  = errors.New("worker access required")
	ErrAdminAccessRequired   = errors.New("admin access required")
	ErrMissingWorkerIdentity = errors.New("token does not identify a worker")
)
