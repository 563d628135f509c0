package authz

import "errors"

// Sentinel errors returned by the gate.
var (
	// ErrUnauthenticated means no identity was resolved for the request.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrUnauthorized means the identity lacks the required role.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrUnknownRole means the role name is not recognized.
	ErrUnknownRole = errors.New("unknown role")
	// ErrSelfRevocation means an admin tried to revoke their own admin role.
	ErrSelfRevocation = errors.New("cannot revoke own admin role")
	// ErrLastAdmin means the revocation would leave the system without any
	// platform admin.
	ErrLastAdmin = errors.New("cannot revoke last remaining admin")
)
