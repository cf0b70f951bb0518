package errors

import "errors"

// Authentication and authorization failures. Each carries a distinct
// machine-readable reason so callers can tell the causes apart.
var (
	ErrMissingCredential      = errors.New("missing credential")
	ErrTokenExpired           = errors.New("token expired")
	ErrTokenInvalid           = errors.New("token invalid")
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrInvalidRefreshToken    = errors.New("invalid refresh token")
	ErrUserInactive           = errors.New("user account is inactive")
	ErrInsufficientRole       = errors.New("role not allowed for this endpoint")
	ErrInsufficientPermission = errors.New("permission denied")
	ErrNoInstitution          = errors.New("not associated with any institution")
	ErrCrossTenantAccess      = errors.New("cross-tenant access denied")
	ErrUnauthorized           = errors.New("unauthorized")
)

// Reason strings surfaced in the error envelope.
const (
	ReasonMissingCredential      = "missing-credential"
	ReasonExpired                = "expired"
	ReasonInvalid                = "invalid"
	ReasonInactive               = "inactive"
	ReasonInsufficientRole       = "insufficient-role"
	ReasonInsufficientPermission = "insufficient-permission"
	ReasonNoTenant               = "no-tenant"
)

// AuthReason maps an authentication/authorization sentinel to its reason
// string. Unknown errors map to "invalid".
func AuthReason(err error) string {
	switch {
	case errors.Is(err, ErrMissingCredential):
		return ReasonMissingCredential
	case errors.Is(err, ErrTokenExpired):
		return ReasonExpired
	case errors.Is(err, ErrUserInactive):
		return ReasonInactive
	case errors.Is(err, ErrInsufficientRole):
		return ReasonInsufficientRole
	case errors.Is(err, ErrInsufficientPermission):
		return ReasonInsufficientPermission
	case errors.Is(err, ErrNoInstitution):
		return ReasonNoTenant
	default:
		return ReasonInvalid
	}
}
