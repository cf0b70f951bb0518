package auth

import apperrors "github.com/Aisenh037/MBC-sub002/errors"

// ScopedQuery carries the tenant filter injected by the authorization layer.
// It is threaded explicitly to the data-access layer instead of mutating the
// inbound request. An unscoped query (admin) has Global set.
type ScopedQuery struct {
	Global        bool
	InstitutionID string
	BranchID      string
}

// ScopeFor derives the tenant scope for a principal. Admins see everything.
// A non-admin without an institution association is rejected; the
// server-side institution id always wins over anything the client supplies.
func ScopeFor(p *Principal) (ScopedQuery, error) {
	if p.Role == RoleAdmin {
		return ScopedQuery{Global: true}, nil
	}
	if p.InstitutionID == "" {
		return ScopedQuery{}, apperrors.ErrNoInstitution
	}
	return ScopedQuery{InstitutionID: p.InstitutionID, BranchID: p.BranchID}, nil
}
