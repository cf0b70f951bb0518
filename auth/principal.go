package auth

// Role is the fixed set of roles a principal can hold.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleProfessor Role = "professor"
	RoleStudent   Role = "student"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleProfessor, RoleStudent:
		return true
	}
	return false
}

const Wildcard = "*"

// Permission grants an action on a resource. A condition key of "self"
// requires the contextual user id to equal the principal's id.
type Permission struct {
	Resource   string
	Action     string
	Conditions map[string]string
}

// Principal is the authenticated identity attached to a request. It is built
// once per request and discarded at request end.
type Principal struct {
	ID            string
	Email         string
	Role          Role
	InstitutionID string
	BranchID      string
	Permissions   []Permission
}

// rolePermissions is the static role→permission table. Admin gets a full
// wildcard; professor and student get fixed resource/action lists.
var rolePermissions = map[Role][]Permission{
	RoleAdmin: {
		{Resource: Wildcard, Action: Wildcard},
	},
	RoleProfessor: {
		{Resource: "students", Action: "read"},
		{Resource: "professors", Action: "read"},
		{Resource: "courses", Action: "read"},
		{Resource: "branches", Action: "read"},
		{Resource: "assignments", Action: Wildcard},
		{Resource: "marks", Action: Wildcard},
		{Resource: "attendance", Action: Wildcard},
		{Resource: "notices", Action: Wildcard},
		{Resource: "analytics", Action: "read"},
		{Resource: "feedback", Action: Wildcard},
		{Resource: "dashboard", Action: "read"},
	},
	RoleStudent: {
		{Resource: "students", Action: "read", Conditions: map[string]string{"self": "userId"}},
		{Resource: "courses", Action: "read"},
		{Resource: "branches", Action: "read"},
		{Resource: "assignments", Action: "read"},
		{Resource: "marks", Action: "read", Conditions: map[string]string{"self": "userId"}},
		{Resource: "attendance", Action: "read", Conditions: map[string]string{"self": "userId"}},
		{Resource: "notices", Action: "read"},
		{Resource: "analytics", Action: "read", Conditions: map[string]string{"self": "userId"}},
		{Resource: "feedback", Action: "create"},
		{Resource: "dashboard", Action: "read"},
	},
}

// PermissionsFor returns the immutable permission list for a role. Callers
// must not mutate the returned slice.
func PermissionsFor(role Role) []Permission {
	return rolePermissions[role]
}

// HasPermission reports whether the principal may perform action on resource
// given the request context. Pure function: same inputs, same answer.
func HasPermission(p *Principal, resource, action string, condCtx map[string]string) bool {
	for _, perm := range p.Permissions {
		if !matches(perm.Resource, resource) || !matches(perm.Action, action) {
			continue
		}
		if conditionsSatisfied(p, perm.Conditions, condCtx) {
			return true
		}
	}
	return false
}

func matches(pattern, value string) bool {
	return pattern == Wildcard || pattern == value
}

func conditionsSatisfied(p *Principal, conditions map[string]string, condCtx map[string]string) bool {
	for key, ctxField := range conditions {
		switch key {
		case "self":
			if condCtx[ctxField] != p.ID {
				return false
			}
		default:
			// Unknown condition keys never match.
			return false
		}
	}
	return true
}
