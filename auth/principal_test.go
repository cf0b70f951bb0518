package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Aisenh037/MBC-sub002/auth"
)

func principalFor(role auth.Role, id string) *auth.Principal {
	return &auth.Principal{
		ID:          id,
		Role:        role,
		Permissions: auth.PermissionsFor(role),
	}
}

func TestAdminWildcardCoversEverything(t *testing.T) {
	admin := principalFor(auth.RoleAdmin, "a1")

	assert.True(t, auth.HasPermission(admin, "students", "delete", nil))
	assert.True(t, auth.HasPermission(admin, "anything", "whatever", nil))
}

func TestProfessorPermissions(t *testing.T) {
	prof := principalFor(auth.RoleProfessor, "p1")

	assert.True(t, auth.HasPermission(prof, "marks", "create", nil))
	assert.True(t, auth.HasPermission(prof, "students", "read", nil))
	assert.False(t, auth.HasPermission(prof, "students", "delete", nil))
	assert.False(t, auth.HasPermission(prof, "users", "read", nil))
}

func TestStudentSelfCondition(t *testing.T) {
	student := principalFor(auth.RoleStudent, "s1")

	// Reading own marks is allowed, reading another student's is not.
	assert.True(t, auth.HasPermission(student, "marks", "read", map[string]string{"userId": "s1"}))
	assert.False(t, auth.HasPermission(student, "marks", "read", map[string]string{"userId": "s2"}))

	// No contextual user id means the self condition cannot hold.
	assert.False(t, auth.HasPermission(student, "marks", "read", nil))

	// Unconditioned read resources need no context.
	assert.True(t, auth.HasPermission(student, "courses", "read", nil))
	assert.False(t, auth.HasPermission(student, "marks", "create", map[string]string{"userId": "s1"}))
}

func TestRoleValid(t *testing.T) {
	assert.True(t, auth.RoleAdmin.Valid())
	assert.True(t, auth.RoleProfessor.Valid())
	assert.True(t, auth.RoleStudent.Valid())
	assert.False(t, auth.Role("superuser").Valid())
}
