package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aisenh037/MBC-sub002/auth"
	apperrors "github.com/Aisenh037/MBC-sub002/errors"
)

func TestAdminScopeIsGlobal(t *testing.T) {
	scope, err := auth.ScopeFor(&auth.Principal{ID: "a1", Role: auth.RoleAdmin})
	require.NoError(t, err)
	assert.True(t, scope.Global)
	assert.Empty(t, scope.InstitutionID)
}

func TestNonAdminScopeIsInstitutionBound(t *testing.T) {
	scope, err := auth.ScopeFor(&auth.Principal{
		ID:            "p1",
		Role:          auth.RoleProfessor,
		InstitutionID: "inst-1",
		BranchID:      "cse",
	})
	require.NoError(t, err)
	assert.False(t, scope.Global)
	assert.Equal(t, "inst-1", scope.InstitutionID)
	assert.Equal(t, "cse", scope.BranchID)
}

func TestNoInstitutionIsRejected(t *testing.T) {
	_, err := auth.ScopeFor(&auth.Principal{ID: "s1", Role: auth.RoleStudent})
	assert.ErrorIs(t, err, apperrors.ErrNoInstitution)
}
