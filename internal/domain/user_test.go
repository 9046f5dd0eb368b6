package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleAssignmentValidate(t *testing.T) {
	assert.NoError(t, Diner().Validate())
	assert.NoError(t, Admin().Validate())
	assert.NoError(t, FranchiseeOf(3).Validate())

	assert.ErrorIs(t, RoleAssignment{Role: RoleFranchisee}.Validate(), ErrInvalidRole)
	assert.ErrorIs(t, RoleAssignment{Role: RoleAdmin, ObjectID: 2}.Validate(), ErrInvalidRole)
	assert.ErrorIs(t, RoleAssignment{Role: "chef"}.Validate(), ErrInvalidRole)
}

func TestUserJSONHidesPassword(t *testing.T) {
	u := User{ID: 1, Name: "pizza diner", Email: "d@jwt.com", Password: "hash",
		Roles: []RoleAssignment{Diner(), FranchiseeOf(4)}}
	b, err := json.Marshal(u)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"name":"pizza diner","email":"d@jwt.com","roles":[{"role":"diner"},{"role":"franchisee","objectId":4}]}`, string(b))
}

func TestUnknownMenuItemError(t *testing.T) {
	err := &UnknownMenuItemError{IDs: []uint{4, 9}}
	assert.ErrorIs(t, err, ErrUnknownMenuItem)
	assert.Equal(t, "unknown menu item: 4, 9", err.Error())
}
