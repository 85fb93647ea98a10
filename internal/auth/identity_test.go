package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanMutate(t *testing.T) {
	owner := &Identity{ID: 1, Roles: []string{RoleUser}}
	other := &Identity{ID: 2, Roles: []string{RoleUser}}
	admin := &Identity{ID: 3, Roles: []string{RoleAdmin, RoleUser}}

	tests := []struct {
		name     string
		identity *Identity
		ownerID  int64
		want     bool
	}{
		{"owner", owner, 1, true},
		{"other user", other, 1, false},
		{"admin", admin, 1, true},
		{"anonymous", nil, 1, false},
		{"zero owner id does not match anonymous", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanMutate(tt.identity, tt.ownerID))
		})
	}
}

func TestHasRole(t *testing.T) {
	var nobody *Identity
	assert.False(t, nobody.HasRole(RoleUser))
	assert.True(t, (&Identity{Roles: []string{RoleAdmin}}).HasRole(RoleAdmin))
	assert.False(t, (&Identity{Roles: []string{RoleUser}}).HasRole(RoleAdmin))
}

func TestIdentityContext(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, FromContext(ctx))

	id := &Identity{ID: 7}
	assert.Same(t, id, FromContext(WithIdentity(ctx, id)))
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc.def", "abc.def", true},
		{"bearer abc", "abc", true},
		{"Bearer   ", "", false},
		{"Basic dXNlcjpwYXNz", "", false},
		{"", "", false},
		{"Bearer", "", false},
	}

	for _, tt := range tests {
		token, ok := BearerToken(tt.header)
		assert.Equal(t, tt.token, token, tt.header)
		assert.Equal(t, tt.ok, ok, tt.header)
	}
}
