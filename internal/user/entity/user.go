package entity

import (
	"time"

	"github.com/ovaphlow/pitchfork/service-goods/internal/auth"
)

// User represents an account row in the `users` table.
type User struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string
	Roles        []string // stored roles; see EffectiveRoles
	CreatedAt    time.Time
}

// EffectiveRoles returns the stored roles with ROLE_USER guaranteed, without duplicates.
func (u *User) EffectiveRoles() []string {
	out := make([]string, 0, len(u.Roles)+1)
	seen := make(map[string]struct{}, len(u.Roles)+1)
	for _, r := range append(append([]string{}, u.Roles...), auth.RoleUser) {
		if _, ok := seen[r]; ok || r == "" {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}

// Identity converts the account to the request-scoped identity.
func (u *User) Identity() *auth.Identity {
	return &auth.Identity{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
		Roles: u.EffectiveRoles(),
	}
}
