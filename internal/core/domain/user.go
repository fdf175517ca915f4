package domain

import (
	"strings"
	"time"
)

// Role is the closed set of account kinds.
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
)

// ParseRole maps a wire value to a Role. An empty value yields RoleBuyer.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case "", RoleBuyer:
		return RoleBuyer, nil
	case RoleSeller:
		return RoleSeller, nil
	default:
		return "", ErrInvalidRole
	}
}

// CanSell reports whether the role may manage products and read seller metrics.
func (r Role) CanSell() bool {
	return r == RoleSeller
}

// User models an account. Password holds a bcrypt hash, or plaintext for
// records that predate hashing; it is never serialised.
type User struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Address   string    `json:"address"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserPatch lists the profile fields a user may change. A nil field is left
// untouched; a non-nil field is written even when it holds the zero value.
type UserPatch struct {
	Name     *string
	Email    *string
	Address  *string
	Password *string
}

// Apply copies every present field except Password onto u. Password needs
// hashing and is handled by the caller.
func (p UserPatch) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Address != nil {
		u.Address = *p.Address
	}
}
