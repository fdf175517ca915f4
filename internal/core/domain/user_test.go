package domain

import (
	"errors"
	"testing"
)

func TestParseRole(t *testing.T) {
	cases := []struct {
		in      string
		want    Role
		wantErr error
	}{
		{"", RoleBuyer, nil},
		{"buyer", RoleBuyer, nil},
		{" Seller ", RoleSeller, nil},
		{"admin", "", ErrInvalidRole},
	}
	for _, tc := range cases {
		got, err := ParseRole(tc.in)
		if !errors.Is(err, tc.wantErr) {
			t.Errorf("ParseRole(%q): err %v, want %v", tc.in, err, tc.wantErr)
		}
		if got != tc.want {
			t.Errorf("ParseRole(%q): got %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRole_CanSell(t *testing.T) {
	if !RoleSeller.CanSell() {
		t.Error("seller must be able to sell")
	}
	if RoleBuyer.CanSell() || Role("admin").CanSell() {
		t.Error("only sellers can sell")
	}
}

func TestUserPatch_ApplySkipsPassword(t *testing.T) {
	u := &User{Name: "Alice", Email: "a@example.com", Password: "hash"}
	empty, pw := "", "secret"

	UserPatch{Name: &empty, Password: &pw}.Apply(u)

	if u.Name != "" {
		t.Errorf("explicit empty name must be written, got %q", u.Name)
	}
	if u.Email != "a@example.com" || u.Password != "hash" {
		t.Errorf("unexpected user after patch: %+v", u)
	}
}
