package enums

import "fmt"

// AccountRole distinguishes storefront clients from catalog administrators.
type AccountRole string

const (
	AccountRoleClient AccountRole = "client"
	AccountRoleAdmin  AccountRole = "admin"
)

var validAccountRoles = []AccountRole{
	AccountRoleClient,
	AccountRoleAdmin,
}

// String implements fmt.Stringer.
func (r AccountRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known AccountRole.
func (r AccountRole) IsValid() bool {
	for _, candidate := range validAccountRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// HasCart reports whether accounts with this role own a shopping cart.
// Admins manage the catalog and never carry one.
func (r AccountRole) HasCart() bool {
	return r == AccountRoleClient
}

// ParseAccountRole converts raw input into an AccountRole.
func ParseAccountRole(value string) (AccountRole, error) {
	for _, candidate := range validAccountRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid account role %q", value)
}
