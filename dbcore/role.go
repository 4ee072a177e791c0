package dbcore

import "github.com/pkg/errors"

// Role selects which link a query travels over.
type Role string

const (
	Read      Role = "read"
	Write     Role = "write"
	ReadWrite Role = "readwrite"
)

// Roles lists every role in establishment order.
var Roles = []Role{Read, Write, ReadWrite}

// ParseRole maps a role name onto a Role.
func ParseRole(name string) (Role, error) {
	switch Role(name) {
	case Read, Write, ReadWrite:
		return Role(name), nil
	}
	return "", errors.Errorf("unknown link role %q", name)
}

func (r Role) String() string { return string(r) }
