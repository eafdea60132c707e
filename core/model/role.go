package model

import "fmt"

// Role is the operational role a trainset is assigned to for one night.
type Role int

const (
	// RoleService puts the unit into revenue service the next morning.
	RoleService Role = iota
	// RoleStandby keeps the unit ready as a hot spare.
	RoleStandby
	// RoleIBL withdraws the unit to the inspection bay line for maintenance.
	RoleIBL
)

// Roles lists all roles in their canonical ordering. Slot columns, eligibility
// maps and tie-breaking all follow this order.
var Roles = []Role{RoleService, RoleStandby, RoleIBL}

func (r Role) String() string {
	switch r {
	case RoleService:
		return "Service"
	case RoleStandby:
		return "Standby"
	case RoleIBL:
		return "IBL"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// ParseRole converts a textual role name into a Role.
func ParseRole(s string) (Role, error) {
	switch s {
	case "Service", "service":
		return RoleService, nil
	case "Standby", "standby":
		return RoleStandby, nil
	case "IBL", "ibl":
		return RoleIBL, nil
	default:
		return 0, fmt.Errorf("unknown role %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler so roles serialize by name.
func (r Role) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Role) UnmarshalText(b []byte) error {
	parsed, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
