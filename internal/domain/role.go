package domain

import (
	"fmt"
	"strings"
)

type Role string

const (
	RoleTop     Role = "TOP"
	RoleJungle  Role = "JUNGLE"
	RoleMiddle  Role = "MIDDLE"
	RoleBottom  Role = "BOTTOM"
	RoleUtility Role = "UTILITY"
)

// Roles lists every slot a team fills, in display order.
var Roles = []Role{RoleTop, RoleJungle, RoleMiddle, RoleBottom, RoleUtility}

func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// ParseRole accepts the canonical names plus the common aliases players type.
func ParseRole(s string) (Role, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TOP":
		return RoleTop, nil
	case "JUNGLE", "JG", "JUNG":
		return RoleJungle, nil
	case "MIDDLE", "MID":
		return RoleMiddle, nil
	case "BOTTOM", "BOT", "ADC":
		return RoleBottom, nil
	case "UTILITY", "SUPPORT", "SUP", "SUPP":
		return RoleUtility, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}
