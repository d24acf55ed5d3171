package recommend

import (
	"slices"

	"github.com/DoyleJ11/lol-draft-advisor/internal/domain"
)

// AssignRole places c in the vacant slot it plays most. When none of its roles
// are open it gets its main role and conflict is true; the caller still scores
// it.
func AssignRole(c domain.Champion, vacant []domain.Role) (role domain.Role, conflict bool) {
	played := c.RolesByPickRate()
	for _, r := range played {
		if slices.Contains(vacant, r) {
			return r, false
		}
	}
	if len(played) == 0 {
		return "", true
	}
	return played[0], true
}
