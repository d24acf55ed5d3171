package signal

import (
	"fmt"

	"github.com/DoyleJ11/lol-draft-advisor/internal/domain"
)

type metaKey struct {
	id   int
	role domain.Role
}

// MetaIndex serves per-role ladder stats. Unlike pair tables a missing entry
// is an error: the champion has no record in that role at all.
type MetaIndex struct {
	stats map[metaKey]domain.RoleStats
}

func NewMetaIndex(champs []domain.Champion) *MetaIndex {
	m := &MetaIndex{stats: map[metaKey]domain.RoleStats{}}
	for _, c := range champs {
		for role, st := range c.Roles {
			m.stats[metaKey{c.ID, role}] = st
		}
	}
	return m
}

func (m *MetaIndex) Meta(championID int, role domain.Role) (domain.RoleStats, error) {
	st, ok := m.stats[metaKey{championID, role}]
	if !ok {
		return domain.RoleStats{}, fmt.Errorf("%w: no meta stats for champion %d in %s", domain.ErrSignalProvider, championID, role)
	}
	return st, nil
}
