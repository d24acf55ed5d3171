package catalog

import (
	"fmt"

	"github.com/DoyleJ11/lol-draft-advisor/internal/domain"
)

// ChampionModel is a row of champions, with its per-role ladder stats.
type ChampionModel struct {
	ID    int             `gorm:"primaryKey;autoIncrement:false"`
	Name  string          `gorm:"uniqueIndex;not null"`
	Roles []RoleStatModel `gorm:"foreignKey:ChampionID;constraint:OnDelete:CASCADE"`
}

func (ChampionModel) TableName() string { return "champions" }

type RoleStatModel struct {
	ChampionID  int    `gorm:"primaryKey;autoIncrement:false"`
	Role        string `gorm:"primaryKey;size:16"`
	PickRate    float64
	BanRate     float64
	WinRate     float64
	SampleCount int
}

func (RoleStatModel) TableName() string { return "champion_role_stats" }

type PairKind string

const (
	KindSynergy PairKind = "synergy"
	KindCounter PairKind = "counter"
)

// PairModel is a synergy or counter record. WinRate is from A's side.
type PairModel struct {
	Kind        PairKind `gorm:"primaryKey;size:16"`
	ChampionA   int      `gorm:"primaryKey;autoIncrement:false"`
	RoleA       string   `gorm:"primaryKey;size:16"`
	ChampionB   int      `gorm:"primaryKey;autoIncrement:false"`
	RoleB       string   `gorm:"primaryKey;size:16"`
	WinRate     float64
	SampleCount int
}

func (PairModel) TableName() string { return "champion_pairs" }

func (m ChampionModel) toDomain() (domain.Champion, error) {
	c := domain.Champion{ID: m.ID, Name: m.Name, Roles: make(map[domain.Role]domain.RoleStats, len(m.Roles))}
	for _, r := range m.Roles {
		role, err := domain.ParseRole(r.Role)
		if err != nil {
			return domain.Champion{}, fmt.Errorf("%w: champion %d: %v", domain.ErrConfiguration, m.ID, err)
		}
		c.Roles[role] = domain.RoleStats{
			PickRate:    r.PickRate,
			BanRate:     r.BanRate,
			WinRate:     r.WinRate,
			SampleCount: r.SampleCount,
		}
	}
	return c, nil
}

func championModel(c domain.Champion) ChampionModel {
	m := ChampionModel{ID: c.ID, Name: c.Name}
	for _, role := range c.RolesByPickRate() {
		st := c.Roles[role]
		m.Roles = append(m.Roles, RoleStatModel{
			ChampionID:  c.ID,
			Role:        string(role),
			PickRate:    st.PickRate,
			BanRate:     st.BanRate,
			WinRate:     st.WinRate,
			SampleCount: st.SampleCount,
		})
	}
	return m
}
