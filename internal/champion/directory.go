// Package champion holds the read-only champion catalog a draft runs against.
package champion

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/DoyleJ11/lol-draft-advisor/internal/domain"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Directory is an immutable id and name index over a champion list. It is
// safe for concurrent use.
type Directory struct {
	byID   map[int]domain.Champion
	byName map[string]int
	ids    []int
}

// New indexes champs. Ids and folded names must be unique and every champion
// needs at least one valid role.
func New(champs []domain.Champion) (*Directory, error) {
	d := &Directory{
		byID:   make(map[int]domain.Champion, len(champs)),
		byName: make(map[string]int, len(champs)),
		ids:    make([]int, 0, len(champs)),
	}
	for _, c := range champs {
		if c.ID <= 0 {
			return nil, fmt.Errorf("%w: champion %q has non-positive id %d", domain.ErrConfiguration, c.Name, c.ID)
		}
		if _, dup := d.byID[c.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate champion id %d", domain.ErrConfiguration, c.ID)
		}
		key := Fold(c.Name)
		if key == "" {
			return nil, fmt.Errorf("%w: champion %d has no name", domain.ErrConfiguration, c.ID)
		}
		if other, dup := d.byName[key]; dup {
			return nil, fmt.Errorf("%w: champions %d and %d share the name %q", domain.ErrConfiguration, other, c.ID, c.Name)
		}
		if len(c.Roles) == 0 {
			return nil, fmt.Errorf("%w: champion %q has no roles", domain.ErrConfiguration, c.Name)
		}
		for r := range c.Roles {
			if !r.Valid() {
				return nil, fmt.Errorf("%w: champion %q has unknown role %q", domain.ErrConfiguration, c.Name, r)
			}
		}
		d.byID[c.ID] = c
		d.byName[key] = c.ID
		d.ids = append(d.ids, c.ID)
	}
	slices.Sort(d.ids)
	return d, nil
}

// Resolve looks ref up as a numeric id first, then as a name.
func (d *Directory) Resolve(ref string) (domain.Champion, error) {
	ref = strings.TrimSpace(ref)
	if id, err := strconv.Atoi(ref); err == nil {
		return d.ByID(id)
	}
	if id, ok := d.byName[Fold(ref)]; ok {
		return d.byID[id], nil
	}
	return domain.Champion{}, fmt.Errorf("%w: %q", domain.ErrUnknownChampion, ref)
}

func (d *Directory) ByID(id int) (domain.Champion, error) {
	c, ok := d.byID[id]
	if !ok {
		return domain.Champion{}, fmt.Errorf("%w: id %d", domain.ErrUnknownChampion, id)
	}
	return c, nil
}

// ChampionIDs returns every id in ascending order. Callers must not modify the
// slice.
func (d *Directory) ChampionIDs() []int {
	return slices.Clip(d.ids)
}

func (d *Directory) Contains(id int) bool {
	_, ok := d.byID[id]
	return ok
}

// All returns the champions ordered by id.
func (d *Directory) All() []domain.Champion {
	out := make([]domain.Champion, 0, len(d.ids))
	for _, id := range d.ids {
		out = append(out, d.byID[id])
	}
	return out
}

func (d *Directory) Len() int { return len(d.ids) }

// Fold normalises a champion name for lookup: accents and punctuation are
// dropped and case is folded, so "Kai'Sa", "kaisa" and "KAÏSA" all match.
func Fold(name string) string {
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		runes.Remove(runes.Predicate(func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})),
		norm.NFC,
	)
	out, _, err := transform.String(t, name)
	if err != nil {
		out = name
	}
	return cases.Fold().String(out)
}
