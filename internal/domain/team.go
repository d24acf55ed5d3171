package domain

import "fmt"

type Team string

const (
	TeamBlue Team = "blue"
	TeamRed  Team = "red"
)

var Teams = []Team{TeamBlue, TeamRed}

// Opponent returns the other side of the draft.
func (t Team) Opponent() Team {
	if t == TeamBlue {
		return TeamRed
	}
	return TeamBlue
}

func (t Team) Valid() bool {
	return t == TeamBlue || t == TeamRed
}

func ParseTeam(s string) (Team, error) {
	switch Team(s) {
	case TeamBlue, TeamRed:
		return Team(s), nil
	default:
		return "", fmt.Errorf("unknown team %q", s)
	}
}
