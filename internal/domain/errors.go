package domain

import (
	"errors"
	"fmt"
)

var (
	ErrIllegalAction   = errors.New("illegal action")
	ErrUnknownChampion = errors.New("unknown champion")
	ErrConfiguration   = errors.New("invalid configuration")
	ErrSignalProvider  = errors.New("signal unavailable")
	ErrNotFound        = errors.New("not found")
)

// Refinements of ErrIllegalAction. errors.Is matches both the refinement and
// ErrIllegalAction itself.
var (
	ErrWrongTurn           = fmt.Errorf("%w: wrong turn", ErrIllegalAction)
	ErrChampionUnavailable = fmt.Errorf("%w: champion already banned or picked", ErrIllegalAction)
	ErrRoleUnavailable     = fmt.Errorf("%w: role slot unavailable", ErrIllegalAction)
	ErrDraftComplete       = fmt.Errorf("%w: draft already complete", ErrIllegalAction)
)

// ErrorCode is a stable machine-readable name for err, used on the wire.
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrDraftComplete):
		return "draft_complete"
	case errors.Is(err, ErrWrongTurn):
		return "wrong_turn"
	case errors.Is(err, ErrChampionUnavailable):
		return "champion_unavailable"
	case errors.Is(err, ErrRoleUnavailable):
		return "role_unavailable"
	case errors.Is(err, ErrIllegalAction):
		return "illegal_action"
	case errors.Is(err, ErrUnknownChampion):
		return "unknown_champion"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrSignalProvider):
		return "signal_unavailable"
	default:
		return "internal"
	}
}
