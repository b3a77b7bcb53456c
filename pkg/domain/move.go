package domain

import "fmt"

// Move is the head displacement applied after a write.
type Move int8

const (
	MoveLeft  Move = -1
	MoveRight Move = 1
)

// ParseMove converts the description token ("L" or "R") into a Move.
func ParseMove(token string) (Move, error) {
	switch token {
	case "L":
		return MoveLeft, nil
	case "R":
		return MoveRight, nil
	default:
		return 0, fmt.Errorf("invalid move %q (expected L or R)", token)
	}
}

func (m Move) String() string {
	switch m {
	case MoveLeft:
		return "L"
	case MoveRight:
		return "R"
	default:
		return fmt.Sprintf("Move(%d)", int8(m))
	}
}

// Role tags a state. Every state has exactly one role.
type Role uint8

const (
	RoleOrdinary Role = iota
	RoleStart
	RoleAccept
	RoleReject
)

// ParseRoleMarker converts a role marker ("+" or "-") into a Role.
func ParseRoleMarker(marker string) (Role, error) {
	switch marker {
	case MarkerAccept:
		return RoleAccept, nil
	case MarkerReject:
		return RoleReject, nil
	default:
		return RoleOrdinary, fmt.Errorf("unrecognized role marker %q (expected %s or %s)", marker, MarkerAccept, MarkerReject)
	}
}

// IsTerminal reports whether a state with this role halts the machine.
func (r Role) IsTerminal() bool {
	return r == RoleAccept || r == RoleReject
}

func (r Role) String() string {
	switch r {
	case RoleOrdinary:
		return "ordinary"
	case RoleStart:
		return "start"
	case RoleAccept:
		return "accept"
	case RoleReject:
		return "reject"
	default:
		return "unknown"
	}
}
