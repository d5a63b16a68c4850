package model

// AdminLevel is the privilege level carried in a session.
type AdminLevel int

const (
	LevelUser AdminLevel = iota
	LevelAdmin
	LevelOwner
)

// IsAdmin reports whether the level may manage booking requests.
func (l AdminLevel) IsAdmin() bool { return l == LevelAdmin || l == LevelOwner }

// Session is the acting identity supplied by the session provider.  It
// is trusted as already authenticated.
type Session struct {
	Email string
	Admin AdminLevel
}
