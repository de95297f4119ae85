package jobs

import "github.com/gosuda/portal-mafia/mafia/match"

// Team represents the alignment of a role.
type Team string

const (
	TeamCitizen Team = "citizen"
	TeamMafia   Team = "mafia"
)

const (
	EventTypeLog = "log"
)

// Context carries runtime information for job actions.
type Context struct {
	Table  TableState
	Actor  match.Seat
	Target match.Seat
	Phase  match.Kind
}

// TableState is implemented by the table adapter so jobs can act on the match.
type TableState interface {
	Name() string
	IsAlive(seat match.Seat) bool
	RoleOf(seat match.Seat) match.Role
	PushSystem(seat match.Seat, msg string)
	BroadcastTeam(team Team, ev ServerEvent)
	Shoot(killer, victim match.Seat) bool
	// MarkChecked records that actor used its check this round and reports
	// whether it had not done so yet.
	MarkChecked(actor match.Seat) bool
}

// ServerEvent mirrors the table broadcast payload (subset used by jobs).
type ServerEvent struct {
	Type string
	Room string
	Body string
}

// Job represents a playable role.
type Job interface {
	Name() string
	Team() Team
	Description() string
	NightAction(ctx *Context) error
}

// Factory creates a job instance from spec metadata.
type Factory func(spec Spec) Job

// Spec defines the metadata shown on a role card.
type Spec struct {
	Role match.Role
	Name string
	Team Team
	Desc string
}
