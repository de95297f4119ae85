package match

import (
	"slices"
	"time"
)

// Outcome is the state of the win condition.
type Outcome string

const (
	Undecided    Outcome = ""
	CiviliansWin Outcome = "civilians"
	MafiaWins    Outcome = "mafia"
)

// Outcome reports whether either team has won. It does not change the phase;
// the host stops calling Advance once the result is decided.
func (m *Match) Outcome() Outcome {
	evil := m.AliveEvilCount()
	switch {
	case evil == 0:
		return CiviliansWin
	case evil >= m.AliveCount()-evil:
		return MafiaWins
	default:
		return Undecided
	}
}

// SeatState is the plain-data view of one seat.
type SeatState struct {
	Seat   Seat   `json:"seat"`
	UserID string `json:"user_id"`
	Role   Role   `json:"role"`
	Alive  bool   `json:"alive"`
	Fouls  int    `json:"fouls"`
}

// Snapshot is a plain-data view of the match for persistence and rendering.
type Snapshot struct {
	Round    int           `json:"round"`
	OpenedBy Seat          `json:"opened_by"`
	Phase    Kind          `json:"phase"`
	Payload  Payload       `json:"payload"`
	Duration time.Duration `json:"duration"`
	Seats    []SeatState   `json:"seats"`
	Outcome  Outcome       `json:"outcome,omitempty"`
}

// Snapshot captures the current state.
func (m *Match) Snapshot() Snapshot {
	snap := Snapshot{
		Round:    m.roundNo,
		OpenedBy: m.round.OpenedBy,
		Phase:    m.phase.Kind(),
		Payload:  PayloadOf(m.phase),
		Duration: m.phase.Duration(),
		Seats:    make([]SeatState, 0, SeatCount),
		Outcome:  m.Outcome(),
	}
	for _, s := range Seats() {
		p := m.player(s)
		snap.Seats = append(snap.Seats, SeatState{Seat: s, UserID: p.UserID, Role: p.Role, Alive: p.Alive, Fouls: p.Fouls})
	}
	return snap
}

// Payload flattens the data a phase carries. Subject is the seat the phase is
// about (picker, speaker, nominee on the floor, victim or exile); Seats lists
// the nominations, splitees or queued speakers; Next is what a Delay leads to.
type Payload struct {
	Subject    Seat   `json:"subject,omitempty"`
	Seats      []Seat `json:"seats,omitempty"`
	AfterSplit bool   `json:"after_split,omitempty"`
	Next       Kind   `json:"next,omitempty"`
}

// PayloadOf extracts the payload of p.
func PayloadOf(p Phase) Payload {
	var pl Payload
	switch p := p.(type) {
	case CardPick:
		pl.Subject = p.Seat
	case Delay:
		pl.Next = p.Next.Kind()
	case Day:
		pl.Subject = p.Speaker
	case VotingAnnounced:
		pl.Seats = nomineeSeats(p.Nominations)
		pl.AfterSplit = p.AfterSplit
	case VotingAgainstPlayer:
		pl.Subject = p.Nomination.Nominee
		pl.Seats = nomineeSeats(p.Queue)
		pl.AfterSplit = p.AfterSplit
	case VictimAnnounced:
		pl.Subject = p.Victim
	case VictimThinks:
		pl.Subject = p.Victim
	case VictimSpeaks:
		pl.Subject = p.Victim
	case ExileAnnounced:
		pl.Subject = p.Exile
	case ExileSpeaks:
		pl.Subject = p.Exile
		pl.Seats = slices.Clone(p.Queue)
	case SplitAnnounced:
		pl.Seats = nomineeSeats(p.Splitees)
	case SpliteeSpeaks:
		pl.Subject = p.Splitee.Nominee
		pl.Seats = nomineeSeats(p.Queue)
	case VotingAgainstSplitees:
		pl.Seats = nomineeSeats(p.Splitees)
	}
	return pl
}

func nomineeSeats(ns []*Nomination) []Seat {
	if len(ns) == 0 {
		return nil
	}
	out := make([]Seat, 0, len(ns))
	for _, n := range ns {
		out = append(out, n.Nominee)
	}
	return out
}
