// Package match sequences a ten-seat mafia game: it deals roles, scripts the
// phases of every round, records the players' ballots and resolves exiles and
// night kills.
//
// A Match performs no I/O and has no locks. The host serializes every call,
// waits out Phase().Duration() and then calls Advance.
package match

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// Source picks a uniformly random integer in [0, n).
type Source interface {
	IntN(n int) int
}

type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// PhaseListener is told about every phase the match installs.
type PhaseListener func(Phase)

// Option configures a Match.
type Option func(*Match)

// WithListener sets the phase-change callback.
func WithListener(fn PhaseListener) Option {
	return func(m *Match) { m.listener = fn }
}

// WithSource replaces the process-wide random source used for the deal.
func WithSource(src Source) Option {
	return func(m *Match) { m.src = src }
}

// WithClock replaces time.Now for ballot timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Match) { m.now = now }
}

// WithTimings overrides phase durations; kinds missing from t keep the default.
func WithTimings(t Timings) Option {
	return func(m *Match) {
		for k, d := range t {
			m.timings[k] = d
		}
	}
}

// Match is the aggregate root of one game.
type Match struct {
	table    [SeatCount]*Player
	phase    Phase
	round    *Round
	roundNo  int
	listener PhaseListener
	src      Source
	now      func() time.Time
	timings  Timings
	seq      uint64
}

// New seats ids in order, deals the roles and opens the first card pick.
func New(ids [SeatCount]string, opts ...Option) *Match {
	m := &Match{
		src:     globalSource{},
		now:     time.Now,
		timings: DefaultTimings(),
	}
	for _, opt := range opts {
		opt(m)
	}
	roles := shuffleRoles(m.src)
	for i, id := range ids {
		m.table[i] = &Player{UserID: id, Role: roles[i], Alive: true}
	}
	m.phase = m.cardPick(FirstSeat)
	m.round = newRound(FirstSeat)
	return m
}

// Start reports the initial phase to the listener.
func (m *Match) Start() {
	m.notify()
}

// Phase returns the current phase.
func (m *Match) Phase() Phase { return m.phase }

// RoundNumber counts completed day/night cycles, starting at 0.
func (m *Match) RoundNumber() int { return m.roundNo }

// Round returns the live round. Callers must treat it as read-only.
func (m *Match) Round() *Round { return m.round }

// Player returns a copy of the player at seat.
func (m *Match) Player(seat Seat) Player {
	return *m.player(seat)
}

// Role returns the role held at seat.
func (m *Match) Role(seat Seat) Role { return m.player(seat).Role }

// IsAlive reports whether the player at seat is still in the game.
func (m *Match) IsAlive(seat Seat) bool { return m.player(seat).Alive }

// SeatOf finds the seat bound to userID.
func (m *Match) SeatOf(userID string) (Seat, bool) {
	for i, p := range m.table {
		if p.UserID == userID {
			return Seat(i + 1), true
		}
	}
	return 0, false
}

// AliveCount returns the number of seats still in the game.
func (m *Match) AliveCount() int {
	n := 0
	for _, p := range m.table {
		if p.Alive {
			n++
		}
	}
	return n
}

// AliveEvilCount returns the number of living mafia team seats.
func (m *Match) AliveEvilCount() int {
	n := 0
	for _, p := range m.table {
		if p.Alive && p.Role.IsEvil() {
			n++
		}
	}
	return n
}

// NextAliveSeat returns the first living seat after seat, going around the
// table. It panics when nobody is alive.
func (m *Match) NextAliveSeat(seat Seat) Seat {
	candidate := seat.Next()
	for i := 0; i < SeatCount; i++ {
		if m.player(candidate).Alive {
			return candidate
		}
		candidate = candidate.Next()
	}
	panic("match: no alive seat at the table")
}

func (m *Match) player(seat Seat) *Player {
	if !seat.Valid() {
		panic(fmt.Sprintf("match: seat %d out of range", seat))
	}
	return m.table[seat.index()]
}

func (m *Match) setPhase(p Phase) {
	m.phase = p
	m.notify()
}

func (m *Match) notify() {
	if m.listener != nil {
		m.listener(m.phase)
	}
}

func (m *Match) stamp() (time.Time, uint64) {
	m.seq++
	return m.now(), m.seq
}
