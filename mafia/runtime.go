package main

import (
	"github.com/gosuda/portal-mafia/mafia/jobs"
	"github.com/gosuda/portal-mafia/mafia/match"
)

// jobTableAdapter bridges Table to jobs.TableState.
type jobTableAdapter struct {
	t *Table
}

func (t *Table) jobAdapter() jobs.TableState {
	return &jobTableAdapter{t: t}
}

func (a *jobTableAdapter) Name() string { return a.t.id }

func (a *jobTableAdapter) IsAlive(seat match.Seat) bool { return a.t.match.IsAlive(seat) }

func (a *jobTableAdapter) RoleOf(seat match.Seat) match.Role { return a.t.match.Role(seat) }

func (a *jobTableAdapter) PushSystem(seat match.Seat, msg string) {
	a.t.pushSystem(seat, msg)
}

func (a *jobTableAdapter) BroadcastTeam(team jobs.Team, ev jobs.ServerEvent) {
	a.t.broadcastTeam(team, ServerEvent{Type: ev.Type, Room: ev.Room, Body: ev.Body})
}

func (a *jobTableAdapter) Shoot(killer, victim match.Seat) bool {
	return a.t.match.Shoot(killer, victim)
}

func (a *jobTableAdapter) MarkChecked(actor match.Seat) bool {
	round := a.t.match.RoundNumber()
	if used, ok := a.t.checked[actor]; ok && used == round {
		return false
	}
	a.t.checked[actor] = round
	return true
}
