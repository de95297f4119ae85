package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/gosuda/portal-mafia/mafia/match"
)

const (
	EventTypeLog    = "log"
	EventTypeChat   = "chat"
	EventTypePhase  = "phase"
	EventTypeRole   = "role"
	EventTypeSeat   = "seat"
	EventTypeQueue  = "queue"
	EventTypeState  = "state"
	EventTypeResult = "result"
)

// ClientMessage is the envelope received from websocket clients. Target is a
// seat number for the seat-addressed commands.
type ClientMessage struct {
	Type   string `json:"type"`
	Text   string `json:"text,omitempty"`
	Target int    `json:"target,omitempty"`
}

// ServerEvent is pushed to clients for any table update.
type ServerEvent struct {
	Type   string `json:"type"`
	Body   string `json:"body,omitempty"`
	Room   string `json:"room,omitempty"`
	Phase  string `json:"phase,omitempty"`
	State  any    `json:"state,omitempty"`
	Author string `json:"author,omitempty"`
}

// PhaseView flattens a phase for the wire. Seat is the phase's subject
// (picker, speaker, nominee, victim or exile); Seats lists the nominees,
// splitees or queued speakers it carries.
type PhaseView struct {
	Kind       match.Kind   `json:"kind"`
	DurationMS int64        `json:"duration_ms"`
	Deadline   time.Time    `json:"deadline"`
	Seat       match.Seat   `json:"seat,omitempty"`
	Seats      []match.Seat `json:"seats,omitempty"`
	AfterSplit bool         `json:"after_split,omitempty"`
	Next       match.Kind   `json:"next,omitempty"`
}

func viewPhase(p match.Phase, installed time.Time) PhaseView {
	pl := match.PayloadOf(p)
	return PhaseView{
		Kind:       p.Kind(),
		DurationMS: p.Duration().Milliseconds(),
		Deadline:   installed.Add(p.Duration()),
		Seat:       pl.Subject,
		Seats:      pl.Seats,
		AfterSplit: pl.AfterSplit,
		Next:       pl.Next,
	}
}

func nominees(ns []*match.Nomination) []match.Seat {
	out := make([]match.Seat, 0, len(ns))
	for _, n := range ns {
		out = append(out, n.Nominee)
	}
	return out
}

func seatList(seats []match.Seat) string {
	parts := make([]string, 0, len(seats))
	for _, s := range seats {
		parts = append(parts, s.String()+"번")
	}
	return strings.Join(parts, ", ")
}

// describePhase is the announcement shown when p is installed.
func describePhase(p match.Phase) string {
	switch p := p.(type) {
	case match.CardPick:
		return fmt.Sprintf("%s번 자리가 직업 카드를 확인합니다.", p.Seat)
	case match.Delay:
		return "잠시 후 진행됩니다."
	case match.ContractNight:
		return "첫 번째 밤입니다. 마피아 팀이 서로를 확인합니다."
	case match.Day:
		return fmt.Sprintf("%s번 자리의 발언 시간입니다.", p.Speaker)
	case match.VotingAnnounced:
		if p.AfterSplit {
			return "재투표 대상: " + seatList(nominees(p.Nominations))
		}
		return "투표 대상: " + seatList(nominees(p.Nominations))
	case match.VotingAgainstPlayer:
		return fmt.Sprintf("%s번 자리에 대한 투표를 진행합니다.", p.Nomination.Nominee)
	case match.MafiaShoots:
		return "밤이 되었습니다. 마피아 팀이 대상을 지목합니다."
	case match.GodfatherReveals:
		return "대부가 보안관을 찾습니다."
	case match.SheriffReveals:
		return "보안관이 마피아를 찾습니다."
	case match.VictimAnnounced:
		return fmt.Sprintf("%s번 자리가 살해당했습니다.", p.Victim)
	case match.VictimThinks:
		return fmt.Sprintf("%s번 자리가 마지막 발언을 준비합니다.", p.Victim)
	case match.VictimSpeaks:
		return fmt.Sprintf("%s번 자리의 마지막 발언입니다.", p.Victim)
	case match.ShotMissAnnounced:
		return "밤사이 아무 일도 일어나지 않았습니다."
	case match.ExileAnnounced:
		return fmt.Sprintf("%s번 자리가 추방되었습니다.", p.Exile)
	case match.ExileSpeaks:
		return fmt.Sprintf("%s번 자리의 마지막 발언입니다.", p.Exile)
	case match.SplitAnnounced:
		return "동점입니다: " + seatList(nominees(p.Splitees))
	case match.SpliteeSpeaks:
		return fmt.Sprintf("%s번 자리의 변론 시간입니다.", p.Splitee.Nominee)
	case match.VotingAgainstSplitees:
		return seatList(nominees(p.Splitees)) + " 모두를 추방할지 투표합니다."
	default:
		return string(p.Kind())
	}
}

// isNight reports whether chat is restricted to the mafia team.
func isNight(k match.Kind) bool {
	switch k {
	case match.KindContractNight, match.KindMafiaShoots, match.KindGodfatherReveals, match.KindSheriffReveals:
		return true
	}
	return false
}
