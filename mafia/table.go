package main

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gosuda/portal-mafia/mafia/jobs"
	"github.com/gosuda/portal-mafia/mafia/match"
	"github.com/gosuda/portal-mafia/mafia/store"
)

// Table runs one match. Every engine call happens on the loop goroutine, so
// the match itself needs no locking.
type Table struct {
	id      string
	manager *TableManager
	match   *match.Match
	clients map[string]*Client

	// checked remembers the round in which a seat last used its night check.
	checked map[match.Seat]int

	commands  chan func(*Table)
	closing   chan struct{}
	closeOnce sync.Once

	phaseTimer *time.Timer
	timerGen   uint64
	finished   bool

	last atomic.Pointer[store.Record]
}

func newTable(id string, ids [match.SeatCount]string, clients map[string]*Client, mgr *TableManager) *Table {
	t := &Table{
		id:       id,
		manager:  mgr,
		clients:  clients,
		checked:  make(map[match.Seat]int),
		commands: make(chan func(*Table), 256),
		closing:  make(chan struct{}),
	}
	t.match = match.New(ids, match.WithTimings(mgr.timings), match.WithListener(t.onPhase))
	return t
}

func (t *Table) loop() {
	for {
		select {
		case fn := <-t.commands:
			fn(t)
		case <-t.closing:
			if t.phaseTimer != nil {
				t.phaseTimer.Stop()
			}
			return
		}
	}
}

func (t *Table) enqueue(fn func(*Table)) {
	select {
	case t.commands <- fn:
	case <-t.closing:
	}
}

func (t *Table) close() {
	t.closeOnce.Do(func() { close(t.closing) })
}

// start greets every seat with its number and card, then opens the first
// card pick.
func (t *Table) start() {
	for _, s := range match.Seats() {
		p := t.match.Player(s)
		t.pushTo(s, ServerEvent{Type: EventTypeSeat, Room: t.id, Body: fmt.Sprintf("%s번 자리에 앉았습니다.", s), State: t.stateFor(s)})
		t.pushRole(s)
		log.Debug().Str("match", t.id).Str("user", p.UserID).Int("seat", int(s)).Msg("[mafia] seated")
	}
	t.match.Start()
}

func (t *Table) onPhase(p match.Phase) {
	now := time.Now()
	rec := store.Record{MatchID: t.id, Snapshot: t.match.Snapshot(), InstalledAt: now, Deadline: now.Add(p.Duration())}
	t.last.Store(&rec)
	if err := t.manager.store.Save(rec); err != nil {
		log.Warn().Err(err).Str("match", t.id).Msg("[mafia] save snapshot")
	}
	log.Debug().Str("match", t.id).Str("phase", string(p.Kind())).Dur("duration", p.Duration()).Msg("[mafia] phase")

	t.broadcast(ServerEvent{Type: EventTypePhase, Room: t.id, Phase: string(p.Kind()), Body: describePhase(p), State: viewPhase(p, now)})
	if pick, ok := p.(match.CardPick); ok {
		t.pushSystem(pick.Seat, "직업 카드를 확인하세요. 다른 자리와 카드를 바꿀 수 있습니다.")
	}

	if outcome := t.match.Outcome(); outcome != match.Undecided {
		t.finish(outcome)
		return
	}
	t.setPhaseTimer(p.Duration())
}

func (t *Table) setPhaseTimer(d time.Duration) {
	if t.phaseTimer != nil {
		t.phaseTimer.Stop()
	}
	t.timerGen++
	gen := t.timerGen
	t.phaseTimer = time.AfterFunc(d, func() {
		t.enqueue(func(t *Table) {
			if gen == t.timerGen {
				t.advance()
			}
		})
	})
}

func (t *Table) advance() {
	if t.finished {
		return
	}
	t.match.Advance()
}

func (t *Table) finish(outcome match.Outcome) {
	t.finished = true
	if t.phaseTimer != nil {
		t.phaseTimer.Stop()
	}
	body := "시민 팀이 승리했습니다!"
	if outcome == match.MafiaWins {
		body = "마피아 팀이 승리했습니다!"
	}
	t.broadcast(ServerEvent{Type: EventTypeResult, Room: t.id, Body: body, State: t.last.Load()})
	t.broadcastRoles()
	log.Info().Str("match", t.id).Str("outcome", string(outcome)).Int("round", t.match.RoundNumber()).Msg("[mafia] match finished")
	t.manager.removeTable(t.id, t)
	t.close()
}

func (t *Table) broadcastRoles() {
	arr := make([]string, 0, match.SeatCount)
	for _, s := range match.Seats() {
		p := t.match.Player(s)
		arr = append(arr, fmt.Sprintf("%s번 %s => %s", s, p.UserID, jobs.Build(p.Role).Name()))
	}
	t.broadcast(ServerEvent{Type: EventTypeLog, Room: t.id, Body: "직업 공개: " + strings.Join(arr, ", ")})
}

func (t *Table) reconnect(c *Client) {
	seat, ok := t.match.SeatOf(c.name)
	if !ok {
		return
	}
	t.clients[c.name] = c
	t.broadcast(ServerEvent{Type: EventTypeLog, Room: t.id, Body: fmt.Sprintf("%s번 자리 %s 님이 다시 접속했습니다.", seat, c.name)})
	t.pushRole(seat)
	t.sendState(c, seat)
}

func (t *Table) disconnect(c *Client) {
	if current, ok := t.clients[c.name]; !ok || current != c {
		return
	}
	delete(t.clients, c.name)
	if seat, ok := t.match.SeatOf(c.name); ok {
		t.broadcast(ServerEvent{Type: EventTypeLog, Room: t.id, Body: fmt.Sprintf("%s번 자리 %s 님의 연결이 끊겼습니다.", seat, c.name)})
	}
}

func (t *Table) handleMessage(c *Client, msg ClientMessage) {
	seat, ok := t.match.SeatOf(c.name)
	if !ok || t.finished {
		c.pushSystem("참여 중인 테이블이 없습니다.")
		return
	}
	target := match.Seat(msg.Target)
	switch msg.Type {
	case "chat":
		t.handleChat(seat, msg.Text)
	case "nominate":
		t.handleNominate(seat, target)
	case "vote":
		if !t.match.VoteAgainstPlayer(seat, target) {
			c.pushSystem("지금은 이 자리에 투표할 수 없습니다.")
			return
		}
		t.broadcast(ServerEvent{Type: EventTypeLog, Room: t.id, Body: fmt.Sprintf("%s번 자리가 %s번 자리에 투표했습니다.", seat, target)})
	case "split_vote":
		if !t.match.VoteAgainstSplitees(seat) {
			c.pushSystem("지금은 동점자 추방 투표를 할 수 없습니다.")
			return
		}
		t.broadcast(ServerEvent{Type: EventTypeLog, Room: t.id, Body: fmt.Sprintf("%s번 자리가 동점자 모두의 추방에 찬성했습니다.", seat)})
	case "action":
		t.handleAction(seat, target)
	case "swap":
		if !t.match.SwapRole(seat, target) {
			c.pushSystem("카드를 바꿀 수 없습니다.")
			return
		}
		t.pushRole(seat)
		t.pushRole(target)
	case "sync":
		t.sendState(c, seat)
	default:
		c.pushSystem("알 수 없는 명령입니다.")
	}
}

func (t *Table) handleNominate(seat, target match.Seat) {
	supporting := target.Valid() && t.match.Round().IsNominated(target)
	if !t.match.Nominate(seat, target) {
		t.pushSystem(seat, "지금은 지목할 수 없습니다.")
		return
	}
	body := fmt.Sprintf("%s번 자리가 %s번 자리를 지목했습니다.", seat, target)
	if supporting {
		body = fmt.Sprintf("%s번 자리가 %s번 자리의 지목에 동의했습니다.", seat, target)
	}
	t.broadcast(ServerEvent{Type: EventTypeLog, Room: t.id, Body: body})
}

func (t *Table) handleAction(seat, target match.Seat) {
	if !target.Valid() {
		t.pushSystem(seat, "대상을 찾을 수 없습니다.")
		return
	}
	if !t.match.IsAlive(seat) {
		t.pushSystem(seat, "사망자는 행동할 수 없습니다.")
		return
	}
	job := t.jobOf(seat)
	ctx := &jobs.Context{
		Table:  t.jobAdapter(),
		Actor:  seat,
		Target: target,
		Phase:  t.match.Phase().Kind(),
	}
	if err := job.NightAction(ctx); err != nil {
		t.pushSystem(seat, err.Error())
	}
}

func (t *Table) handleChat(seat match.Seat, text string) {
	text = sanitizeChat(text)
	if text == "" {
		return
	}
	author := t.match.Player(seat).UserID
	if !t.match.IsAlive(seat) {
		t.pushSystem(seat, "사망자는 채팅할 수 없습니다.")
		return
	}
	if !isNight(t.match.Phase().Kind()) {
		t.broadcast(ServerEvent{Type: EventTypeChat, Room: t.id, Author: author, Body: text})
		return
	}
	if t.jobOf(seat).Team() != jobs.TeamMafia {
		t.pushSystem(seat, "밤에는 채팅이 제한됩니다.")
		return
	}
	t.broadcastTeam(jobs.TeamMafia, ServerEvent{Type: EventTypeChat, Room: t.id, Author: author, Body: "[마피아] " + text})
}

// tableState is what one seat is allowed to see.
type tableState struct {
	Match   string        `json:"match"`
	Round   int           `json:"round"`
	Seat    match.Seat    `json:"seat"`
	Role    string        `json:"role"`
	Team    []match.Seat  `json:"team,omitempty"`
	Seats   []seatView    `json:"seats"`
	Phase   *PhaseView    `json:"phase,omitempty"`
	Outcome match.Outcome `json:"outcome,omitempty"`
}

type seatView struct {
	Seat   match.Seat `json:"seat"`
	UserID string     `json:"user_id"`
	Alive  bool       `json:"alive"`
}

func (t *Table) stateFor(seat match.Seat) tableState {
	role := t.match.Role(seat)
	st := tableState{
		Match:   t.id,
		Round:   t.match.RoundNumber(),
		Seat:    seat,
		Role:    t.jobOf(seat).Name(),
		Outcome: t.match.Outcome(),
	}
	for _, s := range match.Seats() {
		p := t.match.Player(s)
		st.Seats = append(st.Seats, seatView{Seat: s, UserID: p.UserID, Alive: p.Alive})
		if role.IsEvil() && p.Role.IsEvil() && s != seat {
			st.Team = append(st.Team, s)
		}
	}
	if rec := t.last.Load(); rec != nil {
		v := viewPhase(t.match.Phase(), rec.InstalledAt)
		st.Phase = &v
	}
	return st
}

func (t *Table) sendState(c *Client, seat match.Seat) {
	c.push(ServerEvent{Type: EventTypeState, Room: t.id, State: t.stateFor(seat)})
}

// jobOf builds the job for the card seat holds now; cards can move during
// the card picks.
func (t *Table) jobOf(seat match.Seat) jobs.Job {
	return jobs.Build(t.match.Role(seat))
}

func (t *Table) pushRole(seat match.Seat) {
	job := t.jobOf(seat)
	t.pushTo(seat, ServerEvent{Type: EventTypeRole, Room: t.id, Body: fmt.Sprintf("당신의 직업은 %s 입니다. %s", job.Name(), job.Description())})
}

func (t *Table) pushTo(seat match.Seat, ev ServerEvent) {
	if c := t.clients[t.match.Player(seat).UserID]; c != nil {
		c.push(ev)
	}
}

func (t *Table) pushSystem(seat match.Seat, body string) {
	t.pushTo(seat, ServerEvent{Type: EventTypeLog, Room: t.id, Body: body})
}

func (t *Table) broadcast(ev ServerEvent) {
	for _, c := range t.clients {
		c.push(ev)
	}
}

// broadcastTeam reaches the living seats of team only.
func (t *Table) broadcastTeam(team jobs.Team, ev ServerEvent) {
	for _, s := range match.Seats() {
		if t.match.IsAlive(s) && t.jobOf(s).Team() == team {
			t.pushTo(s, ev)
		}
	}
}
