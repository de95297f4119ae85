package main

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/portal-mafia/mafia/match"
	"github.com/gosuda/portal-mafia/mafia/queue"
	"github.com/gosuda/portal-mafia/mafia/store"
)

var (
	errAlreadyJoined = errors.New("player already queued or seated")
	errNotQueued     = errors.New("player is not queued")
)

const (
	// matchInterval is how often a short queue is promoted.
	matchInterval = 5 * time.Second
	pruneInterval = time.Hour
)

// TableManager owns the matchmaking queue and every running table.
type TableManager struct {
	mu      sync.Mutex
	queue   *queue.Queue
	clients map[string]*Client
	tables  map[string]*Table
	players map[string]*Table

	store     *store.Store
	timings   match.Timings
	retention time.Duration

	stop chan struct{}
	once sync.Once
}

// NewTableManager starts the promotion loop. Stored snapshots of matches that
// are no longer running are dropped once older than retention; zero keeps
// them forever.
func NewTableManager(st *store.Store, timings match.Timings, retention time.Duration) *TableManager {
	m := &TableManager{
		queue:     queue.New(nil),
		clients:   make(map[string]*Client),
		tables:    make(map[string]*Table),
		players:   make(map[string]*Table),
		store:     st,
		timings:   timings,
		retention: retention,
		stop:      make(chan struct{}),
	}
	go m.promoteLoop()
	return m
}

func (m *TableManager) promoteLoop() {
	ticker := time.NewTicker(matchInterval)
	defer ticker.Stop()
	prune := time.NewTicker(pruneInterval)
	defer prune.Stop()
	m.pruneExpired()
	for {
		select {
		case <-ticker.C:
			m.tryMatch()
		case <-prune.C:
			m.pruneExpired()
		case <-m.stop:
			return
		}
	}
}

// Attach registers a freshly connected client. A user still seated at a
// running table is sent back to it; everyone else enters the queue.
func (m *TableManager) Attach(c *Client) error {
	m.mu.Lock()
	if _, ok := m.clients[c.name]; ok {
		m.mu.Unlock()
		return errAlreadyJoined
	}
	m.clients[c.name] = c
	table := m.players[c.name]
	m.mu.Unlock()

	if table != nil {
		table.enqueue(func(t *Table) { t.reconnect(c) })
		return nil
	}
	if err := m.Enqueue(c.name); err != nil {
		log.Warn().Err(err).Str("user", c.name).Msg("[mafia] enqueue on attach")
	}
	return nil
}

// Detach forgets a disconnected client. Its seat, if any, stays in play.
func (m *TableManager) Detach(c *Client) {
	m.mu.Lock()
	if current, ok := m.clients[c.name]; !ok || current != c {
		m.mu.Unlock()
		return
	}
	delete(m.clients, c.name)
	m.queue.Remove(c.name)
	table := m.players[c.name]
	m.mu.Unlock()
	if table != nil {
		table.enqueue(func(t *Table) { t.disconnect(c) })
	}
}

// Enqueue puts user in the matchmaking queue and tries to form a table.
func (m *TableManager) Enqueue(user string) error {
	m.mu.Lock()
	if _, seated := m.players[user]; seated || !m.queue.Add(user) {
		m.mu.Unlock()
		return errAlreadyJoined
	}
	c := m.clients[user]
	n := m.queue.Len()
	m.mu.Unlock()

	if c != nil {
		c.push(ServerEvent{Type: EventTypeQueue, Body: "매칭 대기열에 들어갔습니다.", State: queueState{Queued: n}})
	}
	m.tryMatch()
	return nil
}

// Dequeue takes user out of the matchmaking queue.
func (m *TableManager) Dequeue(user string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.queue.Remove(user) {
		return errNotQueued
	}
	return nil
}

type queueState struct {
	Queued  int           `json:"queued"`
	Tables  int           `json:"tables"`
	Waiting []queue.Entry `json:"waiting"`
}

func (m *TableManager) QueueState() queueState {
	m.mu.Lock()
	defer m.mu.Unlock()
	waiting := m.queue.Snapshot()
	return queueState{Queued: len(waiting), Tables: len(m.tables), Waiting: waiting}
}

func (m *TableManager) tryMatch() {
	m.mu.Lock()
	ids, ok := m.queue.TryMatch()
	if !ok {
		m.mu.Unlock()
		return
	}
	clients := make(map[string]*Client, len(ids))
	for _, id := range ids {
		if c := m.clients[id]; c != nil {
			clients[id] = c
		}
	}
	t := newTable(uuid.NewString(), ids, clients, m)
	m.tables[t.id] = t
	for _, id := range ids {
		m.players[id] = t
	}
	m.mu.Unlock()

	log.Info().Str("match", t.id).Strs("players", ids[:]).Msg("[mafia] table formed")
	go t.loop()
	t.enqueue(func(t *Table) { t.start() })
}

// RouteMessage handles queue commands itself and hands the rest to the
// client's table.
func (m *TableManager) RouteMessage(c *Client, msg ClientMessage) {
	switch msg.Type {
	case "queue":
		if err := m.Enqueue(c.name); err != nil {
			c.pushSystem("이미 대기열에 있거나 게임 중입니다.")
		}
		return
	case "leave":
		if err := m.Dequeue(c.name); err != nil {
			c.pushSystem("대기열에 있지 않습니다.")
			return
		}
		c.push(ServerEvent{Type: EventTypeQueue, Body: "대기열에서 나왔습니다."})
		return
	}

	m.mu.Lock()
	table := m.players[c.name]
	m.mu.Unlock()
	if table == nil {
		c.pushSystem("참여 중인 테이블이 없습니다.")
		return
	}
	table.enqueue(func(t *Table) {
		t.handleMessage(c, msg)
	})
}

// Lookup returns the latest snapshot of a match, live or stored.
func (m *TableManager) Lookup(id string) (store.Record, error) {
	m.mu.Lock()
	t := m.tables[id]
	m.mu.Unlock()
	if t != nil {
		if rec := t.last.Load(); rec != nil {
			return *rec, nil
		}
	}
	return m.store.Load(id)
}

// Matches lists the ids of running and stored matches.
func (m *TableManager) Matches() ([]string, error) {
	ids, err := m.store.List()
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	for id := range m.tables {
		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	m.mu.Unlock()
	slices.Sort(ids)
	return ids, nil
}

func (m *TableManager) pruneExpired() {
	if m.retention <= 0 {
		return
	}
	n, err := m.prune(time.Now().Add(-m.retention))
	if err != nil {
		log.Warn().Err(err).Msg("[mafia] prune snapshots")
		return
	}
	if n > 0 {
		log.Info().Int("deleted", n).Msg("[mafia] pruned old snapshots")
	}
}

// prune deletes the stored snapshots of matches that are not running and
// whose last phase was installed before cutoff.
func (m *TableManager) prune(cutoff time.Time) (int, error) {
	ids, err := m.store.List()
	if err != nil {
		return 0, err
	}
	deleted := 0
	for _, id := range ids {
		m.mu.Lock()
		_, live := m.tables[id]
		m.mu.Unlock()
		if live {
			continue
		}
		rec, err := m.store.Load(id)
		if err != nil {
			return deleted, fmt.Errorf("prune %s: %w", id, err)
		}
		if !rec.InstalledAt.Before(cutoff) {
			continue
		}
		if err := m.store.Delete(id); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

func (m *TableManager) Close() {
	m.once.Do(func() { close(m.stop) })
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, t := range m.tables {
		t.close()
		delete(m.tables, id)
	}
	m.players = make(map[string]*Table)
}

func (m *TableManager) removeTable(id string, t *Table) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if current, ok := m.tables[id]; ok && current == t {
		delete(m.tables, id)
	}
	for user, seated := range m.players {
		if seated == t {
			delete(m.players, user)
		}
	}
}
