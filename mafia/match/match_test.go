package match

import (
	"fmt"
	"math/rand/v2"
	"testing"
	"time"
)

// identitySource never swaps, so the deal equals the role template:
// seat 1 sheriff, 2-7 civilian, 8 godfather, 9-10 mafia.
type identitySource struct{}

func (identitySource) IntN(n int) int { return n - 1 }

type recordingSource struct {
	asked []int
}

func (r *recordingSource) IntN(n int) int {
	r.asked = append(r.asked, n)
	return 0
}

func tickingClock() func() time.Time {
	now := time.Date(2024, 1, 1, 20, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}

func testIDs() [SeatCount]string {
	var ids [SeatCount]string
	for i := range ids {
		ids[i] = fmt.Sprintf("user-%d", i+1)
	}
	return ids
}

func newTestMatch(opts ...Option) *Match {
	base := []Option{WithSource(identitySource{}), WithClock(tickingClock())}
	return New(testIDs(), append(base, opts...)...)
}

func advanceUntil(t *testing.T, m *Match, kind Kind) {
	t.Helper()
	for i := 0; i < 200; i++ {
		if m.Phase().Kind() == kind {
			return
		}
		m.Advance()
	}
	t.Fatalf("never reached %s, stuck at %s", kind, m.Phase().Kind())
}

func wantKind(t *testing.T, m *Match, kind Kind) {
	t.Helper()
	if got := m.Phase().Kind(); got != kind {
		t.Fatalf("expected phase %s, got %s", kind, got)
	}
}

func wantDelayTo(t *testing.T, m *Match, kind Kind) Phase {
	t.Helper()
	d, ok := m.Phase().(Delay)
	if !ok {
		t.Fatalf("expected delay before %s, got %s", kind, m.Phase().Kind())
	}
	if d.Next.Kind() != kind {
		t.Fatalf("expected delay before %s, got delay before %s", kind, d.Next.Kind())
	}
	return d.Next
}

func nominees(ns []*Nomination) []Seat {
	out := make([]Seat, 0, len(ns))
	for _, n := range ns {
		out = append(out, n.Nominee)
	}
	return out
}

func equalSeats(a, b []Seat) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSeatRing(t *testing.T) {
	if LastSeat.Next() != FirstSeat {
		t.Errorf("expected seat 10 to be followed by seat 1, got %d", LastSeat.Next())
	}
	if FirstSeat.Previous() != LastSeat {
		t.Errorf("expected seat 1 to be preceded by seat 10, got %d", FirstSeat.Previous())
	}
	for _, s := range Seats() {
		if s.Next().Previous() != s {
			t.Errorf("seat %d: previous of next is %d", s, s.Next().Previous())
		}
	}
	if len(Seats()) != SeatCount {
		t.Errorf("expected %d seats, got %d", SeatCount, len(Seats()))
	}
}

func TestShuffleRolesKeepsTheDeal(t *testing.T) {
	want := map[Role]int{RoleCivilian: 6, RoleSheriff: 1, RoleGodfather: 1, RoleMafia: 2}
	for seed := uint64(0); seed < 500; seed++ {
		roles := shuffleRoles(rand.New(rand.NewPCG(seed, seed*31+7)))
		got := make(map[Role]int)
		for _, r := range roles {
			got[r]++
		}
		for role, n := range want {
			if got[role] != n {
				t.Fatalf("seed %d: expected %d %s, got %d (%v)", seed, n, role, got[role], roles)
			}
		}
	}
}

func TestShuffleRolesDrawsFromLastIndexDown(t *testing.T) {
	src := &recordingSource{}
	shuffleRoles(src)
	want := []int{10, 9, 8, 7, 6, 5, 4, 3, 2}
	if len(src.asked) != len(want) {
		t.Fatalf("expected %d draws, got %d", len(want), len(src.asked))
	}
	for i := range want {
		if src.asked[i] != want[i] {
			t.Errorf("draw %d: expected bound %d, got %d", i, want[i], src.asked[i])
		}
	}
}

func TestNewMatchInitialState(t *testing.T) {
	var seen []Phase
	m := newTestMatch(WithListener(func(p Phase) { seen = append(seen, p) }))

	pick, ok := m.Phase().(CardPick)
	if !ok || pick.Seat != FirstSeat {
		t.Fatalf("expected card pick by seat 1, got %#v", m.Phase())
	}
	if m.RoundNumber() != 0 || m.Round().OpenedBy != FirstSeat {
		t.Errorf("expected round 0 opened by seat 1, got round %d opened by %d", m.RoundNumber(), m.Round().OpenedBy)
	}
	if len(seen) != 0 {
		t.Fatalf("listener called before Start")
	}
	m.Start()
	if len(seen) != 1 || seen[0].Kind() != KindCardPick {
		t.Fatalf("expected Start to report the card pick, got %v", seen)
	}
	for _, s := range Seats() {
		p := m.Player(s)
		if !p.Alive || p.UserID != fmt.Sprintf("user-%d", s) || p.Role != roleTemplate[s.index()] {
			t.Errorf("seat %d: unexpected player %+v", s, p)
		}
	}
	if seat, ok := m.SeatOf("user-7"); !ok || seat != 7 {
		t.Errorf("expected user-7 at seat 7, got %d (%v)", seat, ok)
	}
	if _, ok := m.SeatOf("stranger"); ok {
		t.Errorf("expected unknown user to have no seat")
	}
	if m.Phase().Duration() != 5*time.Second {
		t.Errorf("expected card pick to last 5s, got %s", m.Phase().Duration())
	}
}

func TestCardPicksLeadToFirstDay(t *testing.T) {
	var seen []Kind
	m := newTestMatch(WithListener(func(p Phase) { seen = append(seen, p.Kind()) }))
	for s := FirstSeat; s < LastSeat; s++ {
		m.Advance()
		pick, ok := m.Phase().(CardPick)
		if !ok || pick.Seat != s+1 {
			t.Fatalf("expected card pick by seat %d, got %#v", s+1, m.Phase())
		}
	}
	m.Advance()
	wantDelayTo(t, m, KindContractNight)
	m.Advance()
	wantKind(t, m, KindContractNight)
	m.Advance()
	next := wantDelayTo(t, m, KindDay)
	if next.(Day).Speaker != FirstSeat {
		t.Errorf("expected seat 1 to open the day, got %d", next.(Day).Speaker)
	}
	m.Advance()
	wantKind(t, m, KindDay)
	if len(seen) != 13 {
		t.Errorf("expected listener to see 13 phases, got %d", len(seen))
	}
	for _, s := range Seats() {
		if !m.Player(s).PickedCard() {
			t.Errorf("seat %d: card pick not finalized", s)
		}
	}
}

func TestSwapRole(t *testing.T) {
	m := newTestMatch()

	if !m.SwapRole(1, 8) {
		t.Fatalf("expected seat 1 to swap during its own pick")
	}
	if m.Role(1) != RoleGodfather || m.Role(8) != RoleSheriff {
		t.Fatalf("expected roles exchanged, got %s and %s", m.Role(1), m.Role(8))
	}
	if m.SwapRole(2, 3) {
		t.Errorf("seat 2 swapped during seat 1's pick")
	}
	if m.SwapRole(1, 1) {
		t.Errorf("seat 1 swapped with itself")
	}

	m.Advance()
	if m.SwapRole(2, 1) {
		t.Errorf("seat 2 swapped with a finalized seat")
	}
	if m.Role(1) != RoleGodfather {
		t.Errorf("finalized seat's role changed to %s", m.Role(1))
	}
	if !m.SwapRole(2, 9) {
		t.Errorf("expected seat 2 to swap with an unpicked seat")
	}
	if m.Role(2) != RoleMafia || m.Role(9) != RoleCivilian {
		t.Errorf("expected roles exchanged, got %s and %s", m.Role(2), m.Role(9))
	}

	advanceUntil(t, m, KindDay)
	if m.SwapRole(1, 2) {
		t.Errorf("swap accepted outside the card picks")
	}
}

func TestDayRoundRobinWithoutNominations(t *testing.T) {
	m := newTestMatch()
	advanceUntil(t, m, KindDay)
	for s := FirstSeat; s <= LastSeat; s++ {
		day, ok := m.Phase().(Day)
		if !ok || day.Speaker != s {
			t.Fatalf("expected seat %d to speak, got %#v", s, m.Phase())
		}
		m.Advance()
	}
	wantDelayTo(t, m, KindMafiaShoots)
	m.Advance()
	wantKind(t, m, KindMafiaShoots)
}

func TestNominate(t *testing.T) {
	m := newTestMatch()
	advanceUntil(t, m, KindDay)

	if m.Nominate(2, 5) {
		t.Errorf("seat 2 nominated during seat 1's speech")
	}
	if !m.Nominate(1, 5) {
		t.Fatalf("expected seat 1 to nominate seat 5")
	}
	if m.Nominate(1, 6) {
		t.Errorf("seat 1 nominated twice in one round")
	}
	if len(m.Round().Nominations) != 1 {
		t.Fatalf("expected 1 nomination, got %d", len(m.Round().Nominations))
	}

	m.Advance()
	if !m.Nominate(2, 5) {
		t.Fatalf("expected seat 2 to second seat 5")
	}
	if len(m.Round().Nominations) != 1 {
		t.Errorf("seconding created a nomination: %d nominations", len(m.Round().Nominations))
	}
	sup, ok := m.Round().Supportions[2]
	if !ok || sup.Nominee != 5 {
		t.Errorf("expected supportion of seat 5 by seat 2, got %+v (%v)", sup, ok)
	}
	if m.Nominate(2, 7) {
		t.Errorf("seat 2 nominated after seconding")
	}
	if m.Nominate(2, 0) || m.Nominate(2, 11) {
		t.Errorf("nomination of a seat outside the table accepted")
	}
}

func TestNominationsAreVotedInNominationOrder(t *testing.T) {
	m := newTestMatch()
	advanceUntil(t, m, KindDay)
	for _, nominee := range []Seat{9, 4, 6} {
		day := m.Phase().(Day)
		m.Nominate(day.Speaker, nominee)
		m.Advance()
	}
	advanceUntil(t, m, KindVotingAnnounced)
	announced := m.Phase().(VotingAnnounced)
	if got := nominees(announced.Nominations); !equalSeats(got, []Seat{9, 4, 6}) {
		t.Fatalf("expected nominations [9 4 6], got %v", got)
	}
	if announced.AfterSplit {
		t.Errorf("first voting marked as after split")
	}
	m.Advance()
	voting := m.Phase().(VotingAgainstPlayer)
	if voting.Nomination.Nominee != 9 || !equalSeats(nominees(voting.Queue), []Seat{4, 6}) {
		t.Errorf("expected voting against 9 with [4 6] queued, got %d with %v", voting.Nomination.Nominee, nominees(voting.Queue))
	}
}

func TestNominationOrderFallsBackToAcceptanceOrder(t *testing.T) {
	frozen := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m := newTestMatch(WithClock(func() time.Time { return frozen }))
	advanceUntil(t, m, KindDay)
	for _, nominee := range []Seat{7, 3, 5} {
		m.Nominate(m.Phase().(Day).Speaker, nominee)
		m.Advance()
	}
	got := nominees(m.Round().NominationsInOrder())
	if !equalSeats(got, []Seat{7, 3, 5}) {
		t.Errorf("expected acceptance order [7 3 5], got %v", got)
	}
}

func TestVoteAgainstPlayerGuards(t *testing.T) {
	m := newTestMatch()
	advanceUntil(t, m, KindDay)
	m.Nominate(1, 4)
	advanceUntil(t, m, KindVotingAgainstPlayer)

	if m.VoteAgainstPlayer(2, 5) {
		t.Errorf("vote against a seat not on the floor accepted")
	}
	if !m.VoteAgainstPlayer(2, 4) {
		t.Fatalf("expected vote against the nominee")
	}
	if m.VoteAgainstPlayer(2, 4) {
		t.Errorf("second vote from the same seat accepted")
	}
	m.table[Seat(3).index()].Alive = false
	if m.VoteAgainstPlayer(3, 4) {
		t.Errorf("vote from a dead seat accepted")
	}
	if m.VoteAgainstSplitees(5) {
		t.Errorf("split vote accepted outside a split vote")
	}
}

func TestSingleNomineeIsExiled(t *testing.T) {
	m := newTestMatch()
	advanceUntil(t, m, KindDay)
	m.Nominate(1, 4)
	advanceUntil(t, m, KindVotingAgainstPlayer)
	m.Advance()

	exile, ok := m.Phase().(ExileAnnounced)
	if !ok || exile.Exile != 4 {
		t.Fatalf("expected seat 4 exiled, got %#v", m.Phase())
	}
	if m.IsAlive(4) {
		t.Errorf("exiled seat still alive")
	}
	m.Advance()
	speaks, ok := m.Phase().(ExileSpeaks)
	if !ok || speaks.Exile != 4 || len(speaks.Queue) != 0 {
		t.Fatalf("expected seat 4's last word, got %#v", m.Phase())
	}
	m.Advance()
	wantDelayTo(t, m, KindMafiaShoots)
}

func TestPluralityExile(t *testing.T) {
	m := newTestMatch()
	advanceUntil(t, m, KindDay)
	m.Nominate(1, 3)
	m.Advance()
	m.Nominate(2, 6)
	advanceUntil(t, m, KindVotingAgainstPlayer)
	for _, voter := range []Seat{1, 2, 4, 5, 7, 8} {
		m.VoteAgainstPlayer(voter, 3)
	}
	m.Advance()
	m.Advance()

	exile, ok := m.Phase().(ExileAnnounced)
	if !ok || exile.Exile != 3 {
		t.Fatalf("expected seat 3 exiled, got %#v", m.Phase())
	}
}

func TestRemainingBallotsGoToLastNominee(t *testing.T) {
	m := newTestMatch()
	advanceUntil(t, m, KindDay)
	m.Nominate(1, 3)
	m.Advance()
	m.Nominate(2, 6)
	advanceUntil(t, m, KindVotingAgainstPlayer)
	for _, voter := range []Seat{1, 2, 4, 5} {
		m.VoteAgainstPlayer(voter, 3)
	}
	m.Advance()
	m.Advance()

	exile, ok := m.Phase().(ExileAnnounced)
	if !ok || exile.Exile != 6 {
		t.Fatalf("expected seat 6 exiled with the six remaining ballots, got %#v", m.Phase())
	}
}

// The game in this test follows the reference scenario: seats 5, 6, 7 and 8
// nominate 5, 3, 1 and 2, and the votes split between seats 5 and 1.
func TestSplitScenario(t *testing.T) {
	m := newTestMatch()
	advanceUntil(t, m, KindDay)

	nominations := map[Seat]Seat{5: 5, 6: 3, 7: 1, 8: 2}
	for m.Phase().Kind() == KindDay {
		speaker := m.Phase().(Day).Speaker
		if nominee, ok := nominations[speaker]; ok {
			if !m.Nominate(speaker, nominee) {
				t.Fatalf("seat %d could not nominate %d", speaker, nominee)
			}
		}
		m.Advance()
	}

	announced, ok := m.Phase().(VotingAnnounced)
	if !ok {
		t.Fatalf("expected voting to be announced, got %s", m.Phase().Kind())
	}
	if got := nominees(announced.Nominations); !equalSeats(got, []Seat{5, 3, 1, 2}) {
		t.Fatalf("expected nominations [5 3 1 2], got %v", got)
	}

	m.Advance()
	for _, voter := range []Seat{7, 8, 9, 10, 1} {
		if !m.VoteAgainstPlayer(voter, 5) {
			t.Fatalf("seat %d could not vote against 5", voter)
		}
	}
	if m.VoteAgainstPlayer(2, 3) {
		t.Fatalf("vote against 3 accepted while 5 is on the floor")
	}
	m.Advance()
	if got := m.Phase().(VotingAgainstPlayer).Nomination.Nominee; got != 3 {
		t.Fatalf("expected voting against 3, got %d", got)
	}
	m.Advance()
	for _, voter := range []Seat{2, 3, 4, 5, 6} {
		m.VoteAgainstPlayer(voter, 1)
	}
	m.Advance()
	if got := m.Phase().(VotingAgainstPlayer); got.Nomination.Nominee != 2 || len(got.Queue) != 0 {
		t.Fatalf("expected voting against 2 last, got %#v", got)
	}
	m.Advance()

	split, ok := m.Phase().(SplitAnnounced)
	if !ok {
		t.Fatalf("expected a split, got %s", m.Phase().Kind())
	}
	if got := nominees(split.Splitees); !equalSeats(got, []Seat{5, 1}) {
		t.Fatalf("expected split between [5 1], got %v", got)
	}

	m.Advance()
	speaks := m.Phase().(SpliteeSpeaks)
	if speaks.Splitee.Nominee != 5 || !equalSeats(nominees(speaks.Queue), []Seat{1}) {
		t.Fatalf("expected seat 5 to defend with [1] queued, got %d with %v", speaks.Splitee.Nominee, nominees(speaks.Queue))
	}
	m.Advance()
	speaks = m.Phase().(SpliteeSpeaks)
	if speaks.Splitee.Nominee != 1 || len(speaks.Queue) != 0 || len(speaks.Splitees) != 2 {
		t.Fatalf("expected seat 1 to defend last, got %#v", speaks)
	}

	m.Advance()
	revote := m.Phase().(VotingAnnounced)
	if !revote.AfterSplit || !equalSeats(nominees(revote.Nominations), []Seat{5, 1}) {
		t.Fatalf("expected re-vote on [5 1], got %#v", revote)
	}
	if len(m.Round().FirstPassVotes) != 10 || len(m.Round().VotesAgainstPlayer) != 0 {
		t.Fatalf("expected first pass archived, got %d archived and %d open", len(m.Round().FirstPassVotes), len(m.Round().VotesAgainstPlayer))
	}

	m.Advance()
	for _, voter := range []Seat{7, 8, 9, 10, 1} {
		if !m.VoteAgainstPlayer(voter, 5) {
			t.Fatalf("seat %d could not vote again after the split", voter)
		}
	}
	m.Advance()
	m.Advance()

	vs, ok := m.Phase().(VotingAgainstSplitees)
	if !ok {
		t.Fatalf("expected voting against the split, got %s", m.Phase().Kind())
	}
	if got := nominees(vs.Splitees); !equalSeats(got, []Seat{5, 1}) {
		t.Fatalf("expected splitees [5 1], got %v", got)
	}

	for _, voter := range []Seat{2, 3, 4, 6, 7, 8} {
		m.VoteAgainstSplitees(voter)
	}
	if m.VoteAgainstSplitees(2) {
		t.Errorf("second split vote from seat 2 accepted")
	}
	m.Advance()
	exile, ok := m.Phase().(ExileSpeaks)
	if !ok || exile.Exile != 5 || !equalSeats(exile.Queue, []Seat{1}) {
		t.Fatalf("expected seat 5 then seat 1 to leave, got %#v", m.Phase())
	}
	if m.IsAlive(5) || m.IsAlive(1) {
		t.Errorf("expected both splitees dead")
	}
	m.Advance()
	if got := m.Phase().(ExileSpeaks); got.Exile != 1 {
		t.Fatalf("expected seat 1's last word, got %d", got.Exile)
	}
	m.Advance()
	wantDelayTo(t, m, KindMafiaShoots)
}

func TestSplitVoteWithoutMajorityKeepsEveryone(t *testing.T) {
	m := newTestMatch()
	advanceUntil(t, m, KindDay)
	m.Nominate(1, 3)
	m.Advance()
	m.Nominate(2, 6)
	advanceUntil(t, m, KindVotingAgainstPlayer)
	for _, voter := range []Seat{1, 2, 4, 5, 7} {
		m.VoteAgainstPlayer(voter, 3)
	}
	advanceUntil(t, m, KindVotingAnnounced)
	m.Advance()
	for _, voter := range []Seat{1, 2, 4, 5, 7} {
		m.VoteAgainstPlayer(voter, 3)
	}
	advanceUntil(t, m, KindVotingAgainstSplitees)
	for _, voter := range []Seat{1, 2, 3, 4, 5} {
		m.VoteAgainstSplitees(voter)
	}
	m.Advance()
	wantDelayTo(t, m, KindMafiaShoots)
	if m.AliveCount() != SeatCount {
		t.Errorf("expected nobody exiled, %d alive", m.AliveCount())
	}
}

func TestNightKill(t *testing.T) {
	cases := []struct {
		name   string
		dead   []Seat
		shots  map[Seat]Seat
		victim Seat
	}{
		{name: "two shooters agree", dead: []Seat{10}, shots: map[Seat]Seat{8: 4, 9: 4}, victim: 4},
		{name: "two shooters disagree", dead: []Seat{10}, shots: map[Seat]Seat{8: 4, 9: 5}},
		{name: "one of two shooters fires", dead: []Seat{10}, shots: map[Seat]Seat{9: 4}},
		{name: "all three agree", shots: map[Seat]Seat{8: 2, 9: 2, 10: 2}, victim: 2},
		{name: "nobody fires", shots: map[Seat]Seat{}},
		{name: "civilian shot ignored", dead: []Seat{10}, shots: map[Seat]Seat{8: 4, 9: 4, 3: 5}, victim: 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := newTestMatch()
			advanceUntil(t, m, KindMafiaShoots)
			for _, s := range tc.dead {
				m.table[s.index()].Alive = false
			}
			for killer, victim := range tc.shots {
				m.Shoot(killer, victim)
			}
			m.Advance()
			wantKind(t, m, KindGodfatherReveals)
			m.Advance()
			wantKind(t, m, KindSheriffReveals)
			m.Advance()
			if tc.victim == 0 {
				wantDelayTo(t, m, KindShotMissAnnounced)
				return
			}
			next := wantDelayTo(t, m, KindVictimAnnounced)
			if got := next.(VictimAnnounced).Victim; got != tc.victim {
				t.Fatalf("expected victim %d, got %d", tc.victim, got)
			}
			if m.IsAlive(tc.victim) {
				t.Errorf("victim still alive")
			}
		})
	}
}

func TestShootGuards(t *testing.T) {
	m := newTestMatch()
	advanceUntil(t, m, KindDay)
	if m.Shoot(9, 3) {
		t.Errorf("shot accepted during the day")
	}
	advanceUntil(t, m, KindMafiaShoots)
	if m.Shoot(3, 4) {
		t.Errorf("civilian shot accepted")
	}
	if !m.Shoot(9, 4) {
		t.Fatalf("expected mafia shot")
	}
	if m.Shoot(9, 5) {
		t.Errorf("second shot from the same seat accepted")
	}
	m.table[Seat(10).index()].Alive = false
	if m.Shoot(10, 4) {
		t.Errorf("shot from a dead seat accepted")
	}
}

func TestFirstNightVictimThinksBeforeSpeaking(t *testing.T) {
	m := newTestMatch()
	advanceUntil(t, m, KindMafiaShoots)
	for _, killer := range []Seat{8, 9, 10} {
		m.Shoot(killer, 2)
	}
	advanceUntil(t, m, KindVictimAnnounced)
	m.Advance()
	if got, ok := m.Phase().(VictimThinks); !ok || got.Victim != 2 {
		t.Fatalf("expected seat 2 to think, got %#v", m.Phase())
	}
	m.Advance()
	if got, ok := m.Phase().(VictimSpeaks); !ok || got.Victim != 2 {
		t.Fatalf("expected seat 2 to speak, got %#v", m.Phase())
	}
	previous := m.Round()
	m.Advance()

	next := wantDelayTo(t, m, KindDay)
	if got := next.(Day).Speaker; got != 3 {
		t.Errorf("expected seat 3 to open the next round past dead seat 2, got %d", got)
	}
	if m.RoundNumber() != 1 {
		t.Errorf("expected round 1, got %d", m.RoundNumber())
	}
	if m.Round() == previous || m.Round().OpenedBy != 3 || len(m.Round().Shots) != 0 {
		t.Errorf("expected a fresh round opened by seat 3, got %+v", m.Round())
	}
}

func TestLaterVictimSpeaksImmediately(t *testing.T) {
	m := newTestMatch()
	advanceUntil(t, m, KindShotMissAnnounced)
	m.Advance()
	if m.RoundNumber() != 1 {
		t.Fatalf("expected round 1 after a miss, got %d", m.RoundNumber())
	}
	advanceUntil(t, m, KindMafiaShoots)
	for _, killer := range []Seat{8, 9, 10} {
		m.Shoot(killer, 5)
	}
	advanceUntil(t, m, KindVictimAnnounced)
	m.Advance()
	if got, ok := m.Phase().(VictimSpeaks); !ok || got.Victim != 5 {
		t.Fatalf("expected seat 5 to speak right away, got %#v", m.Phase())
	}
}

func TestDaySkipsDeadSpeakers(t *testing.T) {
	m := newTestMatch()
	advanceUntil(t, m, KindDay)
	m.table[Seat(2).index()].Alive = false
	m.table[Seat(3).index()].Alive = false
	m.Advance()
	if got := m.Phase().(Day).Speaker; got != 4 {
		t.Errorf("expected seat 4 to speak after seat 1, got %d", got)
	}
}

func TestNextAliveSeat(t *testing.T) {
	m := newTestMatch()
	for _, s := range []Seat{2, 3, 4} {
		m.table[s.index()].Alive = false
	}
	if got := m.NextAliveSeat(1); got != 5 {
		t.Errorf("expected seat 5, got %d", got)
	}
	if got := m.NextAliveSeat(10); got != 1 {
		t.Errorf("expected seat 1, got %d", got)
	}
}

func TestContradictoryStatePanics(t *testing.T) {
	cases := []struct {
		name  string
		phase func(m *Match) Phase
	}{
		{name: "voting without nominations", phase: func(m *Match) Phase { return m.votingAnnounced(nil, false) }},
		{name: "split without splitees", phase: func(m *Match) Phase { return SplitAnnounced{} }},
		{name: "empty split vote", phase: func(m *Match) Phase { return VotingAgainstSplitees{} }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := newTestMatch()
			m.phase = tc.phase(m)
			defer func() {
				if recover() == nil {
					t.Errorf("expected Advance to panic")
				}
			}()
			m.Advance()
		})
	}
}

func TestOutcome(t *testing.T) {
	m := newTestMatch()
	if got := m.Outcome(); got != Undecided {
		t.Fatalf("expected undecided at the start, got %q", got)
	}
	for _, s := range []Seat{2, 3, 4, 5} {
		m.table[s.index()].Alive = false
	}
	if got := m.Outcome(); got != MafiaWins {
		t.Errorf("expected mafia to win at 3 against 3, got %q", got)
	}

	m = newTestMatch()
	for _, s := range []Seat{8, 9, 10} {
		m.table[s.index()].Alive = false
	}
	if got := m.Outcome(); got != CiviliansWin {
		t.Errorf("expected civilians to win, got %q", got)
	}
	if snap := m.Snapshot(); snap.Outcome != CiviliansWin || len(snap.Seats) != SeatCount || snap.Seats[9].Alive {
		t.Errorf("unexpected snapshot %+v", snap)
	}
}

func TestTimings(t *testing.T) {
	m := newTestMatch(WithTimings(Timings{KindCardPick: time.Second}))
	if got := m.Phase().Duration(); got != time.Second {
		t.Errorf("expected overridden card pick duration, got %s", got)
	}
	m.Advance()
	if got := m.Phase().Duration(); got != time.Second {
		t.Errorf("expected overridden duration to stick, got %s", got)
	}

	scaled := DefaultTimings().Scaled(0.5)
	if scaled[KindDay] != 30*time.Second {
		t.Errorf("expected half-length day, got %s", scaled[KindDay])
	}
}

func TestSnapshotCarriesPhasePayload(t *testing.T) {
	m := newTestMatch()
	if pl := m.Snapshot().Payload; pl.Subject != 1 || len(pl.Seats) != 0 {
		t.Fatalf("expected card pick of seat 1, got %+v", pl)
	}

	advanceUntil(t, m, KindDelay)
	if pl := m.Snapshot().Payload; pl.Next != KindContractNight {
		t.Errorf("expected delay before contract night, got %+v", pl)
	}

	advanceUntil(t, m, KindDay)
	if !m.Nominate(1, 5) {
		t.Fatal("nomination rejected")
	}
	m.Advance()
	if !m.Nominate(2, 3) {
		t.Fatal("nomination rejected")
	}
	advanceUntil(t, m, KindVotingAgainstPlayer)
	snap := m.Snapshot()
	if snap.Phase != KindVotingAgainstPlayer || snap.Payload.Subject != 5 {
		t.Fatalf("expected seat 5 on the floor, got %+v", snap.Payload)
	}
	if len(snap.Payload.Seats) != 1 || snap.Payload.Seats[0] != 3 {
		t.Errorf("expected seat 3 queued, got %v", snap.Payload.Seats)
	}
}
