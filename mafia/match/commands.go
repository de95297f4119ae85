package match

// The commands below record a player's intent into the live round. A command
// that does not fit the current phase, comes from the wrong seat or repeats an
// earlier one is ignored; the result only tells the caller whether it was
// recorded.

// Nominate accuses nominee during nominator's day speech. Naming a seat that
// is already nominated records a supportion instead of a second nomination.
func (m *Match) Nominate(nominator, nominee Seat) bool {
	day, ok := m.phase.(Day)
	if !ok || day.Speaker != nominator || !nominee.Valid() {
		return false
	}
	if !m.IsAlive(nominator) || !m.IsAlive(nominee) {
		return false
	}
	if _, done := m.round.Nominations[nominator]; done {
		return false
	}
	if _, done := m.round.Supportions[nominator]; done {
		return false
	}
	at, seq := m.stamp()
	if m.round.IsNominated(nominee) {
		m.round.Supportions[nominator] = Supportion{Nominee: nominee, SupportedAt: at}
		return true
	}
	m.round.Nominations[nominator] = &Nomination{Nominee: nominee, NominatedAt: at, seq: seq}
	return true
}

// VoteAgainstPlayer casts voter's ballot against the nominee on the floor.
func (m *Match) VoteAgainstPlayer(voter, target Seat) bool {
	voting, ok := m.phase.(VotingAgainstPlayer)
	if !ok || voting.Nomination.Nominee != target || !voter.Valid() || !m.IsAlive(voter) {
		return false
	}
	if _, done := m.round.VotesAgainstPlayer[voter]; done {
		return false
	}
	at, _ := m.stamp()
	m.round.VotesAgainstPlayer[voter] = PlayerVote{Nomination: voting.Nomination, VotedAt: at}
	return true
}

// VoteAgainstSplitees casts voter's ballot to exile the whole split.
func (m *Match) VoteAgainstSplitees(voter Seat) bool {
	if _, ok := m.phase.(VotingAgainstSplitees); !ok || !voter.Valid() || !m.IsAlive(voter) {
		return false
	}
	if _, done := m.round.VotesAgainstSplitees[voter]; done {
		return false
	}
	at, _ := m.stamp()
	m.round.VotesAgainstSplitees[voter] = SpliteesVote{VotedAt: at}
	return true
}

// Shoot declares killer's night target.
func (m *Match) Shoot(killer, victim Seat) bool {
	if _, ok := m.phase.(MafiaShoots); !ok || !killer.Valid() || !victim.Valid() {
		return false
	}
	k := m.player(killer)
	if !k.Alive || !k.Role.IsEvil() || !m.IsAlive(victim) {
		return false
	}
	if _, done := m.round.Shots[killer]; done {
		return false
	}
	at, _ := m.stamp()
	m.round.Shots[killer] = Shot{Victim: victim, ShotAt: at}
	return true
}

// SwapRole exchanges the cards of a and b while a is picking, as long as
// neither of them has finalized a pick.
func (m *Match) SwapRole(a, b Seat) bool {
	pick, ok := m.phase.(CardPick)
	if !ok || pick.Seat != a || !b.Valid() || a == b {
		return false
	}
	pa, pb := m.player(a), m.player(b)
	if pa.pickedCard || pb.pickedCard {
		return false
	}
	pa.Role, pb.Role = pb.Role, pa.Role
	return true
}
