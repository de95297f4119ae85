package match

import "slices"

// Victim returns the night's victim: every living mafia team seat must have
// shot, and all at the same seat.
func (m *Match) Victim() (Seat, bool) {
	var targets []Seat
	for _, killer := range Seats() {
		shot, ok := m.round.Shots[killer]
		if !ok || !m.player(killer).Role.IsEvil() {
			continue
		}
		targets = append(targets, shot.Victim)
	}
	if len(targets) == 0 || len(targets) != m.AliveEvilCount() {
		return 0, false
	}
	for _, t := range targets[1:] {
		if t != targets[0] {
			return 0, false
		}
	}
	return targets[0], true
}

// ExileCandidates tallies the current voting pass, last being the nomination
// voted last. Every living seat's ballot counts against last unless it was
// cast against another nomination. The nominations sharing the top tally are
// returned earliest first.
func (m *Match) ExileCandidates(last *Nomination) []*Nomination {
	tally := map[*Nomination]int{last: m.AliveCount()}
	seen := []*Nomination{last}
	for _, voter := range Seats() {
		vote, ok := m.round.VotesAgainstPlayer[voter]
		if !ok || vote.Nomination == last {
			continue
		}
		tally[last]--
		if _, ok := tally[vote.Nomination]; !ok {
			seen = append(seen, vote.Nomination)
		}
		tally[vote.Nomination]++
	}

	top := tally[last]
	for _, n := range seen {
		top = max(top, tally[n])
	}
	out := slices.DeleteFunc(seen, func(n *Nomination) bool { return tally[n] != top })
	sortNominations(out)
	return out
}
