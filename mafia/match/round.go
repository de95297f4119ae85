package match

import (
	"sort"
	"time"
)

// Nomination is a day accusation. Tallies compare nominations by pointer, so
// two nominations of the same seat are still different candidates.
type Nomination struct {
	Nominee     Seat
	NominatedAt time.Time

	seq uint64
}

// Supportion is a seconding of a seat somebody else already nominated.
type Supportion struct {
	Nominee     Seat
	SupportedAt time.Time
}

// Shot is a night target declared by a mafia team seat.
type Shot struct {
	Victim Seat
	ShotAt time.Time
}

// PlayerVote is a ballot cast against the nomination on the floor.
type PlayerVote struct {
	Nomination *Nomination
	VotedAt    time.Time
}

// SpliteesVote is a ballot to exile every seat in a split.
type SpliteesVote struct {
	VotedAt time.Time
}

// Round holds one day/night cycle of ballots. Each map accepts at most one
// entry per seat.
type Round struct {
	OpenedBy Seat

	Nominations          map[Seat]*Nomination
	Supportions          map[Seat]Supportion
	Shots                map[Seat]Shot
	VotesAgainstPlayer   map[Seat]PlayerVote
	VotesAgainstSplitees map[Seat]SpliteesVote

	// FirstPassVotes keeps the ballots of the voting pass that ended in a
	// split, once the re-vote has opened.
	FirstPassVotes map[Seat]PlayerVote
}

func newRound(openedBy Seat) *Round {
	return &Round{
		OpenedBy:             openedBy,
		Nominations:          make(map[Seat]*Nomination),
		Supportions:          make(map[Seat]Supportion),
		Shots:                make(map[Seat]Shot),
		VotesAgainstPlayer:   make(map[Seat]PlayerVote),
		VotesAgainstSplitees: make(map[Seat]SpliteesVote),
	}
}

// IsNominated reports whether any seat has nominated nominee this round.
func (r *Round) IsNominated(nominee Seat) bool {
	for _, n := range r.Nominations {
		if n.Nominee == nominee {
			return true
		}
	}
	return false
}

// NominationsInOrder returns the round's nominations, earliest first.
func (r *Round) NominationsInOrder() []*Nomination {
	out := make([]*Nomination, 0, len(r.Nominations))
	for _, n := range r.Nominations {
		out = append(out, n)
	}
	sortNominations(out)
	return out
}

// reopenVoting moves the current ballots aside for a re-vote.
func (r *Round) reopenVoting() {
	r.FirstPassVotes = r.VotesAgainstPlayer
	r.VotesAgainstPlayer = make(map[Seat]PlayerVote)
}

// sortNominations orders by nomination time; equal times keep the order the
// nominations were accepted in.
func sortNominations(ns []*Nomination) {
	sort.SliceStable(ns, func(i, j int) bool {
		if !ns[i].NominatedAt.Equal(ns[j].NominatedAt) {
			return ns[i].NominatedAt.Before(ns[j].NominatedAt)
		}
		return ns[i].seq < ns[j].seq
	})
}
