package match

import "time"

// Kind tags a Phase variant.
type Kind string

const (
	KindCardPick              Kind = "card_pick"
	KindDelay                 Kind = "delay"
	KindContractNight         Kind = "contract_night"
	KindDay                   Kind = "day"
	KindVotingAnnounced       Kind = "voting_announced"
	KindVotingAgainstPlayer   Kind = "voting_against_player"
	KindMafiaShoots           Kind = "mafia_shoots"
	KindGodfatherReveals      Kind = "godfather_reveals"
	KindSheriffReveals        Kind = "sheriff_reveals"
	KindVictimAnnounced       Kind = "victim_announced"
	KindVictimThinks          Kind = "victim_thinks"
	KindVictimSpeaks          Kind = "victim_speaks"
	KindShotMissAnnounced     Kind = "shot_miss_announced"
	KindExileAnnounced        Kind = "exile_announced"
	KindExileSpeaks           Kind = "exile_speaks"
	KindSplitAnnounced        Kind = "split_announced"
	KindSpliteeSpeaks         Kind = "splitee_speaks"
	KindVotingAgainstSplitees Kind = "voting_against_splitees"
)

// Phase is one step of the scripted match. Phases are values: Advance installs
// a new one and never edits the current one, and callers must not modify the
// slices a phase carries.
//
// Duration is how long the host should wait before calling Advance.
type Phase interface {
	Kind() Kind
	Duration() time.Duration
	phase()
}

type span struct{ d time.Duration }

func (s span) Duration() time.Duration { return s.d }
func (span) phase()                    {}

// CardPick lets Seat look at, and possibly swap, its role card.
type CardPick struct {
	span
	Seat Seat
}

// Delay is a short pause before Next is installed.
type Delay struct {
	span
	Next Phase
}

// ContractNight is the first night, when the mafia team meets silently.
type ContractNight struct{ span }

// Day is Speaker's turn to talk and, optionally, nominate.
type Day struct {
	span
	Speaker Seat
}

// VotingAnnounced lists the nominations about to be voted, earliest first.
type VotingAnnounced struct {
	span
	Nominations []*Nomination
	AfterSplit  bool
}

// VotingAgainstPlayer collects ballots against Nomination; Queue holds the
// nominations still to be voted.
type VotingAgainstPlayer struct {
	span
	Nomination *Nomination
	Queue      []*Nomination
	AfterSplit bool
}

type MafiaShoots struct{ span }

type GodfatherReveals struct{ span }

type SheriffReveals struct{ span }

type VictimAnnounced struct {
	span
	Victim Seat
}

// VictimThinks gives a first-night victim time before the last word.
type VictimThinks struct {
	span
	Victim Seat
}

type VictimSpeaks struct {
	span
	Victim Seat
}

type ShotMissAnnounced struct{ span }

type ExileAnnounced struct {
	span
	Exile Seat
}

// ExileSpeaks is Exile's farewell; Queue holds exiles still to speak.
type ExileSpeaks struct {
	span
	Exile Seat
	Queue []Seat
}

// SplitAnnounced names the nominations that tied on the first pass.
type SplitAnnounced struct {
	span
	Splitees []*Nomination
}

// SpliteeSpeaks is a tied nominee's defense. Splitees is the whole split,
// kept for the re-vote that follows the last speech.
type SpliteeSpeaks struct {
	span
	Splitee  *Nomination
	Queue    []*Nomination
	Splitees []*Nomination
}

// VotingAgainstSplitees asks whether every seat in the split leaves together.
type VotingAgainstSplitees struct {
	span
	Splitees []*Nomination
}

func (CardPick) Kind() Kind              { return KindCardPick }
func (Delay) Kind() Kind                 { return KindDelay }
func (ContractNight) Kind() Kind         { return KindContractNight }
func (Day) Kind() Kind                   { return KindDay }
func (VotingAnnounced) Kind() Kind       { return KindVotingAnnounced }
func (VotingAgainstPlayer) Kind() Kind   { return KindVotingAgainstPlayer }
func (MafiaShoots) Kind() Kind           { return KindMafiaShoots }
func (GodfatherReveals) Kind() Kind      { return KindGodfatherReveals }
func (SheriffReveals) Kind() Kind        { return KindSheriffReveals }
func (VictimAnnounced) Kind() Kind       { return KindVictimAnnounced }
func (VictimThinks) Kind() Kind          { return KindVictimThinks }
func (VictimSpeaks) Kind() Kind          { return KindVictimSpeaks }
func (ShotMissAnnounced) Kind() Kind     { return KindShotMissAnnounced }
func (ExileAnnounced) Kind() Kind        { return KindExileAnnounced }
func (ExileSpeaks) Kind() Kind           { return KindExileSpeaks }
func (SplitAnnounced) Kind() Kind        { return KindSplitAnnounced }
func (SpliteeSpeaks) Kind() Kind         { return KindSpliteeSpeaks }
func (VotingAgainstSplitees) Kind() Kind { return KindVotingAgainstSplitees }

// Timings maps each phase kind to its nominal duration.
type Timings map[Kind]time.Duration

// DefaultTimings returns the standard table pace.
func DefaultTimings() Timings {
	return Timings{
		KindCardPick:              5 * time.Second,
		KindDelay:                 3 * time.Second,
		KindContractNight:         60 * time.Second,
		KindDay:                   60 * time.Second,
		KindVotingAnnounced:       5 * time.Second,
		KindVotingAgainstPlayer:   4 * time.Second,
		KindMafiaShoots:           5 * time.Second,
		KindGodfatherReveals:      5 * time.Second,
		KindSheriffReveals:        5 * time.Second,
		KindVictimAnnounced:       3 * time.Second,
		KindVictimThinks:          20 * time.Second,
		KindVictimSpeaks:          60 * time.Second,
		KindShotMissAnnounced:     3 * time.Second,
		KindExileAnnounced:        3 * time.Second,
		KindExileSpeaks:           60 * time.Second,
		KindSplitAnnounced:        3 * time.Second,
		KindSpliteeSpeaks:         3 * time.Second,
		KindVotingAgainstSplitees: 3 * time.Second,
	}
}

// Scaled returns a copy of t with every duration multiplied by f.
func (t Timings) Scaled(f float64) Timings {
	out := make(Timings, len(t))
	for k, d := range t {
		out[k] = time.Duration(float64(d) * f)
	}
	return out
}

func (t Timings) spanOf(k Kind) span { return span{d: t[k]} }
