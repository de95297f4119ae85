package match

import "fmt"

// Advance installs the phase that follows the current one and reports it to
// the listener. It also applies what the transition implies: finalizing card
// picks, marking exiles and victims dead and opening new rounds.
//
// The host must call Advance once per phase, after its duration has elapsed.
// Advance panics when the current phase and round contradict each other.
func (m *Match) Advance() {
	m.setPhase(m.next())
}

func (m *Match) next() Phase {
	switch p := m.phase.(type) {
	case CardPick:
		m.player(p.Seat).pickedCard = true
		if p.Seat == LastSeat {
			return m.delay(m.contractNight())
		}
		return m.cardPick(p.Seat.Next())
	case Delay:
		return p.Next
	case ContractNight:
		return m.delay(m.day(m.round.OpenedBy))
	case Day:
		return m.afterDay(p)
	case VotingAnnounced:
		if len(p.Nominations) == 0 {
			panic("match: voting announced without nominations")
		}
		return m.votingAgainstPlayer(p.Nominations[0], p.Nominations[1:], p.AfterSplit)
	case VotingAgainstPlayer:
		return m.afterVotingAgainstPlayer(p)
	case SplitAnnounced:
		if len(p.Splitees) == 0 {
			panic("match: split announced without splitees")
		}
		return m.spliteeSpeaks(p.Splitees[0], p.Splitees[1:], p.Splitees)
	case SpliteeSpeaks:
		if len(p.Queue) == 0 {
			m.round.reopenVoting()
			return m.votingAnnounced(p.Splitees, true)
		}
		return m.spliteeSpeaks(p.Queue[0], p.Queue[1:], p.Splitees)
	case VotingAgainstSplitees:
		return m.afterVotingAgainstSplitees(p)
	case ExileAnnounced:
		return m.exileSpeaks(p.Exile, nil)
	case ExileSpeaks:
		if len(p.Queue) == 0 {
			return m.delay(m.mafiaShoots())
		}
		return m.exileSpeaks(p.Queue[0], p.Queue[1:])
	case MafiaShoots:
		return GodfatherReveals{span: m.timings.spanOf(KindGodfatherReveals)}
	case GodfatherReveals:
		return SheriffReveals{span: m.timings.spanOf(KindSheriffReveals)}
	case SheriffReveals:
		if victim, ok := m.Victim(); ok {
			m.player(victim).Alive = false
			return m.delay(VictimAnnounced{span: m.timings.spanOf(KindVictimAnnounced), Victim: victim})
		}
		return m.delay(ShotMissAnnounced{span: m.timings.spanOf(KindShotMissAnnounced)})
	case VictimAnnounced:
		if m.roundNo == 0 {
			return VictimThinks{span: m.timings.spanOf(KindVictimThinks), Victim: p.Victim}
		}
		return VictimSpeaks{span: m.timings.spanOf(KindVictimSpeaks), Victim: p.Victim}
	case VictimThinks:
		return VictimSpeaks{span: m.timings.spanOf(KindVictimSpeaks), Victim: p.Victim}
	case VictimSpeaks, ShotMissAnnounced:
		return m.openNextRound()
	default:
		panic(fmt.Sprintf("match: unknown phase %T", m.phase))
	}
}

func (m *Match) afterDay(p Day) Phase {
	speaker := m.NextAliveSeat(p.Speaker)
	if speaker != m.round.OpenedBy {
		return m.day(speaker)
	}
	if len(m.round.Nominations) == 0 {
		return m.delay(m.mafiaShoots())
	}
	return m.votingAnnounced(m.round.NominationsInOrder(), false)
}

func (m *Match) afterVotingAgainstPlayer(p VotingAgainstPlayer) Phase {
	if len(p.Queue) > 0 {
		return m.votingAgainstPlayer(p.Queue[0], p.Queue[1:], p.AfterSplit)
	}
	exiles := m.ExileCandidates(p.Nomination)
	switch {
	case len(exiles) == 0:
		panic("match: no exile candidates after voting")
	case len(exiles) == 1:
		exile := exiles[0].Nominee
		m.player(exile).Alive = false
		return ExileAnnounced{span: m.timings.spanOf(KindExileAnnounced), Exile: exile}
	case p.AfterSplit:
		return VotingAgainstSplitees{span: m.timings.spanOf(KindVotingAgainstSplitees), Splitees: exiles}
	default:
		return SplitAnnounced{span: m.timings.spanOf(KindSplitAnnounced), Splitees: exiles}
	}
}

func (m *Match) afterVotingAgainstSplitees(p VotingAgainstSplitees) Phase {
	if len(p.Splitees) == 0 {
		panic("match: voting against an empty split")
	}
	if 2*len(m.round.VotesAgainstSplitees) <= m.AliveCount() {
		return m.delay(m.mafiaShoots())
	}
	exiles := make([]Seat, 0, len(p.Splitees))
	for _, n := range p.Splitees {
		exiles = append(exiles, n.Nominee)
	}
	for _, s := range exiles {
		m.player(s).Alive = false
	}
	return m.exileSpeaks(exiles[0], exiles[1:])
}

func (m *Match) openNextRound() Phase {
	opener := m.NextAliveSeat(m.round.OpenedBy)
	m.roundNo++
	m.round = newRound(opener)
	return m.delay(m.day(opener))
}

func (m *Match) cardPick(s Seat) Phase {
	return CardPick{span: m.timings.spanOf(KindCardPick), Seat: s}
}

func (m *Match) delay(next Phase) Phase {
	return Delay{span: m.timings.spanOf(KindDelay), Next: next}
}

func (m *Match) contractNight() Phase {
	return ContractNight{span: m.timings.spanOf(KindContractNight)}
}

func (m *Match) day(speaker Seat) Phase {
	return Day{span: m.timings.spanOf(KindDay), Speaker: speaker}
}

func (m *Match) mafiaShoots() Phase {
	return MafiaShoots{span: m.timings.spanOf(KindMafiaShoots)}
}

func (m *Match) votingAnnounced(ns []*Nomination, afterSplit bool) Phase {
	return VotingAnnounced{
		span:        m.timings.spanOf(KindVotingAnnounced),
		Nominations: append([]*Nomination(nil), ns...),
		AfterSplit:  afterSplit,
	}
}

func (m *Match) votingAgainstPlayer(n *Nomination, queue []*Nomination, afterSplit bool) Phase {
	return VotingAgainstPlayer{
		span:       m.timings.spanOf(KindVotingAgainstPlayer),
		Nomination: n,
		Queue:      append([]*Nomination(nil), queue...),
		AfterSplit: afterSplit,
	}
}

func (m *Match) spliteeSpeaks(n *Nomination, queue, splitees []*Nomination) Phase {
	return SpliteeSpeaks{
		span:     m.timings.spanOf(KindSpliteeSpeaks),
		Splitee:  n,
		Queue:    append([]*Nomination(nil), queue...),
		Splitees: splitees,
	}
}

func (m *Match) exileSpeaks(exile Seat, queue []Seat) Phase {
	return ExileSpeaks{
		span:  m.timings.spanOf(KindExileSpeaks),
		Exile: exile,
		Queue: append([]Seat(nil), queue...),
	}
}
