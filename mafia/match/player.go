package match

// Player is the occupant of one seat.
type Player struct {
	UserID string
	Role   Role
	Alive  bool
	// Fouls is tracked for moderation and never read by the phase machine.
	Fouls int

	pickedCard bool
}

// PickedCard reports whether the player's card pick has been finalized.
func (p Player) PickedCard() bool { return p.pickedCard }
