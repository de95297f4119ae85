package match

// Role is the secret card a player holds.
type Role string

const (
	RoleCivilian  Role = "civilian"
	RoleSheriff   Role = "sheriff"
	RoleMafia     Role = "mafia"
	RoleGodfather Role = "godfather"
)

// IsEvil reports whether the role belongs to the mafia team.
// Both mafia and godfather shoot at night.
func (r Role) IsEvil() bool {
	return r == RoleMafia || r == RoleGodfather
}

// roleTemplate is the unshuffled deal, indexed by seat.
var roleTemplate = [SeatCount]Role{
	RoleSheriff,
	RoleCivilian,
	RoleCivilian,
	RoleCivilian,
	RoleCivilian,
	RoleCivilian,
	RoleCivilian,
	RoleGodfather,
	RoleMafia,
	RoleMafia,
}

// shuffleRoles deals the template with a Fisher-Yates shuffle running from
// the last index down to 1.
func shuffleRoles(src Source) [SeatCount]Role {
	roles := roleTemplate
	for i := SeatCount - 1; i > 0; i-- {
		j := src.IntN(i + 1)
		roles[i], roles[j] = roles[j], roles[i]
	}
	return roles
}
