package jobs

import "github.com/gosuda/portal-mafia/mafia/match"

var catalog = map[match.Role]struct {
	spec    Spec
	factory Factory
}{
	match.RoleCivilian: {
		spec:    Spec{Role: match.RoleCivilian, Name: "시민", Team: TeamCitizen, Desc: "능력은 없지만 토론과 투표로 마피아를 색출합니다."},
		factory: NewCitizen,
	},
	match.RoleSheriff: {
		spec:    Spec{Role: match.RoleSheriff, Name: "보안관", Team: TeamCitizen, Desc: "밤마다 한 명을 확인해 마피아 팀인지 알아냅니다."},
		factory: NewSheriff,
	},
	match.RoleMafia: {
		spec:    Spec{Role: match.RoleMafia, Name: "마피아", Team: TeamMafia, Desc: "밤마다 팀원과 같은 대상을 쏘아야 처형에 성공합니다."},
		factory: NewMafia,
	},
	match.RoleGodfather: {
		spec:    Spec{Role: match.RoleGodfather, Name: "대부", Team: TeamMafia, Desc: "마피아와 함께 쏘며, 밤마다 한 명이 보안관인지 확인합니다."},
		factory: NewGodfather,
	},
}

// Build creates the job for a role. Unknown roles play as civilians.
func Build(role match.Role) Job {
	entry, ok := catalog[role]
	if !ok {
		entry = catalog[match.RoleCivilian]
	}
	return entry.factory(entry.spec)
}
