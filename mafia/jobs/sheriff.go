package jobs

import (
	"fmt"

	"github.com/gosuda/portal-mafia/mafia/match"
)

type sheriffJob struct{ spec Spec }

func NewSheriff(spec Spec) Job { return &sheriffJob{spec: spec} }

func (j *sheriffJob) Name() string        { return j.spec.Name }
func (j *sheriffJob) Team() Team          { return j.spec.Team }
func (j *sheriffJob) Description() string { return j.spec.Desc }
func (j *sheriffJob) NightAction(ctx *Context) error {
	if ctx.Phase != match.KindSheriffReveals {
		return errNotNow
	}
	if !ctx.Table.MarkChecked(ctx.Actor) {
		return errCheckUsed
	}
	result := "마피아 팀이 아닙니다."
	if ctx.Table.RoleOf(ctx.Target).IsEvil() {
		result = "마피아 팀입니다."
	}
	ctx.Table.PushSystem(ctx.Actor, fmt.Sprintf("%s번 자리는 %s", ctx.Target, result))
	return nil
}
