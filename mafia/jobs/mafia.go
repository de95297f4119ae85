package jobs

import (
	"errors"
	"fmt"

	"github.com/gosuda/portal-mafia/mafia/match"
)

var (
	errNotNow       = errors.New("지금은 능력을 사용할 수 없습니다.")
	errShotRejected = errors.New("이미 쐈거나 쏠 수 없는 대상입니다.")
	errCheckUsed    = errors.New("이번 라운드의 확인을 이미 사용했습니다.")
)

type mafiaJob struct{ spec Spec }

func NewMafia(spec Spec) Job { return &mafiaJob{spec: spec} }

func (j *mafiaJob) Name() string        { return j.spec.Name }
func (j *mafiaJob) Team() Team          { return j.spec.Team }
func (j *mafiaJob) Description() string { return j.spec.Desc }
func (j *mafiaJob) NightAction(ctx *Context) error {
	if ctx.Phase != match.KindMafiaShoots {
		return errNotNow
	}
	return shoot(ctx)
}

// godfatherJob shoots with the mafia and checks for the sheriff.
type godfatherJob struct{ spec Spec }

func NewGodfather(spec Spec) Job { return &godfatherJob{spec: spec} }

func (j *godfatherJob) Name() string        { return j.spec.Name }
func (j *godfatherJob) Team() Team          { return j.spec.Team }
func (j *godfatherJob) Description() string { return j.spec.Desc }
func (j *godfatherJob) NightAction(ctx *Context) error {
	switch ctx.Phase {
	case match.KindMafiaShoots:
		return shoot(ctx)
	case match.KindGodfatherReveals:
		if !ctx.Table.MarkChecked(ctx.Actor) {
			return errCheckUsed
		}
		result := "보안관이 아닙니다."
		if ctx.Table.RoleOf(ctx.Target) == match.RoleSheriff {
			result = "보안관입니다."
		}
		ctx.Table.PushSystem(ctx.Actor, fmt.Sprintf("%s번 자리는 %s", ctx.Target, result))
		return nil
	default:
		return errNotNow
	}
}

func shoot(ctx *Context) error {
	if !ctx.Table.Shoot(ctx.Actor, ctx.Target) {
		return errShotRejected
	}
	ctx.Table.PushSystem(ctx.Actor, fmt.Sprintf("%s번 자리를 지목했습니다.", ctx.Target))
	ctx.Table.BroadcastTeam(TeamMafia, ServerEvent{Type: EventTypeLog, Room: ctx.Table.Name(), Body: fmt.Sprintf("%s번 자리가 %s번 자리를 지목했습니다.", ctx.Actor, ctx.Target)})
	return nil
}
