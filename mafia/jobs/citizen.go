package jobs

import "errors"

var errNoAbility = errors.New("능력이 없습니다.")

// passiveJob is used for roles without active skills (e.g., civilians).
type passiveJob struct{ spec Spec }

func NewCitizen(spec Spec) Job { return &passiveJob{spec: spec} }

func (j *passiveJob) Name() string                   { return j.spec.Name }
func (j *passiveJob) Team() Team                     { return j.spec.Team }
func (j *passiveJob) Description() string            { return j.spec.Desc }
func (j *passiveJob) NightAction(ctx *Context) error { return errNoAbility }
