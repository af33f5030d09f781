package matchpage

import "time"

const DefaultCrowdDelay = 200 * time.Millisecond

/*
GoalSoundTrigger plays the goal sound immediately and the crowd sound a
short delay later. Either sound may be nil, in which case that step is
skipped.
*/
type GoalSoundTrigger struct {
	goal       Media
	crowd      Media
	crowdDelay time.Duration
	scheduler  Scheduler
}

type GoalSoundTriggerConfig struct {
	Goal       Media
	Crowd      Media
	CrowdDelay time.Duration
	Scheduler  Scheduler
}

func NewGoalSoundTrigger(config GoalSoundTriggerConfig) *GoalSoundTrigger {
	if config.CrowdDelay <= 0 {
		config.CrowdDelay = DefaultCrowdDelay
	}

	if config.Scheduler == nil {
		config.Scheduler = NewTimerScheduler()
	}

	return &GoalSoundTrigger{
		goal:       config.Goal,
		crowd:      config.Crowd,
		crowdDelay: config.CrowdDelay,
		scheduler:  config.Scheduler,
	}
}

/*
Trigger restarts the goal sound and schedules the crowd sound. Every call is
independent: a second trigger truncates the goal sound in flight and adds
another delayed crowd play. The returned task cancels this trigger's crowd
play only.
*/
func (g *GoalSoundTrigger) Trigger() Task {
	if g.goal != nil {
		restart(g.goal)
	}

	if g.crowd == nil {
		return noopTask{}
	}

	crowd := g.crowd

	return g.scheduler.Schedule(g.crowdDelay, func() {
		restart(crowd)
	})
}

func (g *GoalSoundTrigger) HasGoalSound() bool {
	return g.goal != nil
}

func (g *GoalSoundTrigger) HasCrowdSound() bool {
	return g.crowd != nil
}

func restart(m Media) {
	m.SetCurrentTime(0)
	m.Play()
}
