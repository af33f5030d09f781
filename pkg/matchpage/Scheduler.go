package matchpage

import (
	"sort"
	"sync"
	"time"
)

/*
Task is a scheduled callback. Cancel reports whether it stopped the callback
from running. Cancelling a task that already ran, or was already cancelled,
returns false.
*/
type Task interface {
	Cancel() bool
}

type Scheduler interface {
	Schedule(delay time.Duration, fn func()) Task
}

type noopTask struct{}

func (noopTask) Cancel() bool { return false }

/*
TimerScheduler runs tasks on runtime timers. Callbacks fire on their own
goroutine, so callers that need run-to-completion must serialize them.
*/
type TimerScheduler struct{}

func NewTimerScheduler() TimerScheduler {
	return TimerScheduler{}
}

func (s TimerScheduler) Schedule(delay time.Duration, fn func()) Task {
	return timerTask{timer: time.AfterFunc(delay, fn)}
}

type timerTask struct {
	timer *time.Timer
}

func (t timerTask) Cancel() bool {
	return t.timer.Stop()
}

/*
lockedScheduler runs every task while holding the page lock, giving the
same run-to-completion guarantee click handlers get.
*/
type lockedScheduler struct {
	inner Scheduler
	lock  sync.Locker
}

func (s lockedScheduler) Schedule(delay time.Duration, fn func()) Task {
	return s.inner.Schedule(delay, func() {
		s.lock.Lock()
		defer s.lock.Unlock()

		fn()
	})
}

/*
ManualScheduler is a virtual clock. Nothing runs until Advance moves time
forward past a task's due time. Tasks due at the same instant run in the
order they were scheduled.
*/
type ManualScheduler struct {
	mu    sync.Mutex
	now   time.Duration
	seq   int
	tasks []*manualTask
}

type manualTask struct {
	due       time.Duration
	seq       int
	fn        func()
	scheduler *ManualScheduler
	done      bool
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

func (s *ManualScheduler) Schedule(delay time.Duration, fn func()) Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	if delay < 0 {
		delay = 0
	}

	s.seq++

	task := &manualTask{
		due:       s.now + delay,
		seq:       s.seq,
		fn:        fn,
		scheduler: s,
	}

	s.tasks = append(s.tasks, task)
	return task
}

/*
Advance moves the clock forward by d, running each task that comes due.
Tasks scheduled by a running task are picked up if they fall inside the
window.
*/
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()

	for {
		task := s.nextDue(target)

		if task == nil {
			break
		}

		task.fn()
	}

	s.mu.Lock()
	s.now = target
	s.mu.Unlock()
}

func (s *ManualScheduler) nextDue(target time.Duration) *manualTask {
	s.mu.Lock()
	defer s.mu.Unlock()

	sort.SliceStable(s.tasks, func(i, j int) bool {
		if s.tasks[i].due == s.tasks[j].due {
			return s.tasks[i].seq < s.tasks[j].seq
		}

		return s.tasks[i].due < s.tasks[j].due
	})

	if len(s.tasks) == 0 || s.tasks[0].due > target {
		return nil
	}

	task := s.tasks[0]
	s.tasks = s.tasks[1:]
	task.done = true

	if task.due > s.now {
		s.now = task.due
	}

	return task
}

// Now is the virtual time elapsed since the scheduler was created.
func (s *ManualScheduler) Now() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.now
}

// Pending is the number of tasks that have neither run nor been cancelled.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.tasks)
}

func (t *manualTask) Cancel() bool {
	s := t.scheduler
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.done {
		return false
	}

	t.done = true

	for i, pending := range s.tasks {
		if pending == t {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			break
		}
	}

	return true
}
