//go:build js && wasm

package jsdom

import (
	"sync"
	"syscall/js"
	"time"

	"github.com/adampresley/anleague/pkg/matchpage"
)

/*
Scheduler runs tasks with window.setTimeout, so callbacks land on the
browser event loop like any other handler.
*/
type Scheduler struct{}

func NewScheduler() Scheduler {
	return Scheduler{}
}

func (s Scheduler) Schedule(delay time.Duration, fn func()) matchpage.Task {
	t := &timeoutTask{}

	t.cb = js.FuncOf(func(this js.Value, args []js.Value) any {
		if t.finish() {
			fn()
		}

		return nil
	})

	t.id = js.Global().Call("setTimeout", t.cb, delay.Milliseconds())
	return t
}

type timeoutTask struct {
	mu   sync.Mutex
	id   js.Value
	cb   js.Func
	done bool
}

func (t *timeoutTask) finish() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done {
		return false
	}

	t.done = true
	t.cb.Release()
	return true
}

func (t *timeoutTask) Cancel() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done {
		return false
	}

	t.done = true
	js.Global().Call("clearTimeout", t.id)
	t.cb.Release()
	return true
}
