package core

import (
	"context"
	"fmt"
	"time"

	"github.com/xenog/nqe/gen"
	"github.com/xenog/nqe/lib"
)

// Spawn starts a new process running the given action. The returned handle
// is valid by the time Spawn returns: the process is already registered,
// and the action has not observed anything before that. The process
// terminates when the action returns; a nil result becomes
// gen.TerminateReasonNormal, a panic becomes a reason wrapping
// gen.TerminateReasonPanic.
func Spawn(action func(p *Process) error) *Process {
	p, _ := SpawnRegister("", action)
	return p
}

// SpawnRegister is Spawn with a registered name. Returns gen.ErrTaken if
// the name is already in use; no process is started in that case.
func SpawnRegister(name string, action func(p *Process) error) (*Process, error) {
	type spawned struct {
		process *Process
		err     error
	}
	ready := make(chan spawned)

	go func() {
		pid := gen.PID(lib.GoroutineID())
		p := newProcess(pid, name)

		// the action must not start until the process is registered,
		// otherwise an early crash would have nothing to clean up
		if name != "" {
			if names.StoreNew(name, p) == false {
				ready <- spawned{err: gen.ErrTaken}
				return
			}
		}
		processes.Store(pid, p)
		ready <- spawned{process: p}

		p.run(action)
	}()

	s := <-ready
	return s.process, s.err
}

func (p *Process) run(action func(p *Process) error) {
	p.log.Trace("process started")

	var reason error
	func() {
		defer func() {
			if r := recover(); r != nil {
				p.log.Panic("process panicked: %v", r)
				reason = fmt.Errorf("%w: %v", gen.TerminateReasonPanic, r)
			}
		}()
		reason = action(p)
	}()

	if reason == nil {
		reason = gen.TerminateReasonNormal
	}
	p.terminate(reason)
	p.log.Trace("process terminated: %s", reason)
}

// WithProcess starts a child process running the action for the duration
// of body. Whichever way body returns - normally, with an error or by
// panicking - the child is sent the shutdown exit signal and awaited
// before WithProcess returns.
func WithProcess(action func(p *Process) error, body func(child *Process) error) error {
	self := Self()
	child := Spawn(action)
	defer func() {
		self.SendExit(child, gen.TerminateReasonShutdown)
		child.Wait()
	}()
	return body(child)
}

// SendAfter sends the message to the target once the duration elapses.
// The returned cancel func drops the delivery if it has not happened yet.
func (p *Process) SendAfter(to *Process, message any, after time.Duration) context.CancelFunc {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		t := lib.TakeTimer()
		defer lib.ReleaseTimer(t)
		t.Reset(after)

		select {
		case <-ctx.Done():
		case <-t.C:
			p.Send(to, message)
		}
	}()
	return cancel
}

// RunAfter spawns a fire-and-forget activity that waits for the duration
// and runs f. If f returns an error or panics, the owning process is
// killed with it.
func (p *Process) RunAfter(after time.Duration, f func() error) {
	go func() {
		t := lib.TakeTimer()
		defer lib.ReleaseTimer(t)
		t.Reset(after)
		<-t.C

		err := func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("%w: %v", gen.TerminateReasonPanic, r)
				}
			}()
			return f()
		}()
		if err != nil {
			p.deliverSignal(err)
		}
	}()
}
