package act

import (
	"errors"
	"fmt"

	"github.com/xenog/nqe/core"
	"github.com/xenog/nqe/gen"
)

// SupervisorStrategyType defines the reaction on a child termination.
type SupervisorStrategyType string

const (
	// SupervisorStrategyIgnoreAll drops the terminated child from the
	// state and keeps going, whatever the reason was.
	SupervisorStrategyIgnoreAll = SupervisorStrategyType("ignore_all")

	// SupervisorStrategyIgnoreGraceful drops children that terminated
	// normally; on an abnormal termination it stops every remaining
	// child and terminates the supervisor with the child's reason.
	SupervisorStrategyIgnoreGraceful = SupervisorStrategyType("ignore_graceful")

	// SupervisorStrategyKillAll stops every remaining child on any child
	// termination. The supervisor terminates with the child's reason if
	// it was abnormal, normally otherwise.
	SupervisorStrategyKillAll = SupervisorStrategyType("kill_all")

	// SupervisorStrategyNotify invokes the Notify callback on every child
	// termination and keeps going. A callback error (or panic) stops
	// every remaining child and terminates the supervisor with it.
	SupervisorStrategyNotify = SupervisorStrategyType("notify")
)

// SupervisorOptions
type SupervisorOptions struct {
	// Name registers the supervisor process under this name.
	Name string
	// Strategy of the supervisor. SupervisorStrategyIgnoreAll is the default.
	Strategy SupervisorStrategyType
	// Notify is invoked on every child termination when the strategy is
	// SupervisorStrategyNotify. It runs inside the supervisor loop, so
	// child terminations are observed one at a time, in order.
	Notify func(child *core.Process, reason error) error
}

// control messages of the supervisor inbox
type messageAddChild struct {
	action func(p *core.Process) error
}

type messageRemoveChild struct {
	child *core.Process
}

type messageStopSupervisor struct{}

type messageChildren struct{}

// Supervisor is the handle used to control a running supervisor process.
type Supervisor struct {
	process *core.Process
}

// StartSupervisor spawns a supervisor process with the given options.
func StartSupervisor(options SupervisorOptions) (*Supervisor, error) {
	if options.Strategy == "" {
		options.Strategy = SupervisorStrategyIgnoreAll
	}
	switch options.Strategy {
	case SupervisorStrategyIgnoreAll, SupervisorStrategyIgnoreGraceful, SupervisorStrategyKillAll:
	case SupervisorStrategyNotify:
		if options.Notify == nil {
			return nil, ErrSupervisorNotifyRequired
		}
	default:
		return nil, ErrSupervisorStrategyUnknown
	}

	loop := func(self *core.Process) error {
		return RunSupervisor(self, options)
	}

	if options.Name == "" {
		return &Supervisor{process: core.Spawn(loop)}, nil
	}
	p, err := core.SpawnRegister(options.Name, loop)
	if err != nil {
		return nil, err
	}
	return &Supervisor{process: p}, nil
}

// NewSupervisor wraps an already running supervisor process (for example
// a child started with AddChild whose action is RunSupervisor) into a
// control handle.
func NewSupervisor(process *core.Process) *Supervisor {
	return &Supervisor{process: process}
}

// Process returns the supervisor's own process, suitable for Monitor,
// Link or Wait.
func (s *Supervisor) Process() *core.Process {
	return s.process
}

// AddChild starts a new child running the action and registers it with
// the supervisor. Synchronous: returns the child handle once the
// supervisor has it in its state.
func (s *Supervisor) AddChild(action func(p *core.Process) error) (*core.Process, error) {
	result, err := s.call(messageAddChild{action: action})
	if err != nil {
		return nil, err
	}
	child, ok := result.(*core.Process)
	if ok == false {
		return nil, gen.ErrMalformed
	}
	return child, nil
}

// Children returns the children currently owned by the supervisor, in
// start order.
func (s *Supervisor) Children() ([]*core.Process, error) {
	result, err := s.call(messageChildren{})
	if err != nil {
		return nil, err
	}
	children, ok := result.([]*core.Process)
	if ok == false {
		return nil, gen.ErrMalformed
	}
	return children, nil
}

// RemoveChild asks the supervisor to drop the child from its state and
// stop it. Asynchronous.
func (s *Supervisor) RemoveChild(child *core.Process) {
	core.Self().Send(s.process, messageRemoveChild{child: child})
}

// Stop asks the supervisor to stop every child and terminate normally.
// Asynchronous; combine with Process().Wait() if completion matters.
func (s *Supervisor) Stop() {
	core.Self().Send(s.process, messageStopSupervisor{})
}

// call is the synchronous control exchange. The supervisor is monitored
// for the duration, so a call to a terminated supervisor fails instead of
// blocking forever.
func (s *Supervisor) call(request any) (any, error) {
	self := core.Self()
	self.Monitor(s.process)
	defer self.Demonitor(s.process)

	self.Send(s.process, gen.MessageCall{From: self.PID(), Request: request})

	var result any
	err := core.Dispatch(self,
		core.Match[gen.MessageReply](
			func(m gen.MessageReply) bool { return m.From == s.process.PID() },
			func(m gen.MessageReply) error { result = m.Response; return nil },
		),
		core.Match[gen.MessageDownPID](
			func(m gen.MessageDownPID) bool { return m.PID == s.process.PID() },
			func(m gen.MessageDownPID) error { return gen.ErrProcessTerminated },
		),
	)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RunSupervisor runs the supervisor loop as the body of the given
// process. StartSupervisor spawns it; supplying it as a child action to
// another supervisor makes the supervisor itself supervised.
//
// The loop handles one event per iteration: a control message or a child
// termination, whichever is next in the mailbox. On any way out of the
// loop - graceful stop, a strategy decision, an exit signal - every child
// still in the state is stopped.
func RunSupervisor(self *core.Process, options SupervisorOptions) error {
	children := []*core.Process{}

	defer func() {
		for _, child := range children {
			self.SendExit(child, gen.TerminateReasonShutdown)
		}
	}()

	// drops the child with the given PID from the state
	remove := func(pid gen.PID) *core.Process {
		for i, child := range children {
			if child.PID() == pid {
				children = append(children[:i], children[i+1:]...)
				return child
			}
		}
		return nil
	}

	for {
		err := core.Dispatch(self,
			core.HandleCall[messageAddChild, *core.Process](func(m messageAddChild) (*core.Process, error) {
				child := core.Spawn(m.action)
				self.Monitor(child)
				children = append(children, child)
				self.Log().Debug("supervisor started child %s", child)
				return child, nil
			}),
			core.HandleCall[messageChildren, []*core.Process](func(messageChildren) ([]*core.Process, error) {
				list := make([]*core.Process, len(children))
				copy(list, children)
				return list, nil
			}),
			core.Case[messageRemoveChild](func(m messageRemoveChild) error {
				if child := remove(m.child.PID()); child != nil {
					self.Demonitor(child)
					self.SendExit(child, gen.TerminateReasonShutdown)
					self.Log().Debug("supervisor removed child %s", child)
				}
				return nil
			}),
			core.Case[messageStopSupervisor](func(messageStopSupervisor) error {
				return gen.TerminateReasonNormal
			}),
			core.Case[gen.MessageDownPID](func(m gen.MessageDownPID) error {
				child := remove(m.PID)
				if child == nil {
					// already removed from the state
					return nil
				}
				return applyStrategy(self, options, child, m.Reason)
			}),
			core.Default(func(message any) error {
				self.Log().Warning("supervisor: unhandled message %#v", message)
				return nil
			}),
		)
		if err == nil {
			continue
		}
		if errors.Is(err, gen.TerminateReasonNormal) {
			return nil
		}
		return err
	}
}

func applyStrategy(self *core.Process, options SupervisorOptions, child *core.Process, reason error) error {
	normal := errors.Is(reason, gen.TerminateReasonNormal)
	self.Log().Debug("supervisor: child %s terminated: %s", child, reason)

	switch options.Strategy {
	case SupervisorStrategyIgnoreGraceful:
		if normal {
			return nil
		}
		return reason

	case SupervisorStrategyKillAll:
		if normal {
			return gen.TerminateReasonNormal
		}
		return reason

	case SupervisorStrategyNotify:
		err := func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("%w: %v", gen.TerminateReasonPanic, r)
				}
			}()
			return options.Notify(child, reason)
		}()
		return err
	}

	// SupervisorStrategyIgnoreAll
	return nil
}
