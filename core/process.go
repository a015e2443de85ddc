package core

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/xenog/nqe/gen"
	"github.com/xenog/nqe/lib"
)

// envelope keeps the runtime type of the message along with the sender.
type envelope struct {
	from    gen.PID
	message any
}

// Process is a handle to a concurrent activity with a mailbox, a set of
// linked processes, a set of monitoring processes and a terminal status.
// Handles are shared freely between goroutines; the receive operations
// (Receive, Dispatch, Call) belong to the owner goroutine only.
type Process struct {
	pid  gen.PID
	name string

	queue lib.QueueMPSC[envelope]
	wake  chan struct{}

	mu         sync.Mutex
	links      map[gen.PID]*Process
	monitors   map[gen.PID]*Process
	signals    []error
	terminated bool
	reason     error

	done chan struct{}

	log *log

	// owner goroutine only: messages restored by a selective receive,
	// consumed before the queue. restoredLen mirrors its length for Info.
	pushback    []envelope
	restoredLen int64
}

func newProcess(pid gen.PID, name string) *Process {
	return &Process{
		pid:      pid,
		name:     name,
		queue:    lib.NewQueueMPSC[envelope](),
		wake:     make(chan struct{}, 1),
		links:    make(map[gen.PID]*Process),
		monitors: make(map[gen.PID]*Process),
		done:     make(chan struct{}),
		log:      newLog(gen.MessageLogProcess{PID: pid, Name: name}),
	}
}

// PID returns the process identifier.
func (p *Process) PID() gen.PID {
	return p.pid
}

// Name returns the registered name. Returns empty string if the process
// was spawned without a name.
func (p *Process) Name() string {
	return p.name
}

func (p *Process) String() string {
	return p.pid.String()
}

// Log returns the process logger.
func (p *Process) Log() gen.Log {
	return p.log
}

// IsAlive returns true until the process has terminated.
func (p *Process) IsAlive() bool {
	select {
	case <-p.done:
		return false
	default:
		return true
	}
}

// Reason returns the termination reason, or nil while the process is
// still running. A process that completed its action without an error has
// the reason gen.TerminateReasonNormal.
func (p *Process) Reason() error {
	select {
	case <-p.done:
		return p.reason
	default:
		return nil
	}
}

// Wait blocks until the process terminates and returns its reason.
func (p *Process) Wait() error {
	<-p.done
	return p.reason
}

// WaitTimeout waits for the termination no longer than the given duration.
// Returns gen.ErrTimeout if the process is still running when it expires.
func (p *Process) WaitTimeout(d time.Duration) error {
	t := lib.TakeTimer()
	defer lib.ReleaseTimer(t)
	t.Reset(d)

	select {
	case <-p.done:
		return p.reason
	case <-t.C:
		return gen.ErrTimeout
	}
}

// Send appends the message to the target's mailbox. It never fails and
// never blocks. A message sent to a terminated process is discarded
// silently - use Monitor or Call if delivery matters.
func (p *Process) Send(to *Process, message any) {
	to.enqueue(envelope{from: p.pid, message: message})
}

// Stop sends the cooperative stop request to the target. The target acts
// on it whenever it receives gen.MessageStop.
func (p *Process) Stop(target *Process) {
	p.Send(target, gen.MessageStop{From: p.pid})
}

// SendExit delivers an exit signal to the target. The target observes it
// as an *gen.ExitError returned from its next suspension point.
func (p *Process) SendExit(target *Process, reason error) {
	target.deliverSignal(&gen.ExitError{PID: p.pid, Reason: reason})
}

// Link registers the failure-propagation relation between both processes:
// whichever of the two terminates first, the other receives an exit
// signal carrying the termination reason. Linking an already terminated
// process delivers the signal right away. Repeated calls are no-ops.
func (p *Process) Link(target *Process) {
	lo, hi := p, target
	if hi.pid < lo.pid {
		lo, hi = hi, lo
	}
	lo.mu.Lock()
	if hi != lo {
		hi.mu.Lock()
	}

	if target.terminated {
		reason := target.reason
		if hi != lo {
			hi.mu.Unlock()
		}
		lo.mu.Unlock()
		p.deliverSignal(&gen.ExitError{PID: target.pid, Reason: reason})
		return
	}

	if p.terminated == false {
		target.links[p.pid] = p
		p.links[target.pid] = target
	}

	if hi != lo {
		hi.mu.Unlock()
	}
	lo.mu.Unlock()
}

// Unlink removes the link between both processes. Always succeeds.
func (p *Process) Unlink(target *Process) {
	lo, hi := p, target
	if hi.pid < lo.pid {
		lo, hi = hi, lo
	}
	lo.mu.Lock()
	if hi != lo {
		hi.mu.Lock()
	}
	delete(target.links, p.pid)
	delete(p.links, target.pid)
	if hi != lo {
		hi.mu.Unlock()
	}
	lo.mu.Unlock()
}

// Monitor subscribes this process to the termination of the target: the
// mailbox gets a gen.MessageDownPID once the target terminates.
// Monitoring an already terminated process delivers the notification
// right away. Repeated calls are no-ops.
func (p *Process) Monitor(target *Process) {
	target.mu.Lock()
	if target.terminated {
		reason := target.reason
		target.mu.Unlock()
		p.enqueue(envelope{
			from:    target.pid,
			message: gen.MessageDownPID{PID: target.pid, Reason: reason},
		})
		return
	}
	target.monitors[p.pid] = p
	target.mu.Unlock()
}

// Demonitor removes the termination subscription.
func (p *Process) Demonitor(target *Process) {
	target.mu.Lock()
	delete(target.monitors, p.pid)
	target.mu.Unlock()
}

// Info returns a snapshot of the process state.
func (p *Process) Info() gen.ProcessInfo {
	p.mu.Lock()
	info := gen.ProcessInfo{
		PID:             p.pid,
		Name:            p.name,
		State:           gen.ProcessStateRunning,
		MessageQueueLen: p.queue.Len() + atomic.LoadInt64(&p.restoredLen),
	}
	if p.terminated {
		info.State = gen.ProcessStateTerminated
	}
	for pid := range p.links {
		info.Links = append(info.Links, pid)
	}
	for pid := range p.monitors {
		info.MonitoredBy = append(info.MonitoredBy, pid)
	}
	p.mu.Unlock()
	return info
}

func (p *Process) enqueue(e envelope) {
	if p.IsAlive() == false {
		return
	}
	p.queue.Push(e)
	p.notify()
}

func (p *Process) notify() {
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

func (p *Process) deliverSignal(err error) {
	p.mu.Lock()
	if p.terminated {
		p.mu.Unlock()
		return
	}
	p.signals = append(p.signals, err)
	p.mu.Unlock()
	p.notify()
}

// takeSignal pops the oldest pending exit signal. Checked at every
// suspension point.
func (p *Process) takeSignal() error {
	p.mu.Lock()
	if len(p.signals) == 0 {
		p.mu.Unlock()
		return nil
	}
	err := p.signals[0]
	p.signals = p.signals[1:]
	p.mu.Unlock()
	return err
}

// next takes the oldest message: restored ones first, then the queue.
// Owner goroutine only.
func (p *Process) next() (envelope, bool) {
	if len(p.pushback) > 0 {
		e := p.pushback[0]
		p.pushback = p.pushback[1:]
		atomic.AddInt64(&p.restoredLen, -1)
		return e, true
	}
	return p.queue.Pop()
}

// restore puts the messages skipped by a selective receive back to the
// front of the mailbox, keeping their original order. Owner goroutine only.
func (p *Process) restore(skipped []envelope) {
	if len(skipped) == 0 {
		return
	}
	p.pushback = append(skipped, p.pushback...)
	atomic.AddInt64(&p.restoredLen, int64(len(skipped)))
}

// terminate fills the terminal status, unregisters the process and fans the
// death notifications out. The critical section is the linearization point:
// any Link/Monitor running concurrently either got into the snapshot taken
// here or observes the filled status and takes the already-terminated
// branch itself. Monitor notifications are enqueued before the status
// becomes observable, so whoever saw the process dead can rely on the
// notifications being on their way. Runs once; later calls are no-ops.
func (p *Process) terminate(reason error) {
	p.mu.Lock()
	if p.terminated {
		p.mu.Unlock()
		return
	}
	p.terminated = true
	p.reason = reason
	monitors := p.monitors
	links := p.links
	p.monitors, p.links, p.signals = nil, nil, nil
	unregister(p)

	down := gen.MessageDownPID{PID: p.pid, Reason: reason}
	for _, m := range monitors {
		m.enqueue(envelope{from: p.pid, message: down})
	}

	close(p.done)
	p.mu.Unlock()

	exit := &gen.ExitError{PID: p.pid, Reason: reason}
	for _, l := range links {
		// scrub the back reference so the dead process is not retained
		// in the peer's link set
		l.mu.Lock()
		delete(l.links, p.pid)
		l.mu.Unlock()
		l.deliverSignal(exit)
	}
}
