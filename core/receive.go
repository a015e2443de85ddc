package core

import (
	"github.com/xenog/nqe/gen"
)

// Receive returns the next message of type T, blocking until one arrives.
// Messages of other types are kept in the mailbox in their original order.
func Receive[T any](p *Process) (T, error) {
	return ReceiveMatch[T](p, nil)
}

// ReceiveMatch is the selective receive: it returns the oldest message of
// type T satisfying the match callback. Messages examined on the way are
// restored to the front of the mailbox, so the relative order of
// everything left unmatched is exactly what it was before the call. Blocks
// while no message matches. A nil match accepts any message of type T.
//
// A pending exit signal (termination of a linked process, SendExit) takes
// priority over the mailbox and is returned as the error.
func ReceiveMatch[T any](p *Process, match func(T) bool) (T, error) {
	var zero T
	var skipped []envelope

	for {
		if err := p.takeSignal(); err != nil {
			p.restore(skipped)
			return zero, err
		}

		e, ok := p.next()
		if ok == false {
			<-p.wake
			continue
		}

		m, ok := e.message.(T)
		if ok && (match == nil || match(m)) {
			p.restore(skipped)
			return m, nil
		}
		skipped = append(skipped, e)
	}
}

// ReceiveStop blocks until the cooperative stop request arrives, ignoring
// (and keeping) everything else.
func ReceiveStop(p *Process) (gen.MessageStop, error) {
	return Receive[gen.MessageStop](p)
}

// DispatchHandler is one arm of a Dispatch call. Use Case, Match,
// HandleCall or Default to construct one.
type DispatchHandler interface {
	accept(p *Process, e envelope) (func() error, bool)
}

// Case matches any message of type T.
func Case[T any](fn func(message T) error) DispatchHandler {
	return &caseHandler[T]{fn: fn}
}

// Match matches a message of type T satisfying the match callback.
func Match[T any](match func(message T) bool, fn func(message T) error) DispatchHandler {
	return &caseHandler[T]{match: match, fn: fn}
}

type caseHandler[T any] struct {
	match func(T) bool
	fn    func(T) error
}

func (h *caseHandler[T]) accept(p *Process, e envelope) (func() error, bool) {
	m, ok := e.message.(T)
	if ok == false {
		return nil, false
	}
	if h.match != nil && h.match(m) == false {
		return nil, false
	}
	return func() error { return h.fn(m) }, true
}

// HandleCall matches a gen.MessageCall envelope whose request is of type
// Req. The computed response is sent back to the caller tagged with this
// process's PID; a non-nil error skips the reply and is returned by
// Dispatch instead.
func HandleCall[Req, Resp any](fn func(request Req) (Resp, error)) DispatchHandler {
	return &callHandler[Req, Resp]{fn: fn}
}

type callHandler[Req, Resp any] struct {
	fn func(Req) (Resp, error)
}

func (h *callHandler[Req, Resp]) accept(p *Process, e envelope) (func() error, bool) {
	call, ok := e.message.(gen.MessageCall)
	if ok == false {
		return nil, false
	}
	request, ok := call.Request.(Req)
	if ok == false {
		return nil, false
	}
	return func() error {
		response, err := h.fn(request)
		if err != nil {
			return err
		}
		if to, err := ProcessByPID(call.From); err == nil {
			p.Send(to, gen.MessageReply{From: p.pid, Response: response})
		}
		return nil
	}, true
}

// Default matches anything. Must be the last handler to be useful.
func Default(fn func(message any) error) DispatchHandler {
	return &defaultHandler{fn: fn}
}

type defaultHandler struct {
	fn func(any) error
}

func (h *defaultHandler) accept(p *Process, e envelope) (func() error, bool) {
	return func() error { return h.fn(e.message) }, true
}

// Dispatch processes exactly one message. The handlers are tried in order
// on every mailbox message, oldest first; the first handler accepting a
// message wins and its result becomes the result of Dispatch. Messages no
// handler accepts are kept with the same restore discipline as
// ReceiveMatch. Blocks while nothing matches; pending exit signals are
// returned as the error.
func Dispatch(p *Process, handlers ...DispatchHandler) error {
	var skipped []envelope

	for {
		if err := p.takeSignal(); err != nil {
			p.restore(skipped)
			return err
		}

		e, ok := p.next()
		if ok == false {
			<-p.wake
			continue
		}

		for _, h := range handlers {
			fn, accepted := h.accept(p, e)
			if accepted {
				p.restore(skipped)
				return fn()
			}
		}
		skipped = append(skipped, e)
	}
}
