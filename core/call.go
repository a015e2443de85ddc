package core

import (
	"sync/atomic"
	"time"

	"github.com/xenog/nqe/gen"
)

// Call sends the request to the target process and blocks until the
// response arrives. Replies are matched by the target's PID, so one
// mailbox demultiplexes any number of outstanding calls to distinct
// processes. Returns gen.ErrMalformed if the reply payload is not a Resp.
//
// A call to a terminated process never completes on its own - combine
// with Monitor (see act.Supervisor for the pattern) or use CallTimeout.
func Call[Req, Resp any](p *Process, to *Process, request Req) (Resp, error) {
	var zero Resp

	p.Send(to, gen.MessageCall{From: p.pid, Request: request})
	reply, err := ReceiveMatch[gen.MessageReply](p, func(m gen.MessageReply) bool {
		return m.From == to.pid
	})
	if err != nil {
		return zero, err
	}

	response, ok := reply.Response.(Resp)
	if ok == false {
		return zero, gen.ErrMalformed
	}
	return response, nil
}

var callRef uint64

// messageCallTimeout is the marker a CallTimeout schedules to itself.
type messageCallTimeout struct {
	ref uint64
}

// CallTimeout is Call with a deadline. Returns gen.ErrTimeout if the
// response does not arrive in time; a response arriving later stays in
// the mailbox.
func CallTimeout[Req, Resp any](p *Process, to *Process, request Req, timeout time.Duration) (Resp, error) {
	var zero Resp
	var result any

	ref := atomic.AddUint64(&callRef, 1)
	p.Send(to, gen.MessageCall{From: p.pid, Request: request})
	cancel := p.SendAfter(p, messageCallTimeout{ref: ref}, timeout)
	defer cancel()

	err := Dispatch(p,
		Match[gen.MessageReply](
			func(m gen.MessageReply) bool { return m.From == to.pid },
			func(m gen.MessageReply) error { result = m.Response; return nil },
		),
		Match[messageCallTimeout](
			func(m messageCallTimeout) bool { return m.ref == ref },
			func(messageCallTimeout) error { return gen.ErrTimeout },
		),
	)
	if err != nil {
		return zero, err
	}

	response, ok := result.(Resp)
	if ok == false {
		return zero, gen.ErrMalformed
	}
	return response, nil
}

// Respond handles a single request: it waits for a gen.MessageCall whose
// request is of type Req, computes the response and sends it back to the
// caller. The dual of Call.
func Respond[Req, Resp any](p *Process, fn func(request Req) (Resp, error)) error {
	call, err := ReceiveMatch[gen.MessageCall](p, func(m gen.MessageCall) bool {
		_, ok := m.Request.(Req)
		return ok
	})
	if err != nil {
		return err
	}

	response, err := fn(call.Request.(Req))
	if err != nil {
		return err
	}
	if to, err := ProcessByPID(call.From); err == nil {
		p.Send(to, gen.MessageReply{From: p.pid, Response: response})
	}
	return nil
}
