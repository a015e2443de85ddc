package core

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/xenog/nqe/gen"
)

func TestCallRespond(t *testing.T) {
	responder := Spawn(func(p *Process) error {
		return Respond[string, string](p, func(request string) (string, error) {
			if request == "ping" {
				return "pong", nil
			}
			return "", gen.ErrIncorrect
		})
	})

	resp, err := Call[string, string](Self(), responder, "ping")
	require.NoError(t, err)
	require.Equal(t, "pong", resp)
}

func TestCallConcurrentClients(t *testing.T) {
	const clients = 8

	responder := Spawn(func(p *Process) error {
		for i := 0; i < clients; i++ {
			err := Respond[int, string](p, func(request int) (string, error) {
				return fmt.Sprintf("client-%d", request), nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})

	type answer struct {
		client int
		resp   string
		err    error
	}
	answers := make(chan answer, clients)
	for i := 0; i < clients; i++ {
		go func(client int) {
			resp, err := Call[int, string](Self(), responder, client)
			answers <- answer{client: client, resp: resp, err: err}
		}(i)
	}

	for i := 0; i < clients; i++ {
		a := <-answers
		require.NoError(t, a.err)
		require.Equal(t, fmt.Sprintf("client-%d", a.client), a.resp)
	}
	require.ErrorIs(t, responder.Wait(), gen.TerminateReasonNormal)
}

func TestCallMalformedReply(t *testing.T) {
	self := Self()
	responder := Spawn(func(p *Process) error {
		call, err := Receive[gen.MessageCall](p)
		if err != nil {
			return err
		}
		to, err := ProcessByPID(call.From)
		if err != nil {
			return err
		}
		// reply with something the caller does not expect
		p.Send(to, gen.MessageReply{From: p.PID(), Response: "not a number"})
		return nil
	})

	_, err := Call[string, int](self, responder, "count")
	require.ErrorIs(t, err, gen.ErrMalformed)
}

func TestCallDemultiplexing(t *testing.T) {
	// two outstanding calls from one process, answered in reverse order
	self := Self()

	hold := make(chan struct{})
	slow := Spawn(func(p *Process) error {
		call, err := Receive[gen.MessageCall](p)
		if err != nil {
			return err
		}
		<-hold
		if to, err := ProcessByPID(call.From); err == nil {
			p.Send(to, gen.MessageReply{From: p.PID(), Response: "slow"})
		}
		return nil
	})
	fast := Spawn(func(p *Process) error {
		return Respond[string, string](p, func(string) (string, error) {
			return "fast", nil
		})
	})

	self.Send(slow, gen.MessageCall{From: self.PID(), Request: "r1"})

	resp, err := Call[string, string](self, fast, "r2")
	require.NoError(t, err)
	require.Equal(t, "fast", resp)

	close(hold)
	reply, err := ReceiveMatch[gen.MessageReply](self, func(m gen.MessageReply) bool {
		return m.From == slow.PID()
	})
	require.NoError(t, err)
	require.Equal(t, "slow", reply.Response)
}

func TestCallTimeout(t *testing.T) {
	silent := Spawn(func(p *Process) error {
		_, err := ReceiveStop(p)
		return err
	})

	_, err := CallTimeout[string, string](Self(), silent, "anyone", 20*time.Millisecond)
	require.ErrorIs(t, err, gen.ErrTimeout)

	Self().Stop(silent)
	require.ErrorIs(t, silent.Wait(), gen.TerminateReasonNormal)
}

func TestCallTimeoutAnswered(t *testing.T) {
	responder := Spawn(func(p *Process) error {
		return Respond[string, string](p, func(string) (string, error) {
			return "here", nil
		})
	})

	resp, err := CallTimeout[string, string](Self(), responder, "anyone", time.Second)
	require.NoError(t, err)
	require.Equal(t, "here", resp)
}
