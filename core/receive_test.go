package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xenog/nqe/gen"
)

func TestReceiveMatchSelective(t *testing.T) {
	self := Self()
	Spawn(func(p *Process) error {
		p.Send(self, 1)
		p.Send(self, 2)
		p.Send(self, 3)
		p.Send(self, "x")
		return nil
	})

	// the string is fished out first, skipping the integers
	s, err := ReceiveMatch[string](self, nil)
	require.NoError(t, err)
	require.Equal(t, "x", s)

	// the skipped integers are still there, in their original order
	for i := 1; i <= 3; i++ {
		m, err := Receive[int](self)
		require.NoError(t, err)
		require.Equal(t, i, m)
	}
}

func TestReceiveMatchPredicate(t *testing.T) {
	self := Self()
	Spawn(func(p *Process) error {
		for i := 1; i <= 5; i++ {
			p.Send(self, i)
		}
		return nil
	})

	m, err := ReceiveMatch[int](self, func(m int) bool { return m > 3 })
	require.NoError(t, err)
	require.Equal(t, 4, m)

	// everything unmatched kept its order: 1, 2, 3, 5
	for _, expect := range []int{1, 2, 3, 5} {
		m, err := Receive[int](self)
		require.NoError(t, err)
		require.Equal(t, expect, m)
	}
}

func TestReceiveMatchRepeatedRestores(t *testing.T) {
	self := Self()
	Spawn(func(p *Process) error {
		p.Send(self, 1)
		p.Send(self, "a")
		p.Send(self, 2)
		p.Send(self, "b")
		return nil
	})

	// two selective receives in a row, each skipping over the integers
	a, err := Receive[string](self)
	require.NoError(t, err)
	require.Equal(t, "a", a)

	b, err := Receive[string](self)
	require.NoError(t, err)
	require.Equal(t, "b", b)

	for _, expect := range []int{1, 2} {
		m, err := Receive[int](self)
		require.NoError(t, err)
		require.Equal(t, expect, m)
	}
}

func TestReceiveSignalPriority(t *testing.T) {
	// a pending exit signal wins over a matching message already queued
	boom := errors.New("boom")
	delivered := make(chan struct{})

	result := make(chan error, 1)
	got := make(chan int, 1)
	p := Spawn(func(p *Process) error {
		<-delivered
		m, err := Receive[int](p)
		got <- m
		result <- err
		return err
	})

	Self().Send(p, 5)
	Self().SendExit(p, boom)
	close(delivered)

	err := <-result
	require.ErrorIs(t, err, boom)
	require.Equal(t, 0, <-got)
}

func TestDispatchFirstMatchWins(t *testing.T) {
	self := Self()
	Spawn(func(p *Process) error {
		p.Send(self, 7)
		return nil
	})

	var handled string
	err := Dispatch(self,
		Match[int](func(m int) bool { return m > 10 }, func(m int) error {
			handled = "big"
			return nil
		}),
		Case[int](func(m int) error {
			handled = "small"
			return nil
		}),
		Default(func(m any) error {
			handled = "default"
			return nil
		}),
	)
	require.NoError(t, err)
	require.Equal(t, "small", handled)
}

func TestDispatchDefault(t *testing.T) {
	self := Self()
	Spawn(func(p *Process) error {
		p.Send(self, 3.14)
		return nil
	})

	var got any
	err := Dispatch(self,
		Case[int](func(m int) error { return errors.New("wrong arm") }),
		Default(func(m any) error {
			got = m
			return nil
		}),
	)
	require.NoError(t, err)
	require.Equal(t, 3.14, got)
}

func TestDispatchKeepsUnmatched(t *testing.T) {
	self := Self()
	Spawn(func(p *Process) error {
		p.Send(self, "noise")
		p.Send(self, 42)
		return nil
	})

	err := Dispatch(self,
		Case[int](func(m int) error { return nil }),
	)
	require.NoError(t, err)

	// the unmatched string is still in the mailbox
	s, err := Receive[string](self)
	require.NoError(t, err)
	require.Equal(t, "noise", s)
}

func TestDispatchHandleCall(t *testing.T) {
	responder := Spawn(func(p *Process) error {
		return Dispatch(p,
			HandleCall[string, string](func(request string) (string, error) {
				return request + " indeed", nil
			}),
		)
	})

	resp, err := Call[string, string](Self(), responder, "quite")
	require.NoError(t, err)
	require.Equal(t, "quite indeed", resp)
	require.ErrorIs(t, responder.Wait(), gen.TerminateReasonNormal)
}

func TestDispatchHandlerError(t *testing.T) {
	boom := errors.New("boom")
	p := Spawn(func(p *Process) error {
		return Dispatch(p,
			Case[int](func(m int) error { return boom }),
		)
	})

	Self().Send(p, 1)
	require.ErrorIs(t, p.Wait(), boom)
}
