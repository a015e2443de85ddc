package lib

import (
	"sync"
	"time"
)

var (
	timers = &sync.Pool{
		New: func() any {
			t := time.NewTimer(time.Second)
			t.Stop()
			return t
		},
	}
)

// TakeTimer takes a stopped timer from the pool. Reset it before use.
func TakeTimer() *time.Timer {
	return timers.Get().(*time.Timer)
}

// ReleaseTimer
func ReleaseTimer(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	timers.Put(t)
}
