package core

import (
	"sync"

	"github.com/xenog/nqe/gen"
	"github.com/xenog/nqe/lib"
)

// The registry is the only shared mutable state outside the processes
// themselves: a process-wide table mapping goroutine ids to processes,
// plus the table of registered names.
var (
	processes lib.Map[gen.PID, *Process]
	names     lib.Map[string, *Process]

	loggerMu sync.RWMutex
	logger   gen.LoggerBehavior = gen.CreateDefaultLogger(gen.DefaultLoggerOptions{})
)

// Self returns the process bound to the calling goroutine. A goroutine
// that touches the runtime for the first time gets a fresh process with
// empty link/monitor sets, inserted atomically with the lookup. Such a
// lazily created process has no action of its own and stays alive for as
// long as the program does.
func Self() *Process {
	pid := gen.PID(lib.GoroutineID())
	p, _ := processes.LoadOrCreate(pid, func() *Process {
		return newProcess(pid, "")
	})
	return p
}

// ProcessByPID returns the registered process with the given PID.
// Returns gen.ErrProcessUnknown if there is none (including processes
// that already terminated).
func ProcessByPID(pid gen.PID) (*Process, error) {
	p, found := processes.Load(pid)
	if found == false {
		return nil, gen.ErrProcessUnknown
	}
	return p, nil
}

// ProcessByName returns the process registered under the given name.
func ProcessByName(name string) (*Process, error) {
	p, found := names.Load(name)
	if found == false {
		return nil, gen.ErrNameUnknown
	}
	return p, nil
}

// ProcessList returns the currently registered processes.
func ProcessList() []*Process {
	list := make([]*Process, 0, processes.Len())
	processes.Range(func(_ gen.PID, p *Process) bool {
		list = append(list, p)
		return true
	})
	return list
}

// SetLogger replaces the logger used by every process. The previous
// logger is terminated.
func SetLogger(l gen.LoggerBehavior) {
	if l == nil {
		return
	}
	loggerMu.Lock()
	previous := logger
	logger = l
	loggerMu.Unlock()
	previous.Terminate()
}

func currentLogger() gen.LoggerBehavior {
	loggerMu.RLock()
	l := logger
	loggerMu.RUnlock()
	return l
}

func unregister(p *Process) {
	processes.Delete(p.pid)
	if p.name != "" {
		if registered, found := names.Load(p.name); found && registered == p {
			names.Delete(p.name)
		}
	}
}
