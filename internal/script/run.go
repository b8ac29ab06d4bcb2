package script

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"
)

// Defaults for the execution guards.
const (
	DefaultTimeout        = 500 * time.Millisecond
	DefaultMemoryLimit    = 10 << 20 // 10 MB
	DefaultSampleInterval = 5 * time.Millisecond
)

// Options configure the execution guards. A zero Timeout or
// SampleInterval falls back to the default; a zero MemoryLimit disables
// the memory monitor.
type Options struct {
	Timeout        time.Duration
	MemoryLimit    int64
	SampleInterval time.Duration
}

const (
	reasonNone int32 = iota
	reasonTimeout
	reasonMemory
)

// Run executes a compiled program against env. The script body runs on the
// calling goroutine; a timeout timer and, when a memory limit is set, a
// sampling monitor goroutine race it through a shared cancellation signal.
// Whichever guard fires first determines the reported error kind. The
// monitor is always stopped before Run returns.
func Run(p *Program, env *Context, opts Options) error {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.SampleInterval <= 0 {
		opts.SampleInterval = DefaultSampleInterval
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var reason atomic.Int32
	timer := time.AfterFunc(opts.Timeout, func() {
		reason.CompareAndSwap(reasonNone, reasonTimeout)
		cancel()
	})
	defer timer.Stop()

	var monitorDone chan struct{}
	if opts.MemoryLimit > 0 {
		monitorDone = make(chan struct{})
		var base runtime.MemStats
		runtime.ReadMemStats(&base)
		go func() {
			defer close(monitorDone)
			ticker := time.NewTicker(opts.SampleInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					var ms runtime.MemStats
					runtime.ReadMemStats(&ms)
					if int64(ms.TotalAlloc-base.TotalAlloc) > opts.MemoryLimit {
						reason.CompareAndSwap(reasonNone, reasonMemory)
						cancel()
						return
					}
				}
			}
		}()
	}

	ev := &evaluator{ctx: ctx, env: env}
	err := ev.execBlock(p.stmts)

	cancel()
	if monitorDone != nil {
		<-monitorDone
	}

	if err == nil {
		return nil
	}
	if err == errInterrupted {
		switch reason.Load() {
		case reasonTimeout:
			return &TimeoutError{Limit: opts.Timeout}
		case reasonMemory:
			return &MemoryLimitError{Limit: opts.MemoryLimit}
		default:
			return &ExecError{Msg: "cancelled"}
		}
	}
	if ee, ok := err.(*ExecError); ok {
		return ee
	}
	return &ExecError{Msg: err.Error()}
}
