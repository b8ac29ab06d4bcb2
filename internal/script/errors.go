package script

import (
	"fmt"
	"time"
)

// CompileError reports a script that failed to parse or validate. The
// offending definition is skipped by callers; it never aborts a battle.
type CompileError struct {
	Line int
	Msg  string
}

func (e *CompileError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("script compile error at line %d: %s", e.Line, e.Msg)
	}
	return "script compile error: " + e.Msg
}

// TimeoutError reports a script cancelled by the wall-clock guard.
type TimeoutError struct {
	Limit time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("script exceeded time limit of %s", e.Limit)
}

// MemoryLimitError reports a script cancelled by the memory monitor.
type MemoryLimitError struct {
	Limit int64
}

func (e *MemoryLimitError) Error() string {
	return fmt.Sprintf("script exceeded memory limit of %d bytes", e.Limit)
}

// ExecError wraps any other failure raised while a compiled script runs.
type ExecError struct {
	Msg string
}

func (e *ExecError) Error() string {
	return "script execution error: " + e.Msg
}

func execErrorf(format string, args ...interface{}) *ExecError {
	return &ExecError{Msg: fmt.Sprintf(format, args...)}
}
