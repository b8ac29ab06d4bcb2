package script

import (
	"strings"
	"sync"
)

// Program is a compiled, reusable effect script.
type Program struct {
	src   string
	stmts []stmtNode
}

// Source returns the exact source text the program was compiled from.
func (p *Program) Source() string { return p.src }

var (
	cacheMu sync.RWMutex
	cache   = map[string]*Program{}
)

// Compile parses and validates src, returning a cached program when the
// exact source text was compiled before. Compilation failures are
// CompileErrors; an empty source is a compile failure, not a no-op.
func Compile(src string) (*Program, error) {
	cacheMu.RLock()
	p, ok := cache[src]
	cacheMu.RUnlock()
	if ok {
		return p, nil
	}

	if strings.TrimSpace(src) == "" {
		return nil, &CompileError{Msg: "empty script"}
	}
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	pr := &parser{toks: toks}
	stmts, err := pr.parseProgram(tokEOF)
	if err != nil {
		return nil, err
	}
	if len(stmts) == 0 {
		return nil, &CompileError{Msg: "script has no statements"}
	}
	p = &Program{src: src, stmts: stmts}

	cacheMu.Lock()
	cache[src] = p
	cacheMu.Unlock()
	return p, nil
}
