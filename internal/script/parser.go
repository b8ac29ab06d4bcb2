package script

import "fmt"

// --- AST ---------------------------------------------------------------

type stmtNode interface{ stmtLine() int }

type assignStmt struct {
	target string // "amount", "incoming", "outgoing" or "custom"
	field  string // custom key when target == "custom"
	op     tokenKind
	expr   exprNode
	line   int
}

type callStmt struct {
	call *callExpr
	line int
}

type ifStmt struct {
	cond exprNode
	then []stmtNode
	els  []stmtNode
	line int
}

type repeatStmt struct {
	count exprNode
	body  []stmtNode
	line  int
}

func (s *assignStmt) stmtLine() int { return s.line }
func (s *callStmt) stmtLine() int   { return s.line }
func (s *ifStmt) stmtLine() int     { return s.line }
func (s *repeatStmt) stmtLine() int { return s.line }

type exprNode interface{}

type numberLit struct{ v float64 }

type stringLit struct{ v string }

type nameExpr struct {
	name string // dotted path, e.g. "caster.hp"
	line int
}

type callExpr struct {
	name string
	args []exprNode
	line int
}

type unaryExpr struct {
	op tokenKind
	x  exprNode
}

type binaryExpr struct {
	op   tokenKind
	x, y exprNode
}

// --- Builtin tables ----------------------------------------------------

// stmtBuiltins maps side-effecting builtins to their arity. These make up
// the sandbox's entire mutation surface.
var stmtBuiltins = map[string]int{
	"damage":         1,
	"raw_damage":     1,
	"heal":           1,
	"apply_status":   0,
	"remove_status":  1,
	"draw":           1,
	"discard":        1,
	"shuffle":        0,
	"self_destruct":  0,
	"prevent_expire": 0,
	"prevent_queue":  0,
	"append":         2,
}

// exprBuiltins maps pure builtins usable inside expressions to their arity.
var exprBuiltins = map[string]int{
	"rand":       1,
	"min":        2,
	"max":        2,
	"floor":      1,
	"ceil":       1,
	"abs":        1,
	"has_status": 1,
	"count":      1,
}

// combatantFields are the stats readable through caster.* and target.*.
var combatantFields = map[string]bool{
	"hp": true, "max_hp": true, "attack": true, "defense": true,
	"speed": true, "level": true, "hand_count": true, "deck_count": true,
	"discard_count": true, "queue_count": true,
}

// --- Parser ------------------------------------------------------------

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) errf(line int, format string, args ...interface{}) error {
	return &CompileError{Line: line, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) skipSemis() {
	for p.peek().kind == tokSemi {
		p.next()
	}
}

func (p *parser) parseProgram(terminator tokenKind) ([]stmtNode, error) {
	var stmts []stmtNode
	for {
		p.skipSemis()
		if p.peek().kind == terminator || p.peek().kind == tokEOF {
			return stmts, nil
		}
		s, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
		if k := p.peek().kind; k != tokSemi && k != terminator && k != tokEOF {
			return nil, p.errf(p.peek().line, "expected end of statement, got %q", p.peek().text)
		}
	}
}

func (p *parser) parseStmt() (stmtNode, error) {
	t := p.peek()
	switch t.kind {
	case tokIf:
		return p.parseIf()
	case tokRepeat:
		return p.parseRepeat()
	case tokIdent:
		return p.parseAssignOrCall()
	default:
		return nil, p.errf(t.line, "unexpected %q at start of statement", t.text)
	}
}

func (p *parser) parseBlock() ([]stmtNode, error) {
	t := p.next()
	if t.kind != tokLBrace {
		return nil, p.errf(t.line, "expected '{', got %q", t.text)
	}
	stmts, err := p.parseProgram(tokRBrace)
	if err != nil {
		return nil, err
	}
	t = p.next()
	if t.kind != tokRBrace {
		return nil, p.errf(t.line, "expected '}', got %q", t.text)
	}
	return stmts, nil
}

func (p *parser) parseIf() (stmtNode, error) {
	t := p.next() // if
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	var els []stmtNode
	if p.peek().kind == tokElse {
		p.next()
		els, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}
	return &ifStmt{cond: cond, then: then, els: els, line: t.line}, nil
}

func (p *parser) parseRepeat() (stmtNode, error) {
	t := p.next() // repeat
	count, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &repeatStmt{count: count, body: body, line: t.line}, nil
}

func (p *parser) parseAssignOrCall() (stmtNode, error) {
	t := p.next() // ident
	name := t.text
	field := ""
	if p.peek().kind == tokDot {
		p.next()
		f := p.next()
		if f.kind != tokIdent {
			return nil, p.errf(f.line, "expected identifier after '.'")
		}
		field = f.text
	}

	switch k := p.peek().kind; k {
	case tokLParen:
		if field != "" {
			return nil, p.errf(t.line, "cannot call %s.%s", name, field)
		}
		call, err := p.parseCallArgs(name, t.line)
		if err != nil {
			return nil, err
		}
		arity, ok := stmtBuiltins[name]
		if !ok {
			return nil, p.errf(t.line, "unknown operation %q", name)
		}
		if len(call.args) != arity {
			return nil, p.errf(t.line, "%s expects %d argument(s), got %d", name, arity, len(call.args))
		}
		return &callStmt{call: call, line: t.line}, nil
	case tokAssign, tokAddAssign, tokSubAssign, tokMulAssign, tokDivAssign:
		op := p.next().kind
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		switch {
		case field == "" && (name == "amount" || name == "incoming" || name == "outgoing"):
			return &assignStmt{target: name, op: op, expr: expr, line: t.line}, nil
		case name == "custom" && field != "":
			return &assignStmt{target: "custom", field: field, op: op, expr: expr, line: t.line}, nil
		default:
			return nil, p.errf(t.line, "%s is not assignable", dotted(name, field))
		}
	default:
		return nil, p.errf(t.line, "expected assignment or call after %q", dotted(name, field))
	}
}

func dotted(name, field string) string {
	if field == "" {
		return name
	}
	return name + "." + field
}

func (p *parser) parseCallArgs(name string, line int) (*callExpr, error) {
	if t := p.next(); t.kind != tokLParen {
		return nil, p.errf(t.line, "expected '('")
	}
	var args []exprNode
	if p.peek().kind != tokRParen {
		for {
			a, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, a)
			if p.peek().kind == tokComma {
				p.next()
				continue
			}
			break
		}
	}
	if t := p.next(); t.kind != tokRParen {
		return nil, p.errf(t.line, "expected ')' in call to %s", name)
	}
	return &callExpr{name: name, args: args, line: line}, nil
}

// --- Expressions (precedence climbing) ---------------------------------

func (p *parser) parseExpr() (exprNode, error) { return p.parseOr() }

func (p *parser) parseOr() (exprNode, error) {
	x, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokOr {
		p.next()
		y, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		x = &binaryExpr{op: tokOr, x: x, y: y}
	}
	return x, nil
}

func (p *parser) parseAnd() (exprNode, error) {
	x, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokAnd {
		p.next()
		y, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		x = &binaryExpr{op: tokAnd, x: x, y: y}
	}
	return x, nil
}

func (p *parser) parseComparison() (exprNode, error) {
	x, err := p.parseAdd()
	if err != nil {
		return nil, err
	}
	for {
		switch k := p.peek().kind; k {
		case tokEq, tokNeq, tokLt, tokLte, tokGt, tokGte:
			p.next()
			y, err := p.parseAdd()
			if err != nil {
				return nil, err
			}
			x = &binaryExpr{op: k, x: x, y: y}
		default:
			return x, nil
		}
	}
}

func (p *parser) parseAdd() (exprNode, error) {
	x, err := p.parseMul()
	if err != nil {
		return nil, err
	}
	for {
		switch k := p.peek().kind; k {
		case tokPlus, tokMinus:
			p.next()
			y, err := p.parseMul()
			if err != nil {
				return nil, err
			}
			x = &binaryExpr{op: k, x: x, y: y}
		default:
			return x, nil
		}
	}
}

func (p *parser) parseMul() (exprNode, error) {
	x, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		switch k := p.peek().kind; k {
		case tokStar, tokSlash, tokPercent:
			p.next()
			y, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			x = &binaryExpr{op: k, x: x, y: y}
		default:
			return x, nil
		}
	}
}

func (p *parser) parseUnary() (exprNode, error) {
	switch k := p.peek().kind; k {
	case tokMinus, tokNot:
		p.next()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &unaryExpr{op: k, x: x}, nil
	default:
		return p.parsePrimary()
	}
}

func (p *parser) parsePrimary() (exprNode, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		return &numberLit{v: t.num}, nil
	case tokString:
		return &stringLit{v: t.text}, nil
	case tokLParen:
		x, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if c := p.next(); c.kind != tokRParen {
			return nil, p.errf(c.line, "expected ')'")
		}
		return x, nil
	case tokIdent:
		name := t.text
		if p.peek().kind == tokLParen {
			call, err := p.parseCallArgs(name, t.line)
			if err != nil {
				return nil, err
			}
			arity, ok := exprBuiltins[name]
			if !ok {
				return nil, p.errf(t.line, "unknown function %q", name)
			}
			if len(call.args) != arity {
				return nil, p.errf(t.line, "%s expects %d argument(s), got %d", name, arity, len(call.args))
			}
			return call, nil
		}
		for p.peek().kind == tokDot {
			p.next()
			f := p.next()
			if f.kind != tokIdent {
				return nil, p.errf(f.line, "expected identifier after '.'")
			}
			name = name + "." + f.text
		}
		if err := validateName(name, t.line); err != nil {
			return nil, err
		}
		return &nameExpr{name: name, line: t.line}, nil
	default:
		return nil, p.errf(t.line, "unexpected %q in expression", t.text)
	}
}

// validateName enforces the fixed vocabulary of readable values.
func validateName(name string, line int) error {
	switch name {
	case "amount", "incoming", "outgoing", "round":
		return nil
	case "status.remaining", "status.total":
		return nil
	}
	for _, prefix := range []string{"caster.", "target."} {
		if len(name) > len(prefix) && name[:len(prefix)] == prefix {
			if combatantFields[name[len(prefix):]] {
				return nil
			}
			return &CompileError{Line: line, Msg: fmt.Sprintf("unknown field %q", name)}
		}
	}
	if len(name) > 7 && name[:7] == "custom." {
		return nil
	}
	return &CompileError{Line: line, Msg: fmt.Sprintf("unknown name %q", name)}
}
