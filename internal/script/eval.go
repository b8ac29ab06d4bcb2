package script

import (
	"context"
	"errors"
	"math"
	"strings"
)

// errInterrupted signals that the shared cancellation fired mid-script;
// Run maps it to the guard that pulled the trigger.
var errInterrupted = errors.New("script interrupted")

type value struct {
	n     float64
	s     string
	isStr bool
}

func numVal(n float64) value  { return value{n: n} }
func strVal(s string) value   { return value{s: s, isStr: true} }
func boolVal(b bool) value {
	if b {
		return value{n: 1}
	}
	return value{n: 0}
}

func (v value) truthy() bool { return v.isStr || v.n != 0 }

type evaluator struct {
	ctx context.Context
	env *Context
}

func (ev *evaluator) execBlock(stmts []stmtNode) error {
	for _, s := range stmts {
		if ev.ctx.Err() != nil {
			return errInterrupted
		}
		if err := ev.execStmt(s); err != nil {
			return err
		}
	}
	return nil
}

func (ev *evaluator) execStmt(s stmtNode) error {
	switch st := s.(type) {
	case *assignStmt:
		return ev.execAssign(st)
	case *callStmt:
		return ev.execCall(st)
	case *ifStmt:
		cond, err := ev.evalExpr(st.cond)
		if err != nil {
			return err
		}
		if cond.truthy() {
			return ev.execBlock(st.then)
		}
		return ev.execBlock(st.els)
	case *repeatStmt:
		count, err := ev.evalNum(st.count)
		if err != nil {
			return err
		}
		n := int(count)
		for i := 0; i < n; i++ {
			if ev.ctx.Err() != nil {
				return errInterrupted
			}
			if err := ev.execBlock(st.body); err != nil {
				return err
			}
		}
		return nil
	default:
		return execErrorf("unknown statement")
	}
}

func (ev *evaluator) execAssign(st *assignStmt) error {
	rhs, err := ev.evalNum(st.expr)
	if err != nil {
		return err
	}
	read := func() float64 {
		switch st.target {
		case "amount":
			return ev.env.Amount
		case "incoming":
			return ev.env.IncomingDamage
		case "outgoing":
			return ev.env.OutgoingDamage
		default:
			if ev.env.Custom == nil {
				return 0
			}
			return ev.env.Custom[st.field]
		}
	}
	var next float64
	switch st.op {
	case tokAssign:
		next = rhs
	case tokAddAssign:
		next = read() + rhs
	case tokSubAssign:
		next = read() - rhs
	case tokMulAssign:
		next = read() * rhs
	case tokDivAssign:
		if rhs == 0 {
			return execErrorf("division by zero at line %d", st.line)
		}
		next = read() / rhs
	}
	switch st.target {
	case "amount":
		ev.env.Amount = next
	case "incoming":
		ev.env.IncomingDamage = next
	case "outgoing":
		ev.env.OutgoingDamage = next
	default:
		if ev.env.Custom == nil {
			return execErrorf("custom state not available at line %d", st.line)
		}
		ev.env.Custom[st.field] = next
	}
	return nil
}

func (ev *evaluator) execCall(st *callStmt) error {
	call := st.call
	args := make([]value, len(call.args))
	for i, a := range call.args {
		v, err := ev.evalExpr(a)
		if err != nil {
			return err
		}
		args[i] = v
	}

	unavailable := func() error {
		return execErrorf("%s is not available in this context (line %d)", call.name, st.line)
	}

	switch call.name {
	case "damage", "raw_damage":
		if ev.env.DealDamage == nil {
			return unavailable()
		}
		return ev.env.DealDamage(args[0].n, call.name == "raw_damage")
	case "heal":
		if ev.env.Heal == nil {
			return unavailable()
		}
		return ev.env.Heal(args[0].n)
	case "apply_status":
		if ev.env.ApplyStatus == nil {
			return unavailable()
		}
		return ev.env.ApplyStatus()
	case "remove_status":
		if ev.env.RemoveStatus == nil {
			return unavailable()
		}
		return ev.env.RemoveStatus(argString(args[0]))
	case "draw":
		if ev.env.Draw == nil {
			return unavailable()
		}
		return ev.env.Draw(int(args[0].n))
	case "discard":
		if ev.env.DiscardCards == nil {
			return unavailable()
		}
		return ev.env.DiscardCards(int(args[0].n))
	case "shuffle":
		if ev.env.Shuffle == nil {
			return unavailable()
		}
		return ev.env.Shuffle()
	case "self_destruct":
		if ev.env.SelfDestruct == nil {
			return unavailable()
		}
		return ev.env.SelfDestruct()
	case "prevent_expire":
		if ev.env.PreventExpire == nil {
			return unavailable()
		}
		ev.env.PreventExpire()
		return nil
	case "prevent_queue":
		if ev.env.PreventQueue == nil {
			return unavailable()
		}
		ev.env.PreventQueue()
		return nil
	case "append":
		if ev.env.CustomLists == nil {
			return unavailable()
		}
		key := argString(args[0])
		ev.env.CustomLists[key] = append(ev.env.CustomLists[key], args[1].n)
		return nil
	default:
		return execErrorf("unknown operation %q at line %d", call.name, st.line)
	}
}

func argString(v value) string {
	if v.isStr {
		return v.s
	}
	return ""
}

func (ev *evaluator) evalNum(e exprNode) (float64, error) {
	v, err := ev.evalExpr(e)
	if err != nil {
		return 0, err
	}
	if v.isStr {
		return 0, execErrorf("expected a number, got string %q", v.s)
	}
	return v.n, nil
}

func (ev *evaluator) evalExpr(e exprNode) (value, error) {
	switch x := e.(type) {
	case *numberLit:
		return numVal(x.v), nil
	case *stringLit:
		return strVal(x.v), nil
	case *nameExpr:
		return ev.evalName(x)
	case *callExpr:
		return ev.evalFunc(x)
	case *unaryExpr:
		v, err := ev.evalNum(x.x)
		if err != nil {
			return value{}, err
		}
		if x.op == tokMinus {
			return numVal(-v), nil
		}
		return boolVal(v == 0), nil
	case *binaryExpr:
		return ev.evalBinary(x)
	default:
		return value{}, execErrorf("unknown expression")
	}
}

func (ev *evaluator) evalName(x *nameExpr) (value, error) {
	switch x.name {
	case "amount":
		return numVal(ev.env.Amount), nil
	case "incoming":
		return numVal(ev.env.IncomingDamage), nil
	case "outgoing":
		return numVal(ev.env.OutgoingDamage), nil
	case "round":
		return numVal(ev.env.Round), nil
	}
	if strings.HasPrefix(x.name, "custom.") {
		if ev.env.Custom == nil {
			return numVal(0), nil
		}
		return numVal(ev.env.Custom[x.name[len("custom."):]]), nil
	}
	if ev.env.Lookup != nil {
		if v, ok := ev.env.Lookup(x.name); ok {
			return numVal(v), nil
		}
	}
	return value{}, execErrorf("%s has no value in this context (line %d)", x.name, x.line)
}

func (ev *evaluator) evalFunc(call *callExpr) (value, error) {
	args := make([]value, len(call.args))
	for i, a := range call.args {
		v, err := ev.evalExpr(a)
		if err != nil {
			return value{}, err
		}
		args[i] = v
	}
	switch call.name {
	case "rand":
		if ev.env.Rand == nil {
			return value{}, execErrorf("rand is not available in this context (line %d)", call.line)
		}
		return numVal(ev.env.Rand(args[0].n)), nil
	case "min":
		return numVal(math.Min(args[0].n, args[1].n)), nil
	case "max":
		return numVal(math.Max(args[0].n, args[1].n)), nil
	case "floor":
		return numVal(math.Floor(args[0].n)), nil
	case "ceil":
		return numVal(math.Ceil(args[0].n)), nil
	case "abs":
		return numVal(math.Abs(args[0].n)), nil
	case "has_status":
		if ev.env.HasStatus == nil {
			return boolVal(false), nil
		}
		return boolVal(ev.env.HasStatus(argString(args[0]))), nil
	case "count":
		if ev.env.CustomLists == nil {
			return numVal(0), nil
		}
		return numVal(float64(len(ev.env.CustomLists[argString(args[0])]))), nil
	default:
		return value{}, execErrorf("unknown function %q at line %d", call.name, call.line)
	}
}

func (ev *evaluator) evalBinary(x *binaryExpr) (value, error) {
	switch x.op {
	case tokAnd:
		l, err := ev.evalExpr(x.x)
		if err != nil {
			return value{}, err
		}
		if !l.truthy() {
			return boolVal(false), nil
		}
		r, err := ev.evalExpr(x.y)
		if err != nil {
			return value{}, err
		}
		return boolVal(r.truthy()), nil
	case tokOr:
		l, err := ev.evalExpr(x.x)
		if err != nil {
			return value{}, err
		}
		if l.truthy() {
			return boolVal(true), nil
		}
		r, err := ev.evalExpr(x.y)
		if err != nil {
			return value{}, err
		}
		return boolVal(r.truthy()), nil
	}

	l, err := ev.evalNum(x.x)
	if err != nil {
		return value{}, err
	}
	r, err := ev.evalNum(x.y)
	if err != nil {
		return value{}, err
	}
	switch x.op {
	case tokPlus:
		return numVal(l + r), nil
	case tokMinus:
		return numVal(l - r), nil
	case tokStar:
		return numVal(l * r), nil
	case tokSlash:
		if r == 0 {
			return value{}, execErrorf("division by zero")
		}
		return numVal(l / r), nil
	case tokPercent:
		if r == 0 {
			return value{}, execErrorf("modulo by zero")
		}
		return numVal(math.Mod(l, r)), nil
	case tokEq:
		return boolVal(l == r), nil
	case tokNeq:
		return boolVal(l != r), nil
	case tokLt:
		return boolVal(l < r), nil
	case tokLte:
		return boolVal(l <= r), nil
	case tokGt:
		return boolVal(l > r), nil
	case tokGte:
		return boolVal(l >= r), nil
	default:
		return value{}, execErrorf("unknown operator")
	}
}
