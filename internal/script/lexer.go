package script

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokSemi
	tokNumber
	tokString
	tokIdent
	tokLParen
	tokRParen
	tokLBrace
	tokRBrace
	tokComma
	tokDot
	tokAssign    // =
	tokAddAssign // +=
	tokSubAssign // -=
	tokMulAssign // *=
	tokDivAssign // /=
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokPercent
	tokEq  // ==
	tokNeq // !=
	tokLt
	tokLte
	tokGt
	tokGte
	tokAnd // and
	tokOr  // or
	tokNot // not
	tokIf
	tokElse
	tokRepeat
)

type token struct {
	kind tokenKind
	text string
	num  float64
	line int
}

// lex splits src into tokens. Newlines and semicolons both terminate
// statements; comments run from '#' to end of line.
func lex(src string) ([]token, error) {
	var toks []token
	line := 1
	i := 0
	runes := []rune(src)
	n := len(runes)

	emit := func(k tokenKind, text string) {
		toks = append(toks, token{kind: k, text: text, line: line})
	}

	for i < n {
		r := runes[i]
		switch {
		case r == '\n':
			emit(tokSemi, "\n")
			line++
			i++
		case r == ' ' || r == '\t' || r == '\r':
			i++
		case r == '#':
			for i < n && runes[i] != '\n' {
				i++
			}
		case r == ';':
			emit(tokSemi, ";")
			i++
		case r == '(':
			emit(tokLParen, "(")
			i++
		case r == ')':
			emit(tokRParen, ")")
			i++
		case r == '{':
			emit(tokLBrace, "{")
			i++
		case r == '}':
			emit(tokRBrace, "}")
			i++
		case r == ',':
			emit(tokComma, ",")
			i++
		case r == '.':
			emit(tokDot, ".")
			i++
		case r == '+':
			if i+1 < n && runes[i+1] == '=' {
				emit(tokAddAssign, "+=")
				i += 2
			} else {
				emit(tokPlus, "+")
				i++
			}
		case r == '-':
			if i+1 < n && runes[i+1] == '=' {
				emit(tokSubAssign, "-=")
				i += 2
			} else {
				emit(tokMinus, "-")
				i++
			}
		case r == '*':
			if i+1 < n && runes[i+1] == '=' {
				emit(tokMulAssign, "*=")
				i += 2
			} else {
				emit(tokStar, "*")
				i++
			}
		case r == '/':
			if i+1 < n && runes[i+1] == '=' {
				emit(tokDivAssign, "/=")
				i += 2
			} else {
				emit(tokSlash, "/")
				i++
			}
		case r == '%':
			emit(tokPercent, "%")
			i++
		case r == '=':
			if i+1 < n && runes[i+1] == '=' {
				emit(tokEq, "==")
				i += 2
			} else {
				emit(tokAssign, "=")
				i++
			}
		case r == '!':
			if i+1 < n && runes[i+1] == '=' {
				emit(tokNeq, "!=")
				i += 2
			} else {
				return nil, &CompileError{Line: line, Msg: "unexpected '!'"}
			}
		case r == '<':
			if i+1 < n && runes[i+1] == '=' {
				emit(tokLte, "<=")
				i += 2
			} else {
				emit(tokLt, "<")
				i++
			}
		case r == '>':
			if i+1 < n && runes[i+1] == '=' {
				emit(tokGte, ">=")
				i += 2
			} else {
				emit(tokGt, ">")
				i++
			}
		case r == '"' || r == '\'':
			quote := r
			i++
			var sb strings.Builder
			for i < n && runes[i] != quote {
				if runes[i] == '\n' {
					return nil, &CompileError{Line: line, Msg: "unterminated string"}
				}
				sb.WriteRune(runes[i])
				i++
			}
			if i >= n {
				return nil, &CompileError{Line: line, Msg: "unterminated string"}
			}
			i++
			emit(tokString, sb.String())
		case unicode.IsDigit(r):
			start := i
			for i < n && (unicode.IsDigit(runes[i]) || runes[i] == '.') {
				i++
			}
			text := string(runes[start:i])
			f, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return nil, &CompileError{Line: line, Msg: "bad number " + text}
			}
			toks = append(toks, token{kind: tokNumber, text: text, num: f, line: line})
		case unicode.IsLetter(r) || r == '_':
			start := i
			for i < n && (unicode.IsLetter(runes[i]) || unicode.IsDigit(runes[i]) || runes[i] == '_') {
				i++
			}
			word := string(runes[start:i])
			switch word {
			case "if":
				emit(tokIf, word)
			case "else":
				emit(tokElse, word)
			case "repeat":
				emit(tokRepeat, word)
			case "and":
				emit(tokAnd, word)
			case "or":
				emit(tokOr, word)
			case "not":
				emit(tokNot, word)
			default:
				emit(tokIdent, word)
			}
		default:
			return nil, &CompileError{Line: line, Msg: fmt.Sprintf("unexpected character %q", r)}
		}
	}
	toks = append(toks, token{kind: tokEOF, line: line})
	return toks, nil
}
