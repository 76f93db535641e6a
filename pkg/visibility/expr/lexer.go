package expr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokenIdent tokenKind = iota
	tokenString
	tokenNumber
	tokenBool
	tokenNull
	tokenEq
	tokenNeq
	tokenAnd
	tokenOr
	tokenNot
	tokenLParen
	tokenRParen
)

type token struct {
	kind tokenKind
	text string
}

// operators pairs every two-character operator with its kind.
var operators = map[string]tokenKind{
	"==": tokenEq,
	"!=": tokenNeq,
	"&&": tokenAnd,
	"||": tokenOr,
}

type lexer struct {
	src []rune
	pos int
}

func lex(src string) ([]token, error) {
	l := &lexer{src: []rune(src)}
	var out []token
	for {
		l.skipSpace()
		if l.done() {
			return out, nil
		}
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		out = append(out, tok)
	}
}

func (l *lexer) done() bool { return l.pos >= len(l.src) }

func (l *lexer) peek(offset int) rune {
	if l.pos+offset >= len(l.src) {
		return 0
	}
	return l.src[l.pos+offset]
}

func (l *lexer) skipSpace() {
	for !l.done() && unicode.IsSpace(l.src[l.pos]) {
		l.pos++
	}
}

func (l *lexer) next() (token, error) {
	ch := l.peek(0)
	if kind, ok := operators[string([]rune{ch, l.peek(1)})]; ok {
		text := string(l.src[l.pos : l.pos+2])
		l.pos += 2
		return token{kind: kind, text: text}, nil
	}

	switch ch {
	case '(':
		l.pos++
		return token{kind: tokenLParen, text: "("}, nil
	case ')':
		l.pos++
		return token{kind: tokenRParen, text: ")"}, nil
	case '!':
		l.pos++
		return token{kind: tokenNot, text: "!"}, nil
	case '=', '&', '|':
		return token{}, fmt.Errorf("expr: unexpected %q at %d; use %q", ch, l.pos, string([]rune{ch, ch}))
	case '"', '\'':
		return l.quoted(ch)
	}
	return l.word(), nil
}

func (l *lexer) quoted(quote rune) (token, error) {
	start := l.pos
	l.pos++
	for !l.done() {
		switch l.src[l.pos] {
		case '\\':
			l.pos += 2
			continue
		case quote:
			l.pos++
			raw := string(l.src[start:l.pos])
			if quote == '\'' {
				raw = `"` + strings.ReplaceAll(raw[1:len(raw)-1], `"`, `\"`) + `"`
			}
			text, err := strconv.Unquote(raw)
			if err != nil {
				return token{}, fmt.Errorf("expr: invalid string literal %s: %w", raw, err)
			}
			return token{kind: tokenString, text: text}, nil
		}
		l.pos++
	}
	return token{}, errors.New("expr: unterminated string literal")
}

func (l *lexer) word() token {
	start := l.pos
	for !l.done() && !unicode.IsSpace(l.src[l.pos]) && !strings.ContainsRune("()!=&|", l.src[l.pos]) {
		l.pos++
	}
	text := string(l.src[start:l.pos])
	switch lower := strings.ToLower(text); lower {
	case "true", "false":
		return token{kind: tokenBool, text: lower}
	case "null", "nil":
		return token{kind: tokenNull, text: "null"}
	}
	if _, err := strconv.ParseFloat(text, 64); err == nil {
		return token{kind: tokenNumber, text: text}
	}
	return token{kind: tokenIdent, text: text}
}
