package machine

import (
	"fmt"
	"strings"
	"unicode"
)

// StatePrefix starts every state reference in rule text.
const StatePrefix = "q_"

// CompileError reports text that does not describe a valid machine.
type CompileError struct {
	Line int
	Msg  string
	Err  error
}

func (e *CompileError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("line %d: %s: %v", e.Line, e.Msg, e.Err)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

// Compile parses rule text and sets the machine's input word.
func Compile(text, word string) (*Machine, error) {
	m, err := Parse(text)
	if err != nil {
		return nil, err
	}
	m.SetWord(word)
	return m, nil
}

// Parse builds a machine from statements of the form
//
//	q_<source> {<rule> | <rule> ...} q_<target>;
//
// States are numbered in order of first appearance. All rules must address
// the same number of tracks.
func Parse(text string) (*Machine, error) {
	p := &parser{src: []rune(stripComments(text)), line: 1}
	m := &Machine{tracks: -1}

	for {
		p.skipSpace()
		if p.eof() {
			break
		}
		line := p.line

		from, err := p.stateRef()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		body, err := p.block()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		to, err := p.stateRef()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if !p.accept(';') {
			return nil, p.errorf("expected ';' after %s%s", StatePrefix, to)
		}

		src := m.AddState(from)
		dst := m.AddState(to)

		if strings.TrimSpace(body) == "" {
			continue
		}
		for _, text := range strings.Split(body, "|") {
			r, err := ParseRule(text)
			if err != nil {
				return nil, &CompileError{Line: line, Msg: "invalid rule", Err: err}
			}
			if m.tracks < 0 {
				m.tracks = r.Tracks()
			}
			if r.Tracks() != m.tracks {
				return nil, &CompileError{
					Line: line,
					Msg:  fmt.Sprintf("rule %q uses %d tracks, machine has %d", r, r.Tracks(), m.tracks),
					Err:  ErrTrackMismatch,
				}
			}
			m.states[src].Transitions = append(m.states[src].Transitions, Transition{Rule: r, To: dst})
		}
	}

	if m.tracks < 0 {
		m.tracks = 1
	}
	return m, nil
}

// Format renders a single statement.
func Format(from string, rules []string, to string) string {
	return fmt.Sprintf("%s%s {%s} %s%s;", StatePrefix, from, strings.Join(rules, " | "), StatePrefix, to)
}

type parser struct {
	src  []rune
	pos  int
	line int
}

func (p *parser) eof() bool {
	return p.pos >= len(p.src)
}

func (p *parser) next() rune {
	r := p.src[p.pos]
	p.pos++
	if r == '\n' {
		p.line++
	}
	return r
}

func (p *parser) skipSpace() {
	for !p.eof() && unicode.IsSpace(p.src[p.pos]) {
		p.next()
	}
}

func (p *parser) accept(r rune) bool {
	if !p.eof() && p.src[p.pos] == r {
		p.next()
		return true
	}
	return false
}

func (p *parser) errorf(format string, args ...any) error {
	return &CompileError{Line: p.line, Msg: fmt.Sprintf(format, args...)}
}

// stateRef reads "q_<name>".
func (p *parser) stateRef() (string, error) {
	for _, r := range StatePrefix {
		if !p.accept(r) {
			return "", p.errorf("expected state reference starting with %q", StatePrefix)
		}
	}
	start := p.pos
	for !p.eof() && isNameRune(p.src[p.pos]) {
		p.next()
	}
	if p.pos == start {
		return "", p.errorf("empty state name")
	}
	return string(p.src[start:p.pos]), nil
}

// block reads "{...}" and returns the text between the braces.
func (p *parser) block() (string, error) {
	if !p.accept('{') {
		return "", p.errorf("expected '{'")
	}
	start := p.pos
	for !p.eof() && p.src[p.pos] != '}' {
		p.next()
	}
	if p.eof() {
		return "", p.errorf("unterminated rule block")
	}
	body := string(p.src[start:p.pos])
	p.next()
	return body, nil
}

func isNameRune(r rune) bool {
	switch r {
	case '{', '}', ';', '|':
		return false
	}
	return !unicode.IsSpace(r)
}

// IsValidName reports whether name can be written as a state reference.
// A name may not contain "//", which would start a comment.
func IsValidName(name string) bool {
	if name == "" || strings.Contains(name, "//") {
		return false
	}
	for _, r := range name {
		if !isNameRune(r) {
			return false
		}
	}
	return true
}

func stripComments(text string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		if idx := strings.Index(l, "//"); idx >= 0 {
			lines[i] = l[:idx]
		}
	}
	return strings.Join(lines, "\n")
}
