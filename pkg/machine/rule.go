package machine

import (
	"fmt"
	"strings"
)

// Direction is a head movement.
type Direction byte

const (
	Left  Direction = 'L'
	Right Direction = 'R'
	None  Direction = 'N'
)

// Blank is the symbol used for freshly created rules.
const Blank = 'ç'

// Arrow separates the read part of a rule from its write/move part.
const Arrow = "→"

// Rule is one transition rule body.
//
// For a machine with k write tracks a rule reads k+1 symbols (the input
// track first), writes k symbols and moves k+1 heads (the input head first).
// Its text form is "r0,...,rk→w1,...,wk,m0,...,mk".
type Rule struct {
	Read  []rune
	Write []rune
	Move  []Direction
}

// NewRule returns a rule for the given number of write tracks that reads and
// writes Blank and moves every head right.
func NewRule(tracks int) Rule {
	r := Rule{
		Read:  make([]rune, tracks+1),
		Write: make([]rune, tracks),
		Move:  make([]Direction, tracks+1),
	}
	for i := range r.Read {
		r.Read[i] = Blank
		r.Move[i] = Right
	}
	for i := range r.Write {
		r.Write[i] = Blank
	}
	return r
}

// Tracks returns the number of write tracks the rule addresses.
func (r Rule) Tracks() int {
	return len(r.Write)
}

// String renders the rule in its canonical text form.
func (r Rule) String() string {
	var sb strings.Builder
	for i, c := range r.Read {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(c)
	}
	sb.WriteString(Arrow)
	parts := make([]string, 0, len(r.Write)+len(r.Move))
	for _, c := range r.Write {
		parts = append(parts, string(c))
	}
	for _, m := range r.Move {
		parts = append(parts, string(rune(m)))
	}
	sb.WriteString(strings.Join(parts, ","))
	return sb.String()
}

// ParseRule parses the text form of a rule.
func ParseRule(s string) (Rule, error) {
	s = strings.TrimSpace(s)
	left, right, ok := strings.Cut(s, Arrow)
	if !ok {
		left, right, ok = strings.Cut(s, "->")
	}
	if !ok {
		return Rule{}, fmt.Errorf("rule %q: missing %q", s, Arrow)
	}

	reads, err := symbols(left)
	if err != nil {
		return Rule{}, fmt.Errorf("rule %q: read part: %w", s, err)
	}
	tracks := len(reads) - 1
	if tracks < 0 {
		return Rule{}, fmt.Errorf("rule %q: no read symbols", s)
	}

	rest, err := symbols(right)
	if err != nil {
		return Rule{}, fmt.Errorf("rule %q: write part: %w", s, err)
	}
	if len(rest) != 2*tracks+1 {
		return Rule{}, fmt.Errorf("rule %q: reads %d tracks, expected %d writes and %d moves, got %d fields",
			s, len(reads), tracks, tracks+1, len(rest))
	}

	r := Rule{
		Read:  reads,
		Write: rest[:tracks],
		Move:  make([]Direction, tracks+1),
	}
	for i, c := range rest[tracks:] {
		d := Direction(c)
		if c > 0x7f || (d != Left && d != Right && d != None) {
			return Rule{}, fmt.Errorf("rule %q: unknown move %q", s, c)
		}
		r.Move[i] = d
	}
	return r, nil
}

// symbols splits a comma separated list of single characters.
func symbols(s string) ([]rune, error) {
	fields := strings.Split(s, ",")
	out := make([]rune, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		rs := []rune(f)
		if len(rs) != 1 {
			return nil, fmt.Errorf("symbol %q is not a single character", f)
		}
		out = append(out, rs[0])
	}
	return out, nil
}
