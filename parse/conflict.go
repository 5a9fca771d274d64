package parse

import (
	"fmt"

	"github.com/dekarrin/pgen/grammar"
	"github.com/dekarrin/rosed"
)

// ShiftSentinel is the pseudo-rule-index ConflictReport uses in SLR(1)
// entries to mean "the default action is SHIFT" rather than a rule reduce,
// per spec.md 4.9 ("possibly including a NONE sentinel meaning SHIFT").
// BuildSLR1 also records the HALT side of a halt/reduce collision with it,
// so such an entry is rendered as SHIFT too.
const ShiftSentinel = -1

// ConflictEntry accumulates every candidate rule that applied to one
// (row, col) cell, plus the rule (or ShiftSentinel) the builder kept as the
// default.
type ConflictEntry struct {
	Row     int
	Col     int
	Rules   []int
	Default int
}

// ConflictReport is the accumulated (row, col) -> conflict-rule-list
// collection spec.md 4.9 describes. row is a non-terminal id for LL(1) and
// a state id for SLR(1); col is always a terminal id (possibly the
// end-marker).
type ConflictReport struct {
	g     *grammar.Grammar
	isLL1 bool

	entries map[[2]int]*ConflictEntry
	order   [][2]int
}

// NewConflictReport returns an empty report for the given grammar and
// construction kind (isLL1 true for LL(1), false for SLR(1)) — the kind
// only affects how Render labels the row axis.
func NewConflictReport(g *grammar.Grammar, isLL1 bool) *ConflictReport {
	return &ConflictReport{g: g, isLL1: isLL1, entries: map[[2]int]*ConflictEntry{}}
}

// Note records that rules (at least two distinct candidates) applied to
// (row, col), with def as the chosen default. Repeated calls against the
// same cell accumulate distinct rule ids.
func (c *ConflictReport) Note(row, col int, rules []int, def int) {
	key := [2]int{row, col}
	e, ok := c.entries[key]
	if !ok {
		e = &ConflictEntry{Row: row, Col: col}
		c.entries[key] = e
		c.order = append(c.order, key)
	}
	seen := map[int]bool{}
	for _, r := range e.Rules {
		seen[r] = true
	}
	for _, r := range rules {
		if !seen[r] {
			e.Rules = append(e.Rules, r)
			seen[r] = true
		}
	}
	e.Default = def
}

// HasConflicts reports whether any cell had more than one candidate.
func (c *ConflictReport) HasConflicts() bool {
	return len(c.entries) > 0
}

// Count returns the number of conflicting cells.
func (c *ConflictReport) Count() int {
	return len(c.entries)
}

// Entries returns every conflict, in the order first recorded.
func (c *ConflictReport) Entries() []*ConflictEntry {
	out := make([]*ConflictEntry, len(c.order))
	for i, key := range c.order {
		out[i] = c.entries[key]
	}
	return out
}

func (c *ConflictReport) ruleLabel(r int) string {
	if r == ShiftSentinel {
		return "SHIFT"
	}
	rule := c.g.Rule(r)
	return fmt.Sprintf("%s (rule %d)", c.g.NonTerminalName(rule.Left), r)
}

func (c *ConflictReport) rowLabel(row int) string {
	if c.isLL1 {
		return c.g.NonTerminalName(row)
	}
	return fmt.Sprintf("state %d", row)
}

func (c *ConflictReport) colLabel(col int) string {
	if col == c.g.EndMarker() {
		return "$"
	}
	return c.g.TokenName(col)
}

// Render produces a human-readable table of every conflict and its default
// resolution, wrapped to width (a width of 0 or less uses 20), grounded on the
// teacher's own table-rendering idiom in parse/slr.go (rosed.Edit("").
// InsertTableOpts with headers).
func (c *ConflictReport) Render(width int) string {
	if !c.HasConflicts() {
		return "no conflicts"
	}
	if width <= 0 {
		width = 20
	}

	data := [][]string{{"row", "col", "candidates", "default"}}
	for _, e := range c.Entries() {
		var candidates string
		for i, r := range e.Rules {
			if i > 0 {
				candidates += ", "
			}
			candidates += c.ruleLabel(r)
		}
		data = append(data, []string{
			c.rowLabel(e.Row),
			c.colLabel(e.Col),
			candidates,
			c.ruleLabel(e.Default),
		})
	}

	return rosed.
		Edit("").
		InsertTableOpts(0, data, width, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}
