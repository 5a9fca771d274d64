package parse

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dekarrin/pgen/grammar"
	"github.com/dekarrin/pgen/lex"
	"github.com/dekarrin/pgen/perrors"
)

// item is an LR(0) item: rule r with the mark before rhs(r)[m].
type item struct {
	rule int
	mark int
}

// itemSet is a kernel or closure, compared by set equality of its items.
type itemSet map[item]bool

func (s itemSet) key() string {
	items := make([]item, 0, len(s))
	for it := range s {
		items = append(items, it)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].rule != items[j].rule {
			return items[i].rule < items[j].rule
		}
		return items[i].mark < items[j].mark
	})
	var sb strings.Builder
	for _, it := range items {
		fmt.Fprintf(&sb, "%d.%d|", it.rule, it.mark)
	}
	return sb.String()
}

// LRActionType distinguishes the four SLR(1) action-cell kinds of spec.md
// 4.7's table population.
type LRActionType int

const (
	ActionError LRActionType = iota
	ActionShift
	ActionReduce
	ActionHalt
)

// LRAction is one populated action-table cell.
type LRAction struct {
	Type  LRActionType
	State int // valid for ActionShift
	Rule  int // valid for ActionReduce
}

// SLR1Table is the augmented-grammar canonical-LR(0) action/goto table
// spec.md 4.7 describes.
type SLR1Table struct {
	g       *grammar.Grammar
	root    int // the grammar's real start non-terminal
	augRoot int // fake S' non-terminal id
	fakeRule int // global index of S' -> S END_MARKER

	numStates int
	action    []map[int]LRAction // [state][token-or-endmarker]
	gotoT     []map[int]int      // [state][non-terminal]

	trace []TraceListener
}

// BuildSLR1 constructs the SLR(1) table for g, rooted at root, per spec.md
// 4.7. It returns a non-nil error only for the two fatal cases the spec
// enumerates (a shift/shift or halt/reduce collision on the end-marker
// column); every other conflict is resolved per the deterministic policy
// and recorded in the returned report instead of aborting.
func BuildSLR1(g *grammar.Grammar, root int) (*SLR1Table, *ConflictReport, error) {
	first := g.FIRST()
	follow := g.FOLLOW(first)
	report := NewConflictReport(g, false)

	augRoot := g.NumNonTerminals()
	fakeRule := len(g.Rules())
	rules := append(append([]grammar.Rule{}, g.Rules()...), grammar.Rule{
		Left:   augRoot,
		Right:  []grammar.Sym{grammar.NT(root), grammar.Tok(g.EndMarker())},
		Global: fakeRule,
		Local:  0,
	})

	ruleAt := func(i int) grammar.Rule {
		if i == fakeRule {
			return rules[fakeRule]
		}
		return g.Rule(i)
	}
	rulesForLeft := func(nt int) []int {
		var out []int
		if nt == augRoot {
			return []int{fakeRule}
		}
		for _, r := range g.Rules() {
			if r.Left == nt {
				out = append(out, r.Global)
			}
		}
		return out
	}

	closure := func(kernel itemSet) itemSet {
		out := itemSet{}
		for it := range kernel {
			out[it] = true
		}
		changed := true
		for changed {
			changed = false
			for it := range out {
				r := ruleAt(it.rule)
				if it.mark >= len(r.Right) {
					continue
				}
				sym := r.Right[it.mark]
				if sym.Kind != grammar.NonTerminalSym {
					continue
				}
				for _, ri := range rulesForLeft(sym.ID) {
					ni := item{rule: ri, mark: 0}
					if !out[ni] {
						out[ni] = true
						changed = true
					}
				}
			}
		}
		return out
	}

	successor := func(closed itemSet, onToken *int, onNT *int) itemSet {
		out := itemSet{}
		for it := range closed {
			r := ruleAt(it.rule)
			if it.mark >= len(r.Right) {
				continue
			}
			sym := r.Right[it.mark]
			if onToken != nil && sym.Kind == grammar.TokenSym && sym.ID == *onToken {
				out[item{rule: it.rule, mark: it.mark + 1}] = true
			}
			if onNT != nil && sym.Kind == grammar.NonTerminalSym && sym.ID == *onNT {
				out[item{rule: it.rule, mark: it.mark + 1}] = true
			}
		}
		return out
	}

	startKernel := itemSet{{rule: fakeRule, mark: 0}: true}

	type state struct {
		kernel  itemSet
		closure itemSet
	}
	var states []state
	kernelIndex := map[string]int{}

	add := func(k itemSet) int {
		key := k.key()
		if idx, ok := kernelIndex[key]; ok {
			return idx
		}
		idx := len(states)
		kernelIndex[key] = idx
		states = append(states, state{kernel: k, closure: closure(k)})
		return idx
	}

	add(startKernel)

	for i := 0; i < len(states); i++ {
		closed := states[i].closure
		// tok ranges over every declared token plus END_MARKER itself: the
		// fake root rule S' -> S END_MARKER must be shiftable on END_MARKER
		// to ever reach its reduction (collapsed to HALT) item.
		for tok := 0; tok <= g.NumTokens(); tok++ {
			t := tok
			succ := successor(closed, &t, nil)
			if len(succ) > 0 {
				add(succ)
			}
		}
		for nt := 0; nt < g.NumNonTerminals()+1; nt++ {
			n := nt
			succ := successor(closed, nil, &n)
			if len(succ) > 0 {
				add(succ)
			}
		}
	}

	t := &SLR1Table{
		g: g, root: root, augRoot: augRoot, fakeRule: fakeRule,
		numStates: len(states),
		action:    make([]map[int]LRAction, len(states)),
		gotoT:     make([]map[int]int, len(states)),
	}
	for i := range states {
		t.action[i] = map[int]LRAction{}
		t.gotoT[i] = map[int]int{}
	}

	fatal := false

	setAction := func(s, col int, act LRAction) {
		existing, ok := t.action[s][col]
		if !ok {
			t.action[s][col] = act
			return
		}
		if existing.equalAction(act) {
			return
		}
		switch {
		case existing.Type == ActionShift && act.Type == ActionReduce:
			report.Note(s, col, []int{ShiftSentinel, act.Rule}, ShiftSentinel)
		case existing.Type == ActionReduce && act.Type == ActionShift:
			t.action[s][col] = act
			report.Note(s, col, []int{existing.Rule, ShiftSentinel}, ShiftSentinel)
		case existing.Type == ActionReduce && act.Type == ActionReduce:
			keep := existing
			if act.Rule < existing.Rule {
				keep = act
			}
			t.action[s][col] = keep
			report.Note(s, col, []int{existing.Rule, act.Rule}, keep.Rule)
		case existing.Type == ActionHalt && act.Type == ActionReduce:
			report.Note(s, col, []int{ShiftSentinel, act.Rule}, ShiftSentinel)
			fatal = true
		case existing.Type == ActionReduce && act.Type == ActionHalt:
			t.action[s][col] = act
			report.Note(s, col, []int{existing.Rule, ShiftSentinel}, ShiftSentinel)
			fatal = true
		case existing.Type == ActionShift && act.Type == ActionShift:
			if col == g.EndMarker() {
				fatal = true
			}
			report.Note(s, col, []int{ShiftSentinel, ShiftSentinel}, ShiftSentinel)
		default:
			t.action[s][col] = act
		}
	}

	for i, st := range states {
		closed := st.closure
		for it := range closed {
			r := ruleAt(it.rule)
			if it.mark == len(r.Right) {
				if it.rule == fakeRule {
					setAction(i, g.EndMarker(), LRAction{Type: ActionHalt})
					continue
				}
				for tok := range follow.Tokens(r.Left) {
					setAction(i, tok, LRAction{Type: ActionReduce, Rule: it.rule})
				}
				continue
			}
			sym := r.Right[it.mark]
			if sym.Kind == grammar.TokenSym {
				succ := successor(closed, &sym.ID, nil)
				j := kernelIndex[succ.key()]
				setAction(i, sym.ID, LRAction{Type: ActionShift, State: j})
			} else {
				succ := successor(closed, nil, &sym.ID)
				j := kernelIndex[succ.key()]
				t.gotoT[i][sym.ID] = j
			}
		}
	}

	if fatal {
		return nil, report, perrors.New(perrors.InvalidGrammar, "", 0, 0, "",
			"grammar is not SLR(1): unresolvable shift/shift or halt/reduce conflict on the end-marker column")
	}

	return t, report, nil
}

func (a LRAction) equalAction(b LRAction) bool {
	return a.Type == b.Type && a.State == b.State && a.Rule == b.Rule
}

// Action returns the populated action-table cell for (state, tokenOrEndMarker).
func (t *SLR1Table) Action(state, tok int) LRAction {
	return t.action[state][tok]
}

// Goto returns the goto-table cell for (state, nt), or (0, false) if empty.
func (t *SLR1Table) Goto(state, nt int) (int, bool) {
	s, ok := t.gotoT[state][nt]
	return s, ok
}

// NumStates returns the number of states in the canonical collection.
func (t *SLR1Table) NumStates() int { return t.numStates }

// SLR1Export is the plain-data view of an SLR1Table package serialize
// encodes, keeping the wire format out of this package.
type SLR1Export struct {
	RootNT          int
	NumStates       int
	NumNonTerminals int
	NumTokens       int // column count excludes the end-marker; callers add 1
	Action          map[[2]int]LRAction
	Goto            map[[2]int]int
	Rules           []grammar.Rule
}

// Export returns t's plain-data view.
func (t *SLR1Table) Export() SLR1Export {
	action := make(map[[2]int]LRAction)
	for s, row := range t.action {
		for col, act := range row {
			action[[2]int{s, col}] = act
		}
	}
	gotoMap := make(map[[2]int]int)
	for s, row := range t.gotoT {
		for nt, dst := range row {
			gotoMap[[2]int{s, nt}] = dst
		}
	}
	return SLR1Export{
		RootNT:          t.root,
		NumStates:       t.numStates,
		NumNonTerminals: t.g.NumNonTerminals(),
		NumTokens:       t.g.NumTokens(),
		Action:          action,
		Goto:            gotoMap,
		Rules:           t.g.Rules(),
	}
}

// Rebuild reconstructs a bare grammar from exp's rule list alone.
func (exp SLR1Export) Rebuild() *grammar.Grammar {
	return grammar.FromRuleExport(exp.NumTokens, exp.NumNonTerminals, exp.Rules, exp.RootNT)
}

// FromSLR1Export rebuilds an SLR1Table from a decoded export and the
// grammar it was built against.
func FromSLR1Export(g *grammar.Grammar, exp SLR1Export) *SLR1Table {
	t := &SLR1Table{
		g:         g,
		root:      exp.RootNT,
		numStates: exp.NumStates,
		action:    make([]map[int]LRAction, exp.NumStates),
		gotoT:     make([]map[int]int, exp.NumStates),
	}
	for i := range t.action {
		t.action[i] = map[int]LRAction{}
		t.gotoT[i] = map[int]int{}
	}
	for k, v := range exp.Action {
		t.action[k[0]][k[1]] = v
	}
	for k, v := range exp.Goto {
		t.gotoT[k[0]][k[1]] = v
	}
	return t
}

// RegisterTraceListener adds a listener notified of driver steps.
func (t *SLR1Table) RegisterTraceListener(l TraceListener) {
	t.trace = append(t.trace, l)
}

func (t *SLR1Table) notify(format string, args ...interface{}) {
	if len(t.trace) == 0 {
		return
	}
	msg := fmt.Sprintf(format, args...)
	for _, l := range t.trace {
		l(msg)
	}
}

// SLR1Result is what Parse returns.
type SLR1Result struct {
	Tree   *Node
	Errors []*perrors.SyntaxError
}

// Parse drives t over scanner/in using the shift/reduce state-machine
// algorithm of spec.md 4.8, invoking onReduce after every reduction (so
// callbacks fire incrementally, post-order, as the spec requires).
func (t *SLR1Table) Parse(s *lex.Scanner, in lex.Input, recover bool, onReduce func(*Node)) SLR1Result {
	stateStack := []int{0}
	var nodeStack []*Node

	lookahead, haveLookahead, err := s.Next(in)
	var errs []*perrors.SyntaxError

	advance := func() {
		lookahead, haveLookahead, err = s.Next(in)
	}

	lookaheadID := func() int {
		if !haveLookahead {
			return t.g.EndMarker()
		}
		return lookahead.ID
	}

	for {
		if err != nil {
			errs = append(errs, perrors.Wrap(err, perrors.LexicalError, "", 0, 0, "", err.Error()))
			return SLR1Result{Errors: errs}
		}

		top := stateStack[len(stateStack)-1]
		act := t.Action(top, lookaheadID())

		switch act.Type {
		case ActionShift:
			// Shifting END_MARKER (the fake root rule's last symbol) pushes
			// no node, so the node stack holds exactly the root at HALT.
			if haveLookahead {
				nodeStack = append(nodeStack, NewTokenNode(lookahead))
			}
			stateStack = append(stateStack, act.State)
			t.notify("shift %s -> state %d", s.TokenName(lookahead.ID), act.State)
			advance()

		case ActionReduce:
			rule := t.g.Rule(act.Rule)
			n := len(rule.Right)
			children := append([]*Node{}, nodeStack[len(nodeStack)-n:]...)
			nodeStack = nodeStack[:len(nodeStack)-n]
			stateStack = stateStack[:len(stateStack)-n]

			node := NewNonTerminalNode(rule.Left)
			node.LocalRule = rule.Local
			node.Children = children
			nodeStack = append(nodeStack, node)

			newTop := stateStack[len(stateStack)-1]
			next, ok := t.Goto(newTop, rule.Left)
			if !ok {
				errs = append(errs, perrors.New(perrors.InvalidGrammar, "", 0, 0, "",
					fmt.Sprintf("no goto entry for state %d on %s", newTop, t.g.NonTerminalName(rule.Left))))
				return SLR1Result{Errors: errs}
			}
			stateStack = append(stateStack, next)
			t.notify("reduce by rule %d (%s)", act.Rule, t.g.NonTerminalName(rule.Left))
			if onReduce != nil {
				onReduce(node)
			}

		case ActionHalt:
			if len(errs) > 0 {
				return SLR1Result{Errors: errs}
			}
			return SLR1Result{Tree: nodeStack[len(nodeStack)-1]}

		default: // ActionError
			got := "end of input"
			if haveLookahead {
				got = s.TokenName(lookahead.ID)
			}
			e := perrors.New(perrors.UnexpectedToken, locName(lookahead, haveLookahead), locLine(lookahead, haveLookahead), locCol(lookahead, haveLookahead), "",
				fmt.Sprintf("unexpected %s in state %d", got, top))
			errs = append(errs, e)
			if !recover {
				return SLR1Result{Errors: errs}
			}
			for haveLookahead {
				advance()
				if err != nil {
					break
				}
				if t.Action(top, lookaheadID()).Type != ActionError {
					break
				}
			}
			if !haveLookahead && t.Action(top, lookaheadID()).Type == ActionError {
				return SLR1Result{Errors: errs}
			}
		}
	}
}
