package parse

import (
	"fmt"

	"github.com/dekarrin/pgen/grammar"
	"github.com/dekarrin/pgen/lex"
	"github.com/dekarrin/pgen/perrors"
)

// None marks an LL(1) table cell or SLR(1) goto cell with no entry.
const None = -1

// LL1Table is the [non-terminal][token-or-end-marker] -> rule-index
// prediction table spec.md 3 and 4.5 describe.
type LL1Table struct {
	g       *grammar.Grammar
	rootNT  int
	cells   map[[2]int]int
	trace   []TraceListener
}

// BuildLL1 constructs the LL(1) prediction table for g, rooted at root.
// Conflicts (two distinct rules claiming the same cell) are recorded in the
// returned report; construction itself never fails over conflicts (spec.md
// 4.5's tie-break: keep the smaller rule index, record the rest).
func BuildLL1(g *grammar.Grammar, root int) (*LL1Table, *ConflictReport) {
	first := g.FIRST()
	follow := g.FOLLOW(first)
	report := NewConflictReport(g, true)

	t := &LL1Table{g: g, rootNT: root, cells: map[[2]int]int{}}

	setCell := func(nt, tok, rule int) {
		key := [2]int{nt, tok}
		existing, ok := t.cells[key]
		if !ok {
			t.cells[key] = rule
			return
		}
		if existing == rule {
			return
		}
		keep := existing
		if rule < keep {
			keep = rule
		}
		t.cells[key] = keep
		report.Note(nt, tok, []int{existing, rule}, keep)
	}

	for _, r := range g.Rules() {
		fs, nullable := first.FirstOfSequence(g, r.Right)
		for tok := range fs {
			setCell(r.Left, tok, r.Global)
		}
		if nullable {
			for tok := range follow.Tokens(r.Left) {
				setCell(r.Left, tok, r.Global)
			}
		}
	}

	return t, report
}

// Lookup returns the rule global index predicted for (nt, tok), or
// (0, false) if the cell is empty.
func (t *LL1Table) Lookup(nt, tok int) (int, bool) {
	r, ok := t.cells[[2]int{nt, tok}]
	return r, ok
}

// RootNonTerminal returns the declared start non-terminal this table was
// built for.
func (t *LL1Table) RootNonTerminal() int { return t.rootNT }

// LL1Export is the plain-data view of an LL1Table package serialize encodes,
// keeping the wire format out of this package.
type LL1Export struct {
	RootNT          int
	NumNonTerminals int
	NumTokens       int // column count excludes the end-marker; callers add 1
	Cells           map[[2]int]int
	Rules           []grammar.Rule
}

// Export returns t's plain-data view.
func (t *LL1Table) Export() LL1Export {
	cells := make(map[[2]int]int, len(t.cells))
	for k, v := range t.cells {
		cells[k] = v
	}
	return LL1Export{
		RootNT:          t.rootNT,
		NumNonTerminals: t.g.NumNonTerminals(),
		NumTokens:       t.g.NumTokens(),
		Cells:           cells,
		Rules:           t.g.Rules(),
	}
}

// Rebuild reconstructs a bare grammar from exp's rule list alone (token and
// non-terminal names become placeholders), for callers deserializing a
// table blob with no access to the original grammar's name maps.
func (exp LL1Export) Rebuild() *grammar.Grammar {
	return grammar.FromRuleExport(exp.NumTokens, exp.NumNonTerminals, exp.Rules, exp.RootNT)
}

// FromLL1Export rebuilds an LL1Table from a decoded export, given the
// grammar it was built against (the grammar itself is not re-serialized;
// the caller is expected to have loaded or reconstructed it separately, or
// to call exp.Rebuild() for a name-less placeholder grammar).
func FromLL1Export(g *grammar.Grammar, exp LL1Export) *LL1Table {
	cells := make(map[[2]int]int, len(exp.Cells))
	for k, v := range exp.Cells {
		cells[k] = v
	}
	return &LL1Table{g: g, rootNT: exp.RootNT, cells: cells}
}

// RegisterTraceListener adds a listener notified of driver steps, grounded
// on the teacher's parse/lr.go RegisterTraceListener/notifyTrace* family —
// a debugging aid, not part of the required driver behavior.
func (t *LL1Table) RegisterTraceListener(l TraceListener) {
	t.trace = append(t.trace, l)
}

func (t *LL1Table) notify(format string, args ...interface{}) {
	if len(t.trace) == 0 {
		return
	}
	msg := fmt.Sprintf(format, args...)
	for _, l := range t.trace {
		l(msg)
	}
}

// LL1Result is what Parse returns: either a completed tree (Errors empty)
// or a non-empty Errors list and a nil Tree, per spec.md 4.6's "never emit
// a tree when any error occurred."
type LL1Result struct {
	Tree   *Node
	Errors []*perrors.SyntaxError
}

// Parse drives t over scanner/in using the predictive-stack algorithm of
// spec.md 4.6. If recover is false, the first error is returned immediately
// (Errors has exactly one entry, Tree is nil). If recover is true, parsing
// continues past errors using the recovery policy in spec.md 4.6, and the
// full error list is returned; Tree is still nil if any error occurred.
func (t *LL1Table) Parse(s *lex.Scanner, in lex.Input, recover bool, onReduce func(*Node)) LL1Result {
	root := NewNonTerminalNode(t.rootNT)
	stack := []*Node{root}

	lookahead, haveLookahead, err := s.Next(in)
	var errs []*perrors.SyntaxError

	advance := func() {
		lookahead, haveLookahead, err = s.Next(in)
	}

	fail := func(e *perrors.SyntaxError) bool {
		errs = append(errs, e)
		return recover
	}

	lookaheadID := func() int {
		if !haveLookahead {
			return t.g.EndMarker()
		}
		return lookahead.ID
	}

	for len(stack) > 0 {
		if err != nil {
			errs = append(errs, perrors.Wrap(err, perrors.LexicalError, "", 0, 0, "", err.Error()))
			return LL1Result{Errors: errs}
		}

		top := stack[len(stack)-1]

		if top.Kind == TokenNode {
			if !haveLookahead || lookahead.ID != top.TokenID {
				got := "end of input"
				if haveLookahead {
					got = s.TokenName(lookahead.ID)
				}
				e := perrors.New(perrors.UnexpectedToken, locName(lookahead, haveLookahead), locLine(lookahead, haveLookahead), locCol(lookahead, haveLookahead), "",
					fmt.Sprintf("unexpected %s, expected %s", got, s.TokenName(top.TokenID)))
				if !fail(e) {
					return LL1Result{Errors: errs}
				}
				for haveLookahead && lookahead.ID != top.TokenID {
					advance()
				}
				if err != nil {
					continue
				}
			}
			if haveLookahead {
				top.Lexeme = lookahead.Lexeme
				top.Loc = lookahead.Loc
				advance()
			}
			stack = stack[:len(stack)-1]
			continue
		}

		// NonTerminal
		ruleIdx, ok := t.Lookup(top.NonTerminal, lookaheadID())
		if !ok {
			got := "end of input"
			if haveLookahead {
				got = s.TokenName(lookahead.ID)
			}
			e := perrors.New(perrors.UnexpectedToken, locName(lookahead, haveLookahead), locLine(lookahead, haveLookahead), locCol(lookahead, haveLookahead), "",
				fmt.Sprintf("no rule for %s on lookahead %s", t.g.NonTerminalName(top.NonTerminal), got))
			if !fail(e) {
				return LL1Result{Errors: errs}
			}
			for {
				if _, ok := t.Lookup(top.NonTerminal, lookaheadID()); ok || !haveLookahead {
					break
				}
				advance()
				if err != nil {
					break
				}
			}
			if err != nil {
				continue
			}
			if _, ok := t.Lookup(top.NonTerminal, lookaheadID()); !ok {
				// exhausted input without recovering
				return LL1Result{Errors: errs}
			}
			ruleIdx, _ = t.Lookup(top.NonTerminal, lookaheadID())
		}

		rule := t.g.Rule(ruleIdx)
		top.LocalRule = rule.Local
		t.notify("expand %s -> rule %d", t.g.NonTerminalName(top.NonTerminal), ruleIdx)

		children := make([]*Node, len(rule.Right))
		for i, sym := range rule.Right {
			if sym.Kind == grammar.TokenSym {
				children[i] = &Node{Kind: TokenNode, TokenID: sym.ID}
			} else {
				children[i] = NewNonTerminalNode(sym.ID)
			}
		}
		top.Children = children

		stack = stack[:len(stack)-1]
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}

	if haveLookahead {
		e := perrors.New(perrors.JunkAfterAccept, lookahead.Loc.Name, lookahead.Loc.Line, lookahead.Loc.Col, "",
			fmt.Sprintf("unexpected %s after accepting input", s.TokenName(lookahead.ID)))
		errs = append(errs, e)
	}

	if len(errs) > 0 {
		return LL1Result{Errors: errs}
	}

	if onReduce != nil {
		Walk(root, onReduce)
	}

	return LL1Result{Tree: root}
}

func locName(tok lex.Token, have bool) string {
	if have {
		return tok.Loc.Name
	}
	return ""
}
func locLine(tok lex.Token, have bool) int {
	if have {
		return tok.Loc.Line
	}
	return 0
}
func locCol(tok lex.Token, have bool) int {
	if have {
		return tok.Loc.Col
	}
	return 0
}
