package serialize

import (
	"fmt"

	"github.com/dekarrin/pgen/parse"
	"github.com/dekarrin/rezi"
)

// actionWire mirrors spec.md 6's {u32 type; u32 num} action cell: num is
// the shift destination state for ActionShift, the rule index for
// ActionReduce, and unused (0) otherwise.
type actionWire struct {
	Type int
	Num  int
}

// slr1Wire is the rezi-encoded wire form of spec.md 6's SLR(1) blob.
type slr1Wire struct {
	Tag       int
	RootNtID  int
	NumStates int
	NumNt     int
	NumTok    int
	Goto      [][]int      // [numStates][numNt]; parse.None for empty
	Action    [][]actionWire // [numStates][numTok+1]
	Rules     []ruleWire
}

// SLR1Blob wraps a parse.SLR1Table for binary encoding.
type SLR1Blob struct {
	t *parse.SLR1Table
}

// NewSLR1Blob wraps t for serialization.
func NewSLR1Blob(t *parse.SLR1Table) SLR1Blob { return SLR1Blob{t: t} }

// Table returns the wrapped or decoded table.
func (b SLR1Blob) Table() *parse.SLR1Table { return b.t }

// MarshalBinary implements encoding.BinaryMarshaler per spec.md 6's SLR(1)
// blob layout.
func (b SLR1Blob) MarshalBinary() ([]byte, error) {
	exp := b.t.Export()
	numTokCols := exp.NumTokens + 1 // + END_MARKER column

	gotoTab := make([][]int, exp.NumStates)
	for s := range gotoTab {
		row := make([]int, exp.NumNonTerminals)
		for nt := range row {
			row[nt] = parse.None
		}
		gotoTab[s] = row
	}
	for k, v := range exp.Goto {
		gotoTab[k[0]][k[1]] = v
	}

	actionTab := make([][]actionWire, exp.NumStates)
	for s := range actionTab {
		actionTab[s] = make([]actionWire, numTokCols)
	}
	for k, v := range exp.Action {
		actionTab[k[0]][k[1]] = actionWire{Type: int(v.Type), Num: actionNum(v)}
	}

	wire := slr1Wire{
		Tag: tagSLR1, RootNtID: exp.RootNT, NumStates: exp.NumStates,
		NumNt: exp.NumNonTerminals, NumTok: exp.NumTokens,
		Goto: gotoTab, Action: actionTab, Rules: rulesToWire(exp.Rules),
	}
	return rezi.EncBinary(wire)
}

func actionNum(a parse.LRAction) int {
	switch a.Type {
	case parse.ActionShift:
		return a.State
	case parse.ActionReduce:
		return a.Rule
	default:
		return 0
	}
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler, reconstructing a
// table against a placeholder grammar built from the blob's own rule list.
// Callers with the original grammar should call parse.FromSLR1Export
// directly instead.
func (b *SLR1Blob) UnmarshalBinary(data []byte) error {
	var wire slr1Wire
	if _, err := rezi.DecBinary(data, &wire); err != nil {
		return err
	}
	if wire.Tag != tagSLR1 {
		return fmt.Errorf("serialize: not an SLR(1) table blob (tag %d)", wire.Tag)
	}

	gotoMap := map[[2]int]int{}
	for s, row := range wire.Goto {
		for nt, v := range row {
			if v != parse.None {
				gotoMap[[2]int{s, nt}] = v
			}
		}
	}

	actionMap := map[[2]int]parse.LRAction{}
	for s, row := range wire.Action {
		for tok, cell := range row {
			if cell.Type == int(parse.ActionError) {
				continue
			}
			act := parse.LRAction{Type: parse.LRActionType(cell.Type)}
			switch act.Type {
			case parse.ActionShift:
				act.State = cell.Num
			case parse.ActionReduce:
				act.Rule = cell.Num
			}
			actionMap[[2]int{s, tok}] = act
		}
	}

	exp := parse.SLR1Export{
		RootNT:          wire.RootNtID,
		NumStates:       wire.NumStates,
		NumNonTerminals: wire.NumNt,
		NumTokens:       wire.NumTok,
		Action:          actionMap,
		Goto:            gotoMap,
		Rules:           rulesFromWire(wire.Rules),
	}

	b.t = parse.FromSLR1Export(exp.Rebuild(), exp)
	return nil
}
