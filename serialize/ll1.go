package serialize

import (
	"fmt"

	"github.com/dekarrin/pgen/parse"
	"github.com/dekarrin/rezi"
)

// tagLL1 and tagSLR1 are the table blob's discriminator per spec.md 6
// ("u32 tag=0" for LL(1), "u32 tag=1" for SLR(1)).
const (
	tagLL1  = 0
	tagSLR1 = 1
)

// ll1Wire is the rezi-encoded wire form of spec.md 6's LL(1) blob.
type ll1Wire struct {
	Tag      int
	RootNtID int
	Rows     int
	Cols     int
	Cells    [][]int // [rows][cols]; parse.None for an empty cell
	Rules    []ruleWire
}

// LL1Blob wraps a parse.LL1Table for binary encoding.
type LL1Blob struct {
	t *parse.LL1Table
}

// NewLL1Blob wraps t for serialization.
func NewLL1Blob(t *parse.LL1Table) LL1Blob { return LL1Blob{t: t} }

// Table returns the wrapped or decoded table.
func (b LL1Blob) Table() *parse.LL1Table { return b.t }

// MarshalBinary implements encoding.BinaryMarshaler per spec.md 6's LL(1)
// blob layout.
func (b LL1Blob) MarshalBinary() ([]byte, error) {
	exp := b.t.Export()
	rows := exp.NumNonTerminals
	cols := exp.NumTokens + 1 // + END_MARKER column

	cells := make([][]int, rows)
	for nt := range cells {
		row := make([]int, cols)
		for c := range row {
			row[c] = parse.None
		}
		cells[nt] = row
	}
	for k, v := range exp.Cells {
		cells[k[0]][k[1]] = v
	}

	wire := ll1Wire{
		Tag: tagLL1, RootNtID: exp.RootNT, Rows: rows, Cols: cols,
		Cells: cells, Rules: rulesToWire(exp.Rules),
	}
	return rezi.EncBinary(wire)
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler, reconstructing a
// table against a placeholder grammar built from the blob's own rule list
// (see grammar.FromRuleExport). Callers with the original grammar should
// call parse.FromLL1Export directly instead.
func (b *LL1Blob) UnmarshalBinary(data []byte) error {
	var wire ll1Wire
	if _, err := rezi.DecBinary(data, &wire); err != nil {
		return err
	}
	if wire.Tag != tagLL1 {
		return fmt.Errorf("serialize: not an LL(1) table blob (tag %d)", wire.Tag)
	}

	cells := map[[2]int]int{}
	for nt, row := range wire.Cells {
		for c, v := range row {
			if v != parse.None {
				cells[[2]int{nt, c}] = v
			}
		}
	}

	exp := parse.LL1Export{
		RootNT:          wire.RootNtID,
		NumNonTerminals: wire.Rows,
		NumTokens:       wire.Cols - 1,
		Cells:           cells,
		Rules:           rulesFromWire(wire.Rules),
	}

	b.t = parse.FromLL1Export(exp.Rebuild(), exp)
	return nil
}
