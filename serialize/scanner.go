package serialize

import (
	"github.com/dekarrin/pgen/automaton"
	"github.com/dekarrin/pgen/lex"
	"github.com/dekarrin/pgen/symbol"
	"github.com/dekarrin/rezi"
)

// scannerWire is the rezi-encoded wire form of spec.md 6's scanner blob:
// numStates, the transition table, the accepting-state bitset, the
// per-state token id, and the ignored-token id list. The spec documents
// transitions as transitions[128][numStates] (symbol-major); StaticDFA
// stores them state-major, so Marshal/Unmarshal transpose at the boundary.
type scannerWire struct {
	NumStates    int
	Transitions  [][]int // [symbol][state]; symbol.Reject for no edge
	FinalBitset  []uint32
	StateTokenID []int
	Ignored      []int
}

// ScannerBlob wraps a lex.Scanner for binary encoding.
type ScannerBlob struct {
	s *lex.Scanner
}

// NewScannerBlob wraps s for serialization.
func NewScannerBlob(s *lex.Scanner) ScannerBlob { return ScannerBlob{s: s} }

// Scanner returns the wrapped or decoded scanner.
func (b ScannerBlob) Scanner() *lex.Scanner { return b.s }

// MarshalBinary implements encoding.BinaryMarshaler per spec.md 6's scanner
// blob layout.
func (b ScannerBlob) MarshalBinary() ([]byte, error) {
	dfa := b.s.DFA()
	n := dfa.NumStates()

	trans := make([][]int, symbol.AlphabetSize)
	for sym := 0; sym < symbol.AlphabetSize; sym++ {
		row := make([]int, n)
		for st := 0; st < n; st++ {
			row[st] = dfa.Trans[st][sym]
		}
		trans[sym] = row
	}

	wire := scannerWire{
		NumStates:    n,
		Transitions:  trans,
		FinalBitset:  packBitset(dfa.Accepting),
		StateTokenID: append([]int(nil), dfa.Value...),
		Ignored:      b.s.IgnoredIDs(),
	}
	return rezi.EncBinary(wire)
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler. The reconstructed
// scanner carries no token names (the scanner blob doesn't encode them);
// callers decoding a combined blob attach names afterward via
// Scanner().WithNames.
func (b *ScannerBlob) UnmarshalBinary(data []byte) error {
	var wire scannerWire
	if _, err := rezi.DecBinary(data, &wire); err != nil {
		return err
	}

	n := wire.NumStates
	dfa := automaton.StaticDFA{
		Trans:     make([][]int, n),
		Accepting: unpackBitset(wire.FinalBitset, n),
		Value:     append([]int(nil), wire.StateTokenID...),
		Start:     0,
	}
	for st := 0; st < n; st++ {
		row := make([]int, symbol.AlphabetSize)
		for sym := 0; sym < symbol.AlphabetSize; sym++ {
			row[sym] = wire.Transitions[sym][st]
		}
		dfa.Trans[st] = row
	}

	b.s = lex.FromParts(dfa, wire.Ignored, nil)
	return nil
}
