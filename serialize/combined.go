package serialize

import (
	"github.com/dekarrin/pgen/grammar"
	"github.com/dekarrin/pgen/lex"
	"github.com/dekarrin/pgen/parse"
	"github.com/dekarrin/rezi"
)

// combinedWire is the rezi-encoded wire form of spec.md 6's combined blob:
// the grammar's token/non-terminal names, a scanner blob, and one table
// blob (LL(1) or SLR(1), selected by TableKind). A zero-length Scanner or
// Table means that section was omitted.
type combinedWire struct {
	NumTokens  int
	TokenNames []string
	NumNt      int
	NtNames    []string
	Scanner    []byte
	// TableKind mirrors the table blob's own tag field (spec.md 6: 0 for
	// LL(1), 1 for SLR(1)); kept alongside Table rather than re-decoded out
	// of it so Unmarshal never needs to peek into an already-encoded blob.
	TableKind int
	Table     []byte
}

const (
	tableKindNone = -1
)

// Combined bundles a scanner and a parse table (LL(1) or SLR(1)) under one
// set of declared token/non-terminal names, per spec.md 6's combined blob.
// Either half may be absent.
type Combined struct {
	Grammar *grammar.Grammar
	Scanner *lex.Scanner
	LL1     *parse.LL1Table
	SLR1    *parse.SLR1Table
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (c Combined) MarshalBinary() ([]byte, error) {
	var scannerBytes, tableBytes []byte
	var err error

	if c.Scanner != nil {
		scannerBytes, err = NewScannerBlob(c.Scanner).MarshalBinary()
		if err != nil {
			return nil, err
		}
	}
	tableKind := tableKindNone
	switch {
	case c.LL1 != nil:
		tableKind = tagLL1
		tableBytes, err = NewLL1Blob(c.LL1).MarshalBinary()
	case c.SLR1 != nil:
		tableKind = tagSLR1
		tableBytes, err = NewSLR1Blob(c.SLR1).MarshalBinary()
	}
	if err != nil {
		return nil, err
	}

	numTokens, numNt := 0, 0
	var tokenNames, ntNames []string
	if c.Grammar != nil {
		numTokens = c.Grammar.NumTokens()
		numNt = c.Grammar.NumNonTerminals()
		tokenNames = make([]string, numTokens)
		for i := range tokenNames {
			tokenNames[i] = c.Grammar.TokenName(i)
		}
		ntNames = make([]string, numNt)
		for i := range ntNames {
			ntNames[i] = c.Grammar.NonTerminalName(i)
		}
	}

	wire := combinedWire{
		NumTokens: numTokens, TokenNames: tokenNames,
		NumNt: numNt, NtNames: ntNames,
		Scanner: scannerBytes, TableKind: tableKind, Table: tableBytes,
	}
	return rezi.EncBinary(wire)
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler. The Scanner, LL1,
// and SLR1 fields are populated only if their section was present; Grammar
// is always rebuilt from the decoded name lists and the table's rules (via
// namedGrammar, so it carries the declared names, not placeholders).
func (c *Combined) UnmarshalBinary(data []byte) error {
	var wire combinedWire
	if _, err := rezi.DecBinary(data, &wire); err != nil {
		return err
	}

	var scanner *lex.Scanner
	if len(wire.Scanner) > 0 {
		var sb ScannerBlob
		if err := sb.UnmarshalBinary(wire.Scanner); err != nil {
			return err
		}
		scanner = sb.Scanner().WithNames(wire.TokenNames)
	}

	var ll1 *parse.LL1Table
	var slr1 *parse.SLR1Table
	var g *grammar.Grammar

	if len(wire.Table) > 0 {
		switch wire.TableKind {
		case tagLL1:
			var lb LL1Blob
			if err := lb.UnmarshalBinary(wire.Table); err != nil {
				return err
			}
			ll1 = lb.Table()
			g = namedGrammar(wire.TokenNames, wire.NtNames, ll1.Export().Rules, ll1.RootNonTerminal())
			ll1 = parse.FromLL1Export(g, ll1.Export())
		case tagSLR1:
			var slb SLR1Blob
			if err := slb.UnmarshalBinary(wire.Table); err != nil {
				return err
			}
			slr1 = slb.Table()
			exp := slr1.Export()
			g = namedGrammar(wire.TokenNames, wire.NtNames, exp.Rules, exp.RootNT)
			slr1 = parse.FromSLR1Export(g, exp)
		}
	} else {
		g = namedGrammar(wire.TokenNames, wire.NtNames, nil, 0)
	}

	c.Grammar = g
	c.Scanner = scanner
	c.LL1 = ll1
	c.SLR1 = slr1
	return nil
}

// namedGrammar rebuilds a Grammar carrying the combined blob's declared
// names (unlike grammar.FromRuleExport's placeholder t0/nt0 names, used
// when names aren't available).
func namedGrammar(tokenNames, ntNames []string, rules []grammar.Rule, start int) *grammar.Grammar {
	g := grammar.New()
	for _, n := range tokenNames {
		g.AddToken(n)
	}
	for _, n := range ntNames {
		g.AddNonTerminal(n)
	}
	g.SetStart(start)
	for _, r := range rules {
		g.AddRule(r.Left, r.Right)
	}
	return g
}
