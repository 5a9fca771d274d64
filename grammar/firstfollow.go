package grammar

// FirstSets holds the computed FIRST(A) for every non-terminal A, plus
// whether each is nullable (FIRST(A) contains EPSILON, tracked here as a
// parallel flag rather than folding an epsilon pseudo-id into the token-id
// space).
type FirstSets struct {
	tokens   []map[int]bool
	nullable []bool
}

// Tokens returns the token ids in FIRST(nt), without EPSILON.
func (f FirstSets) Tokens(nt int) map[int]bool { return f.tokens[nt] }

// Nullable reports whether nt can derive the empty string.
func (f FirstSets) Nullable(nt int) bool { return f.nullable[nt] }

// computeFirstOfSymbol returns the FIRST set and nullability of a single
// grammar symbol, given the FIRST sets computed so far for non-terminals.
func computeFirstOfSymbol(g *Grammar, sym Sym, first []map[int]bool, nullable []bool) (map[int]bool, bool) {
	if sym.Kind == TokenSym {
		return map[int]bool{sym.ID: true}, false
	}
	return first[sym.ID], nullable[sym.ID]
}

// firstOfSequence returns FIRST(X1...Xn) and whether the whole sequence is
// nullable, per spec.md 4.4: FIRST(X1) contributes in full; each following
// Xi contributes only while every earlier symbol is nullable; the sequence
// itself is nullable iff every symbol is.
func firstOfSequence(g *Grammar, seq []Sym, first []map[int]bool, nullable []bool) (map[int]bool, bool) {
	out := map[int]bool{}
	seqNullable := true
	for _, sym := range seq {
		fs, null := computeFirstOfSymbol(g, sym, first, nullable)
		for t := range fs {
			out[t] = true
		}
		if !null {
			seqNullable = false
			break
		}
	}
	return out, seqNullable
}

// FIRST computes FIRST(A) for every non-terminal A via round-robin fixpoint
// iteration over the rule list, per spec.md 4.4.
func (g *Grammar) FIRST() FirstSets {
	n := g.NumNonTerminals()
	first := make([]map[int]bool, n)
	nullable := make([]bool, n)
	for i := range first {
		first[i] = map[int]bool{}
	}

	for {
		changed := false
		for _, r := range g.rules {
			fs, null := firstOfSequence(g, r.Right, first, nullable)
			for t := range fs {
				if !first[r.Left][t] {
					first[r.Left][t] = true
					changed = true
				}
			}
			if null && !nullable[r.Left] {
				nullable[r.Left] = true
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	return FirstSets{tokens: first, nullable: nullable}
}

// FirstOfSequence exposes firstOfSequence for callers (LL(1)/SLR(1)
// construction) that need FIRST of an arbitrary right-hand side once
// FirstSets has been computed.
func (f FirstSets) FirstOfSequence(g *Grammar, seq []Sym) (map[int]bool, bool) {
	return firstOfSequence(g, seq, f.tokens, f.nullable)
}

// FollowSets holds the computed FOLLOW(A) for every non-terminal A. The
// end-marker, when present, is represented by the sentinel id
// Grammar.EndMarker() (equal to NumTokens()).
type FollowSets struct {
	sets []map[int]bool
}

// Tokens returns FOLLOW(nt), which may contain the grammar's EndMarker id.
func (f FollowSets) Tokens(nt int) map[int]bool { return f.sets[nt] }

// FOLLOW computes FOLLOW(A) for every non-terminal A, given the grammar's
// already-computed FIRST sets, per spec.md 4.4. The start symbol's FOLLOW
// set seeds with EndMarker; iteration proceeds to a fixpoint over every
// rule and every non-terminal occurrence in its right-hand side.
func (g *Grammar) FOLLOW(first FirstSets) FollowSets {
	n := g.NumNonTerminals()
	follow := make([]map[int]bool, n)
	for i := range follow {
		follow[i] = map[int]bool{}
	}

	if start, ok := g.StartSymbol(); ok {
		follow[start][g.EndMarker()] = true
	}

	for {
		changed := false
		for _, r := range g.rules {
			for i, sym := range r.Right {
				if sym.Kind != NonTerminalSym {
					continue
				}
				beta := r.Right[i+1:]
				fs, nullableBeta := first.FirstOfSequence(g, beta)
				for t := range fs {
					if !follow[sym.ID][t] {
						follow[sym.ID][t] = true
						changed = true
					}
				}
				if nullableBeta {
					for t := range follow[r.Left] {
						if !follow[sym.ID][t] {
							follow[sym.ID][t] = true
							changed = true
						}
					}
				}
			}
		}
		if !changed {
			break
		}
	}

	return FollowSets{sets: follow}
}
