package serialize

import "github.com/dekarrin/pgen/grammar"

// ruleWire is the {ntId, localIndex, n, {kind,id}[n]} rule encoding spec.md
// 6 shares between the LL(1) and SLR(1) blobs.
type ruleWire struct {
	NtID       int
	LocalIndex int
	Kinds      []int
	IDs        []int
}

func rulesToWire(rules []grammar.Rule) []ruleWire {
	out := make([]ruleWire, len(rules))
	for i, r := range rules {
		kinds := make([]int, len(r.Right))
		ids := make([]int, len(r.Right))
		for j, s := range r.Right {
			kinds[j] = int(s.Kind)
			ids[j] = s.ID
		}
		out[i] = ruleWire{NtID: r.Left, LocalIndex: r.Local, Kinds: kinds, IDs: ids}
	}
	return out
}

func rulesFromWire(wire []ruleWire) []grammar.Rule {
	out := make([]grammar.Rule, len(wire))
	for i, w := range wire {
		right := make([]grammar.Sym, len(w.Kinds))
		for j := range w.Kinds {
			right[j] = grammar.Sym{Kind: grammar.Kind(w.Kinds[j]), ID: w.IDs[j]}
		}
		out[i] = grammar.Rule{Left: w.NtID, Right: right, Global: i, Local: w.LocalIndex}
	}
	return out
}
