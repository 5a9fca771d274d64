// Package parse builds LL(1) and SLR(1) parse tables from a grammar.Grammar
// and drives them over a lex.Scanner's token stream, producing parse trees,
// per spec.md 4.5-4.9.
package parse

import (
	"github.com/dekarrin/pgen/lex"
)

// NodeKind distinguishes the two parse-tree node shapes (spec.md's sum
// type: Token | NonTerminal).
type NodeKind int

const (
	TokenNode NodeKind = iota
	NonTerminalNode
)

// Node is a parse-tree node. For a TokenNode, TokenID/Lexeme/Loc are valid;
// for a NonTerminalNode, NonTerminal/LocalRule/Children are valid.
type Node struct {
	Kind NodeKind

	TokenID int
	Lexeme  string
	Loc     lex.Location

	NonTerminal int
	LocalRule   int
	Children    []*Node
}

// NewTokenNode builds a leaf node from a scanned token.
func NewTokenNode(tok lex.Token) *Node {
	return &Node{Kind: TokenNode, TokenID: tok.ID, Lexeme: tok.Lexeme, Loc: tok.Loc}
}

// NewNonTerminalNode builds an interior node with no children yet; callers
// append to Children as they are built out (LL(1)) or pass them in
// up-front (SLR(1) reductions).
func NewNonTerminalNode(nt int) *Node {
	return &Node{Kind: NonTerminalNode, NonTerminal: nt}
}

// Location returns a token node's own location, or a non-terminal node's
// first child's location that has one, per spec.md's DATA MODEL.
func (n *Node) Location() lex.Location {
	if n.Kind == TokenNode {
		return n.Loc
	}
	for _, c := range n.Children {
		loc := c.Location()
		if loc != (lex.Location{}) {
			return loc
		}
	}
	return lex.Location{}
}

// Walk performs an iterative post-order traversal (explicit work stack, no
// recursion, per spec.md 9's "deep trees must iteratively release
// descendants") and invokes visit on every NonTerminal node, children
// before parent. Tokens are not visited, matching spec.md 4.6's
// parser-action hook.
func Walk(root *Node, visit func(*Node)) {
	if root == nil {
		return
	}

	type frame struct {
		node    *Node
		visited bool
	}
	stack := []frame{{node: root}}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.node.Kind == TokenNode {
			stack = stack[:len(stack)-1]
			continue
		}
		if top.visited {
			visit(top.node)
			stack = stack[:len(stack)-1]
			continue
		}
		top.visited = true
		for i := len(top.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: top.node.Children[i]})
		}
	}
}
