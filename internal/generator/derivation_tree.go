package generator

import (
	"fmt"
	"strings"

	"phrasegen/internal/grammar"
)

// DerivationTree represents one expanded token of a phrase
type DerivationTree struct {
	Symbol    string            // The token as it appeared before expansion
	Kind      grammar.TokenKind // How the token was expanded
	Expansion string            // The production chosen, for nonterminals
	Value     string            // The expanded text
	Children  []*DerivationTree // Child nodes
}

// NewDerivationTree creates a new derivation tree node
func NewDerivationTree(symbol string, kind grammar.TokenKind) *DerivationTree {
	return &DerivationTree{
		Symbol: symbol,
		Kind:   kind,
	}
}

// AddChild adds a child node to this tree
func (t *DerivationTree) AddChild(child *DerivationTree) {
	t.Children = append(t.Children, child)
}

// String renders the tree as nested (symbol children...) groups
func (t *DerivationTree) String() string {
	if len(t.Children) == 0 {
		if t.Value != "" {
			return t.Value
		}
		return t.Symbol
	}

	var childStrs []string
	for _, child := range t.Children {
		childStrs = append(childStrs, child.String())
	}
	return fmt.Sprintf("(%s %s)", t.Symbol, strings.Join(childStrs, " "))
}

// Expansions returns the expansion keys of every nonterminal in this tree
func (t *DerivationTree) Expansions() []string {
	var expansions []string
	if t.Kind == grammar.TokenNonterminal {
		expansions = append(expansions, grammar.ExpansionKey(t.Symbol, t.Expansion))
	}
	for _, child := range t.Children {
		expansions = append(expansions, child.Expansions()...)
	}
	return expansions
}

// Depth returns the maximum nonterminal nesting of the tree
func (t *DerivationTree) Depth() int {
	maxChildDepth := 0
	for _, child := range t.Children {
		childDepth := child.Depth()
		if childDepth > maxChildDepth {
			maxChildDepth = childDepth
		}
	}
	if t.Kind == grammar.TokenNonterminal {
		return maxChildDepth + 1
	}
	return maxChildDepth
}

// Leaves returns all terminal values in order
func (t *DerivationTree) Leaves() []string {
	if len(t.Children) == 0 {
		return []string{t.Value}
	}

	var values []string
	for _, child := range t.Children {
		values = append(values, child.Leaves()...)
	}
	return values
}
