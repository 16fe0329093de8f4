package generator

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"phrasegen/internal/grammar"
)

// DefaultMaxDepth bounds nonterminal nesting unless overridden
const DefaultMaxDepth = 1000

// Generator expands the start rule of a rule table into random phrases.
// A Generator owns its random source and must not be shared between
// goroutines; the rule table may be.
type Generator struct {
	table    *grammar.RuleTable
	rng      *rand.Rand
	maxDepth int
	strict   bool
	coverage *Coverage
	logger   *slog.Logger
}

// Option configures a Generator
type Option func(*Generator)

// WithRand sets the random source used for every choice
func WithRand(rng *rand.Rand) Option {
	return func(g *Generator) {
		g.rng = rng
	}
}

// WithSeed seeds a private random source
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.rng = rand.New(rand.NewSource(seed))
	}
}

// WithMaxDepth limits nonterminal nesting; 0 disables the limit
func WithMaxDepth(depth int) Option {
	return func(g *Generator) {
		g.maxDepth = depth
	}
}

// WithStrict makes rules without alternatives an error instead of falling
// back to their name line
func WithStrict(strict bool) Option {
	return func(g *Generator) {
		g.strict = strict
	}
}

// WithCoverage records every chosen production into c
func WithCoverage(c *Coverage) Option {
	return func(g *Generator) {
		g.coverage = c
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// New creates a generator over table
func New(table *grammar.RuleTable, opts ...Option) *Generator {
	g := &Generator{
		table:    table,
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(g)
	}

	if g.rng == nil {
		g.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if g.logger == nil {
		g.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return g
}

// Phrase generates one fully expanded phrase from the start rule
func (g *Generator) Phrase() (string, error) {
	tree, err := g.Derive()
	if err != nil {
		return "", err
	}
	return tree.Value, nil
}

// Derive generates one phrase and returns its derivation tree. The phrase is
// the Value of the returned root.
func (g *Generator) Derive() (*DerivationTree, error) {
	start, err := g.table.Start()
	if err != nil {
		return nil, err
	}

	tree := NewDerivationTree(start.Name, grammar.TokenNonterminal)
	production, err := g.choose(start)
	if err != nil {
		return nil, err
	}
	tree.Expansion = production

	value, err := g.expandParts(tree, grammar.SplitWords(production), 1)
	if err != nil {
		return nil, fmt.Errorf("failed to expand %s: %w", start.Name, err)
	}
	tree.Value = value

	if g.coverage != nil {
		g.coverage.Track(tree)
	}

	g.logger.Debug("phrase generated", "depth", tree.Depth(), "length", len(value))
	return tree, nil
}

// ExpandToken fully expands a single token or production string
func (g *Generator) ExpandToken(token string) (string, error) {
	node, err := g.expand(token, 1)
	if err != nil {
		return "", err
	}
	return node.Value, nil
}

// expandParts expands each space-separated part under parent and joins the
// results with single spaces
func (g *Generator) expandParts(parent *DerivationTree, parts []string, depth int) (string, error) {
	values := make([]string, len(parts))
	for i, part := range parts {
		child, err := g.expand(part, depth)
		if err != nil {
			return "", err
		}
		parent.AddChild(child)
		values[i] = child.Value
	}
	return strings.Join(values, " "), nil
}

// expand builds the derivation of one token. depth is the number of
// nonterminals already being expanded above it.
func (g *Generator) expand(text string, depth int) (*DerivationTree, error) {
	tok := grammar.Classify(text)
	node := NewDerivationTree(text, tok.Kind)

	switch tok.Kind {
	case grammar.TokenNonterminal:
		if g.maxDepth > 0 && depth >= g.maxDepth {
			return nil, &MaxDepthError{Symbol: text, Depth: g.maxDepth}
		}

		rule, err := g.table.Lookup(text)
		if err != nil {
			return nil, err
		}
		production, err := g.choose(rule)
		if err != nil {
			return nil, err
		}
		node.Expansion = production

		// The whole production is expanded as one token, so trailing
		// punctuation on it stays attached to the last word
		child, err := g.expand(production, depth+1)
		if err != nil {
			return nil, err
		}
		node.AddChild(child)
		node.Value = child.Value

	case grammar.TokenPunctuated:
		child, err := g.expand(tok.Inner, depth)
		if err != nil {
			return nil, err
		}
		node.AddChild(child)
		node.Value = child.Value + string(tok.Suffix)

	case grammar.TokenCompound:
		value, err := g.expandParts(node, tok.Parts, depth)
		if err != nil {
			return nil, err
		}
		node.Value = value

	default:
		node.Value = text
	}

	return node, nil
}

// choose picks a production of rule uniformly at random, skipping the name
// line at index 0
func (g *Generator) choose(rule grammar.Rule) (string, error) {
	if n := rule.Alternatives(); n > 0 {
		return rule.Productions[1+g.rng.Intn(n)], nil
	}

	if g.strict || len(rule.Productions) == 0 {
		return "", &DegenerateRuleError{Rule: rule.Name}
	}

	// Fall back to the name line, unless it would only expand to itself
	fallback := rule.Productions[0]
	if fallback == rule.Name && grammar.IsNonterminal(fallback) {
		return "", &DegenerateRuleError{Rule: rule.Name}
	}
	return fallback, nil
}
