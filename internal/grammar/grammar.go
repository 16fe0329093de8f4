package grammar

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoRules is returned when a phrase is requested from an empty table
	ErrNoRules = errors.New("no rules loaded")

	// ErrUnresolvedNonterminal matches any UnresolvedNonterminalError
	ErrUnresolvedNonterminal = errors.New("unresolved nonterminal")
)

// UnresolvedNonterminalError reports a <name> reference with no matching rule
type UnresolvedNonterminalError struct {
	Token string
}

func (e *UnresolvedNonterminalError) Error() string {
	return fmt.Sprintf("unresolved nonterminal %q", e.Token)
}

func (e *UnresolvedNonterminalError) Is(target error) bool {
	return target == ErrUnresolvedNonterminal
}

// Rule is one {...} block of a grammar file. Productions[0] is the name line.
type Rule struct {
	Name        string
	Productions []string
}

// Alternatives returns the number of productions that may be chosen at random
func (r Rule) Alternatives() int {
	if len(r.Productions) <= 1 {
		return 0
	}
	return len(r.Productions) - 1
}

// RuleTable is an ordered, read-only set of rules. Entry 0 is the start rule.
type RuleTable struct {
	rules []Rule
	index map[string]int
}

// NewRuleTable creates a table from rules in the given order
func NewRuleTable(rules ...Rule) *RuleTable {
	t := &RuleTable{
		rules: make([]Rule, 0, len(rules)),
		index: make(map[string]int, len(rules)),
	}
	for _, r := range rules {
		t.add(r)
	}
	return t
}

// add appends a rule; on duplicate names the first one stays resolvable
func (t *RuleTable) add(r Rule) {
	prods := make([]string, len(r.Productions))
	copy(prods, r.Productions)
	r.Productions = prods

	if _, ok := t.index[r.Name]; !ok {
		t.index[r.Name] = len(t.rules)
	}
	t.rules = append(t.rules, r)
}

// Len returns the number of rules
func (t *RuleTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rules)
}

// Rule returns the rule at position i
func (t *RuleTable) Rule(i int) Rule {
	return t.rules[i]
}

// Rules returns a copy of the rules in file order
func (t *RuleTable) Rules() []Rule {
	if t == nil {
		return nil
	}
	out := make([]Rule, len(t.rules))
	copy(out, t.rules)
	return out
}

// Start returns the first rule of the table, whatever its name
func (t *RuleTable) Start() (Rule, error) {
	if t.Len() == 0 {
		return Rule{}, ErrNoRules
	}
	return t.rules[0], nil
}

// Lookup finds the first rule whose name line equals name
func (t *RuleTable) Lookup(name string) (Rule, error) {
	if t != nil {
		if i, ok := t.index[name]; ok {
			return t.rules[i], nil
		}
	}
	return Rule{}, &UnresolvedNonterminalError{Token: name}
}

// IsNonterminal checks if a string is a bare nonterminal symbol (<name>, no spaces)
func IsNonterminal(s string) bool {
	return strings.HasPrefix(s, "<") && strings.HasSuffix(s, ">") && !strings.Contains(s, " ")
}

// ExpansionKey creates a unique key for a rule and one of its productions
func ExpansionKey(name, production string) string {
	return name + " -> " + production
}
