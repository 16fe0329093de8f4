package generator

import (
	"sort"
	"sync"

	"phrasegen/internal/grammar"
)

// Coverage tracks which productions of a grammar have been chosen
type Coverage struct {
	// Map of expansion keys to coverage count
	covered map[string]int

	// Selectable productions per rule name
	expansions map[string][]string

	// Protect concurrent access
	mu sync.RWMutex
}

// CoverageStats summarises coverage of selectable productions
type CoverageStats struct {
	Covered int
	Total   int
	Percent float64
}

// NewCoverage creates a coverage tracker for the rules of table
func NewCoverage(table *grammar.RuleTable) *Coverage {
	c := &Coverage{
		covered:    make(map[string]int),
		expansions: make(map[string][]string),
	}

	for _, rule := range table.Rules() {
		// Only the first rule of a given name is reachable
		if _, ok := c.expansions[rule.Name]; ok {
			continue
		}
		c.expansions[rule.Name] = selectable(rule)
	}

	return c
}

// selectable returns the productions a generator may choose for rule
func selectable(rule grammar.Rule) []string {
	if rule.Alternatives() == 0 {
		out := make([]string, len(rule.Productions))
		copy(out, rule.Productions)
		return out
	}
	out := make([]string, rule.Alternatives())
	copy(out, rule.Productions[1:])
	return out
}

// Track records every expansion in a derivation tree
func (c *Coverage) Track(tree *DerivationTree) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, key := range tree.Expansions() {
		c.covered[key]++
	}
}

// Record records a single choice of production for rule
func (c *Coverage) Record(rule, production string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.covered[grammar.ExpansionKey(rule, production)]++
}

// Count returns how often production has been chosen for rule
func (c *Coverage) Count(rule, production string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.covered[grammar.ExpansionKey(rule, production)]
}

// Covered checks if production has been chosen for rule at least once
func (c *Coverage) Covered(rule, production string) bool {
	return c.Count(rule, production) > 0
}

// Full checks if all selectable productions are covered
func (c *Coverage) Full() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for rule, exps := range c.expansions {
		for _, exp := range exps {
			if c.covered[grammar.ExpansionKey(rule, exp)] == 0 {
				return false
			}
		}
	}
	return true
}

// Uncovered returns the sorted expansion keys that were never chosen
func (c *Coverage) Uncovered() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var keys []string
	seen := make(map[string]bool)
	for rule, exps := range c.expansions {
		for _, exp := range exps {
			key := grammar.ExpansionKey(rule, exp)
			if c.covered[key] == 0 && !seen[key] {
				seen[key] = true
				keys = append(keys, key)
			}
		}
	}
	sort.Strings(keys)
	return keys
}

// Stats returns covered and total selectable production counts
func (c *Coverage) Stats() CoverageStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var stats CoverageStats
	seen := make(map[string]bool)
	for rule, exps := range c.expansions {
		for _, exp := range exps {
			key := grammar.ExpansionKey(rule, exp)
			if seen[key] {
				continue
			}
			seen[key] = true
			stats.Total++
			if c.covered[key] > 0 {
				stats.Covered++
			}
		}
	}
	if stats.Total > 0 {
		stats.Percent = float64(stats.Covered) / float64(stats.Total) * 100
	}
	return stats
}

// Reset clears coverage data
func (c *Coverage) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.covered = make(map[string]int)
}
