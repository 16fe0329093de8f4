package generator

import (
	"errors"
	"fmt"
)

var (
	// ErrDegenerateRule matches any DegenerateRuleError
	ErrDegenerateRule = errors.New("degenerate rule")

	// ErrMaxDepth matches any MaxDepthError
	ErrMaxDepth = errors.New("maximum expansion depth exceeded")
)

// DegenerateRuleError reports a rule with no production besides its name line
// that cannot be expanded under the active policy
type DegenerateRuleError struct {
	Rule string
}

func (e *DegenerateRuleError) Error() string {
	return fmt.Sprintf("rule %q has no alternatives to choose from", e.Rule)
}

func (e *DegenerateRuleError) Is(target error) bool {
	return target == ErrDegenerateRule
}

// MaxDepthError reports a derivation that nested deeper than the configured limit
type MaxDepthError struct {
	Symbol string
	Depth  int
}

func (e *MaxDepthError) Error() string {
	return fmt.Sprintf("expanding %q exceeded maximum depth %d", e.Symbol, e.Depth)
}

func (e *MaxDepthError) Is(target error) bool {
	return target == ErrMaxDepth
}
