package grammar

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuleTable_Lookup(t *testing.T) {
	table := NewRuleTable(
		Rule{Name: "<start>", Productions: []string{"<start>", "<a>"}},
		Rule{Name: "<a>", Productions: []string{"<a>", "first"}},
		Rule{Name: "<a>", Productions: []string{"<a>", "second"}},
	)

	t.Run("first rule wins on duplicates", func(t *testing.T) {
		rule, err := table.Lookup("<a>")
		require.NoError(t, err)
		assert.Equal(t, []string{"<a>", "first"}, rule.Productions)
	})

	t.Run("unresolved", func(t *testing.T) {
		_, err := table.Lookup("<b>")
		assert.ErrorIs(t, err, ErrUnresolvedNonterminal)

		var unresolved *UnresolvedNonterminalError
		require.True(t, errors.As(err, &unresolved))
		assert.Equal(t, "<b>", unresolved.Token)
		assert.EqualError(t, err, `unresolved nonterminal "<b>"`)
	})

	t.Run("nil table", func(t *testing.T) {
		var empty *RuleTable
		assert.Equal(t, 0, empty.Len())
		_, err := empty.Lookup("<a>")
		assert.ErrorIs(t, err, ErrUnresolvedNonterminal)
	})
}

func TestRuleTable_Start(t *testing.T) {
	table := NewRuleTable(
		Rule{Name: "<not-start>", Productions: []string{"<not-start>", "x"}},
		Rule{Name: "<start>", Productions: []string{"<start>", "y"}},
	)

	rule, err := table.Start()
	require.NoError(t, err)
	assert.Equal(t, "<not-start>", rule.Name)

	_, err = NewRuleTable().Start()
	assert.ErrorIs(t, err, ErrNoRules)
}

func TestRuleTable_isImmutable(t *testing.T) {
	prods := []string{"<a>", "x"}
	table := NewRuleTable(Rule{Name: "<a>", Productions: prods})
	prods[1] = "changed"

	rules := table.Rules()
	rules[0].Name = "<b>"

	rule, err := table.Lookup("<a>")
	require.NoError(t, err)
	assert.Equal(t, []string{"<a>", "x"}, rule.Productions)
}

func TestRule_Alternatives(t *testing.T) {
	assert.Equal(t, 0, Rule{}.Alternatives())
	assert.Equal(t, 0, Rule{Productions: []string{"<a>"}}.Alternatives())
	assert.Equal(t, 2, Rule{Productions: []string{"<a>", "x", "y"}}.Alternatives())
}

func TestIsNonterminal(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"<a>", true},
		{"<>", true},
		{"<a b>", false},
		{"<a>.", false},
		{"a>", false},
		{"<a", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsNonterminal(tt.in), tt.in)
	}
}
