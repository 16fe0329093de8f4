package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phrasegen/internal/generator"
	"phrasegen/internal/grammar"
)

func TestRecorder(t *testing.T) {
	table, err := grammar.Load(strings.NewReader("{\n<start>\n<a> <a>\n}\n{\n<a>\nx\n}\n"))
	require.NoError(t, err)

	recorder := NewRecorder()
	recorder.ObserveGrammar(table)

	coverage := generator.NewCoverage(table)
	g := generator.New(table, generator.WithCoverage(coverage))
	var trees []*generator.DerivationTree
	for i := 0; i < 3; i++ {
		tree, err := g.Derive()
		require.NoError(t, err)
		trees = append(trees, tree)
	}
	recorder.ObserveTrees(trees)
	recorder.ObserveCoverage(coverage.Stats())
	recorder.ObserveError(fmt.Errorf("phrase 1: %w", grammar.ErrNoRules))

	assert.Equal(t, 2.0, testutil.ToFloat64(recorder.rules))
	assert.Equal(t, 3.0, testutil.ToFloat64(recorder.phrases))
	assert.Equal(t, 1.0, testutil.ToFloat64(recorder.coverage))
	assert.Equal(t, 1.0, testutil.ToFloat64(recorder.failures.WithLabelValues("no_rules")))
	assert.Equal(t, 1, testutil.CollectAndCount(recorder.depth))

	path := filepath.Join(t.TempDir(), "phrasegen.prom")
	require.NoError(t, recorder.WriteTextfile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "phrasegen_phrases_generated_total 3")
	assert.Contains(t, string(data), `phrasegen_generation_errors_total{kind="no_rules"} 1`)
}

func TestErrorKind(t *testing.T) {
	tests := []struct {
		err  error
		kind string
	}{
		{err: grammar.ErrNoRules, kind: "no_rules"},
		{err: &grammar.UnresolvedNonterminalError{Token: "<b>"}, kind: "unresolved_nonterminal"},
		{err: &generator.DegenerateRuleError{Rule: "<a>"}, kind: "degenerate_rule"},
		{err: fmt.Errorf("wrapped: %w", &generator.MaxDepthError{Symbol: "<a>", Depth: 3}), kind: "max_depth"},
		{err: fmt.Errorf("boom"), kind: "other"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.kind, ErrorKind(tt.err), tt.err.Error())
	}
}
