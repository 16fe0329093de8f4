package generator

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phrasegen/internal/grammar"
)

func TestGenerate(t *testing.T) {
	table := mustLoad(t, poetic)

	t.Run("sequential matches a single generator", func(t *testing.T) {
		phrases, err := Generate(context.Background(), table, 20, BatchOptions{Seed: 11})
		require.NoError(t, err)
		require.Len(t, phrases, 20)

		g := New(table, WithSeed(11))
		for _, phrase := range phrases {
			want, err := g.Phrase()
			require.NoError(t, err)
			assert.Equal(t, want, phrase)
		}
	})

	t.Run("parallel is deterministic", func(t *testing.T) {
		opts := BatchOptions{Workers: 4, Seed: 7}

		first, err := Generate(context.Background(), table, 50, opts)
		require.NoError(t, err)
		second, err := Generate(context.Background(), table, 50, opts)
		require.NoError(t, err)

		assert.Equal(t, first, second)
		for _, phrase := range first {
			assert.True(t, strings.HasPrefix(phrase, "The "), phrase)
			assert.NotContains(t, phrase, "<")
		}
	})

	t.Run("parallel keeps worker order", func(t *testing.T) {
		phrases, err := Generate(context.Background(), table, 9, BatchOptions{Workers: 3, Seed: 100})
		require.NoError(t, err)

		// Worker 1 owns phrases 1, 4 and 7
		g := New(table, WithSeed(101))
		for _, i := range []int{1, 4, 7} {
			want, err := g.Phrase()
			require.NoError(t, err)
			assert.Equal(t, want, phrases[i])
		}
	})

	t.Run("shared coverage", func(t *testing.T) {
		coverage := NewCoverage(table)
		_, err := Generate(context.Background(), table, 400, BatchOptions{
			Workers: 8,
			Seed:    3,
			Options: []Option{WithCoverage(coverage)},
		})
		require.NoError(t, err)

		assert.Equal(t, 400, coverage.Count("<start>", "The <object> <verb> tonight."))
		assert.True(t, coverage.Full())
	})

	t.Run("zero", func(t *testing.T) {
		phrases, err := Generate(context.Background(), table, 0, BatchOptions{Workers: 4})
		require.NoError(t, err)
		assert.Empty(t, phrases)
	})

	t.Run("negative", func(t *testing.T) {
		_, err := Generate(context.Background(), table, -1, BatchOptions{})
		assert.Error(t, err)
	})

	t.Run("generation error", func(t *testing.T) {
		broken := mustLoad(t, "{\n<start>\n<missing>\n}\n")

		_, err := Generate(context.Background(), broken, 10, BatchOptions{Workers: 2, Seed: 1})
		assert.ErrorIs(t, err, grammar.ErrUnresolvedNonterminal)
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := GenerateTrees(ctx, table, 10, BatchOptions{Workers: 2, Seed: 1})
		assert.ErrorIs(t, err, context.Canceled)
	})
}
