package generator

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"phrasegen/internal/grammar"
)

// BatchOptions configures Generate
type BatchOptions struct {
	Workers int      // Number of concurrent generators, <= 1 runs sequentially
	Seed    int64    // Base seed, worker w uses Seed+w; 0 picks a time based seed
	Options []Option // Applied to every worker's generator
}

// Generate produces n phrases from table
func Generate(ctx context.Context, table *grammar.RuleTable, n int, opts BatchOptions) ([]string, error) {
	trees, err := GenerateTrees(ctx, table, n, opts)
	if err != nil {
		return nil, err
	}

	phrases := make([]string, len(trees))
	for i, tree := range trees {
		phrases[i] = tree.Value
	}
	return phrases, nil
}

// GenerateTrees produces n derivations from table. Phrase i is always produced
// by worker i%Workers, so a fixed seed and worker count give the same output
// on every run. The first failure stops the remaining workers.
func GenerateTrees(ctx context.Context, table *grammar.RuleTable, n int, opts BatchOptions) ([]*DerivationTree, error) {
	if n < 0 {
		return nil, fmt.Errorf("invalid phrase count %d", n)
	}

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > n {
		workers = n
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	trees := make([]*DerivationTree, n)
	g, ctx := errgroup.WithContext(ctx)

	for w := 0; w < workers; w++ {
		// Seed is appended last so it overrides any source in opts.Options
		genOpts := append(append([]Option{}, opts.Options...), WithSeed(seed+int64(w)))
		gen := New(table, genOpts...)

		g.Go(func() error {
			for i := w; i < n; i += workers {
				if err := ctx.Err(); err != nil {
					return err
				}
				tree, err := gen.Derive()
				if err != nil {
					return fmt.Errorf("phrase %d: %w", i+1, err)
				}
				trees[i] = tree
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return trees, nil
}
