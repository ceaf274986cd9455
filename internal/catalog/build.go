package catalog

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/mesh-intelligence/xcube/pkg/types"
)

// DefaultConcurrency bounds parallel lookups when none is configured. The
// card API rate-limits aggressively, so it stays low.
const DefaultConcurrency = 4

// BuildCube resolves every entry of raw with at most concurrency lookups in
// flight and counts duplicates. Cube order follows the scraped order. The
// first failing entry cancels the rest.
func BuildCube(ctx context.Context, raw *types.RawCube, mapper *Mapper, concurrency int) (*types.Cube, error) {
	if raw.Len() == 0 {
		return nil, types.ErrNoEntries
	}
	if concurrency < 1 {
		concurrency = 1
	}

	resolved := make([]types.Entry, raw.Len())

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, entry := range raw.Entries {
		g.Go(func() error {
			e, err := mapper.Map(gctx, entry)
			if err != nil {
				return fmt.Errorf("map %q: %w", entry.Name, err)
			}
			resolved[i] = e
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	cube := types.NewCube(raw.Name, raw.Date, raw.Author)
	for _, e := range resolved {
		cube.Add(e)
	}
	return cube, nil
}
