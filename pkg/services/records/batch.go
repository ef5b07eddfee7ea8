package records

import (
	"context"
	"errors"

	"github.com/de-tools/patient-reports/pkg/store/documents"
	"golang.org/x/sync/errgroup"
)

// fanOut runs fetch for every id with at most limit calls in flight and
// waits for all of them. The first failure cancels the rest and is returned.
// A documents.ErrNotFound result maps the id to the zero value.
func fanOut[T any](ctx context.Context, limit int, ids []string, fetch func(context.Context, string) (T, error)) (map[string]T, error) {
	results := make([]T, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, id := range ids {
		g.Go(func() error {
			v, err := fetch(gctx, id)
			if errors.Is(err, documents.ErrNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			results[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]T, len(ids))
	for i, id := range ids {
		out[id] = results[i]
	}
	return out, nil
}

func distinct(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
