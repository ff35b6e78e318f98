package validation

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Request pairs a context with the brand name of its plan.
type Request struct {
	Context   Context `json:"context" validate:"required"`
	BrandName string  `json:"brandName,omitempty"`
}

// ValidateBatch validates reqs with at most limit concurrent workers
// (limit <= 0 means unbounded). Results are in input order. It returns
// ctx.Err() when ctx is cancelled before every item ran.
func (v *Validator) ValidateBatch(ctx context.Context, reqs []Request, limit int) ([]Result, error) {
	out := make([]Result, len(reqs))
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i := range reqs {
		if err := gctx.Err(); err != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = v.Validate(reqs[i].Context, reqs[i].BrandName)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
