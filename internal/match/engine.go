package match

import (
	"context"
	"fmt"
	"iter"
	"slices"

	"go.uber.org/zap"

	"leadhub-engine/internal/domain"
)

// Match filters candidates against req and returns the newest MaxResults
// survivors. Candidates are read once and never modified.
func Match(req domain.BuyerRequirement, candidates iter.Seq[domain.Listing]) []domain.Listing {
	return NewPlan(req).Apply(candidates)
}

// Apply runs the plan over candidates: filter, stable sort by created_at
// descending, cap.
func (p Plan) Apply(candidates iter.Seq[domain.Listing]) []domain.Listing {
	out := []domain.Listing{}
	for l := range candidates {
		if p.Keep(&l) {
			out = append(out, l)
		}
	}
	slices.SortStableFunc(out, func(a, b domain.Listing) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if len(out) > MaxResults {
		out = out[:MaxResults]
	}
	return out
}

// Source hands the engine its candidates. Stores may use plan.Pushdown to
// narrow the read; whatever they return is filtered again in full.
type Source interface {
	MatchCandidates(ctx context.Context, plan Plan) ([]domain.Listing, error)
}

type Engine struct {
	src Source
	log *zap.Logger
}

func NewEngine(src Source, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{src: src, log: log}
}

// Run matches req against the source with a single read.
func (e *Engine) Run(ctx context.Context, req domain.BuyerRequirement) ([]domain.Listing, error) {
	plan := NewPlan(req)
	candidates, err := e.src.MatchCandidates(ctx, plan)
	if err != nil {
		return nil, fmt.Errorf("load match candidates: %w", err)
	}
	out := plan.Apply(slices.Values(candidates))
	e.log.Debug("match",
		zap.Strings("predicates", plan.Active()),
		zap.Int("candidates", len(candidates)),
		zap.Int("matches", len(out)),
	)
	return out, nil
}
