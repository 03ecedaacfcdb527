// Package pagination lists block summaries downwards from a height on the
// moving best-chain frontier.
package pagination

import (
	"context"
	"fmt"
	"sort"

	"github.com/goodnatureofminers/blockinsight7000-explorer/internal/utxo/model"
	"github.com/goodnatureofminers/blockinsight7000-explorer/pkg/workerpool"
)

const (
	// DefaultLimit is used when no positive limit is requested.
	DefaultLimit = 200
	// MaxLimit caps the number of summaries per page.
	MaxLimit = 1000
	// DefaultWorkers bounds concurrent summary fetches per page.
	DefaultWorkers = 16
)

// Paginator fetches pages of block summaries.
type Paginator struct {
	frontier  FrontierSource
	summaries SummarySource
	workers   int
}

// New creates a Paginator. A non-positive workers falls back to DefaultWorkers.
func New(frontier FrontierSource, summaries SummarySource, workers int) *Paginator {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Paginator{frontier: frontier, summaries: summaries, workers: workers}
}

// ListSummaries returns up to limit summaries from start downwards, newest
// first. A nil start begins at the current best block. Resolving the frontier
// and fetching the page are not atomic, so the frontier may move mid-request.
// Any failed fetch fails the whole page.
func (p *Paginator) ListSummaries(ctx context.Context, start *uint64, limit int) ([]model.BlockSummary, error) {
	var from uint64
	if start != nil {
		from = *start
	} else {
		best, err := p.bestHeight(ctx)
		if err != nil {
			return nil, err
		}
		from = best
	}

	heights := Heights(from, limit)
	if len(heights) == 0 {
		return []model.BlockSummary{}, nil
	}

	fetched, err := workerpool.Map(ctx, p.workers, heights, p.summaries.SummaryByHeight)
	if err != nil {
		return nil, err
	}

	summaries := make([]model.BlockSummary, 0, len(fetched))
	for _, s := range fetched {
		summaries = append(summaries, *s)
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Height > summaries[j].Height
	})
	return summaries, nil
}

func (p *Paginator) bestHeight(ctx context.Context) (uint64, error) {
	hash, err := p.frontier.BestBlockHash(ctx)
	if err != nil {
		return 0, fmt.Errorf("best block hash: %w", err)
	}
	header, err := p.frontier.BlockHeader(ctx, hash)
	if err != nil {
		return 0, fmt.Errorf("best block header %s: %w", hash, err)
	}
	return header.Height, nil
}

// Heights returns start, start-1, ... stopping after limit heights or before
// height 0. Genesis is never part of a page.
func Heights(start uint64, limit int) []uint64 {
	limit = ClampLimit(limit)
	heights := make([]uint64, 0, min(uint64(limit), start))
	for h := start; h >= 1 && len(heights) < limit; h-- {
		heights = append(heights, h)
	}
	return heights
}

// ClampLimit applies DefaultLimit and MaxLimit to a requested page size.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}
