// Package scan implements the generic discovery pipeline: a pull-based page
// source over remote list APIs, composable filter predicates, optional
// per-record enrichment, and a bounded-count limiter. Remote calls are
// blocking and sequential; at most one call is in flight at a time.
package scan

import (
	"context"
	"fmt"

	"github.com/mfilipelino/aws-tools/internal/core/domain"
)

// PageFunc issues one remote list call. It receives the continuation cursor
// from the previous call ("" on the first call) and returns one batch of
// shaped records plus the next cursor, or "" when the listing is exhausted.
type PageFunc func(ctx context.Context, cursor string) (records []domain.Record, next string, err error)

// Pager is a lazy, finite, non-restartable sequence of record batches over a
// paginated list operation. It holds at most one outstanding cursor and never
// retries; a failed pull propagates to the caller and ends the sequence.
type Pager struct {
	fn     PageFunc
	cursor string
	opened bool
	done   bool
	pulls  int
}

// NewPager wraps a list operation in a pager.
func NewPager(fn PageFunc) *Pager {
	return &Pager{fn: fn}
}

// Next pulls one page. ok is false once the source is exhausted. After an
// error or exhaustion the pager stays terminated.
func (p *Pager) Next(ctx context.Context) (records []domain.Record, ok bool, err error) {
	if p.done {
		return nil, false, nil
	}
	if p.opened && p.cursor == "" {
		p.done = true
		return nil, false, nil
	}

	records, next, err := p.fn(ctx, p.cursor)
	p.pulls++
	if err != nil {
		p.done = true
		return nil, false, fmt.Errorf("list page %d: %w", p.pulls, err)
	}

	p.opened = true
	p.cursor = next
	return records, true, nil
}

// Pulls reports how many remote calls have been issued.
func (p *Pager) Pulls() int {
	return p.pulls
}
