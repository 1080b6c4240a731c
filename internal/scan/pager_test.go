package scan

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfilipelino/aws-tools/internal/core/domain"
)

func namedRecord(name string) domain.Record {
	return domain.NewRecord(domain.Field{Name: "name", Value: name})
}

// pageSource fakes a paginated list API with a fixed set of pages.
type pageSource struct {
	pages   [][]domain.Record
	cursors []string // cursor expected on each call
	calls   int
	failOn  int // 1-based call number that fails, 0 = never
}

func (s *pageSource) fn(_ context.Context, cursor string) ([]domain.Record, string, error) {
	call := s.calls
	s.calls++
	if s.failOn > 0 && s.calls == s.failOn {
		return nil, "", errors.New("throttled")
	}
	if s.cursors != nil && s.cursors[call] != cursor {
		return nil, "", errors.New("unexpected cursor")
	}
	next := ""
	if call < len(s.pages)-1 {
		next = "page-" + string(rune('1'+call))
	}
	return s.pages[call], next, nil
}

func TestPagerPassesCursorsThrough(t *testing.T) {
	src := &pageSource{
		pages: [][]domain.Record{
			{namedRecord("a")},
			{namedRecord("b")},
			{namedRecord("c")},
		},
		cursors: []string{"", "page-1", "page-2"},
	}
	pager := NewPager(src.fn)
	ctx := context.Background()

	var names []string
	for {
		page, ok, err := pager.Next(ctx)
		require.NoError(t, err)
		if !ok {
			break
		}
		for _, rec := range page {
			names = append(names, rec.GetString("name"))
		}
	}

	assert.Equal(t, []string{"a", "b", "c"}, names)
	assert.Equal(t, 3, pager.Pulls())

	// Exhausted pager stays exhausted.
	_, ok, err := pager.Next(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 3, pager.Pulls())
}

func TestPagerPropagatesTransportError(t *testing.T) {
	src := &pageSource{
		pages:  [][]domain.Record{{namedRecord("a")}, nil},
		failOn: 2,
	}
	pager := NewPager(src.fn)
	ctx := context.Background()

	_, ok, err := pager.Next(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = pager.Next(ctx)
	assert.False(t, ok)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")

	// A failed pager is terminated, no further remote calls.
	_, ok, err = pager.Next(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 2, src.calls)
}

func TestPagerSinglePage(t *testing.T) {
	src := &pageSource{pages: [][]domain.Record{{namedRecord("only")}}}
	pager := NewPager(src.fn)

	page, ok, err := pager.Next(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, page, 1)

	_, ok, err = pager.Next(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, src.calls)
}
