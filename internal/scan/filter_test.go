package scan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfilipelino/aws-tools/internal/core/domain"
)

func TestFilterEmptyAcceptsEverything(t *testing.T) {
	f, err := NewFilter()
	require.NoError(t, err)

	assert.True(t, f.MatchCheap(namedRecord("anything")))
	assert.False(t, f.NeedsTags())
	assert.False(t, f.NeedsEnrichment())
}

func TestFilterPrefix(t *testing.T) {
	tests := []struct {
		prefix string
		name   string
		want   bool
	}{
		{"ab", "abc", true},
		{"ab", "ab", true},
		{"ab", "ba", false},
		{"ab", "a", false},
		{"", "anything", true},
	}

	for _, tt := range tests {
		f, err := NewFilter(WithPrefix("name", tt.prefix))
		require.NoError(t, err)
		got := f.MatchCheap(namedRecord(tt.name))
		assert.Equal(t, tt.want, got, "prefix=%q name=%q", tt.prefix, tt.name)
	}
}

func TestFilterRegexIsUnanchored(t *testing.T) {
	f, err := NewFilter(WithRegex("name", "prod-.*-etl"))
	require.NoError(t, err)

	assert.True(t, f.MatchCheap(namedRecord("team-prod-daily-etl-v2")))
	assert.False(t, f.MatchCheap(namedRecord("staging-daily")))
}

func TestFilterRegexMalformed(t *testing.T) {
	_, err := NewFilter(WithRegex("name", "prod-(["))
	require.Error(t, err)

	var cfgErr *domain.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "regex", cfgErr.Field)
}

func TestFilterIntRangeInclusiveBounds(t *testing.T) {
	min := int64(10)
	max := int64(20)

	sized := func(n int64) domain.Record {
		return domain.NewRecord(domain.Field{Name: "size", Value: n})
	}

	f, err := NewFilter(WithIntRange("size", &min, &max))
	require.NoError(t, err)
	assert.True(t, f.MatchCheap(sized(10)))
	assert.True(t, f.MatchCheap(sized(20)))
	assert.False(t, f.MatchCheap(sized(9)))
	assert.False(t, f.MatchCheap(sized(21)))

	// Unbounded sides.
	f, err = NewFilter(WithIntRange("size", &min, nil))
	require.NoError(t, err)
	assert.True(t, f.MatchCheap(sized(1<<40)))
	assert.False(t, f.MatchCheap(sized(9)))
}

func TestFilterTimeRangeUsesUTC(t *testing.T) {
	after := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	est := time.FixedZone("EST", -5*3600)

	stamped := func(ts time.Time) domain.Record {
		return domain.NewRecord(domain.Field{Name: "last_modified", Value: ts})
	}

	f, err := NewFilter(WithTimeRange("last_modified", &after, nil))
	require.NoError(t, err)

	// 2023-12-31 20:00 EST is 2024-01-01 01:00 UTC, inside the range.
	assert.True(t, f.MatchCheap(stamped(time.Date(2023, 12, 31, 20, 0, 0, 0, est))))
	assert.False(t, f.MatchCheap(stamped(time.Date(2023, 12, 31, 18, 0, 0, 0, est))))
	// Inclusive lower bound.
	assert.True(t, f.MatchCheap(stamped(after)))
}

func TestFilterTags(t *testing.T) {
	f, err := NewFilter(WithTags(map[string]string{"Environment": "prod", "Team": "data"}))
	require.NoError(t, err)
	require.True(t, f.NeedsTags())

	assert.True(t, f.MatchTags(map[string]string{"Environment": "prod", "Team": "data", "Extra": "x"}))
	assert.False(t, f.MatchTags(map[string]string{"Environment": "prod"}))
	assert.False(t, f.MatchTags(map[string]string{"Environment": "staging", "Team": "data"}))
}

// Adding predicates never increases the number of matching records.
func TestFilterMonotonicity(t *testing.T) {
	records := []domain.Record{
		namedRecord("app-prod-1"),
		namedRecord("app-prod-2"),
		namedRecord("app-staging-1"),
		namedRecord("worker-prod-1"),
	}

	count := func(f *Filter) int {
		n := 0
		for _, rec := range records {
			if f.MatchCheap(rec) {
				n++
			}
		}
		return n
	}

	base, err := NewFilter()
	require.NoError(t, err)
	withPrefix, err := NewFilter(WithPrefix("name", "app-"))
	require.NoError(t, err)
	withBoth, err := NewFilter(WithPrefix("name", "app-"), WithRegex("name", "prod"))
	require.NoError(t, err)

	assert.GreaterOrEqual(t, count(base), count(withPrefix))
	assert.GreaterOrEqual(t, count(withPrefix), count(withBoth))
}
