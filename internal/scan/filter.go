package scan

import (
	"regexp"
	"strings"
	"time"

	"github.com/mfilipelino/aws-tools/internal/core/domain"
)

// Predicate is a pure boolean test over a shaped record.
type Predicate func(domain.Record) bool

// Filter is an immutable, ANDed set of predicates. Cheap field-only
// predicates (prefix, regex, numeric/time range) run against the raw record;
// tag predicates run against a fetched tag map; post predicates run against
// the enriched record. An empty filter accepts everything.
type Filter struct {
	cheap []Predicate
	tags  map[string]string
	post  []Predicate
}

// FilterOption configures a Filter.
type FilterOption func(*Filter) error

// NewFilter builds a filter from options, failing fast on malformed input
// before any remote call is issued.
func NewFilter(opts ...FilterOption) (*Filter, error) {
	f := &Filter{}
	for _, opt := range opts {
		if err := opt(f); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// WithPrefix matches records whose named field starts with prefix. An empty
// prefix matches everything.
func WithPrefix(field, prefix string) FilterOption {
	return func(f *Filter) error {
		if prefix == "" {
			return nil
		}
		f.cheap = append(f.cheap, func(rec domain.Record) bool {
			return strings.HasPrefix(rec.GetString(field), prefix)
		})
		return nil
	}
}

// WithRegex matches records whose named field contains a match for expr.
// The search is unanchored. A malformed expression is a config error.
func WithRegex(field, expr string) FilterOption {
	return func(f *Filter) error {
		if expr == "" {
			return nil
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return domain.NewConfigError("regex", "%v", err)
		}
		f.cheap = append(f.cheap, func(rec domain.Record) bool {
			return re.MatchString(rec.GetString(field))
		})
		return nil
	}
}

// WithIntRange matches records whose named numeric field falls within
// [min, max]. Bounds are inclusive; a nil bound is unbounded on that side.
func WithIntRange(field string, min, max *int64) FilterOption {
	return func(f *Filter) error {
		if min == nil && max == nil {
			return nil
		}
		f.cheap = append(f.cheap, func(rec domain.Record) bool {
			v := rec.GetInt(field)
			if min != nil && v < *min {
				return false
			}
			if max != nil && v > *max {
				return false
			}
			return true
		})
		return nil
	}
}

// WithTimeRange matches records whose named timestamp field falls within
// [after, before]. Bounds are inclusive; a nil bound is unbounded on that
// side. All comparisons are in UTC: sources shape timestamps to UTC and the
// bounds are converted here, so mixed-zone comparisons cannot occur.
func WithTimeRange(field string, after, before *time.Time) FilterOption {
	return func(f *Filter) error {
		if after == nil && before == nil {
			return nil
		}
		var lo, hi time.Time
		if after != nil {
			lo = after.UTC()
		}
		if before != nil {
			hi = before.UTC()
		}
		f.cheap = append(f.cheap, func(rec domain.Record) bool {
			v := rec.GetTime(field).UTC()
			if after != nil && v.Before(lo) {
				return false
			}
			if before != nil && v.After(hi) {
				return false
			}
			return true
		})
		return nil
	}
}

// WithTags requires every given key to be present in the resource's fetched
// tag map with an exactly equal value. Tag predicates are evaluated after
// cheap predicates since they need a per-record remote lookup.
func WithTags(tags map[string]string) FilterOption {
	return func(f *Filter) error {
		if len(tags) == 0 {
			return nil
		}
		if f.tags == nil {
			f.tags = make(map[string]string, len(tags))
		}
		for k, v := range tags {
			f.tags[k] = v
		}
		return nil
	}
}

// WithPost adds a predicate over the enriched record. Post predicates force
// enrichment and run last.
func WithPost(p Predicate) FilterOption {
	return func(f *Filter) error {
		f.post = append(f.post, p)
		return nil
	}
}

// MatchCheap evaluates the field-only predicates.
func (f *Filter) MatchCheap(rec domain.Record) bool {
	for _, p := range f.cheap {
		if !p(rec) {
			return false
		}
	}
	return true
}

// NeedsTags reports whether a tag map must be fetched per record.
func (f *Filter) NeedsTags() bool {
	return len(f.tags) > 0
}

// MatchTags evaluates the tag-equality predicates against a fetched tag map.
func (f *Filter) MatchTags(tags map[string]string) bool {
	for k, want := range f.tags {
		if got, ok := tags[k]; !ok || got != want {
			return false
		}
	}
	return true
}

// NeedsEnrichment reports whether any predicate requires the enriched record.
func (f *Filter) NeedsEnrichment() bool {
	return len(f.post) > 0
}

// MatchPost evaluates the enrichment-dependent predicates.
func (f *Filter) MatchPost(rec domain.Record) bool {
	for _, p := range f.post {
		if !p(rec) {
			return false
		}
	}
	return true
}
