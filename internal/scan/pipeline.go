package scan

import (
	"context"
	"log/slog"

	"github.com/mfilipelino/aws-tools/internal/core/domain"
)

// TagFetcher looks up the tag map for one record. Failures are per-record
// and never abort the scan.
type TagFetcher func(ctx context.Context, rec domain.Record) (map[string]string, error)

// Enricher performs a per-record secondary lookup (a describe call) and
// returns an enriched copy of the record. It must not mutate its input.
type Enricher func(ctx context.Context, rec domain.Record) (domain.Record, error)

// EnrichmentErrorField marks a yielded record whose verbose-only enrichment
// failed; its value is the failure description.
const EnrichmentErrorField = "enrichment_error"

// Options configures a Scanner.
type Options struct {
	// Filter is the predicate set; nil accepts everything.
	Filter *Filter

	// Tags fetches a record's tag map; required when Filter has tag
	// predicates.
	Tags TagFetcher

	// Enrich performs the optional detail lookup. Set it only when an
	// active predicate or verbose output needs fields absent from the
	// list call.
	Enrich Enricher

	// Limit stops the scan after this many records have been yielded;
	// 0 means unlimited. The limit short-circuits page pulls.
	Limit int

	// Logger receives per-record warnings. Defaults to slog.Default().
	Logger *slog.Logger
}

// Scanner drives the discovery pipeline: pull pages, apply cheap predicates,
// fetch tags and enrichment where required, apply remaining predicates, and
// yield records up to the limit. Usage follows bufio.Scanner:
//
//	for sc.Scan(ctx) {
//	    rec := sc.Record()
//	    ...
//	}
//	if err := sc.Err(); err != nil { ... }
type Scanner struct {
	pager   *Pager
	opts    Options
	buf     []domain.Record
	rec     domain.Record
	yielded int
	err     error
	done    bool
}

// NewScanner builds a scanner over a pager.
func NewScanner(pager *Pager, opts Options) *Scanner {
	if opts.Filter == nil {
		opts.Filter = &Filter{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Scanner{pager: pager, opts: opts}
}

// Scan advances to the next matching record. It returns false when the
// source is exhausted, the limit is reached, or a page pull failed; check
// Err afterwards.
func (s *Scanner) Scan(ctx context.Context) bool {
	if s.done || s.err != nil {
		return false
	}
	if s.opts.Limit > 0 && s.yielded >= s.opts.Limit {
		s.done = true
		return false
	}

	for {
		for len(s.buf) > 0 {
			rec := s.buf[0]
			s.buf = s.buf[1:]

			out, ok := s.process(ctx, rec)
			if !ok {
				continue
			}
			s.rec = out
			s.yielded++
			return true
		}

		page, ok, err := s.pager.Next(ctx)
		if err != nil {
			s.err = err
			s.done = true
			return false
		}
		if !ok {
			s.done = true
			return false
		}
		s.buf = page
	}
}

// Record returns the record produced by the last successful Scan.
func (s *Scanner) Record() domain.Record {
	return s.rec
}

// Err returns the error that terminated the scan, if any. Per-record
// enrichment and tag-fetch failures are not errors here; they are warnings.
func (s *Scanner) Err() error {
	return s.err
}

// process runs one record through the predicate and enrichment stages.
func (s *Scanner) process(ctx context.Context, rec domain.Record) (domain.Record, bool) {
	filter := s.opts.Filter

	if !filter.MatchCheap(rec) {
		return domain.Record{}, false
	}

	if filter.NeedsTags() {
		tags, err := s.opts.Tags(ctx, rec)
		if err != nil {
			// Excluded because the tags could not be checked, not
			// because they mismatched.
			s.opts.Logger.Warn("tag fetch failed, excluding resource whose tags could not be checked",
				"resource", resourceName(rec), "error", err)
			return domain.Record{}, false
		}
		if !filter.MatchTags(tags) {
			return domain.Record{}, false
		}
	}

	if s.opts.Enrich != nil {
		enriched, err := s.opts.Enrich(ctx, rec)
		if err != nil {
			if filter.NeedsEnrichment() {
				s.opts.Logger.Warn("enrichment failed, excluding record from filtered results",
					"resource", resourceName(rec), "error", err)
				return domain.Record{}, false
			}
			out := rec.Clone()
			out.Set(EnrichmentErrorField, err.Error())
			return out, true
		}
		rec = enriched
	}

	if !filter.MatchPost(rec) {
		return domain.Record{}, false
	}
	return rec, true
}

// resourceName picks a human identifier for warnings.
func resourceName(rec domain.Record) string {
	for _, field := range []string{"name", "key", "stack_name", "table", "arn"} {
		if v := rec.GetString(field); v != "" {
			return v
		}
	}
	if rec.Len() > 0 {
		if s, ok := rec.Fields()[0].Value.(string); ok {
			return s
		}
	}
	return "<unknown>"
}
