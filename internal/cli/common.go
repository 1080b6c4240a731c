package cli

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mfilipelino/aws-tools/internal/core/config"
	"github.com/mfilipelino/aws-tools/internal/core/domain"
	"github.com/mfilipelino/aws-tools/internal/output"
	"github.com/mfilipelino/aws-tools/internal/scan"
)

// commonOpts are the flags shared by every discovery command.
type commonOpts struct {
	profile      string
	region       string
	format       string
	limit        int
	outputFields string
	noHeader     bool
	verbose      bool
}

func addCommonFlags(cmd *cobra.Command, o *commonOpts) {
	cmd.Flags().StringVar(&o.profile, "profile", "", "AWS profile to use")
	cmd.Flags().StringVar(&o.region, "region", "", "AWS region")
	cmd.Flags().StringVar(&o.format, "format", "", "output format: jsonl, json, tsv, csv or table (default jsonl)")
	cmd.Flags().IntVar(&o.limit, "limit", 0, "maximum number of results")
	cmd.Flags().StringVar(&o.outputFields, "output-fields", "", "comma-separated list of fields to output")
	cmd.Flags().BoolVar(&o.noHeader, "no-header", false, "omit header row (for tsv/csv)")
	cmd.Flags().BoolVarP(&o.verbose, "verbose", "v", false, "include additional metadata")
}

// loadOpts loads the optional config file and fills in every common flag the
// user did not set explicitly. Flags beat config, config beats environment.
func loadOpts(cmd *cobra.Command, o *commonOpts) (*commonOpts, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	merged := *o
	if !cmd.Flags().Changed("profile") {
		merged.profile = cfg.AWS.Profile
	}
	if !cmd.Flags().Changed("region") {
		merged.region = cfg.AWS.Region
	}
	if !cmd.Flags().Changed("format") {
		merged.format = cfg.Output.Format
	}
	if !cmd.Flags().Changed("no-header") {
		merged.noHeader = cfg.Output.NoHeader
	}
	if merged.format == "" {
		merged.format = string(output.FormatJSONL)
	}
	return &merged, nil
}

// writeRecords renders a record sequence to stdout per the common flags.
func writeRecords(ctx context.Context, o *commonOpts, src output.Source) error {
	format, err := output.ParseFormat(o.format)
	if err != nil {
		return err
	}
	return output.Write(ctx, os.Stdout, format, src, output.Options{
		Fields:   splitFields(o.outputFields),
		NoHeader: o.noHeader,
	})
}

// newScanner builds the standard scanner over a page source.
func newScanner(o *commonOpts, pages scan.PageFunc, filter *scan.Filter, tags scan.TagFetcher, enrich scan.Enricher) *scan.Scanner {
	return scan.NewScanner(scan.NewPager(pages), scan.Options{
		Filter: filter,
		Tags:   tags,
		Enrich: enrich,
		Limit:  o.limit,
		Logger: slog.Default(),
	})
}

// runScan streams a scanned page source out in the selected format.
func runScan(ctx context.Context, o *commonOpts, pages scan.PageFunc, filter *scan.Filter, tags scan.TagFetcher, enrich scan.Enricher) error {
	return writeRecords(ctx, o, newScanner(o, pages, filter, tags, enrich))
}

// chainSource concatenates several record sequences and enforces one global
// limit across them, on top of each inner scanner's own short-circuit.
type chainSource struct {
	sources []output.Source
	limit   int
	idx     int
	yielded int
	err     error
}

func newChainSource(limit int, sources ...output.Source) *chainSource {
	return &chainSource{sources: sources, limit: limit}
}

func (c *chainSource) Scan(ctx context.Context) bool {
	if c.err != nil {
		return false
	}
	if c.limit > 0 && c.yielded >= c.limit {
		return false
	}
	for c.idx < len(c.sources) {
		if c.sources[c.idx].Scan(ctx) {
			c.yielded++
			return true
		}
		if err := c.sources[c.idx].Err(); err != nil {
			c.err = err
			return false
		}
		c.idx++
	}
	return false
}

func (c *chainSource) Record() domain.Record {
	return c.sources[c.idx].Record()
}

func (c *chainSource) Err() error {
	return c.err
}

// splitFields parses the --output-fields value; nil means all fields.
func splitFields(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	fields := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			fields = append(fields, trimmed)
		}
	}
	return fields
}
