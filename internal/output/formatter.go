// Package output renders record sequences as line-delimited JSON, a JSON
// array, delimited text, or a human table. All formats are equivalent views
// of the same sequence: record order and field values are preserved exactly,
// with timestamps rendered as ISO-8601 in UTC.
package output

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/mfilipelino/aws-tools/internal/core/domain"
)

// Format selects an output rendering.
type Format string

const (
	FormatJSONL Format = "jsonl"
	FormatJSON  Format = "json"
	FormatTSV   Format = "tsv"
	FormatCSV   Format = "csv"
	FormatTable Format = "table"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSONL, FormatJSON, FormatTSV, FormatCSV, FormatTable:
		return Format(s), nil
	}
	return "", domain.NewConfigError("format", "unknown format %q (expected jsonl, json, tsv, csv or table)", s)
}

// Source is a pull-based record sequence; scan.Scanner satisfies it.
type Source interface {
	Scan(ctx context.Context) bool
	Record() domain.Record
	Err() error
}

// SliceSource adapts an in-memory record slice to Source.
type SliceSource struct {
	records []domain.Record
	idx     int
}

// NewSliceSource wraps records in a Source.
func NewSliceSource(records []domain.Record) *SliceSource {
	return &SliceSource{records: records}
}

func (s *SliceSource) Scan(context.Context) bool {
	if s.idx >= len(s.records) {
		return false
	}
	s.idx++
	return true
}

func (s *SliceSource) Record() domain.Record { return s.records[s.idx-1] }
func (s *SliceSource) Err() error            { return nil }

// Options control field projection and headers.
type Options struct {
	// Fields projects the output to these fields in this order; nil keeps
	// each record's own fields.
	Fields []string

	// NoHeader omits the header row for tsv and csv.
	NoHeader bool
}

// Write drains the source into w using the given format. jsonl, tsv and csv
// stream record by record; json and table buffer the full sequence.
func Write(ctx context.Context, w io.Writer, format Format, src Source, opts Options) error {
	var err error
	switch format {
	case FormatJSONL:
		err = writeJSONL(ctx, w, src, opts)
	case FormatJSON:
		err = writeJSON(ctx, w, src, opts)
	case FormatTSV:
		err = writeDelimited(ctx, w, src, opts, '\t')
	case FormatCSV:
		err = writeDelimited(ctx, w, src, opts, ',')
	case FormatTable:
		err = writeTable(ctx, w, src, opts)
	default:
		return domain.NewConfigError("format", "unknown format %q", string(format))
	}
	if err != nil {
		return err
	}
	return src.Err()
}

func project(rec domain.Record, fields []string) domain.Record {
	if fields == nil {
		return rec
	}
	out := domain.NewRecord()
	for _, name := range fields {
		v, _ := rec.Get(name)
		out.Set(name, v)
	}
	return out
}

func writeJSONL(ctx context.Context, w io.Writer, src Source, opts Options) error {
	enc := json.NewEncoder(w)
	for src.Scan(ctx) {
		if err := enc.Encode(project(src.Record(), opts.Fields)); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(ctx context.Context, w io.Writer, src Source, opts Options) error {
	records := []domain.Record{}
	for src.Scan(ctx) {
		records = append(records, project(src.Record(), opts.Fields))
	}
	if err := src.Err(); err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

func writeDelimited(ctx context.Context, w io.Writer, src Source, opts Options, sep rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = sep
	defer cw.Flush()

	fields := opts.Fields
	first := true
	for src.Scan(ctx) {
		rec := src.Record()
		if first {
			if fields == nil {
				fields = rec.Names()
			}
			if !opts.NoHeader {
				if err := cw.Write(fields); err != nil {
					return err
				}
			}
			first = false
		}
		row := make([]string, len(fields))
		for i, name := range fields {
			v, _ := rec.Get(name)
			row[i] = formatValue(v)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func writeTable(ctx context.Context, w io.Writer, src Source, opts Options) error {
	records := []domain.Record{}
	for src.Scan(ctx) {
		records = append(records, src.Record())
	}
	if err := src.Err(); err != nil {
		return err
	}
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No items found.")
		return err
	}

	fields := opts.Fields
	if fields == nil {
		fields = records[0].Names()
	}

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	for i, name := range fields {
		if i > 0 {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, name)
	}
	fmt.Fprintln(tw)

	for _, rec := range records {
		for i, name := range fields {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			v, _ := rec.Get(name)
			fmt.Fprint(tw, formatValue(v))
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

// formatValue stringifies a field value for delimited and table output.
func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case time.Time:
		return x.UTC().Format(time.RFC3339)
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		data, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprintf("%v", x)
		}
		return string(data)
	}
}
