package output

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfilipelino/aws-tools/internal/core/domain"
)

func sampleRecords() []domain.Record {
	ts := time.Date(2024, 6, 15, 8, 0, 0, 0, time.UTC)
	return []domain.Record{
		domain.NewRecord(
			domain.Field{Name: "key", Value: "logs/a.log"},
			domain.Field{Name: "size", Value: int64(100)},
			domain.Field{Name: "last_modified", Value: ts},
		),
		domain.NewRecord(
			domain.Field{Name: "key", Value: "logs/b.log"},
			domain.Field{Name: "size", Value: int64(250)},
			domain.Field{Name: "last_modified", Value: ts.Add(time.Hour)},
		),
	}
}

func render(t *testing.T, format Format, opts Options) string {
	t.Helper()
	var buf bytes.Buffer
	err := Write(context.Background(), &buf, format, NewSliceSource(sampleRecords()), opts)
	require.NoError(t, err)
	return buf.String()
}

func TestParseFormat(t *testing.T) {
	for _, name := range []string{"jsonl", "json", "tsv", "csv", "table"} {
		f, err := ParseFormat(name)
		require.NoError(t, err)
		assert.Equal(t, Format(name), f)
	}

	_, err := ParseFormat("xml")
	var cfgErr *domain.ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestWriteJSONL(t *testing.T) {
	out := render(t, FormatJSONL, Options{})
	assert.Equal(t,
		`{"key":"logs/a.log","size":100,"last_modified":"2024-06-15T08:00:00Z"}
{"key":"logs/b.log","size":250,"last_modified":"2024-06-15T09:00:00Z"}
`, out)
}

func TestWriteJSONArray(t *testing.T) {
	out := render(t, FormatJSON, Options{})

	var parsed []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &parsed))
	require.Len(t, parsed, 2)
	assert.Equal(t, "logs/a.log", parsed[0]["key"])
	assert.Equal(t, "2024-06-15T09:00:00Z", parsed[1]["last_modified"])
}

func TestWriteCSVWithHeader(t *testing.T) {
	out := render(t, FormatCSV, Options{})
	assert.Equal(t,
		"key,size,last_modified\n"+
			"logs/a.log,100,2024-06-15T08:00:00Z\n"+
			"logs/b.log,250,2024-06-15T09:00:00Z\n", out)
}

func TestWriteTSVNoHeader(t *testing.T) {
	out := render(t, FormatTSV, Options{NoHeader: true})
	assert.Equal(t,
		"logs/a.log\t100\t2024-06-15T08:00:00Z\n"+
			"logs/b.log\t250\t2024-06-15T09:00:00Z\n", out)
}

func TestWriteFieldProjection(t *testing.T) {
	out := render(t, FormatCSV, Options{Fields: []string{"size", "key"}})
	assert.Equal(t,
		"size,key\n100,logs/a.log\n250,logs/b.log\n", out)
}

func TestWriteProjectionUnknownFieldIsEmpty(t *testing.T) {
	out := render(t, FormatCSV, Options{Fields: []string{"key", "owner"}, NoHeader: true})
	assert.Equal(t, "logs/a.log,\nlogs/b.log,\n", out)
}

func TestWriteTable(t *testing.T) {
	out := render(t, FormatTable, Options{})
	assert.Contains(t, out, "key")
	assert.Contains(t, out, "logs/a.log")
	assert.Contains(t, out, "2024-06-15T08:00:00Z")
}

func TestWriteTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	err := Write(context.Background(), &buf, FormatTable, NewSliceSource(nil), Options{})
	require.NoError(t, err)
	assert.Equal(t, "No items found.\n", buf.String())
}
