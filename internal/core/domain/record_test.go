package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordFieldOrder(t *testing.T) {
	rec := NewRecord(
		Field{Name: "name", Value: "etl-daily"},
		Field{Name: "size", Value: int64(1024)},
		Field{Name: "status", Value: "SUCCEEDED"},
	)

	assert.Equal(t, []string{"name", "size", "status"}, rec.Names())

	rec.Set("status", "FAILED")
	rec.Set("region", "us-east-1")
	assert.Equal(t, []string{"name", "size", "status", "region"}, rec.Names())
	assert.Equal(t, "FAILED", rec.GetString("status"))
}

func TestRecordMarshalJSON(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	rec := NewRecord(
		Field{Name: "key", Value: "logs/2024/app.log"},
		Field{Name: "size", Value: int64(2048)},
		Field{Name: "last_modified", Value: created},
	)

	data, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.Equal(t,
		`{"key":"logs/2024/app.log","size":2048,"last_modified":"2024-03-01T12:30:00Z"}`,
		string(data))
}

func TestRecordCloneIsIndependent(t *testing.T) {
	rec := NewRecord(Field{Name: "name", Value: "stack-a"})
	clone := rec.Clone()
	clone.Set("name", "stack-b")
	clone.Set("tagged", true)

	assert.Equal(t, "stack-a", rec.GetString("name"))
	_, ok := rec.Get("tagged")
	assert.False(t, ok)
	assert.Equal(t, "stack-b", clone.GetString("name"))
}

func TestRecordGetHelpers(t *testing.T) {
	now := time.Now().UTC()
	rec := NewRecord(
		Field{Name: "count", Value: 7},
		Field{Name: "at", Value: now},
	)

	assert.Equal(t, int64(7), rec.GetInt("count"))
	assert.Equal(t, now, rec.GetTime("at"))
	assert.Equal(t, int64(0), rec.GetInt("missing"))
	assert.True(t, rec.GetTime("missing").IsZero())
}
