package cli

import (
	"strconv"
	"strings"
	"time"

	"github.com/mfilipelino/aws-tools/internal/core/domain"
)

var sizeSuffixes = []struct {
	suffix     string
	multiplier int64
}{
	{"TB", 1 << 40},
	{"GB", 1 << 30},
	{"MB", 1 << 20},
	{"KB", 1 << 10},
	{"B", 1},
}

// parseSize parses a human size like "1MB", "500KB" or "1.5GB" into bytes.
// A bare number is taken as bytes.
func parseSize(s string) (int64, error) {
	upper := strings.ToUpper(strings.TrimSpace(s))
	for _, entry := range sizeSuffixes {
		if !strings.HasSuffix(upper, entry.suffix) {
			continue
		}
		number := strings.TrimSpace(strings.TrimSuffix(upper, entry.suffix))
		value, err := strconv.ParseFloat(number, 64)
		if err != nil {
			return 0, domain.NewConfigError("size", "cannot parse %q", s)
		}
		return int64(value * float64(entry.multiplier)), nil
	}

	value, err := strconv.ParseInt(upper, 10, 64)
	if err != nil {
		return 0, domain.NewConfigError("size", "cannot parse %q", s)
	}
	return value, nil
}

// parseTimePoint parses a time expression: either a relative form like
// "2 days ago" / "1 hour ago", or an ISO-8601 date or timestamp. The result
// is always in UTC.
func parseTimePoint(s string, now func() time.Time) (time.Time, error) {
	parts := strings.Fields(strings.ToLower(strings.TrimSpace(s)))
	if len(parts) == 3 && parts[2] == "ago" {
		amount, err := strconv.Atoi(parts[0])
		if err != nil {
			return time.Time{}, domain.NewConfigError("time", "cannot parse amount in %q", s)
		}
		unit := strings.TrimSuffix(parts[1], "s")
		var delta time.Duration
		switch unit {
		case "minute":
			delta = time.Minute
		case "hour":
			delta = time.Hour
		case "day":
			delta = 24 * time.Hour
		case "week":
			delta = 7 * 24 * time.Hour
		default:
			return time.Time{}, domain.NewConfigError("time", "unknown unit %q in %q", unit, s)
		}
		return now().UTC().Add(-time.Duration(amount) * delta), nil
	}

	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, strings.TrimSpace(s)); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, domain.NewConfigError("time", "cannot parse %q (expected e.g. \"2 days ago\" or 2024-01-01)", s)
}

// parseTagArgs parses repeated --tag Key=Value flags. A malformed expression
// is a config error, not a silent skip.
func parseTagArgs(args []string) (map[string]string, error) {
	if len(args) == 0 {
		return nil, nil
	}
	tags := make(map[string]string, len(args))
	for _, arg := range args {
		key, value, found := strings.Cut(arg, "=")
		if !found || strings.TrimSpace(key) == "" {
			return nil, domain.NewConfigError("tag", "malformed tag %q, expected Key=Value", arg)
		}
		tags[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return tags, nil
}

// parseStatusList parses a comma-separated status filter.
func parseStatusList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	statuses := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			statuses = append(statuses, trimmed)
		}
	}
	return statuses
}
