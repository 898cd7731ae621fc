package normalization

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// AsString trims and returns the string representation of value when possible.
func AsString(value any) string {
	if s, ok := value.(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

// AsIdentity renders server identifiers (numeric or textual) as strings.
func AsIdentity(value any) string {
	switch typed := value.(type) {
	case string:
		return strings.TrimSpace(typed)
	case float64:
		return strconv.FormatInt(int64(typed), 10)
	case json.Number:
		return typed.String()
	case int:
		return strconv.Itoa(typed)
	case int64:
		return strconv.FormatInt(typed, 10)
	default:
		return ""
	}
}

// AsInt64 coerces numeric values supported by the REST layer into Go ints.
func AsInt64(value any) int64 {
	switch typed := value.(type) {
	case float64:
		return int64(typed)
	case float32:
		return int64(typed)
	case int:
		return int64(typed)
	case int32:
		return int64(typed)
	case int64:
		return typed
	case json.Number:
		parsed, _ := typed.Int64()
		return parsed
	case string:
		parsed, _ := strconv.ParseInt(strings.TrimSpace(typed), 10, 64)
		return parsed
	default:
		return 0
	}
}

// AsOptionalInt64 is AsInt64 that keeps JSON null (and missing) as nil.
func AsOptionalInt64(value any) *int64 {
	if value == nil {
		return nil
	}
	if s, ok := value.(string); ok && strings.TrimSpace(s) == "" {
		return nil
	}
	parsed := AsInt64(value)
	return &parsed
}

// AsBool accepts JSON booleans and the usual textual spellings.
func AsBool(value any) bool {
	switch typed := value.(type) {
	case bool:
		return typed
	case string:
		parsed, _ := strconv.ParseBool(strings.TrimSpace(typed))
		return parsed
	case float64:
		return typed != 0
	default:
		return false
	}
}

// AsOptionalDecimal coerces numbers and numeric strings into a decimal, keeping
// absent values as nil.
func AsOptionalDecimal(value any) *decimal.Decimal {
	switch typed := value.(type) {
	case float64:
		d := decimal.NewFromFloat(typed)
		return &d
	case json.Number:
		if d, err := decimal.NewFromString(typed.String()); err == nil {
			return &d
		}
	case int:
		d := decimal.NewFromInt(int64(typed))
		return &d
	case int64:
		d := decimal.NewFromInt(typed)
		return &d
	case string:
		if trimmed := strings.TrimSpace(typed); trimmed != "" {
			if d, err := decimal.NewFromString(trimmed); err == nil {
				return &d
			}
		}
	}
	return nil
}

// AsOptionalTime parses ISO dates ("2006-01-02") and RFC3339 timestamps, with or
// without a zone. Dates serialized as [year, month, day, hour, minute, second,
// nanos] arrays are accepted too; trailing parts are optional.
func AsOptionalTime(value any) *time.Time {
	if parts, ok := value.([]any); ok {
		return timeFromParts(parts)
	}
	raw := AsString(value)
	if raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999", "2006-01-02T15:04:05", "2006-01-02"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return &parsed
		}
	}
	return nil
}

func timeFromParts(parts []any) *time.Time {
	if len(parts) < 3 || len(parts) > 7 {
		return nil
	}
	fields := [7]int{}
	for i, part := range parts {
		fields[i] = int(AsInt64(part))
	}
	year, month, day := fields[0], fields[1], fields[2]
	if year <= 0 || month < 1 || month > 12 || day < 1 {
		return nil
	}
	parsed := time.Date(year, time.Month(month), day, fields[3], fields[4], fields[5], fields[6], time.UTC)
	if parsed.Day() != day || parsed.Hour() != fields[3] || parsed.Minute() != fields[4] || parsed.Second() != fields[5] {
		return nil
	}
	return &parsed
}

// AsInterfaceSlice normalizes different collection types into a []any.
func AsInterfaceSlice(value any) []any {
	switch typed := value.(type) {
	case []any:
		return typed
	case []map[string]any:
		items := make([]any, 0, len(typed))
		for _, entry := range typed {
			items = append(items, entry)
		}
		return items
	default:
		return nil
	}
}

// MapFromPayload unwraps the common {"data": {...}} envelope into a plain map.
func MapFromPayload(value any) map[string]any {
	if value == nil {
		return nil
	}
	if typed, ok := value.(map[string]any); ok {
		if data, ok := typed["data"].(map[string]any); ok {
			return data
		}
		return typed
	}
	return nil
}
