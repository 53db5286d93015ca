package repository

import (
	"fmt"
	"strconv"
	"time"
)

// oxiTimeLayout is fixed-width so that string order matches time order.
const oxiTimeLayout = "2006-01-02T15:04:05.000Z"

// normalizeID converts the _id field from numeric (float64) to string
// since OxiDB returns auto-increment numeric IDs.
func normalizeID(doc map[string]any) {
	if id, ok := doc["_id"]; ok {
		switch v := id.(type) {
		case float64:
			doc["_id"] = strconv.FormatFloat(v, 'f', 0, 64)
		case int:
			doc["_id"] = strconv.Itoa(v)
		}
	}
}

// extractID gets the inserted document ID from an OxiDB insert response.
func extractID(result map[string]any) string {
	if id, ok := result["id"]; ok {
		switch v := id.(type) {
		case string:
			return v
		case float64:
			return strconv.FormatFloat(v, 'f', 0, 64)
		}
	}
	return ""
}

// toNumericID converts a string ID to float64 for OxiDB queries. Anything
// that is not a number is passed through and simply matches nothing.
func toNumericID(id string) any {
	if n, err := strconv.ParseFloat(id, 64); err == nil {
		return n
	}
	return id
}

func formatOxiTime(t time.Time) string {
	return t.UTC().Format(oxiTimeLayout)
}

func parseOxiTime(v any) (time.Time, error) {
	s, _ := v.(string)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", s, err)
	}
	return t, nil
}
