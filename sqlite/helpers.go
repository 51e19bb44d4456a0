package sqlite

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// appendPagination appends LIMIT and OFFSET clauses to a query builder if values are > 0.
// SQLite requires a LIMIT before OFFSET, so an offset alone uses LIMIT -1.
func appendPagination(query *strings.Builder, args *[]any, limit, offset int) {
	if limit > 0 {
		query.WriteString(" LIMIT ?")
		*args = append(*args, limit)
	} else if offset > 0 {
		query.WriteString(" LIMIT -1")
	}
	if offset > 0 {
		query.WriteString(" OFFSET ?")
		*args = append(*args, offset)
	}
}

// encodeList stores a list column as JSON. Nil lists encode as "[]".
func encodeList[T any](list []T) (string, error) {
	if len(list) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(list)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// decodeList reads a JSON list column. Empty lists decode as nil.
func decodeList[T any](value, fieldName string) ([]T, error) {
	var list []T
	if err := json.Unmarshal([]byte(value), &list); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", fieldName, err)
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list, nil
}

// unixNano converts a stored nanosecond timestamp to UTC time.
func unixNano(v int64) time.Time {
	if v == 0 {
		return time.Time{}
	}
	return time.Unix(0, v).UTC()
}
