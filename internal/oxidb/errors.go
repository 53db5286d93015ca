package oxidb

import (
	"errors"
	"fmt"
	"strings"
)

// Error is returned when the OxiDB server returns an error response.
type Error struct {
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("oxidb: %s", e.Msg)
}

// TransactionConflictError is returned on OCC version conflict during commit.
type TransactionConflictError struct {
	Msg string
}

func (e *TransactionConflictError) Error() string {
	return fmt.Sprintf("oxidb: transaction conflict: %s", e.Msg)
}

// IsDuplicateKey reports whether err is a server rejection caused by a
// unique index.
func IsDuplicateKey(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	msg := strings.ToLower(e.Msg)
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
