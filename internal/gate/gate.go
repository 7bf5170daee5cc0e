// Package gate restricts caller-authored SQL to bounded, read-only
// statements before it reaches the warehouse. It is a conservative
// last-resort guard, not a parser and not a security boundary.
package gate

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Defaults applied when the caller does not override them.
const (
	DefaultRowLimit     = 1000
	DefaultQueryTimeout = 300 * time.Second
)

// RejectionKind distinguishes why a query was refused.
type RejectionKind string

const (
	KindUnsafeOperation RejectionKind = "unsafe_operation"
	KindNotAReadQuery   RejectionKind = "not_a_read_query"
)

// RejectionError is a structured refusal. It is always surfaced to the
// caller verbatim, never downgraded to partial execution.
type RejectionError struct {
	Kind   RejectionKind
	Reason string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("query rejected (%s): %s", e.Kind, e.Reason)
}

// deniedKeywords are mutating operations refused anywhere in the
// normalized text, even inside identifiers or string literals.
var deniedKeywords = []string{
	"INSERT", "UPDATE", "DELETE", "DROP", "CREATE", "ALTER", "TRUNCATE", "MERGE",
}

var (
	lineComments = regexp.MustCompile(`--[^\n]*`)
	limitClause  = regexp.MustCompile(`(?i)\bLIMIT\s+\d+`)
)

// ValidateAndBound checks that the query is read-only and returns it with
// a row bound appended if it does not already carry one. The returned text
// is stable: re-validating an already-bounded query is a no-op.
func ValidateAndBound(query string, rowLimit int) (string, error) {
	if rowLimit <= 0 {
		rowLimit = DefaultRowLimit
	}

	// Strip single-line comments first so keywords cannot be smuggled
	// around inside them.
	normalized := strings.ToUpper(strings.TrimSpace(lineComments.ReplaceAllString(query, "")))

	for _, kw := range deniedKeywords {
		if strings.Contains(normalized, kw) {
			return "", &RejectionError{
				Kind:   KindUnsafeOperation,
				Reason: fmt.Sprintf("non-read operation %q detected", kw),
			}
		}
	}

	if !strings.HasPrefix(normalized, "SELECT") && !strings.HasPrefix(normalized, "WITH") {
		return "", &RejectionError{
			Kind:   KindNotAReadQuery,
			Reason: "only SELECT or WITH statements are allowed",
		}
	}

	if limitClause.MatchString(query) {
		return query, nil
	}

	bounded := strings.TrimRight(strings.TrimSpace(query), ";")
	bounded = strings.TrimRight(bounded, " \t\n")
	return fmt.Sprintf("%s LIMIT %d", bounded, rowLimit), nil
}
