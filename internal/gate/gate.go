// Package gate screens ad-hoc SQL before it reaches the database. It is a
// lexical filter: it blocks statement chaining and mutating keywords and
// caps result size, but it does not parse SQL, so keyword obfuscation
// through comments is out of scope by design.
package gate

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Reason identifies why a candidate query was rejected.
type Reason string

const (
	ReasonEmptyQuery       Reason = "empty_query"
	ReasonQueryTooLong     Reason = "query_too_long"
	ReasonMultiStatement   Reason = "multi_statement"
	ReasonForbiddenKeyword Reason = "forbidden_keyword"
	ReasonNotReadOnly      Reason = "not_read_only"
)

// Rejection is returned when a query fails screening. Its message is safe
// to surface verbatim to the caller.
type Rejection struct {
	Reason  Reason
	Message string
}

func (r *Rejection) Error() string {
	return r.Message
}

// Rules configures the screening thresholds and keyword deny list.
type Rules struct {
	// MaxLength bounds the trimmed statement length in characters.
	MaxLength int
	// RowLimit is appended as a LIMIT clause when the statement has none.
	RowLimit int
	// ForbiddenKeywords are rejected on any case-insensitive whole-word match.
	ForbiddenKeywords []string
}

// DefaultForbiddenKeywords covers every mutating or engine-control verb the
// embedded database understands.
var DefaultForbiddenKeywords = []string{
	"insert", "update", "delete", "drop", "alter",
	"truncate", "create", "attach", "pragma",
}

// DefaultRules mirrors the documented gate contract.
func DefaultRules() Rules {
	return Rules{
		MaxLength:         2000,
		RowLimit:          500,
		ForbiddenKeywords: DefaultForbiddenKeywords,
	}
}

var readOnlyPrefix = regexp.MustCompile(`(?i)^(select|with)\b`)

var limitClause = regexp.MustCompile(`(?i)\blimit\b`)

// Gate screens candidate queries against a fixed rule set.
type Gate struct {
	rules     Rules
	forbidden *regexp.Regexp
}

// New compiles the rule set into a reusable gate.
func New(rules Rules) *Gate {
	if rules.MaxLength <= 0 {
		rules.MaxLength = 2000
	}
	if rules.RowLimit <= 0 {
		rules.RowLimit = 500
	}
	keywords := rules.ForbiddenKeywords
	if len(keywords) == 0 {
		keywords = DefaultForbiddenKeywords
	}
	quoted := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		quoted = append(quoted, regexp.QuoteMeta(strings.ToLower(kw)))
	}
	return &Gate{
		rules:     rules,
		forbidden: regexp.MustCompile(`(?i)\b(` + strings.Join(quoted, "|") + `)\b`),
	}
}

// Inspect approves a read-only statement, possibly rewritten with an
// appended row limit, or rejects it with a reason. It never executes
// anything.
func (g *Gate) Inspect(query string) (string, error) {
	clean := strings.TrimSpace(query)
	clean = strings.TrimRight(clean, "; \t\n\r")

	if clean == "" {
		return "", &Rejection{Reason: ReasonEmptyQuery, Message: "query must not be empty"}
	}
	if utf8.RuneCountInString(clean) > g.rules.MaxLength {
		return "", &Rejection{
			Reason:  ReasonQueryTooLong,
			Message: fmt.Sprintf("query exceeds %d characters", g.rules.MaxLength),
		}
	}
	if strings.Contains(clean, ";") {
		return "", &Rejection{Reason: ReasonMultiStatement, Message: "multiple statements are not allowed"}
	}
	if match := g.forbidden.FindString(clean); match != "" {
		return "", &Rejection{
			Reason:  ReasonForbiddenKeyword,
			Message: fmt.Sprintf("forbidden keyword %q", strings.ToLower(match)),
		}
	}
	if !readOnlyPrefix.MatchString(clean) {
		return "", &Rejection{Reason: ReasonNotReadOnly, Message: "only SELECT or WITH statements are allowed"}
	}
	if !limitClause.MatchString(clean) {
		clean = fmt.Sprintf("%s LIMIT %d", clean, g.rules.RowLimit)
	}
	return clean, nil
}
