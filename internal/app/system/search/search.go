// internal/app/system/search/search.go
package search

import "strings"

// Query is a normalized list search.
type Query struct {
	Text string
	// ByEmail is set when the text looks like an email; names are then not
	// matched, so "ada@" does not also hit every "Ada".
	ByEmail bool
}

// Parse trims and lowercases q.
func Parse(q string) Query {
	text := strings.ToLower(strings.TrimSpace(q))
	return Query{Text: text, ByEmail: strings.Contains(text, "@")}
}

// Empty reports whether the query matches everything.
func (q Query) Empty() bool { return q.Text == "" }

// Person reports whether a person with the given name and email matches.
func (q Query) Person(name, email string) bool {
	if q.Empty() {
		return true
	}
	if strings.Contains(strings.ToLower(email), q.Text) {
		return true
	}
	return !q.ByEmail && strings.Contains(strings.ToLower(name), q.Text)
}

// Any reports whether any of fields contains the query.
func (q Query) Any(fields ...string) bool {
	if q.Empty() {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q.Text) {
			return true
		}
	}
	return false
}

// EqualsAnyFold reports whether s equals one of vals, ignoring case and
// surrounding space.
func EqualsAnyFold(s string, vals ...string) bool {
	s = strings.TrimSpace(strings.ToLower(s))
	for _, v := range vals {
		if s == strings.ToLower(v) {
			return true
		}
	}
	return false
}
