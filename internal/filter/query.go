// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package filter turns optional search parameters into SQL predicates and
// pagination windows. It performs no I/O; stores execute what it builds.
package filter

import (
	"fmt"
	"strings"
)

// Query accumulates AND-ed predicates with positional ($n) arguments.
type Query struct {
	conds []string
	args  []any
}

// add appends a predicate. Every %s in format is replaced by the
// placeholder bound to v, so one value can be referenced several times.
func (q *Query) add(format string, v any) {
	q.args = append(q.args, v)
	ph := fmt.Sprintf("$%d", len(q.args))
	q.conds = append(q.conds, strings.ReplaceAll(format, "%s", ph))
}

// Empty reports whether no predicate was added.
func (q *Query) Empty() bool {
	return len(q.conds) == 0
}

// Where returns " WHERE a AND b ..." or "" when there is nothing to filter.
func (q *Query) Where() string {
	if q.Empty() {
		return ""
	}
	return " WHERE " + strings.Join(q.conds, " AND ")
}

// Args returns the positional arguments for Where.
func (q *Query) Args() []any {
	return q.args
}

// Limit returns a " LIMIT $n OFFSET $m" suffix for p together with the
// full argument list. q itself is not modified, so the same query can back
// both the count and the page fetch.
func (q *Query) Limit(p Page) (string, []any) {
	args := make([]any, len(q.args), len(q.args)+2)
	copy(args, q.args)
	n := len(args)
	args = append(args, p.Size, p.Offset())
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", n+1, n+2), args
}

// likeEscaper neutralizes LIKE wildcards in user input.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Contains wraps s as a case-insensitive substring pattern for ILIKE.
func Contains(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
