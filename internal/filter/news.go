// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package filter

import (
	"net/url"
	"strings"
)

// NewsFilter narrows the article list.
type NewsFilter struct {
	Category  string
	Published *bool
}

// ParseNewsFilter reads "category" (exact) and "published" from v.
func ParseNewsFilter(v url.Values) NewsFilter {
	f := NewsFilter{Category: strings.TrimSpace(v.Get("category"))}
	if v.Has("published") {
		b := v.Get("published") == "true"
		f.Published = &b
	}
	return f
}

// Build translates f into predicates over the news table aliased as "n".
func (f NewsFilter) Build() *Query {
	q := &Query{}
	if f.Category != "" {
		q.add("n.category = %s", f.Category)
	}
	if f.Published != nil {
		q.add("n.is_published = %s", *f.Published)
	}
	return q
}

// ShowroomFilter narrows the dealer directory.
type ShowroomFilter struct {
	Ville string
}

// ParseShowroomFilter reads "ville" (substring) from v.
func ParseShowroomFilter(v url.Values) ShowroomFilter {
	return ShowroomFilter{Ville: strings.TrimSpace(v.Get("ville"))}
}

// Build translates f into predicates over the showrooms table aliased as "s".
func (f ShowroomFilter) Build() *Query {
	q := &Query{}
	if f.Ville != "" {
		q.add("s.ville ILIKE %s", Contains(f.Ville))
	}
	return q
}
