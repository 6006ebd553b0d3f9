// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package filter

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

// SuggestionLimit caps autocomplete results regardless of requested size.
const SuggestionLimit = 5

// CarFilter holds the optional listing search dimensions. A zero string
// or nil pointer means the dimension is unconstrained.
type CarFilter struct {
	Marque    string
	Modele    string
	Ville     string
	Carburant string
	Boite     string
	Q         string

	PrixMin  *int64
	PrixMax  *int64
	AnneeMin *int
	AnneeMax *int
	KmMax    *int64

	// IsNew is set only when the parameter was present at all.
	IsNew *bool
}

// ParseCarFilter reads the listing search parameters from v. It never
// fails: malformed numbers are treated as absent.
func ParseCarFilter(v url.Values) CarFilter {
	f := CarFilter{
		Marque:    strings.TrimSpace(v.Get("marque")),
		Modele:    strings.TrimSpace(v.Get("modele")),
		Ville:     strings.TrimSpace(v.Get("ville")),
		Carburant: strings.TrimSpace(v.Get("carburant")),
		Boite:     strings.TrimSpace(v.Get("boite")),
		Q:         strings.TrimSpace(v.Get("q")),
		PrixMin:   lowerBound(v.Get("prixMin"), 64),
		PrixMax:   upperBound(v.Get("prixMax"), 64),
		AnneeMin:  asInt(lowerBound(v.Get("anneeMin"), 32)),
		AnneeMax:  asInt(upperBound(v.Get("anneeMax"), 32)),
		KmMax:     upperBound(v.Get("kmMax"), 64),
	}
	if v.Has("isNew") {
		b := v.Get("isNew") == "true"
		f.IsNew = &b
	}
	return f
}

// Build translates f into predicates over the cars table aliased as "c".
func (f CarFilter) Build() *Query {
	q := &Query{}
	if f.Marque != "" {
		q.add("c.marque ILIKE %s", Contains(f.Marque))
	}
	if f.Modele != "" {
		q.add("c.modele ILIKE %s", Contains(f.Modele))
	}
	if f.Ville != "" {
		q.add("c.ville ILIKE %s", Contains(f.Ville))
	}
	if f.Carburant != "" {
		q.add("c.carburant = %s", f.Carburant)
	}
	if f.Boite != "" {
		q.add("c.boite = %s", f.Boite)
	}
	if f.PrixMin != nil {
		q.add("c.prix >= %s", *f.PrixMin)
	}
	if f.PrixMax != nil {
		q.add("c.prix <= %s", *f.PrixMax)
	}
	if f.AnneeMin != nil {
		q.add("c.annee >= %s", *f.AnneeMin)
	}
	if f.AnneeMax != nil {
		q.add("c.annee <= %s", *f.AnneeMax)
	}
	if f.KmMax != nil {
		q.add("c.km <= %s", *f.KmMax)
	}
	if f.IsNew != nil {
		q.add("c.is_new = %s", *f.IsNew)
	}
	if f.Q != "" {
		// plainto_tsquery joins terms with &; swapping to | gives any-term matching.
		q.add("c.search_vector @@ replace(plainto_tsquery('simple', %s)::text, '&', '|')::tsquery", f.Q)
	}
	return q
}

// Suggestion builds the autocomplete predicate: make OR model contains
// fragment. ok is false for an empty fragment, in which case the caller
// returns an empty list without querying.
func Suggestion(fragment string) (q *Query, ok bool) {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return nil, false
	}
	q = &Query{}
	q.add("(c.marque ILIKE %s OR c.modele ILIKE %s)", Contains(fragment))
	return q, true
}

// The bounded columns are integers, so a fractional lower bound rounds up
// and a fractional upper bound rounds down. Values that do not fit the
// column's bit size are treated as absent.
func lowerBound(s string, bits int) *int64 { return parseBound(s, bits, math.Ceil) }
func upperBound(s string, bits int) *int64 { return parseBound(s, bits, math.Floor) }

func parseBound(s string, bits int, round func(float64) float64) *int64 {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, bits); err == nil {
		return &n
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	f = round(f)
	limit := math.Ldexp(1, bits-1)
	if f < -limit || f >= limit {
		return nil
	}
	n := int64(f)
	return &n
}

func asInt(n *int64) *int {
	if n == nil {
		return nil
	}
	i := int(*n)
	return &i
}
