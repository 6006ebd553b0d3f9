// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package filter

import (
	"math"
	"net/url"
	"strconv"
)

// Default page sizes per collection.
const (
	CarPageSize  = 12
	NewsPageSize = 10
	MaxPageSize  = 100

	// MaxPageNumber keeps Offset within int32 range at any page size.
	MaxPageNumber = math.MaxInt32 / MaxPageSize
)

// Page is a 1-based pagination window.
type Page struct {
	Number int
	Size   int
}

// ParsePage reads "page" and "limit" from v. Missing, malformed or
// non-positive values fall back to page 1 and defaultSize; sizes above
// MaxPageSize and numbers above MaxPageNumber are capped.
func ParsePage(v url.Values, defaultSize int) Page {
	p := Page{Number: 1, Size: defaultSize}
	if n, err := strconv.Atoi(v.Get("page")); err == nil && n > 0 {
		p.Number = min(n, MaxPageNumber)
	}
	if n, err := strconv.Atoi(v.Get("limit")); err == nil && n > 0 {
		p.Size = min(n, MaxPageSize)
	}
	return p
}

// Offset is the number of rows skipped before this page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// Pages returns ceil(total / size).
func (p Page) Pages(total int) int {
	if p.Size <= 0 || total <= 0 {
		return 0
	}
	return (total + p.Size - 1) / p.Size
}

// Result is one page of items plus the metadata needed to paginate.
type Result[T any] struct {
	Items []T
	Page  int
	Pages int
	Total int
}

// NewResult assembles a Result; pages always derive from total, never
// from len(items).
func NewResult[T any](items []T, p Page, total int) Result[T] {
	if items == nil {
		items = []T{}
	}
	return Result[T]{Items: items, Page: p.Number, Pages: p.Pages(total), Total: total}
}
