// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Conventional editorial categories. Category is free text; these are
// the values the back office offers.
const (
	CategoryNouveautes     = "Nouveautés"
	CategoryPrix           = "Prix"
	CategoryIndustrie      = "Industrie"
	CategoryReglementation = "Réglementation"
)

// News is an editorial article.
type News struct {
	ID          uuid.UUID  `json:"_id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Excerpt     string     `json:"excerpt"`
	Content     string     `json:"content"`
	Image       string     `json:"image"`
	Category    string     `json:"category"`
	AuthorID    *uuid.UUID `json:"author,omitempty"`
	Views       int        `json:"views"`
	IsPublished bool       `json:"isPublished"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	// ContentHTML is rendered on single-article reads only.
	ContentHTML string `json:"contentHtml,omitempty"`
}
