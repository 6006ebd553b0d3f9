// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"autoparc/internal/filter"
	"autoparc/internal/markdown"
	"autoparc/internal/middleware"
	"autoparc/internal/models"
	"autoparc/internal/slug"
	"autoparc/internal/store"
)

// News groups the article endpoints.
type News struct {
	news *store.NewsStore
}

// NewNews creates the News handler group.
func NewNews(db *sql.DB) *News {
	return &News{news: store.NewNewsStore(db)}
}

type newsInput struct {
	Title       string `json:"title"`
	Excerpt     string `json:"excerpt"`
	Content     string `json:"content"`
	Image       string `json:"image"`
	Category    string `json:"category"`
	IsPublished *bool  `json:"isPublished"`
}

// List returns one page of articles: {news, page, pages, total}.
func (h *News) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := h.news.List(r.Context(), filter.ParseNewsFilter(q), filter.ParsePage(q, filter.NewsPageSize))
	if err != nil {
		serverError(w, r, "list news", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"news":  res.Items,
		"page":  res.Page,
		"pages": res.Pages,
		"total": res.Total,
	})
}

// BySlug returns an article and counts the view.
func (h *News) BySlug(w http.ResponseWriter, r *http.Request) {
	n, err := h.news.ViewBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		serverError(w, r, "view news", err)
		return
	}
	if n == nil {
		writeMessage(w, http.StatusNotFound, "Article non trouvé")
		return
	}
	renderBody(n)
	writeJSON(w, http.StatusOK, n)
}

// find loads the article named by {id}, writing a 404 when there is none.
func (h *News) find(w http.ResponseWriter, r *http.Request) *models.News {
	id, ok := pathID(r, "id")
	if !ok {
		writeMessage(w, http.StatusNotFound, "Article non trouvé")
		return nil
	}
	n, err := h.news.FindByID(r.Context(), id)
	if err != nil {
		serverError(w, r, "find news", err)
		return nil
	}
	if n == nil {
		writeMessage(w, http.StatusNotFound, "Article non trouvé")
		return nil
	}
	return n
}

// ByID returns an article without counting a view.
func (h *News) ByID(w http.ResponseWriter, r *http.Request) {
	if n := h.find(w, r); n != nil {
		renderBody(n)
		writeJSON(w, http.StatusOK, n)
	}
}

// Create publishes an article (admin). The slug is derived from the title.
func (h *News) Create(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromCtx(r.Context())

	var in newsInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	n := &models.News{
		Title:       strings.TrimSpace(in.Title),
		Excerpt:     strings.TrimSpace(in.Excerpt),
		Content:     in.Content,
		Image:       strings.TrimSpace(in.Image),
		Category:    strings.TrimSpace(in.Category),
		AuthorID:    &u.ID,
		IsPublished: true,
	}
	if in.IsPublished != nil {
		n.IsPublished = *in.IsPublished
	}
	if msg := validateNews(n); msg != "" {
		writeMessage(w, http.StatusBadRequest, msg)
		return
	}
	n.Slug = slug.Generate(n.Title)
	if n.Slug == "" {
		writeMessage(w, http.StatusBadRequest, "Le titre doit contenir des lettres ou des chiffres")
		return
	}

	err := h.news.Create(r.Context(), n)
	if errors.Is(err, store.ErrDuplicate) {
		writeMessage(w, http.StatusBadRequest, "Un article avec ce titre existe déjà")
		return
	}
	if err != nil {
		serverError(w, r, "create news", err)
		return
	}
	slog.Info("news created", "news_id", n.ID, "slug", n.Slug)
	writeJSON(w, http.StatusCreated, n)
}

// Update overwrites the non-empty fields of an article (admin). The slug
// is kept so published links stay valid.
func (h *News) Update(w http.ResponseWriter, r *http.Request) {
	n := h.find(w, r)
	if n == nil {
		return
	}

	var in newsInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	overwrite(&n.Title, in.Title)
	overwrite(&n.Excerpt, in.Excerpt)
	if strings.TrimSpace(in.Content) != "" {
		n.Content = in.Content
	}
	overwrite(&n.Image, in.Image)
	overwrite(&n.Category, in.Category)
	if in.IsPublished != nil {
		n.IsPublished = *in.IsPublished
	}
	if msg := validateNews(n); msg != "" {
		writeMessage(w, http.StatusBadRequest, msg)
		return
	}

	if err := h.news.Update(r.Context(), n); err != nil {
		serverError(w, r, "update news", err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

// Delete removes an article (admin).
func (h *News) Delete(w http.ResponseWriter, r *http.Request) {
	n := h.find(w, r)
	if n == nil {
		return
	}
	if err := h.news.Delete(r.Context(), n.ID); err != nil {
		serverError(w, r, "delete news", err)
		return
	}
	writeMessage(w, http.StatusOK, "Article supprimé")
}

// renderBody fills ContentHTML from the Markdown body. A rendering failure
// leaves it empty; clients fall back to the raw content.
func renderBody(n *models.News) {
	html, err := markdown.ToHTML(n.Content)
	if err != nil {
		slog.Warn("render news body", "news_id", n.ID, "error", err)
		return
	}
	n.ContentHTML = html
}
