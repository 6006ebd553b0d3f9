// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"autoparc/internal/cache"
	"autoparc/internal/store"
)

// ResponseCache caches JSON values between requests.
type ResponseCache interface {
	Get(ctx context.Context, key string, dst any) bool
	Set(ctx context.Context, key string, v any)
	Invalidate(ctx context.Context, keys ...string)
}

// noCache is used when no Valkey client is configured.
type noCache struct{}

func (noCache) Get(context.Context, string, any) bool { return false }
func (noCache) Set(context.Context, string, any)      {}
func (noCache) Invalidate(context.Context, ...string) {}

func orNoCache(c ResponseCache) ResponseCache {
	if c == nil {
		return noCache{}
	}
	return c
}

// System serves the health check and the public counters.
type System struct {
	db    *sql.DB
	stats *store.StatsStore
	cache ResponseCache
}

// NewSystem creates the System handler group. c may be nil.
func NewSystem(db *sql.DB, c ResponseCache) *System {
	return &System{db: db, stats: store.NewStatsStore(db), cache: orNoCache(c)}
}

// Health reports whether the API and its database are up.
func (s *System) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":  "ERROR",
			"message": "Base de données indisponible",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "OK",
		"message": "AutoParc API opérationnelle",
	})
}

// PublicStats returns {adsCount, prosCount}, served from cache when warm.
func (s *System) PublicStats(w http.ResponseWriter, r *http.Request) {
	var st store.PublicStats
	if s.cache.Get(r.Context(), cache.StatsKey, &st) {
		writeJSON(w, http.StatusOK, st)
		return
	}

	st, err := s.stats.Public(r.Context())
	if err != nil {
		serverError(w, r, "public stats", err)
		return
	}
	s.cache.Set(r.Context(), cache.StatsKey, st)
	writeJSON(w, http.StatusOK, st)
}

// invalidateStats drops the cached counters after a write that changes them.
func invalidateStats(ctx context.Context, c ResponseCache) {
	c.Invalidate(ctx, cache.StatsKey)
}
