// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"fmt"

	"autoparc/internal/models"
)

// PublicStats are the homepage counters.
type PublicStats struct {
	AdsCount  int `json:"adsCount"`
	ProsCount int `json:"prosCount"`
}

// StatsStore computes aggregate counters.
type StatsStore struct {
	db DBTX
}

// NewStatsStore creates a new StatsStore with the given database handle.
func NewStatsStore(db DBTX) *StatsStore {
	return &StatsStore{db: db}
}

// Public counts all listings and all dealer accounts.
func (s *StatsStore) Public(ctx context.Context) (PublicStats, error) {
	var st PublicStats
	err := s.db.QueryRowContext(ctx, `
		SELECT (SELECT COUNT(*) FROM cars), (SELECT COUNT(*) FROM users WHERE role = $1)
	`, models.RoleShowroom).Scan(&st.AdsCount, &st.ProsCount)
	if err != nil {
		return PublicStats{}, fmt.Errorf("public stats: %w", err)
	}
	return st, nil
}
