// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"autoparc/internal/filter"
	"autoparc/internal/models"
)

// showroomSelect derives carsCount at read time from the owner's listings.
const showroomSelect = `
	SELECT s.id, s.user_id, s.nom, s.description, s.ville, s.adresse, s.telephone, s.email,
		s.logo, s.cover_image, s.horaires, s.rating, s.reviews_count, s.is_verified,
		s.location_lat, s.location_lng, s.location_address, s.location_map_link,
		s.created_at, s.updated_at,
		(SELECT COUNT(*) FROM cars c WHERE c.user_id = s.user_id)
	FROM showrooms s`

// ShowroomStore handles all dealer-profile database operations.
type ShowroomStore struct {
	db DBTX
}

// NewShowroomStore creates a new ShowroomStore with the given database handle.
func NewShowroomStore(db DBTX) *ShowroomStore {
	return &ShowroomStore{db: db}
}

func scanShowroom(row rowScanner) (*models.Showroom, error) {
	s := &models.Showroom{}
	var lat, lng sql.NullFloat64
	err := row.Scan(
		&s.ID, &s.UserID, &s.Nom, &s.Description, &s.Ville, &s.Adresse, &s.Telephone, &s.Email,
		&s.Logo, &s.CoverImage, &s.Horaires, &s.Rating, &s.ReviewsCount, &s.IsVerified,
		&lat, &lng, &s.Location.Address, &s.Location.GoogleMapLink,
		&s.CreatedAt, &s.UpdatedAt, &s.CarsCount,
	)
	if err != nil {
		return nil, err
	}
	if lat.Valid {
		s.Location.Lat = &lat.Float64
	}
	if lng.Valid {
		s.Location.Lng = &lng.Float64
	}
	return s, nil
}

func (s *ShowroomStore) findOne(ctx context.Context, op, query string, args ...any) (*models.Showroom, error) {
	sr, err := scanShowroom(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sr, nil
}

// List returns the profiles matching f, best rated first.
func (s *ShowroomStore) List(ctx context.Context, f filter.ShowroomFilter) ([]models.Showroom, error) {
	q := f.Build()
	rows, err := s.db.QueryContext(ctx,
		showroomSelect+q.Where()+` ORDER BY s.rating DESC, s.created_at DESC`, q.Args()...)
	if err != nil {
		return nil, fmt.Errorf("list showrooms: %w", err)
	}
	defer rows.Close()

	out := []models.Showroom{}
	for rows.Next() {
		sr, err := scanShowroom(rows)
		if err != nil {
			return nil, fmt.Errorf("scan showroom: %w", err)
		}
		out = append(out, *sr)
	}
	return out, rows.Err()
}

// FindByID retrieves a profile by its UUID. Returns nil if not found.
func (s *ShowroomStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Showroom, error) {
	return s.findOne(ctx, "find showroom by id", showroomSelect+` WHERE s.id = $1`, id)
}

// FindByUser retrieves the profile owned by userID. Returns nil if the
// account has none.
func (s *ShowroomStore) FindByUser(ctx context.Context, userID uuid.UUID) (*models.Showroom, error) {
	return s.findOne(ctx, "find showroom by user", showroomSelect+` WHERE s.user_id = $1`, userID)
}

// Create inserts sr. A second profile for the same owner yields ErrDuplicate.
func (s *ShowroomStore) Create(ctx context.Context, sr *models.Showroom) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO showrooms (
			user_id, nom, description, ville, adresse, telephone, email, logo, cover_image,
			horaires, location_lat, location_lng, location_address, location_map_link
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, rating, reviews_count, is_verified, created_at, updated_at
	`, sr.UserID, sr.Nom, sr.Description, sr.Ville, sr.Adresse, sr.Telephone, sr.Email,
		sr.Logo, sr.CoverImage, sr.Horaires,
		sr.Location.Lat, sr.Location.Lng, sr.Location.Address, sr.Location.GoogleMapLink,
	).Scan(&sr.ID, &sr.Rating, &sr.ReviewsCount, &sr.IsVerified, &sr.CreatedAt, &sr.UpdatedAt)
	if err != nil {
		return translate("create showroom", err)
	}
	return nil
}

// Save persists every mutable field of sr, including the admin-only
// rating, review count and verification flag.
func (s *ShowroomStore) Save(ctx context.Context, sr *models.Showroom) error {
	err := s.db.QueryRowContext(ctx, `
		UPDATE showrooms SET
			nom = $1, description = $2, ville = $3, adresse = $4, telephone = $5, email = $6,
			logo = $7, cover_image = $8, horaires = $9, rating = $10, reviews_count = $11,
			is_verified = $12, location_lat = $13, location_lng = $14,
			location_address = $15, location_map_link = $16, updated_at = NOW()
		WHERE id = $17
		RETURNING updated_at
	`, sr.Nom, sr.Description, sr.Ville, sr.Adresse, sr.Telephone, sr.Email,
		sr.Logo, sr.CoverImage, sr.Horaires, sr.Rating, sr.ReviewsCount,
		sr.IsVerified, sr.Location.Lat, sr.Location.Lng,
		sr.Location.Address, sr.Location.GoogleMapLink, sr.ID,
	).Scan(&sr.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save showroom: %w", err)
	}
	return nil
}

// Delete removes a profile by ID. The owner's role is not touched.
func (s *ShowroomStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM showrooms WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete showroom: %w", err)
	}
	return nil
}
