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

// carSelect joins each listing with the public fields of its owner. The
// join is LEFT because owner references are not foreign keys.
const carSelect = `
	SELECT c.id, c.user_id, u.id, u.nom, u.prenom, u.phone, u.ville,
		c.marque, c.modele, c.version, c.prix, c.annee, c.km, c.carburant, c.boite,
		c.couleur, c.ville, c.images, c.description, c.contact_phone, c.specifications,
		c.status, c.is_new, c.created_at, c.updated_at
	FROM cars c
	LEFT JOIN users u ON u.id = c.user_id`

// CarStore handles all listing-related database operations.
type CarStore struct {
	db DBTX
}

// NewCarStore creates a new CarStore with the given database handle.
func NewCarStore(db DBTX) *CarStore {
	return &CarStore{db: db}
}

func scanCar(row rowScanner) (*models.Car, error) {
	c := &models.Car{}
	var (
		ownerID                        uuid.NullUUID
		nom, prenom, phone, ownerVille sql.NullString
	)
	err := row.Scan(
		&c.ID, &c.UserID, &ownerID, &nom, &prenom, &phone, &ownerVille,
		&c.Marque, &c.Modele, &c.Version, &c.Prix, &c.Annee, &c.Km, &c.Carburant, &c.Boite,
		&c.Couleur, &c.Ville, &c.Images, &c.Description, &c.ContactPhone, &c.Specifications,
		&c.Status, &c.IsNew, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.User = &models.Owner{ID: c.UserID}
	if ownerID.Valid {
		c.User.Nom = nom.String
		c.User.Prenom = prenom.String
		c.User.Phone = phone.String
		c.User.Ville = ownerVille.String
	}
	return c, nil
}

func (s *CarStore) query(ctx context.Context, op, query string, args ...any) ([]models.Car, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	cars := []models.Car{}
	for rows.Next() {
		c, err := scanCar(rows)
		if err != nil {
			return nil, fmt.Errorf("scan car: %w", err)
		}
		cars = append(cars, *c)
	}
	return cars, rows.Err()
}

// Search returns one page of listings matching f, newest first, with the
// total number of matches.
func (s *CarStore) Search(ctx context.Context, f filter.CarFilter, p filter.Page) (filter.Result[models.Car], error) {
	q := f.Build()

	var total int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cars c`+q.Where(), q.Args()...).Scan(&total)
	if err != nil {
		return filter.Result[models.Car]{}, fmt.Errorf("count cars: %w", err)
	}

	limit, args := q.Limit(p)
	cars, err := s.query(ctx, "search cars",
		carSelect+q.Where()+` ORDER BY c.created_at DESC, c.id`+limit, args...)
	if err != nil {
		return filter.Result[models.Car]{}, err
	}
	return filter.NewResult(cars, p, total), nil
}

// Suggest returns at most filter.SuggestionLimit listings whose make or
// model contains fragment, most favorited first. An empty fragment yields
// an empty list without touching the database.
func (s *CarStore) Suggest(ctx context.Context, fragment string) ([]models.CarSuggestion, error) {
	out := []models.CarSuggestion{}
	q, ok := filter.Suggestion(fragment)
	if !ok {
		return out, nil
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT c.id, c.marque, c.modele, c.prix, c.images, c.annee, c.carburant, c.boite
		FROM cars c
		LEFT JOIN (
			SELECT car_id, COUNT(*) AS n FROM user_favorites GROUP BY car_id
		) fav ON fav.car_id = c.id
		%s
		ORDER BY COALESCE(fav.n, 0) DESC, c.created_at DESC
		LIMIT %d`, q.Where(), filter.SuggestionLimit), q.Args()...)
	if err != nil {
		return nil, fmt.Errorf("suggest cars: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c models.CarSuggestion
		if err := rows.Scan(&c.ID, &c.Marque, &c.Modele, &c.Prix, &c.Images, &c.Annee, &c.Carburant, &c.Boite); err != nil {
			return nil, fmt.Errorf("scan suggestion: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// FindByID retrieves a listing by its UUID. Returns nil if not found.
func (s *CarStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Car, error) {
	c, err := scanCar(s.db.QueryRowContext(ctx, carSelect+` WHERE c.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find car by id: %w", err)
	}
	return c, nil
}

// ListByUser returns the listings owned by userID, newest first. A
// positive limit caps the result.
func (s *CarStore) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.Car, error) {
	query := carSelect + ` WHERE c.user_id = $1 ORDER BY c.created_at DESC, c.id`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}
	return s.query(ctx, "list cars by user", query, userID)
}

// ListFavorites returns the listings userID saved that still exist.
func (s *CarStore) ListFavorites(ctx context.Context, userID uuid.UUID) ([]models.Car, error) {
	return s.query(ctx, "list favorite cars", carSelect+`
		JOIN user_favorites f ON f.car_id = c.id
		WHERE f.user_id = $1
		ORDER BY f.created_at, c.id`, userID)
}

// CountByUser returns the number of listings owned by userID.
func (s *CarStore) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cars WHERE user_id = $1`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count cars by user: %w", err)
	}
	return n, nil
}

// Count returns the total number of listings.
func (s *CarStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cars`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count cars: %w", err)
	}
	return n, nil
}

// Create inserts c and fills in its id, status and timestamps.
func (s *CarStore) Create(ctx context.Context, c *models.Car) error {
	if c.Status == "" {
		c.Status = models.CarStatusDisponible
	}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO cars (
			user_id, marque, modele, version, prix, annee, km, carburant, boite,
			couleur, ville, images, description, contact_phone, specifications, status, is_new
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id, created_at, updated_at
	`, c.UserID, c.Marque, c.Modele, c.Version, c.Prix, c.Annee, c.Km, c.Carburant, c.Boite,
		c.Couleur, c.Ville, c.Images, c.Description, c.ContactPhone, c.Specifications, c.Status, c.IsNew,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create car: %w", err)
	}
	return nil
}

// Update persists every mutable field of c. The owner never changes.
func (s *CarStore) Update(ctx context.Context, c *models.Car) error {
	err := s.db.QueryRowContext(ctx, `
		UPDATE cars SET
			marque = $1, modele = $2, version = $3, prix = $4, annee = $5, km = $6,
			carburant = $7, boite = $8, couleur = $9, ville = $10, images = $11,
			description = $12, contact_phone = $13, specifications = $14, status = $15,
			is_new = $16, updated_at = NOW()
		WHERE id = $17
		RETURNING updated_at
	`, c.Marque, c.Modele, c.Version, c.Prix, c.Annee, c.Km, c.Carburant, c.Boite,
		c.Couleur, c.Ville, c.Images, c.Description, c.ContactPhone, c.Specifications, c.Status,
		c.IsNew, c.ID,
	).Scan(&c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update car: %w", err)
	}
	return nil
}

// Delete removes a listing by ID.
func (s *CarStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM cars WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete car: %w", err)
	}
	return nil
}
