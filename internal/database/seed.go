// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Development accounts created by Seed.
const (
	SeedAdminEmail  = "admin@autoparc.local"
	SeedDealerEmail = "garage@autoparc.local"

	seedAdminPassword  = "admin123"
	seedDealerPassword = "garage123"
)

type seedCar struct {
	marque, modele, version string
	prix, km                int64
	annee                   int
	carburant, boite        string
	couleur                 string
}

var seedCars = []seedCar{
	{"Renault", "Clio", "Limited", 2_350_000, 42_000, 2020, "Essence", "Manuelle", "Blanc"},
	{"Volkswagen", "Golf", "GTD", 4_900_000, 61_000, 2019, "Diesel", "Automatique", "Gris"},
	{"Hyundai", "Tucson", "Premium", 6_200_000, 15_000, 2023, "Hybride", "Automatique", "Noir"},
}

type seedArticle struct {
	title, slug, excerpt, content, category string
}

var seedNews = []seedArticle{
	{
		title:    "Bienvenue sur AutoParc",
		slug:     "bienvenue-sur-autoparc",
		excerpt:  "Achetez et vendez votre véhicule en quelques minutes.",
		content:  "## Bienvenue\n\nPubliez votre annonce, comparez les offres et contactez directement les vendeurs.",
		category: "Nouveautés",
	},
	{
		title:    "Comment bien estimer le prix de sa voiture",
		slug:     "comment-bien-estimer-le-prix-de-sa-voiture",
		excerpt:  "Kilométrage, année et entretien : les critères qui comptent.",
		content:  "Le **kilométrage**, l'année et l'historique d'entretien pèsent le plus dans l'estimation.\n\n- Comparez les annonces similaires\n- Soyez transparent sur l'état du véhicule",
		category: "Prix",
	},
}

// Seed populates the database with development data: an administrator,
// a dealer account with its showroom and listings, and a few articles.
// Every step is idempotent, so Seed can run on each start.
func Seed(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback()

	adminID, err := seedAccount(ctx, tx, SeedAdminEmail, seedAdminPassword, "Admin", "AutoParc", "ADMIN")
	if err != nil {
		return err
	}
	dealerID, err := seedAccount(ctx, tx, SeedDealerEmail, seedDealerPassword, "Garage du Centre", "Karim", "SHOWROOM")
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO showrooms (user_id, nom, description, ville, adresse, telephone, email,
			horaires, rating, reviews_count, is_verified, location_lat, location_lng, location_address)
		VALUES ($1, 'Garage du Centre', 'Véhicules d''occasion révisés et garantis.', 'Alger',
			'12 rue Didouche Mourad', '0550000001', $2, 'Sam-Jeu 8h-18h', 4.5, 12, TRUE,
			36.7538, 3.0588, '12 rue Didouche Mourad, Alger')
		ON CONFLICT (user_id) DO NOTHING`, dealerID, SeedDealerEmail); err != nil {
		return fmt.Errorf("seed showroom: %w", err)
	}

	var cars int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM cars WHERE user_id = $1`, dealerID).Scan(&cars); err != nil {
		return fmt.Errorf("seed count cars: %w", err)
	}
	if cars == 0 {
		for _, c := range seedCars {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO cars (user_id, marque, modele, version, prix, annee, km,
					carburant, boite, couleur, ville, contact_phone)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 'Alger', '0550000001')`,
				dealerID, c.marque, c.modele, c.version, c.prix, c.annee, c.km,
				c.carburant, c.boite, c.couleur,
			); err != nil {
				return fmt.Errorf("seed car %s %s: %w", c.marque, c.modele, err)
			}
		}
	}

	for _, n := range seedNews {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO news (title, slug, excerpt, content, image, category, author_id)
			VALUES ($1, $2, $3, $4, '', $5, $6)
			ON CONFLICT (slug) DO NOTHING`,
			n.title, n.slug, n.excerpt, n.content, n.category, adminID,
		); err != nil {
			return fmt.Errorf("seed news %s: %w", n.slug, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded",
		"admin", SeedAdminEmail, "admin_password", seedAdminPassword,
		"dealer", SeedDealerEmail, "dealer_password", seedDealerPassword,
	)
	return nil
}

// seedAccount inserts an account unless the email is taken and returns
// its id either way.
func seedAccount(ctx context.Context, tx *sql.Tx, email, password, nom, prenom, role string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("seed bcrypt: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO users (nom, prenom, email, password_hash, phone, ville, role)
		VALUES ($1, $2, $3, $4, '0550000001', 'Alger', $5)
		ON CONFLICT (email) DO NOTHING`,
		nom, prenom, email, string(hash), role,
	); err != nil {
		return "", fmt.Errorf("seed account %s: %w", email, err)
	}

	var id string
	if err := tx.QueryRowContext(ctx, `SELECT id FROM users WHERE email = $1`, email).Scan(&id); err != nil {
		return "", fmt.Errorf("seed lookup %s: %w", email, err)
	}
	return id, nil
}
