// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"autoparc/internal/models"
)

// Validation limits for request fields.
const (
	maxNameLen        = 100
	maxShortTextLen   = 200
	maxDescriptionLen = 5_000
	maxTitleLen       = 300
	maxExcerptLen     = 1_000
	maxBodyLen        = 100_000
	maxImages         = 20
	minPasswordLen    = 6
	minYear           = 1900
)

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func tooLong(s string, n int) bool {
	return utf8.RuneCountInString(s) > n
}

// validateRegistration checks the register form and returns the first
// error found.
func validateRegistration(in registerInput) string {
	if blank(in.Nom) || blank(in.Prenom) || blank(in.Email) || blank(in.Password) || blank(in.Phone) {
		return "Veuillez remplir tous les champs obligatoires"
	}
	if tooLong(in.Nom, maxNameLen) || tooLong(in.Prenom, maxNameLen) || tooLong(in.Ville, maxNameLen) {
		return "Nom, prénom ou ville trop long"
	}
	if msg := validateEmail(in.Email); msg != "" {
		return msg
	}
	return validatePassword(in.Password)
}

func validateEmail(email string) string {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "Adresse email invalide"
	}
	return ""
}

func validatePassword(password string) string {
	if utf8.RuneCountInString(password) < minPasswordLen {
		return "Le mot de passe doit contenir au moins 6 caractères"
	}
	return ""
}

// validateCar checks a listing after defaults and patches were applied.
func validateCar(c *models.Car) string {
	if blank(c.Marque) || blank(c.Modele) || blank(c.Ville) {
		return "Marque, modèle et ville sont requis"
	}
	if tooLong(c.Marque, maxNameLen) || tooLong(c.Modele, maxNameLen) ||
		tooLong(c.Version, maxShortTextLen) || tooLong(c.Couleur, maxNameLen) || tooLong(c.Ville, maxNameLen) {
		return "Un des champs texte est trop long"
	}
	if tooLong(c.Description, maxDescriptionLen) {
		return "Description trop longue (5 000 caractères maximum)"
	}
	if c.Prix < 0 {
		return "Le prix doit être positif"
	}
	if c.Km < 0 {
		return "Le kilométrage doit être positif"
	}
	if c.Annee < minYear || c.Annee > time.Now().Year()+1 {
		return "Année invalide"
	}
	if !c.Carburant.Valid() {
		return "Carburant invalide"
	}
	if !c.Boite.Valid() {
		return "Boîte de vitesses invalide"
	}
	if !c.Status.Valid() {
		return "Statut invalide"
	}
	if len(c.Images) > maxImages {
		return "20 images maximum par annonce"
	}
	return ""
}

// validateNews checks an article after defaults and patches were applied.
func validateNews(n *models.News) string {
	if blank(n.Title) || blank(n.Excerpt) || blank(n.Content) {
		return "Titre, résumé et contenu sont requis"
	}
	if tooLong(n.Title, maxTitleLen) {
		return "Titre trop long (300 caractères maximum)"
	}
	if tooLong(n.Excerpt, maxExcerptLen) {
		return "Résumé trop long (1 000 caractères maximum)"
	}
	if tooLong(n.Content, maxBodyLen) {
		return "Contenu trop long (100 000 caractères maximum)"
	}
	if tooLong(n.Category, maxNameLen) {
		return "Catégorie trop longue"
	}
	return ""
}
