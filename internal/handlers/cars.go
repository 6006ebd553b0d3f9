// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"

	"autoparc/internal/filter"
	"autoparc/internal/middleware"
	"autoparc/internal/models"
	"autoparc/internal/store"
)

// Cars groups the listing endpoints.
type Cars struct {
	cars  *store.CarStore
	cache ResponseCache
}

// NewCars creates the Cars handler group. c may be nil.
func NewCars(db *sql.DB, c ResponseCache) *Cars {
	return &Cars{cars: store.NewCarStore(db), cache: orNoCache(c)}
}

// carInput is the body of listing create and update requests. A nil
// field was absent from the request.
type carInput struct {
	Marque         *string                `json:"marque"`
	Modele         *string                `json:"modele"`
	Version        *string                `json:"version"`
	Prix           *int64                 `json:"prix"`
	Annee          *int                   `json:"annee"`
	Km             *int64                 `json:"km"`
	Carburant      *models.Fuel           `json:"carburant"`
	Boite          *models.Gearbox        `json:"boite"`
	Couleur        *string                `json:"couleur"`
	Ville          *string                `json:"ville"`
	Images         *[]string              `json:"images"`
	Description    *string                `json:"description"`
	ContactPhone   *string                `json:"contactPhone"`
	Specifications *models.Specifications `json:"specifications"`
	Status         *models.CarStatus      `json:"status"`
	IsNew          *bool                  `json:"isNew"`
}

// apply copies every supplied field onto c.
func (in carInput) apply(c *models.Car) {
	setString(&c.Marque, in.Marque)
	setString(&c.Modele, in.Modele)
	setString(&c.Version, in.Version)
	setString(&c.Couleur, in.Couleur)
	setString(&c.Ville, in.Ville)
	setString(&c.Description, in.Description)
	setString(&c.ContactPhone, in.ContactPhone)
	if in.Prix != nil {
		c.Prix = *in.Prix
	}
	if in.Annee != nil {
		c.Annee = *in.Annee
	}
	if in.Km != nil {
		c.Km = *in.Km
	}
	if in.Carburant != nil {
		c.Carburant = *in.Carburant
	}
	if in.Boite != nil {
		c.Boite = *in.Boite
	}
	if in.Images != nil {
		c.Images = models.StringList(*in.Images)
	}
	if in.Specifications != nil {
		c.Specifications = *in.Specifications
	}
	if in.Status != nil {
		c.Status = *in.Status
	}
	if in.IsNew != nil {
		c.IsNew = *in.IsNew
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

// List runs the listing search: {cars, page, pages, total}.
func (h *Cars) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := h.cars.Search(r.Context(), filter.ParseCarFilter(q), filter.ParsePage(q, filter.CarPageSize))
	if err != nil {
		serverError(w, r, "search cars", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"cars":  res.Items,
		"page":  res.Page,
		"pages": res.Pages,
		"total": res.Total,
	})
}

// Suggestions is the autocomplete variant: at most five make/model
// matches for ?q=, most favorited first.
func (h *Cars) Suggestions(w http.ResponseWriter, r *http.Request) {
	items, err := h.cars.Suggest(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		serverError(w, r, "suggest cars", err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Mine returns the caller's listings, newest first.
func (h *Cars) Mine(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromCtx(r.Context())
	cars, err := h.cars.ListByUser(r.Context(), u.ID, 0)
	if err != nil {
		serverError(w, r, "list my cars", err)
		return
	}
	writeJSON(w, http.StatusOK, cars)
}

// find loads the listing named by {id}, writing a 404 when there is none.
func (h *Cars) find(w http.ResponseWriter, r *http.Request) *models.Car {
	id, ok := pathID(r, "id")
	if !ok {
		writeMessage(w, http.StatusNotFound, "Véhicule non trouvé")
		return nil
	}
	c, err := h.cars.FindByID(r.Context(), id)
	if err != nil {
		serverError(w, r, "find car", err)
		return nil
	}
	if c == nil {
		writeMessage(w, http.StatusNotFound, "Véhicule non trouvé")
		return nil
	}
	return c
}

// Get returns one listing with its owner's public contact details.
func (h *Cars) Get(w http.ResponseWriter, r *http.Request) {
	if c := h.find(w, r); c != nil {
		writeJSON(w, http.StatusOK, c)
	}
}

// Create publishes a listing owned by the caller. The contact phone falls
// back to the caller's phone.
func (h *Cars) Create(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromCtx(r.Context())

	var in carInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	c := &models.Car{
		UserID: u.ID,
		Images: models.StringList{},
		Status: models.CarStatusDisponible,
	}
	in.apply(c)
	if c.ContactPhone == "" {
		c.ContactPhone = u.Phone
	}
	if msg := validateCar(c); msg != "" {
		writeMessage(w, http.StatusBadRequest, msg)
		return
	}

	if err := h.cars.Create(r.Context(), c); err != nil {
		serverError(w, r, "create car", err)
		return
	}
	c.User = &models.Owner{ID: u.ID, Nom: u.Nom, Prenom: u.Prenom, Phone: u.Phone, Ville: u.Ville}
	invalidateStats(r.Context(), h.cache)

	slog.Info("car created", "car_id", c.ID, "user_id", u.ID)
	writeJSON(w, http.StatusCreated, c)
}

// Update applies the supplied fields to a listing. Only its owner or an
// administrator may do so.
func (h *Cars) Update(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromCtx(r.Context())
	c := h.find(w, r)
	if c == nil {
		return
	}
	if !u.CanManage(c.UserID) {
		writeMessage(w, http.StatusForbidden, "Non autorisé à modifier cette annonce")
		return
	}

	var in carInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	in.apply(c)
	if msg := validateCar(c); msg != "" {
		writeMessage(w, http.StatusBadRequest, msg)
		return
	}

	if err := h.cars.Update(r.Context(), c); err != nil {
		serverError(w, r, "update car", err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// Delete removes a listing. Only its owner or an administrator may do so.
func (h *Cars) Delete(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromCtx(r.Context())
	c := h.find(w, r)
	if c == nil {
		return
	}
	if !u.CanManage(c.UserID) {
		writeMessage(w, http.StatusForbidden, "Non autorisé à supprimer cette annonce")
		return
	}

	if err := h.cars.Delete(r.Context(), c.ID); err != nil {
		serverError(w, r, "delete car", err)
		return
	}
	invalidateStats(r.Context(), h.cache)

	slog.Info("car deleted", "car_id", c.ID, "by", u.ID)
	writeMessage(w, http.StatusOK, "Annonce supprimée")
}
