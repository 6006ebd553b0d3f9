// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"autoparc/internal/dealer"
	"autoparc/internal/filter"
	"autoparc/internal/middleware"
	"autoparc/internal/models"
	"autoparc/internal/store"
)

// showroomCarsLimit caps the listings embedded in a profile page.
const showroomCarsLimit = 20

// Showrooms groups the dealer profile endpoints.
type Showrooms struct {
	dealers   *dealer.Service
	showrooms *store.ShowroomStore
	users     *store.UserStore
	cars      *store.CarStore
	cache     ResponseCache
}

// NewShowrooms creates the Showrooms handler group. c may be nil.
func NewShowrooms(db *sql.DB, c ResponseCache) *Showrooms {
	return &Showrooms{
		dealers:   dealer.NewService(db),
		showrooms: store.NewShowroomStore(db),
		users:     store.NewUserStore(db),
		cars:      store.NewCarStore(db),
		cache:     orNoCache(c),
	}
}

// List returns the profiles matching ?ville=, best rated first, each with
// its listing count. Owner logo and cover image take precedence.
func (h *Showrooms) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.showrooms.List(r.Context(), filter.ParseShowroomFilter(r.URL.Query()))
	if err != nil {
		serverError(w, r, "list showrooms", err)
		return
	}

	ids := make([]uuid.UUID, len(list))
	for i := range list {
		ids[i] = list[i].UserID
	}
	owners, err := h.users.FindByIDs(r.Context(), ids)
	if err != nil {
		serverError(w, r, "load showroom owners", err)
		return
	}
	for i := range list {
		list[i].PreferOwnerImages(owners[list[i].UserID])
	}
	writeJSON(w, http.StatusOK, list)
}

// Mine returns the caller's own profile.
func (h *Showrooms) Mine(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromCtx(r.Context())
	sr, err := h.showrooms.FindByUser(r.Context(), u.ID)
	if err != nil {
		serverError(w, r, "find my showroom", err)
		return
	}
	if sr == nil {
		writeMessage(w, http.StatusNotFound, "Showroom non trouvé")
		return
	}
	sr.PreferOwnerImages(u)
	writeJSON(w, http.StatusOK, sr)
}

// showroomPage is a profile with a sample of its owner's listings.
type showroomPage struct {
	*models.Showroom
	Cars []models.Car `json:"cars"`
}

// Get returns one profile with up to 20 of its owner's listings.
func (h *Showrooms) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeMessage(w, http.StatusNotFound, "Showroom non trouvé")
		return
	}
	sr, err := h.showrooms.FindByID(r.Context(), id)
	if err != nil {
		serverError(w, r, "find showroom", err)
		return
	}
	if sr == nil {
		writeMessage(w, http.StatusNotFound, "Showroom non trouvé")
		return
	}

	owner, err := h.users.FindByID(r.Context(), sr.UserID)
	if err != nil {
		serverError(w, r, "find showroom owner", err)
		return
	}
	sr.PreferOwnerImages(owner)

	cars, err := h.cars.ListByUser(r.Context(), sr.UserID, showroomCarsLimit)
	if err != nil {
		serverError(w, r, "list showroom cars", err)
		return
	}
	writeJSON(w, http.StatusOK, showroomPage{Showroom: sr, Cars: cars})
}

// Create opens the caller's dealer profile and promotes an ordinary
// account to dealer.
func (h *Showrooms) Create(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromCtx(r.Context())

	var p dealer.ProfilePatch
	if err := decodeJSON(w, r, &p); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	// Rating, reviews and verification are administrator-managed.
	p.Rating, p.ReviewsCount, p.IsVerified = nil, nil, nil

	sr, err := h.dealers.Create(r.Context(), u.ID, p)
	if err != nil {
		h.dealerError(w, r, "create showroom", err)
		return
	}
	invalidateStats(r.Context(), h.cache)
	writeJSON(w, http.StatusCreated, sr)
}

// UpdateOwn patches the caller's own profile.
func (h *Showrooms) UpdateOwn(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromCtx(r.Context())

	var p dealer.ProfilePatch
	if err := decodeJSON(w, r, &p); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	sr, err := h.dealers.UpdateOwn(r.Context(), u.ID, p)
	if err != nil {
		h.dealerError(w, r, "update own showroom", err)
		return
	}
	writeJSON(w, http.StatusOK, sr)
}

// AdminUpdate patches any profile (admin).
func (h *Showrooms) AdminUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeMessage(w, http.StatusNotFound, "Showroom non trouvé")
		return
	}

	var p dealer.ProfilePatch
	if err := decodeJSON(w, r, &p); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	sr, err := h.dealers.AdminUpdate(r.Context(), id, p)
	if err != nil {
		h.dealerError(w, r, "admin update showroom", err)
		return
	}
	writeJSON(w, http.StatusOK, sr)
}

// Delete removes any profile (admin). The owner keeps the dealer role.
func (h *Showrooms) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeMessage(w, http.StatusNotFound, "Showroom non trouvé")
		return
	}
	if err := h.dealers.Delete(r.Context(), id); err != nil {
		h.dealerError(w, r, "delete showroom", err)
		return
	}
	writeMessage(w, http.StatusOK, "Showroom supprimé")
}

// dealerError maps synchronizer errors onto API responses.
func (h *Showrooms) dealerError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, dealer.ErrInvalidProfile):
		writeMessage(w, http.StatusBadRequest, "Nom, ville et téléphone sont requis")
	case errors.Is(err, dealer.ErrProfileExists):
		writeMessage(w, http.StatusBadRequest, "Vous avez déjà un showroom")
	case errors.Is(err, dealer.ErrProfileNotFound):
		writeMessage(w, http.StatusNotFound, "Showroom non trouvé")
	case errors.Is(err, dealer.ErrAccountNotFound):
		writeMessage(w, http.StatusNotFound, "Utilisateur non trouvé")
	default:
		serverError(w, r, op, err)
	}
}
