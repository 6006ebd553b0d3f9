// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"autoparc/internal/auth"
	"autoparc/internal/middleware"
	"autoparc/internal/models"
	"autoparc/internal/store"
)

// TokenRevoker blacklists a token until it would have expired.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
}

// Users groups the account endpoints: registration, login, profile,
// favorites, two-factor setup and administration.
type Users struct {
	db      *sql.DB
	users   *store.UserStore
	cars    *store.CarStore
	tokens  *auth.Tokens
	revoker TokenRevoker
	cache   ResponseCache
}

// NewUsers creates the Users handler group. revoker and c may be nil.
func NewUsers(db *sql.DB, tokens *auth.Tokens, revoker TokenRevoker, c ResponseCache) *Users {
	return &Users{
		db:      db,
		users:   store.NewUserStore(db),
		cars:    store.NewCarStore(db),
		tokens:  tokens,
		revoker: revoker,
		cache:   orNoCache(c),
	}
}

// authResponse is returned by register, login and profile updates.
type authResponse struct {
	ID     uuid.UUID   `json:"_id"`
	Nom    string      `json:"nom"`
	Prenom string      `json:"prenom"`
	Email  string      `json:"email"`
	Role   models.Role `json:"role"`
	Phone  string      `json:"phone"`
	Ville  string      `json:"ville"`
	Token  string      `json:"token,omitempty"`
}

func newAuthResponse(u *models.User, token string) authResponse {
	return authResponse{
		ID: u.ID, Nom: u.Nom, Prenom: u.Prenom, Email: u.Email,
		Role: u.Role, Phone: u.Phone, Ville: u.Ville, Token: token,
	}
}

type registerInput struct {
	Nom      string `json:"nom"`
	Prenom   string `json:"prenom"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Ville    string `json:"ville"`
	Role     string `json:"role"`
}

// Register creates an account. Only SHOWROOM may be requested; any other
// role value yields an ordinary account.
func (h *Users) Register(w http.ResponseWriter, r *http.Request) {
	var in registerInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	in.Email = strings.TrimSpace(in.Email)
	if msg := validateRegistration(in); msg != "" {
		writeMessage(w, http.StatusBadRequest, msg)
		return
	}

	role := models.RoleUser
	if models.Role(in.Role) == models.RoleShowroom {
		role = models.RoleShowroom
	}

	u, err := h.users.Create(r.Context(), store.NewUser{
		Nom:      strings.TrimSpace(in.Nom),
		Prenom:   strings.TrimSpace(in.Prenom),
		Email:    in.Email,
		Password: in.Password,
		Phone:    strings.TrimSpace(in.Phone),
		Ville:    strings.TrimSpace(in.Ville),
		Role:     role,
	})
	if errors.Is(err, store.ErrDuplicate) {
		writeMessage(w, http.StatusBadRequest, "Cet email est déjà utilisé")
		return
	}
	if err != nil {
		serverError(w, r, "register user", err)
		return
	}
	if role == models.RoleShowroom {
		invalidateStats(r.Context(), h.cache)
	}

	token, err := h.tokens.Issue(u.ID)
	if err != nil {
		serverError(w, r, "issue token", err)
		return
	}
	slog.Info("account registered", "user_id", u.ID, "role", u.Role)
	writeJSON(w, http.StatusCreated, newAuthResponse(u, token))
}

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Code     string `json:"code"`
}

// Login verifies credentials and, for accounts with two-factor enabled,
// the TOTP code, then issues a token.
func (h *Users) Login(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	u, err := h.users.FindByEmail(r.Context(), strings.TrimSpace(in.Email))
	if err != nil {
		serverError(w, r, "login lookup", err)
		return
	}
	if u == nil || !h.users.CheckPassword(u, in.Password) {
		writeMessage(w, http.StatusUnauthorized, "Email ou mot de passe incorrect")
		return
	}

	if u.TOTPEnabled {
		if in.Code == "" {
			writeMessage(w, http.StatusUnauthorized, "Code de vérification requis")
			return
		}
		if u.TOTPSecret == nil || !auth.ValidateCode(in.Code, *u.TOTPSecret) {
			writeMessage(w, http.StatusUnauthorized, "Code de vérification invalide")
			return
		}
	}

	token, err := h.tokens.Issue(u.ID)
	if err != nil {
		serverError(w, r, "issue token", err)
		return
	}
	writeJSON(w, http.StatusOK, newAuthResponse(u, token))
}

// Logout revokes the token that authenticated the request.
func (h *Users) Logout(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromCtx(r.Context())
	if claims != nil && h.revoker != nil {
		if err := h.revoker.Revoke(r.Context(), claims.TokenID, claims.ExpiresAt); err != nil {
			serverError(w, r, "revoke token", err)
			return
		}
	}
	writeMessage(w, http.StatusOK, "Déconnexion réussie")
}

// profileResponse is the account with its favorite listings populated.
type profileResponse struct {
	*models.User
	Favorites []models.Car `json:"favorites"`
}

// Profile returns the caller's account and favorite listings.
func (h *Users) Profile(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromCtx(r.Context())

	favorites, err := h.cars.ListFavorites(r.Context(), u.ID)
	if err != nil {
		serverError(w, r, "list favorites", err)
		return
	}
	writeJSON(w, http.StatusOK, profileResponse{User: u, Favorites: favorites})
}

type profileInput struct {
	Nom      string `json:"nom"`
	Prenom   string `json:"prenom"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Ville    string `json:"ville"`
	Password string `json:"password"`
}

// UpdateProfile overwrites the non-empty identity fields of the caller's
// account, optionally changing the password, and returns a fresh token.
func (h *Users) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	u := *middleware.UserFromCtx(r.Context())

	var in profileInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	overwrite(&u.Nom, in.Nom)
	overwrite(&u.Prenom, in.Prenom)
	overwrite(&u.Phone, in.Phone)
	overwrite(&u.Ville, in.Ville)
	if email := strings.TrimSpace(in.Email); email != "" {
		if msg := validateEmail(email); msg != "" {
			writeMessage(w, http.StatusBadRequest, msg)
			return
		}
		u.Email = email
	}
	if in.Password != "" {
		if msg := validatePassword(in.Password); msg != "" {
			writeMessage(w, http.StatusBadRequest, msg)
			return
		}
	}

	// Profile fields and password land together or not at all.
	err := store.InTx(r.Context(), h.db, func(tx *sql.Tx) error {
		users := store.NewUserStore(tx)
		if err := users.Save(r.Context(), &u); err != nil {
			return err
		}
		if in.Password != "" {
			return users.SetPassword(r.Context(), u.ID, in.Password)
		}
		return nil
	})
	if errors.Is(err, store.ErrDuplicate) {
		writeMessage(w, http.StatusBadRequest, "Cet email est déjà utilisé")
		return
	}
	if err != nil {
		serverError(w, r, "save profile", err)
		return
	}

	token, err := h.tokens.Issue(u.ID)
	if err != nil {
		serverError(w, r, "issue token", err)
		return
	}
	writeJSON(w, http.StatusOK, newAuthResponse(&u, token))
}

// AddFavorite saves a listing to the caller's favorites. Adding a listing
// twice is a no-op.
func (h *Users) AddFavorite(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromCtx(r.Context())
	carID, ok := pathID(r, "carId")
	if !ok {
		writeMessage(w, http.StatusNotFound, "Véhicule non trouvé")
		return
	}

	car, err := h.cars.FindByID(r.Context(), carID)
	if err != nil {
		serverError(w, r, "find car", err)
		return
	}
	if car == nil {
		writeMessage(w, http.StatusNotFound, "Véhicule non trouvé")
		return
	}

	if err := h.users.AddFavorite(r.Context(), u.ID, carID); err != nil {
		serverError(w, r, "add favorite", err)
		return
	}
	h.writeFavorites(w, r, u.ID, "Ajouté aux favoris")
}

// RemoveFavorite drops a listing from the caller's favorites. Removing a
// listing that is not saved is a no-op.
func (h *Users) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromCtx(r.Context())
	if carID, ok := pathID(r, "carId"); ok {
		if err := h.users.RemoveFavorite(r.Context(), u.ID, carID); err != nil {
			serverError(w, r, "remove favorite", err)
			return
		}
	}
	h.writeFavorites(w, r, u.ID, "Retiré des favoris")
}

func (h *Users) writeFavorites(w http.ResponseWriter, r *http.Request, userID uuid.UUID, msg string) {
	ids, err := h.users.FavoriteIDs(r.Context(), userID)
	if err != nil {
		serverError(w, r, "list favorite ids", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": msg, "favorites": ids})
}

// TwoFASetup generates a new TOTP secret for the caller and returns it
// with a QR code. The secret only takes effect once confirmed by TwoFAEnable.
func (h *Users) TwoFASetup(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromCtx(r.Context())
	if u.TOTPEnabled {
		writeMessage(w, http.StatusBadRequest, "L'authentification à deux facteurs est déjà activée")
		return
	}

	enrollment, err := auth.NewEnrollment(u.Email)
	if err != nil {
		serverError(w, r, "totp enrollment", err)
		return
	}
	if err := h.users.SetTOTPSecret(r.Context(), u.ID, enrollment.Secret); err != nil {
		serverError(w, r, "save totp secret", err)
		return
	}
	writeJSON(w, http.StatusOK, enrollment)
}

type codeInput struct {
	Code string `json:"code"`
}

// TwoFAEnable turns two-factor on once the caller proves they hold the
// secret issued by TwoFASetup.
func (h *Users) TwoFAEnable(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromCtx(r.Context())

	var in codeInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if u.TOTPSecret == nil {
		writeMessage(w, http.StatusBadRequest, "Configurez d'abord l'authentification à deux facteurs")
		return
	}
	if !auth.ValidateCode(in.Code, *u.TOTPSecret) {
		writeMessage(w, http.StatusBadRequest, "Code de vérification invalide")
		return
	}

	if err := h.users.EnableTOTP(r.Context(), u.ID); err != nil {
		serverError(w, r, "enable totp", err)
		return
	}
	slog.Info("2fa enabled", "user_id", u.ID)
	writeMessage(w, http.StatusOK, "Authentification à deux facteurs activée")
}

// TwoFADisable turns two-factor off; a current code is required.
func (h *Users) TwoFADisable(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromCtx(r.Context())

	var in codeInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if !u.TOTPEnabled || u.TOTPSecret == nil {
		writeMessage(w, http.StatusBadRequest, "L'authentification à deux facteurs n'est pas activée")
		return
	}
	if !auth.ValidateCode(in.Code, *u.TOTPSecret) {
		writeMessage(w, http.StatusBadRequest, "Code de vérification invalide")
		return
	}

	if err := h.users.ResetTOTP(r.Context(), u.ID); err != nil {
		serverError(w, r, "reset totp", err)
		return
	}
	slog.Info("2fa disabled", "user_id", u.ID)
	writeMessage(w, http.StatusOK, "Authentification à deux facteurs désactivée")
}

// List returns every account (admin).
func (h *Users) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		serverError(w, r, "list users", err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// findTarget loads the account named by the {id} URL parameter, writing
// a 404 when there is none.
func (h *Users) findTarget(w http.ResponseWriter, r *http.Request) *models.User {
	id, ok := pathID(r, "id")
	if !ok {
		writeMessage(w, http.StatusNotFound, "Utilisateur non trouvé")
		return nil
	}
	u, err := h.users.FindByID(r.Context(), id)
	if err != nil {
		serverError(w, r, "find user", err)
		return nil
	}
	if u == nil {
		writeMessage(w, http.StatusNotFound, "Utilisateur non trouvé")
		return nil
	}
	return u
}

// Get returns one account (admin).
func (h *Users) Get(w http.ResponseWriter, r *http.Request) {
	if u := h.findTarget(w, r); u != nil {
		writeJSON(w, http.StatusOK, u)
	}
}

type adminUserInput struct {
	Nom    string `json:"nom"`
	Prenom string `json:"prenom"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Phone  string `json:"phone"`
	Ville  string `json:"ville"`
}

// Update overwrites the non-empty identity fields of any account (admin).
func (h *Users) Update(w http.ResponseWriter, r *http.Request) {
	u := h.findTarget(w, r)
	if u == nil {
		return
	}

	var in adminUserInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	prevRole := u.Role
	overwrite(&u.Nom, in.Nom)
	overwrite(&u.Prenom, in.Prenom)
	overwrite(&u.Phone, in.Phone)
	overwrite(&u.Ville, in.Ville)
	if email := strings.TrimSpace(in.Email); email != "" {
		if msg := validateEmail(email); msg != "" {
			writeMessage(w, http.StatusBadRequest, msg)
			return
		}
		u.Email = email
	}
	if in.Role != "" {
		role := models.Role(in.Role)
		if !role.Valid() {
			writeMessage(w, http.StatusBadRequest, "Rôle invalide")
			return
		}
		u.Role = role
	}

	err := h.users.Save(r.Context(), u)
	if errors.Is(err, store.ErrDuplicate) {
		writeMessage(w, http.StatusBadRequest, "Cet email est déjà utilisé")
		return
	}
	if err != nil {
		serverError(w, r, "admin save user", err)
		return
	}
	if u.Role != prevRole {
		invalidateStats(r.Context(), h.cache)
	}
	writeJSON(w, http.StatusOK, newAuthResponse(u, ""))
}

// Delete removes an account (admin). Its listings and dealer profile are
// left in place.
func (h *Users) Delete(w http.ResponseWriter, r *http.Request) {
	u := h.findTarget(w, r)
	if u == nil {
		return
	}
	if err := h.users.Delete(r.Context(), u.ID); err != nil {
		serverError(w, r, "delete user", err)
		return
	}
	if u.IsShowroom() {
		invalidateStats(r.Context(), h.cache)
	}
	slog.Info("account deleted", "user_id", u.ID)
	writeMessage(w, http.StatusOK, "Utilisateur supprimé")
}

// overwrite replaces *dst with v when v is not blank.
func overwrite(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}
