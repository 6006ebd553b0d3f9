// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Fuel is the enumerated fuel type of a listing.
type Fuel string

const (
	FuelEssence    Fuel = "Essence"
	FuelDiesel     Fuel = "Diesel"
	FuelGPL        Fuel = "GPL"
	FuelHybride    Fuel = "Hybride"
	FuelElectrique Fuel = "Electrique"
)

// Valid reports whether f is an accepted fuel type.
func (f Fuel) Valid() bool {
	switch f {
	case FuelEssence, FuelDiesel, FuelGPL, FuelHybride, FuelElectrique:
		return true
	}
	return false
}

// Gearbox is the enumerated transmission type of a listing.
type Gearbox string

const (
	GearboxManuelle    Gearbox = "Manuelle"
	GearboxAutomatique Gearbox = "Automatique"
)

// Valid reports whether g is an accepted transmission type.
func (g Gearbox) Valid() bool {
	return g == GearboxManuelle || g == GearboxAutomatique
}

// CarStatus is the lifecycle state of a listing.
type CarStatus string

const (
	CarStatusDisponible CarStatus = "DISPONIBLE"
	CarStatusVendu      CarStatus = "VENDU"
	CarStatusReserve    CarStatus = "RESERVE"
)

// Valid reports whether s is a known lifecycle state.
func (s CarStatus) Valid() bool {
	switch s {
	case CarStatusDisponible, CarStatusVendu, CarStatusReserve:
		return true
	}
	return false
}

// StringList is a JSONB array of strings (image references).
type StringList []string

// Value encodes the list as a JSON array. A nil list is stored as [].
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}

// Scan decodes a JSONB array.
func (l *StringList) Scan(src any) error {
	return scanJSON(src, l)
}

// MarshalJSON renders a nil list as [] rather than null.
func (l StringList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}

// Specifications is the nested technical block of a listing.
type Specifications struct {
	Moteur    string   `json:"moteur"`
	Puissance string   `json:"puissance"`
	Options   []string `json:"options"`
}

// Value encodes the block as JSONB.
func (s Specifications) Value() (driver.Value, error) {
	if s.Options == nil {
		s.Options = []string{}
	}
	return json.Marshal(s)
}

// Scan decodes the JSONB block.
func (s *Specifications) Scan(src any) error {
	return scanJSON(src, s)
}

func scanJSON(src any, dst any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("scan json: unsupported type %T", src)
	}
}

// Car is a single vehicle advertisement.
type Car struct {
	ID             uuid.UUID      `json:"_id"`
	UserID         uuid.UUID      `json:"-"`
	User           *Owner         `json:"user"`
	Marque         string         `json:"marque"`
	Modele         string         `json:"modele"`
	Version        string         `json:"version"`
	Prix           int64          `json:"prix"`
	Annee          int            `json:"annee"`
	Km             int64          `json:"km"`
	Carburant      Fuel           `json:"carburant"`
	Boite          Gearbox        `json:"boite"`
	Couleur        string         `json:"couleur"`
	Ville          string         `json:"ville"`
	Images         StringList     `json:"images"`
	Description    string         `json:"description"`
	ContactPhone   string         `json:"contactPhone"`
	Specifications Specifications `json:"specifications"`
	Status         CarStatus      `json:"status"`
	IsNew          bool           `json:"isNew"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// CarSuggestion is the reduced projection returned by autocomplete.
type CarSuggestion struct {
	ID        uuid.UUID  `json:"_id"`
	Marque    string     `json:"marque"`
	Modele    string     `json:"modele"`
	Prix      int64      `json:"prix"`
	Images    StringList `json:"images"`
	Annee     int        `json:"annee"`
	Carburant Fuel       `json:"carburant"`
	Boite     Gearbox    `json:"boite"`
}
