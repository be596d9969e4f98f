// Package model defines the domain records mirrored from the restaurant API.
package model

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// LatLng is a geographic coordinate pair for the map collaborator.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// LooseBool tolerates the API's mixed boolean encoding: the stage-3 server
// flips is_favorite between true/false and "true"/"false" depending on how
// the record was last written.
type LooseBool bool

// MarshalJSON always encodes a proper JSON boolean.
func (b LooseBool) MarshalJSON() ([]byte, error) {
	return json.Marshal(bool(b))
}

// UnmarshalJSON accepts booleans, their quoted forms, and null.
func (b *LooseBool) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case "true", `"true"`:
		*b = true
		return nil
	case "false", `"false"`, "null", `""`:
		*b = false
		return nil
	}
	return fmt.Errorf("loose bool: cannot decode %s", data)
}

// Restaurant is a directory entry as served by the API and cached locally.
// UpdatedAt drives the freshness comparison in the local store.
type Restaurant struct {
	ID             int               `json:"id"`
	Name           string            `json:"name"`
	Neighborhood   string            `json:"neighborhood"`
	Photograph     string            `json:"photograph,omitempty"`
	Address        string            `json:"address,omitempty"`
	LatLng         LatLng            `json:"latlng"`
	CuisineType    string            `json:"cuisine_type"`
	OperatingHours map[string]string `json:"operating_hours,omitempty"`
	IsFavorite     LooseBool         `json:"is_favorite"`
	CreatedAt      Timestamp         `json:"createdAt,omitzero"`
	UpdatedAt      Timestamp         `json:"updatedAt,omitzero"`
}

// ImageBasename returns the photograph reference, falling back to the
// restaurant id when the record has no photograph field.
func (r Restaurant) ImageBasename() string {
	if r.Photograph != "" {
		return r.Photograph
	}
	return strconv.Itoa(r.ID)
}
