package models

import (
	"errors"
	"strings"
)

// Location is one of the fixed delivery zones.
type Location string

const (
	LocationMargao Location = "margao"
	LocationPanjim Location = "panjim"
	LocationVasco  Location = "vasco"
)

var ErrUnknownLocation = errors.New("location must be margao, panjim or vasco")

// Locations lists every delivery zone in display order.
func Locations() []Location {
	return []Location{LocationMargao, LocationPanjim, LocationVasco}
}

// ParseLocation normalizes user input ("  Panjim ") into a zone.
func ParseLocation(s string) (Location, error) {
	l := Location(strings.ToLower(strings.TrimSpace(s)))
	if !l.Valid() {
		return "", ErrUnknownLocation
	}
	return l, nil
}

func (l Location) Valid() bool {
	switch l {
	case LocationMargao, LocationPanjim, LocationVasco:
		return true
	}
	return false
}

// Column is the products column holding the availability flag for the zone.
func (l Location) Column() string {
	return "available_" + string(l)
}
