// Forkrank - Pairwise Restaurant Rankings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkrank

package database

import (
	"context"
	"fmt"

	"github.com/tomtom215/forkrank/internal/logging"
	"github.com/tomtom215/forkrank/internal/validation"
)

// SeedRestaurant is a catalog entry loaded at first start.
type SeedRestaurant struct {
	Name         string   `json:"name" validate:"required,max=200"`
	Area         string   `json:"area" validate:"required,max=100"`
	CuisineTypes []string `json:"cuisineTypes" validate:"required,min=1,dive,cuisine"`
}

// DefaultCatalog is the starter catalog of Washington, DC restaurants.
func DefaultCatalog() []SeedRestaurant {
	return []SeedRestaurant{
		{Name: "Rose's Luxury", Area: "Capitol Hill", CuisineTypes: []string{"American", "Contemporary"}},
		{Name: "Bad Saint", Area: "Columbia Heights", CuisineTypes: []string{"Filipino", "Asian"}},
		{Name: "Le Diplomate", Area: "14th Street", CuisineTypes: []string{"French", "European"}},
		{Name: "Thip Khao", Area: "Columbia Heights", CuisineTypes: []string{"Lao", "Asian"}},
		{Name: "Maydan", Area: "U Street", CuisineTypes: []string{"Middle Eastern", "Mediterranean"}},
		{Name: "Compass Rose", Area: "14th Street", CuisineTypes: []string{"International", "Small Plates"}},
		{Name: "Tail Up Goat", Area: "Adams Morgan", CuisineTypes: []string{"Mediterranean", "Contemporary"}},
		{Name: "Daikaya", Area: "Chinatown", CuisineTypes: []string{"Japanese", "Ramen", "Asian"}},
	}
}

// SeedCatalog inserts catalog when the restaurants table is empty and
// returns the number of restaurants inserted.
func (db *DB) SeedCatalog(ctx context.Context, catalog []SeedRestaurant) (int, error) {
	count, err := db.CountRestaurants(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		logging.Debug().Int("restaurants", count).Msg("Catalog already present, skipping seed")
		return 0, nil
	}

	for i := range catalog {
		if verr := validation.ValidateStruct(&catalog[i]); verr != nil {
			return 0, fmt.Errorf("invalid catalog entry %d: %w", i, verr)
		}
	}

	for i, r := range catalog {
		if _, err := db.CreateRestaurant(ctx, r.Name, r.Area, r.CuisineTypes); err != nil {
			return i, fmt.Errorf("seed restaurant %q: %w", r.Name, err)
		}
	}

	logging.Info().Int("restaurants", len(catalog)).Msg("Seeded restaurant catalog")
	return len(catalog), nil
}
