// Forkrank - Pairwise Restaurant Rankings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkrank

package models

import (
	"strings"
	"time"
)

// Restaurant is a catalog entry.
//
// Rating and Sigma hold the global CrowdBT state. A restaurant that has never
// appeared in a choice comparison has Rating 0 and Sigma 1.
type Restaurant struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Area         string    `json:"area"`
	CuisineTypes []string  `json:"cuisineTypes"`
	Rating       float64   `json:"rating"`
	Sigma        float64   `json:"sigma"`
	CreatedAt    time.Time `json:"createdAt"`
}

// HasCuisine reports whether the restaurant is tagged with the cuisine,
// ignoring case.
func (r *Restaurant) HasCuisine(cuisine string) bool {
	for _, c := range r.CuisineTypes {
		if strings.EqualFold(c, cuisine) {
			return true
		}
	}
	return false
}

// RankedRestaurant is a catalog entry with its position in the global ranking.
type RankedRestaurant struct {
	Rank int `json:"rank"`
	Restaurant
}

// RestaurantPair is the pair offered to a user for comparison.
type RestaurantPair struct {
	Restaurants [2]Restaurant `json:"restaurants"`

	// Mode records which selection branch produced the pair:
	// "cold", "tried_pair" or "anchored".
	Mode string `json:"mode"`
}

// TriedMark records that a user claims to have eaten at a restaurant.
// At most one mark exists per (UserID, RestaurantID).
type TriedMark struct {
	UserID       string    `json:"userId"`
	RestaurantID int64     `json:"restaurantId"`
	CreatedAt    time.Time `json:"createdAt"`
}
