// Forkrank - Pairwise Restaurant Rankings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkrank

// Package crowdbt implements the CrowdBT pairwise rating update.
//
// CrowdBT is a Bradley-Terry model where every item carries a strength
// (Value) and an uncertainty (Sigma). A single observed outcome moves both
// items by an amount proportional to how surprising the outcome was and to
// each item's own uncertainty, after which both uncertainties shrink
// multiplicatively toward a floor.
//
// The update is a pure function of its inputs and the (Beta, Gamma)
// parameters, so replaying the same ordered sequence of outcomes from the
// same starting state always yields identical ratings.
//
//	params := crowdbt.DefaultParams()
//	winner, loser := params.Update(crowdbt.Initial(0), crowdbt.Initial(0))
//	// winner = {0.25 0.875}, loser = {-0.25 0.875}
package crowdbt

import (
	"errors"
	"fmt"
	"math"
)

const (
	// DefaultBeta is the default learning rate applied to the surprise term.
	DefaultBeta = 0.5

	// DefaultGamma is the default uncertainty shrink rate.
	DefaultGamma = 0.5

	// InitialSigma is the uncertainty assigned to an item with no history.
	InitialSigma = 1.0

	// SigmaFloorFactor bounds the multiplicative shrink applied to sigma on
	// each update, so sigma never collapses to zero.
	SigmaFloorFactor = 0.1
)

// ErrInvalidParams is returned when Beta or Gamma is not a positive finite number.
var ErrInvalidParams = errors.New("invalid crowdbt parameters")

// Params holds the model constants.
type Params struct {
	// Beta scales the rating step: k = Beta * (1 - p).
	Beta float64

	// Gamma scales the uncertainty shrink: sigma' = sigma * max(1 - Gamma*k*sigma, 0.1).
	Gamma float64
}

// DefaultParams returns Beta = Gamma = 0.5.
func DefaultParams() Params {
	return Params{Beta: DefaultBeta, Gamma: DefaultGamma}
}

// Validate checks that both constants are positive and finite.
func (p Params) Validate() error {
	if !isPositiveFinite(p.Beta) {
		return fmt.Errorf("%w: beta must be positive and finite, got %v", ErrInvalidParams, p.Beta)
	}
	if !isPositiveFinite(p.Gamma) {
		return fmt.Errorf("%w: gamma must be positive and finite, got %v", ErrInvalidParams, p.Gamma)
	}
	return nil
}

// Rating is an item's strength and uncertainty.
type Rating struct {
	Value float64 `json:"rating"`
	Sigma float64 `json:"sigma"`
}

// Initial returns a rating at the given baseline with full uncertainty.
func Initial(value float64) Rating {
	return Rating{Value: value, Sigma: InitialSigma}
}

// Finite reports whether both Value and Sigma are finite numbers.
func (r Rating) Finite() bool {
	return !math.IsNaN(r.Value) && !math.IsInf(r.Value, 0) &&
		!math.IsNaN(r.Sigma) && !math.IsInf(r.Sigma, 0)
}

// Probability returns the modelled probability that winner beats loser,
// a logistic link on the rating difference.
func (p Params) Probability(winner, loser Rating) float64 {
	return 1.0 / (1.0 + math.Exp(loser.Value-winner.Value))
}

// Update applies one observed outcome and returns the new winner and loser ratings.
//
// The more surprising the win, the larger the step. Each item moves in
// proportion to its own sigma, and each sigma shrinks by a factor that never
// drops below SigmaFloorFactor.
func (p Params) Update(winner, loser Rating) (Rating, Rating) {
	k := p.Beta * (1.0 - p.Probability(winner, loser))

	newWinner := Rating{
		Value: winner.Value + k*winner.Sigma,
		Sigma: p.shrink(winner.Sigma, k),
	}
	newLoser := Rating{
		Value: loser.Value - k*loser.Sigma,
		Sigma: p.shrink(loser.Sigma, k),
	}
	return newWinner, newLoser
}

func (p Params) shrink(sigma, k float64) float64 {
	return sigma * math.Max(1.0-p.Gamma*k*sigma, SigmaFloorFactor)
}

func isPositiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
