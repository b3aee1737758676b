/*
 * Copyright (c) 2025. Anton Starikov -- All Rights Reserved
 *
 * This file is part of UFWC project.
 *
 * UFWC is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as the Free Software Foundation,
 * either version 3 of the License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 */

// Package heat_curve maps an outdoor temperature onto the flow temperature
// an underfloor circuit needs to hold a given room target. Three curve
// shapes are supported; the nonlinear ones normalize the outdoor span
// [design..base] onto [0,1] before applying the nonlinearity and rescale by
// the span afterwards, so the slope keeps the same physical meaning for
// every shape.
package heat_curve

import (
	"errors"
	"fmt"
	"math"
)

// CurveType selects the shape of the heating curve.
type CurveType string

const (
	// CurveLinear raises the flow temperature proportionally to the
	// outdoor deficit.
	CurveLinear CurveType = "linear"
	// CurveLogarithmic front-loads the boost: steep as soon as it gets
	// cold, flattening towards the design temperature.
	CurveLogarithmic CurveType = "logarithmic"
	// CurveExponential defers the boost: gentle in mild weather, steep
	// only in deep cold.
	CurveExponential CurveType = "exponential"
)

// ErrUnknownCurveType is returned for curve names outside the closed set.
var ErrUnknownCurveType = errors.New("unknown curve type")

// ErrBadCurveFactor is returned when a factor would make the selected
// shape divide by zero or take the log of a non-positive number.
var ErrBadCurveFactor = errors.New("invalid curve factor")

// ParseCurveType validates a curve name against the closed set.
func ParseCurveType(name string) (CurveType, error) {
	switch t := CurveType(name); t {
	case CurveLinear, CurveLogarithmic, CurveExponential:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCurveType, name)
}

// ValidateFactor checks that factor keeps the curve math finite under the
// given shape. Linear curves ignore the factor entirely.
func ValidateFactor(t CurveType, factor float64) error {
	if t == CurveLinear {
		return nil
	}
	if factor == 0 {
		return fmt.Errorf("%w: 0 under %s curve", ErrBadCurveFactor, t)
	}
	if t == CurveLogarithmic && factor <= -1 {
		return fmt.Errorf("%w: %g must be > -1 under %s curve", ErrBadCurveFactor, factor, t)
	}
	return nil
}

// Params carries everything the evaluation needs besides the two live
// temperatures.
type Params struct {
	MinFlowTemp       float64
	MaxFlowTemp       float64
	BaseOutdoorTemp   float64
	DesignOutdoorTemp float64
	Type              CurveType
	Slope             float64
	Offset            float64
	Factor            float64
}

// Validate rejects parameter sets under which the curve math is not
// well-defined: inverted flow bounds, a design temperature at or above the
// base temperature (the normalization span collapses), and factors the
// selected shape cannot tolerate.
func (p Params) Validate() error {
	if _, err := ParseCurveType(string(p.Type)); err != nil {
		return err
	}
	if p.MinFlowTemp > p.MaxFlowTemp {
		return fmt.Errorf("min flow temp %g above max flow temp %g", p.MinFlowTemp, p.MaxFlowTemp)
	}
	if p.DesignOutdoorTemp >= p.BaseOutdoorTemp {
		return fmt.Errorf("design outdoor temp %g must be below base outdoor temp %g",
			p.DesignOutdoorTemp, p.BaseOutdoorTemp)
	}
	return ValidateFactor(p.Type, p.Factor)
}

// BaseFlowTemp evaluates the heating curve for one outdoor reading and one
// target room temperature. At or above the base outdoor temperature the
// heating season is over and the minimum flow temperature is returned
// outright, without consulting the curve. The outdoor range is NOT clamped
// at the design temperature: colder readings extrapolate the shape until
// the max bound catches them.
func BaseFlowTemp(outdoorTemp, target float64, p Params) float64 {
	if outdoorTemp >= p.BaseOutdoorTemp {
		return p.MinFlowTemp
	}
	tempDiff := p.BaseOutdoorTemp - outdoorTemp

	var flow float64
	switch p.Type {
	case CurveLogarithmic:
		maxDiff := p.BaseOutdoorTemp - p.DesignOutdoorTemp
		normalized := tempDiff / maxDiff
		logValue := math.Log(p.Factor*normalized+1) / math.Log(p.Factor+1)
		flow = target + logValue*maxDiff*p.Slope + p.Offset
	case CurveExponential:
		maxDiff := p.BaseOutdoorTemp - p.DesignOutdoorTemp
		normalized := tempDiff / maxDiff
		expValue := (math.Exp(p.Factor*normalized) - 1) / (math.Exp(p.Factor) - 1)
		flow = target + expValue*maxDiff*p.Slope + p.Offset
	default:
		flow = target + tempDiff*p.Slope + p.Offset
	}

	return Bound(flow, p.MinFlowTemp, p.MaxFlowTemp)
}

// Bound clamps v into [lo, hi].
func Bound(v, lo, hi float64) float64 {
	if v > hi {
		return hi
	}
	if v < lo {
		return lo
	}
	return v
}
