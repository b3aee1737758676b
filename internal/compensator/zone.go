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

package compensator

import (
	"sort"

	"github.com/antst/ufwc/internal/heat_curve"
)

const (
	// DefaultHeatDemand is the assumed power density of a floor loop
	// when the zone declaration does not specify one.
	DefaultHeatDemand = 100.0 // W/m2

	minDemandFactor = 0.0
	maxDemandFactor = 2.0

	// feedbackGain converts a zone's temperature error into a demand
	// contribution: a room 2 degrees short of target adds 0.3 on top
	// of its demand factor.
	feedbackGain = 0.15

	minAdjustment = 0.5
	maxAdjustment = 1.5
)

// Zone is one independently heated area. CurrentTemp stays nil until the
// first feedback reading arrives.
type Zone struct {
	Name         string
	Area         float64 // m2
	HeatDemand   float64 // W/m2
	TempTarget   float64
	DemandFactor float64
	Active       bool
	CurrentTemp  *float64
}

// ZoneSpec declares a zone for AddZone. Nil fields take the defaults:
// DefaultHeatDemand and the configured room target.
type ZoneSpec struct {
	Area       float64
	HeatDemand *float64
	TempTarget *float64
}

type zoneSet map[string]*Zone

// sortedNames keeps every aggregation below deterministic, so repeated
// calculations over unchanged state are bit-identical.
func (zs zoneSet) sortedNames() []string {
	names := make([]string, 0, len(zs))
	for name := range zs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// effectiveTarget picks the temperature the heating curve is anchored to:
// the maximum target among active zones. Supply is sized for the most
// demanding zone so every active zone can reach its target; satisfied
// zones throttle locally at the valve. With no active zones the global
// room target applies.
func (zs zoneSet) effectiveTarget(roomTarget float64) float64 {
	target := roomTarget
	found := false
	for _, name := range zs.sortedNames() {
		z := zs[name]
		if !z.Active {
			continue
		}
		if !found || z.TempTarget > target {
			target = z.TempTarget
			found = true
		}
	}
	return target
}

type demandTotals struct {
	PowerW      float64
	ActiveArea  float64
	ActiveZones int
	AvgWPerM2   float64
}

func (zs zoneSet) totalDemand() demandTotals {
	var d demandTotals
	for _, name := range zs.sortedNames() {
		z := zs[name]
		if !z.Active {
			continue
		}
		d.PowerW += z.Area * z.HeatDemand * z.DemandFactor
		d.ActiveArea += z.Area
		d.ActiveZones++
	}
	if d.ActiveArea > 0 {
		d.AvgWPerM2 = d.PowerW / d.ActiveArea
	}
	return d
}

// demandAdjustment averages per-zone demand contributions over the active
// zones. A zone with temperature feedback contributes its demand factor
// plus a proportional term on the error; without feedback the demand
// factor stands alone. No active zones means a neutral 1.0, before any
// clamping.
func (zs zoneSet) demandAdjustment() float64 {
	sum := 0.0
	active := 0
	for _, name := range zs.sortedNames() {
		z := zs[name]
		if !z.Active {
			continue
		}
		contribution := z.DemandFactor
		if z.CurrentTemp != nil {
			contribution += (z.TempTarget - *z.CurrentTemp) * feedbackGain
		}
		sum += contribution
		active++
	}
	if active == 0 {
		return 1.0
	}
	return heat_curve.Bound(sum/float64(active), minAdjustment, maxAdjustment)
}

func clampDemandFactor(v float64) float64 {
	return heat_curve.Bound(v, minDemandFactor, maxDemandFactor)
}
