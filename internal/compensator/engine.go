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

// Package compensator computes the supply ("flow") temperature for an
// underfloor heating circuit from the outdoor temperature and the state
// of its zones. It is pure computation: no I/O, no clocks, no locks.
// Callers that share an Engine across goroutines serialize access
// themselves; independent engines are fully independent.
package compensator

import (
	"errors"
	"fmt"

	"github.com/antst/ufwc/internal/heat_curve"
)

// adjustmentSwing maps the demand adjustment band [0.5,1.5] onto a
// +-2.5 degree correction of the curve output.
const adjustmentSwing = 5.0

// ErrUnknownZone is returned by zone mutators when the named zone was
// never added.
var ErrUnknownZone = errors.New("unknown zone")

// Engine owns the zone collection and the curve configuration, and keeps
// the last computed flow temperature for the read accessors.
type Engine struct {
	cfg   Config
	zones zoneSet

	lastFlow    float64
	lastOutdoor *float64
}

func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		cfg:      cfg,
		zones:    zoneSet{},
		lastFlow: cfg.MinFlowTemp,
	}, nil
}

// AddZone creates the named zone or replaces it wholesale. A replaced
// zone loses all runtime state, including any temperature feedback it
// had. New zones start active with a neutral demand factor.
func (e *Engine) AddZone(name string, spec ZoneSpec) {
	z := &Zone{
		Name:         name,
		Area:         spec.Area,
		HeatDemand:   DefaultHeatDemand,
		TempTarget:   e.cfg.RoomTempTarget,
		DemandFactor: 1.0,
		Active:       true,
	}
	if spec.HeatDemand != nil {
		z.HeatDemand = *spec.HeatDemand
	}
	if spec.TempTarget != nil {
		z.TempTarget = *spec.TempTarget
	}
	e.zones[name] = z
}

func (e *Engine) zone(name string) (*Zone, error) {
	z, ok := e.zones[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownZone, name)
	}
	return z, nil
}

func (e *Engine) SetZoneActive(name string, active bool) error {
	z, err := e.zone(name)
	if err != nil {
		return err
	}
	z.Active = active
	return nil
}

func (e *Engine) SetZoneDemandFactor(name string, factor float64) error {
	z, err := e.zone(name)
	if err != nil {
		return err
	}
	z.DemandFactor = clampDemandFactor(factor)
	return nil
}

func (e *Engine) SetZoneCurrentTemp(name string, temp float64) error {
	z, err := e.zone(name)
	if err != nil {
		return err
	}
	z.CurrentTemp = &temp
	return nil
}

func (e *Engine) SetZoneTarget(name string, target float64) error {
	z, err := e.zone(name)
	if err != nil {
		return err
	}
	z.TempTarget = target
	return nil
}

func (e *Engine) SetCurveSlope(slope float64)   { e.cfg.CurveSlope = slope }
func (e *Engine) SetCurveOffset(offset float64) { e.cfg.CurveOffset = offset }

// SetCurveFactor rejects factors the current curve shape cannot evaluate.
func (e *Engine) SetCurveFactor(factor float64) error {
	if err := heat_curve.ValidateFactor(e.cfg.CurveType, factor); err != nil {
		return err
	}
	e.cfg.CurveFactor = factor
	return nil
}

// SetCurveType switches the curve shape. The configured factor must stay
// valid under the new shape, otherwise the switch is refused.
func (e *Engine) SetCurveType(name string) error {
	ct, err := heat_curve.ParseCurveType(name)
	if err != nil {
		return err
	}
	if err := heat_curve.ValidateFactor(ct, e.cfg.CurveFactor); err != nil {
		return err
	}
	e.cfg.CurveType = ct
	return nil
}

// Calculate runs the two-stage pipeline: the heating curve anchored to
// the effective target gives the base value, then the zone feedback
// shifts it within the configured bounds. Above the base outdoor
// temperature heating is off and the feedback correction does not apply;
// a satisfied house must not pull the supply back up.
func (e *Engine) Calculate(outdoorTemp float64) Result {
	target := e.zones.effectiveTarget(e.cfg.RoomTempTarget)
	base := heat_curve.BaseFlowTemp(outdoorTemp, target, e.cfg.curveParams())
	demand := e.zones.totalDemand()
	adjustment := e.zones.demandAdjustment()

	flow := base
	if outdoorTemp < e.cfg.BaseOutdoorTemp {
		flow = heat_curve.Bound(base+(adjustment-1)*adjustmentSwing, e.cfg.MinFlowTemp, e.cfg.MaxFlowTemp)
	}

	e.lastFlow = flow
	e.lastOutdoor = &outdoorTemp

	return Result{
		FlowTemp:        flow,
		BaseFlowTemp:    base,
		OutdoorTemp:     outdoorTemp,
		EffectiveTarget: target,
		Adjustment:      adjustment,
		TotalDemandW:    demand.PowerW,
		ActiveAreaM2:    demand.ActiveArea,
		ActiveZones:     demand.ActiveZones,
		AvgDemandWPerM2: demand.AvgWPerM2,
	}
}

// FlowTemperature returns the last computed flow temperature without
// recomputation. Before the first Calculate it reports the configured
// minimum.
func (e *Engine) FlowTemperature() float64 {
	return e.lastFlow
}

// Status recomputes the demand totals and merges them with the cached
// flow temperature and a per-zone dump.
func (e *Engine) Status() Status {
	demand := e.zones.totalDemand()
	s := Status{
		FlowTemp:        e.lastFlow,
		RoomTempTarget:  e.cfg.RoomTempTarget,
		EffectiveTarget: e.zones.effectiveTarget(e.cfg.RoomTempTarget),
		TotalDemandW:    demand.PowerW,
		ActiveAreaM2:    demand.ActiveArea,
		ActiveZones:     demand.ActiveZones,
		AvgDemandWPerM2: demand.AvgWPerM2,
		Zones:           e.ZonesInfo(),
	}
	if e.lastOutdoor != nil {
		v := *e.lastOutdoor
		s.OutdoorTemp = &v
	}
	return s
}

// ZonesInfo reports every zone, active or not. HeatDemandW is the zone's
// instantaneous area * demand * factor figure regardless of the active
// flag; only the engine-level totals restrict themselves to active zones.
func (e *Engine) ZonesInfo() []ZoneInfo {
	infos := make([]ZoneInfo, 0, len(e.zones))
	for _, name := range e.zones.sortedNames() {
		z := e.zones[name]
		zi := ZoneInfo{
			Name:         z.Name,
			Area:         z.Area,
			Active:       z.Active,
			TempTarget:   z.TempTarget,
			DemandFactor: z.DemandFactor,
			HeatDemandW:  z.Area * z.HeatDemand * z.DemandFactor,
		}
		if z.CurrentTemp != nil {
			v := *z.CurrentTemp
			zi.CurrentTemp = &v
		}
		infos = append(infos, zi)
	}
	return infos
}
