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
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/antst/ufwc/internal/heat_curve"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(DefaultConfig())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}

func approxEq(t *testing.T, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestNewEngineRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "min flow above max flow", mutate: func(c *Config) { c.MinFlowTemp = 50 }},
		{name: "design not below base", mutate: func(c *Config) { c.DesignOutdoorTemp = 18 }},
		{name: "zero factor logarithmic", mutate: func(c *Config) { c.CurveType = heat_curve.CurveLogarithmic; c.CurveFactor = 0 }},
		{name: "zero factor exponential", mutate: func(c *Config) { c.CurveType = heat_curve.CurveExponential; c.CurveFactor = 0 }},
		{name: "unknown curve type", mutate: func(c *Config) { c.CurveType = "spline" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if _, err := NewEngine(cfg); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestAddZoneDefaults(t *testing.T) {
	e := newTestEngine(t)
	e.AddZone("hall", ZoneSpec{Area: 12})
	zi := e.ZonesInfo()
	if len(zi) != 1 {
		t.Fatalf("got %d zones", len(zi))
	}
	z := zi[0]
	if !z.Active || z.DemandFactor != 1 || z.TempTarget != DefaultRoomTempTarget {
		t.Fatalf("unexpected defaults: %+v", z)
	}
	if z.HeatDemandW != 12*DefaultHeatDemand {
		t.Fatalf("heat demand: got %v", z.HeatDemandW)
	}
	if z.CurrentTemp != nil {
		t.Fatalf("fresh zone must have no feedback")
	}
}

func TestLinearCurveNoZones(t *testing.T) {
	e := newTestEngine(t)
	r := e.Calculate(5)
	// 21 + (18-5)*0.6 = 28.8, inside [25,45]; with no zones the
	// adjustment is neutral and the final equals the base.
	approxEq(t, r.BaseFlowTemp, 28.8)
	approxEq(t, r.FlowTemp, 28.8)
	if r.Adjustment != 1.0 {
		t.Fatalf("adjustment: got %v", r.Adjustment)
	}
	if r.EffectiveTarget != DefaultRoomTempTarget {
		t.Fatalf("target: got %v", r.EffectiveTarget)
	}
}

func TestBathScenario(t *testing.T) {
	e := newTestEngine(t)
	e.AddZone("bath", ZoneSpec{Area: 8, TempTarget: f64(23)})

	r := e.Calculate(0)
	// effective target 23, temp diff 18, base = 23 + 10.8 = 33.8.
	approxEq(t, r.BaseFlowTemp, 33.8)
	approxEq(t, r.FlowTemp, 33.8)
	if r.TotalDemandW != 800 {
		t.Fatalf("demand: got %v", r.TotalDemandW)
	}
	if r.Adjustment != 1.0 {
		t.Fatalf("adjustment without feedback: got %v", r.Adjustment)
	}

	// Two degrees below target: 1 + 2*0.15 = 1.3, final 33.8 + 0.3*5.
	if err := e.SetZoneCurrentTemp("bath", 21); err != nil {
		t.Fatalf("SetZoneCurrentTemp: %v", err)
	}
	r = e.Calculate(0)
	approxEq(t, r.Adjustment, 1.3)
	approxEq(t, r.FlowTemp, 35.3)
	approxEq(t, r.BaseFlowTemp, 33.8)
}

func TestHeatingOffAboveBaseOutdoor(t *testing.T) {
	e := newTestEngine(t)
	e.AddZone("bath", ZoneSpec{Area: 8, TempTarget: f64(23)})
	// Even a zone far below target cannot switch the supply back on
	// once the outdoor temperature reaches the heating limit.
	if err := e.SetZoneCurrentTemp("bath", 15); err != nil {
		t.Fatalf("SetZoneCurrentTemp: %v", err)
	}
	for _, ot := range []float64{18, 20, 30} {
		r := e.Calculate(ot)
		if r.FlowTemp != DefaultMinFlowTemp {
			t.Fatalf("at %.0f: got %v, want %v", ot, r.FlowTemp, DefaultMinFlowTemp)
		}
	}
}

func TestClampProperty(t *testing.T) {
	for _, ct := range []string{"linear", "logarithmic", "exponential"} {
		cfg := DefaultConfig()
		var err error
		cfg.CurveType, err = heat_curve.ParseCurveType(ct)
		if err != nil {
			t.Fatalf("ParseCurveType: %v", err)
		}
		e, err := NewEngine(cfg)
		if err != nil {
			t.Fatalf("NewEngine: %v", err)
		}
		e.AddZone("cold", ZoneSpec{Area: 20, TempTarget: f64(25)})
		if err := e.SetZoneCurrentTemp("cold", 10); err != nil {
			t.Fatalf("SetZoneCurrentTemp: %v", err)
		}
		for i := -40; i <= 30; i++ {
			r := e.Calculate(float64(i))
			if r.FlowTemp < cfg.MinFlowTemp || r.FlowTemp > cfg.MaxFlowTemp {
				t.Fatalf("%s at %d: flow %v out of bounds", ct, i, r.FlowTemp)
			}
			if r.BaseFlowTemp < cfg.MinFlowTemp || r.BaseFlowTemp > cfg.MaxFlowTemp {
				t.Fatalf("%s at %d: base %v out of bounds", ct, i, r.BaseFlowTemp)
			}
		}
	}
}

func TestCalculateIsPure(t *testing.T) {
	e := newTestEngine(t)
	e.AddZone("bath", ZoneSpec{Area: 8, TempTarget: f64(23)})
	e.AddZone("living", ZoneSpec{Area: 30, HeatDemand: f64(80)})
	if err := e.SetZoneCurrentTemp("bath", 21.3); err != nil {
		t.Fatalf("SetZoneCurrentTemp: %v", err)
	}

	r1 := e.Calculate(-3.7)
	r2 := e.Calculate(-3.7)
	if r1 != r2 {
		t.Fatalf("repeated calculation differs:\n%+v\n%+v", r1, r2)
	}

	s1 := e.Status()
	s2 := e.Status()
	if !reflect.DeepEqual(s1, s2) {
		t.Fatalf("repeated status differs:\n%+v\n%+v", s1, s2)
	}
}

func TestDeactivateOnlyZone(t *testing.T) {
	e := newTestEngine(t)
	e.AddZone("bath", ZoneSpec{Area: 8, TempTarget: f64(23)})
	if err := e.SetZoneActive("bath", false); err != nil {
		t.Fatalf("SetZoneActive: %v", err)
	}
	r := e.Calculate(0)
	if r.EffectiveTarget != DefaultRoomTempTarget {
		t.Fatalf("target: got %v", r.EffectiveTarget)
	}
	if r.TotalDemandW != 0 || r.ActiveZones != 0 || r.ActiveAreaM2 != 0 {
		t.Fatalf("expected zero demand, got %+v", r)
	}
}

func TestAddZoneReplaceResetsFeedback(t *testing.T) {
	e := newTestEngine(t)
	e.AddZone("bath", ZoneSpec{Area: 8, TempTarget: f64(23)})
	if err := e.SetZoneCurrentTemp("bath", 21); err != nil {
		t.Fatalf("SetZoneCurrentTemp: %v", err)
	}
	if err := e.SetZoneDemandFactor("bath", 1.8); err != nil {
		t.Fatalf("SetZoneDemandFactor: %v", err)
	}

	e.AddZone("bath", ZoneSpec{Area: 10})
	z := e.ZonesInfo()[0]
	if z.CurrentTemp != nil {
		t.Fatalf("replace must drop feedback, got %v", *z.CurrentTemp)
	}
	if z.DemandFactor != 1 || z.Area != 10 || z.TempTarget != DefaultRoomTempTarget {
		t.Fatalf("replace must reset fields: %+v", z)
	}
}

func TestUnknownZoneMutators(t *testing.T) {
	e := newTestEngine(t)
	if err := e.SetZoneActive("nope", true); !errors.Is(err, ErrUnknownZone) {
		t.Fatalf("SetZoneActive: %v", err)
	}
	if err := e.SetZoneDemandFactor("nope", 1); !errors.Is(err, ErrUnknownZone) {
		t.Fatalf("SetZoneDemandFactor: %v", err)
	}
	if err := e.SetZoneCurrentTemp("nope", 20); !errors.Is(err, ErrUnknownZone) {
		t.Fatalf("SetZoneCurrentTemp: %v", err)
	}
	if err := e.SetZoneTarget("nope", 22); !errors.Is(err, ErrUnknownZone) {
		t.Fatalf("SetZoneTarget: %v", err)
	}
}

func TestDemandFactorClampedOnWrite(t *testing.T) {
	e := newTestEngine(t)
	e.AddZone("hall", ZoneSpec{Area: 12})
	if err := e.SetZoneDemandFactor("hall", 5); err != nil {
		t.Fatalf("SetZoneDemandFactor: %v", err)
	}
	if got := e.ZonesInfo()[0].DemandFactor; got != 2 {
		t.Fatalf("got %v, want 2", got)
	}
	if err := e.SetZoneDemandFactor("hall", -3); err != nil {
		t.Fatalf("SetZoneDemandFactor: %v", err)
	}
	if got := e.ZonesInfo()[0].DemandFactor; got != 0 {
		t.Fatalf("got %v, want 0", got)
	}
}

func TestFlowTemperatureCache(t *testing.T) {
	e := newTestEngine(t)
	if got := e.FlowTemperature(); got != DefaultMinFlowTemp {
		t.Fatalf("before first calculation: got %v", got)
	}
	r := e.Calculate(5)
	if got := e.FlowTemperature(); got != r.FlowTemp {
		t.Fatalf("got %v, want %v", got, r.FlowTemp)
	}
}

func TestStatusSnapshot(t *testing.T) {
	e := newTestEngine(t)
	e.AddZone("bath", ZoneSpec{Area: 8, TempTarget: f64(23)})
	e.AddZone("attic", ZoneSpec{Area: 20})
	if err := e.SetZoneActive("attic", false); err != nil {
		t.Fatalf("SetZoneActive: %v", err)
	}

	s := e.Status()
	if s.OutdoorTemp != nil {
		t.Fatalf("outdoor must be unknown before first calculation")
	}
	if s.FlowTemp != DefaultMinFlowTemp {
		t.Fatalf("flow: got %v", s.FlowTemp)
	}
	if s.ActiveZones != 1 || s.TotalDemandW != 800 {
		t.Fatalf("totals: %+v", s)
	}
	// Zone dump is sorted and includes inactive zones with their
	// instantaneous power figure.
	if len(s.Zones) != 2 || s.Zones[0].Name != "attic" || s.Zones[1].Name != "bath" {
		t.Fatalf("zones: %+v", s.Zones)
	}
	if s.Zones[0].HeatDemandW != 2000 {
		t.Fatalf("inactive zone power: got %v", s.Zones[0].HeatDemandW)
	}

	e.Calculate(-5)
	s = e.Status()
	if s.OutdoorTemp == nil || *s.OutdoorTemp != -5 {
		t.Fatalf("outdoor: %+v", s.OutdoorTemp)
	}
}

func TestCurveSetters(t *testing.T) {
	e := newTestEngine(t)
	e.SetCurveSlope(0.8)
	approxEq(t, e.Calculate(5).BaseFlowTemp, 21+13*0.8)

	e.SetCurveOffset(2)
	approxEq(t, e.Calculate(5).BaseFlowTemp, 21+13*0.8+2)

	if err := e.SetCurveType("exponential"); err != nil {
		t.Fatalf("SetCurveType: %v", err)
	}
	// All shapes meet at the design temperature.
	e.SetCurveSlope(0.6)
	e.SetCurveOffset(0)
	approxEq(t, e.Calculate(-15).BaseFlowTemp, 21+33*0.6)
}

func TestCurveSetterValidation(t *testing.T) {
	e := newTestEngine(t)
	if err := e.SetCurveType("quadratic"); !errors.Is(err, heat_curve.ErrUnknownCurveType) {
		t.Fatalf("got %v", err)
	}

	// Factor zero is fine under linear, but blocks a later switch to a
	// shape that divides by it.
	if err := e.SetCurveFactor(0); err != nil {
		t.Fatalf("SetCurveFactor under linear: %v", err)
	}
	if err := e.SetCurveType("logarithmic"); err == nil {
		t.Fatalf("expected shape switch to be refused")
	}

	if err := e.SetCurveFactor(0.5); err != nil {
		t.Fatalf("SetCurveFactor: %v", err)
	}
	if err := e.SetCurveType("logarithmic"); err != nil {
		t.Fatalf("SetCurveType: %v", err)
	}
	if err := e.SetCurveFactor(0); err == nil {
		t.Fatalf("expected zero factor to be refused under logarithmic")
	}
	if err := e.SetCurveFactor(-1); err == nil {
		t.Fatalf("expected factor -1 to be refused under logarithmic")
	}
}

func TestZoneInfoJSON(t *testing.T) {
	e := newTestEngine(t)
	e.AddZone("bath", ZoneSpec{Area: 8})
	out, err := json.Marshal(e.Status())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	// Unknown readings are omitted rather than encoded as zero values.
	if strings.Contains(string(out), "current_temp") {
		t.Fatalf("unexpected current_temp in %s", out)
	}
	if strings.Contains(string(out), "outdoor_temperature") {
		t.Fatalf("unexpected outdoor_temperature in %s", out)
	}
	if !strings.Contains(string(out), `"flow_temperature":25`) {
		t.Fatalf("missing flow temperature in %s", out)
	}
}
