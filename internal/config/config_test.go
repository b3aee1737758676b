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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/antst/ufwc/internal/compensator"
	"github.com/antst/ufwc/internal/heat_curve"
)

func TestDefaults(t *testing.T) {
	cfg := defConfig()
	cfg.FillDefaults()

	if cfg.MQTTConfig.URL != "tcp://127.0.0.1:1883" || cfg.MQTTConfig.ControlTopic != "ufwc/control" {
		t.Fatalf("mqtt defaults: %+v", cfg.MQTTConfig)
	}
	if cfg.DBFile != "~/.ufwc.db" {
		t.Fatalf("db file: %v", cfg.DBFile)
	}
	if cfg.Publish.FlowTempTopic != "ufwc/flow_temperature" {
		t.Fatalf("publish defaults: %+v", cfg.Publish)
	}

	ec, err := cfg.Compensator.EngineConfig()
	if err != nil {
		t.Fatalf("EngineConfig: %v", err)
	}
	want := compensator.DefaultConfig()
	if ec != want {
		t.Fatalf("engine config:\ngot  %+v\nwant %+v", ec, want)
	}
}

const sampleYAML = `
log_level: info
mqtt:
  url: tcp://broker.lan:1883
compensator:
  curve_type: logarithmic
  curve_slope: 0.8
  max_flow_temp: 40
outside:
  temperature_sensors:
    - topic: weather/outdoor
      json_entry: temperature
zones:
  bath:
    area: 8
    temp_target: 23
    activity:
      topic: thermostat/bath/heat_demand
    sensors:
      - topic: sensors/bath/temp
        weight: 2
  living:
    area: 30
    heat_demand: 80
    sensors:
      - topic: sensors/living/temp
`

func loadSample(t *testing.T) *Config {
	t.Helper()
	cfg := defConfig()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if err := readFile(cfg, path); err != nil {
		t.Fatalf("readFile: %v", err)
	}
	cfg.FillDefaults()
	return cfg
}

func TestYAMLOverridesAndDefaults(t *testing.T) {
	cfg := loadSample(t)

	if cfg.MQTTConfig.URL != "tcp://broker.lan:1883" {
		t.Fatalf("url: %v", cfg.MQTTConfig.URL)
	}
	// Untouched fields keep their defaults.
	if cfg.MQTTConfig.ControlTopic != "ufwc/control" {
		t.Fatalf("control topic: %v", cfg.MQTTConfig.ControlTopic)
	}

	ec, err := cfg.Compensator.EngineConfig()
	if err != nil {
		t.Fatalf("EngineConfig: %v", err)
	}
	if ec.CurveType != heat_curve.CurveLogarithmic || ec.CurveSlope != 0.8 || ec.MaxFlowTemp != 40 {
		t.Fatalf("compensator overrides: %+v", ec)
	}
	if ec.RoomTempTarget != compensator.DefaultRoomTempTarget || ec.MinFlowTemp != compensator.DefaultMinFlowTemp {
		t.Fatalf("compensator defaults: %+v", ec)
	}

	bath := cfg.Zones["bath"]
	if bath == nil || bath.Area != 8 {
		t.Fatalf("bath zone: %+v", bath)
	}
	if bath.TempTarget == nil || *bath.TempTarget != 23 {
		t.Fatalf("bath target: %+v", bath.TempTarget)
	}
	if bath.HeatDemand != nil {
		t.Fatalf("bath heat demand must stay unset for the engine default")
	}
	if *bath.DemandFactor != 1 {
		t.Fatalf("bath demand factor: %v", *bath.DemandFactor)
	}
	if bath.Activity == nil || bath.Activity.Topic != "thermostat/bath/heat_demand" {
		t.Fatalf("bath activity: %+v", bath.Activity)
	}
	if w := *bath.Sensors[0].Weight; w != 2 {
		t.Fatalf("sensor weight: %v", w)
	}
	if s := bath.Sensors[0]; *s.Scale != 1 || *s.Offset != 0 {
		t.Fatalf("sensor defaults: scale=%v offset=%v", *s.Scale, *s.Offset)
	}

	living := cfg.Zones["living"]
	if living.HeatDemand == nil || *living.HeatDemand != 80 {
		t.Fatalf("living heat demand: %+v", living.HeatDemand)
	}
	if living.Activity != nil {
		t.Fatalf("living has no activity topic")
	}
	if living.SensorsAverageType != DefaultAverageType {
		t.Fatalf("average type: %v", living.SensorsAverageType)
	}

	outside := cfg.Outside.TemperatureSensors
	if len(outside) != 1 || outside[0].Topic != "weather/outdoor" {
		t.Fatalf("outside sensors: %+v", outside)
	}
	if outside[0].JSONEntry == nil || *outside[0].JSONEntry != "temperature" {
		t.Fatalf("outside json entry: %+v", outside[0].JSONEntry)
	}
}

func TestEngineConfigRejectsUnknownCurve(t *testing.T) {
	c := NewCompensatorConfig()
	c.CurveType = "spline"
	if _, err := c.EngineConfig(); err == nil {
		t.Fatalf("expected error")
	}
}

func TestReadFileMissingIsFine(t *testing.T) {
	cfg := defConfig()
	if err := readFile(cfg, filepath.Join(t.TempDir(), "nope.yaml")); err != nil {
		t.Fatalf("missing config must not fail: %v", err)
	}
	if cfg.DBFile != "~/.ufwc.db" {
		t.Fatalf("defaults must survive: %v", cfg.DBFile)
	}
}
