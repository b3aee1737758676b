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
	"github.com/antst/ufwc/internal/compensator"
	"github.com/antst/ufwc/internal/heat_curve"
)

// CompensatorConfig is the YAML face of the calculation engine tuning.
// Unset fields fall back to the engine defaults.
type CompensatorConfig struct {
	RoomTempTarget    *float64 `yaml:"room_temp_target"`
	MinFlowTemp       *float64 `yaml:"min_flow_temp"`
	MaxFlowTemp       *float64 `yaml:"max_flow_temp"`
	BaseOutdoorTemp   *float64 `yaml:"base_outdoor_temp"`
	DesignOutdoorTemp *float64 `yaml:"design_outdoor_temp"`
	CurveType         string   `yaml:"curve_type"`
	CurveSlope        *float64 `yaml:"curve_slope"`
	CurveOffset       *float64 `yaml:"curve_offset"`
	CurveFactor       *float64 `yaml:"curve_factor"`
}

func NewCompensatorConfig() *CompensatorConfig {
	cfg := &CompensatorConfig{}
	cfg.FillDefaults()
	return cfg
}

func (c *CompensatorConfig) FillDefaults() {
	if c.RoomTempTarget == nil {
		c.RoomTempTarget = GetPTR(compensator.DefaultRoomTempTarget)
	}
	if c.MinFlowTemp == nil {
		c.MinFlowTemp = GetPTR(compensator.DefaultMinFlowTemp)
	}
	if c.MaxFlowTemp == nil {
		c.MaxFlowTemp = GetPTR(compensator.DefaultMaxFlowTemp)
	}
	if c.BaseOutdoorTemp == nil {
		c.BaseOutdoorTemp = GetPTR(compensator.DefaultBaseOutdoorTemp)
	}
	if c.DesignOutdoorTemp == nil {
		c.DesignOutdoorTemp = GetPTR(compensator.DefaultDesignOutdoorTemp)
	}
	if c.CurveType == "" {
		c.CurveType = string(compensator.DefaultCurveType)
	}
	if c.CurveSlope == nil {
		c.CurveSlope = GetPTR(compensator.DefaultCurveSlope)
	}
	if c.CurveOffset == nil {
		c.CurveOffset = GetPTR(compensator.DefaultCurveOffset)
	}
	if c.CurveFactor == nil {
		c.CurveFactor = GetPTR(compensator.DefaultCurveFactor)
	}
}

// EngineConfig converts the YAML section into the engine configuration.
// The curve type string is checked here; the engine constructor validates
// the numeric relations.
func (c *CompensatorConfig) EngineConfig() (compensator.Config, error) {
	ct, err := heat_curve.ParseCurveType(c.CurveType)
	if err != nil {
		return compensator.Config{}, err
	}
	return compensator.Config{
		RoomTempTarget:    *c.RoomTempTarget,
		MinFlowTemp:       *c.MinFlowTemp,
		MaxFlowTemp:       *c.MaxFlowTemp,
		BaseOutdoorTemp:   *c.BaseOutdoorTemp,
		DesignOutdoorTemp: *c.DesignOutdoorTemp,
		CurveType:         ct,
		CurveSlope:        *c.CurveSlope,
		CurveOffset:       *c.CurveOffset,
		CurveFactor:       *c.CurveFactor,
	}, nil
}
