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
	"github.com/antst/ufwc/internal/heat_curve"
)

// Defaults suit a typical low-temperature underfloor installation.
const (
	DefaultRoomTempTarget    = 21.0
	DefaultMinFlowTemp       = 25.0
	DefaultMaxFlowTemp       = 45.0
	DefaultBaseOutdoorTemp   = 18.0
	DefaultDesignOutdoorTemp = -15.0
	DefaultCurveSlope        = 0.6
	DefaultCurveOffset       = 0.0
	DefaultCurveFactor       = 0.5

	DefaultCurveType = heat_curve.CurveLinear
)

// Config holds the engine tuning. It is validated once at construction;
// afterwards only the dedicated setters on Engine may change it.
type Config struct {
	RoomTempTarget    float64
	MinFlowTemp       float64
	MaxFlowTemp       float64
	BaseOutdoorTemp   float64
	DesignOutdoorTemp float64
	CurveType         heat_curve.CurveType
	CurveSlope        float64
	CurveOffset       float64
	CurveFactor       float64
}

func DefaultConfig() Config {
	return Config{
		RoomTempTarget:    DefaultRoomTempTarget,
		MinFlowTemp:       DefaultMinFlowTemp,
		MaxFlowTemp:       DefaultMaxFlowTemp,
		BaseOutdoorTemp:   DefaultBaseOutdoorTemp,
		DesignOutdoorTemp: DefaultDesignOutdoorTemp,
		CurveType:         DefaultCurveType,
		CurveSlope:        DefaultCurveSlope,
		CurveOffset:       DefaultCurveOffset,
		CurveFactor:       DefaultCurveFactor,
	}
}

func (c Config) curveParams() heat_curve.Params {
	return heat_curve.Params{
		MinFlowTemp:       c.MinFlowTemp,
		MaxFlowTemp:       c.MaxFlowTemp,
		BaseOutdoorTemp:   c.BaseOutdoorTemp,
		DesignOutdoorTemp: c.DesignOutdoorTemp,
		Type:              c.CurveType,
		Slope:             c.CurveSlope,
		Offset:            c.CurveOffset,
		Factor:            c.CurveFactor,
	}
}

func (c Config) Validate() error {
	return c.curveParams().Validate()
}
