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

// ZoneConfig declares one heating zone. HeatDemand and TempTarget stay
// nil to take the engine defaults (100 W/m2 and the room target).
type ZoneConfig struct {
	Area               float64         `yaml:"area"`
	HeatDemand         *float64        `yaml:"heat_demand,omitempty"`
	TempTarget         *float64        `yaml:"temp_target,omitempty"`
	DemandFactor       *float64        `yaml:"demand_factor,omitempty"`
	SensorsAverageType string          `yaml:"sensors_average_type"`
	Sensors            []*SensorConfig `yaml:"sensors"`
	Activity           *ActivityConfig `yaml:"activity,omitempty"`
}

func (z *ZoneConfig) FillDefaults() {
	if z.SensorsAverageType == "" {
		z.SensorsAverageType = DefaultAverageType
	}
	if z.DemandFactor == nil {
		z.DemandFactor = GetPTR(1.0)
	}
	for _, s := range z.Sensors {
		s.FillDefaults()
	}
}

func NewZoneConfig() *ZoneConfig {
	return &ZoneConfig{
		Sensors: make([]*SensorConfig, 0),
	}
}
