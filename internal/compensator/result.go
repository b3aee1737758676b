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

// Result is the diagnostics record of one calculation. Values, not state:
// the engine only retains the flow temperature and the outdoor reading.
type Result struct {
	FlowTemp        float64 `json:"flow_temperature"`
	BaseFlowTemp    float64 `json:"base_flow_temperature"`
	OutdoorTemp     float64 `json:"outdoor_temperature"`
	EffectiveTarget float64 `json:"effective_target"`
	Adjustment      float64 `json:"demand_adjustment"`
	TotalDemandW    float64 `json:"total_demand_w"`
	ActiveAreaM2    float64 `json:"active_area_m2"`
	ActiveZones     int     `json:"active_zones"`
	AvgDemandWPerM2 float64 `json:"avg_demand_w_m2"`
}

// Status is the full engine snapshot. OutdoorTemp is nil until the first
// calculation supplies a reading.
type Status struct {
	FlowTemp        float64    `json:"flow_temperature"`
	OutdoorTemp     *float64   `json:"outdoor_temperature,omitempty"`
	RoomTempTarget  float64    `json:"room_temp_target"`
	EffectiveTarget float64    `json:"effective_target"`
	TotalDemandW    float64    `json:"total_demand_w"`
	ActiveAreaM2    float64    `json:"active_area_m2"`
	ActiveZones     int        `json:"active_zones"`
	AvgDemandWPerM2 float64    `json:"avg_demand_w_m2"`
	Zones           []ZoneInfo `json:"zones"`
}

type ZoneInfo struct {
	Name         string   `json:"name"`
	Area         float64  `json:"area_m2"`
	Active       bool     `json:"active"`
	TempTarget   float64  `json:"temp_target"`
	CurrentTemp  *float64 `json:"current_temp,omitempty"`
	DemandFactor float64  `json:"demand_factor"`
	HeatDemandW  float64  `json:"heat_demand_w"`
}
