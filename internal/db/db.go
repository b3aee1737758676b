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

package db

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type Queries struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Queries {
	return &Queries{db: db}
}

func (q *Queries) Close() error {
	return q.db.Close()
}

// ZoneState is one row of persisted zone runtime state. TempTarget and
// CurrentTemp are nil when the zone never received them.
type ZoneState struct {
	ZoneName     string   `db:"zone_name"`
	Active       bool     `db:"active"`
	DemandFactor float64  `db:"demand_factor"`
	TempTarget   *float64 `db:"temp_target"`
	CurrentTemp  *float64 `db:"current_temp"`
}

const upsertZoneState = `
INSERT INTO zone_state (zone_name, active, demand_factor, temp_target, current_temp)
VALUES (:zone_name, :active, :demand_factor, :temp_target, :current_temp)
ON CONFLICT (zone_name) DO UPDATE SET
    active        = excluded.active,
    demand_factor = excluded.demand_factor,
    temp_target   = excluded.temp_target,
    current_temp  = excluded.current_temp
`

func (q *Queries) UpsertZoneState(ctx context.Context, arg ZoneState) error {
	_, err := q.db.NamedExecContext(ctx, upsertZoneState, arg)
	return err
}

const getZoneState = `
SELECT zone_name, active, demand_factor, temp_target, current_temp
FROM zone_state
WHERE zone_name = ?
`

func (q *Queries) GetZoneState(ctx context.Context, zoneName string) (ZoneState, error) {
	var zs ZoneState
	err := q.db.GetContext(ctx, &zs, getZoneState, zoneName)
	return zs, err
}

type UpsertSensorValueParams struct {
	SensorName string  `db:"sensor_name"`
	Value      float64 `db:"value"`
}

const upsertSensorValue = `
INSERT INTO sensor_values (sensor_name, value)
VALUES (:sensor_name, :value)
ON CONFLICT (sensor_name) DO UPDATE SET value = excluded.value
`

func (q *Queries) UpsertSensorValue(ctx context.Context, arg UpsertSensorValueParams) error {
	_, err := q.db.NamedExecContext(ctx, upsertSensorValue, arg)
	return err
}

const getSensorValue = `
SELECT value FROM sensor_values WHERE sensor_name = ?
`

func (q *Queries) GetSensorValue(ctx context.Context, sensorName string) (float64, error) {
	var value float64
	err := q.db.GetContext(ctx, &value, getSensorValue, sensorName)
	return value, err
}

type UpsertControllerValueParams struct {
	Name  string `db:"name"`
	Value string `db:"value"`
}

const upsertControllerValue = `
INSERT INTO controller_values (name, value)
VALUES (:name, :value)
ON CONFLICT (name) DO UPDATE SET value = excluded.value
`

func (q *Queries) UpsertControllerValue(ctx context.Context, arg UpsertControllerValueParams) error {
	_, err := q.db.NamedExecContext(ctx, upsertControllerValue, arg)
	return err
}

const getControllerValue = `
SELECT value FROM controller_values WHERE name = ?
`

func (q *Queries) GetControllerValue(ctx context.Context, name string) (string, error) {
	var value string
	err := q.db.GetContext(ctx, &value, getControllerValue, name)
	return value, err
}
