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

// Schema holds the runtime state the controller restores after a restart:
// last zone settings and feedback, last sensor readings, and free-form
// controller values such as curve tuning received over MQTT.
const Schema = `
CREATE TABLE IF NOT EXISTS zone_state (
    zone_name     TEXT PRIMARY KEY,
    active        BOOLEAN NOT NULL DEFAULT TRUE,
    demand_factor REAL NOT NULL DEFAULT 1.0,
    temp_target   REAL,
    current_temp  REAL
);

CREATE TABLE IF NOT EXISTS sensor_values (
    sensor_name TEXT PRIMARY KEY,
    value       REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS controller_values (
    name  TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`
