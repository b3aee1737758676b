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

// PublishConfig names the topics the computed results go out on. The
// flow temperature topic is what the boiler/mixing-valve automation
// subscribes to.
type PublishConfig struct {
	FlowTempTopic    string `yaml:"flow_temp_topic"`
	StatusTopic      string `yaml:"status_topic"`
	DiagnosticsTopic string `yaml:"diagnostics_topic"`
}

func NewPublishConfig() *PublishConfig {
	cfg := &PublishConfig{}
	cfg.FillDefaults()
	return cfg
}

func (c *PublishConfig) FillDefaults() {
	if c.FlowTempTopic == "" {
		c.FlowTempTopic = defaultFlowTempTopic
	}
	if c.StatusTopic == "" {
		c.StatusTopic = defaultStatusTopic
	}
	if c.DiagnosticsTopic == "" {
		c.DiagnosticsTopic = defaultDiagnosticsTopic
	}
}
