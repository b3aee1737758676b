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

package internal

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/antst/ufwc/internal/compensator"
	"github.com/antst/ufwc/internal/config"
	"github.com/antst/ufwc/internal/logger"
	"github.com/antst/ufwc/internal/safe_mqtt"
)

// StatusPublisher pushes calculation results out over MQTT. Whatever
// drives the boiler setpoint or mixing valve subscribes to the flow
// temperature topic; the status and diagnostics topics feed dashboards.
type StatusPublisher struct {
	cfg  *config.PublishConfig
	mqtt safe_mqtt.MqttClient
}

func NewStatusPublisher(_cfg *config.PublishConfig, _mqttCfg *config.MQTTConfig) *StatusPublisher {
	p := &StatusPublisher{cfg: _cfg}
	p.mqtt = safe_mqtt.InitMQTTClient(_mqttCfg.URL, "ufwc-status-"+uuid.New().String())
	return p
}

// PublishFlowTemp publishes retained, so consumers that reconnect pick up
// the current value immediately.
func (p *StatusPublisher) PublishFlowTemp(flowTemp float64) {
	if token := p.mqtt.SafePublish(
		p.cfg.FlowTempTopic, mqttQoS, true, fmt.Sprintf("%.1f", flowTemp),
	); token.Wait() && token.Error() != nil {
		logger.L().Error(token.Error())
	}
}

func (p *StatusPublisher) PublishStatus(status compensator.Status) {
	p.publishJSON(p.cfg.StatusTopic, true, status)
}

func (p *StatusPublisher) PublishDiagnostics(result compensator.Result) {
	p.publishJSON(p.cfg.DiagnosticsTopic, false, result)
}

func (p *StatusPublisher) publishJSON(topic string, retained bool, v interface{}) {
	payload, err := json.Marshal(v)
	if err != nil {
		logger.L().Error(err)
		return
	}
	if token := p.mqtt.SafePublish(topic, mqttQoS, retained, payload); token.Wait() && token.Error() != nil {
		logger.L().Error(token.Error())
	}
}
