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
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/antst/ufwc/internal/config"
	"github.com/antst/ufwc/internal/logger"
	"github.com/antst/ufwc/internal/safe_mqtt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/antst/ufwc/internal/db"
)

const (
	outsidePrefix     = "outside-temperature-"
	mqttOutsidePrefix = "ufwc-outside-"
)

// OutsideController aggregates the outdoor temperature sensors into the
// single reading the heating curve runs on and pushes every change of the
// average to the flow controller.
type OutsideController struct {
	mu                          sync.RWMutex
	cfg                         *config.OutsideConfig
	mqtt                        safe_mqtt.MqttClient
	queries                     *db.Queries
	temperatureSensors          []*SensorController
	controlChan                 chan<- float64
	childChan                   chan bool
	averageTemperature          float64
	averageTemperatureTimestamp time.Time
	averageTemperatureFunc      func([]*SensorController) (float64, time.Time)
}

func NewOutsideController(
	_cfg *config.OutsideConfig, _mqttCfg *config.MQTTConfig, _q *db.Queries, _controlChan chan<- float64,
) *OutsideController {
	o := &OutsideController{
		cfg:                         _cfg,
		queries:                     _q,
		controlChan:                 _controlChan,
		averageTemperatureTimestamp: zeroTS,
		childChan:                   make(chan bool, childChanBuffer),
	}
	o.LinkAverageFun()

	o.temperatureSensors = make([]*SensorController, len(o.cfg.TemperatureSensors))
	for i, sensor := range o.cfg.TemperatureSensors {
		sName := outsidePrefix
		if sensor.Name == "" {
			sName += strconv.Itoa(i + 1)
		} else {
			sName += sensor.Name
		}
		o.temperatureSensors[i] = NewSensorController(sName, sensor, _mqttCfg, o.queries, o.childChan)
	}

	go o.childProcessor()
	o.updateTemperatureAverage()

	o.mqtt = safe_mqtt.InitMQTTClient(_mqttCfg.URL, mqttOutsidePrefix+uuid.New().String())
	o.mqtt.SafeSubscribe(
		_mqttCfg.ControlTopic+"/outside/temperature_average_type", mqttQoS, o.controlUpdateHandler,
	)
	return o
}

func (o *OutsideController) childProcessor() {
	for range o.childChan {
		o.updateTemperatureAverage()
	}
}

func (o *OutsideController) updateTemperatureAverage() {
	v, t := o.averageTemperatureFunc(o.temperatureSensors)
	if t.After(zeroTS) {
		o.mu.Lock()
		o.averageTemperatureTimestamp = t
		o.averageTemperature = v
		o.mu.Unlock()
		o.controlChan <- v
	}
}

func (o *OutsideController) LinkAverageFun() {
	if o.cfg.TemperatureAverageType == config.DefaultAverageType {
		o.averageTemperatureFunc = sensorsMean
	} else {
		logger.L().Errorf("Unknown average function type: %v", o.cfg.TemperatureAverageType)
		logger.L().Error("Reverting to the `mean`")
		o.cfg.TemperatureAverageType = config.DefaultAverageType
		o.averageTemperatureFunc = sensorsMean
	}
}

func (o *OutsideController) controlUpdateHandler(client mqtt.Client, message mqtt.Message) {
	topic := message.Topic()[strings.LastIndex(message.Topic(), "/")+1:]
	logger.L().Infof("Outside got MQTT control request: %v : %v", topic, string(message.Payload()))

	switch topic {
	case "temperature_average_type":
		o.cfg.TemperatureAverageType = string(message.Payload())
		o.LinkAverageFun()
		logger.L().Infof("Updated outside average type to `%v`", o.cfg.TemperatureAverageType)
		o.childChan <- true
	default:
		logger.L().Errorf("Unknown control topic: %s", topic)
	}
}
