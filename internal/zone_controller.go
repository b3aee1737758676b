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
	"context"
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

// ZoneController tracks one zone's runtime state: whether it wants heat,
// its demand factor and target, and the averaged room temperature from
// its sensors. Every change is persisted and pushed to the flow
// controller, which feeds it into the calculation engine.
type ZoneController struct {
	name               string
	mu                 sync.RWMutex
	cfg                *config.ZoneConfig
	mqtt               safe_mqtt.MqttClient
	sensors            []*SensorController
	queries            *db.Queries
	active             bool
	demandFactor       float64
	tempTarget         *float64
	averageTemperature float64
	averageTimestamp   time.Time
	averageFunc        func([]*SensorController) (float64, time.Time)
	controlChan        chan<- *ZoneController
	childChan          chan bool
}

// zoneState is the snapshot handed to the flow controller. Nil fields
// mean "never received", so the engine defaults stay in force.
type zoneState struct {
	active       bool
	demandFactor float64
	tempTarget   *float64
	currentTemp  *float64
}

func newZoneController(
	_name string, _cfg *config.ZoneConfig, _mqttCfg *config.MQTTConfig, _q *db.Queries,
	_controlChan chan<- *ZoneController,
) *ZoneController {
	z := &ZoneController{
		name:             _name,
		cfg:              _cfg,
		queries:          _q,
		active:           true,
		demandFactor:     *_cfg.DemandFactor,
		averageTimestamp: zeroTS,
		controlChan:      _controlChan,
		childChan:        make(chan bool, childChanBuffer),
	}
	if _cfg.TempTarget != nil {
		v := *_cfg.TempTarget
		z.tempTarget = &v
	}

	z.LinkAverageFun()
	if err := z.readState(); err == nil {
		logger.L().Debugf(
			"Loaded previous state from DB for zone %v: active=%v demand_factor=%v",
			z.name, z.active, z.demandFactor,
		)
	}
	z.mqtt = safe_mqtt.InitMQTTClient(_mqttCfg.URL, "ufwc-zone-"+z.name+"-"+uuid.New().String())

	if _cfg.Activity != nil && _cfg.Activity.Topic != "" {
		z.mqtt.SafeSubscribe(_cfg.Activity.Topic, mqttQoS, z.activityUpdateHandler)
	}

	zoneMQTTgroup := _mqttCfg.ControlTopic + "/zone/" + z.name + "/"
	z.mqtt.SafeSubscribe(zoneMQTTgroup+"active", mqttQoS, z.controlUpdateHandler)
	z.mqtt.SafeSubscribe(zoneMQTTgroup+"demand_factor", mqttQoS, z.controlUpdateHandler)
	z.mqtt.SafeSubscribe(zoneMQTTgroup+"temp_target", mqttQoS, z.controlUpdateHandler)
	z.mqtt.SafeSubscribe(zoneMQTTgroup+"sensors_average_type", mqttQoS, z.controlUpdateHandler)

	z.sensors = make([]*SensorController, len(z.cfg.Sensors))
	for i, sensor := range z.cfg.Sensors {
		sName := "zone-" + z.name + "-"
		if sensor.Name == "" {
			sName += strconv.Itoa(i + 1)
		} else {
			sName += sensor.Name
		}

		z.sensors[i] = NewSensorController(sName, sensor, _mqttCfg, z.queries, z.childChan)
	}
	go z.childProcessor()
	z.updateAverage()

	return z
}

func (z *ZoneController) snapshot() zoneState {
	z.mu.RLock()
	defer z.mu.RUnlock()
	st := zoneState{active: z.active, demandFactor: z.demandFactor}
	if z.tempTarget != nil {
		v := *z.tempTarget
		st.tempTarget = &v
	}
	if z.averageTimestamp.After(zeroTS) {
		v := z.averageTemperature
		st.currentTemp = &v
	}
	return st
}

func (z *ZoneController) childProcessor() {
	for range z.childChan {
		z.updateAverage()
	}
}

func (z *ZoneController) LinkAverageFun() {
	if z.cfg.SensorsAverageType == config.DefaultAverageType {
		z.averageFunc = sensorsMean
	} else {
		logger.L().Errorf("Unknown average function type: %v", z.cfg.SensorsAverageType)
		logger.L().Error("Reverting to the `mean`")
		z.cfg.SensorsAverageType = config.DefaultAverageType
		z.averageFunc = sensorsMean
	}
}

func (z *ZoneController) updateAverage() {
	v, t := z.averageFunc(z.sensors)
	if t.After(zeroTS) {
		z.mu.Lock()
		z.averageTimestamp = t
		z.averageTemperature = v
		z.mu.Unlock()
		if err := z.writeState(); err != nil {
			logger.L().Error(err)
		}
		z.controlChan <- z
	}
}

func (z *ZoneController) activityUpdateHandler(client mqtt.Client, message mqtt.Message) {
	active, err := extractBoolPlainOrJson(message, z.cfg.Activity.JSONEntry)
	if err != nil {
		logger.L().Error(err)
		return
	}

	z.mu.Lock()
	changed := active != z.active
	z.active = active
	z.mu.Unlock()

	logger.L().Debugf("Got activity for zone %s : %v", z.name, active)
	if changed {
		if err := z.writeState(); err != nil {
			logger.L().Error(err)
		}
		z.controlChan <- z
	}
}

func (z *ZoneController) writeState() error {
	z.mu.RLock()
	defer z.mu.RUnlock()
	st := db.ZoneState{
		ZoneName:     z.name,
		Active:       z.active,
		DemandFactor: z.demandFactor,
		TempTarget:   z.tempTarget,
	}
	if z.averageTimestamp.After(zeroTS) {
		v := z.averageTemperature
		st.CurrentTemp = &v
	}
	return z.queries.UpsertZoneState(context.Background(), st)
}

func (z *ZoneController) readState() error {
	st, err := z.queries.GetZoneState(context.Background(), z.name)
	if err != nil {
		return err
	}
	z.active = st.Active
	z.demandFactor = st.DemandFactor
	if st.TempTarget != nil {
		z.tempTarget = st.TempTarget
	}
	if st.CurrentTemp != nil {
		z.averageTemperature = *st.CurrentTemp
		z.averageTimestamp = time.Now()
	}
	return nil
}

func (z *ZoneController) controlUpdateHandler(client mqtt.Client, message mqtt.Message) {
	topic := message.Topic()[strings.LastIndex(message.Topic(), "/")+1:]
	logger.L().Infof("Zone %v got MQTT control request: %v : %v", z.name, topic, string(message.Payload()))

	switch topic {
	case "active":
		active, err := parseBoolWord(string(message.Payload()))
		if err != nil {
			logger.L().Error(err)
			return
		}
		z.mu.Lock()
		z.active = active
		z.mu.Unlock()
	case "demand_factor", "temp_target":
		value, err := strconv.ParseFloat(string(message.Payload()), 64)
		if err != nil {
			logger.L().Error(err)
			return
		}
		z.mu.Lock()
		if topic == "demand_factor" {
			z.demandFactor = value
		} else {
			z.tempTarget = &value
		}
		z.mu.Unlock()
	case "sensors_average_type":
		z.cfg.SensorsAverageType = string(message.Payload())
		z.LinkAverageFun()
		logger.L().Infof("Updated sensors average type to `%v`", z.cfg.SensorsAverageType)
		z.childChan <- true
		return
	default:
		logger.L().Errorf("Unknown control topic: %s", topic)
		return
	}

	logger.L().Infof("Updated %s for zone `%v`", topic, z.name)
	if err := z.writeState(); err != nil {
		logger.L().Error(err)
	}
	z.controlChan <- z
}
