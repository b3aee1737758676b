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

	"github.com/antst/ufwc/internal/compensator"
	"github.com/antst/ufwc/internal/config"
	"github.com/antst/ufwc/internal/logger"
	"github.com/antst/ufwc/internal/safe_mqtt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/antst/ufwc/internal/db"
)

type controlRequest struct {
	topic   string
	payload string
}

// FlowController wires the calculation engine to the outside world: zone
// and outdoor updates come in over channels, results go out through the
// status publisher. The engine itself is not synchronized, so only the
// Run goroutine touches it.
type FlowController struct {
	cfg       *config.Config
	engine    *compensator.Engine
	queries   *db.Queries
	mqtt      safe_mqtt.MqttClient
	zones     map[string]*ZoneController
	outside   *OutsideController
	publisher *StatusPublisher

	outsideChan chan float64
	zoneChan    chan *ZoneController
	controlChan chan controlRequest

	outdoorTemp   float64
	haveOutdoor   bool
	lastFlow      float64
	havePublished bool
}

func NewFlowController() *FlowController {
	c := &FlowController{
		cfg:         config.Get(),
		outsideChan: make(chan float64, 3),
		zoneChan:    make(chan *ZoneController, 100),
		controlChan: make(chan controlRequest, childChanBuffer),
		zones:       make(map[string]*ZoneController),
	}

	engineCfg, err := c.cfg.Compensator.EngineConfig()
	if err != nil {
		logger.L().Panicf("Invalid compensator configuration: %v", err)
	}
	if c.engine, err = compensator.NewEngine(engineCfg); err != nil {
		logger.L().Panicf("Invalid compensator configuration: %v", err)
	}

	c.queries = db.OpenDatabase(c.cfg.DBFile)
	c.restoreCurveTuning()

	c.mqtt = safe_mqtt.InitMQTTClient(c.cfg.MQTTConfig.URL, "ufwc-"+uuid.New().String())
	c.setupMQTTSubscriptions()

	c.publisher = NewStatusPublisher(c.cfg.Publish, c.cfg.MQTTConfig)
	c.outside = NewOutsideController(c.cfg.Outside, c.cfg.MQTTConfig, c.queries, c.outsideChan)
	c.initializeZones()
	return c
}

func (c *FlowController) setupMQTTSubscriptions() {
	controlTopic := c.cfg.MQTTConfig.ControlTopic
	for _, name := range []string{"curve_slope", "curve_offset", "curve_factor", "curve_type", "log_level"} {
		c.mqtt.SafeSubscribe(controlTopic+"/"+name, mqttQoS, c.controlUpdateHandler)
	}
}

// controlUpdateHandler runs on the MQTT client goroutine; it only queues
// the request for the Run loop, which owns the engine.
func (c *FlowController) controlUpdateHandler(client mqtt.Client, message mqtt.Message) {
	topic := message.Topic()[strings.LastIndex(message.Topic(), "/")+1:]
	logger.L().Infof("main: Got MQTT control request: %v : %v", topic, string(message.Payload()))
	c.controlChan <- controlRequest{topic: topic, payload: string(message.Payload())}
}

func (c *FlowController) initializeZones() {
	for s, cfg := range c.cfg.Zones {
		c.engine.AddZone(s, compensator.ZoneSpec{
			Area:       cfg.Area,
			HeatDemand: cfg.HeatDemand,
			TempTarget: cfg.TempTarget,
		})
		zone := newZoneController(s, cfg, c.cfg.MQTTConfig, c.queries, c.zoneChan)
		c.zones[s] = zone
		c.applyZoneState(zone)
	}
}

// restoreCurveTuning replays tuning received over the control tree in
// earlier runs. Factor before type: the pair was accepted together, so
// replaying in this order always revalidates.
func (c *FlowController) restoreCurveTuning() {
	if v, err := c.readValue("curve_slope"); err == nil {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.engine.SetCurveSlope(f)
		}
	}
	if v, err := c.readValue("curve_offset"); err == nil {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.engine.SetCurveOffset(f)
		}
	}
	if v, err := c.readValue("curve_factor"); err == nil {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			if err := c.engine.SetCurveFactor(f); err != nil {
				logger.L().Errorf("Stored curve factor rejected: %v", err)
			}
		}
	}
	if v, err := c.readValue("curve_type"); err == nil {
		if err := c.engine.SetCurveType(v); err != nil {
			logger.L().Errorf("Stored curve type rejected: %v", err)
		}
	}
}

// Run is the event loop. There are no timers: the engine is a pure
// function of its inputs, so recalculation happens exactly when an input
// changes.
func (c *FlowController) Run() {
	for {
		select {
		case newOT := <-c.outsideChan:
			if !c.haveOutdoor || newOT != c.outdoorTemp {
				c.haveOutdoor = true
				c.outdoorTemp = newOT
				c.recalculate()
			}
		case zone := <-c.zoneChan:
			c.applyZoneState(zone)
			c.recalculate()
		case req := <-c.controlChan:
			c.handleControl(req)
		}
	}
}

func (c *FlowController) applyZoneState(zone *ZoneController) {
	st := zone.snapshot()
	if err := c.engine.SetZoneActive(zone.name, st.active); err != nil {
		logger.L().Error(err)
		return
	}
	if err := c.engine.SetZoneDemandFactor(zone.name, st.demandFactor); err != nil {
		logger.L().Error(err)
	}
	if st.tempTarget != nil {
		if err := c.engine.SetZoneTarget(zone.name, *st.tempTarget); err != nil {
			logger.L().Error(err)
		}
	}
	if st.currentTemp != nil {
		if err := c.engine.SetZoneCurrentTemp(zone.name, *st.currentTemp); err != nil {
			logger.L().Error(err)
		}
	}
}

// recalculate runs the engine and publishes. Diagnostics go out on every
// calculation; the flow temperature and status only when the value moved.
func (c *FlowController) recalculate() {
	if !c.haveOutdoor {
		logger.L().Debug("No outdoor temperature yet, skipping calculation")
		return
	}

	result := c.engine.Calculate(c.outdoorTemp)
	c.publisher.PublishDiagnostics(result)

	if !c.havePublished || result.FlowTemp != c.lastFlow {
		logger.L().Infof(
			"Updated flow temperature: %.2f -> %.2f (base %.2f, adjustment %.2f)",
			c.lastFlow, result.FlowTemp, result.BaseFlowTemp, result.Adjustment,
		)
		c.lastFlow = result.FlowTemp
		c.havePublished = true
		c.publisher.PublishFlowTemp(result.FlowTemp)
		c.publisher.PublishStatus(c.engine.Status())
	}
}

func (c *FlowController) handleControl(req controlRequest) {
	switch req.topic {
	case "curve_slope", "curve_offset", "curve_factor":
		value, err := strconv.ParseFloat(req.payload, 64)
		if err != nil {
			logger.L().Error(err)
			return
		}
		switch req.topic {
		case "curve_slope":
			c.engine.SetCurveSlope(value)
		case "curve_offset":
			c.engine.SetCurveOffset(value)
		case "curve_factor":
			if err := c.engine.SetCurveFactor(value); err != nil {
				logger.L().Errorf("Rejected curve factor %v: %v", value, err)
				return
			}
		}
		c.persistTuning(req.topic, req.payload)
		logger.L().Infof("Updated %s to %v", req.topic, value)
		c.recalculate()
	case "curve_type":
		if err := c.engine.SetCurveType(req.payload); err != nil {
			logger.L().Errorf("Rejected curve type `%v`: %v", req.payload, err)
			return
		}
		c.persistTuning(req.topic, req.payload)
		logger.L().Infof("Updated curve type to `%v`", req.payload)
		c.recalculate()
	case "log_level":
		if err := c.cfg.LogLevel.Set(req.payload); err != nil {
			logger.L().Errorf("Wrong log level `%v`", req.payload)
			return
		}
		logger.SetLogLevel(c.cfg.LogLevel)
		logger.L().Infof("Updated loglevel to `%v`", c.cfg.LogLevel.String())
	}
}

func (c *FlowController) persistTuning(name, value string) {
	if err := c.writeValue(name, value); err != nil {
		logger.L().Error(err)
	}
}

func (c *FlowController) writeValue(name, value string) error {
	return c.queries.UpsertControllerValue(
		context.Background(),
		db.UpsertControllerValueParams{Name: name, Value: value},
	)
}

func (c *FlowController) readValue(name string) (string, error) {
	return c.queries.GetControllerValue(context.Background(), name)
}
