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
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

type fakeToken struct {
	err error
}

func (t *fakeToken) Wait() bool                     { return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Error() error                   { return t.err }

func (t *fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

type fakeMessage struct {
	topic   string
	payload string
}

func (m *fakeMessage) Duplicate() bool   { return false }
func (m *fakeMessage) Qos() byte         { return mqttQoS }
func (m *fakeMessage) Retained() bool    { return false }
func (m *fakeMessage) Topic() string     { return m.topic }
func (m *fakeMessage) MessageID() uint16 { return 0 }
func (m *fakeMessage) Payload() []byte   { return []byte(m.payload) }
func (m *fakeMessage) Ack()              {}

type publication struct {
	topic    string
	retained bool
	payload  string
}

// fakeMQTT records publications and captured subscription handlers so
// tests can drive controllers without a broker.
type fakeMQTT struct {
	mu            sync.Mutex
	published     []publication
	subscriptions map[string]mqtt.MessageHandler
}

func newFakeMQTT() *fakeMQTT {
	return &fakeMQTT{subscriptions: make(map[string]mqtt.MessageHandler)}
}

func (f *fakeMQTT) SafePublish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	var body string
	switch p := payload.(type) {
	case string:
		body = p
	case []byte:
		body = string(p)
	}
	f.mu.Lock()
	f.published = append(f.published, publication{topic: topic, retained: retained, payload: body})
	f.mu.Unlock()
	return &fakeToken{}
}

func (f *fakeMQTT) SafeSubscribe(topic string, qos byte, callback mqtt.MessageHandler) mqtt.Token {
	f.subscriptions[topic] = callback
	return &fakeToken{}
}

func (f *fakeMQTT) countTopic(topic string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, p := range f.published {
		if p.topic == topic {
			n++
		}
	}
	return n
}

func (f *fakeMQTT) lastPayload(topic string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	last := ""
	for _, p := range f.published {
		if p.topic == topic {
			last = p.payload
		}
	}
	return last
}

func (f *fakeMQTT) lastRetained(topic string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	retained := false
	for _, p := range f.published {
		if p.topic == topic {
			retained = p.retained
		}
	}
	return retained
}
