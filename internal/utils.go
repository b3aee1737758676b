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
	"strconv"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/pkg/errors"
)

const (
	mqttQoS         = 1
	childChanBuffer = 16
)

var zeroTS time.Time

func init() {
	zeroTS = time.UnixMicro(0)
}

func extractF64PlainOrJson(message mqtt.Message, JSONEntry *string) (float64, error) {
	if JSONEntry == nil {
		return strconv.ParseFloat(string(message.Payload()), 64)
	}

	v, err := extractJSONEntry(message, *JSONEntry)
	if err != nil {
		return 0, err
	}

	t0, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("cannot cast `%v` to float64 in : %v : %v", v, message.Topic(), string(message.Payload()))
	}

	return t0, nil
}

// extractBoolPlainOrJson accepts the usual automation spellings of a
// switch state, both bare and inside a JSON document.
func extractBoolPlainOrJson(message mqtt.Message, JSONEntry *string) (bool, error) {
	if JSONEntry == nil {
		return parseBoolWord(string(message.Payload()))
	}

	v, err := extractJSONEntry(message, *JSONEntry)
	if err != nil {
		return false, err
	}

	switch t := v.(type) {
	case bool:
		return t, nil
	case string:
		return parseBoolWord(t)
	case float64:
		return t != 0, nil
	default:
		return false, fmt.Errorf("cannot cast `%v` to bool in : %v : %v", v, message.Topic(), string(message.Payload()))
	}
}

func extractJSONEntry(message mqtt.Message, entry string) (interface{}, error) {
	var valMap map[string]interface{}
	if err := json.Unmarshal(message.Payload(), &valMap); err != nil {
		return nil, errors.Wrapf(err, "json unmarshal error with : %v : %v", message.Topic(), string(message.Payload()))
	}

	v, ok := valMap[entry]
	if !ok {
		return nil, fmt.Errorf("not found: `%v` in `%v`: %v", entry, message.Topic(), string(message.Payload()))
	}

	return v, nil
}

func parseBoolWord(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "on", "heat", "heating":
		return true, nil
	case "0", "false", "off", "idle":
		return false, nil
	}
	return false, fmt.Errorf("not a boolean word: `%v`", s)
}
