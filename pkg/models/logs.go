/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// LogEntry is a single event from a device's event log.
type LogEntry struct {
	Time    string  `json:"time"`
	Source  string  `json:"source"`
	EventID EventID `json:"event_id"`
	Message string  `json:"message"`
}

// LogsResponse is the body of GET /devices/logs/{id}.
type LogsResponse struct {
	Logs []LogEntry `json:"logs"`
}

// EventID holds an event identifier that agents report either as a number
// or as a string.
type EventID string

func (e *EventID) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*e = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*e = EventID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("invalid event_id %s: %w", string(b), err)
	}

	*e = EventID(n.String())

	return nil
}
