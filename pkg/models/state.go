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

import "time"

// SortDirection is the direction of the active table sort.
type SortDirection string

const (
	Ascending  SortDirection = "ascending"
	Descending SortDirection = "descending"
)

// SortState is the active sort column and direction. It is always replaced as
// a whole value.
type SortState struct {
	Key       string        `json:"key"`
	Direction SortDirection `json:"direction"`
}

// DefaultSortState sorts by hostname, ascending.
func DefaultSortState() SortState {
	return SortState{Key: FieldHostname, Direction: Ascending}
}

// DeviceSnapshot is the fetch state of the main device list. Records is the
// last successful payload; LastError describes the most recent failure and is
// cleared by the next success.
type DeviceSnapshot struct {
	Records   []*DeviceRecord
	LastError string
	Seq       uint64
	FetchedAt time.Time
}

// LogSnapshot is the fetch state of the log overlay for one device.
type LogSnapshot struct {
	DeviceKey string
	Logs      []LogEntry
	Raw       []byte
	LastError string
	Loading   bool
}

// Session is the persisted login flag.
type Session struct {
	LoggedIn bool      `json:"logged_in"`
	ID       string    `json:"id"`
	Username string    `json:"username"`
	Since    time.Time `json:"since"`
}
