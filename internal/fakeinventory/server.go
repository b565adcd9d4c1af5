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

// Package fakeinventory serves a scripted inventory API for tests.
package fakeinventory

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"

	"github.com/gorilla/mux"
)

// Server emulates GET /devices and GET /devices/logs/{id}. Responses can be
// swapped at any time from the test goroutine.
type Server struct {
	*httptest.Server

	mu          sync.Mutex
	devices     []byte
	status      int
	logs        map[string][]byte
	logStatus   int
	deviceHits  atomic.Int64
	logRequests []string
}

func New() *Server {
	s := &Server{
		devices:   []byte("[]"),
		status:    http.StatusOK,
		logs:      make(map[string][]byte),
		logStatus: http.StatusOK,
	}

	r := mux.NewRouter()
	r.HandleFunc("/devices", s.handleDevices).Methods(http.MethodGet)
	r.HandleFunc("/devices/logs/{id}", s.handleLogs).Methods(http.MethodGet)

	s.Server = httptest.NewServer(r)

	return s
}

// SetDevices replaces the /devices body and resets its status to 200.
func (s *Server) SetDevices(body string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.devices = []byte(body)
	s.status = http.StatusOK
}

// FailDevices makes /devices answer with status until SetDevices is called.
func (s *Server) FailDevices(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status = status
}

func (s *Server) SetLogs(id, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logs[id] = []byte(body)
}

func (s *Server) FailLogs(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logStatus = status
}

func (s *Server) DeviceHits() int64 {
	return s.deviceHits.Load()
}

// LogRequests lists the device identifiers requested so far, in order.
func (s *Server) LogRequests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]string(nil), s.logRequests...)
}

func (s *Server) handleDevices(w http.ResponseWriter, _ *http.Request) {
	s.deviceHits.Add(1)

	s.mu.Lock()
	status, body := s.status, s.devices
	s.mu.Unlock()

	if status != http.StatusOK {
		http.Error(w, http.StatusText(status), status)
		return
	}

	writeJSON(w, body)
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	s.logRequests = append(s.logRequests, id)
	status := s.logStatus
	body, ok := s.logs[id]
	s.mu.Unlock()

	if status != http.StatusOK {
		http.Error(w, http.StatusText(status), status)
		return
	}

	if !ok {
		body = []byte(`{"logs":[]}`)
	}

	writeJSON(w, body)
}

func writeJSON(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
