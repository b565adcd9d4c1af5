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

package logger

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	log "go.opentelemetry.io/otel/log"

	"github.com/carverauto/fleetview/pkg/models"
)

func TestOTelConfig(t *testing.T) {
	t.Setenv("OTEL_SERVICE_NAME", "")
	t.Setenv("OTEL_EXPORTER_OTLP_LOGS_TIMEOUT", "")

	config := DefaultOTelConfig()

	if config.ServiceName != "fleetview" {
		t.Errorf("Expected default ServiceName fleetview, got %q", config.ServiceName)
	}

	if config.BatchTimeout != models.Duration(5*time.Second) {
		t.Errorf("Expected default BatchTimeout to be 5s, got %v", config.BatchTimeout)
	}
}

func TestOTelWriter_Disabled(t *testing.T) {
	writer, err := NewOTELWriter(context.Background(), OTelConfig{Enabled: false})
	if !errors.Is(err, ErrOTelLoggingDisabled) {
		t.Errorf("Expected ErrOTelLoggingDisabled, got %v", err)
	}

	if writer != nil {
		t.Error("Writer should be nil when OTel is disabled")
	}
}

func TestOTelWriter_NoEndpoint(t *testing.T) {
	writer, err := NewOTELWriter(context.Background(), OTelConfig{Enabled: true})
	if !errors.Is(err, ErrOTelEndpointRequired) {
		t.Errorf("Expected ErrOTelEndpointRequired, got %v", err)
	}

	if writer != nil {
		t.Error("Writer should be nil when endpoint is empty")
	}
}

func TestOTelWriter_WithoutProviderSwallowsWrites(t *testing.T) {
	w := &OTelWriter{}

	n, err := w.Write([]byte(`{"level":"info","message":"hi"}`))
	if err != nil || n == 0 {
		t.Errorf("Write() = %d, %v", n, err)
	}
}

func TestBuildRecord(t *testing.T) {
	entry := map[string]interface{}{
		"time":    "2025-01-02T03:04:05Z",
		"level":   "error",
		"message": "fetch failed",
		"status":  float64(500),
	}

	record := buildRecord(zerolog.ErrorLevel, entry)

	if record.Severity() != log.SeverityError {
		t.Errorf("Expected error severity, got %v", record.Severity())
	}

	if record.SeverityText() != "error" {
		t.Errorf("Unexpected severity text %q", record.SeverityText())
	}

	if record.Body().AsString() != "fetch failed" {
		t.Errorf("Unexpected body %q", record.Body().AsString())
	}

	if record.Timestamp().IsZero() {
		t.Error("Expected timestamp to be parsed")
	}

	if record.AttributesLen() != 1 {
		t.Fatalf("Expected 1 remaining attribute, got %d", record.AttributesLen())
	}

	record.WalkAttributes(func(kv log.KeyValue) bool {
		if kv.Key != "status" || kv.Value.Kind() != log.KindFloat64 || kv.Value.AsFloat64() != 500 {
			t.Errorf("Unexpected attribute %s=%v", kv.Key, kv.Value)
		}

		return true
	})
}

func TestAttribute(t *testing.T) {
	if got := attribute("k", nil).Value.AsString(); got != "null" {
		t.Errorf("nil formatted as %q", got)
	}

	if got := attribute("k", true).Value; got.Kind() != log.KindBool || !got.AsBool() {
		t.Errorf("bool kept as %v", got)
	}

	if got := attribute("k", []interface{}{"a", float64(1)}).Value.AsString(); got != `["a",1]` {
		t.Errorf("slice formatted as %q", got)
	}

	long := attribute("k", string(bytes.Repeat([]byte("x"), maxAttributeValueLength+10))).Value.AsString()
	if len(long) != maxAttributeValueLength {
		t.Errorf("Expected truncation to %d bytes, got %d", maxAttributeValueLength, len(long))
	}
}

func TestSeverity(t *testing.T) {
	tests := []struct {
		level    zerolog.Level
		expected log.Severity
	}{
		{zerolog.TraceLevel, log.SeverityTrace},
		{zerolog.DebugLevel, log.SeverityDebug},
		{zerolog.InfoLevel, log.SeverityInfo},
		{zerolog.WarnLevel, log.SeverityWarn},
		{zerolog.ErrorLevel, log.SeverityError},
		{zerolog.FatalLevel, log.SeverityFatal},
		{zerolog.PanicLevel, log.SeverityFatal},
		{zerolog.NoLevel, log.SeverityInfo},
	}

	for _, test := range tests {
		if result := severity(test.level); result != test.expected {
			t.Errorf("severity(%s) = %v, expected %v", test.level, result, test.expected)
		}
	}
}

func TestLoadTLSConfig_BadCA(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ca.pem")
	if err := os.WriteFile(path, []byte("not a certificate"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := loadTLSConfig(&TLSConfig{CAFile: path}); !errors.Is(err, errFailedToParseCACert) {
		t.Errorf("Expected errFailedToParseCACert, got %v", err)
	}
}
