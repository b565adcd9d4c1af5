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
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	log "go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.31.0"
	"google.golang.org/grpc/credentials"

	"github.com/carverauto/fleetview/pkg/models"
)

var (
	ErrOTelLoggingDisabled  = errors.New("OTel logging is disabled")
	ErrOTelEndpointRequired = errors.New("OTel endpoint is required when enabled")
	errFailedToParseCACert  = errors.New("failed to parse CA certificate")
)

const (
	maxAttributeValueLength = 4096
	defaultScope            = "fleetview"
	defaultBatchTimeout     = 5 * time.Second
	shutdownTimeout         = 10 * time.Second
)

type OTelConfig struct {
	Enabled      bool              `json:"enabled" yaml:"enabled"`
	Endpoint     string            `json:"endpoint" yaml:"endpoint"`
	Headers      map[string]string `json:"headers" yaml:"headers" sensitive:"true"`
	ServiceName  string            `json:"service_name" yaml:"service_name"`
	BatchTimeout models.Duration   `json:"batch_timeout" yaml:"batch_timeout"`
	Insecure     bool              `json:"insecure" yaml:"insecure"`
	TLS          *TLSConfig        `json:"tls,omitempty" yaml:"tls,omitempty"`
}

type TLSConfig struct {
	CertFile string `json:"cert_file" yaml:"cert_file"`
	KeyFile  string `json:"key_file" yaml:"key_file"`
	CAFile   string `json:"ca_file,omitempty" yaml:"ca_file,omitempty"`
}

// OTelWriter is a zerolog level writer that re-emits each JSON line as an
// OTLP log record. The "component" field selects the instrumentation scope.
type OTelWriter struct {
	provider *sdklog.LoggerProvider
	ctx      context.Context

	mu      sync.Mutex
	loggers map[string]log.Logger
}

var _ zerolog.LevelWriter = (*OTelWriter)(nil)

// NewOTELWriter builds a batching OTLP/gRPC exporter. The provider is flushed
// and released by Shutdown.
func NewOTELWriter(ctx context.Context, config OTelConfig) (*OTelWriter, error) {
	if !config.Enabled {
		return nil, ErrOTelLoggingDisabled
	}

	if config.Endpoint == "" {
		return nil, ErrOTelEndpointRequired
	}

	opts, err := exporterOptions(config)
	if err != nil {
		return nil, err
	}

	exporter, err := otlploggrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP log exporter: %w", err)
	}

	serviceName := config.ServiceName
	if serviceName == "" {
		serviceName = defaultServiceName
	}

	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(serviceName)))
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	batchTimeout := time.Duration(config.BatchTimeout)
	if batchTimeout <= 0 {
		batchTimeout = defaultBatchTimeout
	}

	provider := sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter, sdklog.WithExportTimeout(batchTimeout))),
	)

	registerCloser(providerCloser{provider: provider})

	return &OTelWriter{
		provider: provider,
		ctx:      ctx,
		loggers:  make(map[string]log.Logger),
	}, nil
}

func exporterOptions(config OTelConfig) ([]otlploggrpc.Option, error) {
	opts := []otlploggrpc.Option{otlploggrpc.WithEndpoint(config.Endpoint)}

	switch {
	case config.Insecure:
		opts = append(opts, otlploggrpc.WithInsecure())
	case config.TLS != nil:
		tlsConfig, err := loadTLSConfig(config.TLS)
		if err != nil {
			return nil, fmt.Errorf("failed to setup TLS configuration: %w", err)
		}

		opts = append(opts, otlploggrpc.WithTLSCredentials(credentials.NewTLS(tlsConfig)))
	}

	if len(config.Headers) > 0 {
		opts = append(opts, otlploggrpc.WithHeaders(config.Headers))
	}

	return opts, nil
}

// Write is used for lines without a level; they are emitted at info.
func (w *OTelWriter) Write(p []byte) (int, error) {
	return w.WriteLevel(zerolog.NoLevel, p)
}

// WriteLevel never fails; lines that are not JSON objects are dropped.
func (w *OTelWriter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	if w.provider == nil {
		return len(p), nil
	}

	entry := make(map[string]interface{})
	if err := json.Unmarshal(p, &entry); err != nil {
		return len(p), nil
	}

	w.emitter(popString(entry, "component")).Emit(w.ctx, buildRecord(level, entry))

	return len(p), nil
}

func (w *OTelWriter) emitter(scope string) log.Logger {
	if scope == "" {
		scope = defaultScope
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	l, ok := w.loggers[scope]
	if !ok {
		l = w.provider.Logger(scope)
		w.loggers[scope] = l
	}

	return l
}

func buildRecord(level zerolog.Level, entry map[string]interface{}) log.Record {
	record := log.Record{}

	if ts, err := time.Parse(time.RFC3339, popString(entry, zerolog.TimestampFieldName)); err == nil {
		record.SetTimestamp(ts)
	}

	// the level field is redundant with the writer level
	delete(entry, zerolog.LevelFieldName)

	record.SetSeverity(severity(level))
	record.SetSeverityText(level.String())

	if message := popString(entry, zerolog.MessageFieldName); message != "" {
		record.SetBody(log.StringValue(message))
	}

	for key, value := range entry {
		record.AddAttributes(attribute(key, value))
	}

	return record
}

func popString(entry map[string]interface{}, key string) string {
	value, ok := entry[key].(string)
	if ok {
		delete(entry, key)
	}

	return value
}

// attribute keeps scalar JSON types and flattens everything else to JSON text.
func attribute(key string, value interface{}) log.KeyValue {
	switch v := value.(type) {
	case string:
		return log.String(key, truncateString(v, maxAttributeValueLength))
	case bool:
		return log.Bool(key, v)
	case float64:
		return log.Float64(key, v)
	case nil:
		return log.String(key, "null")
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return log.String(key, truncateString(fmt.Sprint(value), maxAttributeValueLength))
	}

	return log.String(key, truncateString(string(payload), maxAttributeValueLength))
}

func truncateString(value string, limit int) string {
	if len(value) <= limit {
		return value
	}

	truncated := value[:limit-3]
	for !utf8.ValidString(truncated) && len(truncated) > 0 {
		truncated = truncated[:len(truncated)-1]
	}

	return truncated + "..."
}

func severity(level zerolog.Level) log.Severity {
	//nolint:exhaustive // remaining levels map to info
	switch level {
	case zerolog.TraceLevel:
		return log.SeverityTrace
	case zerolog.DebugLevel:
		return log.SeverityDebug
	case zerolog.WarnLevel:
		return log.SeverityWarn
	case zerolog.ErrorLevel:
		return log.SeverityError
	case zerolog.FatalLevel, zerolog.PanicLevel:
		return log.SeverityFatal
	default:
		return log.SeverityInfo
	}
}

type providerCloser struct {
	provider *sdklog.LoggerProvider
}

func (c providerCloser) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return c.provider.Shutdown(ctx)
}

func loadTLSConfig(cfg *TLSConfig) (*tls.Config, error) {
	out := &tls.Config{MinVersion: tls.VersionTLS12}

	if cfg.CertFile != "" && cfg.KeyFile != "" {
		cert, err := tls.LoadX509KeyPair(cfg.CertFile, cfg.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load client certificate: %w", err)
		}

		out.Certificates = []tls.Certificate{cert}
	}

	if cfg.CAFile == "" {
		return out, nil
	}

	pem, err := os.ReadFile(cfg.CAFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read CA certificate: %w", err)
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, errFailedToParseCACert
	}

	out.RootCAs = pool

	return out, nil
}
