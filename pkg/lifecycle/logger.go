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

// Package lifecycle builds the component loggers shared by the FleetView
// commands and releases the log outputs on exit.
package lifecycle

import (
	"context"
	"fmt"

	"github.com/carverauto/fleetview/pkg/logger"
)

// CreateComponentLogger opens the configured output and returns a logger
// tagged with component. A nil config uses logger.DefaultConfig.
func CreateComponentLogger(ctx context.Context, component string, config *logger.Config) (logger.Logger, error) {
	if config == nil {
		config = logger.DefaultConfig()
	}

	zl, err := logger.New(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return logger.Wrap(zl.With().Str("component", component).Logger()), nil
}

// Derive returns a child of l tagged with component, sharing its output.
func Derive(l logger.Logger, component string) logger.Logger {
	return logger.Wrap(l.WithComponent(component))
}

// ShutdownLogger flushes pending OTLP records and closes log files.
func ShutdownLogger() error {
	return logger.Shutdown()
}
