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

package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/carverauto/fleetview/pkg/export"
	"github.com/carverauto/fleetview/pkg/models"
)

type logsOptions struct {
	device string
	outDir string
}

// NewLogsCommand saves the raw logs payload of one device.
func NewLogsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &logsOptions{}

	cmd := &cobra.Command{
		Use:           "logs",
		Short:         "Save the logs reported for one device as JSON",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLogs(cmd, rootOpts, opts)
		},
	}

	cmd.Flags().StringVar(&opts.device, "device", "", "hostname or IP address of the device")
	cmd.Flags().StringVarP(&opts.outDir, "out", "o", "", "output directory (default export.dir)")

	return cmd
}

func runLogs(cmd *cobra.Command, rootOpts *RootOptions, opts *logsOptions) error {
	if opts.device == "" {
		return errNoDevice
	}

	ctx := cmd.Context()

	a, err := newApp(ctx, rootOpts)
	if err != nil {
		return err
	}
	defer a.close()

	rec, err := a.findDevice(ctx, opts.device)
	if errors.Is(err, errDeviceNotFound) {
		// the logs endpoint may know devices that are no longer listed
		rec = models.NewDeviceRecord(models.Field{Key: models.FieldIPAddress, Value: opts.device})
	} else if err != nil {
		return err
	}

	logs, err := a.inventory.FetchLogs(ctx, rec.Identifier())
	if err != nil {
		return err
	}

	exporter := a.exporter
	if opts.outDir != "" {
		exporter = export.New(export.NewFileSink(opts.outDir), nil, a.log)
	}

	art, err := exporter.LogDump(rec, logs.Raw)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s (%d entries, %d bytes)\n", art.Path, len(logs.Logs), art.Size)

	return err
}
