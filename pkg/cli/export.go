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
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/carverauto/fleetview/pkg/export"
)

const (
	formatCSV = "csv"
	formatPDF = "pdf"
)

type exportOptions struct {
	host   string
	format string
	outDir string
}

// NewExportCommand fetches the device list once and exports one device.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &exportOptions{}

	cmd := &cobra.Command{
		Use:           "export",
		Short:         "Export one device as CSV or PDF",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExport(cmd, rootOpts, opts)
		},
	}

	cmd.Flags().StringVar(&opts.host, "host", "", "hostname or IP address of the device")
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatCSV, "output format (csv|pdf)")
	cmd.Flags().StringVarP(&opts.outDir, "out", "o", "", "output directory (default export.dir)")

	return cmd
}

func runExport(cmd *cobra.Command, rootOpts *RootOptions, opts *exportOptions) error {
	if opts.host == "" {
		return errNoHost
	}

	format := strings.ToLower(opts.format)
	if format != formatCSV && format != formatPDF {
		return fmt.Errorf("%w: %q", errUnknownFormat, opts.format)
	}

	ctx := cmd.Context()

	a, err := newApp(ctx, rootOpts)
	if err != nil {
		return err
	}
	defer a.close()

	exporter := a.exporter
	if opts.outDir != "" {
		exporter = export.New(export.NewFileSink(opts.outDir), export.NewPDFBackend(a.cfg.Export.PDFFont), a.log)
	}

	rec, err := a.findDevice(ctx, opts.host)
	if err != nil {
		return err
	}

	var art export.Artifact

	if format == formatPDF {
		art, err = exporter.PDF(rec)
	} else {
		art, err = exporter.CSV(rec)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s (%s, %d bytes)\n", art.Path, art.MIME, art.Size)

	return err
}
