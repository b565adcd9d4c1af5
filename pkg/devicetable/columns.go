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

package devicetable

import (
	"errors"
	"fmt"
	"strings"

	"github.com/carverauto/fleetview/pkg/models"
)

// ErrRenderFailed is returned when building table rows panics.
var ErrRenderFailed = errors.New("error rendering devices")

const (
	softwarePreview = 5
	notAvailable    = "N/A"
)

// Column is a table column bound to a record field.
type Column struct {
	Key   string
	Label string
}

// DefaultColumns is the column set of the device table, in display order.
func DefaultColumns() []Column {
	return []Column{
		{Key: models.FieldHostname, Label: "Hostname"},
		{Key: models.FieldIPAddress, Label: "IP Address"},
		{Key: models.FieldMACAddress, Label: "MAC Address"},
		{Key: models.FieldOS, Label: "OS"},
		{Key: models.FieldCPU, Label: "CPU"},
		{Key: models.FieldMemoryTotal, Label: "Memory (GB)"},
		{Key: models.FieldSerialNumber, Label: "Serial Number"},
		{Key: models.FieldHWID, Label: "HWID"},
		{Key: models.FieldBIOSVersion, Label: "BIOS Version"},
		{Key: models.FieldInstalledSoftware, Label: "Installed Software"},
	}
}

// HeaderLabel is the column title with an arrow on the active sort column.
func HeaderLabel(col Column, state models.SortState) string {
	if col.Key != state.Key {
		return col.Label
	}

	if state.Direction == models.Descending {
		return col.Label + " ↓"
	}

	return col.Label + " ↑"
}

// Cell renders one field for inline display. The software list shows its
// first five entries followed by "..." when there are more.
func Cell(record *models.DeviceRecord, key string) string {
	v, _ := record.Get(key)

	items, isList := v.([]any)

	switch {
	case isList && key == models.FieldInstalledSoftware:
		software := record.Software()
		if len(software) == 0 {
			return notAvailable
		}

		preview := software
		if len(preview) > softwarePreview {
			preview = preview[:softwarePreview]
		}

		text := strings.Join(preview, ", ")
		if len(software) > softwarePreview {
			text += "..."
		}

		return text
	case isList:
		parts := make([]string, 0, len(items))
		for _, item := range items {
			parts = append(parts, models.ValueString(item))
		}

		if len(parts) == 0 {
			return notAvailable
		}

		return strings.Join(parts, ", ")
	}

	if text := models.ValueString(v); text != "" {
		return text
	}

	return notAvailable
}

// Tooltip is the supplementary detail for a cell: the full software list,
// one entry per line. Other fields have no tooltip.
func Tooltip(record *models.DeviceRecord, key string) string {
	if key != models.FieldInstalledSoftware {
		return ""
	}

	return strings.Join(record.Software(), "\n")
}

// CellFunc renders a single cell.
type CellFunc func(record *models.DeviceRecord, key string) string

// Rows renders the table body. A panic raised while rendering is recovered and
// reported as ErrRenderFailed so the caller can show a fallback notice.
func Rows(records []*models.DeviceRecord, columns []Column, cell CellFunc) (rows [][]string, err error) {
	if cell == nil {
		cell = Cell
	}

	defer func() {
		if r := recover(); r != nil {
			rows = nil
			err = fmt.Errorf("%w: %v", ErrRenderFailed, r)
		}
	}()

	rows = make([][]string, 0, len(records))

	for _, rec := range records {
		row := make([]string, 0, len(columns))
		for _, col := range columns {
			row = append(row, cell(rec, col.Key))
		}

		rows = append(rows, row)
	}

	return rows, nil
}
