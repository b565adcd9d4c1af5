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

package export

import (
	"strings"
	"unicode"

	"github.com/carverauto/fleetview/pkg/models"
)

const fallbackBaseName = "device"

const (
	MIMECSV  = "text/csv"
	MIMEPDF  = "application/pdf"
	MIMEJSON = "application/json"
)

func CSVFileName(record *models.DeviceRecord) string {
	return baseName(record.String(models.FieldHostname)) + ".csv"
}

func PDFFileName(record *models.DeviceRecord) string {
	return baseName(record.String(models.FieldHostname)) + ".pdf"
}

// LogDumpFileName prefers the hostname, then the IP address.
func LogDumpFileName(record *models.DeviceRecord) string {
	name := record.String(models.FieldHostname)
	if name == "" {
		name = record.String(models.FieldIPAddress)
	}

	return baseName(name) + "_logs.json"
}

func baseName(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) || strings.ContainsRune(`/\:*?"<>|`, r) {
			return '_'
		}

		return r
	}, strings.TrimSpace(name))

	if cleaned == "" || strings.Trim(cleaned, ".") == "" {
		return fallbackBaseName
	}

	return cleaned
}
