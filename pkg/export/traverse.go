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
	"github.com/carverauto/fleetview/pkg/models"
)

type fieldKind int

const (
	kindScalar fieldKind = iota
	kindDisks
	kindSoftware
	kindList
	kindRecord
)

// field is one classified record entry. Items holds the rendered entries of
// sequence kinds; Text holds everything else.
type field struct {
	Key   string
	Kind  fieldKind
	Items []string
	Text  string
}

// fields walks the record in key order. JSON null renders as the empty string.
func fields(record *models.DeviceRecord) []field {
	out := make([]field, 0, record.Len())

	record.Range(func(key string, value any) bool {
		out = append(out, classify(key, value))
		return true
	})

	return out
}

func classify(key string, value any) field {
	switch v := value.(type) {
	case []any:
		f := field{Key: key, Kind: kindList}

		switch key {
		case models.FieldDisks:
			f.Kind = kindDisks
			f.Items = diskLabels(v)
		case models.FieldInstalledSoftware:
			f.Kind = kindSoftware
			f.Items = itemTexts(v)
		default:
			f.Items = itemTexts(v)
		}

		return f
	case *models.DeviceRecord:
		return field{Key: key, Kind: kindRecord, Text: models.CanonicalJSON(v)}
	default:
		return field{Key: key, Kind: kindScalar, Text: models.ValueString(v)}
	}
}

func diskLabels(items []any) []string {
	out := make([]string, 0, len(items))

	for _, item := range items {
		if sub, ok := item.(*models.DeviceRecord); ok {
			out = append(out, models.DiskFromRecord(sub).Label())
			continue
		}

		out = append(out, models.ValueString(item))
	}

	return out
}

func itemTexts(items []any) []string {
	out := make([]string, 0, len(items))

	for _, item := range items {
		out = append(out, models.ValueString(item))
	}

	return out
}
