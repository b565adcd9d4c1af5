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

// Package devicetable orders device records for display and renders their cells.
package devicetable

import (
	"cmp"
	"encoding/json"
	"sort"
	"strings"

	"github.com/carverauto/fleetview/pkg/models"
)

// Sort returns a new slice holding records ordered by state. The input slice is
// not modified and records that compare equal keep their relative order.
func Sort(records []*models.DeviceRecord, state models.SortState) []*models.DeviceRecord {
	out := make([]*models.DeviceRecord, len(records))
	copy(out, records)

	sign := 1
	if state.Direction == models.Descending {
		sign = -1
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, _ := out[i].Get(state.Key)
		b, _ := out[j].Get(state.Key)

		return sign*Compare(a, b) < 0
	})

	return out
}

// Toggle returns the sort state after the user asks to sort by key. Asking
// again for the active ascending key flips it to descending; everything else
// activates key in ascending order.
func Toggle(current models.SortState, key string) models.SortState {
	if current.Key == key && current.Direction == models.Ascending {
		return models.SortState{Key: key, Direction: models.Descending}
	}

	return models.SortState{Key: key, Direction: models.Ascending}
}

// Compare is a three-way comparison of two record values. Missing and null
// values compare as the empty string. Two numbers compare numerically and two
// booleans compare false before true; any other pair compares by text.
func Compare(a, b any) int {
	if a == nil {
		a = ""
	}

	if b == nil {
		b = ""
	}

	if x, ok := number(a); ok {
		if y, ok := number(b); ok {
			return cmp.Compare(x, y)
		}
	}

	if x, ok := a.(bool); ok {
		if y, ok := b.(bool); ok {
			return compareBool(x, y)
		}
	}

	return strings.Compare(models.ValueString(a), models.ValueString(b))
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func compareBool(x, y bool) int {
	switch {
	case x == y:
		return 0
	case !x:
		return -1
	default:
		return 1
	}
}
