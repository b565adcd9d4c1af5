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
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/carverauto/fleetview/pkg/models"
)

const (
	csvSeparator  = ","
	csvListJoiner = "; "
	csvLineBreak  = "\n"
)

// ToCSV renders a single record as a header line and a value line.
func ToCSV(record *models.DeviceRecord) []byte {
	var buf bytes.Buffer

	_ = WriteCSV(&buf, record)

	return buf.Bytes()
}

// WriteCSV writes the two-line form of record to w. Every value is quoted;
// header names are quoted only when they would break the field count. There is
// no trailing newline.
func WriteCSV(w io.Writer, record *models.DeviceRecord) error {
	entries := fields(record)
	header := make([]string, 0, len(entries))
	values := make([]string, 0, len(entries))

	for _, f := range entries {
		header = append(header, csvHeaderName(f.Key))
		values = append(values, QuoteCSVField(csvValue(f)))
	}

	_, err := io.WriteString(w,
		strings.Join(header, csvSeparator)+csvLineBreak+strings.Join(values, csvSeparator))
	if err != nil {
		return fmt.Errorf("write csv: %w", err)
	}

	return nil
}

func csvValue(f field) string {
	switch f.Kind {
	case kindDisks, kindSoftware, kindList:
		return strings.Join(f.Items, csvListJoiner)
	default:
		return f.Text
	}
}

func csvHeaderName(key string) string {
	if strings.ContainsAny(key, ",\"\r\n") {
		return QuoteCSVField(key)
	}

	return key
}

// QuoteCSVField wraps s in double quotes, doubling any embedded quote.
func QuoteCSVField(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// UnquoteCSVField reverses QuoteCSVField.
func UnquoteCSVField(s string) (string, error) {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return "", fmt.Errorf("%w: %q", ErrMalformedField, s)
	}

	inner := s[1 : len(s)-1]

	var b strings.Builder

	b.Grow(len(inner))

	for i := 0; i < len(inner); i++ {
		if inner[i] != '"' {
			b.WriteByte(inner[i])
			continue
		}

		if i+1 >= len(inner) || inner[i+1] != '"' {
			return "", fmt.Errorf("%w: lone quote at offset %d", ErrMalformedField, i+1)
		}

		b.WriteByte('"')
		i++
	}

	return b.String(), nil
}
