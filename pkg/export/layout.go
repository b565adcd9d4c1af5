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

	"github.com/carverauto/fleetview/pkg/models"
)

// DocumentTitle heads every device document.
const DocumentTitle = "Device Data"

const listPrefix = "  - "

// PageSpec is the document geometry in millimetres.
type PageSpec struct {
	Width         float64
	Height        float64
	Margin        float64
	ContentWidth  float64
	LineHeight    float64
	TitleGap      float64
	TitleFontSize float64
	BodyFontSize  float64
	ListIndent    float64
	BottomLimit   float64
}

// A4 is the portrait A4 page the device document is laid out on.
func A4() PageSpec {
	return PageSpec{
		Width:         210,
		Height:        297,
		Margin:        10,
		ContentWidth:  180,
		LineHeight:    7,
		TitleGap:      10,
		TitleFontSize: 14,
		BodyFontSize:  10,
		ListIndent:    14,
		BottomLimit:   280,
	}
}

// Cursor is the write position on the current page.
type Cursor struct {
	Y          float64
	PageWidth  float64
	PageHeight float64
	Margin     float64
	Page       int
}

func NewCursor(spec PageSpec) Cursor {
	return Cursor{
		Y:          spec.Margin,
		PageWidth:  spec.Width,
		PageHeight: spec.Height,
		Margin:     spec.Margin,
		Page:       1,
	}
}

// Emit returns the cursor after a line of height step has been written. When the
// new position passes bottom, the returned cursor sits at the top margin of the
// next page and the flag is true.
func (c Cursor) Emit(step, bottom float64) (Cursor, bool) {
	c.Y += step
	if c.Y <= bottom {
		return c, false
	}

	c.Y = c.Margin
	c.Page++

	return c, true
}

type LineStyle int

const (
	StyleBody LineStyle = iota
	StyleTitle
)

// Line is one positioned line of text. Y is the baseline.
type Line struct {
	Page  int
	X     float64
	Y     float64
	Text  string
	Style LineStyle
}

// TextMeasurer wraps text so that no line is wider than width.
type TextMeasurer interface {
	SplitText(text string, width float64) []string
}

// Layout places the device record on pages: the title, then one block per field
// in record order. The page-break check runs after every line, so a block may
// continue on the next page.
func Layout(record *models.DeviceRecord, spec PageSpec, measurer TextMeasurer) []Line {
	l := &layout{spec: spec, measurer: measurer, cursor: NewCursor(spec)}

	l.put(spec.Margin, DocumentTitle, StyleTitle, spec.TitleGap)

	for _, f := range fields(record) {
		switch f.Kind {
		case kindDisks:
			l.put(spec.Margin, f.Key+":", StyleBody, spec.LineHeight)

			for _, label := range f.Items {
				l.put(spec.ListIndent, listPrefix+label, StyleBody, spec.LineHeight)
			}
		case kindSoftware:
			l.put(spec.Margin, f.Key+":", StyleBody, spec.LineHeight)

			for _, entry := range f.Items {
				l.wrapped(spec.ListIndent, listPrefix+entry)
			}
		case kindList:
			l.wrapped(spec.Margin, f.Key+": "+strings.Join(f.Items, ", "))
		case kindRecord, kindScalar:
			l.wrapped(spec.Margin, f.Key+": "+f.Text)
		}
	}

	return l.lines
}

type layout struct {
	spec     PageSpec
	measurer TextMeasurer
	cursor   Cursor
	lines    []Line
}

func (l *layout) put(x float64, text string, style LineStyle, step float64) {
	l.lines = append(l.lines, Line{
		Page:  l.cursor.Page,
		X:     x,
		Y:     l.cursor.Y,
		Text:  text,
		Style: style,
	})

	l.cursor, _ = l.cursor.Emit(step, l.spec.BottomLimit)
}

func (l *layout) wrapped(x float64, text string) {
	parts := l.measurer.SplitText(text, l.spec.ContentWidth)
	if len(parts) == 0 {
		parts = []string{text}
	}

	for _, part := range parts {
		l.put(x, part, StyleBody, l.spec.LineHeight)
	}
}

// FixedWidthMeasurer wraps text assuming every rune is CharWidth wide. It
// prefers breaking at the last space that fits and honours embedded newlines.
type FixedWidthMeasurer struct {
	CharWidth float64
}

func (m FixedWidthMeasurer) SplitText(text string, width float64) []string {
	maxRunes := 1
	if m.CharWidth > 0 && int(width/m.CharWidth) > 1 {
		maxRunes = int(width / m.CharWidth)
	}

	var lines []string

	for _, paragraph := range strings.Split(text, "\n") {
		lines = append(lines, wrapRunes([]rune(paragraph), maxRunes)...)
	}

	return lines
}

func wrapRunes(runes []rune, limit int) []string {
	var lines []string

	for len(runes) > limit {
		cut := limit

		for i := limit; i > 0; i-- {
			if runes[i] == ' ' {
				cut = i
				break
			}
		}

		lines = append(lines, strings.TrimRight(string(runes[:cut]), " "))

		runes = runes[cut:]
		for len(runes) > 0 && runes[0] == ' ' {
			runes = runes[1:]
		}
	}

	if len(runes) > 0 || len(lines) == 0 {
		lines = append(lines, string(runes))
	}

	return lines
}
