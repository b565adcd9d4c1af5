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
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/fleetview/pkg/models"
)

func traceLines(lines []Line) []byte {
	var b strings.Builder

	for _, l := range lines {
		style := "body"
		if l.Style == StyleTitle {
			style = "title"
		}

		fmt.Fprintf(&b, "%d\t%g\t%g\t%s\t%s\n", l.Page, l.X, l.Y, style, l.Text)
	}

	return []byte(b.String())
}

func TestLayout_Golden(t *testing.T) {
	record := decodeRecord(t, `{
		"hostname": "web-01",
		"disks": [{"device": "C:", "model": "SSD", "size": 512}],
		"installed_software": ["7-Zip", "Chrome"],
		"cpu": "Intel Core i7-9700 CPU @ 3.00GHz"
	}`)

	lines := Layout(record, A4(), FixedWidthMeasurer{CharWidth: 5})

	g := newGoldie(t)
	g.Assert(t, "web-01.layout", traceLines(lines))
}

func TestCursor_Emit(t *testing.T) {
	spec := A4()
	c := NewCursor(spec)

	assert.Equal(t, 10.0, c.Y)
	assert.Equal(t, 1, c.Page)

	next, broke := c.Emit(7, spec.BottomLimit)
	assert.False(t, broke)
	assert.Equal(t, 17.0, next.Y)
	assert.Equal(t, 10.0, c.Y, "Emit must not mutate the receiver")

	atLimit := Cursor{Y: 273, Margin: 10, Page: 1}
	next, broke = atLimit.Emit(7, spec.BottomLimit)
	assert.False(t, broke, "exactly on the limit stays on the page")
	assert.Equal(t, 280.0, next.Y)

	next, broke = next.Emit(7, spec.BottomLimit)
	assert.True(t, broke)
	assert.Equal(t, 10.0, next.Y)
	assert.Equal(t, 2, next.Page)
}

func TestLayout_SoftwareBlockSplitsAcrossPages(t *testing.T) {
	software := make([]string, 40)
	for i := range software {
		software[i] = fmt.Sprintf("pkg-%02d", i)
	}

	record := models.NewDeviceRecord(
		models.Field{Key: models.FieldInstalledSoftware, Value: software},
		models.Field{Key: models.FieldOS, Value: "Linux"},
	)

	lines := Layout(record, A4(), FixedWidthMeasurer{CharWidth: 2})

	require.Len(t, lines, 1+1+40+1)

	assert.Equal(t, Line{Page: 1, X: 10, Y: 10, Text: DocumentTitle, Style: StyleTitle}, lines[0])
	assert.Equal(t, Line{Page: 1, X: 10, Y: 20, Text: "installed_software:"}, lines[1])

	assert.Equal(t, Line{Page: 1, X: 14, Y: 279, Text: "  - pkg-36"}, lines[2+36])
	assert.Equal(t, Line{Page: 2, X: 14, Y: 10, Text: "  - pkg-37"}, lines[2+37])
	assert.Equal(t, Line{Page: 2, X: 10, Y: 31, Text: "os: Linux"}, lines[len(lines)-1])

	for _, l := range lines {
		assert.LessOrEqual(t, l.Y, A4().BottomLimit)
	}
}

func TestLayout_LongScalarWrapsAndBreaksMidBlock(t *testing.T) {
	long := strings.TrimSpace(strings.Repeat("word ", 200))
	record := models.NewDeviceRecord(models.Field{Key: "notes", Value: long})

	lines := Layout(record, A4(), FixedWidthMeasurer{CharWidth: 2})

	pages := map[int]int{}
	var rebuilt []string

	for _, l := range lines[1:] {
		pages[l.Page]++
		rebuilt = append(rebuilt, l.Text)
		assert.LessOrEqual(t, len([]rune(l.Text)), 90)
	}

	assert.Equal(t, "notes: "+long, strings.Join(rebuilt, " "))
	assert.Len(t, pages, 1, "1000 chars at 90 per line fit on one page")

	huge := strings.TrimSpace(strings.Repeat("word ", 1000))
	lines = Layout(models.NewDeviceRecord(models.Field{Key: "notes", Value: huge}), A4(), FixedWidthMeasurer{CharWidth: 2})
	assert.Greater(t, lines[len(lines)-1].Page, 1)
}

func TestLayout_NullAndListsAndNested(t *testing.T) {
	record := decodeRecord(t, `{"tags": ["a", "b"], "owner": null, "meta": {"z": 1, "a": true}}`)

	lines := Layout(record, A4(), FixedWidthMeasurer{CharWidth: 1})

	texts := make([]string, 0, len(lines))
	for _, l := range lines {
		texts = append(texts, l.Text)
	}

	assert.Equal(t, []string{DocumentTitle, "tags: a, b", "owner: ", `meta: {"z":1,"a":true}`}, texts)
}

func TestFixedWidthMeasurer(t *testing.T) {
	m := FixedWidthMeasurer{CharWidth: 1}

	assert.Equal(t, []string{"abc", "def"}, m.SplitText("abc def", 4))
	assert.Equal(t, []string{"abcd", "efgh", "ij"}, m.SplitText("abcdefghij", 4))
	assert.Equal(t, []string{"ab", "cd"}, m.SplitText("ab\ncd", 10))
	assert.Equal(t, []string{"abc"}, m.SplitText("abc ", 3))
	assert.Equal(t, []string{""}, m.SplitText("", 3))
}
