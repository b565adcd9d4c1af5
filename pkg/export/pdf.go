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
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

const (
	DefaultFontFamily = "Helvetica"
	producerName      = "fleetview"
	unmappableRune    = '?'
)

// DocumentBackend renders laid-out lines into a document.
type DocumentBackend interface {
	// Available reports ErrBackendUnavailable when the backend cannot render now.
	Available() error
	Measurer(spec PageSpec) (TextMeasurer, error)
	Render(lines []Line, spec PageSpec, title string) ([]byte, error)
}

// PDFBackend renders with fpdf's core fonts, which use the Windows-1252 code
// page. Runes outside it are written as '?'.
type PDFBackend struct {
	FontFamily string
	// Now stamps the document creation date; nil means time.Now.
	Now func() time.Time
}

func NewPDFBackend(fontFamily string) *PDFBackend {
	if fontFamily == "" {
		fontFamily = DefaultFontFamily
	}

	return &PDFBackend{FontFamily: fontFamily, Now: time.Now}
}

var coreFonts = map[string]bool{
	"helvetica": true,
	"arial":     true,
	"times":     true,
	"courier":   true,
}

func (b *PDFBackend) Available() error {
	if b == nil {
		return ErrBackendUnavailable
	}

	if !coreFonts[strings.ToLower(b.FontFamily)] {
		return fmt.Errorf("%w: font family %q is not a core font", ErrBackendUnavailable, b.FontFamily)
	}

	return nil
}

func (b *PDFBackend) newDocument(spec PageSpec) *fpdf.Fpdf {
	doc := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: spec.Width, Ht: spec.Height},
	})

	doc.SetMargins(spec.Margin, spec.Margin, spec.Margin)
	doc.SetAutoPageBreak(false, spec.Margin)
	doc.SetFont(b.FontFamily, "", spec.BodyFontSize)

	return doc
}

// Measurer returns a wrapper backed by fpdf's font metrics at the body size.
func (b *PDFBackend) Measurer(spec PageSpec) (TextMeasurer, error) {
	if err := b.Available(); err != nil {
		return nil, err
	}

	doc := b.newDocument(spec)
	if err := doc.Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRenderFailed, err)
	}

	return &pdfMeasurer{doc: doc}, nil
}

func (b *PDFBackend) Render(lines []Line, spec PageSpec, title string) ([]byte, error) {
	if err := b.Available(); err != nil {
		return nil, err
	}

	doc := b.newDocument(spec)
	doc.SetTitle(title, true)
	doc.SetCreator(producerName, true)

	now := time.Now
	if b.Now != nil {
		now = b.Now
	}

	doc.SetCreationDate(now())

	pages := 0

	for _, line := range lines {
		for pages < line.Page {
			doc.AddPage()
			pages++
		}

		size := spec.BodyFontSize
		if line.Style == StyleTitle {
			size = spec.TitleFontSize
		}

		doc.SetFontSize(size)
		doc.Text(line.X, line.Y, string(toWinAnsi(line.Text)))
	}

	if pages == 0 {
		doc.AddPage()
	}

	var buf bytes.Buffer

	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRenderFailed, err)
	}

	return buf.Bytes(), nil
}

type pdfMeasurer struct {
	doc *fpdf.Fpdf
}

// SplitText measures in Windows-1252. fpdf's core-font width tables are indexed
// by byte, so each encoded byte is handed over as a rune below 256 and the
// resulting lines are decoded back to UTF-8.
func (m *pdfMeasurer) SplitText(text string, width float64) []string {
	encoded := toWinAnsi(text)

	widened := make([]rune, len(encoded))
	for i, c := range encoded {
		widened[i] = rune(c)
	}

	parts := m.doc.SplitText(string(widened), width)

	out := make([]string, 0, len(parts))
	for _, part := range parts {
		out = append(out, fromWidened(part))
	}

	return out
}

func toWinAnsi(s string) []byte {
	s = norm.NFC.String(s)
	out := make([]byte, 0, len(s))

	for _, r := range s {
		c, ok := charmap.Windows1252.EncodeRune(r)
		if !ok {
			c = unmappableRune
		}

		out = append(out, c)
	}

	return out
}

func fromWidened(s string) string {
	var b strings.Builder

	for _, r := range s {
		if r > 0xff {
			b.WriteRune(unmappableRune)
			continue
		}

		b.WriteRune(charmap.Windows1252.DecodeByte(byte(r)))
	}

	return b.String()
}
