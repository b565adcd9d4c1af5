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

package dashboard

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/carverauto/fleetview/pkg/devicetable"
	"github.com/carverauto/fleetview/pkg/export"
	"github.com/carverauto/fleetview/pkg/models"
	"github.com/carverauto/fleetview/pkg/poller"
)

const (
	maxColumnWidth = 28
	detailLines    = 4
)

type snapshotMsg models.DeviceSnapshot

// waitForSnapshot delivers the next poller snapshot, or nothing once stop is closed.
func waitForSnapshot(updates <-chan models.DeviceSnapshot, stop <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case s, ok := <-updates:
			if !ok {
				return nil
			}

			return snapshotMsg(s)
		case <-stop:
			return nil
		}
	}
}

func (m *Model) newDeviceTable() table.Model {
	t := table.New(
		table.WithColumns(m.tableColumns(nil)),
		table.WithFocused(true),
	)

	ts := table.DefaultStyles()
	ts.Header = m.styles.header
	ts.Selected = m.styles.selected
	t.SetStyles(ts)

	return t
}

func (m *Model) handleSnapshot(msg snapshotMsg) (tea.Model, tea.Cmd) {
	if m.screen != screenTable || m.listening == nil {
		return m, nil
	}

	m.snapshot = models.DeviceSnapshot(msg)
	m.rebuildRows()

	return m, waitForSnapshot(m.cfg.Poller.Updates(), m.listening)
}

// rebuildRows re-sorts the current snapshot and refreshes the table. The
// selected device stays selected when it is still listed.
func (m *Model) rebuildRows() {
	prev := recordKey(m.Selected())

	m.sorted = devicetable.Sort(m.snapshot.Records, m.sortState)

	rows, err := devicetable.Rows(m.sorted, m.cfg.Columns, m.cfg.CellRenderer)
	if err != nil {
		m.cfg.Logger.Error().Err(err).Int("devices", len(m.sorted)).Msg("Failed to render device table")
		m.renderErr = err
		m.clearRows()

		return
	}

	m.renderErr = nil

	tableRows := make([]table.Row, len(rows))
	for i, r := range rows {
		tableRows[i] = r
	}

	m.table.SetColumns(m.tableColumns(rows))
	m.table.SetRows(tableRows)

	cursor := m.table.Cursor()

	if prev != "" {
		for i, rec := range m.sorted {
			if recordKey(rec) == prev {
				cursor = i
				break
			}
		}
	}

	// SetRows leaves the cursor at -1 after the table has been empty
	m.table.SetCursor(max(min(cursor, len(tableRows)-1), 0))
}

// clearRows empties the table. The cursor is restored by the next rebuildRows.
func (m *Model) clearRows() {
	m.table.SetRows(nil)
}

// recordKey identifies a device across refreshes, which replace every record.
func recordKey(rec *models.DeviceRecord) string {
	if rec == nil {
		return ""
	}

	return rec.String(models.FieldHostname) + "|" + rec.Identifier()
}

// tableColumns sizes every column to its widest cell, capped at maxColumnWidth.
func (m *Model) tableColumns(rows [][]string) []table.Column {
	cols := make([]table.Column, len(m.cfg.Columns))

	for i, c := range m.cfg.Columns {
		title := devicetable.HeaderLabel(c, m.sortState)
		if i == m.column {
			title = "[" + title + "]"
		}

		width := lipgloss.Width(title)

		for _, r := range rows {
			if i < len(r) {
				width = max(width, lipgloss.Width(r[i]))
			}
		}

		cols[i] = table.Column{Title: title, Width: min(width, maxColumnWidth)}
	}

	return cols
}

func (m *Model) handleTableKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.tableKeys

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.PrevColumn):
		m.selectColumn(m.column - 1)
	case key.Matches(msg, keys.NextColumn):
		m.selectColumn(m.column + 1)
	case key.Matches(msg, keys.Sort):
		m.sortBy(m.column)
	case key.Matches(msg, keys.SortByNum):
		n := int(msg.String()[0] - '0')
		if n == 0 {
			n = 10
		}

		if n <= len(m.cfg.Columns) {
			m.sortBy(n - 1)
		}
	case key.Matches(msg, keys.Refresh):
		m.refresh()
	case key.Matches(msg, keys.ExportCSV):
		m.exportSelected(m.cfg.Exporter.CSV)
	case key.Matches(msg, keys.ExportPDF):
		m.exportSelected(m.cfg.Exporter.PDF)
	case key.Matches(msg, keys.Logs):
		return m, m.openLogs()
	case key.Matches(msg, keys.Logout):
		return m, m.logout()
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	default:
		return m.updateFocused(msg)
	}

	return m, nil
}

func (m *Model) selectColumn(i int) {
	n := len(m.cfg.Columns)
	m.column = (i%n + n) % n
	m.table.SetColumns(m.tableColumns(m.currentRows()))
}

func (m *Model) sortBy(i int) {
	m.column = i
	m.sortState = devicetable.Toggle(m.sortState, m.cfg.Columns[i].Key)
	m.rebuildRows()
}

func (m *Model) currentRows() [][]string {
	rows := m.table.Rows()
	out := make([][]string, len(rows))

	for i, r := range rows {
		out[i] = r
	}

	return out
}

func (m *Model) refresh() {
	if err := m.cfg.Poller.Refresh(); err != nil {
		if errors.Is(err, poller.ErrNotActive) {
			m.setStatus("Polling is not running", true)
			return
		}

		m.setStatus("Refresh failed: "+err.Error(), true)

		return
	}

	m.setStatus("Refreshing devices...", false)
}

// Selected is the record under the table cursor.
func (m *Model) Selected() *models.DeviceRecord {
	if m.renderErr != nil {
		return nil
	}

	c := m.table.Cursor()
	if c < 0 || c >= len(m.sorted) {
		return nil
	}

	return m.sorted[c]
}

func (m *Model) exportSelected(fn func(*models.DeviceRecord) (export.Artifact, error)) {
	rec := m.Selected()
	if rec == nil {
		m.setStatus("No device selected", true)
		return
	}

	art, err := fn(rec)

	switch {
	case errors.Is(err, export.ErrBackendUnavailable):
		m.modal = PDFUnavailable
	case err != nil:
		m.setStatus("Export failed: "+err.Error(), true)
	default:
		m.setStatus(fmt.Sprintf("Saved %s (%d bytes)", art.Path, art.Size), false)
	}
}

func (m *Model) tableView() string {
	var b strings.Builder

	b.WriteString(m.styles.title.Render(Title))
	b.WriteString("\n")

	if m.snapshot.LastError != "" {
		b.WriteString(m.styles.banner.Render(m.snapshot.LastError))
		b.WriteString("\n")
	}

	switch {
	case m.renderErr != nil:
		b.WriteString("\n")
		b.WriteString(m.styles.errText.Render(RenderFailedText))
		b.WriteString("\n")
	case len(m.sorted) == 0:
		b.WriteString("\n")
		b.WriteString(m.styles.notice.Render(EmptyText))
		b.WriteString("\n")
	default:
		b.WriteString(m.table.View())
		b.WriteString("\n")
		b.WriteString(m.detailView())
	}

	if m.status != "" {
		style := m.styles.status
		if m.statusErr {
			style = m.styles.errText
		}

		b.WriteString(style.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString(m.downloadsView())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.tableKeys))

	return b.String()
}

// detailView shows the full value of the selected cell when the table only
// has room for a preview.
func (m *Model) detailView() string {
	rec := m.Selected()
	if rec == nil {
		return ""
	}

	col := m.cfg.Columns[m.column]

	text := devicetable.Tooltip(rec, col.Key)
	if text == "" {
		text = devicetable.Cell(rec, col.Key)
	}

	lines := strings.Split(text, "\n")
	if len(lines) > detailLines {
		lines = append(lines[:detailLines], fmt.Sprintf("... %d more", len(lines)-detailLines))
	}

	return m.styles.detail.Width(m.width-2*appPadding).Render(col.Label+": "+strings.Join(lines, ", ")) + "\n"
}

func (m *Model) downloadsView() string {
	if len(m.cfg.Downloads) == 0 {
		return ""
	}

	parts := make([]string, len(m.cfg.Downloads))
	for i, l := range m.cfg.Downloads {
		parts[i] = l.Label + " " + m.styles.link.Render(l.URL)
	}

	return m.styles.footer.Render("Download agents: ") + strings.Join(parts, m.styles.footer.Render(" | "))
}

func (m *Model) modalView() string {
	box := m.styles.modal.Width(min(m.width-4, 72)).Render(
		m.styles.modalTtl.Render("Export unavailable") + "\n\n" + m.modal + "\n\n" +
			m.styles.footer.Render("enter/esc to dismiss"),
	)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
