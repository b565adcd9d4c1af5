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

	"github.com/carverauto/fleetview/pkg/logviewer"
)

type logsMsg logviewer.Result

func newLogTable(st styles) table.Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Time", Width: 20},
			{Title: "Source", Width: 16},
			{Title: "Event ID", Width: 9},
			{Title: "Message", Width: logviewer.MessagePreviewLength + 3},
		}),
		table.WithFocused(true),
	)

	ts := table.DefaultStyles()
	ts.Header = st.header
	ts.Selected = st.selected
	t.SetStyles(ts)

	return t
}

// openLogs opens the overlay for the selected device and fetches its logs once.
func (m *Model) openLogs() tea.Cmd {
	rec := m.Selected()
	if rec == nil {
		m.setStatus("No device selected", true)
		return nil
	}

	fetch, err := m.cfg.Viewer.Open(rec)
	if err != nil {
		m.setStatus("Cannot open logs: "+err.Error(), true)
		return nil
	}

	m.logTable.SetRows(nil)
	m.logTable.SetCursor(0)
	m.setStatus("", false)

	ctx := m.ctx

	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		return logsMsg(fetch(ctx))
	})
}

func (m *Model) handleLogs(msg logsMsg) (tea.Model, tea.Cmd) {
	if !m.cfg.Viewer.Apply(logviewer.Result(msg)) {
		return m, nil
	}

	entries := m.cfg.Viewer.Entries()
	rows := make([]table.Row, len(entries))

	for i, e := range entries {
		rows[i] = table.Row{e.Time, e.Source, e.EventID, e.Message}
	}

	m.logTable.SetRows(rows)
	m.logTable.SetCursor(0)

	return m, nil
}

func (m *Model) handleLogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.logKeys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.logKeys.Close):
		m.cfg.Viewer.Close()
		m.logTable.SetRows(nil)
		m.setStatus("", false)
	case key.Matches(msg, m.logKeys.Copy):
		m.copySelectedMessage()
	case key.Matches(msg, m.logKeys.Export):
		m.exportLogs()
	default:
		return m.updateFocused(msg)
	}

	return m, nil
}

func (m *Model) selectedEntry() (logviewer.Entry, bool) {
	entries := m.cfg.Viewer.Entries()

	c := m.logTable.Cursor()
	if c < 0 || c >= len(entries) {
		return logviewer.Entry{}, false
	}

	return entries[c], true
}

func (m *Model) copySelectedMessage() {
	e, ok := m.selectedEntry()
	if !ok {
		m.setStatus("No log entry selected", true)
		return
	}

	if err := m.cfg.CopyToClipboard(e.Detail); err != nil {
		m.cfg.Logger.Warn().Err(err).Msg("Clipboard unavailable")
		m.setStatus("Failed to copy to clipboard", true)

		return
	}

	m.setStatus("Message copied to clipboard!", false)
}

func (m *Model) exportLogs() {
	raw, err := m.cfg.Viewer.Raw()
	if err != nil {
		if errors.Is(err, logviewer.ErrNoPayload) {
			m.setStatus("No logs loaded yet", true)
			return
		}

		m.setStatus("Export failed: "+err.Error(), true)

		return
	}

	art, err := m.cfg.Exporter.LogDump(m.cfg.Viewer.Device(), raw)
	if err != nil {
		m.setStatus("Export failed: "+err.Error(), true)
		return
	}

	m.setStatus(fmt.Sprintf("Saved %s (%d bytes)", art.Path, art.Size), false)
}

func (m *Model) logView() string {
	snap := m.cfg.Viewer.Snapshot()

	var b strings.Builder

	b.WriteString(m.styles.title.Render("Logs for " + snap.DeviceKey))
	b.WriteString("\n\n")

	switch {
	case snap.Loading:
		b.WriteString(m.spinner.View() + " Loading logs...\n")
	case snap.LastError != "":
		b.WriteString(m.styles.banner.Render(snap.LastError))
		b.WriteString("\n")
	case len(snap.Logs) == 0:
		b.WriteString(m.styles.notice.Render("No logs reported for this device."))
		b.WriteString("\n")
	default:
		b.WriteString(m.logTable.View())
		b.WriteString("\n")

		if e, ok := m.selectedEntry(); ok {
			b.WriteString(m.styles.detail.Width(m.width - 2*appPadding).Render(e.Detail))
			b.WriteString("\n")
		}
	}

	if m.status != "" {
		style := m.styles.status
		if m.statusErr {
			style = m.styles.errText
		}

		b.WriteString(style.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString(m.help.View(m.logKeys))

	return b.String()
}
