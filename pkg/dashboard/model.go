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

// Package dashboard is the terminal front end: a login gate, the sortable
// device table with exports, and the per-device log overlay.
package dashboard

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/carverauto/fleetview/pkg/models"
)

const (
	Title            = "FleetView — Central Network Monitoring"
	EmptyText        = "No devices found. Run agents on slaves to collect data."
	RenderFailedText = "Error rendering devices. Check the log for details."
	LoginFailedText  = "Invalid username or password"
	PDFUnavailable   = "PDF export is unavailable. The document backend could not be loaded; check export.pdf_font."

	stopTimeout    = 2 * time.Second
	defaultWidth   = 120
	defaultHeight  = 32
	chromeHeight   = 12
	minTableHeight = 3
)

type screen int

const (
	screenLogin screen = iota
	screenTable
)

const (
	focusUsername = iota
	focusPassword
)

// Model is the root Bubble Tea model.
type Model struct {
	ctx    context.Context
	cfg    Config
	styles styles

	tableKeys tableKeyMap
	logKeys   logKeyMap
	loginKeys loginKeyMap
	help      help.Model

	screen screen
	width  int
	height int

	// login
	username textinput.Model
	password textinput.Model
	focus    int
	loginErr string

	// table
	session   models.Session
	snapshot  models.DeviceSnapshot
	sortState models.SortState
	sorted    []*models.DeviceRecord
	column    int
	table     table.Model
	renderErr error
	listening chan struct{}

	// log overlay
	logTable table.Model
	spinner  spinner.Model

	status    string
	statusErr bool
	modal     string
}

// New validates cfg and builds the model in the login screen. The stored
// session is checked by Init.
func New(ctx context.Context, cfg Config) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := &Model{
		ctx:       ctx,
		cfg:       cfg,
		styles:    newStyles(),
		tableKeys: defaultTableKeys(),
		logKeys:   defaultLogKeys(),
		loginKeys: defaultLoginKeys(),
		help:      help.New(),
		screen:    screenLogin,
		width:     defaultWidth,
		height:    defaultHeight,
		sortState: models.DefaultSortState(),
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
	}

	m.username, m.password = newLoginInputs()
	m.table = m.newDeviceTable()
	m.logTable = newLogTable(m.styles)
	m.resize()

	return m, nil
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loadSession)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()

		return m, nil
	case sessionMsg:
		return m.handleSession(msg)
	case snapshotMsg:
		return m.handleSnapshot(msg)
	case logsMsg:
		return m.handleLogs(msg)
	case spinner.TickMsg:
		if !m.cfg.Viewer.Snapshot().Loading {
			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateFocused(msg)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.modal != "" {
		return m.handleModalKey(msg)
	}

	switch {
	case m.screen == screenLogin:
		return m.handleLoginKey(msg)
	case m.cfg.Viewer.IsOpen():
		return m.handleLogKey(msg)
	default:
		return m.handleTableKey(msg)
	}
}

// updateFocused forwards anything else to the active input or table.
func (m *Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch {
	case m.screen == screenLogin:
		if m.focus == focusUsername {
			m.username, cmd = m.username.Update(msg)
		} else {
			m.password, cmd = m.password.Update(msg)
		}
	case m.cfg.Viewer.IsOpen():
		m.logTable, cmd = m.logTable.Update(msg)
	default:
		m.table, cmd = m.table.Update(msg)
	}

	return m, cmd
}

func (m *Model) handleModalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.modal = ""
	case "ctrl+c":
		return m, tea.Quit
	}

	return m, nil
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

func (m *Model) resize() {
	h := m.height - chromeHeight
	if h < minTableHeight {
		h = minTableHeight
	}

	m.table.SetHeight(h)
	m.table.SetWidth(m.width - 2*appPadding)
	m.logTable.SetHeight(h - 2)
	m.logTable.SetWidth(m.width - 2*appPadding)
	m.help.Width = m.width
}

// LoggedIn reports whether the table view is shown.
func (m *Model) LoggedIn() bool {
	return m.screen == screenTable
}

func (m *Model) View() string {
	if m.modal != "" {
		return m.modalView()
	}

	var body string

	switch {
	case m.screen == screenLogin:
		body = m.loginView()
	case m.cfg.Viewer.IsOpen():
		body = m.logView()
	default:
		body = m.tableView()
	}

	return m.styles.app.Render(body)
}
