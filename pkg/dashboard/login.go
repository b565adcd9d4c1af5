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
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/carverauto/fleetview/pkg/models"
	"github.com/carverauto/fleetview/pkg/poller"
	"github.com/carverauto/fleetview/pkg/session"
)

const inputWidth = 32

type sessionMsg struct {
	session models.Session
	ok      bool
	err     error
}

func newLoginInputs() (username, password textinput.Model) {
	username = textinput.New()
	username.Placeholder = "Username"
	username.Width = inputWidth
	username.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(draculaCyan))
	username.PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(draculaComment))
	username.Focus()

	password = textinput.New()
	password.Placeholder = "Password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.Width = inputWidth
	password.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(draculaCyan))
	password.PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(draculaComment))

	return username, password
}

// loadSession reads the stored flag once at startup.
func (m *Model) loadSession() tea.Msg {
	s, ok, err := m.cfg.Session.Load(m.ctx)

	return sessionMsg{session: s, ok: ok, err: err}
}

func (m *Model) handleSession(msg sessionMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.cfg.Logger.Warn().Err(msg.err).Msg("Ignoring stored session flag")
		return m, nil
	}

	if !msg.ok {
		return m, nil
	}

	m.cfg.Logger.Info().Str("username", msg.session.Username).Msg("Resuming stored session")

	return m, m.enterTable(msg.session)
}

func (m *Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.loginKeys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.loginKeys.Next):
		return m, m.switchLoginFocus()
	case key.Matches(msg, m.loginKeys.Submit):
		if m.focus == focusUsername {
			return m, m.switchLoginFocus()
		}

		return m, m.submitLogin()
	}

	return m.updateFocused(msg)
}

func (m *Model) switchLoginFocus() tea.Cmd {
	if m.focus == focusUsername {
		m.focus = focusPassword
		m.username.Blur()

		return m.password.Focus()
	}

	m.focus = focusUsername
	m.password.Blur()

	return m.username.Focus()
}

func (m *Model) submitLogin() tea.Cmd {
	username := strings.TrimSpace(m.username.Value())

	if err := m.cfg.Gate.Check(username, m.password.Value()); err != nil {
		if !errors.Is(err, session.ErrInvalidCredentials) {
			m.cfg.Logger.Error().Err(err).Msg("Login check failed")
		}

		m.loginErr = LoginFailedText
		m.password.Reset()

		return nil
	}

	s, err := m.cfg.Session.Save(m.ctx, username)
	if err != nil {
		m.cfg.Logger.Warn().Err(err).Msg("Session flag not saved; login lasts until exit")
		s = models.Session{LoggedIn: true, Username: username}
	}

	m.cfg.Logger.Info().Str("username", username).Str("session_id", s.ID).Msg("Logged in")

	return m.enterTable(s)
}

// enterTable switches to the table view and starts polling.
func (m *Model) enterTable(s models.Session) tea.Cmd {
	m.session = s
	m.screen = screenTable
	m.loginErr = ""
	m.username.Reset()
	m.password.Reset()
	m.username.Blur()
	m.password.Blur()

	if err := m.cfg.Poller.Start(m.ctx); err != nil && !errors.Is(err, poller.ErrAlreadyActive) {
		m.cfg.Logger.Error().Err(err).Msg("Failed to start device polling")
		m.setStatus("Polling not started: "+err.Error(), true)
	}

	m.snapshot = m.cfg.Poller.Snapshot()
	m.rebuildRows()

	m.listening = make(chan struct{})

	return waitForSnapshot(m.cfg.Poller.Updates(), m.listening)
}

// logout clears the flag, stops polling and returns to the login view.
func (m *Model) logout() tea.Cmd {
	if err := m.cfg.Session.Clear(m.ctx); err != nil {
		m.cfg.Logger.Warn().Err(err).Msg("Failed to clear session flag")
	}

	m.stopPolling()
	m.cfg.Viewer.Close()

	m.cfg.Logger.Info().Str("username", m.session.Username).Msg("Logged out")

	m.session = models.Session{}
	m.snapshot = models.DeviceSnapshot{}
	m.sorted = nil
	m.renderErr = nil
	m.clearRows()
	m.setStatus("", false)
	m.screen = screenLogin
	m.focus = focusUsername

	return m.username.Focus()
}

func (m *Model) stopPolling() {
	if m.listening != nil {
		close(m.listening)
		m.listening = nil
	}

	ctx, cancel := context.WithTimeout(m.ctx, stopTimeout)
	defer cancel()

	if err := m.cfg.Poller.Stop(ctx); err != nil && !errors.Is(err, poller.ErrNotActive) {
		m.cfg.Logger.Warn().Err(err).Msg("Device polling did not stop cleanly")
	}
}

func (m *Model) loginView() string {
	var b strings.Builder

	b.WriteString(m.styles.title.Render(Title))
	b.WriteString("\n\n")
	b.WriteString(m.styles.label.Render("Username:"))
	b.WriteString("\n")
	b.WriteString(m.username.View())
	b.WriteString("\n\n")
	b.WriteString(m.styles.label.Render("Password:"))
	b.WriteString("\n")
	b.WriteString(m.password.View())

	if m.loginErr != "" {
		b.WriteString("\n\n")
		b.WriteString(m.styles.errText.Render(m.loginErr))
	}

	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.loginKeys))

	return m.styles.loginBox.Render(b.String())
}
