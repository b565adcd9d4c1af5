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

import "github.com/charmbracelet/lipgloss"

// Dracula theme colors.
const (
	draculaBackground = "#282A36"
	draculaForeground = "#F8F8F2"
	draculaCyan       = "#8BE9FD"
	draculaGreen      = "#50FA7B"
	draculaOrange     = "#FFB86C"
	draculaPink       = "#FF79C6"
	draculaPurple     = "#BD93F9"
	draculaRed        = "#FF5555"
	draculaYellow     = "#F1FA8C"
	draculaComment    = "#6272A4"
)

const (
	appPadding   = 1
	modalPadding = 2
)

type styles struct {
	app      lipgloss.Style
	title    lipgloss.Style
	label    lipgloss.Style
	banner   lipgloss.Style
	errText  lipgloss.Style
	status   lipgloss.Style
	notice   lipgloss.Style
	detail   lipgloss.Style
	footer   lipgloss.Style
	link     lipgloss.Style
	modal    lipgloss.Style
	modalTtl lipgloss.Style
	loginBox lipgloss.Style
	header   lipgloss.Style
	selected lipgloss.Style
}

func newStyles() styles {
	return styles{
		app: lipgloss.NewStyle().
			Padding(0, appPadding).
			Foreground(lipgloss.Color(draculaForeground)),
		title: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaPink)).
			Bold(true),
		label: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaYellow)),
		banner: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaBackground)).
			Background(lipgloss.Color(draculaRed)).
			Padding(0, 1).
			Bold(true),
		errText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaRed)).
			Bold(true),
		status: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaGreen)),
		notice: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaOrange)),
		detail: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaCyan)),
		footer: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaComment)),
		link: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaPurple)).
			Underline(true),
		modal: lipgloss.NewStyle().
			Padding(1, modalPadding).
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color(draculaRed)),
		modalTtl: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaRed)).
			Bold(true),
		loginBox: lipgloss.NewStyle().
			Padding(1, modalPadding).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(draculaCyan)),
		header: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaPurple)).
			Bold(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color(draculaComment)).
			BorderBottom(true),
		selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaBackground)).
			Background(lipgloss.Color(draculaPink)),
	}
}
