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

package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/carverauto/fleetview/pkg/session"
)

// Dracula theme colors.
const (
	draculaForeground = "#F8F8F2"
	draculaCyan       = "#8BE9FD"
	draculaGreen      = "#50FA7B"
	draculaPink       = "#FF79C6"
	draculaPurple     = "#BD93F9"
	draculaRed        = "#FF5555"
	draculaComment    = "#6272A4"
)

const (
	minCost     = bcrypt.MinCost
	maxCost     = bcrypt.MaxCost
	hashPadding = 2
)

type hashOptions struct {
	cost        int
	stdin       bool
	interactive bool
}

// NewHashPasswordCommand prints a bcrypt hash for session.password_hash.
func NewHashPasswordCommand() *cobra.Command {
	opts := &hashOptions{}

	cmd := &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print a bcrypt hash for session.password_hash",
		Long: `Print a bcrypt hash for session.password_hash.

The password is taken from the argument, from stdin with --stdin, or typed
into a masked prompt with --interactive.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.interactive {
				_, err := tea.NewProgram(newHashModel(opts.cost),
					tea.WithInput(cmd.InOrStdin()), tea.WithOutput(cmd.OutOrStdout())).Run()

				return err
			}

			password := ""
			if len(args) == 1 {
				password = args[0]
			} else if opts.stdin {
				line, err := readLine(cmd.InOrStdin())
				if err != nil {
					return err
				}

				password = line
			}

			hash, err := generateHash(password, opts.cost)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), hash)

			return err
		},
	}

	cmd.Flags().IntVar(&opts.cost, "cost", bcrypt.DefaultCost, "bcrypt cost (4-31)")
	cmd.Flags().BoolVar(&opts.stdin, "stdin", false, "read the password from stdin")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "prompt for the password")

	return cmd
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read password: %w", err)
	}

	return strings.TrimRight(line, "\r\n"), nil
}

func generateHash(password string, cost int) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", errEmptyPassword
	}

	if cost < minCost || cost > maxCost {
		return "", errInvalidCost
	}

	return session.HashPassword(password, cost)
}

type hashModel struct {
	input       textinput.Model
	cost        int
	hash        string
	err         error
	canCopy     bool
	copyMessage string
}

func newHashModel(cost int) *hashModel {
	in := textinput.New()
	in.Placeholder = "Enter password"
	in.EchoMode = textinput.EchoPassword
	in.EchoCharacter = '•'
	in.Width = 40
	in.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(draculaCyan))
	in.Focus()

	return &hashModel{
		input:   in,
		cost:    cost,
		canCopy: clipboard.WriteAll("") == nil,
	}
}

func (*hashModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *hashModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)

		return m, cmd
	}

	//nolint:exhaustive // Default case handles all unlisted keys
	switch keyMsg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyEnter:
		if m.hash == "" {
			m.hash, m.err = generateHash(m.input.Value(), m.cost)
			m.input.Blur()
		}

		return m, nil
	}

	if m.hash != "" {
		if keyMsg.String() == "c" && m.canCopy {
			m.copyMessage = "Hash copied to clipboard!"
			if err := clipboard.WriteAll(m.hash); err != nil {
				m.copyMessage = "Failed to copy to clipboard"
			}
		}

		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m *hashModel) View() string {
	title := lipgloss.NewStyle().Foreground(lipgloss.Color(draculaPink)).Bold(true).Render("FleetView: password hash")
	help := lipgloss.NewStyle().Foreground(lipgloss.Color(draculaComment))

	var b strings.Builder

	b.WriteString(title + "\n\n")

	switch {
	case m.err != nil:
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(draculaRed)).Bold(true).Render("Error: " + m.err.Error()))
		b.WriteString("\n\n" + help.Render("Ctrl+C/Esc → quit"))
	case m.hash != "":
		b.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaGreen)).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(draculaPurple)).
			Padding(0, hashPadding).
			Render(m.hash))
		b.WriteString("\n")

		hint := "Ctrl+C/Esc → quit"
		if m.canCopy {
			hint = "c → copy | " + hint
		}

		b.WriteString(help.Render(hint))

		if m.copyMessage != "" {
			b.WriteString("\n" + lipgloss.NewStyle().Foreground(lipgloss.Color(draculaGreen)).Render(m.copyMessage))
		}
	default:
		b.WriteString(m.input.View())
		b.WriteString("\n\n" + help.Render("Enter → hash | Ctrl+C/Esc → quit"))
	}

	return lipgloss.NewStyle().
		Padding(1, hashPadding).
		Border(lipgloss.DoubleBorder()).
		BorderForeground(lipgloss.Color(draculaCyan)).
		Foreground(lipgloss.Color(draculaForeground)).
		Render(b.String())
}
