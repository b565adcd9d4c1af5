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

import "github.com/charmbracelet/bubbles/key"

type tableKeyMap struct {
	PrevColumn key.Binding
	NextColumn key.Binding
	Sort       key.Binding
	SortByNum  key.Binding
	Up         key.Binding
	Down       key.Binding
	Refresh    key.Binding
	ExportCSV  key.Binding
	ExportPDF  key.Binding
	Logs       key.Binding
	Logout     key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultTableKeys() tableKeyMap {
	return tableKeyMap{
		PrevColumn: key.NewBinding(key.WithKeys("left"), key.WithHelp("←/→", "column")),
		NextColumn: key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "next column")),
		Sort:       key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
		SortByNum: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9", "0"),
			key.WithHelp("1-0", "sort by column"),
		),
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/↓", "select")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "down")),
		Refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		ExportCSV: key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "csv")),
		ExportPDF: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pdf")),
		Logs:      key.NewBinding(key.WithKeys("l", "enter"), key.WithHelp("l/enter", "logs")),
		Logout:    key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "logout")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k tableKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PrevColumn, k.Sort, k.Up, k.Refresh, k.ExportCSV, k.ExportPDF, k.Logs, k.Help, k.Quit}
}

func (k tableKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PrevColumn, k.NextColumn, k.Sort, k.SortByNum},
		{k.Up, k.Down, k.Refresh},
		{k.ExportCSV, k.ExportPDF, k.Logs},
		{k.Logout, k.Help, k.Quit},
	}
}

type logKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Copy   key.Binding
	Export key.Binding
	Close  key.Binding
	Quit   key.Binding
}

func defaultLogKeys() logKeyMap {
	return logKeyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/↓", "select")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "down")),
		Copy:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy message")),
		Export: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "export raw")),
		Close:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Quit:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (k logKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Copy, k.Export, k.Close}
}

func (k logKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.Copy, k.Export, k.Close, k.Quit}}
}

type loginKeyMap struct {
	Next   key.Binding
	Submit key.Binding
	Quit   key.Binding
}

func defaultLoginKeys() loginKeyMap {
	return loginKeyMap{
		Next:   key.NewBinding(key.WithKeys("tab", "shift+tab", "up", "down"), key.WithHelp("tab", "switch field")),
		Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "login")),
		Quit:   key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "quit")),
	}
}

func (k loginKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Submit, k.Quit}
}

func (k loginKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
