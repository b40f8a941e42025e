// Copyright (c) 2025 Neomantra Corp

// Package tui renders a live view of an in-flight wpilog->parquet
// conversion batch, adapted from the teacher's multi-page downloads/jobs
// TUI down to the single table the conversion workflow actually needs.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/frc-utils/wpilog-go/internal/convert"
)

const (
	columnFileWidth    = 36
	columnStateWidth   = 10
	columnRecordsWidth = 12
	columnSkippedWidth = 10
	columnChunksWidth  = 8
)

// Config configures a Run of the conversion TUI.
type Config struct {
	Jobs          []convert.Options
	MaxActiveJobs int
}

// Run starts the conversion TUI, queues every job in config.Jobs onto a
// fresh ConversionManager, and blocks until the user quits.
func Run(config Config) error {
	model := NewModel(config)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

///////////////////////////////////////////////////////////////////////////////

// Model is the bubbletea Model driving the conversion progress table. Its
// relationship to a *convert.ConversionManager mirrors the teacher's
// DownloadsPageModel/DownloadManager pairing: the manager owns the
// worker pool, the Model only renders the progress messages it emits.
type Model struct {
	config Config
	mgr    *convert.ConversionManager

	rows       map[string]jobRow
	rowOrder   []string
	lastError  error

	width, height int
	jobsTable     table.Model
	help          help.Model
	keyMap        KeyMap
}

type jobRow struct {
	state      convert.JobState
	numRecords int
	skipped    int
	numChunks  int
	err        error
}

// KeyMap is the set of [key.Binding] recognized by Model.
type KeyMap struct {
	Quit key.Binding
}

// DefaultKeyMap returns the default Model key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "esc", "q"),
			key.WithHelp("esc", "quit"),
		),
	}
}

func (k KeyMap) ShortHelp() []key.Binding { return []key.Binding{k.Quit} }
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Quit}}
}

// NewModel builds a Model and queues every job in config.Jobs.
func NewModel(config Config) Model {
	jobsTable := table.New(table.WithColumns([]table.Column{
		{Title: "File", Width: columnFileWidth},
		{Title: "State", Width: columnStateWidth},
		{Title: "Records", Width: columnRecordsWidth},
		{Title: "Skipped", Width: columnSkippedWidth},
		{Title: "Chunks", Width: columnChunksWidth},
	}), table.WithStyles(nimbleTableStyles), table.WithFocused(false))

	maxActive := config.MaxActiveJobs
	if maxActive < 1 {
		maxActive = 1
	}

	m := Model{
		config:    config,
		mgr:       convert.NewConversionManager(maxActive),
		rows:      make(map[string]jobRow, len(config.Jobs)),
		width:     20,
		height:    10,
		jobsTable: jobsTable,
		help:      help.New(),
		keyMap:    DefaultKeyMap(),
	}
	for _, opts := range config.Jobs {
		if m.mgr.QueueFile(opts) {
			m.rowOrder = append(m.rowOrder, opts.InputPath)
			m.rows[opts.InputPath] = jobRow{state: convert.JobQueued}
		}
	}
	return m
}

///////////////////////////////////////////////////////////////////////////////
// BubbleTea interface

func (m Model) Init() tea.Cmd {
	return m.listenForProgress()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateSizes()
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keyMap.Quit) {
			m.mgr.Close()
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.jobsTable, cmd = m.jobsTable.Update(msg)
		return m, cmd

	case convert.ProgressMsg:
		m.applyProgress(msg)
		m.refreshTable()
		return m, m.listenForProgress()
	}
	return m, nil
}

func (m Model) View() string {
	viewStr := nimbleBorderStyle.Render(m.jobsTable.View()) + "\n"
	if m.lastError != nil {
		viewStr += fmt.Sprintf("Error: %s ", m.lastError)
	}
	viewStr += m.help.View(m.keyMap)
	return viewStr
}

///////////////////////////////////////////////////////////////////////////////

func (m *Model) applyProgress(msg convert.ProgressMsg) {
	row := m.rows[msg.Opts.InputPath]
	row.state = msg.State
	if msg.State == convert.JobComplete {
		row.numRecords = msg.Result.NumRecords
		row.skipped = msg.Result.SkippedRecords
		row.numChunks = msg.Result.NumChunks
	}
	if msg.State == convert.JobFailed {
		row.err = msg.Error
		m.lastError = msg.Error
	}
	m.rows[msg.Opts.InputPath] = row
}

func (m *Model) refreshTable() {
	rows := make([]table.Row, 0, len(m.rowOrder))
	for _, path := range m.rowOrder {
		r := m.rows[path]
		rows = append(rows, table.Row{
			path,
			string(r.state),
			humanize.Comma(int64(r.numRecords)),
			humanize.Comma(int64(r.skipped)),
			humanize.Comma(int64(r.numChunks)),
		})
	}
	m.jobsTable.SetRows(rows)
}

func (m *Model) updateSizes() {
	availHeight := maxInt(3, m.height-4)
	m.jobsTable.SetHeight(availHeight)
	m.jobsTable.SetWidth(maxInt(10, m.width-2))
	m.help.Width = maxInt(10, m.width-2)
}

// listenForProgress is a command that blocks for the next message from the
// ConversionManager's progress channel, re-armed after every delivery —
// the same channel-draining idiom the teacher's downloads page uses.
func (m *Model) listenForProgress() tea.Cmd {
	ch := m.mgr.ProgressChannel()
	return func() tea.Msg {
		return <-ch
	}
}
