package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"soundscope/internal/formatter"
	"soundscope/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	MenuView ViewState = iota
	RunningView
	ResultView
)

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	engine       *tasks.Engine
	width        int
	height       int
	menu         list.Model
	selected     string
	progressChan chan tasks.ProgressUpdate
	progress     tasks.ProgressUpdate
	result       string
	err          error
	help         help.Model
	keys         keyMap
}

type progressUpdateMsg tasks.ProgressUpdate

type viewCompleteMsg struct {
	text string
	err  error
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, engine *tasks.Engine) *Model {
	menu := list.New(menuItems(), list.NewDefaultDelegate(), 0, 0)
	menu.Title = "Soundscope"

	return &Model{
		ctx:    ctx,
		view:   MenuView,
		engine: engine,
		menu:   menu,
		help:   help.New(),
		keys:   newKeyMap(),
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.menu.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case MenuView:
			return m.handleMenuKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		case RunningView:
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
		}

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case viewCompleteMsg:
		m.result = msg.text
		m.err = msg.err
		m.view = ResultView
		m.progressChan = nil
		return m, nil
	}

	if m.view == MenuView {
		var cmd tea.Cmd
		m.menu, cmd = m.menu.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case MenuView:
		return m.renderMenu()
	case RunningView:
		return m.renderRunning()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleMenuKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		if item, ok := m.menu.SelectedItem().(viewItem); ok {
			m.selected = item.name
			m.view = RunningView
			m.progress = tasks.ProgressUpdate{}
			return m, m.startView(item.name)
		}
	}

	var cmd tea.Cmd
	m.menu, cmd = m.menu.Update(msg)
	return m, cmd
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = MenuView
		m.result = ""
		m.err = nil
		return m, nil
	case "r":
		m.view = RunningView
		m.progress = tasks.ProgressUpdate{}
		return m, m.startView(m.selected)
	}
	return m, nil
}

// startView runs the selected analysis in a goroutine, streaming progress
// through a buffered channel so the engine never blocks on the UI.
func (m *Model) startView(name string) tea.Cmd {
	progress := make(chan tasks.ProgressUpdate, 50)
	m.progressChan = progress

	done := make(chan viewCompleteMsg, 1)
	go func() {
		text, err := m.runView(name, progress)
		done <- viewCompleteMsg{text: text, err: err}
		close(progress)
	}()

	return tea.Batch(m.waitForProgress(), func() tea.Msg {
		return <-done
	})
}

// runView dispatches a menu selection to the engine and renders the result.
func (m *Model) runView(name string, progress chan<- tasks.ProgressUpdate) (string, error) {
	switch name {
	case "Listening Clock":
		report, err := m.engine.ListeningClock(m.ctx, progress)
		if err != nil {
			return "", err
		}
		return formatter.ListeningClockText(report), nil
	case "Top Genres":
		report, err := m.engine.Genres(m.ctx, progress)
		if err != nil {
			return "", err
		}
		return formatter.GenresText(report), nil
	case "Hidden Gems":
		report, err := m.engine.HiddenGems(m.ctx, progress)
		if err != nil {
			return "", err
		}
		return formatter.GemsText(report), nil
	case "Demographics":
		report, err := m.engine.Demographics(m.ctx, progress)
		if err != nil {
			return "", err
		}
		return formatter.DemographicsText(report), nil
	case "Music Personality":
		report, err := m.engine.Personality(m.ctx, progress)
		if err != nil {
			return "", err
		}
		return formatter.PersonalityText(report), nil
	case "Festival Lineup":
		report, err := m.engine.FestivalLineup(m.ctx, progress)
		if err != nil {
			return "", err
		}
		return formatter.LineupText(report), nil
	case "Artist Timeline":
		report, err := m.engine.Timeline(m.ctx, progress)
		if err != nil {
			return "", err
		}
		return formatter.TimelineText(report), nil
	case "Seasonal Patterns":
		report, err := m.engine.Seasonal(m.ctx, progress)
		if err != nil {
			return "", err
		}
		return formatter.SeasonalText(report), nil
	case "Mood Profile":
		report, err := m.engine.Mood(m.ctx, progress)
		if err != nil {
			return "", err
		}
		return formatter.MoodText(report), nil
	case "Music Evolution":
		report, err := m.engine.Evolution(m.ctx, progress)
		if err != nil {
			return "", err
		}
		return formatter.EvolutionText(report), nil
	case "Song Repetition":
		report, err := m.engine.Repetition(m.ctx, progress)
		if err != nil {
			return "", err
		}
		return formatter.RepetitionText(report), nil
	case "Recommendations":
		report, err := m.engine.Recommendations(m.ctx, progress)
		if err != nil {
			return "", err
		}
		return formatter.RecommendationsText(report), nil
	case "Full Report":
		report, err := m.engine.Run(m.ctx, progress)
		if err != nil {
			return "", err
		}
		return string(formatter.ReportToText(report)), nil
	default:
		return "", fmt.Errorf("unknown view: %s", name)
	}
}

func (m *Model) waitForProgress() tea.Cmd {
	progress := m.progressChan
	return func() tea.Msg {
		if progress == nil {
			return nil
		}
		update, ok := <-progress
		if !ok {
			return nil
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderMenu() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.menu.View(), helpView)
}

func (m *Model) renderRunning() string {
	title := styles.title.Render(m.selected)

	message := m.progress.Message
	if message == "" {
		message = "Starting..."
	}
	if m.progress.Total > 1 {
		message = fmt.Sprintf("%s (%d/%d)", message, m.progress.Step, m.progress.Total)
	}

	return fmt.Sprintf("%s\n\n%s", title, message)
}

func (m *Model) renderResult() string {
	helpKeys := []key.Binding{m.keys.back, m.keys.restart, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	if m.err != nil {
		body := styles.err.Render(fmt.Sprintf("Failed: %v", m.err))
		return fmt.Sprintf("%s\n\n%s", body, helpView)
	}

	title := styles.title.Render(m.selected)
	return fmt.Sprintf("%s\n%s\n%s", title, m.result, helpView)
}
