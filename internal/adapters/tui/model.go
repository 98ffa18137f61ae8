// Package tui is an interactive terminal front end for the container lane.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/melih/lighthouse-helper/internal/core/domain"
	"github.com/melih/lighthouse-helper/internal/core/executor"
	"github.com/melih/lighthouse-helper/internal/core/ports"
)

const (
	eventBuffer = 256
	maxLogLines = 500
)

// item is one container row of the list.
type item struct {
	container  domain.Container
	confirming bool
}

func (i item) Title() string { return i.container.Name }

func (i item) Description() string {
	if i.confirming {
		return confirmStyle.Render("Confirm Remove? (y/n)")
	}
	text := i.container.StatusText
	switch i.container.StatusKind {
	case domain.StatusHealthy:
		return healthyStyle.Render(text)
	case domain.StatusUnhealthy:
		return unhealthyStyle.Render(text)
	case domain.StatusStarting:
		return startingStyle.Render(text)
	case domain.StatusStopped:
		return stoppedStyle.Render(text)
	default:
		return unknownStyle.Render(text)
	}
}

func (i item) FilterValue() string { return i.container.Name }

// Model is the bubbletea model of the terminal UI.
type Model struct {
	ctx     context.Context
	service ports.ContainerService
	lane    ports.Lane
	feed    *executor.Feed

	list    list.Model
	spinner spinner.Model
	log     []string
	running bool
	open    int
	height  int
}

// NewModel builds the UI model. feed must already be subscribed to lane.
func NewModel(ctx context.Context, service ports.ContainerService, lane ports.Lane, feed *executor.Feed) Model {
	delegate := list.NewDefaultDelegate()
	selectedStyle := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(lighthouseAmber).
		Foreground(lighthouseAmber).
		Padding(0, 0, 0, 1)
	delegate.Styles.SelectedTitle = selectedStyle
	delegate.Styles.SelectedDesc = selectedStyle.Foreground(lipgloss.Color("250")).Faint(true)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Lighthouse Containers"
	l.Styles.Title = titleStyle
	l.SetShowHelp(false)
	l.KeyMap.Quit.SetEnabled(false)

	s := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(lipgloss.NewStyle().Foreground(lighthouseAmber)))

	m := Model{
		ctx:     ctx,
		service: service,
		lane:    lane,
		feed:    feed,
		list:    l,
		spinner: s,
	}
	if lane.Busy() {
		m.open, m.running = 1, true
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(refreshCmd(m.ctx, m.service), waitForEvent(m.feed), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(int(float32(msg.Width-h)*0.45), msg.Height-v-2)
		m.height = msg.Height - v - 2
		return m, nil

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		if sel, ok := m.list.SelectedItem().(item); ok && sel.confirming {
			return m.confirm(msg, sel)
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			return m, refreshCmd(m.ctx, m.service)
		case "s":
			return m, m.perform(domain.ActionStart)
		case "t":
			return m, m.perform(domain.ActionStop)
		case "R":
			return m, m.perform(domain.ActionRestart)
		case "d":
			if sel, ok := m.list.SelectedItem().(item); ok {
				sel.confirming = true
				return m, m.list.SetItem(m.list.Index(), sel)
			}
			return m, nil
		case "c":
			return m, cancelCmd(m.lane)
		}

	case containersMsg:
		if msg.err != nil {
			m.appendLog(errorLineStyle.Render("✗ " + msg.err.Error()))
			return m, nil
		}
		items := make([]list.Item, len(msg.containers))
		for i, c := range msg.containers {
			items[i] = item{container: c}
		}
		return m, m.list.SetItems(items)

	case laneEventMsg:
		var cmds []tea.Cmd
		switch msg.Kind {
		case domain.EventStart:
			m.open++
			m.running = true
			m.appendLog(startLineStyle.Render("▶ " + msg.Text))
		case domain.EventMessage:
			m.appendLog("  " + msg.Text)
		case domain.EventError:
			m.appendLog(errorLineStyle.Render("✗ " + msg.Text))
		case domain.EventEnd:
			// A new start can arrive just before the previous end.
			if m.open > 0 {
				m.open--
			}
			m.running = m.open > 0
			m.appendLog(endLineStyle.Render("■ done"))
			cmds = append(cmds, refreshCmd(m.ctx, m.service))
		}
		cmds = append(cmds, waitForEvent(m.feed))
		return m, tea.Batch(cmds...)

	case feedClosedMsg:
		return m, nil

	case submittedMsg:
		// Busy rejections already arrive through the lane.
		if !msg.accepted && msg.err != nil && !errors.Is(msg.err, domain.ErrBusy) {
			m.appendLog(errorLineStyle.Render(fmt.Sprintf("✗ %s: %v", msg.label, msg.err)))
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) confirm(msg tea.KeyMsg, sel item) (tea.Model, tea.Cmd) {
	index := m.list.Index()
	switch msg.String() {
	case "y", "Y":
		sel.confirming = false
		return m, tea.Batch(m.list.SetItem(index, sel), performCmd(m.ctx, m.service, domain.ActionRemove, sel.container.Name))
	case "n", "N", "esc":
		sel.confirming = false
		return m, m.list.SetItem(index, sel)
	}
	return m, nil
}

func (m Model) perform(action domain.Action) tea.Cmd {
	sel, ok := m.list.SelectedItem().(item)
	if !ok {
		return nil
	}
	return performCmd(m.ctx, m.service, action, sel.container.Name)
}

func (m *Model) appendLog(line string) {
	m.log = append(m.log, line)
	if len(m.log) > maxLogLines {
		m.log = m.log[len(m.log)-maxLogLines:]
	}
}

func (m Model) View() string {
	state := "idle"
	if m.running {
		state = m.spinner.View() + " running"
	}

	lines := m.log
	if visible := m.height - 4; visible > 0 && len(lines) > visible {
		lines = lines[len(lines)-visible:]
	}
	pane := logPaneStyle.Render(logTitleStyle.Render("Events") + " " + state + "\n\n" + strings.Join(lines, "\n"))

	help := helpStyle.Render("r: refresh • s: start • t: stop • R: restart • d: remove • c: cancel • q: quit")
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.list.View(), pane)
	return docStyle.Render(body + "\n" + help)
}

// Run subscribes to lane and runs the UI until the user quits or ctx ends.
func Run(ctx context.Context, service ports.ContainerService, lane ports.Lane) error {
	feed := executor.NewFeed(eventBuffer)
	unsubscribe := lane.Subscribe(feed)
	defer func() {
		unsubscribe()
		feed.Close()
	}()

	p := tea.NewProgram(NewModel(ctx, service, lane, feed), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("failed to run terminal UI: %w", err)
	}
	return nil
}
