package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/melih/lighthouse-helper/internal/core/domain"
	"github.com/melih/lighthouse-helper/internal/core/executor"
	"github.com/melih/lighthouse-helper/internal/core/ports"
)

type containersMsg struct {
	containers []domain.Container
	err        error
}

type laneEventMsg domain.Event

type feedClosedMsg struct{}

type submittedMsg struct {
	label    string
	accepted bool
	err      error
}

func refreshCmd(ctx context.Context, service ports.ContainerService) tea.Cmd {
	return func() tea.Msg {
		containers, err := service.ListContainers(ctx)
		return containersMsg{containers: containers, err: err}
	}
}

// waitForEvent delivers the next lane notification. It is reissued after
// every laneEventMsg so the model keeps listening.
func waitForEvent(feed *executor.Feed) tea.Cmd {
	return func() tea.Msg {
		e, ok := <-feed.Events()
		if !ok {
			return feedClosedMsg{}
		}
		return laneEventMsg(e)
	}
}

func performCmd(ctx context.Context, service ports.ContainerService, action domain.Action, name string) tea.Cmd {
	return func() tea.Msg {
		label := string(action) + " " + name
		results, ok := service.Perform(ctx, action, name)
		if !ok {
			result := <-results
			return submittedMsg{label: label, err: result.Err}
		}
		return submittedMsg{label: label, accepted: true}
	}
}

func cancelCmd(lane ports.Lane) tea.Cmd {
	return func() tea.Msg {
		lane.Cancel()
		return nil
	}
}
