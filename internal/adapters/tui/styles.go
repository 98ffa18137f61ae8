package tui

import "github.com/charmbracelet/lipgloss"

var (
	lighthouseAmber = lipgloss.Color("#f5a623")

	docStyle   = lipgloss.NewStyle().Margin(1, 2)
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lighthouseAmber).
			Padding(0, 1)
	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	// Container status styles
	healthyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	unhealthyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	startingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	stoppedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	unknownStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	confirmStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true)

	// Event log styles
	logTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lighthouseAmber).
			Padding(0, 1)
	logPaneStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lighthouseAmber)
	startLineStyle = lipgloss.NewStyle().Bold(true)
	errorLineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	endLineStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)
