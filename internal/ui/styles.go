package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/taskflow/internal/todo"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
	selectedCardStyle = cardStyle.BorderForeground(lipgloss.Color("63"))
	fadingCardStyle   = cardStyle.Faint(true).BorderForeground(lipgloss.Color("236"))

	cardTitleStyle     = lipgloss.NewStyle().Bold(true)
	doneTitleStyle     = lipgloss.NewStyle().Strikethrough(true).Faint(true)
	descriptionStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	metaStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	favoriteStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	dimStyle           = lipgloss.NewStyle().Faint(true)
	activeFilterStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	modalStyle         = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("63")).Padding(0, 2)
	focusedLabelStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	blurredLabelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	counterLabelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	counterValueStyle  = lipgloss.NewStyle().Bold(true)
	notificationStyles = map[NotificationKind]lipgloss.Style{
		NotifySuccess: bannerStyle("42"),
		NotifyError:   bannerStyle("160"),
		NotifyInfo:    bannerStyle("33"),
		NotifyWarning: bannerStyle("214"),
	}
)

func bannerStyle(bg string) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("231")).
		Background(lipgloss.Color(bg)).
		Padding(0, 2)
}

func priorityStyle(p todo.Priority) lipgloss.Style {
	switch p {
	case todo.PriorityHigh:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	case todo.PriorityLow:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("34"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("178"))
	}
}
