package ui

import (
	"fmt"
	"strings"

	"github.com/nibzard/taskflow/internal/todo"
)

func (m *Model) View() string {
	var b strings.Builder
	writeTitle(&b)
	m.writeNotification(&b)

	if m.showHelp {
		writeHelp(&b)
		writeFooter(&b)
		return b.String()
	}

	m.writeStats(&b)

	switch m.modal {
	case modalForm:
		m.writeForm(&b)
		return b.String()
	case modalConfirm:
		writeConfirm(&b, m.confirm)
		return b.String()
	case modalPrompt:
		writePrompt(&b, m.prompt)
		return b.String()
	}

	m.writeFilters(&b)
	m.writeCards(&b)
	writeFooter(&b)
	return b.String()
}

func writeTitle(b *strings.Builder) {
	b.WriteString(titleStyle.Render("TaskFlow") + "\n\n")
}

func (m *Model) writeNotification(b *strings.Builder) {
	if m.notification == nil {
		return
	}
	style, ok := notificationStyles[m.notification.kind]
	if !ok {
		style = notificationStyles[NotifyInfo]
	}
	b.WriteString(style.Render(m.notification.message) + "\n\n")
}

func (m *Model) writeStats(b *strings.Builder) {
	counter := func(label string, n int) string {
		return counterLabelStyle.Render(label+": ") + counterValueStyle.Render(fmt.Sprint(n))
	}
	b.WriteString(strings.Join([]string{
		counter("Total", m.stats.Total),
		counter("Completed", m.stats.Completed),
		counter("Pending", m.stats.Pending),
	}, "   "))
	b.WriteString("\n")
	b.WriteString(m.progress.ViewAs(m.stats.Fraction()) + "\n\n")
}

func (m *Model) writeFilters(b *strings.Builder) {
	parts := make([]string, 0, len(filterNames))
	for i, name := range filterNames {
		label := fmt.Sprintf("%d %s", i, name)
		if Filter(i) == m.filter {
			label = activeFilterStyle.Render(label)
		} else {
			label = dimStyle.Render(label)
		}
		parts = append(parts, label)
	}
	b.WriteString(strings.Join(parts, "  "))
	b.WriteString("\n")

	switch {
	case m.searching:
		b.WriteString(m.search.View() + "\n")
	case m.search.Value() != "":
		b.WriteString(dimStyle.Render(fmt.Sprintf("Search: %q (esc to clear)", m.search.Value())) + "\n")
	}
	b.WriteString("\n")
}

func (m *Model) writeCards(b *strings.Builder) {
	vis := m.visible()
	if len(vis) == 0 {
		if len(m.cards) == 0 {
			b.WriteString("  No tasks yet. Press n to create one.\n\n")
		} else {
			b.WriteString("  No tasks match the current filter.\n\n")
		}
		return
	}
	for i, c := range vis {
		b.WriteString(renderCard(c, i == m.cursor))
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func renderCard(c *card, selected bool) string {
	t := c.task

	glyph := "[ ]"
	title := cardTitleStyle.Render(t.Title)
	if t.Completed {
		glyph = "[x]"
		title = doneTitleStyle.Render(t.Title)
	}
	star := dimStyle.Render("☆")
	if c.favorite {
		star = favoriteStyle.Render("★")
	}

	lines := []string{fmt.Sprintf("%s %s %s", glyph, title, star)}
	if t.Description != "" {
		lines = append(lines, descriptionStyle.Render(t.Description))
	}
	due := t.DueDate
	if due == "" {
		due = "No due date"
	}
	lines = append(lines, metaStyle.Render(fmt.Sprintf("Due: %s  |  %s  |  ", due, todo.ProjectLabel(t.Project)))+
		priorityStyle(t.Priority).Render(t.Priority.Label()))

	style := cardStyle
	switch {
	case c.fading:
		style = fadingCardStyle
	case selected:
		style = selectedCardStyle
	}
	return style.Render(strings.Join(lines, "\n"))
}

func (m *Model) writeForm(b *strings.Builder) {
	f := m.form
	var body strings.Builder
	body.WriteString(titleStyle.Render("New Task") + "\n\n")
	for i := 0; i < formFieldCount; i++ {
		label := blurredLabelStyle
		if i == f.focus {
			label = focusedLabelStyle
		}
		body.WriteString(label.Render(formLabels[i]) + "\n")
		switch i {
		case fieldPriority:
			body.WriteString(choiceLabel(todo.Priorities[f.priority].Label()) + "\n\n")
		case fieldProject:
			body.WriteString(choiceLabel(todo.ProjectLabel(todo.Projects[f.project])) + "\n\n")
		default:
			body.WriteString(f.inputs[i].View() + "\n\n")
		}
	}
	body.WriteString(dimStyle.Render("tab next | left/right change | ctrl+s create | esc cancel"))
	b.WriteString(modalStyle.Render(body.String()) + "\n")
}

func choiceLabel(label string) string {
	return "< " + label + " >"
}

func writeConfirm(b *strings.Builder, d *confirmDialog) {
	body := fmt.Sprintf("Are you sure you want to delete this task?\n\n  %s\n\n%s",
		d.title, dimStyle.Render("y delete | n cancel"))
	b.WriteString(modalStyle.Render(body) + "\n")
}

func writePrompt(b *strings.Builder, p *titlePrompt) {
	body := "Edit task title:\n\n" + p.input.View() + "\n\n" + dimStyle.Render("enter save | esc cancel")
	b.WriteString(modalStyle.Render(body) + "\n")
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  n            New task\n")
	b.WriteString("  space, x     Toggle completed\n")
	b.WriteString("  f            Toggle favorite\n")
	b.WriteString("  e            Edit title\n")
	b.WriteString("  d            Delete task\n")
	b.WriteString("  /            Search\n")
	b.WriteString("  0            Show all\n")
	b.WriteString("  1            Filter by high priority\n")
	b.WriteString("  2            Filter by completed\n")
	b.WriteString("  3            Filter by pending\n")
	b.WriteString("  up/k down/j  Move selection\n")
	b.WriteString("  ?            Toggle this help screen\n")
	b.WriteString("  q, ctrl+c    Quit\n\n")
}

func writeFooter(b *strings.Builder) {
	b.WriteString(dimStyle.Render("Press ? for help | n new task | q to quit") + "\n")
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return fmt.Sprintf("%d %s", n, many)
}
