package todo

import (
	"fmt"
	"strings"
	"time"
)

// Priority is the task priority.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// DefaultPriority is used when a task is created or loaded without one.
const DefaultPriority = PriorityMedium

// Priorities lists the priorities in menu order.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// ParsePriority parses s case-insensitively.
func ParsePriority(s string) (Priority, error) {
	switch p := Priority(strings.ToLower(strings.TrimSpace(s))); p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return p, nil
	case "":
		return DefaultPriority, nil
	default:
		return "", fmt.Errorf("invalid priority %q, must be one of: low, medium, high", s)
	}
}

// Label returns the display label, e.g. "High Priority".
func (p Priority) Label() string {
	if p == "" {
		p = DefaultPriority
	}
	return strings.ToUpper(string(p[:1])) + string(p[1:]) + " Priority"
}

// Project labels offered by the creation form. The data model accepts any
// string.
const (
	ProjectGeneral   = "general"
	ProjectWebsite   = "website"
	ProjectMobile    = "mobile"
	ProjectMarketing = "marketing"
)

// DefaultProject is used when a task is created without a project.
const DefaultProject = ProjectGeneral

// Projects lists the project menu in display order.
var Projects = []string{ProjectGeneral, ProjectWebsite, ProjectMobile, ProjectMarketing}

// ProjectLabel returns the menu label for a project value.
func ProjectLabel(project string) string {
	switch project {
	case ProjectGeneral:
		return "General"
	case ProjectWebsite:
		return "Website Redesign"
	case ProjectMobile:
		return "Mobile App"
	case ProjectMarketing:
		return "Marketing Campaign"
	default:
		return project
	}
}

// DueDateLayout is the layout of Task.DueDate.
const DueDateLayout = "2006-01-02"

// Task is a single to-do item.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     string    `json:"dueDate"`
	Priority    Priority  `json:"priority"`
	Project     string    `json:"project"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Matches reports whether term occurs in the title or description,
// ignoring case. An empty term matches everything.
func (t *Task) Matches(term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(t.Title), term) ||
		strings.Contains(strings.ToLower(t.Description), term)
}

// Fields holds the user-supplied values for a new task.
type Fields struct {
	Title       string
	Description string
	DueDate     string
	Priority    Priority
	Project     string
}

// Validate checks the fields the creation form enforces: a non-blank title,
// and a due date that is either empty or an ISO date no earlier than today.
func (f Fields) Validate(today time.Time) error {
	if strings.TrimSpace(f.Title) == "" {
		return &ValidationError{Path: "title", Err: fmt.Errorf("missing required field")}
	}
	if f.DueDate != "" {
		due, err := time.Parse(DueDateLayout, f.DueDate)
		if err != nil {
			return &ValidationError{Path: "dueDate", Err: fmt.Errorf("expected YYYY-MM-DD, got %q", f.DueDate)}
		}
		y, m, d := today.Date()
		if due.Before(time.Date(y, m, d, 0, 0, 0, 0, time.UTC)) {
			return &ValidationError{Path: "dueDate", Err: fmt.Errorf("must not be before %s", today.Format(DueDateLayout))}
		}
	}
	return nil
}

// Stats holds the aggregate counters shown next to the list.
type Stats struct {
	Total     int
	Completed int
	Pending   int
	// Progress is the completion percentage, 0 when there are no tasks.
	Progress float64
}

// Fraction returns Progress scaled to [0, 1].
func (s Stats) Fraction() float64 {
	return s.Progress / 100
}

// Summarize computes Stats for tasks.
func Summarize(tasks []Task) Stats {
	var s Stats
	s.Total = len(tasks)
	for i := range tasks {
		if tasks[i].Completed {
			s.Completed++
		}
	}
	s.Pending = s.Total - s.Completed
	if s.Total > 0 {
		s.Progress = float64(s.Completed) / float64(s.Total) * 100
	}
	return s
}
