package server

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed samples.json
var samplesJSON []byte

// SampleTask is one record of the sample endpoint. Its shape differs from
// todo.Task: the id is numeric and records carry tags.
type SampleTask struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	DueDate     string   `json:"dueDate"`
	Priority    string   `json:"priority"`
	Project     string   `json:"project"`
	Completed   bool     `json:"completed"`
	Tags        []string `json:"tags"`
	CreatedAt   string   `json:"createdAt"`
}

// Samples returns the fixed sample task list.
func Samples() ([]SampleTask, error) {
	var tasks []SampleTask
	if err := json.Unmarshal(samplesJSON, &tasks); err != nil {
		return nil, fmt.Errorf("decode sample tasks: %w", err)
	}
	return tasks, nil
}
