package todo

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed task.schema.json
var taskSchemaJSON []byte

const taskSchemaURL = "task.schema.json"

var (
	taskSchemaOnce sync.Once
	taskSchema     *jsonschema.Schema
	taskSchemaErr  error
)

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // JSON path to the error location
	Err  error  // Underlying error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

func compiledTaskSchema() (*jsonschema.Schema, error) {
	taskSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		compiler.AssertFormat = true
		if err := compiler.AddResource(taskSchemaURL, bytes.NewReader(taskSchemaJSON)); err != nil {
			taskSchemaErr = fmt.Errorf("add task schema: %w", err)
			return
		}
		taskSchema, taskSchemaErr = compiler.Compile(taskSchemaURL)
	})
	return taskSchema, taskSchemaErr
}

// Encode serializes tasks as the persisted blob.
func Encode(tasks []Task) ([]byte, error) {
	if tasks == nil {
		tasks = []Task{}
	}
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal tasks: %w", err)
	}
	return append(data, '\n'), nil
}

// DecodeResult is the outcome of Decode.
type DecodeResult struct {
	Tasks []Task
	// Skipped holds one error per entry that was dropped.
	Skipped []error
	// Corrupt is set when the blob as a whole could not be read as an
	// array. Tasks is empty in that case.
	Corrupt error
}

// Decode parses a persisted blob, skipping entries that do not describe a
// well-formed task. It never fails as a whole; problems are reported in the
// result.
func Decode(data []byte) DecodeResult {
	var res DecodeResult

	if len(bytes.TrimSpace(data)) == 0 {
		return res
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		res.Corrupt = fmt.Errorf("parse task blob: %w", err)
		return res
	}

	schema, schemaErr := compiledTaskSchema()
	for i, raw := range entries {
		path := fmt.Sprintf("[%d]", i)
		if schemaErr == nil {
			if err := validateEntry(schema, raw, path); err != nil {
				res.Skipped = append(res.Skipped, err)
				continue
			}
		}

		var task Task
		if err := json.Unmarshal(raw, &task); err != nil {
			res.Skipped = append(res.Skipped, &ValidationError{Path: path, Err: err})
			continue
		}
		if task.ID == "" {
			res.Skipped = append(res.Skipped, &ValidationError{Path: path + ".id", Err: fmt.Errorf("missing required field")})
			continue
		}
		if task.Priority == "" {
			task.Priority = DefaultPriority
		}
		res.Tasks = append(res.Tasks, task)
	}

	return res
}

func validateEntry(schema *jsonschema.Schema, raw json.RawMessage, path string) error {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return &ValidationError{Path: path, Err: err}
	}
	err := schema.Validate(v)
	if err == nil {
		return nil
	}
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return &ValidationError{Path: path, Err: err}
	}
	leaf := firstLeaf(ve)
	return &ValidationError{
		Path: joinPath(path, jsonPointerToPath(leaf.InstanceLocation)),
		Err:  fmt.Errorf("%s", leaf.Message),
	}
}

func firstLeaf(err *jsonschema.ValidationError) *jsonschema.ValidationError {
	for len(err.Causes) > 0 {
		err = err.Causes[0]
	}
	return err
}

func joinPath(prefix, rest string) string {
	switch {
	case rest == "":
		return prefix
	case strings.HasPrefix(rest, "["):
		return prefix + rest
	default:
		return prefix + "." + rest
	}
}

func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	path := ""
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			path += fmt.Sprintf("[%d]", idx)
			continue
		}
		if path == "" {
			path = part
		} else {
			path += "." + part
		}
	}
	return path
}
