package todo

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/taskflow/internal/storage"
)

// DefaultKey is the key the task blob is stored under.
const DefaultKey = "taskflow-tasks"

// corruptSuffix is appended to the key to preserve an unreadable blob.
const corruptSuffix = ".corrupt"

// Store is the authoritative task collection backed by a key-value blob.
// It is safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	kv     storage.Store
	key    string
	now    func() time.Time
	newID  func(time.Time) string
	logger *log.Logger
	tasks  []Task
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithKey sets the key the blob is stored under.
func WithKey(key string) StoreOption {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithClock sets the time source used for ids and createdAt.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDFunc sets the id generator. It receives the creation time.
func WithIDFunc(fn func(time.Time) string) StoreOption {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithLogger sets the logger used for load diagnostics.
func WithLogger(logger *log.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// TimestampID returns the creation time in Unix milliseconds. Two tasks
// created within the same millisecond get the same id.
func TimestampID(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}

// NewStore returns an empty Store over kv. Call Load to read persisted state.
func NewStore(kv storage.Store, opts ...StoreOption) *Store {
	s := &Store{
		kv:     kv,
		key:    DefaultKey,
		now:    time.Now,
		newID:  TimestampID,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the key the blob is stored under.
func (s *Store) Key() string {
	return s.key
}

// LoadReport describes what Load found.
type LoadReport struct {
	// Missing is true when no blob was stored yet.
	Missing bool
	// Loaded is the number of tasks in the collection after loading.
	Loaded int
	// Skipped holds one error per malformed entry that was dropped.
	Skipped []error
	// Corrupt is set when the blob could not be parsed at all.
	Corrupt error
}

// Clean reports whether the blob loaded without problems.
func (r LoadReport) Clean() bool {
	return r.Corrupt == nil && len(r.Skipped) == 0
}

// Load replaces the in-memory collection with the persisted one. Corrupt or
// malformed data never fails the load; only a backend read error does.
func (s *Store) Load(ctx context.Context) (LoadReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return LoadReport{}, fmt.Errorf("read task blob: %w", err)
	}
	if !ok {
		s.tasks = nil
		return LoadReport{Missing: true}, nil
	}

	res := Decode(data)
	report := LoadReport{
		Skipped: res.Skipped,
		Corrupt: res.Corrupt,
	}

	if res.Corrupt != nil {
		s.logger.Warn("task blob is corrupt, starting with an empty list", "key", s.key, "err", res.Corrupt)
		backup := s.key + corruptSuffix
		if err := s.kv.Set(ctx, backup, data); err != nil {
			s.logger.Error("could not preserve corrupt task blob", "key", backup, "err", err)
		} else {
			s.logger.Info("preserved corrupt task blob", "key", backup, "bytes", len(data))
		}
	}
	for _, skipped := range res.Skipped {
		s.logger.Warn("skipping malformed task", "key", s.key, "err", skipped)
	}

	s.tasks = res.Tasks
	report.Loaded = len(s.tasks)
	s.logger.Debug("loaded tasks", "key", s.key, "count", report.Loaded)
	return report, nil
}

// Save overwrites the persisted blob with the full collection.
func (s *Store) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(ctx)
}

func (s *Store) saveLocked(ctx context.Context) error {
	data, err := Encode(s.tasks)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("write task blob: %w", err)
	}
	return nil
}

// Create appends a new task built from fields and persists the collection.
// Empty priority and project fall back to their defaults; the other fields
// are stored verbatim. If persisting fails the task is not kept.
func (s *Store) Create(ctx context.Context, fields Fields) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC().Truncate(time.Millisecond)
	task := Task{
		ID:          s.newID(now),
		Title:       fields.Title,
		Description: fields.Description,
		DueDate:     fields.DueDate,
		Priority:    fields.Priority,
		Project:     fields.Project,
		Completed:   false,
		CreatedAt:   now,
	}
	if task.Priority == "" {
		task.Priority = DefaultPriority
	}
	if task.Project == "" {
		task.Project = DefaultProject
	}

	s.tasks = append(s.tasks, task)
	if err := s.saveLocked(ctx); err != nil {
		s.tasks = s.tasks[:len(s.tasks)-1]
		return Task{}, fmt.Errorf("create task: %w", err)
	}
	return task, nil
}

// ToggleCompletion flips the completed flag of task id and persists.
// It returns the updated task and whether id was found.
func (s *Store) ToggleCompletion(ctx context.Context, id string) (Task, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return Task{}, false, nil
	}

	s.tasks[i].Completed = !s.tasks[i].Completed
	if err := s.saveLocked(ctx); err != nil {
		s.tasks[i].Completed = !s.tasks[i].Completed
		return s.tasks[i], true, fmt.Errorf("toggle task %q: %w", id, err)
	}
	return s.tasks[i], true, nil
}

// UpdateTitle replaces the title of task id when title is non-empty and
// differs from the current one. It persists only when something changed and
// reports whether it did.
func (s *Store) UpdateTitle(ctx context.Context, id, title string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 || title == "" || s.tasks[i].Title == title {
		return false, nil
	}

	previous := s.tasks[i].Title
	s.tasks[i].Title = title
	if err := s.saveLocked(ctx); err != nil {
		s.tasks[i].Title = previous
		return false, fmt.Errorf("update task %q: %w", id, err)
	}
	return true, nil
}

// Delete removes task id and persists. It reports whether id was found.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return false, nil
	}

	removed := s.tasks[i]
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	if err := s.saveLocked(ctx); err != nil {
		s.tasks = append(s.tasks, Task{})
		copy(s.tasks[i+1:], s.tasks[i:])
		s.tasks[i] = removed
		return true, fmt.Errorf("delete task %q: %w", id, err)
	}
	return true, nil
}

// Get returns task id.
func (s *Store) Get(id string) (Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexLocked(id)
	if i < 0 {
		return Task{}, false
	}
	return s.tasks[i], true
}

// Tasks returns a copy of the collection in insertion order.
func (s *Store) Tasks() []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

// Stats returns the aggregate counters for the collection.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Summarize(s.tasks)
}

func (s *Store) indexLocked(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}
