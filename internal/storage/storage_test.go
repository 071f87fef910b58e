package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testBackend(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := s.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("Get missing: ok=%v err=%v, want ok=false err=nil", ok, err)
	}

	if err := s.Set(ctx, "tasks", []byte(`[1]`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, ok, err := s.Get(ctx, "tasks")
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if string(got) != `[1]` {
		t.Errorf("Get: got %q, want %q", got, `[1]`)
	}

	if err := s.Set(ctx, "tasks", []byte(`[2]`)); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	got, _, _ = s.Get(ctx, "tasks")
	if string(got) != `[2]` {
		t.Errorf("after overwrite: got %q, want %q", got, `[2]`)
	}

	if err := s.Delete(ctx, "tasks"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "tasks"); ok {
		t.Error("key still present after Delete")
	}
	if err := s.Delete(ctx, "tasks"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	testBackend(t, NewMemoryStore())
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	value := []byte("abc")
	if err := s.Set(ctx, "k", value); err != nil {
		t.Fatal(err)
	}
	value[0] = 'x'

	got, _, _ := s.Get(ctx, "k")
	if string(got) != "abc" {
		t.Errorf("stored value changed through caller slice: %q", got)
	}
	got[1] = 'y'
	again, _, _ := s.Get(ctx, "k")
	if string(again) != "abc" {
		t.Errorf("stored value changed through returned slice: %q", again)
	}
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	testBackend(t, s)
}

func TestFileStoreLayout(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("data dir not created: %v", err)
	}

	ctx := context.Background()
	if err := s.Set(ctx, "taskflow-tasks", []byte("[]\n")); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(dir, "taskflow-tasks.json")
	if s.Path("taskflow-tasks") != path {
		t.Errorf("Path: got %s, want %s", s.Path("taskflow-tasks"), path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read backing file: %v", err)
	}
	if string(data) != "[]\n" {
		t.Errorf("backing file: got %q", data)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".tmp-") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestNewFileStoreEmptyDir(t *testing.T) {
	if _, err := NewFileStore(""); err == nil {
		t.Fatal("expected error for empty data dir")
	}
}

func TestSanitizeKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"taskflow-tasks", "taskflow-tasks"},
		{"taskflow-tasks.corrupt", "taskflow-tasks.corrupt"},
		{"../etc/passwd", "etc_passwd"},
		{"a b/c", "a_b_c"},
		{"", "default"},
		{"...", "default"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := sanitizeKey(tt.in); got != tt.want {
				t.Errorf("sanitizeKey(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, "memory", Options{})
	if err != nil {
		t.Fatalf("Open memory: %v", err)
	}
	if _, ok := s.(*MemoryStore); !ok {
		t.Errorf("Open memory: got %T", s)
	}

	s, err = Open(ctx, "file", Options{DataDir: t.TempDir()})
	if err != nil {
		t.Fatalf("Open file: %v", err)
	}
	if _, ok := s.(*FileStore); !ok {
		t.Errorf("Open file: got %T", s)
	}

	if _, err := Open(ctx, "redis", Options{}); err == nil {
		t.Error("Open redis without address: expected error")
	}

	_, err = Open(ctx, "sqlite", Options{})
	if err == nil || !strings.Contains(err.Error(), "unknown storage backend") {
		t.Errorf("Open unknown: got %v", err)
	}
}

// TestRedisStore runs against a live server named by TASKFLOW_TEST_REDIS_ADDR.
func TestRedisStore(t *testing.T) {
	addr := os.Getenv("TASKFLOW_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TASKFLOW_TEST_REDIS_ADDR not set")
	}
	s, err := NewRedisStore(context.Background(), addr, 15)
	if err != nil {
		t.Fatalf("NewRedisStore: %v", err)
	}
	defer s.Close()
	testBackend(t, s)
}
