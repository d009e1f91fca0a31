package agentdesk

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestStateFileWatcherReloadsOnExternalWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")

	store := NewStoreWithOptions(StoreOptions{StateFile: path})
	watcher, err := WatchStateFile(store, path, zap.NewNop())
	if err != nil {
		t.Fatalf("WatchStateFile: %v", err)
	}
	defer func() { _ = watcher.Close() }()

	snapshot := persistedState{
		Tasks: map[string]Task{
			"ext1": {ID: "ext1", Title: "written externally", Status: TaskStatusTodo, Priority: TaskPriorityLow},
		},
	}
	payload, err := json.Marshal(&snapshot)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	// Atomic rename, matching how the file backend itself saves.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		t.Fatalf("Rename: %v", err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for {
		if _, err := store.GetTask("ext1"); err == nil {
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("store never picked up the externally written snapshot")
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func TestStateFileWatcherCloseIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")
	store := NewStoreWithOptions(StoreOptions{StateFile: path})
	watcher, err := WatchStateFile(store, path, zap.NewNop())
	if err != nil {
		t.Fatalf("WatchStateFile: %v", err)
	}
	if err := watcher.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := watcher.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}
