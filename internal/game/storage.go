package game

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/user/fairy-farm/internal/interfaces"
	"github.com/user/fairy-farm/internal/types"
)

var (
	_ interfaces.Store    = (*FileStore)(nil)
	_ interfaces.Store    = (*MemoryStore)(nil)
	_ interfaces.Resetter = (*FileStore)(nil)
)

// FileStore persists the game state as a JSON file
type FileStore struct {
	savePath  string
	stateLock sync.Mutex
}

// NewFileStore creates a file store writing to savePath
func NewFileStore(savePath string) *FileStore {
	return &FileStore{
		savePath: savePath,
	}
}

// Save writes the game state to disk. The file is replaced atomically.
func (fs *FileStore) Save(state *types.Snapshot) error {
	fs.stateLock.Lock()
	defer fs.stateLock.Unlock()

	// Create directory if it doesn't exist
	dir := filepath.Dir(fs.savePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal game state: %w", err)
	}

	tmp := fs.savePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write game state: %w", err)
	}
	if err := os.Rename(tmp, fs.savePath); err != nil {
		return fmt.Errorf("failed to replace game state: %w", err)
	}

	return nil
}

// Load decodes the saved state onto into. A missing file is not an error.
func (fs *FileStore) Load(into *types.Snapshot) (bool, error) {
	fs.stateLock.Lock()
	defer fs.stateLock.Unlock()

	data, err := os.ReadFile(fs.savePath)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read game state file: %w", err)
	}

	if err := json.Unmarshal(data, into); err != nil {
		return false, fmt.Errorf("failed to parse game state: %w", err)
	}
	return true, nil
}

// Delete removes the save file. A missing file is not an error.
func (fs *FileStore) Delete() error {
	fs.stateLock.Lock()
	defer fs.stateLock.Unlock()

	if err := os.Remove(fs.savePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete game state file: %w", err)
	}
	return nil
}

// MemoryStore keeps the last saved state in memory, encoded as JSON so
// later mutations of the live state do not leak into it.
type MemoryStore struct {
	mu    sync.Mutex
	data  []byte
	saves int
	err   error
}

// NewMemoryStore creates an empty memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Save records the state
func (ms *MemoryStore) Save(state *types.Snapshot) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if ms.err != nil {
		return ms.err
	}
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal game state: %w", err)
	}
	ms.data = data
	ms.saves++
	return nil
}

// Load decodes the last saved state onto into
func (ms *MemoryStore) Load(into *types.Snapshot) (bool, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if ms.data == nil {
		return false, nil
	}
	if err := json.Unmarshal(ms.data, into); err != nil {
		return false, fmt.Errorf("failed to parse game state: %w", err)
	}
	return true, nil
}

// Saves returns how many times the state was saved
func (ms *MemoryStore) Saves() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.saves
}

// FailWith makes every following Save return err; nil clears it
func (ms *MemoryStore) FailWith(err error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.err = err
}
