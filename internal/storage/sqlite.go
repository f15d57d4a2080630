package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/user/fairy-farm/internal/interfaces"
	"github.com/user/fairy-farm/internal/types"
)

var (
	_ interfaces.Store    = (*SQLiteStore)(nil)
	_ interfaces.Resetter = (*SQLiteStore)(nil)
)

// cacheSize is how many save slots stay cached
const cacheSize = 16

// SQLiteStore keeps game snapshots in a SQLite database, one row per save
// slot. Loaded payloads are cached for a while so repeated loads skip the
// database.
type SQLiteStore struct {
	db    *sql.DB
	slot  string
	cache *expirable.LRU[string, []byte]
	mu    sync.Mutex
}

// InitSQLite opens the database at dbPath and creates the schema
func InitSQLite(dbPath string) (*sql.DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// one writer at a time
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	if err := createSchemas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schemas: %w", err)
	}

	return db, nil
}

func createSchemas(db *sql.DB) error {
	schemas := []string{
		`CREATE TABLE IF NOT EXISTS game_saves (
			slot TEXT PRIMARY KEY,
			payload TEXT NOT NULL,
			game_day INTEGER NOT NULL DEFAULT 1,
			level INTEGER NOT NULL DEFAULT 1,
			updated_at DATETIME NOT NULL
		);`,
	}

	for _, query := range schemas {
		if _, err := db.Exec(query); err != nil {
			return err
		}
	}

	return nil
}

// NewSQLiteStore opens a store for one save slot. A zero cacheTTL disables caching.
func NewSQLiteStore(dbPath, slot string, cacheTTL time.Duration) (*SQLiteStore, error) {
	db, err := InitSQLite(dbPath)
	if err != nil {
		return nil, err
	}
	return NewSQLiteStoreWithDB(db, slot, cacheTTL), nil
}

// NewSQLiteStoreWithDB wraps an already initialised database
func NewSQLiteStoreWithDB(db *sql.DB, slot string, cacheTTL time.Duration) *SQLiteStore {
	s := &SQLiteStore{
		db:   db,
		slot: slot,
	}
	if cacheTTL > 0 {
		s.cache = expirable.NewLRU[string, []byte](cacheSize, nil, cacheTTL)
	}
	return s
}

// Save upserts the snapshot into the slot's row
func (s *SQLiteStore) Save(state *types.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal game state: %w", err)
	}

	query := `
		INSERT INTO game_saves (slot, payload, game_day, level, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(slot) DO UPDATE SET
			payload = excluded.payload,
			game_day = excluded.game_day,
			level = excluded.level,
			updated_at = excluded.updated_at
	`
	if _, err := s.db.Exec(query, s.slot, string(payload), state.GameDay, state.Level, time.Now().UTC()); err != nil {
		if s.cache != nil {
			s.cache.Remove(s.slot)
		}
		return fmt.Errorf("failed to save game state: %w", err)
	}

	if s.cache != nil {
		s.cache.Add(s.slot, payload)
	}
	return nil
}

// Load decodes the slot's snapshot onto into. A missing slot is not an error.
func (s *SQLiteStore) Load(into *types.Snapshot) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, ok := s.cached()
	if !ok {
		var raw string
		err := s.db.QueryRow(`SELECT payload FROM game_saves WHERE slot = ?`, s.slot).Scan(&raw)
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("failed to read game state: %w", err)
		}
		payload = []byte(raw)
		if s.cache != nil {
			s.cache.Add(s.slot, payload)
		}
	}

	if err := json.Unmarshal(payload, into); err != nil {
		return false, fmt.Errorf("failed to parse game state: %w", err)
	}
	return true, nil
}

func (s *SQLiteStore) cached() ([]byte, bool) {
	if s.cache == nil {
		return nil, false
	}
	return s.cache.Get(s.slot)
}

// SlotInfo summarises one save slot
type SlotInfo struct {
	Slot      string    `json:"slot"`
	GameDay   int       `json:"game_day"`
	Level     int       `json:"level"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Slots lists every save slot in the database, most recently saved first
func (s *SQLiteStore) Slots() ([]SlotInfo, error) {
	rows, err := s.db.Query(`SELECT slot, game_day, level, updated_at FROM game_saves ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list save slots: %w", err)
	}
	defer rows.Close()

	slots := make([]SlotInfo, 0)
	for rows.Next() {
		var info SlotInfo
		if err := rows.Scan(&info.Slot, &info.GameDay, &info.Level, &info.UpdatedAt); err != nil {
			return nil, err
		}
		slots = append(slots, info)
	}
	return slots, rows.Err()
}

// Delete removes this store's slot
func (s *SQLiteStore) Delete() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cache != nil {
		s.cache.Remove(s.slot)
	}
	if _, err := s.db.Exec(`DELETE FROM game_saves WHERE slot = ?`, s.slot); err != nil {
		return fmt.Errorf("failed to delete save slot: %w", err)
	}
	return nil
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
