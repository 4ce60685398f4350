package prefs

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"newsdeck/internal/catalog"
)

// Store persists the preference document. The storage medium is an
// implementation detail of this collaborator; here it is a single-row sqlite
// table holding the JSON document.
type Store struct {
	readDB  *sql.DB
	writeDB *sql.DB
}

func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating store dir: %w", err)
	}

	writeDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening write db: %w", err)
	}
	writeDB.SetMaxOpenConns(1)

	readDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		writeDB.Close()
		return nil, fmt.Errorf("opening read db: %w", err)
	}

	s := &Store{readDB: readDB, writeDB: writeDB}
	if err := s.init(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	_, err := s.writeDB.Exec(`
		CREATE TABLE IF NOT EXISTS preferences (
			key        TEXT PRIMARY KEY,
			doc        TEXT NOT NULL,
			updated_at DATETIME NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	var errs []error
	if s.readDB != nil {
		errs = append(errs, s.readDB.Close())
	}
	if s.writeDB != nil {
		errs = append(errs, s.writeDB.Close())
	}
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return nil
}

// Load returns the stored preference document, or defaults derived from the
// catalog when none has been saved yet.
func (s *Store) Load(cat *catalog.Catalog) (*Preferences, error) {
	var doc string
	err := s.readDB.QueryRow("SELECT doc FROM preferences WHERE key = 'user'").Scan(&doc)
	if err == sql.ErrNoRows {
		return Default(cat), nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading preferences: %w", err)
	}

	var p Preferences
	if err := json.Unmarshal([]byte(doc), &p); err != nil {
		return nil, fmt.Errorf("parsing preferences: %w", err)
	}
	p.init()
	return &p, nil
}

// Save replaces the stored preference document.
func (s *Store) Save(p *Preferences) error {
	doc, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding preferences: %w", err)
	}
	_, err = s.writeDB.Exec(`
		INSERT INTO preferences (key, doc, updated_at) VALUES ('user', ?, ?)
		ON CONFLICT(key) DO UPDATE SET doc = excluded.doc, updated_at = excluded.updated_at
	`, string(doc), time.Now().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("saving preferences: %w", err)
	}
	return nil
}
