package session

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	domainErrors "github.com/openmenu/riderapp/internal/domain/errors"
	"github.com/openmenu/riderapp/internal/domain/model"
)

const (
	keyToken = "auth_token"
	keyRider = "rider_data"
)

// Store persists rider credentials in a local SQLite file, the device-side
// equivalent of the platform's mobile key-value storage.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the session database at path.
func Open(path string) (*Store, error) {
	if path == "" {
		path = "riderapp.db"
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping session db: %w", err)
	}
	_, _ = db.Exec(`PRAGMA journal_mode=WAL`)
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS credentials (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init session schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores the bearer token and rider profile, replacing any previous
// credentials.
func (s *Store) Save(token string, rider *model.Rider) error {
	encoded, err := json.Marshal(rider)
	if err != nil {
		return fmt.Errorf("encode rider: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	const upsert = `INSERT INTO credentials (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	if _, err := tx.Exec(upsert, keyToken, token); err != nil {
		return err
	}
	if _, err := tx.Exec(upsert, keyRider, string(encoded)); err != nil {
		return err
	}
	return tx.Commit()
}

// Load returns the stored token and rider profile, or ErrNotFound when the
// device has no saved session.
func (s *Store) Load() (string, *model.Rider, error) {
	token, err := s.get(keyToken)
	if err != nil {
		return "", nil, err
	}
	raw, err := s.get(keyRider)
	if err != nil {
		return "", nil, err
	}

	var rider model.Rider
	if err := json.Unmarshal([]byte(raw), &rider); err != nil {
		return "", nil, fmt.Errorf("decode stored rider: %w", err)
	}
	return token, &rider, nil
}

// Clear removes all stored credentials.
func (s *Store) Clear() error {
	_, err := s.db.Exec(`DELETE FROM credentials`)
	return err
}

func (s *Store) get(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM credentials WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domainErrors.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return value, nil
}
