// Package store is the on-device database for screensaver images and display settings
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a delete or lookup targets an image id that
// does not exist in the store.
var ErrNotFound = errors.New("image not found")

// schemaVersion tracks the store layout via PRAGMA user_version. Migrations
// are additive only; bumping the version must never drop existing rows.
const schemaVersion = 1

const (
	DefaultInactivityTimeoutMs = 5 * 60 * 1000
	DefaultImageDurationMs     = 15 * 1000
)

type Database struct {
	db *sql.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	// Create directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	database := &Database{db: db}

	if err := database.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return database, nil
}

func (d *Database) migrate() error {
	var version int
	if err := d.db.QueryRow(`PRAGMA user_version`).Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version >= schemaVersion {
		return nil
	}

	if version < 1 {
		query := `
		CREATE TABLE IF NOT EXISTS images (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			name        TEXT NOT NULL,
			mime        TEXT NOT NULL,
			data        BLOB NOT NULL,
			uploaded_at TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS settings (
			singleton             INTEGER NOT NULL DEFAULT 1 CHECK (singleton = 1),
			inactivity_timeout_ms INTEGER NOT NULL,
			image_duration_ms     INTEGER NOT NULL,
			PRIMARY KEY (singleton)
		);
		`
		if _, err := d.db.Exec(query); err != nil {
			return err
		}
	}

	_, err := d.db.Exec(fmt.Sprintf(`PRAGMA user_version = %d`, schemaVersion))
	return err
}

// AddImage persists an image payload with its metadata and returns the
// auto-assigned id.
func (d *Database) AddImage(name, mime string, data []byte) (int64, error) {
	query := `INSERT INTO images (name, mime, data, uploaded_at) VALUES (?, ?, ?, ?)`
	res, err := d.db.Exec(query, name, mime, data, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("failed to insert image: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get inserted image id: %w", err)
	}
	return id, nil
}

// ListImages returns every stored image with its payload materialized.
func (d *Database) ListImages() ([]Image, error) {
	query := `SELECT id, name, mime, data, uploaded_at FROM images ORDER BY id ASC`
	rows, err := d.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query images: %w", err)
	}
	defer rows.Close()

	var images []Image
	for rows.Next() {
		var img Image
		var uploadedAt string
		if err := rows.Scan(&img.ID, &img.Name, &img.MIME, &img.Data, &uploadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan image: %w", err)
		}
		img.UploadedAt, _ = time.Parse(time.RFC3339, uploadedAt)
		images = append(images, img)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return images, nil
}

func (d *Database) DeleteImage(id int64) error {
	result, err := d.db.Exec(`DELETE FROM images WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}

	return nil
}

// DeleteAllImages removes every image in the local store and reports how
// many rows were removed.
func (d *Database) DeleteAllImages() (int64, error) {
	result, err := d.db.Exec(`DELETE FROM images`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete images: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return count, nil
}

func (d *Database) GetSettings() (*Settings, error) {
	const query = `
		SELECT inactivity_timeout_ms,
		       image_duration_ms
		FROM settings
		WHERE singleton = 1
	`

	var s Settings
	err := d.db.QueryRow(query).Scan(&s.InactivityTimeoutMs, &s.ImageDurationMs)
	if err == sql.ErrNoRows {
		// Bootstrap defaults if no settings row exists yet
		defaults := &Settings{
			InactivityTimeoutMs: DefaultInactivityTimeoutMs,
			ImageDurationMs:     DefaultImageDurationMs,
		}
		if err := d.SaveSettings(defaults); err != nil {
			return nil, err
		}
		return defaults, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}

	return &s, nil
}

func (d *Database) SaveSettings(s *Settings) error {
	const stmt = `
		INSERT INTO settings (
			singleton,
			inactivity_timeout_ms,
			image_duration_ms
		) VALUES (1, ?, ?)
		ON CONFLICT(singleton) DO UPDATE SET
			inactivity_timeout_ms = excluded.inactivity_timeout_ms,
			image_duration_ms     = excluded.image_duration_ms
	`

	if _, err := d.db.Exec(stmt, s.InactivityTimeoutMs, s.ImageDurationMs); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

func (d *Database) Close() error {
	return d.db.Close()
}
