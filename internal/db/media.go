package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/deCybercop/wp-calypso/internal/models"
	"github.com/google/uuid"
)

// SaveMedia stores an asset fetched from sourceURL. Storing the same source
// twice returns the existing record.
func (db *DB) SaveMedia(sourceURL, mimeType string, data []byte) (*models.Media, error) {
	if existing, err := db.MediaBySourceURL(sourceURL); err == nil {
		return existing, nil
	}

	m := &models.Media{
		ID:        uuid.New().String(),
		SourceURL: sourceURL,
		MimeType:  mimeType,
		Size:      int64(len(data)),
		CreatedAt: fromMillis(toMillis(time.Now())),
	}
	err := db.withWriteLock(func() error {
		_, err := db.conn.Exec(`INSERT INTO media (id, source_url, mime_type, size, data, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(source_url) DO NOTHING`,
			m.ID, m.SourceURL, m.MimeType, m.Size, data, toMillis(m.CreatedAt))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("save media %s: %w", sourceURL, err)
	}
	// A concurrent writer may have won the insert
	return db.MediaBySourceURL(sourceURL)
}

// MediaBySourceURL returns the media record fetched from sourceURL
func (db *DB) MediaBySourceURL(sourceURL string) (*models.Media, error) {
	return db.scanMedia(db.conn.QueryRow(`SELECT id, source_url, mime_type, size, created_at
		FROM media WHERE source_url = ?`, sourceURL), sourceURL)
}

// GetMedia returns a media record by ID
func (db *DB) GetMedia(id string) (*models.Media, error) {
	return db.scanMedia(db.conn.QueryRow(`SELECT id, source_url, mime_type, size, created_at
		FROM media WHERE id = ?`, id), id)
}

// MediaData returns the stored bytes of a media record
func (db *DB) MediaData(id string) ([]byte, error) {
	var data []byte
	err := db.conn.QueryRow(`SELECT data FROM media WHERE id = ?`, id).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("media %s: %w", id, ErrNotFound)
	}
	return data, err
}

func (db *DB) scanMedia(row *sql.Row, key string) (*models.Media, error) {
	var (
		m       models.Media
		created int64
	)
	err := row.Scan(&m.ID, &m.SourceURL, &m.MimeType, &m.Size, &created)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("media %s: %w", key, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get media %s: %w", key, err)
	}
	m.CreatedAt = fromMillis(created)
	return &m, nil
}
