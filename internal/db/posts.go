package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/deCybercop/wp-calypso/internal/blocks"
	"github.com/deCybercop/wp-calypso/internal/models"
)

// CreatePost inserts a new post and sets its ID and timestamps
func (db *DB) CreatePost(post *models.Post) error {
	return db.withWriteLock(func() error {
		meta, err := encodeMeta(post.Meta)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		res, err := db.conn.Exec(`INSERT INTO posts (title, meta, content, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?)`,
			post.Title, meta, blocks.Serialize(post.Blocks), toMillis(now), toMillis(now))
		if err != nil {
			return fmt.Errorf("insert post: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		post.ID = id
		post.CreatedAt = fromMillis(toMillis(now))
		post.UpdatedAt = post.CreatedAt
		return nil
	})
}

// GetPost loads a post and parses its content into blocks
func (db *DB) GetPost(id int64) (*models.Post, error) {
	var (
		post            models.Post
		meta, content   string
		created, update int64
	)
	err := db.conn.QueryRow(`SELECT id, title, meta, content, created_at, updated_at FROM posts WHERE id = ?`, id).
		Scan(&post.ID, &post.Title, &meta, &content, &created, &update)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("post %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get post %d: %w", id, err)
	}
	if err := json.Unmarshal([]byte(meta), &post.Meta); err != nil {
		return nil, fmt.Errorf("decode meta for post %d: %w", id, err)
	}
	if post.Meta == nil {
		post.Meta = map[string]any{}
	}
	post.Blocks = blocks.Parse(content)
	post.CreatedAt = fromMillis(created)
	post.UpdatedAt = fromMillis(update)
	return &post, nil
}

// UpdatePost writes title, meta, and blocks of an existing post
func (db *DB) UpdatePost(post *models.Post) error {
	return db.withWriteLock(func() error {
		meta, err := encodeMeta(post.Meta)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		res, err := db.conn.Exec(`UPDATE posts SET title = ?, meta = ?, content = ?, updated_at = ? WHERE id = ?`,
			post.Title, meta, blocks.Serialize(post.Blocks), toMillis(now), post.ID)
		if err != nil {
			return fmt.Errorf("update post %d: %w", post.ID, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("post %d: %w", post.ID, ErrNotFound)
		}
		post.UpdatedAt = fromMillis(toMillis(now))
		return nil
	})
}

// ListPosts returns all posts, newest first, without parsing content
func (db *DB) ListPosts() ([]models.Post, error) {
	rows, err := db.conn.Query(`SELECT id, title, meta, created_at, updated_at FROM posts ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		var (
			post            models.Post
			meta            string
			created, update int64
		)
		if err := rows.Scan(&post.ID, &post.Title, &meta, &created, &update); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(meta), &post.Meta); err != nil {
			return nil, fmt.Errorf("decode meta for post %d: %w", post.ID, err)
		}
		post.CreatedAt = fromMillis(created)
		post.UpdatedAt = fromMillis(update)
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

func encodeMeta(meta map[string]any) (string, error) {
	if meta == nil {
		return "{}", nil
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("encode meta: %w", err)
	}
	return string(data), nil
}
