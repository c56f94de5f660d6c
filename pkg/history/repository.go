package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

// Entry is one recorded publication.
type Entry struct {
	Id          int64
	Feed        string
	Topic       string
	Bytes       int
	ItemCount   int
	Degraded    bool
	PublishedAt time.Time
}

type Repository interface {
	Record(ctx context.Context, entry Entry) error
	Recent(ctx context.Context, limit int) ([]Entry, error)
	LastForFeed(ctx context.Context, feed string) (*Entry, error)
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) Record(ctx context.Context, entry Entry) error {
	query := `INSERT INTO publish_history (feed, topic, bytes, item_count, degraded, published_at)
			  VALUES (?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		entry.Feed, entry.Topic, entry.Bytes, entry.ItemCount, entry.Degraded, entry.PublishedAt.UnixMilli())
	if err != nil {
		err := fmt.Errorf("could not record publish history: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepositoryImpl) Recent(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT id, feed, topic, bytes, item_count, degraded, published_at
			  FROM publish_history ORDER BY published_at DESC, id DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		err := fmt.Errorf("could not query publish history: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	entries := make([]Entry, 0, limit)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *RepositoryImpl) LastForFeed(ctx context.Context, feed string) (*Entry, error) {
	query := `SELECT id, feed, topic, bytes, item_count, degraded, published_at
			  FROM publish_history WHERE feed = ? ORDER BY published_at DESC, id DESC LIMIT 1`

	rows, err := r.db.QueryContext(ctx, query, feed)
	if err != nil {
		err := fmt.Errorf("could not query publish history: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	entry, err := scanEntry(rows)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func scanEntry(rows *sql.Rows) (Entry, error) {
	var entry Entry
	var publishedAtMillis int64
	if err := rows.Scan(&entry.Id, &entry.Feed, &entry.Topic, &entry.Bytes, &entry.ItemCount, &entry.Degraded, &publishedAtMillis); err != nil {
		return Entry{}, fmt.Errorf("could not scan publish history row: %w", err)
	}
	entry.PublishedAt = time.UnixMilli(publishedAtMillis).UTC()
	return entry, nil
}
