package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"

	"awardmatch/internal/apperr"
	"awardmatch/internal/models"
)

// contentQuery lists documents and events under one shape.
const contentQuery = `
	SELECT id::text, 'document' AS type, title, body_text, status FROM documents
	UNION ALL
	SELECT id::text, 'event' AS type, title, description, status FROM events
`

// Content reads documents and events. It is the PostgreSQL content source.
type Content struct {
	db *DB
}

// Content returns the read-only content view of the database.
func (d *DB) Content() *Content {
	return &Content{db: d}
}

func scanContent(row pgx.Row) (models.ContentItem, error) {
	var item models.ContentItem
	err := row.Scan(&item.ID, &item.Type, &item.Title, &item.BodyText, &item.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return item, ErrContentNotFound
	}
	return item, err
}

// List returns every document and event, active or not.
func (c *Content) List(ctx context.Context) ([]models.ContentItem, error) {
	rows, err := c.db.Pool.Query(ctx, `SELECT * FROM (`+contentQuery+`) c ORDER BY type, id::bigint`)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindPersistence, eris.Wrap(err, "db: list content"), "could not read content")
	}
	defer rows.Close()

	var items []models.ContentItem
	for rows.Next() {
		item, err := scanContent(rows)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindPersistence, eris.Wrap(err, "db: scan content"), "could not read content")
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(apperr.KindPersistence, eris.Wrap(err, "db: iterate content"), "could not read content")
	}
	return items, nil
}

// Get returns one document or event.
func (c *Content) Get(ctx context.Context, contentType, id string) (models.ContentItem, error) {
	var query string
	switch contentType {
	case models.ContentDocument:
		query = `SELECT id::text, 'document', title, body_text, status FROM documents WHERE id::text = $1`
	case models.ContentEvent:
		query = `SELECT id::text, 'event', title, description, status FROM events WHERE id::text = $1`
	default:
		return models.ContentItem{}, apperr.Validation("unknown content type %q", contentType)
	}

	item, err := scanContent(c.db.Pool.QueryRow(ctx, query, id))
	if errors.Is(err, ErrContentNotFound) {
		return item, apperr.Wrap(apperr.KindNotFound, err, "%s %s not found", contentType, id)
	}
	if err != nil {
		return item, apperr.Wrap(apperr.KindPersistence, eris.Wrap(err, "db: get content"), "could not read %s %s", contentType, id)
	}
	return item, nil
}

// SeedDevContent inserts sample documents and events for development.
// Items whose title already exists are skipped.
func (d *DB) SeedDevContent(ctx context.Context, items []models.ContentItem) error {
	for _, item := range items {
		var query string
		switch item.Type {
		case models.ContentDocument:
			query = `
				INSERT INTO documents (title, body_text, status)
				SELECT $1, $2, $3
				WHERE NOT EXISTS (SELECT 1 FROM documents WHERE title = $1)
			`
		case models.ContentEvent:
			query = `
				INSERT INTO events (title, description, status)
				SELECT $1, $2, $3
				WHERE NOT EXISTS (SELECT 1 FROM events WHERE title = $1)
			`
		default:
			continue
		}
		if _, err := d.Pool.Exec(ctx, query, item.Title, item.BodyText, item.Status); err != nil {
			return eris.Wrapf(err, "db: seed %s %q", item.Type, item.Title)
		}
	}
	return nil
}
