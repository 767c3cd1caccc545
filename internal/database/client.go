// Package database persists one record per completed session in the
// photo_sessions table.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/carsonSgit/cusec-photobooth/internal/types"
)

// ErrNotConfigured is returned by the nil-safe wrapper when no
// database URL was provided.
var ErrNotConfigured = errors.New("session record table is not configured")

// Client wraps a sql.DB for the booth service.
type Client struct {
	db *sql.DB
}

func NewClient(databaseURL string) (*Client, error) {
	if databaseURL == "" {
		return nil, ErrNotConfigured
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &Client{db: db}, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}

// UpsertSessionRecord writes the one row for a session. The session id
// is the key, so re-running an upload overwrites instead of
// duplicating.
func (c *Client) UpsertSessionRecord(ctx context.Context, rec types.SessionRecord) error {
	query := `
		insert into photo_sessions
			(session_id, orientation, photo_1_url, photo_2_url, photo_3_url, photostrip_url, email, upload_status)
		values ($1, $2, $3, $4, $5, $6, nullif($7, ''), $8)
		on conflict (session_id) do update set
			orientation = excluded.orientation,
			photo_1_url = excluded.photo_1_url,
			photo_2_url = excluded.photo_2_url,
			photo_3_url = excluded.photo_3_url,
			photostrip_url = excluded.photostrip_url,
			upload_status = excluded.upload_status`

	_, err := c.db.ExecContext(ctx, query,
		rec.SessionID,
		string(rec.Orientation),
		rec.Photo1URL,
		rec.Photo2URL,
		rec.Photo3URL,
		rec.PhotostripURL,
		rec.Email,
		rec.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert session record: %w", err)
	}
	return nil
}

// UpdateSessionEmail attaches an email address to an already-written
// record by key.
func (c *Client) UpdateSessionEmail(ctx context.Context, sessionID, email string) error {
	query := `update photo_sessions set email = $2 where session_id = $1`
	res, err := c.db.ExecContext(ctx, query, sessionID, email)
	if err != nil {
		return fmt.Errorf("failed to update session email: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("no session record for id %s", sessionID)
	}
	return nil
}
