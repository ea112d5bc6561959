// Package history archives conversations in a SQLite database.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"pocketchat/internal/common/fsutil"
	"pocketchat/pkg/types"
)

const schema = `
CREATE TABLE IF NOT EXISTS conversations (
	id         TEXT PRIMARY KEY,
	model      TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS messages (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	conversation_id TEXT NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
	role            TEXT NOT NULL,
	content         TEXT NOT NULL,
	created_at      INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id, id);
`

// ErrNotFound is returned for an unknown conversation id.
var ErrNotFound = errors.New("conversation not found")

// Conversation is one archived transcript header.
type Conversation struct {
	ID        string    `json:"id"`
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"created_at"`
	Messages  int       `json:"messages"`
}

// Archive is a SQLite-backed conversation log.
type Archive struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the archive at path. ":memory:" keeps it in RAM.
func Open(ctx context.Context, path string) (*Archive, error) {
	if path != ":memory:" {
		p, err := fsutil.ExpandHome(path)
		if err != nil {
			return nil, err
		}
		if _, err := fsutil.ResolveDir(filepath.Dir(p)); err != nil {
			return nil, err
		}
		path = p
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	// One writer; also keeps a :memory: database shared across calls.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("history pragma: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("history schema: %w", err)
	}
	return &Archive{db: db, now: time.Now}, nil
}

// Close closes the database.
func (a *Archive) Close() error { return a.db.Close() }

// StartConversation records a new conversation for model.
func (a *Archive) StartConversation(ctx context.Context, id, model string) error {
	_, err := a.db.ExecContext(ctx,
		"INSERT INTO conversations (id, model, created_at) VALUES (?, ?, ?)",
		id, model, a.now().UnixMilli())
	if err != nil {
		return fmt.Errorf("start conversation: %w", err)
	}
	return nil
}

// Append adds msg to conversation id.
func (a *Archive) Append(ctx context.Context, id string, msg types.Message) error {
	_, err := a.db.ExecContext(ctx,
		"INSERT INTO messages (conversation_id, role, content, created_at) VALUES (?, ?, ?, ?)",
		id, string(msg.Role), msg.Content, a.now().UnixMilli())
	if err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	return nil
}

// Messages returns the messages of conversation id in insertion order.
func (a *Archive) Messages(ctx context.Context, id string) ([]types.Message, error) {
	var exists int
	err := a.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM conversations WHERE id = ?", id).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("lookup conversation: %w", err)
	}
	if exists == 0 {
		return nil, ErrNotFound
	}
	rows, err := a.db.QueryContext(ctx,
		"SELECT role, content FROM messages WHERE conversation_id = ? ORDER BY id", id)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()
	out := []types.Message{}
	for rows.Next() {
		var role, content string
		if err := rows.Scan(&role, &content); err != nil {
			return nil, err
		}
		out = append(out, types.Message{Role: types.Role(role), Content: content})
	}
	return out, rows.Err()
}

// Conversations lists archived conversations, newest first.
func (a *Archive) Conversations(ctx context.Context, limit int) ([]Conversation, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := a.db.QueryContext(ctx, `
		SELECT c.id, c.model, c.created_at, COUNT(m.id)
		FROM conversations c LEFT JOIN messages m ON m.conversation_id = c.id
		GROUP BY c.id
		ORDER BY c.created_at DESC, c.rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query conversations: %w", err)
	}
	defer rows.Close()
	var out []Conversation
	for rows.Next() {
		var c Conversation
		var ms int64
		if err := rows.Scan(&c.ID, &c.Model, &ms, &c.Messages); err != nil {
			return nil, err
		}
		c.CreatedAt = time.UnixMilli(ms)
		out = append(out, c)
	}
	return out, rows.Err()
}

// Delete removes conversation id and its messages.
func (a *Archive) Delete(ctx context.Context, id string) error {
	res, err := a.db.ExecContext(ctx, "DELETE FROM conversations WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete conversation: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
