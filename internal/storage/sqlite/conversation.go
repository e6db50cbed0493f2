package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fbianco/edbot/internal/core"
	"github.com/fbianco/edbot/pkg/log"
)

// ConversationRepo is the append-only durable turn log. It is unbounded;
// the in-memory history window is managed separately by the dialog service.
type ConversationRepo struct {
	db *sql.DB
}

func NewConversationRepo(db *sql.DB) *ConversationRepo {
	return &ConversationRepo{db: db}
}

func (r *ConversationRepo) AddTurn(ctx context.Context, turn core.Turn) error {
	query := `INSERT INTO conversation_log (session_id, created_at, user_text, assistant_text)
		VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		turn.SessionID,
		turn.CreatedAt.UTC().Format(time.RFC3339),
		turn.UserText,
		turn.AssistantText,
	)
	if err != nil {
		return fmt.Errorf("failed to insert turn: %w", err)
	}
	return nil
}

// RecentTurns returns the last 'limit' turns of a session in chronological
// order (oldest first).
func (r *ConversationRepo) RecentTurns(ctx context.Context, sessionID string, limit int) ([]core.Turn, error) {
	query := `SELECT id, session_id, created_at, user_text, assistant_text
		FROM conversation_log WHERE session_id = ? ORDER BY id DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query turns: %w", err)
	}
	defer rows.Close()

	var turns []core.Turn
	for rows.Next() {
		var t core.Turn
		var createdAt string
		if err := rows.Scan(&t.ID, &t.SessionID, &createdAt, &t.UserText, &t.AssistantText); err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}
		t.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Query returned newest first; flip back to chronological order.
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}

	log.FromCtx(ctx).Debug().Int("count", len(turns)).Msg("loaded conversation turns")
	return turns, nil
}

// LatestSessionID returns the session of the most recently logged turn, or
// "" when the log is empty.
func (r *ConversationRepo) LatestSessionID(ctx context.Context) (string, error) {
	var id string
	err := r.db.QueryRowContext(ctx,
		`SELECT session_id FROM conversation_log ORDER BY id DESC LIMIT 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to find latest session: %w", err)
	}
	return id, nil
}

// countTurns reports the total size of the durable log for a session.
func (r *ConversationRepo) countTurns(ctx context.Context, sessionID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM conversation_log WHERE session_id = ?`, sessionID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count turns: %w", err)
	}
	return n, nil
}
