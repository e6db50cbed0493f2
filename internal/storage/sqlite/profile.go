package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/fbianco/edbot/internal/core"
)

// ProfileRepo persists user facts, interests and programming knowledge.
// Writes are synchronous and immediately durable; every successful write
// stamps the row with the current UTC time.
type ProfileRepo struct {
	db  *sql.DB
	now func() time.Time
}

func NewProfileRepo(db *sql.DB) *ProfileRepo {
	return &ProfileRepo{db: db, now: time.Now}
}

func (r *ProfileRepo) Profile(ctx context.Context) (core.UserProfile, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value FROM user_facts`)
	if err != nil {
		return nil, fmt.Errorf("failed to query facts: %w", err)
	}
	defer rows.Close()

	profile := core.DefaultProfile()
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan fact: %w", err)
		}
		profile[core.FactKey(key)] = value
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return profile, nil
}

func (r *ProfileRepo) SetFact(ctx context.Context, key core.FactKey, value string) error {
	if !key.Valid() {
		return fmt.Errorf("%w: %q", core.ErrUnknownFactKey, key)
	}

	query := `INSERT INTO user_facts (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query, string(key), value, r.timestamp())
	if err != nil {
		return fmt.Errorf("failed to upsert fact %q: %w", key, err)
	}
	return nil
}

func (r *ProfileRepo) UpsertInterest(ctx context.Context, topic string, level int) error {
	query := `INSERT INTO interests (topic, level, last_seen) VALUES (?, ?, ?)
		ON CONFLICT(topic) DO UPDATE SET level = excluded.level, last_seen = excluded.last_seen`
	_, err := r.db.ExecContext(ctx, query, topic, level, r.timestamp())
	if err != nil {
		return fmt.Errorf("failed to upsert interest %q: %w", topic, err)
	}
	return nil
}

// UpsertProgramming records a language or framework observation. Either side
// of the key may be empty; a framework-only row coexists with language rows.
func (r *ProfileRepo) UpsertProgramming(ctx context.Context, language, framework string, level int) error {
	query := `INSERT INTO programming_knowledge (language, framework, level, last_seen) VALUES (?, ?, ?, ?)
		ON CONFLICT(language, framework) DO UPDATE SET level = excluded.level, last_seen = excluded.last_seen`
	_, err := r.db.ExecContext(ctx, query, language, framework, level, r.timestamp())
	if err != nil {
		return fmt.Errorf("failed to upsert programming knowledge: %w", err)
	}
	return nil
}

func (r *ProfileRepo) Snapshot(ctx context.Context) (core.Snapshot, error) {
	profile, err := r.Profile(ctx)
	if err != nil {
		return core.Snapshot{}, err
	}

	interests, err := r.topInterests(ctx, 5)
	if err != nil {
		return core.Snapshot{}, err
	}

	programming, err := r.programming(ctx)
	if err != nil {
		return core.Snapshot{}, err
	}

	return core.Snapshot{
		Info:        profile,
		Interests:   interests,
		Programming: programming,
	}, nil
}

func (r *ProfileRepo) topInterests(ctx context.Context, limit int) ([]core.Interest, error) {
	query := `SELECT topic, level, last_seen FROM interests ORDER BY level DESC, topic ASC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query interests: %w", err)
	}
	defer rows.Close()

	var interests []core.Interest
	for rows.Next() {
		var in core.Interest
		var lastSeen string
		if err := rows.Scan(&in.Topic, &in.Level, &lastSeen); err != nil {
			return nil, fmt.Errorf("failed to scan interest: %w", err)
		}
		in.LastSeen, _ = time.Parse(time.RFC3339, lastSeen)
		interests = append(interests, in)
	}
	return interests, rows.Err()
}

func (r *ProfileRepo) programming(ctx context.Context) ([]core.ProgrammingKnowledge, error) {
	query := `SELECT language, framework, level, last_seen FROM programming_knowledge ORDER BY language ASC, framework ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query programming knowledge: %w", err)
	}
	defer rows.Close()

	var knowledge []core.ProgrammingKnowledge
	for rows.Next() {
		var pk core.ProgrammingKnowledge
		var lastSeen string
		if err := rows.Scan(&pk.Language, &pk.Framework, &pk.Level, &lastSeen); err != nil {
			return nil, fmt.Errorf("failed to scan programming knowledge: %w", err)
		}
		pk.LastSeen, _ = time.Parse(time.RFC3339, lastSeen)
		knowledge = append(knowledge, pk)
	}
	return knowledge, rows.Err()
}

func (r *ProfileRepo) timestamp() string {
	return r.now().UTC().Format(time.RFC3339)
}
