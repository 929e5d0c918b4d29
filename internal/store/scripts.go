package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

type Script struct {
	ID           uuid.UUID       `json:"id"`
	UserID       uuid.UUID       `json:"-"`
	IdeaID       *uuid.UUID      `json:"idea_id,omitempty"`
	Title        string          `json:"title"`
	Platform     string          `json:"platform"`
	Duration     string          `json:"duration"`
	Content      json.RawMessage `json:"content"`
	HookVariants json.RawMessage `json:"hook_variants"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
}

type ScriptFilter struct {
	Platform string
	Status   string
	Limit    int
}

func (s *Store) InsertScript(ctx context.Context, sc Script) (uuid.UUID, error) {
	id := uuid.New()
	hookVariants := sc.HookVariants
	if hookVariants == nil {
		hookVariants = json.RawMessage("[]")
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO scripts (id, user_id, idea_id, title, platform, duration, content, hook_variants, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		id, sc.UserID, sc.IdeaID, sc.Title, sc.Platform, sc.Duration,
		sc.Content, hookVariants, statusOr(sc.Status, "draft"),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert script: %w", err)
	}
	return id, nil
}

func (s *Store) ListScripts(ctx context.Context, userID uuid.UUID, f ScriptFilter) ([]Script, error) {
	q := psql.Select("id", "user_id", "idea_id", "title", "platform", "duration", "content", "hook_variants", "status", "created_at").
		From("scripts").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC")
	if f.Platform != "" {
		q = q.Where(squirrel.Eq{"platform": f.Platform})
	}
	if f.Status != "" {
		q = q.Where(squirrel.Eq{"status": f.Status})
	}
	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build scripts query: %w", err)
	}

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list scripts: %w", err)
	}
	defer rows.Close()

	var scripts []Script
	for rows.Next() {
		var sc Script
		if err := rows.Scan(&sc.ID, &sc.UserID, &sc.IdeaID, &sc.Title, &sc.Platform,
			&sc.Duration, &sc.Content, &sc.HookVariants, &sc.Status, &sc.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan script: %w", err)
		}
		scripts = append(scripts, sc)
	}
	return scripts, rows.Err()
}

func (s *Store) DeleteScript(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM scripts WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete script: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
