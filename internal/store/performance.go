package store

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

type PerformanceLog struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"-"`
	Platform   string     `json:"platform"`
	ContentRef string     `json:"content_ref"`
	Views      int64      `json:"views"`
	Likes      int64      `json:"likes"`
	Comments   int64      `json:"comments"`
	Shares     int64      `json:"shares"`
	Saves      int64      `json:"saves"`
	Follows    int64      `json:"follows"`
	PostedAt   *time.Time `json:"posted_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (s *Store) InsertPerformanceLog(ctx context.Context, p PerformanceLog) (uuid.UUID, error) {
	id := uuid.New()
	_, err := s.pool.Exec(ctx, `
		INSERT INTO performance_logs (id, user_id, platform, content_ref, views, likes, comments, shares, saves, follows, posted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		id, p.UserID, p.Platform, p.ContentRef,
		p.Views, p.Likes, p.Comments, p.Shares, p.Saves, p.Follows, p.PostedAt,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert performance log: %w", err)
	}
	return id, nil
}

func (s *Store) ListPerformanceLogs(ctx context.Context, userID uuid.UUID, platform string) ([]PerformanceLog, error) {
	q := psql.Select("id", "user_id", "platform", "content_ref", "views", "likes", "comments", "shares", "saves", "follows", "posted_at", "created_at").
		From("performance_logs").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC")
	if platform != "" {
		q = q.Where(squirrel.Eq{"platform": platform})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build performance query: %w", err)
	}

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list performance logs: %w", err)
	}
	defer rows.Close()

	var logs []PerformanceLog
	for rows.Next() {
		var p PerformanceLog
		if err := rows.Scan(&p.ID, &p.UserID, &p.Platform, &p.ContentRef,
			&p.Views, &p.Likes, &p.Comments, &p.Shares, &p.Saves, &p.Follows,
			&p.PostedAt, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan performance log: %w", err)
		}
		logs = append(logs, p)
	}
	return logs, rows.Err()
}
