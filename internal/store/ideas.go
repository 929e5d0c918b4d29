package store

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

type Idea struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"-"`
	Title       string    `json:"title"`
	Hook        string    `json:"hook"`
	Description string    `json:"description"`
	Platform    string    `json:"platform"`
	Format      string    `json:"format"`
	WhyItWorks  string    `json:"why_it_works"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// IdeaFilter narrows ListIdeas. Zero values mean no filter.
type IdeaFilter struct {
	Platform string
	Status   string
	Limit    int
}

func (s *Store) InsertIdea(ctx context.Context, idea Idea) (uuid.UUID, error) {
	id := uuid.New()
	_, err := s.pool.Exec(ctx, `
		INSERT INTO content_ideas (id, user_id, title, hook, description, platform, format, why_it_works, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		id, idea.UserID, idea.Title, idea.Hook, idea.Description,
		idea.Platform, idea.Format, idea.WhyItWorks, statusOr(idea.Status, "idea"),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert idea: %w", err)
	}
	return id, nil
}

func (s *Store) ListIdeas(ctx context.Context, userID uuid.UUID, f IdeaFilter) ([]Idea, error) {
	q := psql.Select("id", "user_id", "title", "hook", "description", "platform", "format", "why_it_works", "status", "created_at").
		From("content_ideas").
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
		return nil, fmt.Errorf("build ideas query: %w", err)
	}

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list ideas: %w", err)
	}
	defer rows.Close()

	var ideas []Idea
	for rows.Next() {
		var i Idea
		if err := rows.Scan(&i.ID, &i.UserID, &i.Title, &i.Hook, &i.Description,
			&i.Platform, &i.Format, &i.WhyItWorks, &i.Status, &i.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan idea: %w", err)
		}
		ideas = append(ideas, i)
	}
	return ideas, rows.Err()
}

func (s *Store) UpdateIdeaStatus(ctx context.Context, userID, id uuid.UUID, status string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE content_ideas SET status = $1 WHERE id = $2 AND user_id = $3`,
		status, id, userID,
	)
	if err != nil {
		return fmt.Errorf("update idea status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteIdea(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM content_ideas WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete idea: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func statusOr(status, fallback string) string {
	if status == "" {
		return fallback
	}
	return status
}
