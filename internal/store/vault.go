package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type VaultItem struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"-"`
	Content   string          `json:"content"`
	Category  string          `json:"category"`
	Tags      json.RawMessage `json:"tags"`
	Source    string          `json:"source"`
	CreatedAt time.Time       `json:"created_at"`
}

// CorpusEntry is one searchable piece of stored content. Kind is
// "vault", "idea" or "script" depending on the source table.
type CorpusEntry struct {
	ID      uuid.UUID `json:"id"`
	Kind    string    `json:"kind"`
	Content string    `json:"content"`
}

func (s *Store) InsertVaultItem(ctx context.Context, v VaultItem) (uuid.UUID, error) {
	id := uuid.New()
	tags := v.Tags
	if tags == nil {
		tags = json.RawMessage("[]")
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO vault_items (id, user_id, content, category, tags, source)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		id, v.UserID, v.Content, v.Category, tags, v.Source,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert vault item: %w", err)
	}
	return id, nil
}

func (s *Store) ListVaultItems(ctx context.Context, userID uuid.UUID, category string) ([]VaultItem, error) {
	q := psql.Select("id", "user_id", "content", "category", "tags", "source", "created_at").
		From("vault_items").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC")
	if category != "" {
		q = q.Where(squirrel.Eq{"category": category})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build vault query: %w", err)
	}

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list vault items: %w", err)
	}
	defer rows.Close()

	var items []VaultItem
	for rows.Next() {
		var v VaultItem
		if err := rows.Scan(&v.ID, &v.UserID, &v.Content, &v.Category, &v.Tags, &v.Source, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan vault item: %w", err)
		}
		items = append(items, v)
	}
	return items, rows.Err()
}

func (s *Store) DeleteVaultItem(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM vault_items WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete vault item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// VaultCorpus gathers the user's stored content across vault items,
// ideas and scripts for semantic search. Capped per table so the
// corpus stays within a single model context.
func (s *Store) VaultCorpus(ctx context.Context, userID uuid.UUID) ([]CorpusEntry, error) {
	const perTable = 100
	var corpus []CorpusEntry

	rows, err := s.pool.Query(ctx, `
		SELECT id, content FROM vault_items
		WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`,
		userID, perTable,
	)
	if err != nil {
		return nil, fmt.Errorf("query vault items: %w", err)
	}
	corpus, err = appendCorpus(corpus, rows, "vault")
	if err != nil {
		return nil, err
	}

	rows, err = s.pool.Query(ctx, `
		SELECT id, concat_ws(' — ', title, hook, description) FROM content_ideas
		WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`,
		userID, perTable,
	)
	if err != nil {
		return nil, fmt.Errorf("query content ideas: %w", err)
	}
	corpus, err = appendCorpus(corpus, rows, "idea")
	if err != nil {
		return nil, err
	}

	rows, err = s.pool.Query(ctx, `
		SELECT id, concat_ws(' — ', title, content::text) FROM scripts
		WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`,
		userID, perTable,
	)
	if err != nil {
		return nil, fmt.Errorf("query scripts: %w", err)
	}
	return appendCorpus(corpus, rows, "script")
}

func appendCorpus(corpus []CorpusEntry, rows pgx.Rows, kind string) ([]CorpusEntry, error) {
	defer rows.Close()
	for rows.Next() {
		var e CorpusEntry
		if err := rows.Scan(&e.ID, &e.Content); err != nil {
			return nil, fmt.Errorf("scan %s corpus entry: %w", kind, err)
		}
		e.Kind = kind
		corpus = append(corpus, e)
	}
	return corpus, rows.Err()
}
