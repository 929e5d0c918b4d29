package store

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

type CalendarEntry struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"-"`
	ScheduledDate time.Time `json:"scheduled_date"`
	Slot          string    `json:"slot"`
	Platform      string    `json:"platform"`
	ContentType   string    `json:"content_type"`
	Title         string    `json:"title"`
	Hook          string    `json:"hook"`
	Notes         string    `json:"notes"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

type CalendarFilter struct {
	From *time.Time
	To   *time.Time
}

func (s *Store) InsertCalendarEntry(ctx context.Context, e CalendarEntry) (uuid.UUID, error) {
	id := uuid.New()
	_, err := s.pool.Exec(ctx, `
		INSERT INTO calendar_entries (id, user_id, scheduled_date, slot, platform, content_type, title, hook, notes, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		id, e.UserID, e.ScheduledDate, e.Slot, e.Platform, e.ContentType,
		e.Title, e.Hook, e.Notes, statusOr(e.Status, "planned"),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert calendar entry: %w", err)
	}
	return id, nil
}

func (s *Store) ListCalendarEntries(ctx context.Context, userID uuid.UUID, f CalendarFilter) ([]CalendarEntry, error) {
	q := psql.Select("id", "user_id", "scheduled_date", "slot", "platform", "content_type", "title", "hook", "notes", "status", "created_at").
		From("calendar_entries").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("scheduled_date ASC")
	if f.From != nil {
		q = q.Where(squirrel.GtOrEq{"scheduled_date": *f.From})
	}
	if f.To != nil {
		q = q.Where(squirrel.LtOrEq{"scheduled_date": *f.To})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build calendar query: %w", err)
	}

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list calendar entries: %w", err)
	}
	defer rows.Close()

	var entries []CalendarEntry
	for rows.Next() {
		var e CalendarEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.ScheduledDate, &e.Slot, &e.Platform,
			&e.ContentType, &e.Title, &e.Hook, &e.Notes, &e.Status, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan calendar entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) UpdateCalendarEntryStatus(ctx context.Context, userID, id uuid.UUID, status string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE calendar_entries SET status = $1 WHERE id = $2 AND user_id = $3`,
		status, id, userID,
	)
	if err != nil {
		return fmt.Errorf("update calendar entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteCalendarEntry(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM calendar_entries WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete calendar entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
