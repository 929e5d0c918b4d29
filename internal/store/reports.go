package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type WeeklyReport struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"-"`
	Report    json.RawMessage `json:"report"`
	WeekStart *time.Time      `json:"week_start,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

func (s *Store) InsertWeeklyReport(ctx context.Context, r WeeklyReport) (uuid.UUID, error) {
	id := uuid.New()
	_, err := s.pool.Exec(ctx, `
		INSERT INTO weekly_reports (id, user_id, report, week_start)
		VALUES ($1, $2, $3, $4)`,
		id, r.UserID, r.Report, r.WeekStart,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert weekly report: %w", err)
	}
	return id, nil
}

func (s *Store) ListWeeklyReports(ctx context.Context, userID uuid.UUID, limit int) ([]WeeklyReport, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, report, week_start, created_at
		FROM weekly_reports WHERE user_id = $1
		ORDER BY created_at DESC LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list weekly reports: %w", err)
	}
	defer rows.Close()

	var reports []WeeklyReport
	for rows.Next() {
		var r WeeklyReport
		if err := rows.Scan(&r.ID, &r.UserID, &r.Report, &r.WeekStart, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan weekly report: %w", err)
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}
