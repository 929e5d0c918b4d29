package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// VoiceProfile is the per-user Voice DNA record. At most one row per
// user; voice training overwrites it in place.
type VoiceProfile struct {
	UserID      uuid.UUID       `json:"-"`
	VoiceDNA    json.RawMessage `json:"voice_dna"`
	Summary     string          `json:"summary"`
	SampleCount int             `json:"sample_count"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// UpsertVoiceProfile writes the profile, last write wins. Two rapid
// training calls from the same user race on this upsert, which is
// accepted behaviour.
func (s *Store) UpsertVoiceProfile(ctx context.Context, p VoiceProfile) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO voice_profiles (user_id, voice_dna, summary, sample_count, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (user_id) DO UPDATE
		SET voice_dna = EXCLUDED.voice_dna,
		    summary = EXCLUDED.summary,
		    sample_count = EXCLUDED.sample_count,
		    updated_at = now()`,
		p.UserID, p.VoiceDNA, p.Summary, p.SampleCount,
	)
	if err != nil {
		return fmt.Errorf("upsert voice_profile: %w", err)
	}
	return nil
}

// GetVoiceProfile returns the user's profile, or nil if the user has
// never trained one. A missing profile is not an error.
func (s *Store) GetVoiceProfile(ctx context.Context, userID uuid.UUID) (*VoiceProfile, error) {
	var p VoiceProfile
	err := s.pool.QueryRow(ctx, `
		SELECT user_id, voice_dna, summary, sample_count, updated_at
		FROM voice_profiles WHERE user_id = $1`,
		userID,
	).Scan(&p.UserID, &p.VoiceDNA, &p.Summary, &p.SampleCount, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get voice_profile: %w", err)
	}
	return &p, nil
}
