package ai

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/riffosx-beep/riffos/internal/store"
)

const voiceInstruction = `

VOICE PROFILE — the creator has a trained Voice DNA. Every piece of
content you write must sound like them, not like a marketer. Match
their tone, sentence structure, vocabulary, and humor style exactly.
Voice DNA:
%s`

// RenderVoiceContext renders the system-prompt decoration for a
// trained voice profile. A nil profile (user never ran voice training)
// yields the empty string — that is the expected case, not an error.
func RenderVoiceContext(p *store.VoiceProfile) string {
	if p == nil || len(p.VoiceDNA) == 0 {
		return ""
	}
	return fmt.Sprintf(voiceInstruction, string(p.VoiceDNA))
}

// voiceContext fetches and renders the caller's voice decoration.
// Called once per incoming request; the result is reused by whichever
// handler runs. A read failure degrades to no decoration rather than
// failing the request.
func (s *Service) voiceContext(ctx context.Context, userID uuid.UUID) string {
	profile, err := s.store.GetVoiceProfile(ctx, userID)
	if err != nil {
		s.logger.Warn("failed to load voice profile", "user", userID, "error", err)
		return ""
	}
	return RenderVoiceContext(profile)
}
