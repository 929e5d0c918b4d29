package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/riffosx-beep/riffos/internal/events"
	"github.com/riffosx-beep/riffos/internal/store"
)

// Generator produces raw model text for a system+user prompt pair. The
// model is a black box: slow, occasionally malformed, occasionally
// down. Handlers never see transport details.
type Generator interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

// Store is the slice of persistence the AI route needs. Narrow on
// purpose so handlers are testable with fakes.
type Store interface {
	GetVoiceProfile(ctx context.Context, userID uuid.UUID) (*store.VoiceProfile, error)
	UpsertVoiceProfile(ctx context.Context, p store.VoiceProfile) error
	InsertIdea(ctx context.Context, idea store.Idea) (uuid.UUID, error)
	InsertScript(ctx context.Context, sc store.Script) (uuid.UUID, error)
	InsertWeeklyReport(ctx context.Context, r store.WeeklyReport) (uuid.UUID, error)
	VaultCorpus(ctx context.Context, userID uuid.UUID) ([]store.CorpusEntry, error)
}

// Publisher emits artifact lifecycle events. Nil-able: the service
// runs fine without an event bus.
type Publisher interface {
	Publish(subject string, data any) error
}

// StatusError carries the HTTP status a handler failure maps to. The
// dashboard reads only the message string.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string { return e.Message }

func badRequest(format string, args ...any) *StatusError {
	return &StatusError{Status: http.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

func internalError(format string, args ...any) *StatusError {
	return &StatusError{Status: http.StatusInternalServerError, Message: fmt.Sprintf(format, args...)}
}

// request carries the per-request context every handler receives: the
// authenticated user, the voice decoration (computed once), and the
// raw body for per-type parameter decoding.
type request struct {
	userID uuid.UUID
	voice  string
	params json.RawMessage
}

type handlerFunc func(ctx context.Context, req *request) (map[string]any, error)

// Service is the multiplexed AI route: one registry of typed handlers,
// each owning its parameter contract, prompt templates, response
// shape, and persistence side effects.
type Service struct {
	store    Store
	gen      Generator
	events   Publisher
	logger   *slog.Logger
	handlers map[string]handlerFunc
}

func NewService(st Store, gen Generator, ev Publisher, logger *slog.Logger) *Service {
	s := &Service{
		store:  st,
		gen:    gen,
		events: ev,
		logger: logger,
	}
	s.handlers = map[string]handlerFunc{
		"voice-train":         s.voiceTrain,
		"ideas":               s.ideas,
		"script":              s.script,
		"refine-script":       s.refineScript,
		"hook-optimize":       s.hookOptimize,
		"framework-suggest":   s.frameworkSuggest,
		"series":              s.series,
		"repurpose":           s.repurpose,
		"calendar-autofill":   s.calendarAutofill,
		"content-autopsy":     s.contentAutopsy,
		"predict-performance": s.predictPerformance,
		"analyze-performance": s.analyzePerformance,
		"cta-optimize":        s.ctaOptimize,
		"lead-magnet":         s.leadMagnet,
		"sales-script":        s.salesScript,
		"vault-tag":           s.vaultTag,
		"vault-search":        s.vaultSearch,
	}
	return s
}

// Handle dispatches one request body for an authenticated user.
// Unknown types are rejected before any model call or profile read.
func (s *Service) Handle(ctx context.Context, userID uuid.UUID, body []byte) (map[string]any, error) {
	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, badRequest("Invalid request body")
	}

	handler, ok := s.handlers[envelope.Type]
	if !ok {
		return nil, badRequest("Unknown action type: %s", envelope.Type)
	}

	req := &request{
		userID: userID,
		voice:  s.voiceContext(ctx, userID),
		params: body,
	}

	start := time.Now()
	result, err := handler(ctx, req)
	if err != nil {
		return nil, err
	}
	s.logger.Info("ai request served",
		"type", envelope.Type,
		"user", userID,
		"duration", time.Since(start),
	)
	return result, nil
}

// generate invokes the model, converting transport failures into the
// 500 envelope the dashboard expects.
func (s *Service) generate(ctx context.Context, system, user string) (string, error) {
	raw, err := s.gen.Generate(ctx, system, user)
	if err != nil {
		s.logger.Error("model call failed", "error", err)
		return "", internalError("%s", err.Error())
	}
	return raw, nil
}

// parseArtifact normalizes raw model text into JSON. Total failure is
// a handler-specific 500 naming the artifact — never a guessed or
// half-parsed object.
func parseArtifact(raw, artifact string) (any, error) {
	v, err := SafeParseJSON(raw)
	if err != nil || v == nil {
		return nil, internalError("Failed to parse %s", artifact)
	}
	return v, nil
}

// asObject narrows a parsed artifact to a JSON object.
func asObject(v any, artifact string) (map[string]any, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, internalError("Failed to parse %s", artifact)
	}
	return obj, nil
}

// publish emits an artifact event. Publish failures are logged and
// never fail the request.
func (s *Service) publish(subject, reqType string, userID uuid.UUID, persisted bool) {
	if s.events == nil {
		return
	}
	evt := events.ArtifactEvent{
		UserID:    userID.String(),
		Type:      reqType,
		Persisted: persisted,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.events.Publish(subject, evt); err != nil {
		s.logger.Warn("failed to publish artifact event", "subject", subject, "error", err)
	}
}
