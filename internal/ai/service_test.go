package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/riffosx-beep/riffos/internal/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeStore struct {
	profiles         map[uuid.UUID]store.VoiceProfile
	ideas            []store.Idea
	scripts          []store.Script
	reports          []store.WeeklyReport
	corpus           []store.CorpusEntry
	getProfileCalls  int
	failUpsert       bool
	failIdeaInsert   bool
	failScriptInsert bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{profiles: make(map[uuid.UUID]store.VoiceProfile)}
}

func (f *fakeStore) GetVoiceProfile(_ context.Context, userID uuid.UUID) (*store.VoiceProfile, error) {
	f.getProfileCalls++
	p, ok := f.profiles[userID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (f *fakeStore) UpsertVoiceProfile(_ context.Context, p store.VoiceProfile) error {
	if f.failUpsert {
		return errors.New("db down")
	}
	f.profiles[p.UserID] = p
	return nil
}

func (f *fakeStore) InsertIdea(_ context.Context, idea store.Idea) (uuid.UUID, error) {
	if f.failIdeaInsert {
		return uuid.Nil, errors.New("db down")
	}
	f.ideas = append(f.ideas, idea)
	return uuid.New(), nil
}

func (f *fakeStore) InsertScript(_ context.Context, sc store.Script) (uuid.UUID, error) {
	if f.failScriptInsert {
		return uuid.Nil, errors.New("db down")
	}
	f.scripts = append(f.scripts, sc)
	return uuid.New(), nil
}

func (f *fakeStore) InsertWeeklyReport(_ context.Context, r store.WeeklyReport) (uuid.UUID, error) {
	f.reports = append(f.reports, r)
	return uuid.New(), nil
}

func (f *fakeStore) VaultCorpus(_ context.Context, _ uuid.UUID) ([]store.CorpusEntry, error) {
	return f.corpus, nil
}

type fakeGen struct {
	response   string
	err        error
	calls      int
	lastSystem string
	lastUser   string
}

func (f *fakeGen) Generate(_ context.Context, system, user string) (string, error) {
	f.calls++
	f.lastSystem = system
	f.lastUser = user
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

type fakePublisher struct {
	published []string
}

func (f *fakePublisher) Publish(subject string, _ any) error {
	f.published = append(f.published, subject)
	return nil
}

func newTestService(st *fakeStore, gen *fakeGen) *Service {
	return NewService(st, gen, &fakePublisher{}, discardLogger())
}

func wantStatusError(t *testing.T, err error, status int, contains string) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %T: %v", err, err)
	}
	if se.Status != status {
		t.Errorf("expected status %d, got %d (%s)", status, se.Status, se.Message)
	}
	if contains != "" && !strings.Contains(se.Message, contains) {
		t.Errorf("expected message containing %q, got %q", contains, se.Message)
	}
}

func TestHandle_UnknownType(t *testing.T) {
	gen := &fakeGen{}
	svc := newTestService(newFakeStore(), gen)

	_, err := svc.Handle(context.Background(), uuid.New(), []byte(`{"type":"make-me-famous"}`))
	wantStatusError(t, err, http.StatusBadRequest, "Unknown action type: make-me-famous")

	if gen.calls != 0 {
		t.Errorf("model must not be invoked for unknown type, got %d calls", gen.calls)
	}
}

func TestHandle_InvalidBody(t *testing.T) {
	svc := newTestService(newFakeStore(), &fakeGen{})

	_, err := svc.Handle(context.Background(), uuid.New(), []byte(`{{{`))
	wantStatusError(t, err, http.StatusBadRequest, "")
}

func TestHandle_VoiceContextInjectedOnce(t *testing.T) {
	st := newFakeStore()
	userID := uuid.New()
	st.profiles[userID] = store.VoiceProfile{
		UserID:   userID,
		VoiceDNA: json.RawMessage(`{"tone":{"primary":"dry"}}`),
	}
	gen := &fakeGen{response: `{"verdict":"fine","what_worked":[],"what_hurt":[],"key_lesson":"x","replicable_formula":"y"}`}
	svc := newTestService(st, gen)

	_, err := svc.Handle(context.Background(), userID, []byte(`{"type":"content-autopsy","content":"my post"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(gen.lastSystem, `"tone":{"primary":"dry"}`) {
		t.Error("expected voice DNA injected into system prompt")
	}
	if st.getProfileCalls != 1 {
		t.Errorf("expected voice profile fetched exactly once, got %d", st.getProfileCalls)
	}
}

func TestHandle_NoProfileMeansNoDecoration(t *testing.T) {
	gen := &fakeGen{response: `{"verdict":"fine"}`}
	svc := newTestService(newFakeStore(), gen)

	_, err := svc.Handle(context.Background(), uuid.New(), []byte(`{"type":"content-autopsy","content":"my post"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(gen.lastSystem, "VOICE PROFILE") {
		t.Error("expected no voice decoration for untrained user")
	}
}

func TestHandle_GeneratorFailure(t *testing.T) {
	gen := &fakeGen{err: errors.New("api error 529: overloaded")}
	svc := newTestService(newFakeStore(), gen)

	_, err := svc.Handle(context.Background(), uuid.New(), []byte(`{"type":"content-autopsy","content":"my post"}`))
	wantStatusError(t, err, http.StatusInternalServerError, "overloaded")
}

func TestHandle_ParseFailure(t *testing.T) {
	gen := &fakeGen{response: "I'm sorry, I can't produce JSON today"}
	svc := newTestService(newFakeStore(), gen)

	_, err := svc.Handle(context.Background(), uuid.New(), []byte(`{"type":"content-autopsy","content":"my post"}`))
	wantStatusError(t, err, http.StatusInternalServerError, "Failed to parse autopsy")
}

func TestVoiceTrain_RequiresSamples(t *testing.T) {
	gen := &fakeGen{}
	svc := newTestService(newFakeStore(), gen)

	_, err := svc.Handle(context.Background(), uuid.New(), []byte(`{"type":"voice-train","samples":[]}`))
	wantStatusError(t, err, http.StatusBadRequest, "sample")

	if gen.calls != 0 {
		t.Errorf("model must not be invoked without samples, got %d calls", gen.calls)
	}
}

func TestVoiceTrain_UpsertSemantics(t *testing.T) {
	st := newFakeStore()
	gen := &fakeGen{response: `{"voice_dna":{"tone":{"primary":"dry"}},"summary":"terse"}`}
	svc := newTestService(st, gen)
	userID := uuid.New()

	body := []byte(`{"type":"voice-train","samples":["sample one","sample two","sample three"]}`)
	result, err := svc.Handle(context.Background(), userID, body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	profile, ok := result["voiceProfile"].(map[string]any)
	if !ok {
		t.Fatalf("expected voiceProfile object, got %T", result["voiceProfile"])
	}
	if profile["sample_count"] != 3 {
		t.Errorf("expected sample_count 3, got %v", profile["sample_count"])
	}

	// Retrain with a different sample set: one row per user, overwritten.
	gen.response = `{"voice_dna":{"tone":{"primary":"warm"}},"summary":"warmer"}`
	_, err = svc.Handle(context.Background(), userID, []byte(`{"type":"voice-train","samples":["new sample"]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(st.profiles) != 1 {
		t.Fatalf("expected exactly one stored profile, got %d", len(st.profiles))
	}
	stored := st.profiles[userID]
	if stored.SampleCount != 1 {
		t.Errorf("expected sample_count 1 after retrain, got %d", stored.SampleCount)
	}
	if stored.Summary != "warmer" {
		t.Errorf("expected overwritten summary, got %q", stored.Summary)
	}
}

func TestVoiceTrain_UpsertFailureSurfaces(t *testing.T) {
	st := newFakeStore()
	st.failUpsert = true
	gen := &fakeGen{response: `{"voice_dna":{},"summary":"x"}`}
	svc := newTestService(st, gen)

	_, err := svc.Handle(context.Background(), uuid.New(), []byte(`{"type":"voice-train","samples":["s"]}`))
	wantStatusError(t, err, http.StatusInternalServerError, "Failed to save voice profile")
}

func TestIdeas_CountPassthrough(t *testing.T) {
	st := newFakeStore()
	// Asked for 10, model returned 3: the 3 come back unpadded and all
	// 3 are inserted.
	gen := &fakeGen{response: `{"ideas":[
		{"title":"a","hook":"h1","description":"d1","format":"text post","why_it_works":"w1"},
		{"title":"b","hook":"h2","description":"d2","format":"carousel","why_it_works":"w2"},
		{"title":"c","hook":"h3","description":"d3","format":"short video","why_it_works":"w3"}
	]}`}
	svc := newTestService(st, gen)

	result, err := svc.Handle(context.Background(), uuid.New(), []byte(`{"type":"ideas","count":10,"niche":"coaching"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	items, ok := result["ideas"].([]any)
	if !ok {
		t.Fatalf("expected ideas array, got %T", result["ideas"])
	}
	if len(items) != 3 {
		t.Errorf("expected 3 ideas returned as-is, got %d", len(items))
	}
	if len(st.ideas) != 3 {
		t.Errorf("expected 3 ideas inserted, got %d", len(st.ideas))
	}
	if st.ideas[0].Platform != "LinkedIn" {
		t.Errorf("expected default platform LinkedIn, got %q", st.ideas[0].Platform)
	}
}

func TestIdeas_InvalidFormat(t *testing.T) {
	gen := &fakeGen{response: `{"not_ideas":"at all"}`}
	svc := newTestService(newFakeStore(), gen)

	_, err := svc.Handle(context.Background(), uuid.New(), []byte(`{"type":"ideas"}`))
	wantStatusError(t, err, http.StatusInternalServerError, "Invalid ideas format")
}

func TestIdeas_InsertFailureSurfaces(t *testing.T) {
	st := newFakeStore()
	st.failIdeaInsert = true
	gen := &fakeGen{response: `{"ideas":[{"title":"a"}]}`}
	svc := newTestService(st, gen)

	_, err := svc.Handle(context.Background(), uuid.New(), []byte(`{"type":"ideas"}`))
	wantStatusError(t, err, http.StatusInternalServerError, "Failed to save ideas")
}

func TestScript_InsertFailureSwallowed(t *testing.T) {
	st := newFakeStore()
	st.failScriptInsert = true
	gen := &fakeGen{response: `{"script":{"title":"t","hook":"h","body":"b","cta":"c","hook_variants":[]}}`}
	svc := newTestService(st, gen)

	result, err := svc.Handle(context.Background(), uuid.New(), []byte(`{"type":"script","idea":"why most creators quit"}`))
	if err != nil {
		t.Fatalf("expected script returned despite insert failure, got %v", err)
	}

	script, ok := result["script"].(map[string]any)
	if !ok {
		t.Fatalf("expected script object, got %T", result["script"])
	}
	if script["title"] != "t" {
		t.Errorf("expected title t, got %v", script["title"])
	}
}

func TestScript_RequiresIdea(t *testing.T) {
	svc := newTestService(newFakeStore(), &fakeGen{})

	_, err := svc.Handle(context.Background(), uuid.New(), []byte(`{"type":"script"}`))
	wantStatusError(t, err, http.StatusBadRequest, "idea")
}

func TestHookOptimize_EndToEnd(t *testing.T) {
	stub := map[string]any{
		"original": "whatever the model decided to echo",
		"scores": map[string]any{
			"attention": 6, "curiosity": 5, "specificity": 8, "emotion": 4, "clarity": 7,
		},
		"overall_score": 6,
		"analysis":      "specific but emotionally flat",
		"rewrites": []map[string]any{
			{"style": "curiosity gap", "hook": "r1", "explanation": "e1", "predicted_score": 7},
			{"style": "bold claim", "hook": "r2", "explanation": "e2", "predicted_score": 6},
			{"style": "contrarian", "hook": "r3", "explanation": "e3", "predicted_score": 5},
			{"style": "story open", "hook": "r4", "explanation": "e4", "predicted_score": 6},
			{"style": "specific number", "hook": "r5", "explanation": "e5", "predicted_score": 8},
		},
	}
	raw, _ := json.Marshal(stub)
	gen := &fakeGen{response: string(raw)}
	svc := newTestService(newFakeStore(), gen)

	body := []byte(`{"type":"hook-optimize","hook":"I made $10k last month","platform":"LinkedIn","niche":"coaching"}`)
	result, err := svc.Handle(context.Background(), uuid.New(), body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	analysis, ok := result["hookAnalysis"].(map[string]any)
	if !ok {
		t.Fatalf("expected hookAnalysis object, got %T", result["hookAnalysis"])
	}
	if analysis["original"] != "I made $10k last month" {
		t.Errorf("expected original to echo the submitted hook, got %v", analysis["original"])
	}

	rewrites, ok := analysis["rewrites"].([]any)
	if !ok {
		t.Fatalf("expected rewrites array, got %T", analysis["rewrites"])
	}
	if len(rewrites) != 5 {
		t.Fatalf("expected exactly 5 rewrites, got %d", len(rewrites))
	}
	for i, raw := range rewrites {
		rw, ok := raw.(map[string]any)
		if !ok {
			t.Fatalf("rewrite %d is not an object", i)
		}
		for _, key := range []string{"style", "hook", "explanation", "predicted_score"} {
			if _, ok := rw[key]; !ok {
				t.Errorf("rewrite %d missing %q", i, key)
			}
		}
	}
}

func TestVaultSearch_EmptyVaultSkipsModel(t *testing.T) {
	gen := &fakeGen{}
	svc := newTestService(newFakeStore(), gen)

	result, err := svc.Handle(context.Background(), uuid.New(), []byte(`{"type":"vault-search","query":"posts about pricing"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	results, ok := result["results"].([]any)
	if !ok || len(results) != 0 {
		t.Errorf("expected empty results array, got %v", result["results"])
	}
	if result["message"] != "No content found in your vault yet." {
		t.Errorf("expected empty-vault message, got %v", result["message"])
	}
	if gen.calls != 0 {
		t.Errorf("model must not be invoked for an empty vault, got %d calls", gen.calls)
	}
}

func TestVaultSearch_WithCorpus(t *testing.T) {
	st := newFakeStore()
	entryID := uuid.New()
	st.corpus = []store.CorpusEntry{
		{ID: entryID, Kind: "vault", Content: "Pricing tiers breakdown"},
	}
	gen := &fakeGen{response: fmt.Sprintf(
		`{"results":[{"id":"%s","kind":"vault","snippet":"Pricing tiers","relevance":0.9,"why_relevant":"direct match"}],"suggestion":"turn this into a carousel"}`,
		entryID,
	)}
	svc := newTestService(st, gen)

	result, err := svc.Handle(context.Background(), uuid.New(), []byte(`{"type":"vault-search","query":"pricing"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	results, ok := result["results"].([]any)
	if !ok || len(results) != 1 {
		t.Fatalf("expected 1 result, got %v", result["results"])
	}
	if result["suggestion"] != "turn this into a carousel" {
		t.Errorf("unexpected suggestion: %v", result["suggestion"])
	}
	if !strings.Contains(gen.lastUser, "Pricing tiers breakdown") {
		t.Error("expected corpus rendered into user prompt")
	}
	if !strings.Contains(gen.lastUser, entryID.String()) {
		t.Error("expected corpus entry id rendered into user prompt")
	}
}

func TestAnalyzePerformance_PersistsReport(t *testing.T) {
	st := newFakeStore()
	gen := &fakeGen{response: `{"summary":"solid week","wins":["carousel"],"underperformers":[],"patterns":[],"recommendations":["more carousels"],"next_week_focus":"carousels"}`}
	svc := newTestService(st, gen)

	result, err := svc.Handle(context.Background(), uuid.New(),
		[]byte(`{"type":"analyze-performance","metrics":[{"platform":"LinkedIn","views":1200}]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := result["analysis"].(map[string]any); !ok {
		t.Fatalf("expected analysis object, got %T", result["analysis"])
	}
	if len(st.reports) != 1 {
		t.Errorf("expected 1 weekly report persisted, got %d", len(st.reports))
	}
}

func TestAnalyzePerformance_RequiresMetrics(t *testing.T) {
	svc := newTestService(newFakeStore(), &fakeGen{})

	_, err := svc.Handle(context.Background(), uuid.New(), []byte(`{"type":"analyze-performance"}`))
	wantStatusError(t, err, http.StatusBadRequest, "Metrics")
}

func TestSeries_FlattensEnvelope(t *testing.T) {
	gen := &fakeGen{response: `{
		"seriesTitle":"The 90-Day Wall",
		"narrativeArc":"from doubt to system",
		"series":[{"day":1,"title":"d1","hook":"h1","outline":"o1","cliffhanger":"c1"}],
		"crossPromotion":"reference day 1",
		"emailTieIn":"recap email"
	}`}
	svc := newTestService(newFakeStore(), gen)

	result, err := svc.Handle(context.Background(), uuid.New(), []byte(`{"type":"series","topic":"creator burnout","days":3}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result["seriesTitle"] != "The 90-Day Wall" {
		t.Errorf("expected seriesTitle, got %v", result["seriesTitle"])
	}
	if _, ok := result["series"].([]any); !ok {
		t.Errorf("expected series array, got %T", result["series"])
	}
	for _, key := range []string{"narrativeArc", "crossPromotion", "emailTieIn"} {
		if _, ok := result[key]; !ok {
			t.Errorf("expected %q in envelope", key)
		}
	}
}

func TestScript_UnwrapsNestedEnvelope(t *testing.T) {
	st := newFakeStore()
	gen := &fakeGen{response: `{"script":{"title":"wrapped","hook":"h","body":"b","cta":"c"}}`}
	svc := newTestService(st, gen)

	result, err := svc.Handle(context.Background(), uuid.New(), []byte(`{"type":"script","idea":"an idea"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	script := result["script"].(map[string]any)
	if script["title"] != "wrapped" {
		t.Errorf("expected unwrapped script, got %v", script)
	}
	if len(st.scripts) != 1 {
		t.Fatalf("expected 1 script persisted, got %d", len(st.scripts))
	}
	if st.scripts[0].Title != "wrapped" {
		t.Errorf("expected persisted title wrapped, got %q", st.scripts[0].Title)
	}
}

func TestPublishedEvents(t *testing.T) {
	st := newFakeStore()
	gen := &fakeGen{response: `{"voice_dna":{},"summary":"x"}`}
	pub := &fakePublisher{}
	svc := NewService(st, gen, pub, discardLogger())

	_, err := svc.Handle(context.Background(), uuid.New(), []byte(`{"type":"voice-train","samples":["s"]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(pub.published) != 1 || pub.published[0] != "creator.voice.trained" {
		t.Errorf("expected creator.voice.trained published, got %v", pub.published)
	}
}
