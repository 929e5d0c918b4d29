package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/riffosx-beep/riffos/internal/events"
	"github.com/riffosx-beep/riffos/internal/store"
)

// unwrap returns obj[key] when the model nested the artifact inside a
// single-key envelope, otherwise obj itself.
func unwrap(obj map[string]any, key string) map[string]any {
	if inner, ok := obj[key].(map[string]any); ok {
		return inner
	}
	return obj
}

func strField(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return s
}

type voiceTrainParams struct {
	Samples []string `json:"samples"`
}

func (s *Service) voiceTrain(ctx context.Context, req *request) (map[string]any, error) {
	var p voiceTrainParams
	if err := json.Unmarshal(req.params, &p); err != nil {
		return nil, badRequest("Invalid request body")
	}
	if len(p.Samples) == 0 {
		return nil, badRequest("At least one writing sample is required")
	}

	raw, err := s.generate(ctx, voiceTrainSystem, voiceTrainUser(p.Samples))
	if err != nil {
		return nil, err
	}
	v, err := parseArtifact(raw, "voice profile")
	if err != nil {
		return nil, err
	}
	obj, err := asObject(v, "voice profile")
	if err != nil {
		return nil, err
	}

	dna, err := json.Marshal(obj["voice_dna"])
	if err != nil {
		return nil, internalError("Failed to parse voice profile")
	}

	profile := store.VoiceProfile{
		UserID:      req.userID,
		VoiceDNA:    dna,
		Summary:     strField(obj, "summary"),
		SampleCount: len(p.Samples),
	}
	if err := s.store.UpsertVoiceProfile(ctx, profile); err != nil {
		s.logger.Error("voice profile upsert failed", "user", req.userID, "error", err)
		return nil, internalError("Failed to save voice profile")
	}
	s.publish(events.SubjectVoiceTrained, "voice-train", req.userID, true)

	return map[string]any{"voiceProfile": map[string]any{
		"voice_dna":    obj["voice_dna"],
		"summary":      profile.Summary,
		"sample_count": profile.SampleCount,
	}}, nil
}

type ideasParams struct {
	Platform string `json:"platform"`
	Goal     string `json:"goal"`
	Niche    string `json:"niche"`
	Count    int    `json:"count"`
}

func (s *Service) ideas(ctx context.Context, req *request) (map[string]any, error) {
	p := ideasParams{Platform: "LinkedIn", Goal: "audience growth", Count: 10}
	if err := json.Unmarshal(req.params, &p); err != nil {
		return nil, badRequest("Invalid request body")
	}

	raw, err := s.generate(ctx, ideasSystem+req.voice, ideasUser(p.Platform, p.Goal, p.Niche, p.Count))
	if err != nil {
		return nil, err
	}
	v, err := parseArtifact(raw, "ideas")
	if err != nil {
		return nil, err
	}

	// The model may return the array bare or wrapped in {"ideas": [...]}.
	// Whatever count comes back is returned as-is: no truncation, no
	// padding to the requested count.
	var items []any
	switch t := v.(type) {
	case []any:
		items = t
	case map[string]any:
		items, _ = t["ideas"].([]any)
	}
	if items == nil {
		return nil, internalError("Invalid ideas format")
	}

	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		_, err := s.store.InsertIdea(ctx, store.Idea{
			UserID:      req.userID,
			Title:       strField(obj, "title"),
			Hook:        strField(obj, "hook"),
			Description: strField(obj, "description"),
			Platform:    p.Platform,
			Format:      strField(obj, "format"),
			WhyItWorks:  strField(obj, "why_it_works"),
		})
		if err != nil {
			s.logger.Error("idea insert failed", "user", req.userID, "error", err)
			return nil, internalError("Failed to save ideas")
		}
	}
	s.publish(events.SubjectArtifactGenerated, "ideas", req.userID, true)

	return map[string]any{"ideas": items}, nil
}

type scriptParams struct {
	Idea     string `json:"idea"`
	Platform string `json:"platform"`
	Duration string `json:"duration"`
	Tone     string `json:"tone"`
}

func (s *Service) script(ctx context.Context, req *request) (map[string]any, error) {
	p := scriptParams{Platform: "LinkedIn", Duration: "60 seconds", Tone: "confident"}
	if err := json.Unmarshal(req.params, &p); err != nil {
		return nil, badRequest("Invalid request body")
	}
	if p.Idea == "" {
		return nil, badRequest("An idea is required to write a script")
	}

	raw, err := s.generate(ctx, scriptSystem+req.voice, scriptUser(p.Idea, p.Platform, p.Duration, p.Tone))
	if err != nil {
		return nil, err
	}
	v, err := parseArtifact(raw, "script")
	if err != nil {
		return nil, err
	}
	obj, err := asObject(v, "script")
	if err != nil {
		return nil, err
	}
	obj = unwrap(obj, "script")

	// Insert failure is logged, not surfaced: the creator still gets the
	// script even if saving it failed.
	content, marshalErr := json.Marshal(obj)
	hookVariants, _ := json.Marshal(obj["hook_variants"])
	if marshalErr == nil {
		_, err = s.store.InsertScript(ctx, store.Script{
			UserID:       req.userID,
			Title:        strField(obj, "title"),
			Platform:     p.Platform,
			Duration:     p.Duration,
			Content:      content,
			HookVariants: hookVariants,
		})
		if err != nil {
			s.logger.Error("script insert failed", "user", req.userID, "error", err)
		} else {
			s.publish(events.SubjectArtifactGenerated, "script", req.userID, true)
		}
	}

	return map[string]any{"script": obj}, nil
}

type refineScriptParams struct {
	Script   string `json:"script"`
	Feedback string `json:"feedback"`
}

func (s *Service) refineScript(ctx context.Context, req *request) (map[string]any, error) {
	var p refineScriptParams
	if err := json.Unmarshal(req.params, &p); err != nil {
		return nil, badRequest("Invalid request body")
	}
	if p.Script == "" {
		return nil, badRequest("A script is required")
	}
	if p.Feedback == "" {
		return nil, badRequest("Feedback is required to refine a script")
	}

	raw, err := s.generate(ctx, refineScriptSystem+req.voice, refineScriptUser(p.Script, p.Feedback))
	if err != nil {
		return nil, err
	}
	v, err := parseArtifact(raw, "refined script")
	if err != nil {
		return nil, err
	}
	obj, err := asObject(v, "refined script")
	if err != nil {
		return nil, err
	}

	return map[string]any{"refined": unwrap(obj, "refined")}, nil
}

type hookOptimizeParams struct {
	Hook     string `json:"hook"`
	Platform string `json:"platform"`
	Niche    string `json:"niche"`
}

func (s *Service) hookOptimize(ctx context.Context, req *request) (map[string]any, error) {
	p := hookOptimizeParams{Platform: "LinkedIn"}
	if err := json.Unmarshal(req.params, &p); err != nil {
		return nil, badRequest("Invalid request body")
	}
	if p.Hook == "" {
		return nil, badRequest("A hook is required")
	}

	raw, err := s.generate(ctx, hookOptimizeSystem+req.voice, hookOptimizeUser(p.Hook, p.Platform, p.Niche))
	if err != nil {
		return nil, err
	}
	v, err := parseArtifact(raw, "hook analysis")
	if err != nil {
		return nil, err
	}
	obj, err := asObject(v, "hook analysis")
	if err != nil {
		return nil, err
	}

	// The analysis always echoes the hook as submitted, regardless of
	// what the model put in "original".
	obj["original"] = p.Hook

	return map[string]any{"hookAnalysis": obj}, nil
}

type frameworkSuggestParams struct {
	Idea     string `json:"idea"`
	Platform string `json:"platform"`
}

func (s *Service) frameworkSuggest(ctx context.Context, req *request) (map[string]any, error) {
	p := frameworkSuggestParams{Platform: "LinkedIn"}
	if err := json.Unmarshal(req.params, &p); err != nil {
		return nil, badRequest("Invalid request body")
	}
	if p.Idea == "" {
		return nil, badRequest("An idea is required")
	}

	raw, err := s.generate(ctx, frameworkSuggestSystem+req.voice, frameworkSuggestUser(p.Idea, p.Platform))
	if err != nil {
		return nil, err
	}
	v, err := parseArtifact(raw, "framework suggestions")
	if err != nil {
		return nil, err
	}

	var suggestions []any
	switch t := v.(type) {
	case []any:
		suggestions = t
	case map[string]any:
		suggestions, _ = t["suggestions"].([]any)
	}
	if suggestions == nil {
		return nil, internalError("Failed to parse framework suggestions")
	}

	return map[string]any{"suggestions": suggestions}, nil
}

type seriesParams struct {
	Topic    string `json:"topic"`
	Platform string `json:"platform"`
	Goal     string `json:"goal"`
	Days     int    `json:"days"`
}

func (s *Service) series(ctx context.Context, req *request) (map[string]any, error) {
	p := seriesParams{Platform: "LinkedIn", Goal: "audience growth", Days: 5}
	if err := json.Unmarshal(req.params, &p); err != nil {
		return nil, badRequest("Invalid request body")
	}
	if p.Topic == "" {
		return nil, badRequest("A topic is required")
	}

	raw, err := s.generate(ctx, seriesSystem+req.voice, seriesUser(p.Topic, p.Platform, p.Goal, p.Days))
	if err != nil {
		return nil, err
	}
	v, err := parseArtifact(raw, "series")
	if err != nil {
		return nil, err
	}
	obj, err := asObject(v, "series")
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"series":         obj["series"],
		"seriesTitle":    obj["seriesTitle"],
		"narrativeArc":   obj["narrativeArc"],
		"crossPromotion": obj["crossPromotion"],
		"emailTieIn":     obj["emailTieIn"],
	}, nil
}

type repurposeParams struct {
	Content        string   `json:"content"`
	SourcePlatform string   `json:"sourcePlatform"`
	Targets        []string `json:"targets"`
}

func (s *Service) repurpose(ctx context.Context, req *request) (map[string]any, error) {
	p := repurposeParams{SourcePlatform: "LinkedIn"}
	if err := json.Unmarshal(req.params, &p); err != nil {
		return nil, badRequest("Invalid request body")
	}
	if p.Content == "" {
		return nil, badRequest("Content is required")
	}
	if len(p.Targets) == 0 {
		p.Targets = []string{"LinkedIn", "Instagram", "YouTube", "Email"}
	}

	raw, err := s.generate(ctx, repurposeSystem+req.voice, repurposeUser(p.Content, p.SourcePlatform, p.Targets))
	if err != nil {
		return nil, err
	}
	v, err := parseArtifact(raw, "repurposed content")
	if err != nil {
		return nil, err
	}
	obj, err := asObject(v, "repurposed content")
	if err != nil {
		return nil, err
	}

	return map[string]any{"repurposed": unwrap(obj, "repurposed")}, nil
}

type calendarAutofillParams struct {
	Platforms    []string `json:"platforms"`
	PostsPerWeek int      `json:"postsPerWeek"`
	Niche        string   `json:"niche"`
	Goal         string   `json:"goal"`
	StartDate    string   `json:"startDate"`
}

func (s *Service) calendarAutofill(ctx context.Context, req *request) (map[string]any, error) {
	p := calendarAutofillParams{PostsPerWeek: 5, Goal: "consistency"}
	if err := json.Unmarshal(req.params, &p); err != nil {
		return nil, badRequest("Invalid request body")
	}
	if len(p.Platforms) == 0 {
		p.Platforms = []string{"LinkedIn"}
	}

	raw, err := s.generate(ctx, calendarAutofillSystem+req.voice,
		calendarAutofillUser(p.Platforms, p.PostsPerWeek, p.Niche, p.Goal, p.StartDate))
	if err != nil {
		return nil, err
	}
	v, err := parseArtifact(raw, "calendar")
	if err != nil {
		return nil, err
	}
	obj, err := asObject(v, "calendar")
	if err != nil {
		return nil, err
	}

	// The client inserts the entries it keeps; nothing is persisted here.
	return map[string]any{
		"calendar":      obj["calendar"],
		"strategyNotes": obj["strategyNotes"],
		"weeklyRhythm":  obj["weeklyRhythm"],
	}, nil
}

type contentAutopsyParams struct {
	Content  string          `json:"content"`
	Platform string          `json:"platform"`
	Metrics  json.RawMessage `json:"metrics"`
}

func (s *Service) contentAutopsy(ctx context.Context, req *request) (map[string]any, error) {
	p := contentAutopsyParams{Platform: "LinkedIn"}
	if err := json.Unmarshal(req.params, &p); err != nil {
		return nil, badRequest("Invalid request body")
	}
	if p.Content == "" {
		return nil, badRequest("Content is required")
	}
	metrics := "not provided"
	if len(p.Metrics) > 0 && string(p.Metrics) != "null" {
		metrics = string(p.Metrics)
	}

	raw, err := s.generate(ctx, contentAutopsySystem+req.voice, contentAutopsyUser(p.Content, p.Platform, metrics))
	if err != nil {
		return nil, err
	}
	v, err := parseArtifact(raw, "autopsy")
	if err != nil {
		return nil, err
	}
	obj, err := asObject(v, "autopsy")
	if err != nil {
		return nil, err
	}

	return map[string]any{"autopsy": unwrap(obj, "autopsy")}, nil
}

type predictPerformanceParams struct {
	Content  string `json:"content"`
	Platform string `json:"platform"`
	Niche    string `json:"niche"`
}

func (s *Service) predictPerformance(ctx context.Context, req *request) (map[string]any, error) {
	p := predictPerformanceParams{Platform: "LinkedIn"}
	if err := json.Unmarshal(req.params, &p); err != nil {
		return nil, badRequest("Invalid request body")
	}
	if p.Content == "" {
		return nil, badRequest("Content is required")
	}

	raw, err := s.generate(ctx, predictPerformanceSystem+req.voice, predictPerformanceUser(p.Content, p.Platform, p.Niche))
	if err != nil {
		return nil, err
	}
	v, err := parseArtifact(raw, "prediction")
	if err != nil {
		return nil, err
	}
	obj, err := asObject(v, "prediction")
	if err != nil {
		return nil, err
	}

	return map[string]any{"prediction": unwrap(obj, "prediction")}, nil
}

type analyzePerformanceParams struct {
	Metrics json.RawMessage `json:"metrics"`
	Period  string          `json:"period"`
}

func (s *Service) analyzePerformance(ctx context.Context, req *request) (map[string]any, error) {
	p := analyzePerformanceParams{Period: "last 7 days"}
	if err := json.Unmarshal(req.params, &p); err != nil {
		return nil, badRequest("Invalid request body")
	}
	if len(p.Metrics) == 0 || string(p.Metrics) == "null" {
		return nil, badRequest("Metrics are required")
	}

	raw, err := s.generate(ctx, analyzePerformanceSystem+req.voice, analyzePerformanceUser(string(p.Metrics), p.Period))
	if err != nil {
		return nil, err
	}
	v, err := parseArtifact(raw, "analysis")
	if err != nil {
		return nil, err
	}
	obj, err := asObject(v, "analysis")
	if err != nil {
		return nil, err
	}
	obj = unwrap(obj, "analysis")

	// Report insert failure is logged, not surfaced.
	if report, marshalErr := json.Marshal(obj); marshalErr == nil {
		_, err := s.store.InsertWeeklyReport(ctx, store.WeeklyReport{
			UserID: req.userID,
			Report: report,
		})
		if err != nil {
			s.logger.Error("weekly report insert failed", "user", req.userID, "error", err)
		} else {
			s.publish(events.SubjectReportCreated, "analyze-performance", req.userID, true)
		}
	}

	return map[string]any{"analysis": obj}, nil
}

type ctaOptimizeParams struct {
	Goal     string `json:"goal"`
	Offer    string `json:"offer"`
	Platform string `json:"platform"`
}

func (s *Service) ctaOptimize(ctx context.Context, req *request) (map[string]any, error) {
	p := ctaOptimizeParams{Platform: "LinkedIn"}
	if err := json.Unmarshal(req.params, &p); err != nil {
		return nil, badRequest("Invalid request body")
	}
	if p.Goal == "" {
		return nil, badRequest("A goal is required")
	}

	raw, err := s.generate(ctx, ctaOptimizeSystem+req.voice, ctaOptimizeUser(p.Goal, p.Offer, p.Platform))
	if err != nil {
		return nil, err
	}
	v, err := parseArtifact(raw, "CTAs")
	if err != nil {
		return nil, err
	}
	obj, err := asObject(v, "CTAs")
	if err != nil {
		return nil, err
	}

	return map[string]any{"ctas": unwrap(obj, "ctas")}, nil
}

type leadMagnetParams struct {
	Niche    string `json:"niche"`
	Audience string `json:"audience"`
	Offer    string `json:"offer"`
}

func (s *Service) leadMagnet(ctx context.Context, req *request) (map[string]any, error) {
	p := leadMagnetParams{Audience: "general audience"}
	if err := json.Unmarshal(req.params, &p); err != nil {
		return nil, badRequest("Invalid request body")
	}

	raw, err := s.generate(ctx, leadMagnetSystem+req.voice, leadMagnetUser(p.Niche, p.Audience, p.Offer))
	if err != nil {
		return nil, err
	}
	v, err := parseArtifact(raw, "lead magnet")
	if err != nil {
		return nil, err
	}
	obj, err := asObject(v, "lead magnet")
	if err != nil {
		return nil, err
	}

	return map[string]any{"leadMagnet": unwrap(obj, "leadMagnet")}, nil
}

type salesScriptParams struct {
	Channel  string `json:"channel"`
	Offer    string `json:"offer"`
	Audience string `json:"audience"`
}

func (s *Service) salesScript(ctx context.Context, req *request) (map[string]any, error) {
	p := salesScriptParams{Channel: "dm"}
	if err := json.Unmarshal(req.params, &p); err != nil {
		return nil, badRequest("Invalid request body")
	}
	if p.Offer == "" {
		return nil, badRequest("An offer is required")
	}

	raw, err := s.generate(ctx, salesScriptSystem+req.voice, salesScriptUser(p.Channel, p.Offer, p.Audience))
	if err != nil {
		return nil, err
	}
	v, err := parseArtifact(raw, "sales script")
	if err != nil {
		return nil, err
	}
	obj, err := asObject(v, "sales script")
	if err != nil {
		return nil, err
	}

	return map[string]any{"salesScript": unwrap(obj, "salesScript")}, nil
}

type vaultTagParams struct {
	Content string `json:"content"`
}

func (s *Service) vaultTag(ctx context.Context, req *request) (map[string]any, error) {
	var p vaultTagParams
	if err := json.Unmarshal(req.params, &p); err != nil {
		return nil, badRequest("Invalid request body")
	}
	if p.Content == "" {
		return nil, badRequest("Content is required")
	}

	raw, err := s.generate(ctx, vaultTagSystem+req.voice, vaultTagUser(p.Content))
	if err != nil {
		return nil, err
	}
	v, err := parseArtifact(raw, "tags")
	if err != nil {
		return nil, err
	}
	obj, err := asObject(v, "tags")
	if err != nil {
		return nil, err
	}

	// The client persists the tags alongside the vault item.
	return map[string]any{
		"tags":          obj["tags"],
		"suggestedHook": obj["suggestedHook"],
		"relatedAngles": obj["relatedAngles"],
	}, nil
}

type vaultSearchParams struct {
	Query string `json:"query"`
}

func (s *Service) vaultSearch(ctx context.Context, req *request) (map[string]any, error) {
	var p vaultSearchParams
	if err := json.Unmarshal(req.params, &p); err != nil {
		return nil, badRequest("Invalid request body")
	}
	if p.Query == "" {
		return nil, badRequest("A search query is required")
	}

	corpus, err := s.store.VaultCorpus(ctx, req.userID)
	if err != nil {
		s.logger.Error("vault corpus load failed", "user", req.userID, "error", err)
		return nil, internalError("Failed to search vault")
	}
	if len(corpus) == 0 {
		// Nothing to search; skip the model entirely.
		return map[string]any{
			"results": []any{},
			"message": "No content found in your vault yet.",
		}, nil
	}

	raw, err := s.generate(ctx, vaultSearchSystem+req.voice, vaultSearchUser(p.Query, renderCorpus(corpus)))
	if err != nil {
		return nil, err
	}
	v, err := parseArtifact(raw, "search results")
	if err != nil {
		return nil, err
	}
	obj, err := asObject(v, "search results")
	if err != nil {
		return nil, err
	}

	results, ok := obj["results"].([]any)
	if !ok {
		return nil, internalError("Failed to parse search results")
	}

	return map[string]any{
		"results":    results,
		"suggestion": obj["suggestion"],
	}, nil
}

// renderCorpus flattens corpus entries into the line format the
// vault-search prompt describes. Long entries are clipped so a large
// vault still fits one model call.
func renderCorpus(corpus []store.CorpusEntry) string {
	const maxEntryLen = 400
	var b strings.Builder
	for _, e := range corpus {
		content := e.Content
		if len(content) > maxEntryLen {
			content = content[:maxEntryLen] + "…"
		}
		fmt.Fprintf(&b, "- id=%s kind=%s: %s\n", e.ID, e.Kind, content)
	}
	return b.String()
}
