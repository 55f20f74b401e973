package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/neurobridge-tutor/internal/observability"
	"github.com/yungbote/neurobridge-tutor/internal/persona"
	"github.com/yungbote/neurobridge-tutor/internal/platform/apierr"
	"github.com/yungbote/neurobridge-tutor/internal/platform/logger"
)

// ProfileRef names the student a request is about: either an inline profile or the id of
// a stored one. An inline profile wins when both are set.
type ProfileRef struct {
	UserID  *uuid.UUID
	Profile *persona.StudentProfile
}

type Selection struct {
	Persona   *persona.Persona
	Profile   persona.StudentProfile
	Tier      persona.Tier
	Preferred persona.Archetype
	// CatalogGrade is the grade whose catalog served the request; it differs from
	// Profile.GradeLevel when FellBack is set.
	CatalogGrade int
	FellBack     bool
}

type ComposeRequest struct {
	ProfileRef
	// PersonaID composes for a specific persona, e.g. one the student picked from the
	// recommendations, instead of running selection.
	PersonaID string
	Subject   string
	Context   *persona.SelectionContext
}

type ComposedPrompt struct {
	Selection
	Prompt string
}

type TutorService interface {
	Select(ctx context.Context, ref ProfileRef) (Selection, error)
	Compose(ctx context.Context, req ComposeRequest) (ComposedPrompt, error)
	Recommend(ctx context.Context, ref ProfileRef) ([]persona.Recommendation, error)
	ListPersonas(ctx context.Context, grade int) (persona.Resolution, error)
	AllPersonas() []*persona.Persona
	GetPersona(ctx context.Context, id string) (*persona.Persona, error)
	SearchPersonas(ctx context.Context, query string, limit int) ([]*persona.Persona, error)
	ValidateCatalog() []persona.Issue
}

type tutorService struct {
	log      *logger.Logger
	resolver *persona.Resolver
	profiles ProfileSource
	metrics  *observability.Metrics
	tracer   trace.Tracer
}

// NewTutorService wires the persona engine. profiles may be nil, in which case requests
// must carry an inline profile.
func NewTutorService(log *logger.Logger, resolver *persona.Resolver, profiles ProfileSource, metrics *observability.Metrics) TutorService {
	return &tutorService{
		log:      log.With("service", "TutorService"),
		resolver: resolver,
		profiles: profiles,
		metrics:  metrics,
		tracer:   otel.Tracer("services/TutorService"),
	}
}

func (s *tutorService) Select(ctx context.Context, ref ProfileRef) (Selection, error) {
	ctx, span := s.tracer.Start(ctx, "TutorService.Select")
	defer span.End()

	sel, err := s.selectFor(ctx, ref)
	if err != nil {
		recordSpanError(span, err)
		return Selection{}, err
	}
	span.SetAttributes(selectionAttributes(sel)...)
	return sel, nil
}

func (s *tutorService) Compose(ctx context.Context, req ComposeRequest) (ComposedPrompt, error) {
	ctx, span := s.tracer.Start(ctx, "TutorService.Compose")
	defer span.End()

	if err := validateContext(req.Context); err != nil {
		recordSpanError(span, err)
		return ComposedPrompt{}, err
	}

	var (
		sel Selection
		err error
	)
	if id := strings.TrimSpace(req.PersonaID); id != "" {
		sel, err = s.pinned(ctx, req.ProfileRef, id)
	} else {
		sel, err = s.selectFor(ctx, req.ProfileRef)
	}
	if err != nil {
		recordSpanError(span, err)
		return ComposedPrompt{}, err
	}

	score := sel.Profile.PerformanceScore
	prompt, err := persona.ComposePrompt(sel.Persona, persona.ComposeOptions{
		Subject:          req.Subject,
		PerformanceScore: &score,
		Context:          req.Context,
	})
	if err != nil {
		recordSpanError(span, err)
		return ComposedPrompt{}, err
	}
	s.metrics.IncPrompt(sel.Persona.ID)
	span.SetAttributes(selectionAttributes(sel)...)
	span.SetAttributes(attribute.Int("tutor.prompt_length", len(prompt)))
	s.log.Debug("composed tutor prompt",
		"persona_id", sel.Persona.ID,
		"subject", req.Subject,
		"prompt_length", len(prompt),
	)
	return ComposedPrompt{Selection: sel, Prompt: prompt}, nil
}

func (s *tutorService) Recommend(ctx context.Context, ref ProfileRef) ([]persona.Recommendation, error) {
	ctx, span := s.tracer.Start(ctx, "TutorService.Recommend")
	defer span.End()

	profile, err := s.profileFor(ctx, ref)
	if err != nil {
		recordSpanError(span, err)
		return nil, err
	}
	catalog, err := s.resolver.ResolveCatalog(profile.GradeLevel)
	if err != nil {
		recordSpanError(span, err)
		return nil, err
	}
	recs := persona.RankPersonas(catalog, profile)
	s.metrics.IncRecommendation(profile.GradeLevel)
	span.SetAttributes(
		attribute.Int("tutor.grade", profile.GradeLevel),
		attribute.Int("tutor.recommendations", len(recs)),
	)
	return recs, nil
}

func (s *tutorService) ListPersonas(_ context.Context, grade int) (persona.Resolution, error) {
	return s.resolver.Resolve(grade)
}

func (s *tutorService) AllPersonas() []*persona.Persona {
	return s.resolver.Registry().All()
}

// GetPersona looks a persona up by id across every grade.
func (s *tutorService) GetPersona(_ context.Context, id string) (*persona.Persona, error) {
	p, ok := s.resolver.Registry().Persona(id)
	if !ok {
		return nil, fmt.Errorf("persona %q: %w", strings.TrimSpace(id), apierr.ErrNotFound)
	}
	return p, nil
}

// SearchPersonas fuzzy-matches query against persona ids, names and archetypes across
// every grade. Closer matches come first; ties keep registry order.
func (s *tutorService) SearchPersonas(_ context.Context, query string, limit int) ([]*persona.Persona, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: search query is required", persona.ErrInvalidArgument)
	}

	type hit struct {
		p        *persona.Persona
		distance int
	}
	var hits []hit
	for _, p := range s.resolver.Registry().All() {
		best := -1
		for _, field := range []string{p.ID, p.Name, p.FullName, string(p.Archetype)} {
			if field == "" || !fuzzy.MatchFold(query, field) {
				continue
			}
			d := fuzzy.RankMatchFold(query, field)
			if best < 0 || d < best {
				best = d
			}
		}
		if best >= 0 {
			hits = append(hits, hit{p: p, distance: best})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].distance < hits[j].distance })

	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	out := make([]*persona.Persona, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.p)
	}
	return out, nil
}

func (s *tutorService) ValidateCatalog() []persona.Issue {
	return s.resolver.Registry().Issues()
}

func (s *tutorService) selectFor(ctx context.Context, ref ProfileRef) (Selection, error) {
	profile, err := s.profileFor(ctx, ref)
	if err != nil {
		return Selection{}, err
	}
	res, err := s.resolver.Resolve(profile.GradeLevel)
	if err != nil {
		return Selection{}, err
	}
	p := persona.SelectPersona(res.Catalog, profile)
	if p == nil {
		return Selection{}, fmt.Errorf("%w: catalog for grade %d is empty", persona.ErrConfiguration, res.Catalog.Grade())
	}
	s.metrics.IncSelection(profile.GradeLevel, string(p.Archetype))
	return Selection{
		Persona:      p,
		Profile:      profile,
		Tier:         persona.TierForScore(profile.PerformanceScore),
		Preferred:    persona.PreferredArchetype(profile.PerformanceScore, profile.LanguagePreference),
		CatalogGrade: res.Catalog.Grade(),
		FellBack:     res.FellBack,
	}, nil
}

func (s *tutorService) pinned(ctx context.Context, ref ProfileRef, personaID string) (Selection, error) {
	p, err := s.GetPersona(ctx, personaID)
	if err != nil {
		return Selection{}, err
	}
	profile, err := s.profileFor(ctx, ref)
	if err != nil {
		return Selection{}, err
	}
	return Selection{
		Persona:      p,
		Profile:      profile,
		Tier:         persona.TierForScore(profile.PerformanceScore),
		Preferred:    persona.PreferredArchetype(profile.PerformanceScore, profile.LanguagePreference),
		CatalogGrade: p.GradeLevel,
	}, nil
}

func (s *tutorService) profileFor(ctx context.Context, ref ProfileRef) (persona.StudentProfile, error) {
	if ref.Profile != nil {
		return *ref.Profile, nil
	}
	if ref.UserID == nil {
		return persona.StudentProfile{}, fmt.Errorf("%w: profile or user_id is required", persona.ErrInvalidArgument)
	}
	if s.profiles == nil {
		return persona.StudentProfile{}, fmt.Errorf("stored profiles are not configured: %w", apierr.ErrUnavailable)
	}
	return s.profiles.GetProfile(ctx, *ref.UserID)
}

// validateContext accepts the known times of day in any case; an empty one omits the hint.
func validateContext(c *persona.SelectionContext) error {
	if c == nil {
		return nil
	}
	tod := strings.ToLower(strings.TrimSpace(string(c.TimeOfDay)))
	if tod != "" && !persona.TimeOfDay(tod).Valid() {
		return fmt.Errorf("%w: unknown time_of_day %q", persona.ErrInvalidArgument, c.TimeOfDay)
	}
	return nil
}

func selectionAttributes(sel Selection) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("tutor.persona_id", sel.Persona.ID),
		attribute.String("tutor.archetype", string(sel.Persona.Archetype)),
		attribute.Int("tutor.grade", sel.Profile.GradeLevel),
		attribute.Bool("tutor.catalog_fallback", sel.FellBack),
	}
}

func recordSpanError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
