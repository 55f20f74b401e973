package handlers

import (
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"gorm.io/datatypes"

	"github.com/yungbote/neurobridge-tutor/internal/domain/student"
	"github.com/yungbote/neurobridge-tutor/internal/persona"
	"github.com/yungbote/neurobridge-tutor/internal/platform/apierr"
	"github.com/yungbote/neurobridge-tutor/internal/services"
)

// profileRequest is the student part shared by the tutor endpoints: an inline profile,
// a stored student's id, or both (inline wins).
type profileRequest struct {
	UserID  string         `json:"user_id"`
	Profile *inlineProfile `json:"profile"`
}

// inlineProfile keeps the selection fields as pointers so an absent grade or score is
// rejected instead of read as zero.
type inlineProfile struct {
	GradeLevel         *int     `json:"grade_level" binding:"required"`
	PerformanceScore   *float64 `json:"performance_score" binding:"required"`
	LanguagePreference string   `json:"language_preference"`
}

func (p *inlineProfile) studentProfile() (*persona.StudentProfile, error) {
	if p.GradeLevel == nil {
		return nil, fmt.Errorf("%w: profile.grade_level is required", persona.ErrInvalidArgument)
	}
	if p.PerformanceScore == nil {
		return nil, fmt.Errorf("%w: profile.performance_score is required", persona.ErrInvalidArgument)
	}
	return &persona.StudentProfile{
		GradeLevel:         *p.GradeLevel,
		PerformanceScore:   *p.PerformanceScore,
		LanguagePreference: p.LanguagePreference,
	}, nil
}

func (r profileRequest) ref() (services.ProfileRef, error) {
	var ref services.ProfileRef
	if r.Profile != nil {
		sp, err := r.Profile.studentProfile()
		if err != nil {
			return services.ProfileRef{}, err
		}
		ref.Profile = sp
	}
	if r.UserID != "" {
		id, err := uuid.Parse(r.UserID)
		if err != nil {
			return services.ProfileRef{}, apierr.New(http.StatusBadRequest, "invalid_request", fmt.Errorf("user_id: %w", err))
		}
		ref.UserID = &id
	}
	return ref, nil
}

type promptRequest struct {
	profileRequest
	PersonaID string                    `json:"persona_id"`
	Subject   string                    `json:"subject"`
	Context   *persona.SelectionContext `json:"context"`
}

// PersonaSummary is the listing view of a persona; prompts and adaptations stay server side.
type PersonaSummary struct {
	ID                 string            `json:"id"`
	Name               string            `json:"name"`
	FullName           string            `json:"full_name"`
	GradeLevel         int               `json:"grade_level"`
	Archetype          persona.Archetype `json:"archetype"`
	LanguagePreference string            `json:"language_preference,omitempty"`
	Subjects           []string          `json:"subjects"`
}

func toPersonaSummary(p *persona.Persona) PersonaSummary {
	subjects := lo.Keys(p.SubjectAdaptations)
	sort.Strings(subjects)
	return PersonaSummary{
		ID:                 p.ID,
		Name:               p.Name,
		FullName:           p.FullName,
		GradeLevel:         p.GradeLevel,
		Archetype:          p.Archetype,
		LanguagePreference: p.LanguagePreference,
		Subjects:           subjects,
	}
}

func toPersonaSummaries(ps []*persona.Persona) []PersonaSummary {
	return lo.Map(ps, func(p *persona.Persona, _ int) PersonaSummary {
		return toPersonaSummary(p)
	})
}

type SelectionResponse struct {
	Persona            PersonaSummary         `json:"persona"`
	Profile            persona.StudentProfile `json:"profile"`
	Tier               persona.Tier           `json:"tier"`
	PreferredArchetype persona.Archetype      `json:"preferred_archetype"`
	CatalogGrade       int                    `json:"catalog_grade"`
	FellBack           bool                   `json:"fell_back"`
}

func toSelectionResponse(sel services.Selection) SelectionResponse {
	return SelectionResponse{
		Persona:            toPersonaSummary(sel.Persona),
		Profile:            sel.Profile,
		Tier:               sel.Tier,
		PreferredArchetype: sel.Preferred,
		CatalogGrade:       sel.CatalogGrade,
		FellBack:           sel.FellBack,
	}
}

type RecommendationResponse struct {
	Persona PersonaSummary `json:"persona"`
	Score   int            `json:"score"`
	Reason  string         `json:"reason"`
}

func toRecommendations(recs []persona.Recommendation) []RecommendationResponse {
	return lo.Map(recs, func(r persona.Recommendation, _ int) RecommendationResponse {
		return RecommendationResponse{
			Persona: toPersonaSummary(r.Persona),
			Score:   r.Score,
			Reason:  r.Reason,
		}
	})
}

type profileUpsertRequest struct {
	GradeLevel         *int           `json:"grade_level" binding:"required"`
	PerformanceScore   *float64       `json:"performance_score" binding:"required"`
	LanguagePreference string         `json:"language_preference"`
	Metadata           datatypes.JSON `json:"metadata"`
}

type StoredProfileResponse struct {
	UserID             uuid.UUID      `json:"user_id"`
	GradeLevel         int            `json:"grade_level"`
	PerformanceScore   float64        `json:"performance_score"`
	LanguagePreference string         `json:"language_preference,omitempty"`
	Tier               persona.Tier   `json:"tier"`
	Metadata           datatypes.JSON `json:"metadata,omitempty"`
	UpdatedAt          string         `json:"updated_at"`
}

func toStoredProfile(p *student.Profile) StoredProfileResponse {
	return StoredProfileResponse{
		UserID:             p.UserID,
		GradeLevel:         p.GradeLevel,
		PerformanceScore:   p.PerformanceScore,
		LanguagePreference: p.LanguagePreference,
		Tier:               persona.TierForScore(p.PerformanceScore),
		Metadata:           p.Metadata,
		UpdatedAt:          p.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
