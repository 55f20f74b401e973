package persona

import (
	"fmt"
	"strings"
)

// Archetype is the behavioral category a persona is selected by.
type Archetype string

const (
	ArchetypeConfidenceBuilder Archetype = "confidence_builder"
	ArchetypeExcellenceCoach   Archetype = "excellence_coach"
	ArchetypeProfessional      Archetype = "professional"
	ArchetypeLovingHinglish    Archetype = "loving_hinglish"
)

// Archetypes lists every known archetype in canonical order.
func Archetypes() []Archetype {
	return []Archetype{
		ArchetypeConfidenceBuilder,
		ArchetypeExcellenceCoach,
		ArchetypeProfessional,
		ArchetypeLovingHinglish,
	}
}

func (a Archetype) Valid() bool {
	switch a {
	case ArchetypeConfidenceBuilder, ArchetypeExcellenceCoach, ArchetypeProfessional, ArchetypeLovingHinglish:
		return true
	default:
		return false
	}
}

func (a Archetype) String() string { return string(a) }

func ParseArchetype(raw string) (Archetype, error) {
	a := Archetype(strings.ToLower(strings.TrimSpace(raw)))
	if !a.Valid() {
		return "", fmt.Errorf("%w: unknown archetype %q", ErrInvalidArgument, raw)
	}
	return a, nil
}

// Tier is the performance band derived from a 0-100 score.
type Tier string

const (
	TierStruggling Tier = "struggling"
	TierAverage    Tier = "average"
	TierAdvanced   Tier = "advanced"
)

const (
	// Scores below StrugglingBelow are struggling; scores at or above AdvancedFrom are advanced.
	StrugglingBelow = 60.0
	AdvancedFrom    = 80.0
)

func TierForScore(score float64) Tier {
	switch {
	case score >= AdvancedFrom:
		return TierAdvanced
	case score < StrugglingBelow:
		return TierStruggling
	default:
		return TierAverage
	}
}

func (t Tier) Valid() bool {
	return t == TierStruggling || t == TierAverage || t == TierAdvanced
}

const (
	LanguageHinglish = "hinglish"
	LanguageHindi    = "hindi"
	LanguageEnglish  = "english"
)

func normalizeLanguage(lang string) string {
	return strings.ToLower(strings.TrimSpace(lang))
}

func prefersHinglish(lang string) bool {
	l := normalizeLanguage(lang)
	return l == LanguageHinglish || l == LanguageHindi
}
