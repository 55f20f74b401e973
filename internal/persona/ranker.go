package persona

import (
	"fmt"
	"sort"
)

const (
	baselineScore         = 50
	performanceMatchBonus = 30
	midBandBonus          = 20
	hinglishBonus         = 20
	englishBonus          = 15
)

// Recommendation is one ranked persona with the reason shown to the student.
type Recommendation struct {
	Persona *Persona `json:"persona"`
	Score   int      `json:"score"`
	Reason  string   `json:"reason"`
}

type rankRule struct {
	bonus   int
	matches func(p *Persona, profile StudentProfile) bool
	reason  string
}

// rankRules are independent; every matching rule adds its bonus. The reason of the
// largest matching bonus is shown, earlier rules winning ties.
var rankRules = []rankRule{
	{
		bonus: performanceMatchBonus,
		matches: func(p *Persona, s StudentProfile) bool {
			return s.PerformanceScore >= AdvancedFrom && p.Archetype == ArchetypeExcellenceCoach
		},
		reason: "%s will challenge you to achieve excellence!",
	},
	{
		bonus: performanceMatchBonus,
		matches: func(p *Persona, s StudentProfile) bool {
			return s.PerformanceScore < StrugglingBelow && p.Archetype == ArchetypeConfidenceBuilder
		},
		reason: "%s will help you build confidence step by step!",
	},
	{
		bonus: hinglishBonus,
		matches: func(p *Persona, s StudentProfile) bool {
			return normalizeLanguage(s.LanguagePreference) == LanguageHinglish && p.Archetype == ArchetypeLovingHinglish
		},
		reason: "%s teaches in Hinglish, just the way you like!",
	},
	{
		bonus: midBandBonus,
		matches: func(p *Persona, s StudentProfile) bool {
			return TierForScore(s.PerformanceScore) == TierAverage &&
				(p.Archetype == ArchetypeLovingHinglish || p.Archetype == ArchetypeProfessional)
		},
		reason: "%s is a great match for steady, balanced progress!",
	},
	{
		bonus: englishBonus,
		matches: func(p *Persona, s StudentProfile) bool {
			return normalizeLanguage(s.LanguagePreference) == LanguageEnglish && p.Archetype == ArchetypeProfessional
		},
		reason: "%s explains everything clearly in English!",
	},
}

const genericReason = "%s is a great teacher for your class!"

// ScorePersona returns the recommendation score and reason of one persona for profile.
func ScorePersona(p *Persona, profile StudentProfile) (int, string) {
	score := baselineScore
	reason := genericReason
	best := 0
	for _, rule := range rankRules {
		if !rule.matches(p, profile) {
			continue
		}
		score += rule.bonus
		if rule.bonus > best {
			best = rule.bonus
			reason = rule.reason
		}
	}
	return score, fmt.Sprintf(reason, p.DisplayName())
}

// RankPersonas scores every persona of catalog, highest first; equal scores keep load order.
func RankPersonas(catalog *Catalog, profile StudentProfile) []Recommendation {
	personas := catalog.Personas()
	out := make([]Recommendation, 0, len(personas))
	for _, p := range personas {
		score, reason := ScorePersona(p, profile)
		out = append(out, Recommendation{Persona: p, Score: score, Reason: reason})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}
