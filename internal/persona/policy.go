package persona

// PreferredArchetype applies the selection rules in order; the first match wins.
func PreferredArchetype(score float64, language string) Archetype {
	switch {
	case score >= AdvancedFrom:
		return ArchetypeExcellenceCoach
	case score < StrugglingBelow:
		return ArchetypeConfidenceBuilder
	case prefersHinglish(language):
		return ArchetypeLovingHinglish
	default:
		return ArchetypeProfessional
	}
}

// SelectPersona picks the persona for a profile from catalog. When the preferred archetype
// is missing it falls back to loving_hinglish, then to the first persona in load order,
// so it only returns nil for an empty catalog.
func SelectPersona(catalog *Catalog, profile StudentProfile) *Persona {
	if catalog.Len() == 0 {
		return nil
	}
	if p, ok := catalog.ByArchetype(PreferredArchetype(profile.PerformanceScore, profile.LanguagePreference)); ok {
		return p
	}
	// TODO: drop the loving_hinglish step if catalog order alone is confirmed as the fallback.
	if p, ok := catalog.ByArchetype(ArchetypeLovingHinglish); ok {
		return p
	}
	return catalog.first()
}
