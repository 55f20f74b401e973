package persona

import (
	"fmt"
	"strings"
)

// ComposeOptions are the optional inputs of ComposePrompt. Zero values omit their section.
type ComposeOptions struct {
	// Subject selects a subject adaptation; when empty, Context.Subject is used.
	Subject          string
	PerformanceScore *float64
	Context          *SelectionContext
}

func (o ComposeOptions) subject() string {
	if s := strings.TrimSpace(o.Subject); s != "" {
		return s
	}
	if o.Context != nil {
		return strings.TrimSpace(o.Context.Subject)
	}
	return ""
}

const sectionSeparator = "\n\n"

// A sectionBuilder renders one block of the prompt, or reports that its input is absent.
type sectionBuilder func(p *Persona, opts ComposeOptions) (string, bool)

// sectionBuilders is the fixed order of prompt sections.
var sectionBuilders = []sectionBuilder{
	baseSection,
	subjectSection,
	levelSection,
	contextSection,
}

// ComposePrompt assembles the system prompt for persona. It only fails for a nil persona.
func ComposePrompt(p *Persona, opts ComposeOptions) (string, error) {
	if p == nil {
		return "", fmt.Errorf("%w: persona is required", ErrInvalidArgument)
	}
	sections := make([]string, 0, len(sectionBuilders))
	for _, build := range sectionBuilders {
		if s, ok := build(p, opts); ok {
			sections = append(sections, s)
		}
	}
	return strings.Join(sections, sectionSeparator), nil
}

func baseSection(p *Persona, _ ComposeOptions) (string, bool) {
	return p.BasePrompt, true
}

func subjectSection(p *Persona, opts ComposeOptions) (string, bool) {
	subject := normalizeSubject(opts.subject())
	if subject == "" {
		return "", false
	}
	a, ok := p.SubjectAdaptation(subject)
	if !ok {
		return "", false
	}
	var b strings.Builder
	b.WriteString("SUBJECT-SPECIFIC APPROACH FOR " + subject + ":")
	b.WriteString("\nApproach: " + a.Approach)
	b.WriteString("\nExamples to use: " + strings.Join(a.ExampleSet, ", "))
	return b.String(), true
}

func levelSection(p *Persona, opts ComposeOptions) (string, bool) {
	if opts.PerformanceScore == nil {
		return "", false
	}
	tier := TierForScore(*opts.PerformanceScore)
	a, ok := p.LevelAdaptation(tier)
	if !ok {
		return "", false
	}
	var b strings.Builder
	b.WriteString("PERFORMANCE LEVEL: " + strings.ToUpper(string(tier)))
	b.WriteString("\nApproach: " + a.Approach)
	b.WriteString("\nEncouragement Style: " + a.EncouragementStyle)
	b.WriteString("\nStrategy: " + a.Strategy)
	return b.String(), true
}

func contextSection(_ *Persona, opts ComposeOptions) (string, bool) {
	if opts.Context == nil {
		return "", false
	}
	tod := strings.TrimSpace(string(opts.Context.TimeOfDay))
	if tod == "" {
		return "", false
	}
	var b strings.Builder
	b.WriteString("CURRENT CONTEXT:")
	b.WriteString("\nTime of day: " + tod)
	switch TimeOfDay(strings.ToLower(tod)) {
	case Morning:
		b.WriteString(" — student might be fresh and energetic")
	case Evening:
		b.WriteString(" — student might be tired, be extra encouraging")
	}
	if mood := strings.TrimSpace(opts.Context.StudentMood); mood != "" {
		b.WriteString("\nStudent mood: " + mood)
	}
	return b.String(), true
}
