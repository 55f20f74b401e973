package persona

import "strings"

type SubjectAdaptation struct {
	Approach   string   `yaml:"approach" json:"approach"`
	ExampleSet []string `yaml:"examples" json:"example_set"`
}

type LevelAdaptation struct {
	Approach           string `yaml:"approach" json:"approach"`
	EncouragementStyle string `yaml:"encouragement_style" json:"encouragement_style"`
	Strategy           string `yaml:"strategy" json:"strategy"`
}

// Persona is a configured teaching identity. Values handed out by a Registry are shared
// and must not be mutated.
type Persona struct {
	ID                 string                       `yaml:"id" json:"id"`
	Name               string                       `yaml:"name" json:"name"`
	FullName           string                       `yaml:"full_name" json:"full_name"`
	GradeLevel         int                          `yaml:"grade_level" json:"grade_level"`
	Archetype          Archetype                    `yaml:"archetype" json:"archetype"`
	LanguagePreference string                       `yaml:"language_preference" json:"language_preference"`
	BasePrompt         string                       `yaml:"base_prompt" json:"base_prompt"`
	SubjectAdaptations map[string]SubjectAdaptation `yaml:"subject_adaptations" json:"subject_adaptations,omitempty"`
	LevelAdaptations   map[Tier]LevelAdaptation     `yaml:"level_adaptations" json:"level_adaptations,omitempty"`
}

func (p *Persona) SubjectAdaptation(subject string) (SubjectAdaptation, bool) {
	if p == nil || len(p.SubjectAdaptations) == 0 {
		return SubjectAdaptation{}, false
	}
	a, ok := p.SubjectAdaptations[normalizeSubject(subject)]
	return a, ok
}

// DisplayName is the name shown to students: full name, then name, then id.
func (p *Persona) DisplayName() string {
	switch {
	case p == nil:
		return ""
	case p.FullName != "":
		return p.FullName
	case p.Name != "":
		return p.Name
	default:
		return p.ID
	}
}

func (p *Persona) LevelAdaptation(t Tier) (LevelAdaptation, bool) {
	if p == nil || len(p.LevelAdaptations) == 0 {
		return LevelAdaptation{}, false
	}
	a, ok := p.LevelAdaptations[t]
	return a, ok
}

func (p *Persona) clone() *Persona {
	cp := *p
	if p.SubjectAdaptations != nil {
		cp.SubjectAdaptations = make(map[string]SubjectAdaptation, len(p.SubjectAdaptations))
		for k, v := range p.SubjectAdaptations {
			v.ExampleSet = append([]string(nil), v.ExampleSet...)
			cp.SubjectAdaptations[k] = v
		}
	}
	if p.LevelAdaptations != nil {
		cp.LevelAdaptations = make(map[Tier]LevelAdaptation, len(p.LevelAdaptations))
		for k, v := range p.LevelAdaptations {
			cp.LevelAdaptations[k] = v
		}
	}
	return &cp
}

func normalizeSubject(subject string) string {
	return strings.ToLower(strings.TrimSpace(subject))
}

// StudentProfile is the per-request view of a learner.
type StudentProfile struct {
	GradeLevel         int     `json:"grade_level"`
	PerformanceScore   float64 `json:"performance_score"`
	LanguagePreference string  `json:"language_preference,omitempty"`
}

type TimeOfDay string

const (
	Morning   TimeOfDay = "morning"
	Afternoon TimeOfDay = "afternoon"
	Evening   TimeOfDay = "evening"
	Night     TimeOfDay = "night"
)

func (t TimeOfDay) Valid() bool {
	switch t {
	case Morning, Afternoon, Evening, Night:
		return true
	default:
		return false
	}
}

// SelectionContext carries optional situational hints for a single conversation.
type SelectionContext struct {
	Subject     string    `json:"subject,omitempty"`
	TimeOfDay   TimeOfDay `json:"time_of_day,omitempty"`
	StudentMood string    `json:"student_mood,omitempty"`
}
