package persona

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Catalog is the set of personas available for one grade, in load order.
type Catalog struct {
	grade       int
	personas    []*Persona
	byArchetype map[Archetype]*Persona
}

func newCatalog(grade int) *Catalog {
	return &Catalog{grade: grade, byArchetype: map[Archetype]*Persona{}}
}

func (c *Catalog) Grade() int {
	if c == nil {
		return 0
	}
	return c.grade
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.personas)
}

// Personas returns the catalog in load order. The slice is a copy; the personas are shared.
func (c *Catalog) Personas() []*Persona {
	if c == nil {
		return nil
	}
	return append([]*Persona(nil), c.personas...)
}

// ByArchetype returns the first persona loaded with the archetype.
func (c *Catalog) ByArchetype(a Archetype) (*Persona, bool) {
	if c == nil {
		return nil, false
	}
	p, ok := c.byArchetype[a]
	return p, ok
}

func (c *Catalog) first() *Persona {
	if c == nil || len(c.personas) == 0 {
		return nil
	}
	return c.personas[0]
}

type IssueKind string

const (
	IssueDuplicateArchetype IssueKind = "duplicate_archetype"
	IssueMissingArchetype   IssueKind = "missing_archetype"
)

// Issue is a non-fatal data-quality finding about a grade's catalog.
type Issue struct {
	Grade     int       `json:"grade"`
	Kind      IssueKind `json:"kind"`
	Archetype Archetype `json:"archetype"`
	PersonaID string    `json:"persona_id,omitempty"`
}

func (i Issue) String() string {
	switch i.Kind {
	case IssueDuplicateArchetype:
		return fmt.Sprintf("grade %d: persona %s repeats archetype %s and is never selected by it", i.Grade, i.PersonaID, i.Archetype)
	case IssueMissingArchetype:
		return fmt.Sprintf("grade %d: no %s persona", i.Grade, i.Archetype)
	default:
		return fmt.Sprintf("grade %d: %s", i.Grade, i.Kind)
	}
}

// Registry is the immutable, validated set of all personas, partitioned by grade.
// It is safe for concurrent use.
type Registry struct {
	catalogs map[int]*Catalog
	grades   []int
	byID     map[string]*Persona
	issues   []Issue
}

// NewRegistry validates and indexes personas. Every hard violation is reported together,
// wrapped in ErrConfiguration; duplicate archetypes within a grade only produce Issues.
func NewRegistry(personas []Persona) (*Registry, error) {
	r := &Registry{
		catalogs: map[int]*Catalog{},
		byID:     map[string]*Persona{},
	}
	var errs []error
	for i := range personas {
		p, err := normalizePersona(personas[i])
		if err != nil {
			errs = append(errs, fmt.Errorf("persona[%d] %q: %w", i, personas[i].ID, err))
			continue
		}
		if _, dup := r.byID[p.ID]; dup {
			errs = append(errs, fmt.Errorf("persona[%d]: duplicate id %q", i, p.ID))
			continue
		}
		r.byID[p.ID] = p

		cat, ok := r.catalogs[p.GradeLevel]
		if !ok {
			cat = newCatalog(p.GradeLevel)
			r.catalogs[p.GradeLevel] = cat
			r.grades = append(r.grades, p.GradeLevel)
		}
		cat.personas = append(cat.personas, p)
		if _, taken := cat.byArchetype[p.Archetype]; taken {
			r.issues = append(r.issues, Issue{
				Grade:     p.GradeLevel,
				Kind:      IssueDuplicateArchetype,
				Archetype: p.Archetype,
				PersonaID: p.ID,
			})
			continue
		}
		cat.byArchetype[p.Archetype] = p
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, errors.Join(errs...))
	}

	sort.Ints(r.grades)
	for _, g := range r.grades {
		cat := r.catalogs[g]
		for _, a := range Archetypes() {
			if _, ok := cat.byArchetype[a]; !ok {
				r.issues = append(r.issues, Issue{Grade: g, Kind: IssueMissingArchetype, Archetype: a})
			}
		}
	}
	return r, nil
}

func normalizePersona(in Persona) (*Persona, error) {
	p := in.clone()
	p.ID = strings.TrimSpace(p.ID)
	if p.ID == "" {
		return nil, errors.New("id is required")
	}
	if strings.TrimSpace(p.BasePrompt) == "" {
		return nil, errors.New("base_prompt is required")
	}
	if p.GradeLevel < 0 {
		return nil, fmt.Errorf("grade_level %d is negative", p.GradeLevel)
	}
	a, err := ParseArchetype(string(p.Archetype))
	if err != nil {
		return nil, err
	}
	p.Archetype = a

	if len(p.SubjectAdaptations) > 0 {
		subjects := make(map[string]SubjectAdaptation, len(p.SubjectAdaptations))
		for k, v := range p.SubjectAdaptations {
			key := normalizeSubject(k)
			if key == "" {
				return nil, errors.New("subject adaptation with empty subject")
			}
			if _, dup := subjects[key]; dup {
				return nil, fmt.Errorf("subject %q adapted twice", key)
			}
			subjects[key] = v
		}
		p.SubjectAdaptations = subjects
	}
	for t := range p.LevelAdaptations {
		if !t.Valid() {
			return nil, fmt.Errorf("unknown performance tier %q", t)
		}
	}
	return p, nil
}

// Catalog returns the dedicated catalog for grade, if one exists.
func (r *Registry) Catalog(grade int) (*Catalog, bool) {
	if r == nil {
		return nil, false
	}
	c, ok := r.catalogs[grade]
	return c, ok
}

// Grades lists grades with a dedicated catalog, ascending.
func (r *Registry) Grades() []int {
	if r == nil {
		return nil
	}
	return append([]int(nil), r.grades...)
}

func (r *Registry) Persona(id string) (*Persona, bool) {
	if r == nil {
		return nil, false
	}
	p, ok := r.byID[strings.TrimSpace(id)]
	return p, ok
}

// All returns every persona ordered by grade, then load order.
func (r *Registry) All() []*Persona {
	if r == nil {
		return nil
	}
	out := make([]*Persona, 0, len(r.byID))
	for _, g := range r.grades {
		out = append(out, r.catalogs[g].personas...)
	}
	return out
}

func (r *Registry) Issues() []Issue {
	if r == nil {
		return nil
	}
	return append([]Issue(nil), r.issues...)
}
