package persona

import (
	"fmt"

	"github.com/yungbote/neurobridge-tutor/internal/platform/logger"
)

// FallbackHook is called once every time a grade without a dedicated catalog is
// served the default catalog.
type FallbackHook func(requestedGrade, defaultGrade int)

type Resolver struct {
	registry     *Registry
	defaultGrade int
	log          *logger.Logger
	onFallback   FallbackHook
}

type ResolverOption func(*Resolver)

func WithLogger(log *logger.Logger) ResolverOption {
	return func(r *Resolver) { r.log = log.With("component", "PersonaResolver") }
}

func WithFallbackHook(h FallbackHook) ResolverOption {
	return func(r *Resolver) { r.onFallback = h }
}

// Resolution is a resolved catalog plus whether the default had to stand in.
type Resolution struct {
	Catalog        *Catalog
	RequestedGrade int
	FellBack       bool
}

// NewResolver fails with ErrConfiguration when the default grade has no personas, so a
// broken catalog aborts startup instead of surfacing per request.
func NewResolver(reg *Registry, defaultGrade int, opts ...ResolverOption) (*Resolver, error) {
	if reg == nil {
		return nil, fmt.Errorf("%w: nil registry", ErrConfiguration)
	}
	def, ok := reg.Catalog(defaultGrade)
	if !ok || def.Len() == 0 {
		return nil, fmt.Errorf("%w: no personas for default grade %d", ErrConfiguration, defaultGrade)
	}
	r := &Resolver{registry: reg, defaultGrade: defaultGrade}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

func (r *Resolver) DefaultGrade() int { return r.defaultGrade }

func (r *Resolver) Registry() *Registry { return r.registry }

// ResolveCatalog returns the catalog for grade, falling back to the default catalog.
func (r *Resolver) ResolveCatalog(grade int) (*Catalog, error) {
	res, err := r.Resolve(grade)
	if err != nil {
		return nil, err
	}
	return res.Catalog, nil
}

func (r *Resolver) Resolve(grade int) (Resolution, error) {
	if grade < 0 {
		return Resolution{}, fmt.Errorf("%w: grade %d is negative", ErrInvalidArgument, grade)
	}
	if cat, ok := r.registry.Catalog(grade); ok && cat.Len() > 0 {
		return Resolution{Catalog: cat, RequestedGrade: grade}, nil
	}
	def, _ := r.registry.Catalog(r.defaultGrade)
	r.log.Warn("no dedicated persona catalog for grade, using default",
		"requested_grade", grade,
		"default_grade", r.defaultGrade,
	)
	if r.onFallback != nil {
		r.onFallback(grade, r.defaultGrade)
	}
	return Resolution{Catalog: def, RequestedGrade: grade, FellBack: true}, nil
}
