package app

import (
	"fmt"

	"github.com/yungbote/neurobridge-tutor/internal/config"
	"github.com/yungbote/neurobridge-tutor/internal/observability"
	"github.com/yungbote/neurobridge-tutor/internal/persona"
	"github.com/yungbote/neurobridge-tutor/internal/platform/logger"
	"github.com/yungbote/neurobridge-tutor/internal/services"
)

type Services struct {
	Resolver *persona.Resolver
	Profiles services.ProfileService
	Tutor    services.TutorService
}

// loadRegistry reads the configured catalog, or the embedded one, and reports its
// data-quality issues as warnings.
func loadRegistry(log *logger.Logger, cfg config.CatalogConfig) (*persona.Registry, error) {
	var (
		reg *persona.Registry
		err error
	)
	if cfg.Path != "" {
		log.Info("Loading persona catalog", "path", cfg.Path)
		reg, err = persona.LoadRegistry(cfg.Path)
	} else {
		reg, err = persona.DefaultRegistry()
	}
	if err != nil {
		return nil, err
	}
	for _, issue := range reg.Issues() {
		log.Warn("persona catalog issue", "grade", issue.Grade, "kind", string(issue.Kind), "detail", issue.String())
	}
	return reg, nil
}

func wireServices(log *logger.Logger, cfg *config.Config, clients Clients, repos Repos, metrics *observability.Metrics) (Services, error) {
	log.Info("Wiring services...")

	reg, err := loadRegistry(log, cfg.Catalog)
	if err != nil {
		return Services{}, fmt.Errorf("load persona catalog: %w", err)
	}
	resolver, err := persona.NewResolver(reg, cfg.Catalog.DefaultGrade,
		persona.WithLogger(log),
		persona.WithFallbackHook(metrics.IncCatalogFallback),
	)
	if err != nil {
		return Services{}, fmt.Errorf("init persona resolver: %w", err)
	}

	out := Services{Resolver: resolver}
	var source services.ProfileSource
	if repos.Profile != nil {
		out.Profiles = services.NewProfileService(log, repos.Profile, clients.ProfileCache, metrics)
		source = out.Profiles
	}
	out.Tutor = services.NewTutorService(log, resolver, source, metrics)
	return out, nil
}
