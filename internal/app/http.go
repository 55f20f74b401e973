package app

import (
	"github.com/yungbote/neurobridge-tutor/internal/config"
	"github.com/yungbote/neurobridge-tutor/internal/http"
	httpH "github.com/yungbote/neurobridge-tutor/internal/http/handlers"
	"github.com/yungbote/neurobridge-tutor/internal/observability"
	"github.com/yungbote/neurobridge-tutor/internal/platform/logger"
)

type Handlers struct {
	Health  *httpH.HealthHandler
	Persona *httpH.PersonaHandler
	Tutor   *httpH.TutorHandler
	Student *httpH.StudentHandler
}

func wireHandlers(log *logger.Logger, clients Clients, services Services) Handlers {
	log.Info("Wiring handlers...")
	var checks []httpH.HealthCheck
	if clients.DB != nil {
		checks = append(checks, httpH.HealthCheck{Name: "db", Check: clients.DB.Ping})
	}
	if clients.ProfileCache != nil {
		checks = append(checks, httpH.HealthCheck{Name: "redis", Check: clients.ProfileCache.Ping})
	}

	h := Handlers{
		Health:  httpH.NewHealthHandler(checks...),
		Persona: httpH.NewPersonaHandler(services.Tutor),
		Tutor:   httpH.NewTutorHandler(services.Tutor),
	}
	if services.Profiles != nil {
		h.Student = httpH.NewStudentHandler(services.Profiles)
	}
	return h
}

func wireServer(log *logger.Logger, cfg *config.Config, handlers Handlers, metrics *observability.Metrics) *http.Server {
	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
	}
	return http.NewServer(cfg.HTTP.Addr, http.RouterConfig{
		Log:            log,
		ServiceName:    serviceName,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		Metrics:        metrics,
		HealthHandler:  handlers.Health,
		PersonaHandler: handlers.Persona,
		TutorHandler:   handlers.Tutor,
		StudentHandler: handlers.Student,
	})
}
