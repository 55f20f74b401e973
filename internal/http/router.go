package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/neurobridge-tutor/internal/http/handlers"
	httpMW "github.com/yungbote/neurobridge-tutor/internal/http/middleware"
	"github.com/yungbote/neurobridge-tutor/internal/observability"
	"github.com/yungbote/neurobridge-tutor/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	AllowedOrigins []string
	Metrics        *observability.Metrics

	PersonaHandler *httpH.PersonaHandler
	TutorHandler   *httpH.TutorHandler
	StudentHandler *httpH.StudentHandler
	HealthHandler  *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachRequestID())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	api := r.Group("/api")
	{
		// Personas
		if cfg.PersonaHandler != nil {
			api.GET("/personas", cfg.PersonaHandler.List)
			api.GET("/personas/search", cfg.PersonaHandler.Search)
			api.GET("/personas/issues", cfg.PersonaHandler.Issues)
			api.GET("/personas/:id", cfg.PersonaHandler.Get)
		}

		// Tutor
		if cfg.TutorHandler != nil {
			api.POST("/tutor/select", cfg.TutorHandler.Select)
			api.POST("/tutor/prompt", cfg.TutorHandler.Prompt)
			api.POST("/tutor/recommendations", cfg.TutorHandler.Recommendations)
		}

		// Student profiles (only with a profile store)
		if cfg.StudentHandler != nil {
			api.GET("/students/:id/profile", cfg.StudentHandler.GetProfile)
			api.PUT("/students/:id/profile", cfg.StudentHandler.PutProfile)
		}
	}

	return r
}
