package observability

import (
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Metrics holds the tutor's process metrics. All methods are safe on a nil receiver so
// callers can run with metrics disabled.
type Metrics struct {
	apiRequests     *CounterVec
	apiLatency      *HistogramVec
	apiInflight     *Gauge
	selections      *CounterVec
	catalogFallback *CounterVec
	prompts         *CounterVec
	recommendations *CounterVec
	profileLookups  *CounterVec
}

func NewMetrics() *Metrics {
	return &Metrics{
		apiRequests:     NewCounterVec("tutor_api_requests_total", "HTTP requests by method, route and status.", []string{"method", "route", "status"}),
		apiLatency:      NewHistogramVec("tutor_api_request_seconds", "HTTP request latency.", []string{"method", "route"}, nil),
		apiInflight:     NewGauge("tutor_api_inflight_requests", "HTTP requests currently being served."),
		selections:      NewCounterVec("tutor_persona_selections_total", "Persona selections by grade and archetype.", []string{"grade", "archetype"}),
		catalogFallback: NewCounterVec("tutor_catalog_fallbacks_total", "Requests for grades without a dedicated catalog.", []string{"requested_grade"}),
		prompts:         NewCounterVec("tutor_prompts_composed_total", "Composed system prompts by persona.", []string{"persona"}),
		recommendations: NewCounterVec("tutor_recommendations_total", "Ranking requests by grade.", []string{"grade"}),
		profileLookups:  NewCounterVec("tutor_profile_lookups_total", "Stored profile lookups by source.", []string{"source"}),
	}
}

func (m *Metrics) ObserveAPI(method, route string, status int, dur time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unknown"
	}
	m.apiRequests.Inc(method, route, strconv.Itoa(status))
	m.apiLatency.Observe(dur.Seconds(), method, route)
}

func (m *Metrics) InflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) InflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) IncSelection(grade int, archetype string) {
	if m == nil {
		return
	}
	m.selections.Inc(strconv.Itoa(grade), archetype)
}

// IncCatalogFallback matches persona.FallbackHook.
func (m *Metrics) IncCatalogFallback(requestedGrade, _ int) {
	if m == nil {
		return
	}
	m.catalogFallback.Inc(strconv.Itoa(requestedGrade))
}

func (m *Metrics) IncPrompt(personaID string) {
	if m == nil {
		return
	}
	m.prompts.Inc(personaID)
}

func (m *Metrics) IncRecommendation(grade int) {
	if m == nil {
		return
	}
	m.recommendations.Inc(strconv.Itoa(grade))
}

// IncProfileLookup counts where a stored profile came from: "cache", "store" or "miss".
func (m *Metrics) IncProfileLookup(source string) {
	if m == nil {
		return
	}
	m.profileLookups.Inc(strings.ToLower(source))
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, _ *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	for _, write := range []func(io.Writer) error{
		m.apiRequests.WritePrometheus,
		m.apiLatency.WritePrometheus,
		m.apiInflight.WritePrometheus,
		m.selections.WritePrometheus,
		m.catalogFallback.WritePrometheus,
		m.prompts.WritePrometheus,
		m.recommendations.WritePrometheus,
		m.profileLookups.WritePrometheus,
	} {
		if err := write(w); err != nil {
			return err
		}
	}
	return nil
}
