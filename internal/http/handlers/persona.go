package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/neurobridge-tutor/internal/http/response"
	"github.com/yungbote/neurobridge-tutor/internal/persona"
	"github.com/yungbote/neurobridge-tutor/internal/services"
)

type PersonaHandler struct {
	tutor services.TutorService
}

func NewPersonaHandler(tutor services.TutorService) *PersonaHandler {
	return &PersonaHandler{tutor: tutor}
}

// GET /api/personas?grade=N
// Without grade every persona is listed; with grade the resolved catalog is returned,
// flagged when the default grade stood in.
func (h *PersonaHandler) List(c *gin.Context) {
	raw := strings.TrimSpace(c.Query("grade"))
	if raw == "" {
		all := h.tutor.AllPersonas()
		response.RespondOK(c, gin.H{"personas": toPersonaSummaries(all)})
		return
	}
	grade, err := strconv.Atoi(raw)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", fmt.Errorf("grade %q is not a number", raw))
		return
	}
	res, err := h.tutor.ListPersonas(c.Request.Context(), grade)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"grade":         grade,
		"catalog_grade": res.Catalog.Grade(),
		"fell_back":     res.FellBack,
		"personas":      toPersonaSummaries(res.Catalog.Personas()),
	})
}

// GET /api/personas/search?q=...&limit=N
func (h *PersonaHandler) Search(c *gin.Context) {
	limit := 0
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			response.RespondError(c, http.StatusBadRequest, "invalid_argument", fmt.Errorf("limit %q is not a non-negative number", raw))
			return
		}
		limit = n
	}
	hits, err := h.tutor.SearchPersonas(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"personas": toPersonaSummaries(hits)})
}

// GET /api/personas/:id
func (h *PersonaHandler) Get(c *gin.Context) {
	p, err := h.tutor.GetPersona(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"persona": p})
}

// GET /api/personas/issues
func (h *PersonaHandler) Issues(c *gin.Context) {
	issues := h.tutor.ValidateCatalog()
	if issues == nil {
		issues = []persona.Issue{}
	}
	response.RespondOK(c, gin.H{"issues": issues})
}
