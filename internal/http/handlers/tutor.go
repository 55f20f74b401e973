package handlers

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/yungbote/neurobridge-tutor/internal/http/response"
	"github.com/yungbote/neurobridge-tutor/internal/persona"
	"github.com/yungbote/neurobridge-tutor/internal/services"
)

type TutorHandler struct {
	tutor services.TutorService
}

func NewTutorHandler(tutor services.TutorService) *TutorHandler {
	return &TutorHandler{tutor: tutor}
}

// POST /api/tutor/select
// body: { "profile": {...} } or { "user_id": "..." }
func (h *TutorHandler) Select(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	ref, err := req.ref()
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	sel, err := h.tutor.Select(c.Request.Context(), ref)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"selection": toSelectionResponse(sel)})
}

// POST /api/tutor/prompt
// body: { "profile"|"user_id", "subject": "math", "context": {...}, "persona_id": optional }
func (h *TutorHandler) Prompt(c *gin.Context) {
	var req promptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	ref, err := req.ref()
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	out, err := h.tutor.Compose(c.Request.Context(), services.ComposeRequest{
		ProfileRef: ref,
		PersonaID:  req.PersonaID,
		Subject:    req.Subject,
		Context:    req.Context,
	})
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"selection": toSelectionResponse(out.Selection),
		"prompt":    out.Prompt,
	})
}

// POST /api/tutor/recommendations
func (h *TutorHandler) Recommendations(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	ref, err := req.ref()
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	recs, err := h.tutor.Recommend(c.Request.Context(), ref)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"recommendations": toRecommendations(recs)})
}

// respondBindError answers a body that failed its field rules as an invalid argument and
// anything that is not JSON at all as an invalid request.
func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		response.RespondErr(c, fmt.Errorf("%w: %v", persona.ErrInvalidArgument, err))
		return
	}
	response.RespondBadRequest(c, err)
}
