package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/neurobridge-tutor/internal/http/response"
	"github.com/yungbote/neurobridge-tutor/internal/services"
)

type StudentHandler struct {
	profiles services.ProfileService
}

func NewStudentHandler(profiles services.ProfileService) *StudentHandler {
	return &StudentHandler{profiles: profiles}
}

// GET /api/students/:id/profile
func (h *StudentHandler) GetProfile(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}
	row, err := h.profiles.GetStoredProfile(c.Request.Context(), userID)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"profile": toStoredProfile(row)})
}

// PUT /api/students/:id/profile
// body: { "grade_level": 5, "performance_score": 72, "language_preference": "hinglish", "metadata": {...} }
func (h *StudentHandler) PutProfile(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}
	var req profileUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBadRequest(c, err)
		return
	}
	row, err := h.profiles.UpsertProfile(c.Request.Context(), userID, services.UpsertProfileInput{
		GradeLevel:         *req.GradeLevel,
		PerformanceScore:   *req.PerformanceScore,
		LanguagePreference: req.LanguagePreference,
		Metadata:           req.Metadata,
	})
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"profile": toStoredProfile(row)})
}

func userIDParam(c *gin.Context) (uuid.UUID, bool) {
	raw := c.Param("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		response.RespondBadRequest(c, fmt.Errorf("student id %q is not a uuid", raw))
		return uuid.Nil, false
	}
	return id, true
}
