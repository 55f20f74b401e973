package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/neurobridge-tutor/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondErr maps a service error onto its status and code. Internal errors are logged
// by the request logger through c.Error and answered with a generic message.
func RespondErr(c *gin.Context, err error) {
	apiErr := apierr.From(err)
	_ = c.Error(err)
	if apiErr.Status >= http.StatusInternalServerError && apiErr.Code == "internal" {
		RespondError(c, apiErr.Status, apiErr.Code, errInternal)
		return
	}
	RespondError(c, apiErr.Status, apiErr.Code, apiErr)
}

func RespondBadRequest(c *gin.Context, err error) {
	RespondError(c, http.StatusBadRequest, "invalid_request", err)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

var errInternal = errors.New("internal server error")
