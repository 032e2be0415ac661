package apperrors

import (
	"outbound_backend/internal/logger"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the error half of the response envelope.
type ErrorResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Code    ErrorCode   `json:"code"`
	Details interface{} `json:"details,omitempty"`
}

// HandleError writes err using the error envelope. Anything that is not an
// AppError becomes a 500 with a generic message.
func HandleError(c *gin.Context, err error) {
	appErr, ok := AsAppError(err)
	if !ok {
		appErr = InternalError(err)
	}

	if appErr.HTTPCode >= 500 {
		cause := appErr.Unwrap()
		if cause == nil {
			cause = appErr
		}
		logger.CtxWithError(c.Request.Context(), "Server error", cause, "path", c.Request.URL.Path)
	}

	c.AbortWithStatusJSON(appErr.HTTPCode, ErrorResponse{
		Status:  "error",
		Message: appErr.Message,
		Code:    appErr.Code,
		Details: appErr.Details,
	})
}

func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
