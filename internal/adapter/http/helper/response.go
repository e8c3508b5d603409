package helper

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskapi/internal/core/domain"
	"taskapi/internal/core/model/response"
)

func SendError(c *gin.Context, statusCode int, code string, violations []domain.FieldViolation, details ...any) {
	errors := make([]response.ValidationError, 0, len(violations))

	for _, v := range violations {
		errors = append(errors, response.ValidationError{Field: v.Field, Message: v.Message})
	}

	errorResponse := response.ErrorResponse{
		Error: response.ResponseError{
			Code:   code,
			Errors: errors,
		},
	}

	if len(details) > 0 {
		errorResponse.Error.Details = details[0]
	}

	c.JSON(statusCode, errorResponse)
}

// SendValidationError reports every violated field in one 422 rejection.
func SendValidationError(c *gin.Context, err error) {
	violations, ok := domain.AsValidationErrors(err)

	if !ok {
		violations = domain.ValidationErrors{{Field: "request", Message: "is invalid"}}
	}

	SendError(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", violations)
}

func SendMalformedRequestError(c *gin.Context) {
	SendError(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", []domain.FieldViolation{
		{Field: "body", Message: "must be a valid JSON object"},
	})
}

// SendInternalError hides store diagnostics from the client; the cause is
// logged server-side only.
func SendInternalError(c *gin.Context) {
	SendError(c, http.StatusInternalServerError, "INTERNAL_ERROR", []domain.FieldViolation{
		{Field: "server", Message: "internal server error"},
	})
}

func SendNotFoundError(c *gin.Context) {
	SendError(c, http.StatusNotFound, "NOT_FOUND", []domain.FieldViolation{
		{Field: "resource", Message: "task not found"},
	})
}
