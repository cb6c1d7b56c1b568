package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/campuscare/internal/app/models/dto"
	"github.com/yigit/campuscare/internal/pkg/apperrors"
	"github.com/yigit/campuscare/internal/pkg/logger"
)

// ErrorDetailFor maps err to its HTTP status and response detail. Messages of
// internal errors are never exposed.
func ErrorDetailFor(err error) (int, *dto.ErrorDetail) {
	kind := apperrors.KindOf(err)

	var status int
	var detail *dto.ErrorDetail
	switch kind {
	case apperrors.KindValidation:
		status = http.StatusBadRequest
		detail = dto.NewErrorDetail(dto.ErrorCodeValidationFailed, err.Error()).WithSeverity(dto.ErrorSeverityWarning)
	case apperrors.KindConflict:
		status = http.StatusConflict
		detail = dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, err.Error()).WithSeverity(dto.ErrorSeverityWarning)
	case apperrors.KindNotFound:
		status = http.StatusNotFound
		detail = dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, err.Error())
	case apperrors.KindAuth:
		status = http.StatusUnauthorized
		detail = dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, err.Error())
	case apperrors.KindExternal:
		status = http.StatusBadGateway
		detail = dto.NewErrorDetail(dto.ErrorCodeExternalServiceError, err.Error()).WithSeverity(dto.ErrorSeverityCritical)
	default:
		status = http.StatusInternalServerError
		detail = dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error").WithSeverity(dto.ErrorSeverityCritical)
	}

	var custom *apperrors.CustomError
	if errors.As(err, &custom) && custom.Details != nil && kind != apperrors.KindInternal {
		detail = detail.WithDetails(custom.Details)
		if field, ok := custom.Details["field"].(string); ok {
			detail = detail.WithField(field)
		}
	}

	return status, detail.WithKind(string(kind))
}

// HandleAPIError writes the standard error envelope for err
func HandleAPIError(c *gin.Context, err error) {
	status, detail := ErrorDetailFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Str("path", c.FullPath()).Int("status", status).Msg("Request failed")
	}
	c.JSON(status, dto.NewErrorResponse(detail))
}

// HandlePartialCompletion writes data that was committed before err stopped
// the request, together with the error
func HandlePartialCompletion(c *gin.Context, data interface{}, err error) {
	status, detail := ErrorDetailFor(err)
	logger.Warn().Err(err).Str("path", c.FullPath()).Int("status", status).Msg("Request partially completed")
	c.JSON(status, dto.NewPartialResponse(data, detail))
}
