package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/persondata/internal/app/models/dto"
	"github.com/yigit/persondata/internal/pkg/apperrors"
	"github.com/yigit/persondata/internal/pkg/dberrors"
	"github.com/yigit/persondata/internal/pkg/logger"
)

// HandleAPIError maps domain errors onto HTTP status codes and writes the
// error envelope.
func HandleAPIError(c *gin.Context, err error) {
	status, detail := classify(err)
	if status >= http.StatusInternalServerError {
		logger.Ctx(c.Request.Context()).Error().Err(err).
			Str("path", c.FullPath()).
			Msg("Request failed")
	}
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(detail))
}

func classify(err error) (int, *dto.ErrorDetail) {
	var (
		notFound *apperrors.NotFoundError
		adviser  *apperrors.AdviserNotFoundError
		invalid  *apperrors.InvalidIdentifierError
		ambig    *apperrors.AmbiguousError
	)

	switch {
	case errors.As(err, &adviser):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Adviser not found").
			WithDetails(map[string]string{"identifier": adviser.Identifier})
	case errors.As(err, &notFound):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Person not found").
			WithDetails(map[string]string{"identifier": notFound.Identifier, "kind": notFound.Kind})
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Resource not found")
	case errors.As(err, &invalid):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid identifier").
			WithField(invalid.Class).
			WithDetails(map[string]string{"identifier": invalid.Identifier})
	case errors.Is(err, apperrors.ErrValidationFailed), errors.Is(err, apperrors.ErrBadRequest):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed").
			WithDetails(err.Error())
	case errors.As(err, &ambig):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeConflict, "Identifier matches more than one record").
			WithDetails(map[string]interface{}{"identifier": ambig.Identifier, "matches": ambig.Matches})
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, dto.NewErrorDetail(dto.ErrorCodeExternalServiceError, "Upstream timed out")
	case errors.Is(err, context.Canceled):
		return 499, dto.NewErrorDetail(dto.ErrorCodeExternalServiceError, "Request canceled").
			WithSeverity(dto.ErrorSeverityInfo)
	case dberrors.IsConnectionError(err):
		return http.StatusServiceUnavailable, dto.NewErrorDetail(dto.ErrorCodeDatabaseUnavailable, "Database unavailable")
	default:
		return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
	}
}
