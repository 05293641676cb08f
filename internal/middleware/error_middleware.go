package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/classtrack/classtrack/internal/app/models/dto"
	"github.com/classtrack/classtrack/internal/pkg/apperrors"
	"github.com/classtrack/classtrack/internal/pkg/logger"
)

// HandleAPIError maps service errors to HTTP responses. Controllers delegate
// every non-binding error here so status codes stay consistent.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	case apperrors.Is(err, apperrors.ErrResourceNotFound,
		apperrors.ErrStudentNotFound,
		apperrors.ErrSectionNotFound,
		apperrors.ErrSubjectNotFound,
		apperrors.ErrEnrollmentNotFound,
		apperrors.ErrAssessmentNotFound,
		apperrors.ErrGradeNotFound,
		apperrors.ErrPrerequisiteNotFound):
		respondError(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, err)

	case errors.Is(err, apperrors.ErrAlreadyEnrolled):
		respondError(c, http.StatusConflict, dto.ErrorCodeAlreadyEnrolled, err)

	case errors.Is(err, apperrors.ErrMissingPrerequisites):
		respondError(c, http.StatusBadRequest, dto.ErrorCodeMissingPrerequisites, err)

	case apperrors.Is(err, apperrors.ErrPrerequisiteCycle, apperrors.ErrSelfPrerequisite):
		respondError(c, http.StatusBadRequest, dto.ErrorCodePrerequisiteCycle, err)

	case errors.Is(err, apperrors.ErrScoreOutOfRange):
		respondError(c, http.StatusBadRequest, dto.ErrorCodeScoreOutOfRange, err)

	case errors.Is(err, apperrors.ErrInvalidWeights):
		respondError(c, http.StatusBadRequest, dto.ErrorCodeInvalidWeights, err)

	case apperrors.Is(err, apperrors.ErrValidationFailed, apperrors.ErrBadRequest):
		respondError(c, http.StatusBadRequest, dto.ErrorCodeValidationFailed, err)

	case errors.Is(err, apperrors.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, err)

	case errors.Is(err, apperrors.ErrTokenExpired):
		respondError(c, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, err)

	case errors.Is(err, apperrors.ErrTokenInvalid):
		respondError(c, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, err)

	case apperrors.Is(err, apperrors.ErrResourceAlreadyExists,
		apperrors.ErrConflict,
		apperrors.ErrEmailAlreadyExists,
		apperrors.ErrStudentIDAlreadyExists,
		apperrors.ErrSubjectCodeExists):
		respondError(c, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, err)

	default:
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled API error")
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(errorDetail))
	}
}

func respondError(c *gin.Context, status int, code dto.ErrorCode, err error) {
	errorDetail := dto.NewErrorDetail(code, err.Error())

	// Surface any structured context the service attached.
	var customErr *apperrors.CustomError
	if errors.As(err, &customErr) && customErr.Details != nil {
		errorDetail = errorDetail.WithDetails(customErr.Details)
	}

	c.JSON(status, dto.NewErrorResponse(errorDetail))
}
