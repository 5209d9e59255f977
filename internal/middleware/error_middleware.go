package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/rollcall-app/rollcall/internal/app/models/dto"
	"github.com/rollcall-app/rollcall/internal/pkg/apperrors"
)

// HandleAPIError maps application errors to HTTP responses. Controllers
// call this for every service error so status codes and error codes stay
// uniform across the API.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	// Authentication
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		c.JSON(401, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, "Invalid credentials"),
		})
	case errors.Is(err, apperrors.ErrTokenExpired):
		c.JSON(401, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token expired"),
		})
	case errors.Is(err, apperrors.ErrTokenInvalid), errors.Is(err, apperrors.ErrTokenRevoked):
		c.JSON(401, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid token"),
		})
	case errors.Is(err, apperrors.ErrTokenNotFound):
		c.JSON(401, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeTokenNotFound, "Token not found"),
		})
	case errors.Is(err, apperrors.ErrAccountDisabled):
		c.JSON(403, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeForbidden, "Account is disabled"),
		})

	// Authorization
	case errors.Is(err, apperrors.ErrNotClassOwner), errors.Is(err, apperrors.ErrPermissionDenied):
		c.JSON(403, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeForbidden, "Permission denied"),
		})

	// Not found
	case errors.Is(err, apperrors.ErrClassNotFound):
		c.JSON(404, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Class not found"),
		})
	case errors.Is(err, apperrors.ErrScheduleNotFound):
		c.JSON(404, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Schedule not found"),
		})
	case errors.Is(err, apperrors.ErrExtraClassNotFound):
		c.JSON(404, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Extra class not found"),
		})
	case errors.Is(err, apperrors.ErrAnnouncementNotFound):
		c.JSON(404, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Announcement not found"),
		})
	case errors.Is(err, apperrors.ErrSessionNotFound):
		c.JSON(404, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Attendance session not found"),
		})
	case errors.Is(err, apperrors.ErrUserNotFound):
		c.JSON(404, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "User not found"),
		})
	case errors.Is(err, apperrors.ErrResourceNotFound):
		c.JSON(404, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Resource not found"),
		})

	// Conflicts
	case errors.Is(err, apperrors.ErrScheduleConflict):
		detail := dto.NewErrorDetail(dto.ErrorCodeScheduleConflict, "This time range conflicts with an existing session")
		var conflict *apperrors.ScheduleConflictError
		if errors.As(err, &conflict) {
			detail = detail.WithDetails(dto.ScheduleConflictResponse{
				ConflictingRange: conflict.Range,
				Source:           string(conflict.Source),
			})
		}
		c.JSON(409, dto.APIResponse{Error: detail})
	case errors.Is(err, apperrors.ErrScheduleExists), errors.Is(err, apperrors.ErrExtraClassExists):
		c.JSON(409, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, "An identical session already exists"),
		})
	case errors.Is(err, apperrors.ErrAlreadyEnrolled):
		c.JSON(409, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, "Already enrolled in this class"),
		})
	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		c.JSON(409, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, "Email already exists"),
		})
	case errors.Is(err, apperrors.ErrUsernameAlreadyExists):
		c.JSON(409, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, "Username already exists"),
		})
	case errors.Is(err, apperrors.ErrDuplicateEntry):
		detail := dto.NewErrorDetail(dto.ErrorCodeDuplicateEntry, "Attendance already marked")
		var dup *apperrors.DuplicateEntryError
		if errors.As(err, &dup) {
			detail = detail.WithDetails(dup.Name)
		}
		c.JSON(409, dto.APIResponse{Error: detail})

	// Scheduling and attendance validation
	case errors.Is(err, apperrors.ErrInvalidTimeRange):
		c.JSON(400, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInvalidTimeRange, "End time must be after start time"),
		})
	case errors.Is(err, apperrors.ErrNoActiveSchedule):
		c.JSON(404, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeNoActiveSchedule, "No scheduled session is active right now"),
		})
	case errors.Is(err, apperrors.ErrStudentNotFound):
		detail := dto.NewErrorDetail(dto.ErrorCodeStudentNotFound, "No enrolled student found with this name")
		var notFound *apperrors.StudentNotFoundError
		if errors.As(err, &notFound) {
			detail = detail.WithDetails(notFound.Name)
		}
		c.JSON(404, dto.APIResponse{Error: detail})
	case errors.Is(err, apperrors.ErrEmptyStudentName):
		c.JSON(400, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "No student name provided"),
		})
	case errors.Is(err, apperrors.ErrMalformedQRPayload):
		c.JSON(400, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeMalformedQR, "Invalid QR code data"),
		})
	case errors.Is(err, apperrors.ErrQRCodeExpired):
		c.JSON(410, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeExpiredQR, "QR code has expired"),
		})

	// Enrollment
	case errors.Is(err, apperrors.ErrInvalidClassCode):
		c.JSON(404, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceInvalid, "Invalid class code"),
		})
	case errors.Is(err, apperrors.ErrNotEnrolled):
		c.JSON(403, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeForbidden, "Not enrolled in this class"),
		})

	case errors.Is(err, apperrors.ErrValidationFailed):
		c.JSON(400, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed"),
		})

	default:
		c.JSON(500, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error"),
		})
	}
}
