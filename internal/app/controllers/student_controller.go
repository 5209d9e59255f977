package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rollcall-app/rollcall/internal/app/auth"
	"github.com/rollcall-app/rollcall/internal/app/models/dto"
	"github.com/rollcall-app/rollcall/internal/app/repositories"
	"github.com/rollcall-app/rollcall/internal/app/services"
	"github.com/rollcall-app/rollcall/internal/middleware"
	"github.com/rollcall-app/rollcall/internal/pkg/apperrors"
)

// StudentController handles the student side: joining classes, the
// dashboard, the calendar and the personal QR code.
type StudentController struct {
	enrollmentService *services.EnrollmentService
	attendanceService *services.AttendanceService
	userRepo          *repositories.UserRepository
	authz             *auth.AuthorizationService
}

// NewStudentController creates a new StudentController
func NewStudentController(
	enrollmentService *services.EnrollmentService,
	attendanceService *services.AttendanceService,
	userRepo *repositories.UserRepository,
	authz *auth.AuthorizationService,
) *StudentController {
	return &StudentController{
		enrollmentService: enrollmentService,
		attendanceService: attendanceService,
		userRepo:          userRepo,
		authz:             authz,
	}
}

// JoinClass handles enrolling by class code
// @Summary Join a class
// @Description Enrolls the caller in the class matching a 6-character join code
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.JoinClassRequest true "Class code"
// @Success 200 {object} dto.APIResponse{data=models.Class} "Enrolled"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Invalid class code"
// @Failure 409 {object} dto.ErrorResponse "Already enrolled"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /student/classes/join [post]
func (c *StudentController) JoinClass(ctx *gin.Context) {
	var req dto.JoinClassRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid join request")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	studentID, _ := middleware.UserID(ctx)

	class, err := c.enrollmentService.JoinByCode(ctx, studentID, req.ClassCode)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      class,
		Timestamp: time.Now(),
	})
}

// LeaveClass handles unenrolling from a class
// @Summary Leave a class
// @Description Unenrolls the caller from a class
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param classId path int true "Class ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Unenrolled"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Not enrolled"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /student/classes/{classId} [delete]
func (c *StudentController) LeaveClass(ctx *gin.Context) {
	id, ok := classID(ctx)
	if !ok {
		return
	}

	studentID, _ := middleware.UserID(ctx)

	if err := c.enrollmentService.Leave(ctx, studentID, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Left class"},
		Timestamp: time.Now(),
	})
}

// ListMyClasses handles the student dashboard
// @Summary List my classes
// @Description Retrieves the caller's enrolled classes with schedules, recent announcements and attendance tallies
// @Tags students
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.EnrolledClassResponse} "Classes retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /student/classes [get]
func (c *StudentController) ListMyClasses(ctx *gin.Context) {
	studentID, _ := middleware.UserID(ctx)

	classes, err := c.enrollmentService.ListStudentClasses(ctx, studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	result := make([]dto.EnrolledClassResponse, 0, len(classes))
	for _, enrolled := range classes {
		result = append(result, dto.EnrolledClassResponse{
			Class:               enrolled.Class,
			Schedules:           enrolled.Schedules,
			RecentAnnouncements: enrolled.RecentAnnouncements,
			AttendanceCount:     enrolled.AttendanceCount,
		})
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      result,
		Timestamp: time.Now(),
	})
}

// GetClassDetail handles the student class detail view
// @Summary Get class detail
// @Description Retrieves one enrolled class with schedules, announcements and the caller's attendance history
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param classId path int true "Class ID"
// @Success 200 {object} dto.APIResponse{data=dto.StudentClassDetailResponse} "Class retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Not enrolled"
// @Failure 404 {object} dto.ErrorResponse "Class not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /student/classes/{classId} [get]
func (c *StudentController) GetClassDetail(ctx *gin.Context) {
	id, ok := classID(ctx)
	if !ok {
		return
	}

	studentID, _ := middleware.UserID(ctx)

	class, err := c.authz.CheckEnrolled(ctx, id, studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	detail, err := c.enrollmentService.GetStudentClassDetail(ctx, class, studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.StudentClassDetailResponse{
			Class:             detail.Class,
			Schedules:         detail.Schedules,
			Announcements:     detail.Announcements,
			AttendanceRecords: detail.AttendanceRecords,
			TotalAttendance:   detail.TotalAttendance,
			TotalSessions:     detail.TotalSessions,
		},
		Timestamp: time.Now(),
	})
}

// GetCalendar handles the combined calendar view
// @Summary Get my calendar
// @Description Aggregates weekly slots by day, extra classes by date and cancellations by date across all enrolled classes
// @Tags students
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.StudentCalendarResponse} "Calendar retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /student/calendar [get]
func (c *StudentController) GetCalendar(ctx *gin.Context) {
	studentID, _ := middleware.UserID(ctx)

	calendar, err := c.enrollmentService.StudentCalendar(ctx, studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      calendar,
		Timestamp: time.Now(),
	})
}

// GetMyQR handles the personal QR payload
// @Summary Get my QR code
// @Description Returns the display name the caller renders as their personal QR code for professors to scan
// @Tags students
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.StudentQRResponse} "QR payload retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /student/qr [get]
func (c *StudentController) GetMyQR(ctx *gin.Context) {
	studentID, _ := middleware.UserID(ctx)

	user, err := c.userRepo.GetUserByID(ctx, studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	name := user.DisplayName()
	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.StudentQRResponse{
			StudentName: name,
			QRData:      name,
		},
		Timestamp: time.Now(),
	})
}

// VerifyQRCode handles the student-side scan of a session QR code. Like
// the professor scan endpoint it answers 200 with the fixed scan shape.
// @Summary Verify a session QR code
// @Description Validates a scanned session QR payload and marks the caller present
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.VerifyQRRequest true "Raw QR payload"
// @Success 200 {object} dto.ScanResponse "Scan outcome"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /student/attendance/verify [post]
func (c *StudentController) VerifyQRCode(ctx *gin.Context) {
	var req dto.VerifyQRRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusOK, dto.ScanResponse{Error: "Invalid QR code data"})
		return
	}

	studentID, _ := middleware.UserID(ctx)

	if _, err := c.attendanceService.VerifyQRCode(ctx, studentID, req.QRCodeData); err != nil {
		ctx.JSON(http.StatusOK, verifyErrorResponse(err))
		return
	}

	ctx.JSON(http.StatusOK, dto.ScanResponse{
		Success: true,
		Message: "Attendance marked",
	})
}

func verifyErrorResponse(err error) dto.ScanResponse {
	switch {
	case errors.Is(err, apperrors.ErrDuplicateEntry):
		return dto.ScanResponse{Error: "Attendance already marked", AlreadyMarked: true}
	case errors.Is(err, apperrors.ErrMalformedQRPayload):
		return dto.ScanResponse{Error: "Invalid QR code data"}
	case errors.Is(err, apperrors.ErrQRCodeExpired):
		return dto.ScanResponse{Error: "QR code has expired"}
	case errors.Is(err, apperrors.ErrNotEnrolled):
		return dto.ScanResponse{Error: "Not enrolled in this class"}
	case errors.Is(err, apperrors.ErrSessionNotFound):
		return dto.ScanResponse{Error: "No attendance session found for this QR code"}
	default:
		return dto.ScanResponse{Error: "Failed to record attendance"}
	}
}
