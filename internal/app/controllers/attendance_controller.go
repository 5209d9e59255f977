package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rollcall-app/rollcall/internal/app/auth"
	"github.com/rollcall-app/rollcall/internal/app/models/dto"
	"github.com/rollcall-app/rollcall/internal/app/services"
	"github.com/rollcall-app/rollcall/internal/middleware"
	"github.com/rollcall-app/rollcall/internal/pkg/apperrors"
	"github.com/rollcall-app/rollcall/internal/pkg/helpers"
)

// AttendanceController handles the professor side of attendance:
// activating scanning, recording scanned students, listing sessions and
// toggling cancellations.
type AttendanceController struct {
	attendanceService *services.AttendanceService
	authz             *auth.AuthorizationService
}

// NewAttendanceController creates a new AttendanceController
func NewAttendanceController(attendanceService *services.AttendanceService, authz *auth.AuthorizationService) *AttendanceController {
	return &AttendanceController{
		attendanceService: attendanceService,
		authz:             authz,
	}
}

// ActivateScanning handles opening the current session for scanning
// @Summary Activate scanning
// @Description Opens (or reopens) the attendance session for the active schedule window and issues a fresh QR payload
// @Tags attendance
// @Produce json
// @Security BearerAuth
// @Param classId path int true "Class ID"
// @Success 200 {object} dto.APIResponse{data=dto.ActivateScanResponse} "Scanning activated"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Not the class owner"
// @Failure 404 {object} dto.ErrorResponse "Class not found or no active schedule"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /classes/{classId}/attendance/activate [post]
func (c *AttendanceController) ActivateScanning(ctx *gin.Context) {
	id, ok := classID(ctx)
	if !ok {
		return
	}

	professorID, _ := middleware.UserID(ctx)
	class, err := c.authz.CheckClassOwner(ctx, id, professorID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	session, err := c.attendanceService.ActivateScanning(ctx, class)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.ActivateScanResponse{
			Record:       session.Record,
			QRData:       session.QRData,
			ScheduleTime: session.ScheduleTime,
		},
		Timestamp: time.Now(),
	})
}

// ProcessScan handles one scanned student QR code. Unlike the rest of the
// API this endpoint always answers 200 with the fixed scan shape, because
// the scanner UI polls it in a tight loop and distinguishes outcomes by
// the body, not the status code.
// @Summary Record a scanned student
// @Description Records attendance for the student whose QR code (their display name) was just scanned
// @Tags attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param classId path int true "Class ID"
// @Param request body dto.ScanRequest true "Scanned student name"
// @Success 200 {object} dto.ScanResponse "Scan outcome"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Not the class owner"
// @Router /classes/{classId}/attendance/scan [post]
func (c *AttendanceController) ProcessScan(ctx *gin.Context) {
	id, ok := classID(ctx)
	if !ok {
		return
	}

	professorID, _ := middleware.UserID(ctx)
	if _, err := c.authz.CheckClassOwner(ctx, id, professorID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.ScanRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusOK, dto.ScanResponse{Error: "Invalid scan data"})
		return
	}

	result, err := c.attendanceService.ProcessScan(ctx, id, req.StudentName)
	if err != nil {
		ctx.JSON(http.StatusOK, scanErrorResponse(result, err))
		return
	}

	ctx.JSON(http.StatusOK, dto.ScanResponse{
		Success:     true,
		Message:     "Attendance marked for " + result.StudentName,
		StudentName: result.StudentName,
	})
}

// scanErrorResponse maps a scan failure onto the fixed scan wire shape.
func scanErrorResponse(result *services.ScanResult, err error) dto.ScanResponse {
	switch {
	case errors.Is(err, apperrors.ErrDuplicateEntry):
		resp := dto.ScanResponse{Error: "Attendance already marked", AlreadyMarked: true}
		if result != nil {
			resp.StudentName = result.StudentName
		}
		var dup *apperrors.DuplicateEntryError
		if errors.As(err, &dup) {
			resp.Error = "Attendance already marked for " + dup.Name
		}
		return resp
	case errors.Is(err, apperrors.ErrStudentNotFound):
		return dto.ScanResponse{Error: "No enrolled student found with this name"}
	case errors.Is(err, apperrors.ErrEmptyStudentName):
		return dto.ScanResponse{Error: "No student name provided"}
	case errors.Is(err, apperrors.ErrNoActiveSchedule):
		return dto.ScanResponse{Error: "No scheduled session is active right now"}
	default:
		return dto.ScanResponse{Error: "Failed to record attendance"}
	}
}

// ListRecords handles the session listing
// @Summary List attendance sessions
// @Description Retrieves a page of a class's attendance sessions with entry counts, newest first
// @Tags attendance
// @Produce json
// @Security BearerAuth
// @Param classId path int true "Class ID"
// @Param page query int false "Page number (1-based)" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse} "Sessions retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Not the class owner"
// @Failure 404 {object} dto.ErrorResponse "Class not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /classes/{classId}/attendance [get]
func (c *AttendanceController) ListRecords(ctx *gin.Context) {
	id, ok := classID(ctx)
	if !ok {
		return
	}

	professorID, _ := middleware.UserID(ctx)
	if _, err := c.authz.CheckClassOwner(ctx, id, professorID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	records, total, err := c.attendanceService.ListRecords(ctx, id, offset, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.PaginatedResponse{
			Items:      records,
			Pagination: helpers.NewPaginationInfo(int64(total), page, size),
		},
		Timestamp: time.Now(),
	})
}

// ListEntries handles the per-session entry listing
// @Summary List session entries
// @Description Retrieves the students marked present in one session, in scan order
// @Tags attendance
// @Produce json
// @Security BearerAuth
// @Param classId path int true "Class ID"
// @Param recordId path int true "Attendance record ID"
// @Success 200 {object} dto.APIResponse{data=[]models.AttendanceEntry} "Entries retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Not the class owner"
// @Failure 404 {object} dto.ErrorResponse "Class or session not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /classes/{classId}/attendance/{recordId}/entries [get]
func (c *AttendanceController) ListEntries(ctx *gin.Context) {
	id, ok := classID(ctx)
	if !ok {
		return
	}

	recordID, ok := recordID(ctx)
	if !ok {
		return
	}

	professorID, _ := middleware.UserID(ctx)
	if _, err := c.authz.CheckClassOwner(ctx, id, professorID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	entries, err := c.attendanceService.ListEntries(ctx, id, recordID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      entries,
		Timestamp: time.Now(),
	})
}

// ToggleCancellation handles flipping a session's canceled flag
// @Summary Toggle session cancellation
// @Description Marks a session canceled, or restores it if already canceled
// @Tags attendance
// @Produce json
// @Security BearerAuth
// @Param classId path int true "Class ID"
// @Param recordId path int true "Attendance record ID"
// @Success 200 {object} dto.APIResponse{data=models.AttendanceRecord} "Cancellation toggled"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Not the class owner"
// @Failure 404 {object} dto.ErrorResponse "Class or session not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /classes/{classId}/attendance/{recordId}/toggle-cancel [post]
func (c *AttendanceController) ToggleCancellation(ctx *gin.Context) {
	id, ok := classID(ctx)
	if !ok {
		return
	}

	recordID, ok := recordID(ctx)
	if !ok {
		return
	}

	professorID, _ := middleware.UserID(ctx)
	if _, err := c.authz.CheckClassOwner(ctx, id, professorID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	record, err := c.attendanceService.ToggleCancellation(ctx, id, recordID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      record,
		Timestamp: time.Now(),
	})
}

// recordID parses the :recordId path parameter.
func recordID(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("recordId"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid record ID")
		errorDetail = errorDetail.WithDetails("Record ID must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}
