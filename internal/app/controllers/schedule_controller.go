package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rollcall-app/rollcall/internal/app/auth"
	"github.com/rollcall-app/rollcall/internal/app/models"
	"github.com/rollcall-app/rollcall/internal/app/models/dto"
	"github.com/rollcall-app/rollcall/internal/app/services"
	"github.com/rollcall-app/rollcall/internal/middleware"
	"github.com/rollcall-app/rollcall/internal/pkg/timerange"
)

// ScheduleController handles weekly schedules and extra classes
type ScheduleController struct {
	scheduleService *services.ScheduleService
	authz           *auth.AuthorizationService
}

// NewScheduleController creates a new ScheduleController
func NewScheduleController(scheduleService *services.ScheduleService, authz *auth.AuthorizationService) *ScheduleController {
	return &ScheduleController{
		scheduleService: scheduleService,
		authz:           authz,
	}
}

func bindTimeRange(ctx *gin.Context, startStr, endStr string) (timerange.TimeOfDay, timerange.TimeOfDay, bool) {
	start, err := timerange.Parse(startStr)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid start time")
		errorDetail = errorDetail.WithDetails("Times must be HH:MM in 24-hour form").WithField("startTime")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return timerange.TimeOfDay{}, timerange.TimeOfDay{}, false
	}

	end, err := timerange.Parse(endStr)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid end time")
		errorDetail = errorDetail.WithDetails("Times must be HH:MM in 24-hour form").WithField("endTime")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return timerange.TimeOfDay{}, timerange.TimeOfDay{}, false
	}

	return start, end, true
}

// AddSchedule handles weekly schedule creation
// @Summary Add a weekly schedule
// @Description Adds a recurring weekly slot to a class, rejecting overlaps with existing slots on the same day
// @Tags schedules
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param classId path int true "Class ID"
// @Param request body dto.AddScheduleRequest true "Schedule information"
// @Success 201 {object} dto.APIResponse{data=models.Schedule} "Schedule created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data or time range"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Not the class owner"
// @Failure 404 {object} dto.ErrorResponse "Class not found"
// @Failure 409 {object} dto.ErrorResponse "Schedule conflict"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /classes/{classId}/schedules [post]
func (c *ScheduleController) AddSchedule(ctx *gin.Context) {
	id, ok := classID(ctx)
	if !ok {
		return
	}

	var req dto.AddScheduleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid schedule data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	start, end, ok := bindTimeRange(ctx, req.StartTime, req.EndTime)
	if !ok {
		return
	}

	professorID, _ := middleware.UserID(ctx)
	if _, err := c.authz.CheckClassOwner(ctx, id, professorID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	schedule, err := c.scheduleService.AddSchedule(ctx, id, models.Day(req.Day), start, end)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      schedule,
		Timestamp: time.Now(),
	})
}

// DeleteSchedule handles weekly schedule removal
// @Summary Delete a weekly schedule
// @Description Removes a recurring slot from a class
// @Tags schedules
// @Produce json
// @Security BearerAuth
// @Param classId path int true "Class ID"
// @Param scheduleId path int true "Schedule ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Schedule deleted"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Not the class owner"
// @Failure 404 {object} dto.ErrorResponse "Class or schedule not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /classes/{classId}/schedules/{scheduleId} [delete]
func (c *ScheduleController) DeleteSchedule(ctx *gin.Context) {
	id, ok := classID(ctx)
	if !ok {
		return
	}

	scheduleID, err := strconv.ParseInt(ctx.Param("scheduleId"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid schedule ID")
		errorDetail = errorDetail.WithDetails("Schedule ID must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	professorID, _ := middleware.UserID(ctx)
	if _, err := c.authz.CheckClassOwner(ctx, id, professorID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.scheduleService.DeleteSchedule(ctx, id, scheduleID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Schedule deleted"},
		Timestamp: time.Now(),
	})
}

// AddExtraClass handles one-off session creation
// @Summary Add an extra class
// @Description Schedules a one-off session on a specific date, rejecting overlaps with weekly slots on that weekday and other extras on the same date
// @Tags schedules
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param classId path int true "Class ID"
// @Param request body dto.AddExtraClassRequest true "Extra class information"
// @Success 201 {object} dto.APIResponse{data=models.ExtraClass} "Extra class created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data or time range"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Not the class owner"
// @Failure 404 {object} dto.ErrorResponse "Class not found"
// @Failure 409 {object} dto.ErrorResponse "Schedule conflict"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /classes/{classId}/extra-classes [post]
func (c *ScheduleController) AddExtraClass(ctx *gin.Context) {
	id, ok := classID(ctx)
	if !ok {
		return
	}

	var req dto.AddExtraClassRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid extra class data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid date")
		errorDetail = errorDetail.WithDetails("Date must be YYYY-MM-DD").WithField("date")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	start, end, ok := bindTimeRange(ctx, req.StartTime, req.EndTime)
	if !ok {
		return
	}

	professorID, _ := middleware.UserID(ctx)
	if _, err := c.authz.CheckClassOwner(ctx, id, professorID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	extra, err := c.scheduleService.AddExtraClass(ctx, id, date, start, end, req.Reason)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      extra,
		Timestamp: time.Now(),
	})
}

// DeleteExtraClass handles one-off session removal
// @Summary Delete an extra class
// @Description Removes a one-off session from a class
// @Tags schedules
// @Produce json
// @Security BearerAuth
// @Param classId path int true "Class ID"
// @Param extraClassId path int true "Extra class ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Extra class deleted"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Not the class owner"
// @Failure 404 {object} dto.ErrorResponse "Class or extra class not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /classes/{classId}/extra-classes/{extraClassId} [delete]
func (c *ScheduleController) DeleteExtraClass(ctx *gin.Context) {
	id, ok := classID(ctx)
	if !ok {
		return
	}

	extraID, err := strconv.ParseInt(ctx.Param("extraClassId"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid extra class ID")
		errorDetail = errorDetail.WithDetails("Extra class ID must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	professorID, _ := middleware.UserID(ctx)
	if _, err := c.authz.CheckClassOwner(ctx, id, professorID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.scheduleService.DeleteExtraClass(ctx, id, extraID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Extra class deleted"},
		Timestamp: time.Now(),
	})
}
