package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rollcall-app/rollcall/internal/app/auth"
	"github.com/rollcall-app/rollcall/internal/app/models/dto"
	"github.com/rollcall-app/rollcall/internal/app/services"
	"github.com/rollcall-app/rollcall/internal/middleware"
)

// ClassController handles professor-side class management
type ClassController struct {
	classService *services.ClassService
	authz        *auth.AuthorizationService
}

// NewClassController creates a new ClassController
func NewClassController(classService *services.ClassService, authz *auth.AuthorizationService) *ClassController {
	return &ClassController{
		classService: classService,
		authz:        authz,
	}
}

// classID parses the :classId path parameter.
func classID(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("classId"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid class ID")
		errorDetail = errorDetail.WithDetails("Class ID must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

// CreateClass handles class creation
// @Summary Create a class
// @Description Creates a class owned by the caller with a generated unique join code
// @Tags classes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateClassRequest true "Class information"
// @Success 201 {object} dto.APIResponse{data=models.Class} "Class created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /classes [post]
func (c *ClassController) CreateClass(ctx *gin.Context) {
	var req dto.CreateClassRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid class data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	professorID, _ := middleware.UserID(ctx)

	class, err := c.classService.CreateClass(ctx, professorID, req.Subject, req.Section, req.Room, req.Description)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      class,
		Timestamp: time.Now(),
	})
}

// ListClasses handles the professor dashboard listing
// @Summary List my classes
// @Description Retrieves the caller's classes with schedule, announcement, session and student counts
// @Tags classes
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.ClassWithCounts} "Classes retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /classes [get]
func (c *ClassController) ListClasses(ctx *gin.Context) {
	professorID, _ := middleware.UserID(ctx)

	classes, err := c.classService.ListClasses(ctx, professorID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      classes,
		Timestamp: time.Now(),
	})
}

// GetClassDetail handles the professor class detail view
// @Summary Get class detail
// @Description Retrieves one class with schedules, extra classes, announcements and attendance statistics
// @Tags classes
// @Produce json
// @Security BearerAuth
// @Param classId path int true "Class ID"
// @Success 200 {object} dto.APIResponse{data=dto.ClassDetailResponse} "Class retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Not the class owner"
// @Failure 404 {object} dto.ErrorResponse "Class not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /classes/{classId} [get]
func (c *ClassController) GetClassDetail(ctx *gin.Context) {
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

	detail, err := c.classService.GetClassDetail(ctx, class)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.ClassDetailResponse{
			Class:          detail.Class,
			Schedules:      detail.Schedules,
			ExtraClasses:   detail.ExtraClasses,
			Announcements:  detail.Announcements,
			TotalStudents:  detail.TotalStudents,
			TotalSessions:  detail.TotalSessions,
			AttendanceRate: detail.AttendanceRate,
		},
		Timestamp: time.Now(),
	})
}

// UpdateClass handles class updates
// @Summary Update a class
// @Description Updates a class's subject, section, room and description. The join code never changes.
// @Tags classes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param classId path int true "Class ID"
// @Param request body dto.UpdateClassRequest true "Updated class information"
// @Success 200 {object} dto.APIResponse{data=models.Class} "Class updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Not the class owner"
// @Failure 404 {object} dto.ErrorResponse "Class not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /classes/{classId} [put]
func (c *ClassController) UpdateClass(ctx *gin.Context) {
	id, ok := classID(ctx)
	if !ok {
		return
	}

	var req dto.UpdateClassRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid class data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	professorID, _ := middleware.UserID(ctx)

	class, err := c.authz.CheckClassOwner(ctx, id, professorID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	updated, err := c.classService.UpdateClass(ctx, class, req.Subject, req.Section, req.Room, req.Description)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      updated,
		Timestamp: time.Now(),
	})
}

// DeleteClass handles class deletion
// @Summary Delete a class
// @Description Deletes a class and everything attached to it
// @Tags classes
// @Produce json
// @Security BearerAuth
// @Param classId path int true "Class ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Class deleted"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Not the class owner"
// @Failure 404 {object} dto.ErrorResponse "Class not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /classes/{classId} [delete]
func (c *ClassController) DeleteClass(ctx *gin.Context) {
	id, ok := classID(ctx)
	if !ok {
		return
	}
	professorID, _ := middleware.UserID(ctx)

	if _, err := c.authz.CheckClassOwner(ctx, id, professorID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.classService.DeleteClass(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Class deleted"},
		Timestamp: time.Now(),
	})
}

// ListRoster handles the enrolled-students listing
// @Summary List enrolled students
// @Description Retrieves the students enrolled in a class in enrollment order
// @Tags classes
// @Produce json
// @Security BearerAuth
// @Param classId path int true "Class ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Enrollment} "Roster retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Not the class owner"
// @Failure 404 {object} dto.ErrorResponse "Class not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /classes/{classId}/students [get]
func (c *ClassController) ListRoster(ctx *gin.Context) {
	id, ok := classID(ctx)
	if !ok {
		return
	}
	professorID, _ := middleware.UserID(ctx)

	if _, err := c.authz.CheckClassOwner(ctx, id, professorID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	roster, err := c.classService.ListRoster(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      roster,
		Timestamp: time.Now(),
	})
}

// RemoveStudent handles unenrolling a student
// @Summary Remove a student
// @Description Unenrolls a student from a class
// @Tags classes
// @Produce json
// @Security BearerAuth
// @Param classId path int true "Class ID"
// @Param studentId path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Student removed"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Not the class owner"
// @Failure 404 {object} dto.ErrorResponse "Class or enrollment not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /classes/{classId}/students/{studentId} [delete]
func (c *ClassController) RemoveStudent(ctx *gin.Context) {
	id, ok := classID(ctx)
	if !ok {
		return
	}

	studentID, err := strconv.ParseInt(ctx.Param("studentId"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid student ID")
		errorDetail = errorDetail.WithDetails("Student ID must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	professorID, _ := middleware.UserID(ctx)

	if _, err := c.authz.CheckClassOwner(ctx, id, professorID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.classService.RemoveStudent(ctx, id, studentID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Student removed"},
		Timestamp: time.Now(),
	})
}
