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

// AnnouncementController handles class announcements
type AnnouncementController struct {
	announcementService *services.AnnouncementService
	authz               *auth.AuthorizationService
}

// NewAnnouncementController creates a new AnnouncementController
func NewAnnouncementController(announcementService *services.AnnouncementService, authz *auth.AuthorizationService) *AnnouncementController {
	return &AnnouncementController{
		announcementService: announcementService,
		authz:               authz,
	}
}

// CreateAnnouncementRequest is the body for posting an announcement.
type CreateAnnouncementRequest struct {
	Title   string `json:"title" binding:"required,max=200" example:"Midterm moved"`
	Content string `json:"content" binding:"required,max=2000" example:"The midterm is now on Friday."`
}

// CreateAnnouncement handles posting an announcement
// @Summary Post an announcement
// @Description Posts an announcement to a class
// @Tags announcements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param classId path int true "Class ID"
// @Param request body controllers.CreateAnnouncementRequest true "Announcement"
// @Success 201 {object} dto.APIResponse{data=models.Announcement} "Announcement posted"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Not the class owner"
// @Failure 404 {object} dto.ErrorResponse "Class not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /classes/{classId}/announcements [post]
func (c *AnnouncementController) CreateAnnouncement(ctx *gin.Context) {
	id, ok := classID(ctx)
	if !ok {
		return
	}

	var req CreateAnnouncementRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid announcement data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	professorID, _ := middleware.UserID(ctx)
	if _, err := c.authz.CheckClassOwner(ctx, id, professorID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	announcement, err := c.announcementService.CreateAnnouncement(ctx, id, req.Title, req.Content)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      announcement,
		Timestamp: time.Now(),
	})
}

// ListAnnouncements handles the announcement listing
// @Summary List announcements
// @Description Retrieves a class's announcements, newest first
// @Tags announcements
// @Produce json
// @Security BearerAuth
// @Param classId path int true "Class ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Announcement} "Announcements retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Not the class owner"
// @Failure 404 {object} dto.ErrorResponse "Class not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /classes/{classId}/announcements [get]
func (c *AnnouncementController) ListAnnouncements(ctx *gin.Context) {
	id, ok := classID(ctx)
	if !ok {
		return
	}

	professorID, _ := middleware.UserID(ctx)
	if _, err := c.authz.CheckClassOwner(ctx, id, professorID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	announcements, err := c.announcementService.ListAnnouncements(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      announcements,
		Timestamp: time.Now(),
	})
}

// DeleteAnnouncement handles announcement removal
// @Summary Delete an announcement
// @Description Removes an announcement from a class
// @Tags announcements
// @Produce json
// @Security BearerAuth
// @Param classId path int true "Class ID"
// @Param announcementId path int true "Announcement ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Announcement deleted"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Not the class owner"
// @Failure 404 {object} dto.ErrorResponse "Class or announcement not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /classes/{classId}/announcements/{announcementId} [delete]
func (c *AnnouncementController) DeleteAnnouncement(ctx *gin.Context) {
	id, ok := classID(ctx)
	if !ok {
		return
	}

	announcementID, err := strconv.ParseInt(ctx.Param("announcementId"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid announcement ID")
		errorDetail = errorDetail.WithDetails("Announcement ID must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	professorID, _ := middleware.UserID(ctx)
	if _, err := c.authz.CheckClassOwner(ctx, id, professorID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.announcementService.DeleteAnnouncement(ctx, id, announcementID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Announcement deleted"},
		Timestamp: time.Now(),
	})
}
