package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rollcall-app/rollcall/internal/app/controllers"
	"github.com/rollcall-app/rollcall/internal/app/models"
	"github.com/rollcall-app/rollcall/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	classController *controllers.ClassController,
	scheduleController *controllers.ScheduleController,
	announcementController *controllers.AnnouncementController,
	attendanceController *controllers.AttendanceController,
	studentController *controllers.StudentController,
	authMiddleware *middleware.AuthMiddleware,
) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API version group
	v1 := router.Group("/api/v1")

	// --- Public auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.RefreshToken)
	}

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	authenticated.POST("/auth/logout", authController.Logout)

	// Professor routes: class management, scheduling, announcements and
	// attendance sessions. Ownership is enforced per request on top of the
	// role check.
	professor := authenticated.Group("/classes")
	professor.Use(authMiddleware.RoleRequired(string(models.RoleProfessor)))
	{
		professor.POST("", classController.CreateClass)
		professor.GET("", classController.ListClasses)
		professor.GET("/:classId", classController.GetClassDetail)
		professor.PUT("/:classId", classController.UpdateClass)
		professor.DELETE("/:classId", classController.DeleteClass)

		professor.GET("/:classId/students", classController.ListRoster)
		professor.DELETE("/:classId/students/:studentId", classController.RemoveStudent)

		professor.POST("/:classId/schedules", scheduleController.AddSchedule)
		professor.DELETE("/:classId/schedules/:scheduleId", scheduleController.DeleteSchedule)
		professor.POST("/:classId/extra-classes", scheduleController.AddExtraClass)
		professor.DELETE("/:classId/extra-classes/:extraClassId", scheduleController.DeleteExtraClass)

		professor.POST("/:classId/announcements", announcementController.CreateAnnouncement)
		professor.GET("/:classId/announcements", announcementController.ListAnnouncements)
		professor.DELETE("/:classId/announcements/:announcementId", announcementController.DeleteAnnouncement)

		professor.POST("/:classId/attendance/activate", attendanceController.ActivateScanning)
		professor.POST("/:classId/attendance/scan", attendanceController.ProcessScan)
		professor.GET("/:classId/attendance", attendanceController.ListRecords)
		professor.GET("/:classId/attendance/:recordId/entries", attendanceController.ListEntries)
		professor.POST("/:classId/attendance/:recordId/toggle-cancel", attendanceController.ToggleCancellation)
	}

	// Student routes: enrollment, dashboard, calendar and QR flows.
	student := authenticated.Group("/student")
	student.Use(authMiddleware.RoleRequired(string(models.RoleStudent)))
	{
		student.POST("/classes/join", studentController.JoinClass)
		student.GET("/classes", studentController.ListMyClasses)
		student.GET("/classes/:classId", studentController.GetClassDetail)
		student.DELETE("/classes/:classId", studentController.LeaveClass)
		student.GET("/calendar", studentController.GetCalendar)
		student.GET("/qr", studentController.GetMyQR)
		student.POST("/attendance/verify", studentController.VerifyQRCode)
	}
}
