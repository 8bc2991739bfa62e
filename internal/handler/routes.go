package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nhan-trinh/phongdaotao/internal/middleware"
	"github.com/nhan-trinh/phongdaotao/internal/models"
	"github.com/nhan-trinh/phongdaotao/internal/service"
)

// Registry collects every handler the API mounts.
type Registry struct {
	Courses       *CourseHandler
	Curriculum    *CurriculumHandler
	Classes       *ClassHandler
	Schedules     *ScheduleHandler
	Assignments   *TeacherAssignmentHandler
	Regulations   *RegulationHandler
	Notifications *NotificationHandler
	Reports       *ReportHandler
	Dashboard     *DashboardHandler
	Users         *UserHandler

	// One registration handler per kind, mounted under its own path.
	Registrations map[models.RegistrationKind]*RegistrationHandler

	Cache        *service.CacheService
	ListTTL      time.Duration
	ReportTTL    time.Duration
	DashboardTTL time.Duration
}

var registrationMounts = map[models.RegistrationKind]string{
	models.RegistrationKindCourse:       "/course-registrations",
	models.RegistrationKindRetakeExam:   "/retake-exam-registrations",
	models.RegistrationKindRetakeCourse: "/retake-course-registrations",
}

// Register mounts every route under the API prefix. Mutations on resources
// with a cached list carry an invalidation middleware, so a decided
// registration never lingers in a cached pending list.
func (reg *Registry) Register(r *gin.Engine, prefix string) {
	api := r.Group(prefix)

	listCache := middleware.ResponseCache(reg.Cache, reg.ListTTL)
	reportCache := middleware.ResponseCache(reg.Cache, reg.ReportTTL)
	dashboardCache := middleware.ResponseCache(reg.Cache, reg.DashboardTTL)

	invalidate := func(paths ...string) gin.HandlerFunc {
		patterns := make([]string, len(paths))
		for i, path := range paths {
			patterns[i] = "resp:" + prefix + path + "*"
		}
		return middleware.CacheInvalidate(reg.Cache, patterns...)
	}

	courses := api.Group("/courses")
	{
		// Course names join into curriculum and class lists.
		inval := invalidate("/courses", "/curriculum", "/classes", "/dashboard")
		courses.GET("", listCache, reg.Courses.List)
		courses.GET("/:id", reg.Courses.Get)
		courses.POST("", inval, reg.Courses.Create)
		courses.PUT("/:id", inval, reg.Courses.Update)
		courses.DELETE("/:id", inval, reg.Courses.Delete)
	}

	curriculum := api.Group("/curriculum")
	{
		inval := invalidate("/curriculum")
		curriculum.GET("", listCache, reg.Curriculum.List)
		curriculum.POST("", inval, reg.Curriculum.Create)
		curriculum.PUT("/:id", inval, reg.Curriculum.Update)
		curriculum.DELETE("/:id", inval, reg.Curriculum.Delete)
	}

	classes := api.Group("/classes")
	{
		inval := invalidate("/classes", "/dashboard")
		classes.GET("", listCache, reg.Classes.List)
		classes.GET("/:id", reg.Classes.Get)
		classes.POST("", inval, reg.Classes.Create)
		classes.PUT("/:id", inval, reg.Classes.Update)
		classes.DELETE("/:id", inval, reg.Classes.Delete)
		classes.GET("/:id/schedule", reg.Schedules.ListByClass)
		classes.GET("/:id/schedule.ics", reg.Schedules.ExportICS)
	}

	schedules := api.Group("/schedules")
	{
		schedules.GET("", reg.Schedules.ListByDay)
		schedules.POST("", reg.Schedules.Create)
		schedules.DELETE("/:id", reg.Schedules.Delete)
	}

	assignments := api.Group("/assignments")
	{
		assignments.GET("", reg.Assignments.List)
		assignments.POST("", reg.Assignments.Create)
		assignments.DELETE("/:id", reg.Assignments.Delete)
	}

	regulations := api.Group("/regulations")
	{
		inval := invalidate("/regulations")
		regulations.GET("", listCache, reg.Regulations.List)
		regulations.GET("/:id", reg.Regulations.Get)
		regulations.POST("", inval, reg.Regulations.Create)
		regulations.PUT("/:id", inval, reg.Regulations.Update)
		regulations.DELETE("/:id", inval, reg.Regulations.Delete)
	}

	notifications := api.Group("/notifications")
	{
		inval := invalidate("/notifications", "/dashboard")
		notifications.GET("", listCache, reg.Notifications.List)
		notifications.GET("/:id", reg.Notifications.Get)
		notifications.POST("", inval, reg.Notifications.Create)
		notifications.PUT("/:id", inval, reg.Notifications.Update)
		notifications.DELETE("/:id", inval, reg.Notifications.Delete)
	}

	for kind, mount := range registrationMounts {
		h, ok := reg.Registrations[kind]
		if !ok {
			continue
		}
		inval := invalidate(mount, "/dashboard")
		group := api.Group(mount)
		group.GET("", listCache, h.List)
		group.GET("/:id", h.Get)
		group.POST("", inval, h.Submit)
		group.POST("/decide", inval, h.Decide)
		group.POST("/decide/bulk", inval, h.DecideBulk)
	}

	reports := api.Group("/reports")
	{
		reports.GET("/grades", reportCache, reg.Reports.GradeReport)
		reports.GET("/test-scores", reportCache, reg.Reports.TestScores)
		reports.GET("/grades/export/:format", reg.Reports.Export)
		reports.POST("/grades/export/:format/async", reg.Reports.RequestExport)
		reports.GET("/exports/:id", reg.Reports.ExportStatus)
		reports.GET("/exports/:id/download", reg.Reports.DownloadExport)
	}

	api.GET("/dashboard", dashboardCache, reg.Dashboard.Summary)

	users := api.Group("/users")
	{
		users.GET("", listCache, reg.Users.List)
		users.GET("/:id", reg.Users.Get)
	}
}
