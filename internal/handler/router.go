package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-dashboard-api/internal/middleware"
	"github.com/noah-isme/sma-dashboard-api/internal/models"
	"github.com/noah-isme/sma-dashboard-api/internal/service"
)

// Handlers groups every resource handler mounted by Register.
type Handlers struct {
	Auth           *AuthHandler
	Users          *UserHandler
	Students       *StudentHandler
	Teachers       *TeacherHandler
	Classes        *ClassHandler
	ClassSubjects  *ClassSubjectHandler
	Subjects       *SubjectHandler
	Timetable      *TimetableHandler
	Attendance     *AttendanceHandler
	Marks          *MarkHandler
	Fees           *FeeHandler
	Leave          *LeaveHandler
	Communications *CommunicationHandler
	Promotions     *PromotionHandler
	Announcements  *AnnouncementHandler
	Performance    *PerformanceHandler
	Dashboard      *DashboardHandler
	Exports        *ExportHandler
	Metrics        *MetricsHandler
}

// Services is the set of domain services the API is built from.
type Services struct {
	Auth           *service.AuthService
	Users          *service.UserService
	Students       *service.StudentService
	Teachers       *service.TeacherService
	Classes        *service.ClassService
	Subjects       *service.SubjectService
	Timetable      *service.TimetableService
	Attendance     *service.AttendanceService
	Marks          *service.MarkService
	Fees           *service.FeeService
	Leave          *service.LeaveService
	Communications *service.CommunicationService
	Promotions     *service.PromotionService
	Announcements  *service.AnnouncementService
	Performance    *service.PerformanceService
	Dashboard      *service.DashboardService
	Exports        *service.ExportService
	Metrics        *service.MetricsService
}

// NewHandlers builds one handler per service.
func NewHandlers(s Services) Handlers {
	return Handlers{
		Auth:           NewAuthHandler(s.Auth, s.Users),
		Users:          NewUserHandler(s.Users),
		Students:       NewStudentHandler(s.Students),
		Teachers:       NewTeacherHandler(s.Teachers),
		Classes:        NewClassHandler(s.Classes),
		ClassSubjects:  NewClassSubjectHandler(s.Classes),
		Subjects:       NewSubjectHandler(s.Subjects),
		Timetable:      NewTimetableHandler(s.Timetable),
		Attendance:     NewAttendanceHandler(s.Attendance),
		Marks:          NewMarkHandler(s.Marks),
		Fees:           NewFeeHandler(s.Fees),
		Leave:          NewLeaveHandler(s.Leave),
		Communications: NewCommunicationHandler(s.Communications),
		Promotions:     NewPromotionHandler(s.Promotions),
		Announcements:  NewAnnouncementHandler(s.Announcements),
		Performance:    NewPerformanceHandler(s.Performance),
		Dashboard:      NewDashboardHandler(s.Dashboard),
		Exports:        NewExportHandler(s.Exports),
		Metrics:        NewMetricsHandler(s.Metrics),
	}
}

// Register mounts the API under group. Everything except sign-in requires a
// bearer token; role gates here are coarse and services apply record scope.
func Register(group *gin.RouterGroup, auth *service.AuthService, h Handlers) {
	group.POST("/auth/login", h.Auth.Login)

	api := group.Group("")
	api.Use(middleware.JWT(auth), middleware.WithResponseMeta())

	principal := middleware.RequireRoles(models.RolePrincipal)
	staff := middleware.RequireRoles(models.RolePrincipal, models.RoleTeacher)

	api.GET("/auth/me", h.Auth.Me)

	users := api.Group("/users")
	users.GET("", principal, h.Users.List)
	users.POST("", principal, h.Users.Create)
	users.GET("/:id", h.Users.Get)
	users.PUT("/:id", h.Users.Update)
	users.DELETE("/:id", principal, h.Users.Delete)

	students := api.Group("/students")
	students.GET("", h.Students.List)
	students.GET("/full", staff, h.Students.FullData)
	students.POST("", principal, h.Students.Create)
	students.GET("/:id", h.Students.Get)
	students.PUT("/:id", principal, h.Students.Update)
	students.DELETE("/:id", principal, h.Students.Delete)
	students.GET("/:id/attendance", h.Attendance.ForStudent)
	students.GET("/:id/marks", h.Marks.ForStudent)
	students.GET("/:id/fees", h.Fees.ForStudent)
	students.GET("/:id/leave-requests", h.Leave.ForStudent)
	students.GET("/:id/communications", h.Communications.ForStudent)
	students.GET("/:id/promotions", h.Promotions.ForStudent)

	teachers := api.Group("/teachers")
	teachers.GET("", h.Teachers.List)
	teachers.POST("", principal, h.Teachers.Create)
	teachers.GET("/:id", h.Teachers.Get)
	teachers.PUT("/:id", principal, h.Teachers.Update)
	teachers.DELETE("/:id", principal, h.Teachers.Delete)
	teachers.GET("/:id/subjects", h.Teachers.Subjects)
	teachers.GET("/:id/students", staff, h.Students.ForTeacher)
	teachers.GET("/:id/timetable", h.Timetable.ForTeacher)
	teachers.GET("/:id/attendance", staff, h.Attendance.ForTeacher)
	teachers.GET("/:id/marks", staff, h.Marks.ForTeacher)
	teachers.GET("/:id/leave-requests", staff, h.Leave.ForTeacher)
	teachers.GET("/:id/communications", staff, h.Communications.ForTeacher)

	classes := api.Group("/classes")
	classes.GET("", h.Classes.List)
	classes.POST("", principal, h.Classes.Create)
	classes.GET("/:id", h.Classes.Get)
	classes.PUT("/:id", principal, h.Classes.Update)
	classes.DELETE("/:id", principal, h.Classes.Delete)
	classes.GET("/:id/subjects", h.ClassSubjects.List)
	classes.POST("/:id/subjects", principal, h.ClassSubjects.Assign)
	classes.GET("/:id/timetable", h.Timetable.ForClass)
	api.DELETE("/class-subjects/:assignmentId", principal, h.ClassSubjects.Unassign)

	subjects := api.Group("/subjects")
	subjects.GET("", h.Subjects.List)
	subjects.POST("", principal, h.Subjects.Create)
	subjects.GET("/:id", h.Subjects.Get)
	subjects.PUT("/:id", principal, h.Subjects.Update)
	subjects.DELETE("/:id", principal, h.Subjects.Delete)

	timetable := api.Group("/timetable")
	timetable.GET("", h.Timetable.List)
	timetable.POST("", principal, h.Timetable.Create)
	timetable.PUT("/:id", principal, h.Timetable.Update)
	timetable.DELETE("/:id", principal, h.Timetable.Delete)

	attendance := api.Group("/attendance", staff)
	attendance.POST("", h.Attendance.Record)
	attendance.PUT("/:id", h.Attendance.UpdateStatus)
	attendance.DELETE("/:id", h.Attendance.Delete)

	marks := api.Group("/marks", staff)
	marks.POST("", h.Marks.Record)
	marks.PUT("/:id", h.Marks.Update)
	marks.DELETE("/:id", h.Marks.Delete)

	fees := api.Group("/fees")
	fees.GET("", principal, h.Fees.List)
	fees.POST("", principal, h.Fees.Create)
	fees.PUT("/:id", principal, h.Fees.Update)
	fees.DELETE("/:id", principal, h.Fees.Delete)
	fees.POST("/:id/pay", h.Fees.Pay)

	leave := api.Group("/leave-requests")
	leave.POST("", h.Leave.Create)
	leave.PUT("/:id/status", staff, h.Leave.Decide)
	leave.DELETE("/:id", principal, h.Leave.Delete)

	communications := api.Group("/communications")
	communications.POST("", h.Communications.Create)
	communications.PUT("/:id", staff, h.Communications.Update)
	communications.DELETE("/:id", principal, h.Communications.Delete)

	promotions := api.Group("/promotions")
	promotions.GET("", principal, h.Promotions.List)
	promotions.POST("", principal, h.Promotions.Create)

	announcements := api.Group("/announcements")
	announcements.GET("", h.Announcements.List)
	announcements.POST("", principal, h.Announcements.Create)
	announcements.PUT("/:id", principal, h.Announcements.Update)
	announcements.DELETE("/:id", principal, h.Announcements.Delete)

	api.GET("/performance/school", principal, h.Performance.School)
	api.GET("/performance/students/:id", h.Performance.Student)

	api.GET("/dashboard", h.Dashboard.Me)
	api.GET("/dashboard/principal", principal, h.Dashboard.Principal)
	api.GET("/dashboard/teachers/:id", staff, h.Dashboard.Teacher)
	api.GET("/dashboard/students/:id", h.Dashboard.Student)

	api.GET("/exports/students", principal, h.Exports.Students)
	api.GET("/system/metrics", principal, h.Metrics.Snapshot)
}
