package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/Aisenh037/MBC-sub002/auth"
	"github.com/Aisenh037/MBC-sub002/cache"
	"github.com/Aisenh037/MBC-sub002/controller"
	"github.com/Aisenh037/MBC-sub002/middleware"
	"github.com/Aisenh037/MBC-sub002/util"
)

// SetupRouter wires the middleware chain and the full route table. Order
// matters: request id, logging and recovery wrap everything; rate limiting
// runs before authentication; authenticated groups add the tenant scope and
// then per-route role/permission gates.
func SetupRouter(
	controllers *controller.Controllers,
	authMw *middleware.AuthMiddleware,
	pageCache *cache.Cache,
	redisClient *redis.Client,
	rateLimitRequests int,
	rateLimitDuration time.Duration,
) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(middleware.RateLimiter(redisClient, rateLimitRequests, rateLimitDuration))

	router.GET("/health", func(c *gin.Context) {
		util.RespondOK(c, http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")

	// Public authentication endpoints.
	api.POST("/auth/login", controllers.Auth.Login)
	api.POST("/auth/refresh", controllers.Auth.Refresh)

	// Everything below requires a verified identity and a tenant scope.
	authed := api.Group("")
	authed.Use(authMw.Authenticate())
	authed.Use(authMw.TenantScope())

	authed.POST("/auth/logout", controllers.Auth.Logout)
	authed.GET("/auth/me", controllers.Auth.Me)

	// Account management, admin only.
	users := authed.Group("/users")
	users.Use(authMw.RequireRoles(auth.RoleAdmin))
	{
		users.POST("", controllers.User.Register)
		users.GET("", controllers.User.ListUsers)
		users.GET("/:id", controllers.User.GetUser)
		users.PUT("/:id", controllers.User.UpdateUser)
		users.POST("/:id/deactivate", controllers.User.DeactivateUser)
		users.DELETE("/:id", controllers.User.DeleteUser)
	}

	institutions := authed.Group("/institutions")
	institutions.Use(authMw.RequireRoles(auth.RoleAdmin))
	{
		institutions.POST("", controllers.Institution.CreateInstitution)
		institutions.GET("", controllers.Institution.ListInstitutions)
		institutions.GET("/:id", controllers.Institution.GetInstitution)
	}

	students := authed.Group("/students")
	{
		students.GET("", authMw.RequirePermission("students", "read"),
			middleware.CachePage(pageCache, "students", cache.TTLShort), controllers.Student.ListStudents)
		students.GET("/:id", authMw.RequirePermission("students", "read"), controllers.Student.GetStudent)
		students.POST("", authMw.RequireRoles(auth.RoleAdmin), controllers.Student.CreateStudent)
		students.PUT("/:id", authMw.RequireRoles(auth.RoleAdmin), controllers.Student.UpdateStudent)
		students.DELETE("/:id", authMw.RequireRoles(auth.RoleAdmin), controllers.Student.DeleteStudent)
	}

	professors := authed.Group("/professors")
	{
		professors.GET("", authMw.RequirePermission("professors", "read"),
			middleware.CachePage(pageCache, "professors", cache.TTLMedium), controllers.Professor.ListProfessors)
		professors.GET("/:id", authMw.RequirePermission("professors", "read"), controllers.Professor.GetProfessor)
		professors.POST("", authMw.RequireRoles(auth.RoleAdmin), controllers.Professor.CreateProfessor)
		professors.PUT("/:id", authMw.RequireRoles(auth.RoleAdmin), controllers.Professor.UpdateProfessor)
		professors.DELETE("/:id", authMw.RequireRoles(auth.RoleAdmin), controllers.Professor.DeleteProfessor)
	}

	courses := authed.Group("/courses")
	{
		courses.GET("", authMw.RequirePermission("courses", "read"),
			middleware.CachePage(pageCache, "courses", cache.TTLLong), controllers.Course.ListCourses)
		courses.GET("/:id", authMw.RequirePermission("courses", "read"), controllers.Course.GetCourse)
		courses.POST("", authMw.RequireRoles(auth.RoleAdmin), controllers.Course.CreateCourse)
		courses.PUT("/:id", authMw.RequireRoles(auth.RoleAdmin), controllers.Course.UpdateCourse)
		courses.DELETE("/:id", authMw.RequireRoles(auth.RoleAdmin), controllers.Course.DeleteCourse)
	}

	branches := authed.Group("/branches")
	{
		branches.GET("", authMw.RequirePermission("branches", "read"),
			middleware.CachePage(pageCache, "branches", cache.TTLLong), controllers.Branch.ListBranches)
		branches.GET("/:id", authMw.RequirePermission("branches", "read"), controllers.Branch.GetBranch)
		branches.POST("", authMw.RequireRoles(auth.RoleAdmin), controllers.Branch.CreateBranch)
		branches.PUT("/:id", authMw.RequireRoles(auth.RoleAdmin), controllers.Branch.UpdateBranch)
		branches.DELETE("/:id", authMw.RequireRoles(auth.RoleAdmin), controllers.Branch.DeleteBranch)
	}

	assignments := authed.Group("/assignments")
	{
		assignments.GET("", authMw.RequirePermission("assignments", "read"),
			middleware.CachePage(pageCache, "assignments", cache.TTLShort), controllers.Assignment.ListAssignments)
		assignments.GET("/:id", authMw.RequirePermission("assignments", "read"), controllers.Assignment.GetAssignment)
		assignments.POST("", authMw.RequirePermission("assignments", "create"), controllers.Assignment.CreateAssignment)
		assignments.PUT("/:id", authMw.RequirePermission("assignments", "update"), controllers.Assignment.UpdateAssignment)
		assignments.DELETE("/:id", authMw.RequirePermission("assignments", "delete"), controllers.Assignment.DeleteAssignment)
	}

	marks := authed.Group("/marks")
	{
		marks.POST("", authMw.RequirePermission("marks", "create"), controllers.Mark.CreateMark)
		marks.GET("/:id", authMw.RequirePermission("marks", "read"), controllers.Mark.GetMark)
		marks.PUT("/:id", authMw.RequirePermission("marks", "update"), controllers.Mark.UpdateMark)
		marks.DELETE("/:id", authMw.RequirePermission("marks", "delete"), controllers.Mark.DeleteMark)
	}
	// Student marks live under the student path so the self-access condition
	// binds to the id parameter.
	authed.GET("/students/:id/marks", authMw.RequirePermission("marks", "read"), controllers.Mark.ListStudentMarks)

	attendance := authed.Group("/attendance")
	{
		attendance.POST("", authMw.RequirePermission("attendance", "create"), controllers.Attendance.RecordAttendance)
		attendance.GET("/:userId", authMw.RequirePermission("attendance", "read"), controllers.Attendance.ListAttendance)
		attendance.GET("/:userId/summary", authMw.RequirePermission("attendance", "read"), controllers.Attendance.AttendanceSummary)
		attendance.DELETE("/:userId/:id", authMw.RequirePermission("attendance", "delete"), controllers.Attendance.DeleteAttendance)
	}

	notices := authed.Group("/notices")
	{
		notices.GET("", authMw.RequirePermission("notices", "read"),
			middleware.CachePage(pageCache, "notices", cache.TTLShort), controllers.Notice.ListNotices)
		notices.GET("/:id", authMw.RequirePermission("notices", "read"), controllers.Notice.GetNotice)
		notices.POST("", authMw.RequirePermission("notices", "create"), controllers.Notice.CreateNotice)
		notices.PUT("/:id", authMw.RequirePermission("notices", "update"), controllers.Notice.UpdateNotice)
		notices.DELETE("/:id", authMw.RequirePermission("notices", "delete"), controllers.Notice.DeleteNotice)
	}

	analytics := authed.Group("/analytics")
	{
		analytics.GET("/performance/:userId", authMw.RequirePermission("analytics", "read"), controllers.Analytics.StudentPerformance)
		analytics.GET("/department", authMw.RequireRoles(auth.RoleAdmin, auth.RoleProfessor),
			middleware.CachePage(pageCache, "analytics", cache.TTLMedium), controllers.Analytics.DepartmentReport)
		analytics.POST("/predict", authMw.RequirePermission("analytics", "read"), controllers.Analytics.PredictTrend)
	}

	sentiment := authed.Group("/sentiment")
	{
		sentiment.POST("/feedback", authMw.RequirePermission("feedback", "create"), controllers.Sentiment.AnalyzeFeedback)
		sentiment.GET("/report", authMw.RequireRoles(auth.RoleAdmin, auth.RoleProfessor),
			middleware.CachePage(pageCache, "sentiment", cache.TTLMedium), controllers.Sentiment.SentimentReport)
	}

	authed.GET("/dashboard", authMw.RequirePermission("dashboard", "read"),
		middleware.CachePage(pageCache, "dashboard", cache.TTLMedium), controllers.Analytics.Dashboard)

	return router
}
