package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dkaraca/coursehub/internal/app/controllers"
	"github.com/dkaraca/coursehub/internal/middleware"
)

// SetupRouter wires all application routes
func SetupRouter(router *gin.Engine, ctrls *controllers.Controllers, authMiddleware *middleware.AuthMiddleware) {
	v1 := router.Group("/api/v1")

	v1.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// --- Public auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", ctrls.Auth.Register)
		auth.POST("/register-staff", ctrls.Auth.RegisterStaff)
		auth.POST("/login", ctrls.Auth.Login)
		auth.POST("/refresh", ctrls.Auth.RefreshToken)
		auth.POST("/logout", ctrls.Auth.Logout)
	}

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		courses := authenticated.Group("/courses")
		{
			courses.GET("", ctrls.Course.List)
			courses.GET("/:id", ctrls.Course.Get)
			courses.POST("/:id/enroll", ctrls.Enrollment.Enroll)
			courses.POST("/:id/files", ctrls.File.Upload)

			staffCourses := courses.Group("")
			staffCourses.Use(authMiddleware.StaffRequired())
			{
				staffCourses.POST("", ctrls.Course.Create)
				staffCourses.PUT("/:id", ctrls.Course.Update)
				staffCourses.DELETE("/:id", ctrls.Course.Delete)
				staffCourses.GET("/:id/enrollments", ctrls.Enrollment.ListByCourse)
			}
		}

		authenticated.GET("/my-courses", ctrls.Enrollment.MyCourses)
		authenticated.GET("/files/:id/download", ctrls.File.Download)
		authenticated.DELETE("/files/:id", ctrls.File.Delete)

		staff := authenticated.Group("")
		staff.Use(authMiddleware.StaffRequired())
		{
			staff.GET("/students", ctrls.Student.List)
			staff.GET("/students/:id", ctrls.Student.Get)
			staff.DELETE("/enrollments/:id", ctrls.Enrollment.Drop)

			superuser := staff.Group("")
			superuser.Use(authMiddleware.SuperuserRequired())
			{
				superuser.DELETE("/students/:id", ctrls.Student.Delete)
				superuser.PUT("/users/:id/role", ctrls.Student.UpdateRole)
			}
		}
	}
}
