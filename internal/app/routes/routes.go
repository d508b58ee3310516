package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/persondata/internal/app/controllers"
	"github.com/yigit/persondata/internal/middleware"
	"github.com/yigit/persondata/internal/pkg/validation"
)

// Dependencies groups what the route table needs.
type Dependencies struct {
	PersonController *controllers.PersonController
	SyncController   *controllers.SyncController
	HealthController *controllers.HealthController
	AuthMiddleware   *middleware.AuthMiddleware
	SyncRateLimiter  *middleware.RateLimiter
	Validator        *validation.IdentityValidator
	MetricsHandler   http.Handler
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, deps Dependencies) {
	// --- Public operational routes ---
	router.GET("/health", deps.HealthController.Health)
	if deps.MetricsHandler != nil {
		router.GET("/metrics", gin.WrapH(deps.MetricsHandler))
	}

	v1 := router.Group("/api/v1")
	v1.Use(deps.AuthMiddleware.JWTAuth())

	idParam := func(param, class string) gin.HandlerFunc {
		return middleware.ValidateIdentifier(deps.Validator, param, class)
	}

	persons := v1.Group("/persons")
	{
		persons.GET("/login/:login", idParam("login", validation.ClassNetID), deps.PersonController.GetByLogin)
		persons.GET("/regid/:regid", idParam("regid", validation.ClassRegID), deps.PersonController.GetByRegistryID)
		persons.GET("/systemkey/:key", idParam("key", validation.ClassSystemKey), deps.PersonController.GetBySystemKey)
		persons.GET("/studentnumber/:number", idParam("number", validation.ClassStudentNumber), deps.PersonController.GetByStudentNumber)
		persons.GET("/active-students", deps.PersonController.ListActiveStudents)
		persons.GET("/active-employees", deps.PersonController.ListActiveEmployees)
	}

	v1.GET("/advisers/:login", idParam("login", validation.ClassNetID), deps.PersonController.GetAdviser)

	// Sync holds a request open for up to the sync timeout.
	v1.POST("/sync/:login", deps.SyncRateLimiter.Handler(), deps.SyncController.SyncPerson)

	queue := v1.Group("/queue")
	{
		queue.POST("/persons/:login", deps.SyncController.EnqueuePerson)
		queue.POST("/students/:key", deps.SyncController.EnqueueEnrolledStudent)
	}
}
