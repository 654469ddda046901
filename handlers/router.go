package handlers

import (
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"school-registry-go/logger"
)

// NewRouter wires every route onto a fresh gin engine. Any origin may call
// the API.
func NewRouter(h *APIHandler, log *slog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.GinMiddleware(log))
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept"},
		MaxAge:          12 * time.Hour,
	}))

	router.POST("/add_student", h.AddStudent)
	router.POST("/add_teacher", h.AddTeacher)
	router.POST("/add_course", h.AddCourse)
	router.POST("/assign_teacher", h.AssignTeacher)
	router.POST("/enroll", h.Enroll)
	router.POST("/grade", h.Grade)

	router.GET("/students", h.GetStudents)
	router.GET("/students/:name", h.GetStudentByName)
	router.GET("/teachers", h.GetTeachers)
	router.GET("/courses", h.GetCourses)
	router.GET("/courses/:name", h.GetCourseByName)

	router.POST("/import/students", h.ImportStudents)
	router.GET("/export/grades", h.ExportGrades)

	router.GET("/ping", PingHandler)

	return router
}
