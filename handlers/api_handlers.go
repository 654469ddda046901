package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"school-registry-go/db"
	"school-registry-go/models"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// APIHandler holds the dependencies for API handlers: the registry and the
// event publisher
type APIHandler struct {
	Registry *db.Registry
	Events   db.EventPublisher
}

// NewAPIHandler creates a new APIHandler. A nil publisher drops events.
func NewAPIHandler(registry *db.Registry, events db.EventPublisher) *APIHandler {
	if events == nil {
		events = db.NopPublisher{}
	}
	return &APIHandler{
		Registry: registry,
		Events:   events,
	}
}

// statusFor maps registry errors to HTTP statuses
func statusFor(err error) int {
	switch {
	case errors.Is(err, db.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, db.ErrAlreadyExists), errors.Is(err, db.ErrNotFound):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// fail writes the error response. Unexpected errors are logged and hidden.
func fail(c *gin.Context, err error, message string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		slog.Error("Unexpected registry error", "path", c.FullPath(), "error", err)
		message = "Internal server error"
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": message})
}

func badBody(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
}

// publish announces a mutation. Failures never change the response.
func (h *APIHandler) publish(c *gin.Context, event models.Event) {
	event.At = time.Now().UTC()
	if err := h.Events.Publish(c.Request.Context(), event); err != nil {
		slog.Warn("Failed to publish event", "type", event.Type, "error", err)
	}
}

// --- Creation Handlers ---

// AddStudent handles POST /add_student
func (h *APIHandler) AddStudent(c *gin.Context) {
	var req models.NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}

	if err := h.Registry.CreateStudent(req.Name); err != nil {
		fail(c, err, "Student already exists")
		return
	}

	h.publish(c, models.Event{Type: models.EventStudentAdded, Student: req.Name})
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Student %s added", req.Name)})
}

// AddTeacher handles POST /add_teacher
func (h *APIHandler) AddTeacher(c *gin.Context) {
	var req models.NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}

	if err := h.Registry.CreateTeacher(req.Name); err != nil {
		fail(c, err, "Teacher already exists")
		return
	}

	h.publish(c, models.Event{Type: models.EventTeacherAdded, Teacher: req.Name})
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Teacher %s added", req.Name)})
}

// AddCourse handles POST /add_course
func (h *APIHandler) AddCourse(c *gin.Context) {
	var req models.NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}

	if err := h.Registry.CreateCourse(req.Name); err != nil {
		fail(c, err, "Course already exists")
		return
	}

	h.publish(c, models.Event{Type: models.EventCourseAdded, Course: req.Name})
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Course %s added", req.Name)})
}

// --- Relationship Handlers ---

// AssignTeacher handles POST /assign_teacher
func (h *APIHandler) AssignTeacher(c *gin.Context) {
	var req models.AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}

	if err := h.Registry.AssignTeacher(req.Course, req.Teacher); err != nil {
		fail(c, err, "Invalid course or teacher")
		return
	}

	h.publish(c, models.Event{Type: models.EventTeacherAssigned, Teacher: req.Teacher, Course: req.Course})
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Assigned %s to %s", req.Teacher, req.Course)})
}

// Enroll handles POST /enroll
func (h *APIHandler) Enroll(c *gin.Context) {
	var req models.EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}

	if err := h.Registry.Enroll(req.Student, req.Course); err != nil {
		fail(c, err, "Invalid student or course")
		return
	}

	h.publish(c, models.Event{Type: models.EventStudentEnrolled, Student: req.Student, Course: req.Course})
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("%s enrolled in %s", req.Student, req.Course)})
}

// Grade handles POST /grade
func (h *APIHandler) Grade(c *gin.Context) {
	var req models.GradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}

	switch req.Grade.(type) {
	case string, float64:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Grade must be a string or a number"})
		return
	}

	if err := h.Registry.Grade(req.Teacher, req.Student, req.Course, req.Grade); err != nil {
		message := "Invalid teacher, student, or course"
		if errors.Is(err, db.ErrForbidden) {
			message = "Teacher does not teach this course"
		}
		fail(c, err, message)
		return
	}

	h.publish(c, models.Event{Type: models.EventStudentGraded, Teacher: req.Teacher, Student: req.Student, Course: req.Course, Grade: req.Grade})
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("%s graded %v in %s", req.Student, req.Grade, req.Course)})
}

// --- Query Handlers ---

// GetStudents handles GET /students
func (h *APIHandler) GetStudents(c *gin.Context) {
	c.JSON(http.StatusOK, h.Registry.ListStudents())
}

// GetTeachers handles GET /teachers
func (h *APIHandler) GetTeachers(c *gin.Context) {
	c.JSON(http.StatusOK, h.Registry.ListTeachers())
}

// GetCourses handles GET /courses
func (h *APIHandler) GetCourses(c *gin.Context) {
	c.JSON(http.StatusOK, h.Registry.ListCourses())
}

// GetStudentByName handles GET /students/:name
func (h *APIHandler) GetStudentByName(c *gin.Context) {
	student, err := h.Registry.GetStudent(c.Param("name"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
		return
	}
	c.JSON(http.StatusOK, student)
}

// GetCourseByName handles GET /courses/:name
func (h *APIHandler) GetCourseByName(c *gin.Context) {
	course, err := h.Registry.GetCourse(c.Param("name"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
		return
	}
	c.JSON(http.StatusOK, course)
}

// --- Excel Handlers ---

// ImportStudents handles POST /import/students
func (h *APIHandler) ImportStudents(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Error retrieving uploaded file: " + err.Error()})
		return
	}
	defer file.Close()

	slog.Info("Received student import", "file", header.Filename, "size", header.Size)

	result, err := h.Registry.ImportStudentsFromExcel(file)
	if err != nil {
		slog.Warn("Student import failed", "file", header.Filename, "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to import students: " + err.Error()})
		return
	}

	if result.Imported > 0 {
		h.publish(c, models.Event{Type: models.EventStudentsImported, Count: result.Imported})
	}
	c.JSON(http.StatusOK, gin.H{
		"message":       "Import successful",
		"importedCount": result.Imported,
		"skippedCount":  result.Skipped,
	})
}

// ExportGrades handles GET /export/grades
func (h *APIHandler) ExportGrades(c *gin.Context) {
	var buf bytes.Buffer
	if err := db.ExportGradesToExcel(h.Registry.ListStudents(), &buf); err != nil {
		slog.Error("Grade export failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export grades"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="grades.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// --- Ping Handler ---
func PingHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Pong!"})
}
