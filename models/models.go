package models

import "time"

// Student is the listing view of a student
type Student struct {
	Name    string         `json:"name"`    // Unique student name
	Courses map[string]any `json:"courses"` // Course name -> grade, nil while ungraded
}

// Teacher is the listing view of a teacher
type Teacher struct {
	Name    string   `json:"name"`
	Courses []string `json:"courses"` // Course names, in assignment order
}

// Course is the listing view of a course
type Course struct {
	Name     string   `json:"name"`
	Teacher  *string  `json:"teacher"`  // Assigned teacher name, null when unassigned
	Students []string `json:"students"` // Enrolled student names, in enrollment order
}

// NameRequest is the body of the add_student, add_teacher and add_course routes
type NameRequest struct {
	Name string `json:"name" binding:"required"`
}

// AssignRequest is the body of POST /assign_teacher
type AssignRequest struct {
	Course  string `json:"course" binding:"required"`
	Teacher string `json:"teacher" binding:"required"`
}

// EnrollRequest is the body of POST /enroll
type EnrollRequest struct {
	Student string `json:"student" binding:"required"`
	Course  string `json:"course" binding:"required"`
}

// GradeRequest is the body of POST /grade. Grade holds a JSON string or number.
type GradeRequest struct {
	Teacher string `json:"teacher" binding:"required"`
	Student string `json:"student" binding:"required"`
	Course  string `json:"course" binding:"required"`
	Grade   any    `json:"grade"`
}

// EventType names a registry mutation
type EventType string

const (
	EventStudentAdded     EventType = "student.added"
	EventTeacherAdded     EventType = "teacher.added"
	EventCourseAdded      EventType = "course.added"
	EventTeacherAssigned  EventType = "teacher.assigned"
	EventStudentEnrolled  EventType = "student.enrolled"
	EventStudentGraded    EventType = "student.graded"
	EventStudentsImported EventType = "students.imported"
)

// Event is published after every successful mutation
type Event struct {
	Type    EventType `json:"type"`
	Student string    `json:"student,omitempty"`
	Teacher string    `json:"teacher,omitempty"`
	Course  string    `json:"course,omitempty"`
	Grade   any       `json:"grade,omitempty"`
	Count   int       `json:"count,omitempty"`
	At      time.Time `json:"at"`
}
