package db

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"school-registry-go/models"
)

type studentRecord struct {
	courses map[string]any // course name -> grade, nil while ungraded
}

type teacherRecord struct {
	courses []string // may repeat when a course is assigned twice
}

type courseRecord struct {
	teacher  string
	assigned bool
	students []string
}

// table is a name-keyed map that remembers creation order for listings
type table[T any] struct {
	rows  map[string]*T
	order []string
}

func newTable[T any]() table[T] {
	return table[T]{rows: make(map[string]*T)}
}

func (t *table[T]) insert(name string, row *T) bool {
	if _, ok := t.rows[name]; ok {
		return false
	}
	t.rows[name] = row
	t.order = append(t.order, name)
	return true
}

// Registry is the in-memory owner of the student, teacher and course tables.
// Entities reference each other by name only. A single lock serializes all
// mutations, so cross-table operations are atomic.
type Registry struct {
	students table[studentRecord]
	teachers table[teacherRecord]
	courses  table[courseRecord]
	mu       sync.RWMutex
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		students: newTable[studentRecord](),
		teachers: newTable[teacherRecord](),
		courses:  newTable[courseRecord](),
	}
}

// --- Creation ---

// CreateStudent adds a student with no courses
func (r *Registry) CreateStudent(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.students.insert(name, &studentRecord{courses: make(map[string]any)}) {
		return fmt.Errorf("student %q: %w", name, ErrAlreadyExists)
	}
	return nil
}

// CreateTeacher adds a teacher with no courses
func (r *Registry) CreateTeacher(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.teachers.insert(name, &teacherRecord{}) {
		return fmt.Errorf("teacher %q: %w", name, ErrAlreadyExists)
	}
	return nil
}

// CreateCourse adds a course with no teacher and no students
func (r *Registry) CreateCourse(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.courses.insert(name, &courseRecord{}) {
		return fmt.Errorf("course %q: %w", name, ErrAlreadyExists)
	}
	return nil
}

// --- Relationships ---

// AssignTeacher makes teacherName the course's teacher and appends the course
// to the teacher's course list. A previously assigned teacher keeps the
// course in its own list and can still grade it.
func (r *Registry) AssignTeacher(courseName, teacherName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	course, ok := r.courses.rows[courseName]
	if !ok {
		return fmt.Errorf("course %q: %w", courseName, ErrNotFound)
	}
	teacher, ok := r.teachers.rows[teacherName]
	if !ok {
		return fmt.Errorf("teacher %q: %w", teacherName, ErrNotFound)
	}

	course.teacher = teacherName
	course.assigned = true
	teacher.courses = append(teacher.courses, courseName)
	return nil
}

// Enroll resets the student's entry for the course to ungraded and appends the
// student to the course roster. Enrolling twice lists the student twice.
func (r *Registry) Enroll(studentName, courseName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	student, ok := r.students.rows[studentName]
	if !ok {
		return fmt.Errorf("student %q: %w", studentName, ErrNotFound)
	}
	course, ok := r.courses.rows[courseName]
	if !ok {
		return fmt.Errorf("course %q: %w", courseName, ErrNotFound)
	}

	student.courses[courseName] = nil
	course.students = append(course.students, studentName)
	return nil
}

// Grade records a grade for the student in the course. The teacher must have
// the course in its course list. Enrollment is not checked.
func (r *Registry) Grade(teacherName, studentName, courseName string, grade any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	teacher, ok := r.teachers.rows[teacherName]
	if !ok {
		return fmt.Errorf("teacher %q: %w", teacherName, ErrNotFound)
	}
	student, ok := r.students.rows[studentName]
	if !ok {
		return fmt.Errorf("student %q: %w", studentName, ErrNotFound)
	}
	if _, ok := r.courses.rows[courseName]; !ok {
		return fmt.Errorf("course %q: %w", courseName, ErrNotFound)
	}

	if !slices.Contains(teacher.courses, courseName) {
		return fmt.Errorf("teacher %q, course %q: %w", teacherName, courseName, ErrForbidden)
	}

	student.courses[courseName] = grade
	return nil
}

// --- Queries ---

// ListStudents returns every student in creation order
func (r *Registry) ListStudents() []models.Student {
	r.mu.RLock()
	defer r.mu.RUnlock()

	students := make([]models.Student, 0, len(r.students.order))
	for _, name := range r.students.order {
		students = append(students, r.studentView(name))
	}
	return students
}

// ListTeachers returns every teacher in creation order
func (r *Registry) ListTeachers() []models.Teacher {
	r.mu.RLock()
	defer r.mu.RUnlock()

	teachers := make([]models.Teacher, 0, len(r.teachers.order))
	for _, name := range r.teachers.order {
		teachers = append(teachers, models.Teacher{
			Name:    name,
			Courses: append([]string{}, r.teachers.rows[name].courses...),
		})
	}
	return teachers
}

// ListCourses returns every course in creation order
func (r *Registry) ListCourses() []models.Course {
	r.mu.RLock()
	defer r.mu.RUnlock()

	courses := make([]models.Course, 0, len(r.courses.order))
	for _, name := range r.courses.order {
		courses = append(courses, r.courseView(name))
	}
	return courses
}

// GetStudent returns a single student
func (r *Registry) GetStudent(name string) (*models.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.students.rows[name]; !ok {
		return nil, fmt.Errorf("student %q: %w", name, ErrNotFound)
	}
	student := r.studentView(name)
	return &student, nil
}

// GetCourse returns a single course
func (r *Registry) GetCourse(name string) (*models.Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.courses.rows[name]; !ok {
		return nil, fmt.Errorf("course %q: %w", name, ErrNotFound)
	}
	course := r.courseView(name)
	return &course, nil
}

// studentView copies a student out of the table. Caller holds the lock.
func (r *Registry) studentView(name string) models.Student {
	return models.Student{
		Name:    name,
		Courses: maps.Clone(r.students.rows[name].courses),
	}
}

// courseView copies a course out of the table. Caller holds the lock.
func (r *Registry) courseView(name string) models.Course {
	row := r.courses.rows[name]
	course := models.Course{
		Name:     name,
		Students: append([]string{}, row.students...),
	}
	if row.assigned {
		teacher := row.teacher
		course.Teacher = &teacher
	}
	return course
}
