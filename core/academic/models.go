package academic

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/kasanda/chuo/core"
)

// Admission / enrollment statuses.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Attendance statuses.
const (
	AttendancePresent = "present"
	AttendanceAbsent  = "absent"
	AttendanceLate    = "late"
	AttendanceExcused = "excused"
)

const defaultMaxStudents = 50

type Department struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type NewDepartment struct {
	Name        string `json:"name" validate:"required"`
	Code        string `json:"code" validate:"required"`
	Description string `json:"description"`
}

func (nd *NewDepartment) Validate(validate *validator.Validate) error {
	nd.Name = core.CleanString(nd.Name)
	nd.Code = core.CleanString(nd.Code, true /* lower */)
	return validate.Struct(nd)
}

// Student is the academic profile linked to a student User.
// EnrollmentStatus is the admission status, not a course enrollment.
type Student struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	StudentNumber    string    `json:"student_number"`
	DepartmentID     string    `json:"department_id"`
	AcademicYear     string    `json:"academic_year"`
	DateOfBirth      string    `json:"date_of_birth"`
	Address          string    `json:"address,omitempty"`
	EmergencyContact string    `json:"emergency_contact,omitempty"`
	EnrollmentStatus string    `json:"enrollment_status"`
	CreatedAt        time.Time `json:"created_at"`
}

type NewStudent struct {
	UserID           string `json:"user_id" validate:"required"`
	StudentNumber    string `json:"student_number" validate:"required"`
	DepartmentID     string `json:"department_id" validate:"required"`
	AcademicYear     string `json:"academic_year" validate:"required"`
	DateOfBirth      string `json:"date_of_birth" validate:"required"`
	Address          string `json:"address"`
	EmergencyContact string `json:"emergency_contact"`
}

func (ns *NewStudent) Validate(validate *validator.Validate) error {
	ns.StudentNumber = core.CleanString(ns.StudentNumber)
	return validate.Struct(ns)
}

type Teacher struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	EmployeeNumber string    `json:"employee_number"`
	DepartmentID   string    `json:"department_id"`
	Specialization string    `json:"specialization,omitempty"`
	Qualification  string    `json:"qualification,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type NewTeacher struct {
	UserID         string `json:"user_id" validate:"required"`
	EmployeeNumber string `json:"employee_number" validate:"required"`
	DepartmentID   string `json:"department_id" validate:"required"`
	Specialization string `json:"specialization"`
	Qualification  string `json:"qualification"`
}

func (nt *NewTeacher) Validate(validate *validator.Validate) error {
	nt.EmployeeNumber = core.CleanString(nt.EmployeeNumber)
	return validate.Struct(nt)
}

type Course struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Code         string    `json:"code"`
	DepartmentID string    `json:"department_id"`
	Credits      int       `json:"credits"`
	Semester     int       `json:"semester"`
	Description  string    `json:"description,omitempty"`
	TeacherID    string    `json:"teacher_id,omitempty"`
	MaxStudents  int       `json:"max_students"`
	CreatedAt    time.Time `json:"created_at"`
}

type NewCourse struct {
	Name         string `json:"name" validate:"required"`
	Code         string `json:"code" validate:"required"`
	DepartmentID string `json:"department_id" validate:"required"`
	Credits      int    `json:"credits" validate:"required,gt=0"`
	Semester     int    `json:"semester" validate:"required,gt=0"`
	Description  string `json:"description"`
	TeacherID    string `json:"teacher_id"`
	MaxStudents  int    `json:"max_students" validate:"omitempty,gt=0"`
}

func (nc *NewCourse) Validate(validate *validator.Validate) error {
	nc.Name = core.CleanString(nc.Name)
	nc.Code = core.CleanString(nc.Code, true /* lower */)
	return validate.Struct(nc)
}

type Schedule struct {
	ID        string    `json:"id"`
	CourseID  string    `json:"course_id"`
	DayOfWeek int       `json:"day_of_week"` // 0-6 (Monday-Sunday)
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	Room      string    `json:"room"`
	CreatedAt time.Time `json:"created_at"`
}

type NewSchedule struct {
	CourseID  string `json:"course_id" validate:"required"`
	DayOfWeek int    `json:"day_of_week" validate:"min=0,max=6"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
	Room      string `json:"room" validate:"required"`
}

func (ns *NewSchedule) Validate(validate *validator.Validate) error {
	return validate.Struct(ns)
}

// Enrollment links a Student to a Course. At most one per (student, course)
// pair, whatever its status.
type Enrollment struct {
	ID         string    `json:"id"`
	StudentID  string    `json:"student_id"`
	CourseID   string    `json:"course_id"`
	Status     string    `json:"status"`
	EnrolledAt time.Time `json:"enrolled_at"`
}

type NewEnrollment struct {
	StudentID string `json:"student_id" validate:"required"`
	CourseID  string `json:"course_id" validate:"required"`
}

func (ne *NewEnrollment) Validate(validate *validator.Validate) error {
	return validate.Struct(ne)
}

type Exam struct {
	ID              string    `json:"id"`
	CourseID        string    `json:"course_id"`
	Name            string    `json:"name"`
	ExamDate        string    `json:"exam_date"`
	StartTime       string    `json:"start_time"`
	DurationMinutes int       `json:"duration_minutes"`
	Room            string    `json:"room"`
	MaxScore        float64   `json:"max_score"`
	SupervisorIDs   []string  `json:"supervisor_ids"`
	CreatedAt       time.Time `json:"created_at"`
}

type NewExam struct {
	CourseID        string   `json:"course_id" validate:"required"`
	Name            string   `json:"name" validate:"required"`
	ExamDate        string   `json:"exam_date" validate:"required"`
	StartTime       string   `json:"start_time" validate:"required"`
	DurationMinutes int      `json:"duration_minutes" validate:"required,gt=0"`
	Room            string   `json:"room" validate:"required"`
	MaxScore        float64  `json:"max_score" validate:"omitempty,gt=0"`
	SupervisorIDs   []string `json:"supervisor_ids"`
}

func (ne *NewExam) Validate(validate *validator.Validate) error {
	ne.Name = core.CleanString(ne.Name)
	ne.Room = core.CleanString(ne.Room)
	return validate.Struct(ne)
}

// Grade carries both the raw score and the percentage derived from it at
// write time.
type Grade struct {
	ID         string    `json:"id"`
	StudentID  string    `json:"student_id"`
	CourseID   string    `json:"course_id"`
	ExamID     string    `json:"exam_id,omitempty"`
	Score      float64   `json:"score"`
	MaxScore   float64   `json:"max_score"`
	Percentage float64   `json:"percentage"`
	Comments   string    `json:"comments,omitempty"`
	GradedBy   string    `json:"graded_by,omitempty"`
	GradedAt   time.Time `json:"graded_at"`
}

type NewGrade struct {
	StudentID string  `json:"student_id" validate:"required"`
	CourseID  string  `json:"course_id" validate:"required"`
	ExamID    string  `json:"exam_id"`
	Score     float64 `json:"score" validate:"min=0"`
	MaxScore  float64 `json:"max_score" validate:"required,gt=0"`
	Comments  string  `json:"comments"`
}

func (ng *NewGrade) Validate(validate *validator.Validate) error {
	return validate.Struct(ng)
}

type Attendance struct {
	ID        string    `json:"id"`
	StudentID string    `json:"student_id"`
	CourseID  string    `json:"course_id"`
	Date      string    `json:"date"`
	Status    string    `json:"status"`
	Notes     string    `json:"notes,omitempty"`
	MarkedBy  string    `json:"marked_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type NewAttendance struct {
	StudentID string `json:"student_id" validate:"required"`
	CourseID  string `json:"course_id" validate:"required"`
	Date      string `json:"date" validate:"required"`
	Status    string `json:"status" validate:"required,oneof=present absent late excused"`
	Notes     string `json:"notes"`
}

func (na *NewAttendance) Validate(validate *validator.Validate) error {
	return validate.Struct(na)
}
