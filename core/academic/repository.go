package academic

import (
	"context"

	"github.com/pkg/errors"
)

var (
	// not-found errors
	ErrStudentNotFound    = errors.New("student not found")
	ErrTeacherNotFound    = errors.New("teacher not found")
	ErrCourseNotFound     = errors.New("course not found")
	ErrEnrollmentNotFound = errors.New("enrollment not found")

	// conflict errors
	ErrStudentNumberExists  = errors.New("student number already exists")
	ErrEmployeeNumberExists = errors.New("employee number already exists")
	ErrAlreadyEnrolled      = errors.New("already enrolled in this course")
	ErrCourseFull           = errors.New("course is full")
	ErrScheduleConflict     = errors.New("exam schedule conflict detected")
)

// EnrollmentFilter, GradeFilter and AttendanceFilter apply AND on set fields.
type (
	EnrollmentFilter struct {
		StudentID string `query:"student_id"`
		CourseID  string `query:"course_id"`
	}

	GradeFilter struct {
		StudentID string `query:"student_id"`
		CourseID  string `query:"course_id"`
	}

	AttendanceFilter struct {
		StudentID string `query:"student_id"`
		CourseID  string `query:"course_id"`
	}
)

// Repository is the persistence collaborator for academic records.
// Uniqueness invariants (student_number, employee_number, (student, course)
// enrollment, (date, start_time, room) exam slot) are enforced by the storage
// layer at write time; Create* return the matching conflict error above.
type Repository interface {
	// departments
	CreateDepartment(ctx context.Context, dept Department) (Department, error)
	QueryDepartments(ctx context.Context) ([]Department, error)

	// students
	CreateStudent(ctx context.Context, std Student) (Student, error)
	QueryStudents(ctx context.Context, status string) ([]Student, error)
	GetStudentByID(ctx context.Context, id string) (Student, error)
	GetStudentByUserID(ctx context.Context, userID string) (Student, error)
	UpdateStudentStatus(ctx context.Context, id, status string) error
	CountStudents(ctx context.Context, status string) (int, error)

	// teachers
	CreateTeacher(ctx context.Context, tch Teacher) (Teacher, error)
	QueryTeachers(ctx context.Context) ([]Teacher, error)
	GetTeacherByUserID(ctx context.Context, userID string) (Teacher, error)
	CountTeachers(ctx context.Context) (int, error)

	// courses
	CreateCourse(ctx context.Context, crs Course) (Course, error)
	QueryCourses(ctx context.Context, departmentID string) ([]Course, error)
	GetCourseByID(ctx context.Context, id string) (Course, error)
	QueryCourseIDsByTeacher(ctx context.Context, teacherID string) ([]string, error)
	CountCourses(ctx context.Context) (int, error)

	// schedules
	CreateSchedule(ctx context.Context, sch Schedule) (Schedule, error)
	QuerySchedules(ctx context.Context, courseID string) ([]Schedule, error)

	// enrollments
	CreateEnrollment(ctx context.Context, enr Enrollment) (Enrollment, error)
	QueryEnrollments(ctx context.Context, filter EnrollmentFilter) ([]Enrollment, error)
	UpdateEnrollmentStatus(ctx context.Context, id, status string) (Enrollment, error)
	QueryApprovedEnrollments(ctx context.Context, courseID string) ([]Enrollment, error)
	QueryApprovedCourseIDs(ctx context.Context, studentID string) ([]string, error)
	CountApprovedEnrollments(ctx context.Context, courseID string) (int, error)
	CountApprovedEnrollmentsByStudent(ctx context.Context, studentID string) (int, error)
	CountApprovedEnrollmentsByCourseIDs(ctx context.Context, courseIDs []string) (int, error)

	// exams
	CreateExam(ctx context.Context, exm Exam) (Exam, error)
	QueryExams(ctx context.Context, courseID string) ([]Exam, error)
	CountExams(ctx context.Context) (int, error)
	CountExamsByCourseIDs(ctx context.Context, courseIDs []string) (int, error)

	// grades
	CreateGrade(ctx context.Context, grd Grade) (Grade, error)
	QueryGrades(ctx context.Context, filter GradeFilter) ([]Grade, error)

	// attendance
	CreateAttendance(ctx context.Context, att Attendance) (Attendance, error)
	QueryAttendance(ctx context.Context, filter AttendanceFilter) ([]Attendance, error)
}
