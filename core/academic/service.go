package academic

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/kasanda/chuo/core"
	"github.com/kasanda/chuo/core/notification"
)

type Service struct {
	repo     Repository
	notifSvc *notification.Service
	log      core.Logger
}

func NewService(repo Repository, notifSvc *notification.Service, log core.Logger) *Service {
	return &Service{
		repo:     repo,
		notifSvc: notifSvc,
		log:      log,
	}
}

// notify emits a best-effort notification: a failure here never rolls back
// the state transition that triggered it.
func (svc *Service) notify(ctx context.Context, userID, title, message, typ string) {
	if _, err := svc.notifSvc.Notify(ctx, userID, title, message, typ); err != nil {
		svc.log.Error(fmt.Sprintf("notifying user %s: %v", userID, err), err)
	}
}

// Departments

func (svc *Service) CreateDepartment(ctx context.Context, nd NewDepartment) (Department, error) {
	dept := Department{
		Name:        nd.Name,
		Code:        nd.Code,
		Description: nd.Description,
		CreatedAt:   time.Now().UTC(),
	}
	return svc.repo.CreateDepartment(ctx, dept)
}

func (svc *Service) QueryDepartments(ctx context.Context) ([]Department, error) {
	return svc.repo.QueryDepartments(ctx)
}

// Students

func (svc *Service) CreateStudent(ctx context.Context, ns NewStudent) (Student, error) {
	std := Student{
		UserID:           ns.UserID,
		StudentNumber:    ns.StudentNumber,
		DepartmentID:     ns.DepartmentID,
		AcademicYear:     ns.AcademicYear,
		DateOfBirth:      ns.DateOfBirth,
		Address:          ns.Address,
		EmergencyContact: ns.EmergencyContact,
		EnrollmentStatus: StatusPending,
		CreatedAt:        time.Now().UTC(),
	}
	std, err := svc.repo.CreateStudent(ctx, std)
	if err != nil {
		if errors.Cause(err) == ErrStudentNumberExists {
			return Student{}, core.NewValidationError(err, core.FieldError{Field: "student_number", Error: err.Error()})
		}
		return Student{}, errors.Wrap(err, "creating student")
	}

	svc.notify(ctx, std.UserID,
		"Inscription créée",
		"Votre demande d'inscription a été soumise et est en attente d'approbation.",
		notification.TypeInfo)
	return std, nil
}

func (svc *Service) QueryStudents(ctx context.Context, status string) ([]Student, error) {
	return svc.repo.QueryStudents(ctx, status)
}

func (svc *Service) GetStudentByID(ctx context.Context, id string) (Student, error) {
	return svc.repo.GetStudentByID(ctx, id)
}

// UpdateStudentStatus sets a student's admission status and notifies the
// student's user of the outcome.
func (svc *Service) UpdateStudentStatus(ctx context.Context, id, status string) error {
	if err := svc.repo.UpdateStudentStatus(ctx, id, status); err != nil {
		return err
	}

	std, err := svc.repo.GetStudentByID(ctx, id)
	if err != nil {
		return errors.Wrap(err, "reloading student")
	}
	statusMsg, typ := "approuvée", notification.TypeSuccess
	if status != StatusApproved {
		statusMsg, typ = "rejetée", notification.TypeWarning
	}
	svc.notify(ctx, std.UserID,
		fmt.Sprintf("Inscription %s", statusMsg),
		fmt.Sprintf("Votre demande d'inscription a été %s.", statusMsg),
		typ)
	return nil
}

// Teachers

func (svc *Service) CreateTeacher(ctx context.Context, nt NewTeacher) (Teacher, error) {
	tch := Teacher{
		UserID:         nt.UserID,
		EmployeeNumber: nt.EmployeeNumber,
		DepartmentID:   nt.DepartmentID,
		Specialization: nt.Specialization,
		Qualification:  nt.Qualification,
		CreatedAt:      time.Now().UTC(),
	}
	tch, err := svc.repo.CreateTeacher(ctx, tch)
	if err != nil {
		if errors.Cause(err) == ErrEmployeeNumberExists {
			return Teacher{}, core.NewValidationError(err, core.FieldError{Field: "employee_number", Error: err.Error()})
		}
		return Teacher{}, errors.Wrap(err, "creating teacher")
	}
	return tch, nil
}

func (svc *Service) QueryTeachers(ctx context.Context) ([]Teacher, error) {
	return svc.repo.QueryTeachers(ctx)
}

// Courses

func (svc *Service) CreateCourse(ctx context.Context, nc NewCourse) (Course, error) {
	maxStudents := nc.MaxStudents
	if maxStudents == 0 {
		maxStudents = defaultMaxStudents
	}
	crs := Course{
		Name:         nc.Name,
		Code:         nc.Code,
		DepartmentID: nc.DepartmentID,
		Credits:      nc.Credits,
		Semester:     nc.Semester,
		Description:  nc.Description,
		TeacherID:    nc.TeacherID,
		MaxStudents:  maxStudents,
		CreatedAt:    time.Now().UTC(),
	}
	return svc.repo.CreateCourse(ctx, crs)
}

func (svc *Service) QueryCourses(ctx context.Context, departmentID string) ([]Course, error) {
	return svc.repo.QueryCourses(ctx, departmentID)
}

func (svc *Service) GetCourseByID(ctx context.Context, id string) (Course, error) {
	return svc.repo.GetCourseByID(ctx, id)
}

// Schedules

func (svc *Service) CreateSchedule(ctx context.Context, ns NewSchedule) (Schedule, error) {
	sch := Schedule{
		CourseID:  ns.CourseID,
		DayOfWeek: ns.DayOfWeek,
		StartTime: ns.StartTime,
		EndTime:   ns.EndTime,
		Room:      ns.Room,
		CreatedAt: time.Now().UTC(),
	}
	return svc.repo.CreateSchedule(ctx, sch)
}

func (svc *Service) QuerySchedules(ctx context.Context, courseID string) ([]Schedule, error) {
	return svc.repo.QuerySchedules(ctx, courseID)
}
