package academic

import (
	"context"
	"math"

	"github.com/pkg/errors"

	"github.com/kasanda/chuo/core/user"
)

// Dashboard stats, recomputed from current record state on every call.
type (
	AdminStats struct {
		TotalStudents   int `json:"total_students"`
		PendingStudents int `json:"pending_students"`
		TotalTeachers   int `json:"total_teachers"`
		TotalCourses    int `json:"total_courses"`
		TotalExams      int `json:"total_exams"`
	}

	TeacherStats struct {
		MyCourses     int `json:"my_courses"`
		TotalStudents int `json:"total_students"`
		UpcomingExams int `json:"upcoming_exams"`
	}

	StudentStats struct {
		EnrolledCourses int     `json:"enrolled_courses"`
		UpcomingExams   int     `json:"upcoming_exams"`
		AverageGrade    float64 `json:"average_grade"`
	}
)

// Dashboard returns the stats view matching the caller's role.
func (svc *Service) Dashboard(ctx context.Context, usr user.User) (interface{}, error) {
	switch usr.Role {
	case user.RoleAdmin:
		return svc.adminStats(ctx)
	case user.RoleTeacher:
		return svc.teacherStats(ctx, usr)
	case user.RoleStudent:
		return svc.studentStats(ctx, usr)
	}
	return struct{}{}, nil
}

func (svc *Service) adminStats(ctx context.Context) (AdminStats, error) {
	var stats AdminStats
	var err error

	if stats.TotalStudents, err = svc.repo.CountStudents(ctx, ""); err != nil {
		return AdminStats{}, errors.Wrap(err, "counting students")
	}
	if stats.PendingStudents, err = svc.repo.CountStudents(ctx, StatusPending); err != nil {
		return AdminStats{}, errors.Wrap(err, "counting pending students")
	}
	if stats.TotalTeachers, err = svc.repo.CountTeachers(ctx); err != nil {
		return AdminStats{}, errors.Wrap(err, "counting teachers")
	}
	if stats.TotalCourses, err = svc.repo.CountCourses(ctx); err != nil {
		return AdminStats{}, errors.Wrap(err, "counting courses")
	}
	if stats.TotalExams, err = svc.repo.CountExams(ctx); err != nil {
		return AdminStats{}, errors.Wrap(err, "counting exams")
	}
	return stats, nil
}

func (svc *Service) teacherStats(ctx context.Context, usr user.User) (TeacherStats, error) {
	tch, err := svc.repo.GetTeacherByUserID(ctx, usr.ID)
	if err != nil {
		if errors.Cause(err) == ErrTeacherNotFound {
			return TeacherStats{}, nil // no profile yet
		}
		return TeacherStats{}, errors.Wrap(err, "finding teacher profile")
	}

	courseIDs, err := svc.repo.QueryCourseIDsByTeacher(ctx, tch.ID)
	if err != nil {
		return TeacherStats{}, errors.Wrap(err, "querying teacher courses")
	}

	var stats TeacherStats
	stats.MyCourses = len(courseIDs)
	if stats.TotalStudents, err = svc.repo.CountApprovedEnrollmentsByCourseIDs(ctx, courseIDs); err != nil {
		return TeacherStats{}, errors.Wrap(err, "counting enrollments")
	}
	if stats.UpcomingExams, err = svc.repo.CountExamsByCourseIDs(ctx, courseIDs); err != nil {
		return TeacherStats{}, errors.Wrap(err, "counting exams")
	}
	return stats, nil
}

func (svc *Service) studentStats(ctx context.Context, usr user.User) (StudentStats, error) {
	std, err := svc.repo.GetStudentByUserID(ctx, usr.ID)
	if err != nil {
		if errors.Cause(err) == ErrStudentNotFound {
			return StudentStats{}, nil // no profile yet
		}
		return StudentStats{}, errors.Wrap(err, "finding student profile")
	}

	var stats StudentStats
	if stats.EnrolledCourses, err = svc.repo.CountApprovedEnrollmentsByStudent(ctx, std.ID); err != nil {
		return StudentStats{}, errors.Wrap(err, "counting enrollments")
	}

	courseIDs, err := svc.repo.QueryApprovedCourseIDs(ctx, std.ID)
	if err != nil {
		return StudentStats{}, errors.Wrap(err, "querying enrolled courses")
	}
	if stats.UpcomingExams, err = svc.repo.CountExamsByCourseIDs(ctx, courseIDs); err != nil {
		return StudentStats{}, errors.Wrap(err, "counting exams")
	}

	grades, err := svc.repo.QueryGrades(ctx, GradeFilter{StudentID: std.ID})
	if err != nil {
		return StudentStats{}, errors.Wrap(err, "querying grades")
	}
	if len(grades) > 0 {
		var sum float64
		for _, grd := range grades {
			sum += grd.Percentage
		}
		stats.AverageGrade = math.Round(sum/float64(len(grades))*100) / 100
	}
	return stats, nil
}
