package academic

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/kasanda/chuo/core"
	"github.com/kasanda/chuo/core/notification"
)

const defaultMaxScore = 100.0

// CreateExam schedules an exam. Two exams may not share the exact
// (date, start_time, room) triple; overlap within durations is not checked.
// Every student with an approved enrollment in the course is notified.
func (svc *Service) CreateExam(ctx context.Context, ne NewExam) (Exam, error) {
	maxScore := ne.MaxScore
	if maxScore == 0 {
		maxScore = defaultMaxScore
	}
	supervisors := ne.SupervisorIDs
	if supervisors == nil {
		supervisors = []string{}
	}
	exm := Exam{
		CourseID:        ne.CourseID,
		Name:            ne.Name,
		ExamDate:        ne.ExamDate,
		StartTime:       ne.StartTime,
		DurationMinutes: ne.DurationMinutes,
		Room:            ne.Room,
		MaxScore:        maxScore,
		SupervisorIDs:   supervisors,
		CreatedAt:       time.Now().UTC(),
	}

	exm, err := svc.repo.CreateExam(ctx, exm)
	if err != nil {
		if errors.Cause(err) == ErrScheduleConflict {
			return Exam{}, core.NewValidationError(err)
		}
		return Exam{}, errors.Wrap(err, "creating exam")
	}

	svc.notifyEnrolledStudents(ctx, exm)
	return exm, nil
}

func (svc *Service) notifyEnrolledStudents(ctx context.Context, exm Exam) {
	enrollments, err := svc.repo.QueryApprovedEnrollments(ctx, exm.CourseID)
	if err != nil {
		svc.log.Error(fmt.Sprintf("querying enrollments for exam %s: %v", exm.ID, err), err)
		return
	}

	courseName := "Cours"
	if crs, err := svc.repo.GetCourseByID(ctx, exm.CourseID); err == nil {
		courseName = crs.Name
	}
	for _, enr := range enrollments {
		std, err := svc.repo.GetStudentByID(ctx, enr.StudentID)
		if err != nil {
			svc.log.Error(fmt.Sprintf("finding student %s for exam notification: %v", enr.StudentID, err), err)
			continue
		}
		svc.notify(ctx, std.UserID,
			"Nouvel examen programmé",
			fmt.Sprintf("Examen de %s: %s le %s à %s - Salle %s",
				courseName, exm.Name, exm.ExamDate, exm.StartTime, exm.Room),
			notification.TypeInfo)
	}
}

func (svc *Service) QueryExams(ctx context.Context, courseID string) ([]Exam, error) {
	return svc.repo.QueryExams(ctx, courseID)
}
