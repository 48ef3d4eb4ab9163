package academic

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/kasanda/chuo/core"
	"github.com/kasanda/chuo/core/notification"
)

var errZeroMaxScore = errors.New("max_score must be greater than zero")

// CreateGrade records a grade with its derived percentage and notifies the
// student. gradedBy is the acting user's id.
func (svc *Service) CreateGrade(ctx context.Context, ng NewGrade, gradedBy string) (Grade, error) {
	// never derive the percentage from a zero divisor
	if ng.MaxScore == 0 {
		return Grade{}, core.NewValidationError(errZeroMaxScore, core.FieldError{Field: "max_score", Error: errZeroMaxScore.Error()})
	}

	grd := Grade{
		StudentID:  ng.StudentID,
		CourseID:   ng.CourseID,
		ExamID:     ng.ExamID,
		Score:      ng.Score,
		MaxScore:   ng.MaxScore,
		Percentage: (ng.Score / ng.MaxScore) * 100,
		Comments:   ng.Comments,
		GradedBy:   gradedBy,
		GradedAt:   time.Now().UTC(),
	}
	grd, err := svc.repo.CreateGrade(ctx, grd)
	if err != nil {
		return Grade{}, errors.Wrap(err, "creating grade")
	}

	if std, err := svc.repo.GetStudentByID(ctx, grd.StudentID); err == nil {
		courseName := "Cours"
		if crs, err := svc.repo.GetCourseByID(ctx, grd.CourseID); err == nil {
			courseName = crs.Name
		}
		svc.notify(ctx, std.UserID,
			"Nouvelle note disponible",
			fmt.Sprintf("Votre note pour %s: %g/%g (%.1f%%)",
				courseName, grd.Score, grd.MaxScore, grd.Percentage),
			notification.TypeSuccess)
	}
	return grd, nil
}

func (svc *Service) QueryGrades(ctx context.Context, filter GradeFilter) ([]Grade, error) {
	return svc.repo.QueryGrades(ctx, filter)
}
