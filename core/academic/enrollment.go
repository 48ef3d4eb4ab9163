package academic

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/kasanda/chuo/core"
	"github.com/kasanda/chuo/core/notification"
)

// Enroll creates a pending Enrollment for (student, course).
// A pair may enroll at most once, whatever the outcome of the first attempt;
// the capacity check counts Approved enrollments only, so a burst of pending
// requests is not capacity-limited.
func (svc *Service) Enroll(ctx context.Context, ne NewEnrollment) (Enrollment, error) {
	existing, err := svc.repo.QueryEnrollments(ctx, EnrollmentFilter{StudentID: ne.StudentID, CourseID: ne.CourseID})
	if err != nil {
		return Enrollment{}, errors.Wrap(err, "checking existing enrollment")
	}
	if len(existing) > 0 {
		return Enrollment{}, core.NewValidationError(ErrAlreadyEnrolled)
	}

	crs, err := svc.repo.GetCourseByID(ctx, ne.CourseID)
	if err == nil {
		count, err := svc.repo.CountApprovedEnrollments(ctx, ne.CourseID)
		if err != nil {
			return Enrollment{}, errors.Wrap(err, "counting approved enrollments")
		}
		if count >= crs.MaxStudents {
			return Enrollment{}, core.NewValidationError(ErrCourseFull)
		}
	} else if errors.Cause(err) != ErrCourseNotFound {
		return Enrollment{}, errors.Wrap(err, "finding course")
	}

	enr := Enrollment{
		StudentID:  ne.StudentID,
		CourseID:   ne.CourseID,
		Status:     StatusPending,
		EnrolledAt: time.Now().UTC(),
	}
	enr, err = svc.repo.CreateEnrollment(ctx, enr)
	if err != nil {
		// the storage layer's (student, course) uniqueness closes the
		// check-then-insert race
		if errors.Cause(err) == ErrAlreadyEnrolled {
			return Enrollment{}, core.NewValidationError(err)
		}
		return Enrollment{}, errors.Wrap(err, "creating enrollment")
	}
	return enr, nil
}

func (svc *Service) QueryEnrollments(ctx context.Context, filter EnrollmentFilter) ([]Enrollment, error) {
	return svc.repo.QueryEnrollments(ctx, filter)
}

// UpdateEnrollmentStatus sets an enrollment's status and notifies the student
// of the outcome.
func (svc *Service) UpdateEnrollmentStatus(ctx context.Context, id, status string) error {
	enr, err := svc.repo.UpdateEnrollmentStatus(ctx, id, status)
	if err != nil {
		return err
	}

	std, err := svc.repo.GetStudentByID(ctx, enr.StudentID)
	if err != nil {
		return errors.Wrap(err, "finding enrolled student")
	}
	courseName := "Cours"
	if crs, err := svc.repo.GetCourseByID(ctx, enr.CourseID); err == nil {
		courseName = crs.Name
	}
	statusMsg, typ := "approuvée", notification.TypeSuccess
	if status != StatusApproved {
		statusMsg, typ = "rejetée", notification.TypeWarning
	}
	svc.notify(ctx, std.UserID,
		fmt.Sprintf("Inscription au cours %s", statusMsg),
		fmt.Sprintf("Votre inscription au cours %s a été %s.", courseName, statusMsg),
		typ)
	return nil
}
