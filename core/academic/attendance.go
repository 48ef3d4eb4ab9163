package academic

import (
	"context"
	"time"
)

// CreateAttendance records attendance. Multiple records for the same
// (student, course, date) are permitted: corrections are appended, not
// overwritten. markedBy is the acting user's id.
func (svc *Service) CreateAttendance(ctx context.Context, na NewAttendance, markedBy string) (Attendance, error) {
	att := Attendance{
		StudentID: na.StudentID,
		CourseID:  na.CourseID,
		Date:      na.Date,
		Status:    na.Status,
		Notes:     na.Notes,
		MarkedBy:  markedBy,
		CreatedAt: time.Now().UTC(),
	}
	return svc.repo.CreateAttendance(ctx, att)
}

func (svc *Service) QueryAttendance(ctx context.Context, filter AttendanceFilter) ([]Attendance, error) {
	return svc.repo.QueryAttendance(ctx, filter)
}
