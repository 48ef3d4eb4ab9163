package pgdb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/kasanda/chuo/core/academic"
)

// --- enrollments ---

type enrollmentRow struct {
	ID         string    `db:"id"`
	StudentID  string    `db:"student_id"`
	CourseID   string    `db:"course_id"`
	Status     string    `db:"status"`
	EnrolledAt time.Time `db:"enrolled_at"`
}

func (row enrollmentRow) toEnrollment() academic.Enrollment {
	return academic.Enrollment(row)
}

const enrollmentColumns = `id, student_id, course_id, status, enrolled_at`

func (repo *academicRepository) CreateEnrollment(ctx context.Context, enr academic.Enrollment) (academic.Enrollment, error) {
	enr.ID = uuid.New().String()
	q := `
	INSERT INTO enrollments (id, student_id, course_id, status, enrolled_at)
	VALUES (:id, :student_id, :course_id, :status, :enrolled_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, enrollmentRow(enr)); err != nil {
		if violatesUnique(err, "enrollments_student_course_key") {
			return academic.Enrollment{}, academic.ErrAlreadyEnrolled
		}
		return academic.Enrollment{}, errors.Wrap(err, "inserting enrollment")
	}
	return enr, nil
}

func (repo *academicRepository) QueryEnrollments(ctx context.Context, filter academic.EnrollmentFilter) ([]academic.Enrollment, error) {
	var rows []enrollmentRow
	q := `SELECT ` + enrollmentColumns + ` FROM enrollments`
	where, args := whereClause(map[string]string{
		"student_id": filter.StudentID,
		"course_id":  filter.CourseID,
	})
	q += where + ` ORDER BY enrolled_at`
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "selecting enrollments")
	}
	enrollments := make([]academic.Enrollment, 0, len(rows))
	for _, row := range rows {
		enrollments = append(enrollments, row.toEnrollment())
	}
	return enrollments, nil
}

func (repo *academicRepository) UpdateEnrollmentStatus(ctx context.Context, id, status string) (academic.Enrollment, error) {
	var row enrollmentRow
	q := `UPDATE enrollments SET status = $1 WHERE id = $2 RETURNING ` + enrollmentColumns
	if err := repo.db.GetContext(ctx, &row, q, status, id); err != nil {
		if err == sql.ErrNoRows {
			return academic.Enrollment{}, academic.ErrEnrollmentNotFound
		}
		return academic.Enrollment{}, errors.Wrap(err, "updating enrollment status")
	}
	return row.toEnrollment(), nil
}

func (repo *academicRepository) QueryApprovedEnrollments(ctx context.Context, courseID string) ([]academic.Enrollment, error) {
	var rows []enrollmentRow
	q := `SELECT ` + enrollmentColumns + ` FROM enrollments WHERE course_id = $1 AND status = $2`
	if err := repo.db.SelectContext(ctx, &rows, q, courseID, academic.StatusApproved); err != nil {
		return nil, errors.Wrap(err, "selecting enrollments")
	}
	enrollments := make([]academic.Enrollment, 0, len(rows))
	for _, row := range rows {
		enrollments = append(enrollments, row.toEnrollment())
	}
	return enrollments, nil
}

func (repo *academicRepository) QueryApprovedCourseIDs(ctx context.Context, studentID string) ([]string, error) {
	ids := make([]string, 0)
	q := `SELECT course_id FROM enrollments WHERE student_id = $1 AND status = $2`
	if err := repo.db.SelectContext(ctx, &ids, q, studentID, academic.StatusApproved); err != nil {
		return nil, errors.Wrap(err, "selecting course ids")
	}
	return ids, nil
}

func (repo *academicRepository) CountApprovedEnrollments(ctx context.Context, courseID string) (int, error) {
	var count int
	q := `SELECT COUNT(*) FROM enrollments WHERE course_id = $1 AND status = $2`
	if err := repo.db.GetContext(ctx, &count, q, courseID, academic.StatusApproved); err != nil {
		return 0, errors.Wrap(err, "counting enrollments")
	}
	return count, nil
}

func (repo *academicRepository) CountApprovedEnrollmentsByStudent(ctx context.Context, studentID string) (int, error) {
	var count int
	q := `SELECT COUNT(*) FROM enrollments WHERE student_id = $1 AND status = $2`
	if err := repo.db.GetContext(ctx, &count, q, studentID, academic.StatusApproved); err != nil {
		return 0, errors.Wrap(err, "counting enrollments")
	}
	return count, nil
}

func (repo *academicRepository) CountApprovedEnrollmentsByCourseIDs(ctx context.Context, courseIDs []string) (int, error) {
	if len(courseIDs) == 0 {
		return 0, nil
	}
	var count int
	q := `SELECT COUNT(*) FROM enrollments WHERE course_id = ANY($1) AND status = $2`
	if err := repo.db.GetContext(ctx, &count, q, pq.Array(courseIDs), academic.StatusApproved); err != nil {
		return 0, errors.Wrap(err, "counting enrollments")
	}
	return count, nil
}

// --- exams ---

type examRow struct {
	ID              string         `db:"id"`
	CourseID        string         `db:"course_id"`
	Name            string         `db:"name"`
	ExamDate        string         `db:"exam_date"`
	StartTime       string         `db:"start_time"`
	DurationMinutes int            `db:"duration_minutes"`
	Room            string         `db:"room"`
	MaxScore        float64        `db:"max_score"`
	SupervisorIDs   pq.StringArray `db:"supervisor_ids"`
	CreatedAt       time.Time      `db:"created_at"`
}

func (row examRow) toExam() academic.Exam {
	return academic.Exam{
		ID:              row.ID,
		CourseID:        row.CourseID,
		Name:            row.Name,
		ExamDate:        row.ExamDate,
		StartTime:       row.StartTime,
		DurationMinutes: row.DurationMinutes,
		Room:            row.Room,
		MaxScore:        row.MaxScore,
		SupervisorIDs:   row.SupervisorIDs,
		CreatedAt:       row.CreatedAt,
	}
}

const examColumns = `id, course_id, name, exam_date, start_time, duration_minutes, room, max_score, supervisor_ids, created_at`

func (repo *academicRepository) CreateExam(ctx context.Context, exm academic.Exam) (academic.Exam, error) {
	exm.ID = uuid.New().String()
	q := `
	INSERT INTO exams (id, course_id, name, exam_date, start_time, duration_minutes, room, max_score, supervisor_ids, created_at)
	VALUES (:id, :course_id, :name, :exam_date, :start_time, :duration_minutes, :room, :max_score, :supervisor_ids, :created_at)`
	row := examRow{
		ID:              exm.ID,
		CourseID:        exm.CourseID,
		Name:            exm.Name,
		ExamDate:        exm.ExamDate,
		StartTime:       exm.StartTime,
		DurationMinutes: exm.DurationMinutes,
		Room:            exm.Room,
		MaxScore:        exm.MaxScore,
		SupervisorIDs:   exm.SupervisorIDs,
		CreatedAt:       exm.CreatedAt,
	}
	if _, err := repo.db.NamedExecContext(ctx, q, row); err != nil {
		if violatesUnique(err, "exams_slot_key") {
			return academic.Exam{}, academic.ErrScheduleConflict
		}
		return academic.Exam{}, errors.Wrap(err, "inserting exam")
	}
	return exm, nil
}

func (repo *academicRepository) QueryExams(ctx context.Context, courseID string) ([]academic.Exam, error) {
	var rows []examRow
	q := `SELECT ` + examColumns + ` FROM exams`
	var args []interface{}
	if courseID != "" {
		q += ` WHERE course_id = $1`
		args = append(args, courseID)
	}
	q += ` ORDER BY created_at`
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "selecting exams")
	}
	exams := make([]academic.Exam, 0, len(rows))
	for _, row := range rows {
		exams = append(exams, row.toExam())
	}
	return exams, nil
}

func (repo *academicRepository) CountExams(ctx context.Context) (int, error) {
	var count int
	if err := repo.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM exams`); err != nil {
		return 0, errors.Wrap(err, "counting exams")
	}
	return count, nil
}

func (repo *academicRepository) CountExamsByCourseIDs(ctx context.Context, courseIDs []string) (int, error) {
	if len(courseIDs) == 0 {
		return 0, nil
	}
	var count int
	q := `SELECT COUNT(*) FROM exams WHERE course_id = ANY($1)`
	if err := repo.db.GetContext(ctx, &count, q, pq.Array(courseIDs)); err != nil {
		return 0, errors.Wrap(err, "counting exams")
	}
	return count, nil
}

// --- grades ---

type gradeRow struct {
	ID         string    `db:"id"`
	StudentID  string    `db:"student_id"`
	CourseID   string    `db:"course_id"`
	ExamID     string    `db:"exam_id"`
	Score      float64   `db:"score"`
	MaxScore   float64   `db:"max_score"`
	Percentage float64   `db:"percentage"`
	Comments   string    `db:"comments"`
	GradedBy   string    `db:"graded_by"`
	GradedAt   time.Time `db:"graded_at"`
}

func (row gradeRow) toGrade() academic.Grade {
	return academic.Grade(row)
}

func (repo *academicRepository) CreateGrade(ctx context.Context, grd academic.Grade) (academic.Grade, error) {
	grd.ID = uuid.New().String()
	q := `
	INSERT INTO grades (id, student_id, course_id, exam_id, score, max_score, percentage, comments, graded_by, graded_at)
	VALUES (:id, :student_id, :course_id, :exam_id, :score, :max_score, :percentage, :comments, :graded_by, :graded_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, gradeRow(grd)); err != nil {
		return academic.Grade{}, errors.Wrap(err, "inserting grade")
	}
	return grd, nil
}

func (repo *academicRepository) QueryGrades(ctx context.Context, filter academic.GradeFilter) ([]academic.Grade, error) {
	var rows []gradeRow
	q := `SELECT id, student_id, course_id, exam_id, score, max_score, percentage, comments, graded_by, graded_at FROM grades`
	where, args := whereClause(map[string]string{
		"student_id": filter.StudentID,
		"course_id":  filter.CourseID,
	})
	q += where + ` ORDER BY graded_at`
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "selecting grades")
	}
	grades := make([]academic.Grade, 0, len(rows))
	for _, row := range rows {
		grades = append(grades, row.toGrade())
	}
	return grades, nil
}

// --- attendance ---

type attendanceRow struct {
	ID        string    `db:"id"`
	StudentID string    `db:"student_id"`
	CourseID  string    `db:"course_id"`
	Date      string    `db:"date"`
	Status    string    `db:"status"`
	Notes     string    `db:"notes"`
	MarkedBy  string    `db:"marked_by"`
	CreatedAt time.Time `db:"created_at"`
}

func (row attendanceRow) toAttendance() academic.Attendance {
	return academic.Attendance(row)
}

func (repo *academicRepository) CreateAttendance(ctx context.Context, att academic.Attendance) (academic.Attendance, error) {
	att.ID = uuid.New().String()
	q := `
	INSERT INTO attendance (id, student_id, course_id, date, status, notes, marked_by, created_at)
	VALUES (:id, :student_id, :course_id, :date, :status, :notes, :marked_by, :created_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, attendanceRow(att)); err != nil {
		return academic.Attendance{}, errors.Wrap(err, "inserting attendance")
	}
	return att, nil
}

func (repo *academicRepository) QueryAttendance(ctx context.Context, filter academic.AttendanceFilter) ([]academic.Attendance, error) {
	var rows []attendanceRow
	q := `SELECT id, student_id, course_id, date, status, notes, marked_by, created_at FROM attendance`
	where, args := whereClause(map[string]string{
		"student_id": filter.StudentID,
		"course_id":  filter.CourseID,
	})
	q += where + ` ORDER BY created_at`
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "selecting attendance")
	}
	records := make([]academic.Attendance, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.toAttendance())
	}
	return records, nil
}

// whereClause builds an AND-ed WHERE clause from the non-empty values.
func whereClause(conds map[string]string) (string, []interface{}) {
	var clauses []string
	var args []interface{}
	for _, col := range []string{"student_id", "course_id"} {
		if val, ok := conds[col]; ok && val != "" {
			args = append(args, val)
			clauses = append(clauses, fmt.Sprintf("%s = $%d", col, len(args)))
		}
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}
