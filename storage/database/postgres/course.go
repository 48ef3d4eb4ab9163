package pgdb

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/kasanda/chuo/core/academic"
)

type courseRow struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	Code         string    `db:"code"`
	DepartmentID string    `db:"department_id"`
	Credits      int       `db:"credits"`
	Semester     int       `db:"semester"`
	Description  string    `db:"description"`
	TeacherID    string    `db:"teacher_id"`
	MaxStudents  int       `db:"max_students"`
	CreatedAt    time.Time `db:"created_at"`
}

func (row courseRow) toCourse() academic.Course {
	return academic.Course(row)
}

const courseColumns = `id, name, code, department_id, credits, semester, description, teacher_id, max_students, created_at`

func (repo *academicRepository) CreateCourse(ctx context.Context, crs academic.Course) (academic.Course, error) {
	crs.ID = uuid.New().String()
	q := `
	INSERT INTO courses (id, name, code, department_id, credits, semester, description, teacher_id, max_students, created_at)
	VALUES (:id, :name, :code, :department_id, :credits, :semester, :description, :teacher_id, :max_students, :created_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, courseRow(crs)); err != nil {
		return academic.Course{}, errors.Wrap(err, "inserting course")
	}
	return crs, nil
}

func (repo *academicRepository) QueryCourses(ctx context.Context, departmentID string) ([]academic.Course, error) {
	var rows []courseRow
	q := `SELECT ` + courseColumns + ` FROM courses`
	var args []interface{}
	if departmentID != "" {
		q += ` WHERE department_id = $1`
		args = append(args, departmentID)
	}
	q += ` ORDER BY created_at`
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "selecting courses")
	}
	courses := make([]academic.Course, 0, len(rows))
	for _, row := range rows {
		courses = append(courses, row.toCourse())
	}
	return courses, nil
}

func (repo *academicRepository) GetCourseByID(ctx context.Context, id string) (academic.Course, error) {
	var row courseRow
	q := `SELECT ` + courseColumns + ` FROM courses WHERE id = $1`
	if err := repo.db.GetContext(ctx, &row, q, id); err != nil {
		if err == sql.ErrNoRows {
			return academic.Course{}, academic.ErrCourseNotFound
		}
		return academic.Course{}, errors.Wrap(err, "selecting course")
	}
	return row.toCourse(), nil
}

func (repo *academicRepository) QueryCourseIDsByTeacher(ctx context.Context, teacherID string) ([]string, error) {
	ids := make([]string, 0)
	q := `SELECT id FROM courses WHERE teacher_id = $1`
	if err := repo.db.SelectContext(ctx, &ids, q, teacherID); err != nil {
		return nil, errors.Wrap(err, "selecting course ids")
	}
	return ids, nil
}

func (repo *academicRepository) CountCourses(ctx context.Context) (int, error) {
	var count int
	if err := repo.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM courses`); err != nil {
		return 0, errors.Wrap(err, "counting courses")
	}
	return count, nil
}

// --- schedules ---

type scheduleRow struct {
	ID        string    `db:"id"`
	CourseID  string    `db:"course_id"`
	DayOfWeek int       `db:"day_of_week"`
	StartTime string    `db:"start_time"`
	EndTime   string    `db:"end_time"`
	Room      string    `db:"room"`
	CreatedAt time.Time `db:"created_at"`
}

func (row scheduleRow) toSchedule() academic.Schedule {
	return academic.Schedule(row)
}

func (repo *academicRepository) CreateSchedule(ctx context.Context, sch academic.Schedule) (academic.Schedule, error) {
	sch.ID = uuid.New().String()
	q := `
	INSERT INTO schedules (id, course_id, day_of_week, start_time, end_time, room, created_at)
	VALUES (:id, :course_id, :day_of_week, :start_time, :end_time, :room, :created_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, scheduleRow(sch)); err != nil {
		return academic.Schedule{}, errors.Wrap(err, "inserting schedule")
	}
	return sch, nil
}

func (repo *academicRepository) QuerySchedules(ctx context.Context, courseID string) ([]academic.Schedule, error) {
	var rows []scheduleRow
	q := `SELECT id, course_id, day_of_week, start_time, end_time, room, created_at FROM schedules`
	var args []interface{}
	if courseID != "" {
		q += ` WHERE course_id = $1`
		args = append(args, courseID)
	}
	q += ` ORDER BY created_at`
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "selecting schedules")
	}
	schedules := make([]academic.Schedule, 0, len(rows))
	for _, row := range rows {
		schedules = append(schedules, row.toSchedule())
	}
	return schedules, nil
}
