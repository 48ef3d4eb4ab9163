package pgdb

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/kasanda/chuo/core/academic"
)

type academicRepository struct {
	db *sqlx.DB
}

func NewAcademicRepository(db *sqlx.DB) academic.Repository {
	return &academicRepository{db: db}
}

// --- departments ---

type departmentRow struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	Code        string    `db:"code"`
	Description string    `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
}

func (row departmentRow) toDepartment() academic.Department {
	return academic.Department(row)
}

func (repo *academicRepository) CreateDepartment(ctx context.Context, dept academic.Department) (academic.Department, error) {
	dept.ID = uuid.New().String()
	q := `
	INSERT INTO departments (id, name, code, description, created_at)
	VALUES (:id, :name, :code, :description, :created_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, departmentRow(dept)); err != nil {
		return academic.Department{}, errors.Wrap(err, "inserting department")
	}
	return dept, nil
}

func (repo *academicRepository) QueryDepartments(ctx context.Context) ([]academic.Department, error) {
	var rows []departmentRow
	q := `SELECT id, name, code, description, created_at FROM departments ORDER BY created_at`
	if err := repo.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, errors.Wrap(err, "selecting departments")
	}
	depts := make([]academic.Department, 0, len(rows))
	for _, row := range rows {
		depts = append(depts, row.toDepartment())
	}
	return depts, nil
}

// --- students ---

type studentRow struct {
	ID               string    `db:"id"`
	UserID           string    `db:"user_id"`
	StudentNumber    string    `db:"student_number"`
	DepartmentID     string    `db:"department_id"`
	AcademicYear     string    `db:"academic_year"`
	DateOfBirth      string    `db:"date_of_birth"`
	Address          string    `db:"address"`
	EmergencyContact string    `db:"emergency_contact"`
	EnrollmentStatus string    `db:"enrollment_status"`
	CreatedAt        time.Time `db:"created_at"`
}

func (row studentRow) toStudent() academic.Student {
	return academic.Student(row)
}

const studentColumns = `id, user_id, student_number, department_id, academic_year, date_of_birth,
	address, emergency_contact, enrollment_status, created_at`

func (repo *academicRepository) CreateStudent(ctx context.Context, std academic.Student) (academic.Student, error) {
	std.ID = uuid.New().String()
	q := `
	INSERT INTO students (id, user_id, student_number, department_id, academic_year, date_of_birth,
		address, emergency_contact, enrollment_status, created_at)
	VALUES (:id, :user_id, :student_number, :department_id, :academic_year, :date_of_birth,
		:address, :emergency_contact, :enrollment_status, :created_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, studentRow(std)); err != nil {
		if violatesUnique(err, "students_student_number_key") {
			return academic.Student{}, academic.ErrStudentNumberExists
		}
		return academic.Student{}, errors.Wrap(err, "inserting student")
	}
	return std, nil
}

func (repo *academicRepository) QueryStudents(ctx context.Context, status string) ([]academic.Student, error) {
	var rows []studentRow
	q := `SELECT ` + studentColumns + ` FROM students`
	var args []interface{}
	if status != "" {
		q += ` WHERE enrollment_status = $1`
		args = append(args, status)
	}
	q += ` ORDER BY created_at`
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "selecting students")
	}
	students := make([]academic.Student, 0, len(rows))
	for _, row := range rows {
		students = append(students, row.toStudent())
	}
	return students, nil
}

func (repo *academicRepository) GetStudentByID(ctx context.Context, id string) (academic.Student, error) {
	var row studentRow
	q := `SELECT ` + studentColumns + ` FROM students WHERE id = $1`
	if err := repo.db.GetContext(ctx, &row, q, id); err != nil {
		if err == sql.ErrNoRows {
			return academic.Student{}, academic.ErrStudentNotFound
		}
		return academic.Student{}, errors.Wrap(err, "selecting student")
	}
	return row.toStudent(), nil
}

func (repo *academicRepository) GetStudentByUserID(ctx context.Context, userID string) (academic.Student, error) {
	var row studentRow
	q := `SELECT ` + studentColumns + ` FROM students WHERE user_id = $1`
	if err := repo.db.GetContext(ctx, &row, q, userID); err != nil {
		if err == sql.ErrNoRows {
			return academic.Student{}, academic.ErrStudentNotFound
		}
		return academic.Student{}, errors.Wrap(err, "selecting student")
	}
	return row.toStudent(), nil
}

func (repo *academicRepository) UpdateStudentStatus(ctx context.Context, id, status string) error {
	res, err := repo.db.ExecContext(ctx, `UPDATE students SET enrollment_status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return errors.Wrap(err, "updating student status")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "updating student status")
	}
	if n == 0 {
		return academic.ErrStudentNotFound
	}
	return nil
}

func (repo *academicRepository) CountStudents(ctx context.Context, status string) (int, error) {
	var count int
	q := `SELECT COUNT(*) FROM students`
	var args []interface{}
	if status != "" {
		q += ` WHERE enrollment_status = $1`
		args = append(args, status)
	}
	if err := repo.db.GetContext(ctx, &count, q, args...); err != nil {
		return 0, errors.Wrap(err, "counting students")
	}
	return count, nil
}

// --- teachers ---

type teacherRow struct {
	ID             string    `db:"id"`
	UserID         string    `db:"user_id"`
	EmployeeNumber string    `db:"employee_number"`
	DepartmentID   string    `db:"department_id"`
	Specialization string    `db:"specialization"`
	Qualification  string    `db:"qualification"`
	CreatedAt      time.Time `db:"created_at"`
}

func (row teacherRow) toTeacher() academic.Teacher {
	return academic.Teacher(row)
}

const teacherColumns = `id, user_id, employee_number, department_id, specialization, qualification, created_at`

func (repo *academicRepository) CreateTeacher(ctx context.Context, tch academic.Teacher) (academic.Teacher, error) {
	tch.ID = uuid.New().String()
	q := `
	INSERT INTO teachers (id, user_id, employee_number, department_id, specialization, qualification, created_at)
	VALUES (:id, :user_id, :employee_number, :department_id, :specialization, :qualification, :created_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, teacherRow(tch)); err != nil {
		if violatesUnique(err, "teachers_employee_number_key") {
			return academic.Teacher{}, academic.ErrEmployeeNumberExists
		}
		return academic.Teacher{}, errors.Wrap(err, "inserting teacher")
	}
	return tch, nil
}

func (repo *academicRepository) QueryTeachers(ctx context.Context) ([]academic.Teacher, error) {
	var rows []teacherRow
	q := `SELECT ` + teacherColumns + ` FROM teachers ORDER BY created_at`
	if err := repo.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, errors.Wrap(err, "selecting teachers")
	}
	teachers := make([]academic.Teacher, 0, len(rows))
	for _, row := range rows {
		teachers = append(teachers, row.toTeacher())
	}
	return teachers, nil
}

func (repo *academicRepository) GetTeacherByUserID(ctx context.Context, userID string) (academic.Teacher, error) {
	var row teacherRow
	q := `SELECT ` + teacherColumns + ` FROM teachers WHERE user_id = $1`
	if err := repo.db.GetContext(ctx, &row, q, userID); err != nil {
		if err == sql.ErrNoRows {
			return academic.Teacher{}, academic.ErrTeacherNotFound
		}
		return academic.Teacher{}, errors.Wrap(err, "selecting teacher")
	}
	return row.toTeacher(), nil
}

func (repo *academicRepository) CountTeachers(ctx context.Context) (int, error) {
	var count int
	if err := repo.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM teachers`); err != nil {
		return 0, errors.Wrap(err, "counting teachers")
	}
	return count, nil
}
