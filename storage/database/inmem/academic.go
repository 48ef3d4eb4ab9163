package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/kasanda/chuo/core/academic"
)

type academicRepository struct {
	db *DB
}

func NewAcademicRepository(db *DB) academic.Repository {
	return &academicRepository{db: db}
}

// --- departments ---

func (repo *academicRepository) CreateDepartment(ctx context.Context, dept academic.Department) (academic.Department, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	dept.ID = uuid.New().String()
	repo.db.departments[dept.ID] = &dept
	return dept, nil
}

func (repo *academicRepository) QueryDepartments(ctx context.Context) ([]academic.Department, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	depts := make([]academic.Department, 0, len(repo.db.departments))
	for _, dept := range repo.db.departments {
		depts = append(depts, *dept)
	}
	sort.SliceStable(depts, func(i, j int) bool { return depts[i].CreatedAt.Before(depts[j].CreatedAt) })
	return depts, nil
}

// --- students ---

func (repo *academicRepository) CreateStudent(ctx context.Context, std academic.Student) (academic.Student, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, s := range repo.db.students {
		if s.StudentNumber == std.StudentNumber {
			return academic.Student{}, academic.ErrStudentNumberExists
		}
	}
	std.ID = uuid.New().String()
	repo.db.students[std.ID] = &std
	return std, nil
}

func (repo *academicRepository) QueryStudents(ctx context.Context, status string) ([]academic.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	students := make([]academic.Student, 0, len(repo.db.students))
	for _, std := range repo.db.students {
		if status != "" && std.EnrollmentStatus != status {
			continue
		}
		students = append(students, *std)
	}
	sort.SliceStable(students, func(i, j int) bool { return students[i].CreatedAt.Before(students[j].CreatedAt) })
	return students, nil
}

func (repo *academicRepository) GetStudentByID(ctx context.Context, id string) (academic.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if std, ok := repo.db.students[id]; ok {
		return *std, nil
	}
	return academic.Student{}, academic.ErrStudentNotFound
}

func (repo *academicRepository) GetStudentByUserID(ctx context.Context, userID string) (academic.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, std := range repo.db.students {
		if std.UserID == userID {
			return *std, nil
		}
	}
	return academic.Student{}, academic.ErrStudentNotFound
}

func (repo *academicRepository) UpdateStudentStatus(ctx context.Context, id, status string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	std, ok := repo.db.students[id]
	if !ok {
		return academic.ErrStudentNotFound
	}
	std.EnrollmentStatus = status
	return nil
}

func (repo *academicRepository) CountStudents(ctx context.Context, status string) (int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if status == "" {
		return len(repo.db.students), nil
	}
	var count int
	for _, std := range repo.db.students {
		if std.EnrollmentStatus == status {
			count++
		}
	}
	return count, nil
}

// --- teachers ---

func (repo *academicRepository) CreateTeacher(ctx context.Context, tch academic.Teacher) (academic.Teacher, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, t := range repo.db.teachers {
		if t.EmployeeNumber == tch.EmployeeNumber {
			return academic.Teacher{}, academic.ErrEmployeeNumberExists
		}
	}
	tch.ID = uuid.New().String()
	repo.db.teachers[tch.ID] = &tch
	return tch, nil
}

func (repo *academicRepository) QueryTeachers(ctx context.Context) ([]academic.Teacher, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	teachers := make([]academic.Teacher, 0, len(repo.db.teachers))
	for _, tch := range repo.db.teachers {
		teachers = append(teachers, *tch)
	}
	sort.SliceStable(teachers, func(i, j int) bool { return teachers[i].CreatedAt.Before(teachers[j].CreatedAt) })
	return teachers, nil
}

func (repo *academicRepository) GetTeacherByUserID(ctx context.Context, userID string) (academic.Teacher, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, tch := range repo.db.teachers {
		if tch.UserID == userID {
			return *tch, nil
		}
	}
	return academic.Teacher{}, academic.ErrTeacherNotFound
}

func (repo *academicRepository) CountTeachers(ctx context.Context) (int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return len(repo.db.teachers), nil
}

// --- courses ---

func (repo *academicRepository) CreateCourse(ctx context.Context, crs academic.Course) (academic.Course, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	crs.ID = uuid.New().String()
	repo.db.courses[crs.ID] = &crs
	return crs, nil
}

func (repo *academicRepository) QueryCourses(ctx context.Context, departmentID string) ([]academic.Course, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	courses := make([]academic.Course, 0, len(repo.db.courses))
	for _, crs := range repo.db.courses {
		if departmentID != "" && crs.DepartmentID != departmentID {
			continue
		}
		courses = append(courses, *crs)
	}
	sort.SliceStable(courses, func(i, j int) bool { return courses[i].CreatedAt.Before(courses[j].CreatedAt) })
	return courses, nil
}

func (repo *academicRepository) GetCourseByID(ctx context.Context, id string) (academic.Course, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if crs, ok := repo.db.courses[id]; ok {
		return *crs, nil
	}
	return academic.Course{}, academic.ErrCourseNotFound
}

func (repo *academicRepository) QueryCourseIDsByTeacher(ctx context.Context, teacherID string) ([]string, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	ids := make([]string, 0)
	for _, crs := range repo.db.courses {
		if crs.TeacherID == teacherID {
			ids = append(ids, crs.ID)
		}
	}
	return ids, nil
}

func (repo *academicRepository) CountCourses(ctx context.Context) (int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return len(repo.db.courses), nil
}

// --- schedules ---

func (repo *academicRepository) CreateSchedule(ctx context.Context, sch academic.Schedule) (academic.Schedule, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	sch.ID = uuid.New().String()
	repo.db.schedules[sch.ID] = &sch
	return sch, nil
}

func (repo *academicRepository) QuerySchedules(ctx context.Context, courseID string) ([]academic.Schedule, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	schedules := make([]academic.Schedule, 0)
	for _, sch := range repo.db.schedules {
		if courseID != "" && sch.CourseID != courseID {
			continue
		}
		schedules = append(schedules, *sch)
	}
	sort.SliceStable(schedules, func(i, j int) bool { return schedules[i].CreatedAt.Before(schedules[j].CreatedAt) })
	return schedules, nil
}

// --- enrollments ---

func (repo *academicRepository) CreateEnrollment(ctx context.Context, enr academic.Enrollment) (academic.Enrollment, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, e := range repo.db.enrollments {
		if e.StudentID == enr.StudentID && e.CourseID == enr.CourseID {
			return academic.Enrollment{}, academic.ErrAlreadyEnrolled
		}
	}
	enr.ID = uuid.New().String()
	repo.db.enrollments[enr.ID] = &enr
	return enr, nil
}

func (repo *academicRepository) QueryEnrollments(ctx context.Context, filter academic.EnrollmentFilter) ([]academic.Enrollment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	enrollments := make([]academic.Enrollment, 0)
	for _, enr := range repo.db.enrollments {
		if filter.StudentID != "" && enr.StudentID != filter.StudentID {
			continue
		}
		if filter.CourseID != "" && enr.CourseID != filter.CourseID {
			continue
		}
		enrollments = append(enrollments, *enr)
	}
	sort.SliceStable(enrollments, func(i, j int) bool { return enrollments[i].EnrolledAt.Before(enrollments[j].EnrolledAt) })
	return enrollments, nil
}

func (repo *academicRepository) UpdateEnrollmentStatus(ctx context.Context, id, status string) (academic.Enrollment, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	enr, ok := repo.db.enrollments[id]
	if !ok {
		return academic.Enrollment{}, academic.ErrEnrollmentNotFound
	}
	enr.Status = status
	return *enr, nil
}

func (repo *academicRepository) QueryApprovedEnrollments(ctx context.Context, courseID string) ([]academic.Enrollment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	enrollments := make([]academic.Enrollment, 0)
	for _, enr := range repo.db.enrollments {
		if enr.CourseID == courseID && enr.Status == academic.StatusApproved {
			enrollments = append(enrollments, *enr)
		}
	}
	return enrollments, nil
}

func (repo *academicRepository) QueryApprovedCourseIDs(ctx context.Context, studentID string) ([]string, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	ids := make([]string, 0)
	for _, enr := range repo.db.enrollments {
		if enr.StudentID == studentID && enr.Status == academic.StatusApproved {
			ids = append(ids, enr.CourseID)
		}
	}
	return ids, nil
}

func (repo *academicRepository) CountApprovedEnrollments(ctx context.Context, courseID string) (int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var count int
	for _, enr := range repo.db.enrollments {
		if enr.CourseID == courseID && enr.Status == academic.StatusApproved {
			count++
		}
	}
	return count, nil
}

func (repo *academicRepository) CountApprovedEnrollmentsByStudent(ctx context.Context, studentID string) (int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var count int
	for _, enr := range repo.db.enrollments {
		if enr.StudentID == studentID && enr.Status == academic.StatusApproved {
			count++
		}
	}
	return count, nil
}

func (repo *academicRepository) CountApprovedEnrollmentsByCourseIDs(ctx context.Context, courseIDs []string) (int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	wanted := make(map[string]struct{}, len(courseIDs))
	for _, id := range courseIDs {
		wanted[id] = struct{}{}
	}
	var count int
	for _, enr := range repo.db.enrollments {
		if _, ok := wanted[enr.CourseID]; ok && enr.Status == academic.StatusApproved {
			count++
		}
	}
	return count, nil
}

// --- exams ---

func (repo *academicRepository) CreateExam(ctx context.Context, exm academic.Exam) (academic.Exam, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, e := range repo.db.exams {
		if e.ExamDate == exm.ExamDate && e.StartTime == exm.StartTime && e.Room == exm.Room {
			return academic.Exam{}, academic.ErrScheduleConflict
		}
	}
	exm.ID = uuid.New().String()
	repo.db.exams[exm.ID] = &exm
	return exm, nil
}

func (repo *academicRepository) QueryExams(ctx context.Context, courseID string) ([]academic.Exam, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	exams := make([]academic.Exam, 0)
	for _, exm := range repo.db.exams {
		if courseID != "" && exm.CourseID != courseID {
			continue
		}
		exams = append(exams, *exm)
	}
	sort.SliceStable(exams, func(i, j int) bool { return exams[i].CreatedAt.Before(exams[j].CreatedAt) })
	return exams, nil
}

func (repo *academicRepository) CountExams(ctx context.Context) (int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return len(repo.db.exams), nil
}

func (repo *academicRepository) CountExamsByCourseIDs(ctx context.Context, courseIDs []string) (int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	wanted := make(map[string]struct{}, len(courseIDs))
	for _, id := range courseIDs {
		wanted[id] = struct{}{}
	}
	var count int
	for _, exm := range repo.db.exams {
		if _, ok := wanted[exm.CourseID]; ok {
			count++
		}
	}
	return count, nil
}

// --- grades ---

func (repo *academicRepository) CreateGrade(ctx context.Context, grd academic.Grade) (academic.Grade, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	grd.ID = uuid.New().String()
	repo.db.grades[grd.ID] = &grd
	return grd, nil
}

func (repo *academicRepository) QueryGrades(ctx context.Context, filter academic.GradeFilter) ([]academic.Grade, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	grades := make([]academic.Grade, 0)
	for _, grd := range repo.db.grades {
		if filter.StudentID != "" && grd.StudentID != filter.StudentID {
			continue
		}
		if filter.CourseID != "" && grd.CourseID != filter.CourseID {
			continue
		}
		grades = append(grades, *grd)
	}
	sort.SliceStable(grades, func(i, j int) bool { return grades[i].GradedAt.Before(grades[j].GradedAt) })
	return grades, nil
}

// --- attendance ---

func (repo *academicRepository) CreateAttendance(ctx context.Context, att academic.Attendance) (academic.Attendance, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	att.ID = uuid.New().String()
	repo.db.attendance[att.ID] = &att
	return att, nil
}

func (repo *academicRepository) QueryAttendance(ctx context.Context, filter academic.AttendanceFilter) ([]academic.Attendance, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	records := make([]academic.Attendance, 0)
	for _, att := range repo.db.attendance {
		if filter.StudentID != "" && att.StudentID != filter.StudentID {
			continue
		}
		if filter.CourseID != "" && att.CourseID != filter.CourseID {
			continue
		}
		records = append(records, *att)
	}
	sort.SliceStable(records, func(i, j int) bool { return records[i].CreatedAt.Before(records[j].CreatedAt) })
	return records, nil
}
