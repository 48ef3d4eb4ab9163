package echoapi

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/kasanda/chuo/core/academic"
	"github.com/kasanda/chuo/core/user"
	testutil "github.com/kasanda/chuo/tests"
)

func Test_academicApi_departments(t *testing.T) {
	env := setup(t)

	admin := testutil.CreateUser(t, env.usrRepo, "admin@test.cd", "LeMotDePasse123", user.RoleAdmin, true)
	student := testutil.CreateUser(t, env.usrRepo, "student@test.cd", "LeMotDePasse123", user.RoleStudent, true)
	adminToken := env.getToken(t, admin)
	studentToken := env.getToken(t, student)

	body := marchallObj(t, academic.NewDepartment{Name: "Génie Informatique", Code: "GI"})

	tests := []httpTest{
		{
			name: "auth required", method: http.MethodGet, path: "/api/departments",
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "create is admin only", method: http.MethodPost, path: "/api/departments",
			body: body, token: studentToken,
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "create", method: http.MethodPost, path: "/api/departments",
			body: body, token: adminToken,
			wantCode: http.StatusCreated,
		},
		{
			name: "list", method: http.MethodGet, path: "/api/departments", token: studentToken,
			wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(tt)

			if tt.wantData != nil {
				checkCodeAndData(t, tt, rec)
				return
			}
			if rec.Code != tt.wantCode {
				t.Fatalf("code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
			}

			switch tt.name {
			case "create":
				var dept academic.Department
				unmarchallObj(t, rec.Body.Bytes(), &dept)
				if dept.ID == "" {
					t.Error("created department has no ID")
				}
				if dept.Code != "gi" { // lowered
					t.Errorf("code = %q; want %q", dept.Code, "gi")
				}
			case "list":
				var depts []academic.Department
				unmarchallObj(t, rec.Body.Bytes(), &depts)
				if len(depts) != 1 {
					t.Errorf("len(departments) = %d; want 1", len(depts))
				}
			}
		})
	}
}

func Test_academicApi_studentStatus(t *testing.T) {
	env := setup(t)

	admin := testutil.CreateUser(t, env.usrRepo, "admin@test.cd", "LeMotDePasse123", user.RoleAdmin, true)
	stdUsr := testutil.CreateUser(t, env.usrRepo, "student@test.cd", "LeMotDePasse123", user.RoleStudent, true)
	std := testutil.CreateStudent(t, env.acadRepo, stdUsr.ID, "STD001")
	adminToken := env.getToken(t, admin)
	studentToken := env.getToken(t, stdUsr)

	tests := []httpTest{
		{
			name: "admin only", method: http.MethodPatch,
			path: "/api/students/" + std.ID + "/status?status=approved", token: studentToken,
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "invalid status", method: http.MethodPatch,
			path: "/api/students/" + std.ID + "/status?status=graduated", token: adminToken,
			wantCode: http.StatusBadRequest, wantData: []byte(`{"status": "invalid status"}`),
		},
		{
			name: "unknown student", method: http.MethodPatch,
			path: "/api/students/nope/status?status=approved", token: adminToken,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
		{
			name: "approve", method: http.MethodPatch,
			path: "/api/students/" + std.ID + "/status?status=approved", token: adminToken,
			wantCode: http.StatusOK, wantData: marchallObj(t, MessageResponse{Message: "Student status updated successfully"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkCodeAndData(t, tt, env.do(tt))
		})
	}

	got, err := env.acadRepo.GetStudentByID(context.Background(), std.ID)
	if err != nil {
		t.Fatalf("GetStudentByID() failed: %v", err)
	}
	if got.EnrollmentStatus != academic.StatusApproved {
		t.Errorf("enrollment status = %q; want %q", got.EnrollmentStatus, academic.StatusApproved)
	}
}

func Test_academicApi_enrollments(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	teacher := testutil.CreateUser(t, env.usrRepo, "teacher@test.cd", "LeMotDePasse123", user.RoleTeacher, true)
	stdUsr1 := testutil.CreateUser(t, env.usrRepo, "std1@test.cd", "LeMotDePasse123", user.RoleStudent, true)
	stdUsr2 := testutil.CreateUser(t, env.usrRepo, "std2@test.cd", "LeMotDePasse123", user.RoleStudent, true)
	std1 := testutil.CreateStudent(t, env.acadRepo, stdUsr1.ID, "STD001")
	std2 := testutil.CreateStudent(t, env.acadRepo, stdUsr2.ID, "STD002")
	crs := testutil.CreateCourse(t, env.acadRepo, "Algèbre", 1, "")

	teacherToken := env.getToken(t, teacher)
	std1Token := env.getToken(t, stdUsr1)
	std2Token := env.getToken(t, stdUsr2)

	// a student enrolls themselves
	rec := env.do(httpTest{
		method: http.MethodPost, path: "/api/enrollments", token: std1Token,
		body: marchallObj(t, academic.NewEnrollment{StudentID: std1.ID, CourseID: crs.ID}),
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("enroll code = %v; want %v; body %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	var enr academic.Enrollment
	unmarchallObj(t, rec.Body.Bytes(), &enr)
	if enr.Status != academic.StatusPending {
		t.Errorf("status = %q; want %q", enr.Status, academic.StatusPending)
	}

	tests := []httpTest{
		{
			name: "duplicate pair", method: http.MethodPost, path: "/api/enrollments", token: std1Token,
			body:     marchallObj(t, academic.NewEnrollment{StudentID: std1.ID, CourseID: crs.ID}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "already enrolled in this course"}),
		},
		{
			name: "status change is staff only", method: http.MethodPatch,
			path: "/api/enrollments/" + enr.ID + "/status?status=approved", token: std1Token,
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "invalid status", method: http.MethodPatch,
			path: "/api/enrollments/" + enr.ID + "/status?status=done", token: teacherToken,
			wantCode: http.StatusBadRequest, wantData: []byte(`{"status": "invalid status"}`),
		},
		{
			name: "unknown enrollment", method: http.MethodPatch,
			path: "/api/enrollments/nope/status?status=approved", token: teacherToken,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
		{
			name: "approve", method: http.MethodPatch,
			path: "/api/enrollments/" + enr.ID + "/status?status=approved", token: teacherToken,
			wantCode: http.StatusOK, wantData: marchallObj(t, MessageResponse{Message: "Enrollment status updated successfully"}),
		},
		{
			// capacity counts approved enrollments; the course holds 1
			name: "course full", method: http.MethodPost, path: "/api/enrollments", token: std2Token,
			body:     marchallObj(t, academic.NewEnrollment{StudentID: std2.ID, CourseID: crs.ID}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "course is full"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkCodeAndData(t, tt, env.do(tt))
		})
	}

	// the approval notified the student
	notifs, err := env.notifRepo.QueryUserNotifications(ctx, stdUsr1.ID)
	if err != nil {
		t.Fatalf("QueryUserNotifications() failed: %v", err)
	}
	if len(notifs) != 1 {
		t.Fatalf("len(notifications) = %d; want 1", len(notifs))
	}
	if want := "Inscription au cours approuvée"; notifs[0].Title != want {
		t.Errorf("notification title = %q; want %q", notifs[0].Title, want)
	}
}

func Test_academicApi_exams(t *testing.T) {
	env := setup(t)

	teacher := testutil.CreateUser(t, env.usrRepo, "teacher@test.cd", "LeMotDePasse123", user.RoleTeacher, true)
	stdUsr := testutil.CreateUser(t, env.usrRepo, "student@test.cd", "LeMotDePasse123", user.RoleStudent, true)
	std := testutil.CreateStudent(t, env.acadRepo, stdUsr.ID, "STD001")
	crs := testutil.CreateCourse(t, env.acadRepo, "Analyse", 50, "")
	testutil.CreateEnrollment(t, env.acadRepo, std.ID, crs.ID, academic.StatusApproved)

	teacherToken := env.getToken(t, teacher)
	studentToken := env.getToken(t, stdUsr)

	newExam := academic.NewExam{
		CourseID: crs.ID, Name: "Examen Final", ExamDate: "2026-06-01",
		StartTime: "09:00", DurationMinutes: 120, Room: "A1",
	}

	rec := env.do(httpTest{
		method: http.MethodPost, path: "/api/exams", token: studentToken,
		body: marchallObj(t, newExam),
	})
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusForbidden,
		wantData: marchallObj(t, httpErr{Error: "permission denied"}),
	}, rec)

	rec = env.do(httpTest{
		method: http.MethodPost, path: "/api/exams", token: teacherToken,
		body: marchallObj(t, newExam),
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create exam code = %v; want %v; body %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	var exm academic.Exam
	unmarchallObj(t, rec.Body.Bytes(), &exm)
	if exm.MaxScore != 100 { // defaulted
		t.Errorf("max score = %v; want 100", exm.MaxScore)
	}

	// same (date, start_time, room) slot is taken
	conflicting := newExam
	conflicting.Name = "Rattrapage"
	rec = env.do(httpTest{
		method: http.MethodPost, path: "/api/exams", token: teacherToken,
		body: marchallObj(t, conflicting),
	})
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusBadRequest,
		wantData: marchallObj(t, httpErr{Error: "exam schedule conflict detected"}),
	}, rec)

	// another room is fine
	otherRoom := newExam
	otherRoom.Name = "Rattrapage"
	otherRoom.Room = "B2"
	rec = env.do(httpTest{
		method: http.MethodPost, path: "/api/exams", token: teacherToken,
		body: marchallObj(t, otherRoom),
	})
	if rec.Code != http.StatusCreated {
		t.Errorf("create exam (other room) code = %v; want %v; body %s", rec.Code, http.StatusCreated, rec.Body.String())
	}

	// every approved student got the announcements, newest first
	rec = env.do(httpTest{method: http.MethodGet, path: "/api/notifications", token: studentToken})
	if rec.Code != http.StatusOK {
		t.Fatalf("list notifications code = %v; want %v", rec.Code, http.StatusOK)
	}
	var notifs []struct {
		Title   string `json:"title"`
		Message string `json:"message"`
	}
	unmarchallObj(t, rec.Body.Bytes(), &notifs)
	if len(notifs) != 2 {
		t.Fatalf("len(notifications) = %d; want 2", len(notifs))
	}
	if want := "Nouvel examen programmé"; notifs[0].Title != want {
		t.Errorf("notification title = %q; want %q", notifs[0].Title, want)
	}
	want := "Examen de Analyse: Examen Final le 2026-06-01 à 09:00 - Salle A1"
	if notifs[0].Message != want && notifs[1].Message != want {
		t.Errorf("notification messages = %q, %q; want one to be %q", notifs[0].Message, notifs[1].Message, want)
	}
}

func Test_academicApi_grades(t *testing.T) {
	env := setup(t)

	teacher := testutil.CreateUser(t, env.usrRepo, "teacher@test.cd", "LeMotDePasse123", user.RoleTeacher, true)
	stdUsr := testutil.CreateUser(t, env.usrRepo, "student@test.cd", "LeMotDePasse123", user.RoleStudent, true)
	std := testutil.CreateStudent(t, env.acadRepo, stdUsr.ID, "STD001")
	crs := testutil.CreateCourse(t, env.acadRepo, "Physique", 50, "")

	teacherToken := env.getToken(t, teacher)
	studentToken := env.getToken(t, stdUsr)

	newGrade := academic.NewGrade{StudentID: std.ID, CourseID: crs.ID, Score: 85.5, MaxScore: 100}

	tests := []httpTest{
		{
			name: "staff only", token: studentToken, body: marchallObj(t, newGrade),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "missing max score", token: teacherToken,
			body:     marchallObj(t, academic.NewGrade{StudentID: std.ID, CourseID: crs.ID, Score: 85.5}),
			wantCode: http.StatusBadRequest, wantData: []byte(`{"max_score": "this field is required"}`),
		},
		{
			name: "ok", token: teacherToken, body: marchallObj(t, newGrade),
			wantCode: http.StatusCreated,
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/api/grades"

		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(tt)

			if tt.wantData != nil {
				checkCodeAndData(t, tt, rec)
				return
			}
			if rec.Code != tt.wantCode {
				t.Fatalf("code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			var grd academic.Grade
			unmarchallObj(t, rec.Body.Bytes(), &grd)
			if grd.Percentage != 85.5 {
				t.Errorf("percentage = %v; want 85.5", grd.Percentage)
			}
			if grd.GradedBy != teacher.ID {
				t.Errorf("graded by = %q; want %q", grd.GradedBy, teacher.ID)
			}
		})
	}

	// the student was notified of the new grade
	notifs, err := env.notifRepo.QueryUserNotifications(context.Background(), stdUsr.ID)
	if err != nil {
		t.Fatalf("QueryUserNotifications() failed: %v", err)
	}
	if len(notifs) != 1 {
		t.Fatalf("len(notifications) = %d; want 1", len(notifs))
	}
	if want := "Nouvelle note disponible"; notifs[0].Title != want {
		t.Errorf("notification title = %q; want %q", notifs[0].Title, want)
	}
}

func Test_academicApi_attendance(t *testing.T) {
	env := setup(t)

	teacher := testutil.CreateUser(t, env.usrRepo, "teacher@test.cd", "LeMotDePasse123", user.RoleTeacher, true)
	stdUsr := testutil.CreateUser(t, env.usrRepo, "student@test.cd", "LeMotDePasse123", user.RoleStudent, true)
	std := testutil.CreateStudent(t, env.acadRepo, stdUsr.ID, "STD001")
	crs := testutil.CreateCourse(t, env.acadRepo, "Chimie", 50, "")
	teacherToken := env.getToken(t, teacher)

	newAtt := academic.NewAttendance{StudentID: std.ID, CourseID: crs.ID, Date: "2026-03-02", Status: academic.AttendanceAbsent}

	// invalid status never reaches the service
	rec := env.do(httpTest{
		method: http.MethodPost, path: "/api/attendance", token: teacherToken,
		body: marchallObj(t, academic.NewAttendance{StudentID: std.ID, CourseID: crs.ID, Date: "2026-03-02", Status: "asleep"}),
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("code = %v; want %v; body %s", rec.Code, http.StatusBadRequest, rec.Body.String())
	}
	var fldErrs map[string]string
	unmarchallObj(t, rec.Body.Bytes(), &fldErrs)
	if _, ok := fldErrs["status"]; !ok {
		t.Errorf("field errors = %v; want a status entry", fldErrs)
	}

	// duplicates are permitted; a re-mark is a correction
	for i, status := range []string{academic.AttendanceAbsent, academic.AttendanceExcused} {
		att := newAtt
		att.Status = status
		rec := env.do(httpTest{
			method: http.MethodPost, path: "/api/attendance", token: teacherToken,
			body: marchallObj(t, att),
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("record #%d code = %v; want %v; body %s", i, rec.Code, http.StatusCreated, rec.Body.String())
		}
	}

	records, err := env.acadRepo.QueryAttendance(context.Background(), academic.AttendanceFilter{StudentID: std.ID})
	if err != nil {
		t.Fatalf("QueryAttendance() failed: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("len(records) = %d; want 2", len(records))
	}
	for _, r := range records {
		if r.MarkedBy != teacher.ID {
			t.Errorf("marked by = %q; want %q", r.MarkedBy, teacher.ID)
		}
	}
}

func Test_academicApi_dashboard(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	admin := testutil.CreateUser(t, env.usrRepo, "admin@test.cd", "LeMotDePasse123", user.RoleAdmin, true)
	tchUsr := testutil.CreateUser(t, env.usrRepo, "teacher@test.cd", "LeMotDePasse123", user.RoleTeacher, true)
	stdUsr := testutil.CreateUser(t, env.usrRepo, "student@test.cd", "LeMotDePasse123", user.RoleStudent, true)

	tch := testutil.CreateTeacher(t, env.acadRepo, tchUsr.ID, "EMP001")
	std := testutil.CreateStudent(t, env.acadRepo, stdUsr.ID, "STD001")
	crs := testutil.CreateCourse(t, env.acadRepo, "Statistiques", 50, tch.ID)
	testutil.CreateEnrollment(t, env.acadRepo, std.ID, crs.ID, academic.StatusApproved)

	for _, pct := range []float64{80, 90} {
		if _, err := env.acadRepo.CreateGrade(ctx, academic.Grade{
			StudentID: std.ID, CourseID: crs.ID,
			Score: pct, MaxScore: 100, Percentage: pct,
			GradedAt: time.Now().UTC(),
		}); err != nil {
			t.Fatalf("CreateGrade() failed: %v", err)
		}
	}

	tests := []httpTest{
		{
			name: "auth required",
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "admin", token: env.getToken(t, admin),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, academic.AdminStats{
				TotalStudents: 1, PendingStudents: 1, TotalTeachers: 1, TotalCourses: 1,
			}),
		},
		{
			name: "teacher", token: env.getToken(t, tchUsr),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, academic.TeacherStats{MyCourses: 1, TotalStudents: 1}),
		},
		{
			name: "student", token: env.getToken(t, stdUsr),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, academic.StudentStats{EnrolledCourses: 1, AverageGrade: 85}),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet
		tt.path = "/api/stats/dashboard"

		t.Run(tt.name, func(t *testing.T) {
			checkCodeAndData(t, tt, env.do(tt))
		})
	}
}
