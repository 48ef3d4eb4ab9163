package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kasanda/chuo/core"
	"github.com/kasanda/chuo/core/academic"
	"github.com/kasanda/chuo/core/user"
)

type academicApi struct {
	svc      *academic.Service
	userSvc  *user.Service
	validate *validator.Validate
}

func registerAcademicAPI(
	g *echo.Group,
	authed []echo.MiddlewareFunc,
	svc *academic.Service,
	userSvc *user.Service,
	validate *validator.Validate,
) {
	api := academicApi{
		svc:      svc,
		userSvc:  userSvc,
		validate: validate,
	}

	admin := requireRoles(user.RoleAdmin)
	staff := requireRoles(user.RoleAdmin, user.RoleTeacher)

	dg := g.Group("/departments", authed...)
	dg.POST("", api.createDepartment, admin)
	dg.GET("", api.queryDepartments)

	sg := g.Group("/students", authed...)
	sg.POST("", api.createStudent)
	sg.GET("", api.queryStudents)
	sg.GET("/:id", api.retrieveStudent)
	sg.PATCH("/:id/status", api.updateStudentStatus, admin)

	tg := g.Group("/teachers", authed...)
	tg.POST("", api.createTeacher, admin)
	tg.GET("", api.queryTeachers)

	cg := g.Group("/courses", authed...)
	cg.POST("", api.createCourse, staff)
	cg.GET("", api.queryCourses)
	cg.GET("/:id", api.retrieveCourse)

	hg := g.Group("/schedules", authed...)
	hg.POST("", api.createSchedule, admin)
	hg.GET("", api.querySchedules)

	eg := g.Group("/enrollments", authed...)
	eg.POST("", api.createEnrollment)
	eg.GET("", api.queryEnrollments)
	eg.PATCH("/:id/status", api.updateEnrollmentStatus, staff)

	xg := g.Group("/exams", authed...)
	xg.POST("", api.createExam, staff)
	xg.GET("", api.queryExams)

	gg := g.Group("/grades", authed...)
	gg.POST("", api.createGrade, staff)
	gg.GET("", api.queryGrades)

	atg := g.Group("/attendance", authed...)
	atg.POST("", api.createAttendance, staff)
	atg.GET("", api.queryAttendance)

	g.GET("/stats/dashboard", api.dashboard, authed...)
}

// bindStatus validates the `status` query param of the status transitions.
func bindStatus(ctx echo.Context) (string, error) {
	status := ctx.QueryParam("status")
	switch status {
	case academic.StatusPending, academic.StatusApproved, academic.StatusRejected:
		return status, nil
	}
	return "", core.NewValidationError(nil, core.FieldError{Field: "status", Error: "invalid status"})
}

// Handlers

func (api *academicApi) createDepartment(ctx echo.Context) error {
	var data academic.NewDepartment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewDepartment")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	dept, err := api.svc.CreateDepartment(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, dept)
}

func (api *academicApi) queryDepartments(ctx echo.Context) error {
	depts, err := api.svc.QueryDepartments(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying departments")
	}
	return ctx.JSON(http.StatusOK, depts)
}

func (api *academicApi) createStudent(ctx echo.Context) error {
	var data academic.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	std, err := api.svc.CreateStudent(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, std)
}

func (api *academicApi) queryStudents(ctx echo.Context) error {
	students, err := api.svc.QueryStudents(ctx.Request().Context(), ctx.QueryParam("status"))
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *academicApi) retrieveStudent(ctx echo.Context) error {
	std, err := api.svc.GetStudentByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, std)
}

func (api *academicApi) updateStudentStatus(ctx echo.Context) error {
	status, err := bindStatus(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.UpdateStudentStatus(ctx.Request().Context(), ctx.Param("id"), status); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Student status updated successfully"})
}

func (api *academicApi) createTeacher(ctx echo.Context) error {
	var data academic.NewTeacher
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTeacher")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	tch, err := api.svc.CreateTeacher(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, tch)
}

func (api *academicApi) queryTeachers(ctx echo.Context) error {
	teachers, err := api.svc.QueryTeachers(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying teachers")
	}
	return ctx.JSON(http.StatusOK, teachers)
}

func (api *academicApi) createCourse(ctx echo.Context) error {
	var data academic.NewCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCourse")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	crs, err := api.svc.CreateCourse(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, crs)
}

func (api *academicApi) queryCourses(ctx echo.Context) error {
	courses, err := api.svc.QueryCourses(ctx.Request().Context(), ctx.QueryParam("department_id"))
	if err != nil {
		return errors.Wrap(err, "querying courses")
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *academicApi) retrieveCourse(ctx echo.Context) error {
	crs, err := api.svc.GetCourseByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, crs)
}

func (api *academicApi) createSchedule(ctx echo.Context) error {
	var data academic.NewSchedule
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSchedule")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	sch, err := api.svc.CreateSchedule(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, sch)
}

func (api *academicApi) querySchedules(ctx echo.Context) error {
	schedules, err := api.svc.QuerySchedules(ctx.Request().Context(), ctx.QueryParam("course_id"))
	if err != nil {
		return errors.Wrap(err, "querying schedules")
	}
	return ctx.JSON(http.StatusOK, schedules)
}

func (api *academicApi) createEnrollment(ctx echo.Context) error {
	var data academic.NewEnrollment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEnrollment")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	enr, err := api.svc.Enroll(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, enr)
}

func (api *academicApi) queryEnrollments(ctx echo.Context) error {
	var filter academic.EnrollmentFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to EnrollmentFilter")
	}

	enrollments, err := api.svc.QueryEnrollments(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying enrollments")
	}
	return ctx.JSON(http.StatusOK, enrollments)
}

func (api *academicApi) updateEnrollmentStatus(ctx echo.Context) error {
	status, err := bindStatus(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.UpdateEnrollmentStatus(ctx.Request().Context(), ctx.Param("id"), status); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Enrollment status updated successfully"})
}

func (api *academicApi) createExam(ctx echo.Context) error {
	var data academic.NewExam
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewExam")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	exm, err := api.svc.CreateExam(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, exm)
}

func (api *academicApi) queryExams(ctx echo.Context) error {
	exams, err := api.svc.QueryExams(ctx.Request().Context(), ctx.QueryParam("course_id"))
	if err != nil {
		return errors.Wrap(err, "querying exams")
	}
	return ctx.JSON(http.StatusOK, exams)
}

func (api *academicApi) createGrade(ctx echo.Context) error {
	var data academic.NewGrade
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewGrade")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	ctxUsr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	grd, err := api.svc.CreateGrade(ctx.Request().Context(), data, ctxUsr.ID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, grd)
}

func (api *academicApi) queryGrades(ctx echo.Context) error {
	var filter academic.GradeFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to GradeFilter")
	}

	grades, err := api.svc.QueryGrades(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying grades")
	}
	return ctx.JSON(http.StatusOK, grades)
}

func (api *academicApi) createAttendance(ctx echo.Context) error {
	var data academic.NewAttendance
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAttendance")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	ctxUsr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	att, err := api.svc.CreateAttendance(ctx.Request().Context(), data, ctxUsr.ID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, att)
}

func (api *academicApi) queryAttendance(ctx echo.Context) error {
	var filter academic.AttendanceFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to AttendanceFilter")
	}

	records, err := api.svc.QueryAttendance(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying attendance")
	}
	return ctx.JSON(http.StatusOK, records)
}

func (api *academicApi) dashboard(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	stats, err := api.svc.Dashboard(ctx.Request().Context(), ctxUsr)
	if err != nil {
		return errors.Wrap(err, "computing dashboard stats")
	}
	return ctx.JSON(http.StatusOK, stats)
}
