// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/kasanda/chuo/core/academic"
	"github.com/kasanda/chuo/core/user"
)

func CreateUser(t *testing.T, repo user.Repository, email, pwd, role string, isActive bool) user.User {
	t.Helper()
	usr := user.User{
		Email:     email,
		Role:      role,
		FirstName: "Test",
		LastName:  "User",
		IsActive:  isActive,
		CreatedAt: time.Now().UTC(),
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateStudent(t *testing.T, repo academic.Repository, userID, number string) academic.Student {
	t.Helper()
	std, err := repo.CreateStudent(context.Background(), academic.Student{
		UserID:           userID,
		StudentNumber:    number,
		DepartmentID:     "dept1",
		AcademicYear:     "2024-2025",
		DateOfBirth:      "2000-01-01",
		EnrollmentStatus: academic.StatusPending,
		CreatedAt:        time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return std
}

func CreateTeacher(t *testing.T, repo academic.Repository, userID, number string) academic.Teacher {
	t.Helper()
	tch, err := repo.CreateTeacher(context.Background(), academic.Teacher{
		UserID:         userID,
		EmployeeNumber: number,
		DepartmentID:   "dept1",
		CreatedAt:      time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateTeacher() failed: %v", err)
	}
	return tch
}

func CreateCourse(t *testing.T, repo academic.Repository, name string, maxStudents int, teacherID string) academic.Course {
	t.Helper()
	crs, err := repo.CreateCourse(context.Background(), academic.Course{
		Name:         name,
		Code:         name,
		DepartmentID: "dept1",
		Credits:      4,
		Semester:     1,
		TeacherID:    teacherID,
		MaxStudents:  maxStudents,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateCourse() failed: %v", err)
	}
	return crs
}

func CreateEnrollment(t *testing.T, repo academic.Repository, studentID, courseID, status string) academic.Enrollment {
	t.Helper()
	enr, err := repo.CreateEnrollment(context.Background(), academic.Enrollment{
		StudentID:  studentID,
		CourseID:   courseID,
		Status:     status,
		EnrolledAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateEnrollment() failed: %v", err)
	}
	return enr
}
