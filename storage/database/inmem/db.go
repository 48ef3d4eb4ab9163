// Package inmemdb provides map-backed Repository implementations for tests
// and local runs without a database.
package inmemdb

import (
	"sync"

	"github.com/kasanda/chuo/core/academic"
	"github.com/kasanda/chuo/core/notification"
	"github.com/kasanda/chuo/core/user"
)

type DB struct {
	mutex sync.RWMutex

	users         map[string]*user.User
	departments   map[string]*academic.Department
	students      map[string]*academic.Student
	teachers      map[string]*academic.Teacher
	courses       map[string]*academic.Course
	schedules     map[string]*academic.Schedule
	enrollments   map[string]*academic.Enrollment
	exams         map[string]*academic.Exam
	grades        map[string]*academic.Grade
	attendance    map[string]*academic.Attendance
	notifications map[string]*notification.Notification
}

func NewDB() *DB {
	return &DB{
		users:         make(map[string]*user.User),
		departments:   make(map[string]*academic.Department),
		students:      make(map[string]*academic.Student),
		teachers:      make(map[string]*academic.Teacher),
		courses:       make(map[string]*academic.Course),
		schedules:     make(map[string]*academic.Schedule),
		enrollments:   make(map[string]*academic.Enrollment),
		exams:         make(map[string]*academic.Exam),
		grades:        make(map[string]*academic.Grade),
		attendance:    make(map[string]*academic.Attendance),
		notifications: make(map[string]*notification.Notification),
	}
}
