// Package testutil holds helpers shared by tests across packages.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/classcodehub/codehub/core"
	"github.com/classcodehub/codehub/core/lesson"
	"github.com/classcodehub/codehub/core/student"
)

func CreateStudent(t *testing.T, repo student.Repository, name, email, pwd, branchName, batchName string) student.Student {
	stu := student.Student{
		Name:       name,
		Email:      email,
		BranchName: branchName,
		BatchName:  batchName,
		CreatedAt:  time.Now().UTC(),
	}
	if pwd != "" {
		if err := stu.SetPassword(pwd); err != nil {
			t.Fatalf("CreateStudent() failed: %v", err)
		}
	}
	stu, err := repo.CreateStudent(context.Background(), stu)
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return stu
}

func CreateLesson(t *testing.T, repo lesson.Repository, topic, createdDate, branchName, batchName string) lesson.Lesson {
	l, err := repo.CreateLesson(context.Background(), lesson.Lesson{
		BranchName:   branchName,
		BatchName:    batchName,
		StudentsName: []string{},
		CreatedDate:  createdDate,
		TopicName:    topic,
		FileNames:    []string{},
		ClassType:    "live",
		UploadedAt:   time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateLesson() failed: %v", err)
	}
	return l
}

// LoggerMock records logged messages.
type LoggerMock struct {
	mu       sync.Mutex
	Messages []string
}

var _ core.Logger = (*LoggerMock)(nil)

func (l *LoggerMock) log(level, msg string, args []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Messages = append(l.Messages, fmt.Sprintf("%s: %s %v", level, msg, args))
}

func (l *LoggerMock) Debug(msg string, args ...interface{}) { l.log("DEBUG", msg, args) }
func (l *LoggerMock) Info(msg string, args ...interface{})  { l.log("INFO", msg, args) }
func (l *LoggerMock) Warn(msg string, args ...interface{})  { l.log("WARN", msg, args) }
func (l *LoggerMock) Error(msg string, args ...interface{}) { l.log("ERROR", msg, args) }
func (l *LoggerMock) Fatal(msg string, args ...interface{}) { l.log("FATAL", msg, args) }

func (l *LoggerMock) Logged() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.Messages...)
}
