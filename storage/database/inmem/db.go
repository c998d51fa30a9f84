// Package inmemdb keeps every table in process memory. It backs tests and the `memory` database engine.
package inmemdb

import (
	"sync"

	"github.com/classcodehub/codehub/core/branch"
	"github.com/classcodehub/codehub/core/lesson"
	"github.com/classcodehub/codehub/core/student"
)

type (
	DB struct {
		student *studentTable
		branch  *branchTable
		lesson  *lessonTable
	}

	// tables are slices so that iteration follows insertion order
	studentTable struct {
		rows  []student.Student
		mutex sync.RWMutex
	}

	branchTable struct {
		rows  []branch.Branch
		mutex sync.RWMutex
	}

	lessonTable struct {
		rows  []lesson.Lesson
		mutex sync.RWMutex
	}
)

func Open() *DB {
	return &DB{
		student: &studentTable{},
		branch:  &branchTable{},
		lesson:  &lessonTable{},
	}
}

func copyStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append(make([]string, 0, len(s)), s...)
}
