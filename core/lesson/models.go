package lesson

import (
	"io"
	"time"

	"github.com/classcodehub/codehub/core"
)

type Lesson struct {
	ID           string    `json:"id"`
	BranchName   string    `json:"branchname"`
	BatchName    string    `json:"batchname"`
	StudentsName []string  `json:"studentsname"`
	CreatedDate  string    `json:"createddate"` // as sent by the client, never parsed
	TopicName    string    `json:"topicname"`
	FileNames    []string  `json:"filenames"`
	ClassType    string    `json:"classtype"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

// Attachment is an uploaded file not stored yet.
type Attachment struct {
	Filename string
	Open     func() (io.ReadCloser, error)
}

// NewLesson contains everything sent with a lesson upload.
type NewLesson struct {
	BranchName   string `json:"branchname" validate:"required,notblank"`
	BatchName    string `json:"batchname" validate:"required,notblank"`
	CreatedDate  string `json:"createddate"`
	TopicName    string `json:"topicname"`
	ClassType    string `json:"classtype"`
	StudentsName []string
	Files        []Attachment
}

// Validate only checks `nl`. Branch and batch names are stored as sent.
func (nl *NewLesson) Validate(v *core.Validator) error {
	return v.Struct(nl, "invalid lesson data")
}

// QueryFilter matches lessons exactly. Empty fields match everything.
type QueryFilter struct {
	BranchName string `query:"branchname"`
	BatchName  string `query:"batchname"`
}

// Page is one page of lessons, newest createddate first.
type Page struct {
	Lessons []Lesson `json:"lessons"`
	Total   int      `json:"total"`
	Page    int      `json:"page"`
	Pages   int      `json:"pages"`
}
