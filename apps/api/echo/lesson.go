package echoapi

import (
	"io"
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/classcodehub/codehub/core"
	"github.com/classcodehub/codehub/core/lesson"
)

const (
	studentsField = "studentsname"
	filesField    = "filenames"
)

type lessonApi struct {
	svc       *lesson.Service
	validator *core.Validator
}

func registerLessonAPI(g *echo.Group, svc *lesson.Service, validator *core.Validator) {
	api := lessonApi{svc: svc, validator: validator}

	g.POST("/upload-lesson", api.upload)
	g.GET("/lessons", api.query)
	g.GET("/stulessons", api.queryForStudent)
}

// Handlers

// upload answers a missing branch or batch with a 400 and every other failure with a 500, malformed forms included.
func (api *lessonApi) upload(ctx echo.Context) error {
	form, err := ctx.MultipartForm()
	if err != nil {
		return errors.Wrap(err, "parsing multipart form")
	}

	value := func(key string) string {
		if v := form.Value[key]; len(v) > 0 {
			return v[0]
		}
		return ""
	}
	data := lesson.NewLesson{
		BranchName:   value("branchname"),
		BatchName:    value("batchname"),
		CreatedDate:  value("createddate"),
		TopicName:    value("topicname"),
		ClassType:    value("classtype"),
		StudentsName: form.Value[studentsField],
	}
	if err = data.Validate(api.validator); err != nil {
		return err
	}
	for _, fh := range form.File[filesField] {
		data.Files = append(data.Files, attachment(fh))
	}

	if _, err = api.svc.Upload(ctx.Request().Context(), data); err != nil {
		return errors.Wrap(err, "uploading lesson")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Lesson uploaded and students created"})
}

func attachment(fh *multipart.FileHeader) lesson.Attachment {
	return lesson.Attachment{
		Filename: fh.Filename,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

func (api *lessonApi) query(ctx echo.Context) error {
	var filter lesson.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}

	page, err := api.svc.Query(ctx.Request().Context(), filter, bindPagination(ctx))
	if err != nil {
		return errors.Wrap(err, "querying lessons")
	}
	return ctx.JSON(http.StatusOK, page)
}

// queryForStudent trusts the query string, not the session.
func (api *lessonApi) queryForStudent(ctx echo.Context) error {
	var query StudentLessonsQuery
	if err := ctx.Bind(&query); err != nil {
		return errMissingFields
	}
	if query.BranchName == "" || query.BatchName == "" || core.CleanString(query.Email) == "" {
		return errMissingFields
	}

	filter := lesson.QueryFilter{BranchName: query.BranchName, BatchName: query.BatchName}
	page, err := api.svc.QueryForStudent(ctx.Request().Context(), query.Email, filter, bindPagination(ctx))
	if err != nil {
		if errors.Cause(err) == lesson.ErrUnauthorized {
			return errUnauthorized
		}
		return errors.Wrap(err, "querying student lessons")
	}
	return ctx.JSON(http.StatusOK, page)
}
