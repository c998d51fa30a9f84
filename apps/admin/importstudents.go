package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

// readRoster returns the first cell of every row after the header row.
func readRoster(path, sheet string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening roster")
	}
	defer func() { _ = f.Close() }()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "reading sheet %q", sheet)
	}

	names := make([]string, 0, len(rows))
	for i, row := range rows {
		if i == 0 || len(row) == 0 {
			continue
		}
		names = append(names, row[0])
	}
	return names, nil
}

func (cli *commandLine) importStudents(path, sheet, branchName, batchName string) error {
	names, err := readRoster(path, sheet)
	if err != nil {
		return err
	}
	created, err := cli.studentSvc.EnsureRoster(context.Background(), names, branchName, batchName)
	if err != nil {
		return errors.Wrap(err, "importing students")
	}
	fmt.Fprintf(cli.out, "%d student(s) created.\n", created)
	return nil
}
