// Package disk stores uploaded files in a local directory.
package disk

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/classcodehub/codehub/core"
)

var nowFunc = time.Now // mockable

type Storage struct {
	dir string
}

var _ core.FileStorage = (*Storage)(nil)

// New returns a Storage writing under `dir`, creating it when missing.
func New(dir string) (*Storage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating upload directory")
	}
	return &Storage{dir: dir}, nil
}

func (s *Storage) Dir() string { return s.dir }

// Save writes `r` to `<unix millis>-<base name of filename>`.
// When that name is taken the timestamp is bumped until a free name is found.
func (s *Storage) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	base := cleanBase(filename)
	ms := nowFunc().UnixNano() / int64(time.Millisecond)

	var (
		name string
		f    *os.File
		err  error
	)
	for {
		if err = ctx.Err(); err != nil {
			return "", err
		}
		name = fmt.Sprintf("%d-%s", ms, base)
		f, err = os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			break
		}
		if os.IsNotExist(err) { // the directory itself is gone
			return "", core.NewIntegrityError("upload storage", errors.Wrap(err, "creating file"))
		}
		if !os.IsExist(err) {
			return "", errors.Wrap(err, "creating file")
		}
		ms++
	}

	if _, err = io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", errors.Wrap(err, "writing file")
	}
	if err = f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", errors.Wrap(err, "closing file")
	}
	return name, nil
}

func (s *Storage) Remove(_ context.Context, stored string) error {
	err := os.Remove(filepath.Join(s.dir, cleanBase(stored)))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "removing file")
	}
	return nil
}

// cleanBase keeps the last path element of a client supplied name, whichever separator it uses.
func cleanBase(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	base := filepath.Base(name)
	if base == "." || base == "/" || base == ".." {
		return "file"
	}
	return base
}
