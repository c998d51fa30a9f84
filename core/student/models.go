package student

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/classcodehub/codehub/core"
	"github.com/classcodehub/codehub/core/session"
)

type Student struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash []byte    `json:"-"` // nil for roster placeholders
	BranchName   string    `json:"branchname"`
	BatchName    string    `json:"batchname"`
	CreatedAt    time.Time `json:"created_at"` // UTC
}

func (s *Student) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	s.PasswordHash = hash
	return nil
}

// CheckPassword fails with ErrInvalidPassword on mismatch, and for placeholders which have no password at all.
func (s *Student) CheckPassword(pwd string) error {
	if !s.HasPassword() {
		return ErrInvalidPassword
	}
	if err := bcrypt.CompareHashAndPassword(s.PasswordHash, []byte(pwd)); err != nil {
		return ErrInvalidPassword
	}
	return nil
}

func (s *Student) HasPassword() bool { return len(s.PasswordHash) > 0 }

func (s *Student) Identity() session.Identity {
	return session.Identity{
		Email:      s.Email,
		BatchName:  s.BatchName,
		BranchName: s.BranchName,
	}
}

// NewStudent contains information needed to sign up a new Student.
type NewStudent struct {
	Name       string `json:"name" form:"name" validate:"required,notblank"`
	Email      string `json:"email" form:"email" validate:"required,notblank"` // format not checked
	Password   string `json:"password" form:"password" validate:"required"`
	BranchName string `json:"branchname" form:"branchname" validate:"required,notblank"`
	BatchName  string `json:"batchname" form:"batchname" validate:"required,notblank"`
}

func (ns *NewStudent) Validate(v *core.Validator) error {
	ns.Name = core.CleanString(ns.Name)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	ns.BranchName = core.CleanString(ns.BranchName, true /* lower */)
	ns.BatchName = core.CleanString(ns.BatchName)
	return v.Struct(ns, "invalid signup data")
}

// GetFilter selects a single Student. Only one field is used, in declaration order.
type GetFilter struct {
	ID    string
	Email string
}

// QueryFilter matches branch and batch names exactly, ignoring case.
type QueryFilter struct {
	BranchName string
	BatchName  string
}
