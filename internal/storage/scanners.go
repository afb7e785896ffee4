package storage

import (
	"database/sql"
	"time"

	"github.com/sportsfest/livescore/internal/domain"
)

// scanner abstracts over *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanNullTime(nt sql.NullTime) *time.Time {
	if nt.Valid {
		return &nt.Time
	}
	return nil
}

func scanUser(s scanner) (*User, error) {
	var user User
	var lastLogin sql.NullTime
	err := s.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.IsAdmin,
		&user.PasswordChangeRequired, &user.CreatedAt, &lastLogin)
	if err != nil {
		return nil, err
	}
	user.LastLogin = scanNullTime(lastLogin)
	return &user, nil
}

func scanDepartment(s scanner) (*domain.Department, error) {
	var d domain.Department
	err := s.Scan(&d.ID, &d.Name, &d.Color, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
