package models

import "errors"

var (
	// ErrNotFound is returned by repositories when nothing is stored for a key.
	ErrNotFound = errors.New("not found")
	// ErrUserExists is returned when registering a taken username.
	ErrUserExists = errors.New("user already exists")
)
