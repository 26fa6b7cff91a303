package controllers

import "errors"

var (
	ErrNotFound     = errors.New("employee not found")
	ErrInactive     = errors.New("account is not active")
	ErrInvalidInput = errors.New("invalid input")
	ErrInvalidDate  = errors.New("invalid date, expected YYYY-MM-DD")
	ErrStoreFailure = errors.New("store failure")
	ErrNoSession    = errors.New("no session")
)
