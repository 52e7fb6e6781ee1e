package services

import "errors"

// Lifecycle errors, mapped to HTTP statuses by the controllers.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyTaken  = errors.New("this book is already requested by another user")
	ErrLimitExceeded = errors.New("you have reached the maximum limit of books")
	ErrInvalidState  = errors.New("the book is not in a state that allows this action")
)
