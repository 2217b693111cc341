package model

import "errors"

var (
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrChatNotFound       = errors.New("chat not found")
	ErrUserNotFound       = errors.New("user not found")
)
