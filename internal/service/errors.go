package service

import "errors"

var (
	ErrHomeNotFound = errors.New("home not found")
	ErrRoomNotFound = errors.New("room not found")
)
