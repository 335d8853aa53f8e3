package service

import "errors"

var (
	// ErrInvalidSession is returned when a session id is not a valid UUID
	ErrInvalidSession = errors.New("invalid cart session")
)
