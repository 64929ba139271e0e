package service

import "errors"

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrNoChannel        = errors.New("broadcaster has no registered channel")
	ErrNoActiveGiveaway = errors.New("no active giveaway")
	ErrNoAnnouncer      = errors.New("no identity available to announce")
)
