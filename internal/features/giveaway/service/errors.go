package service

import "errors"

// Custom errors for giveaway service
var (
	ErrNotFound       = errors.New("giveaway not found")
	ErrChannelBusy    = errors.New("a giveaway is already open in this channel")
	ErrChatJoin       = errors.New("failed to join chat channel")
	ErrInvalidRequest = errors.New("invalid giveaway request")
)
