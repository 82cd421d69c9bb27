package leave

import "errors"

var (
	ErrInvalidType    = errors.New("leave: unknown leave type")
	ErrEndBeforeStart = errors.New("leave: end date before start date")
	ErrNotFound       = errors.New("leave: request not found")
	ErrInvalidState   = errors.New("leave: request already decided")
)
