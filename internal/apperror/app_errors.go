package apperror

import "errors"

var (
	ErrInvalidCell       = errors.New("invalid cell")
	ErrCellDisabled      = errors.New("cell is disabled")
	ErrUnknownDrawPolicy = errors.New("unknown draw policy")
)
