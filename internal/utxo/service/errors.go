package service

import (
	"errors"
	"fmt"
)

// ErrNoNewBlock is returned by LatestBlock when no block arrives in time.
var ErrNoNewBlock = errors.New("no new block")

// Stable input error codes.
const (
	CodeInvalidAddress     = 1
	CodeInvalidBlockHash   = 2
	CodeInvalidHeight      = 3
	CodeInvalidTxID        = 4
	CodeMissingSelector    = 5
	CodeInvalidTransaction = 6
)

// InputError is a client error with a human-readable reason and a stable code.
type InputError struct {
	Code    int
	Message string
}

// NewInputError creates an InputError.
func NewInputError(code int, format string, args ...any) *InputError {
	return &InputError{Code: code, Message: fmt.Sprintf(format, args...)}
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s. Code:%d", e.Message, e.Code)
}
