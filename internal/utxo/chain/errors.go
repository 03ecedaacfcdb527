package chain

import "errors"

// ErrNotFound reports that the node does not know the requested block,
// transaction or height.
var ErrNotFound = errors.New("not found")

// ErrInvalidTransaction reports a raw transaction the node could not decode
// or refused to accept.
var ErrInvalidTransaction = errors.New("invalid transaction")
