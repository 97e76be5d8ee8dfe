package binpack

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is checks.
var (
	ErrIllegalMove      = errors.New("illegal move")
	ErrCorruptContainer = errors.New("corrupt container")
)

// IllegalMoveError names the position and move of a rejected entry.
type IllegalMoveError struct {
	FEN  string
	Move string
}

func (e *IllegalMoveError) Error() string {
	return fmt.Sprintf("illegal move %s in %q", e.Move, e.FEN)
}

func (e *IllegalMoveError) Unwrap() error { return ErrIllegalMove }

// ContainerError locates a malformed chunk or record in a binpack stream.
type ContainerError struct {
	Chunk  int   // zero-based chunk index
	Offset int64 // byte offset of the chunk header in the stream
	Reason string
	Err    error // underlying cause, may be nil
}

func (e *ContainerError) Error() string {
	msg := fmt.Sprintf("corrupt container: chunk %d at offset %d: %s", e.Chunk, e.Offset, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap reports both ErrCorruptContainer and the underlying cause.
func (e *ContainerError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrCorruptContainer}
	}
	return []error{ErrCorruptContainer, e.Err}
}
