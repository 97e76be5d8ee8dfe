package chess

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is checks.
var (
	ErrInvalidFEN  = errors.New("invalid FEN")
	ErrInvalidMove = errors.New("invalid move")
)

// FENError reports which part of a FEN string was rejected.
type FENError struct {
	FEN    string
	Field  string
	Reason string
}

func (e *FENError) Error() string {
	return fmt.Sprintf("invalid FEN %q: %s: %s", e.FEN, e.Field, e.Reason)
}

func (e *FENError) Unwrap() error { return ErrInvalidFEN }

func fenError(fen, field, format string, args ...interface{}) error {
	return &FENError{FEN: fen, Field: field, Reason: fmt.Sprintf(format, args...)}
}

// MoveError reports a move string that cannot be applied to a position.
type MoveError struct {
	Move   string
	FEN    string
	Reason string
}

func (e *MoveError) Error() string {
	return fmt.Sprintf("invalid move %q in %q: %s", e.Move, e.FEN, e.Reason)
}

func (e *MoveError) Unwrap() error { return ErrInvalidMove }
