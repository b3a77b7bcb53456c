package domain

import "errors"

// ErrParse is wrapped by every error produced while reading a description.
var ErrParse = errors.New("parse error")

// ErrInvalidProgram is wrapped by validation failures. Execution never begins on an invalid program.
var ErrInvalidProgram = errors.New("invalid program")

// ErrDuplicateTransition is returned when a (state, symbol) key is inserted twice.
var ErrDuplicateTransition = errors.New("duplicate transition")

// ErrInvalidInput is returned when an input tape contains a symbol outside the alphabet.
var ErrInvalidInput = errors.New("invalid input")

// ErrRunNotFound is returned when a run ID cannot be found in the store.
var ErrRunNotFound = errors.New("run not found")

// ErrMachineNotFound is returned when a named machine description does not exist.
var ErrMachineNotFound = errors.New("machine not found")
