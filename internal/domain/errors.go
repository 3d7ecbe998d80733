package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrQuizNotFound indicates the quiz id did not resolve.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrSessionNotFound is returned when a participant session does not exist.
	ErrSessionNotFound = errors.New("participant session not found")
	// ErrAlreadySubmitted is returned when a terminal session is mutated or resubmitted.
	ErrAlreadySubmitted = errors.New("quiz already submitted")
	// ErrNotQuizOwner is returned when a creator touches another creator's quiz.
	ErrNotQuizOwner = errors.New("quiz belongs to another creator")
)

// Kind classifies a failure for transport mapping. Everything is fatal to the
// current action and non-fatal to the session; there is no retriable class.
type Kind int

const (
	KindValidation Kind = iota
	KindNotFound
	KindStorage
	KindIdentity
)

// Fault carries a user-facing message alongside the underlying cause.
type Fault struct {
	Kind    Kind
	Message string
	Err     error
}

func (f *Fault) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %v", f.Message, f.Err)
	}
	return f.Message
}

func (f *Fault) Unwrap() error { return f.Err }

// NewValidationError builds a user-visible validation fault that blocks the action.
func NewValidationError(msg string) error {
	return &Fault{Kind: KindValidation, Message: msg}
}

// NewStorageError wraps a storage collaborator failure with a generic retry hint.
func NewStorageError(err error) error {
	return &Fault{Kind: KindStorage, Message: "failed, please try again", Err: err}
}

// KindOf returns the fault kind, mapping known sentinels when the error was
// never wrapped in a Fault.
func KindOf(err error) Kind {
	var f *Fault
	if errors.As(err, &f) {
		return f.Kind
	}
	switch {
	case errors.Is(err, ErrQuizNotFound), errors.Is(err, ErrSessionNotFound):
		return KindNotFound
	case errors.Is(err, ErrAlreadySubmitted), errors.Is(err, ErrNotQuizOwner):
		return KindValidation
	}
	return KindStorage
}

// UserMessage returns the message to surface for err.
func UserMessage(err error) string {
	var f *Fault
	if errors.As(err, &f) {
		return f.Message
	}
	switch KindOf(err) {
	case KindNotFound:
		return "Quiz not found."
	case KindValidation:
		return err.Error()
	}
	return "failed, please try again"
}
