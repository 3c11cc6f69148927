package services

import (
	"errors"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrNotAuthorized      = errors.New("not authorized")
	ErrInvalidTransition  = errors.New("invalid transition")
	ErrDuplicateRequest   = errors.New("connection request already exists")
	ErrSelfConnection     = errors.New("cannot connect to yourself")
	ErrAlreadyRegistered  = errors.New("already registered")
	ErrEventFull          = errors.New("event is full")
	ErrNotAMember         = errors.New("not a member of this chat")
	ErrEmptyMessage       = errors.New("message is empty")
	ErrInvalidInput       = errors.New("invalid input")
	ErrAlreadyExists      = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrCollaboratorFailure обозначает любую ошибку хранилища или другого внешнего слоя
	ErrCollaboratorFailure = errors.New("collaborator failure")
)

// CollaboratorError оборачивает ошибку хранилища.
// errors.Is(err, ErrCollaboratorFailure) для неё истинно, Unwrap отдаёт причину.
type CollaboratorError struct {
	Op  string
	Err error
}

func (e *CollaboratorError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *CollaboratorError) Unwrap() error {
	return e.Err
}

func (e *CollaboratorError) Is(target error) bool {
	return target == ErrCollaboratorFailure
}

func collaborator(op string, err error) error {
	return &CollaboratorError{Op: op, Err: err}
}
