package service

import (
	"errors"
	"fmt"
)

// Виды ошибок, которые транспортный слой превращает в HTTP-статусы.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrInvalidCart  = errors.New("invalid cart")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

// Error - ошибка с сообщением для клиента.
// errors.Is срабатывает и на Kind, и на исходную ошибку Err.
type Error struct {
	Kind error
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func newError(kind error, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// ClientMessage возвращает сообщение для клиента, если err - ошибка сервиса.
func ClientMessage(err error) (string, bool) {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Msg, true
	}
	return "", false
}
