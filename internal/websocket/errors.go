package websocket

import "errors"

var (
	ErrClientQueueFull = errors.New("client message queue is full")
	ErrClientClosed    = errors.New("client connection is closed")
	ErrInvalidMessage  = errors.New("invalid message format")
	ErrUnknownType     = errors.New("unknown message type")
)

// код фрейма error для ошибок без CodedError
const CodeBadRequest = "bad_request"

// CodedError задаёт код, с которым ошибка уходит клиенту во фрейме error
type CodedError struct {
	Code string
	Err  error
}

func (e *CodedError) Error() string { return e.Err.Error() }

func (e *CodedError) Unwrap() error { return e.Err }

func errorCode(err error) string {
	var coded *CodedError
	if errors.As(err, &coded) {
		return coded.Code
	}
	return CodeBadRequest
}
