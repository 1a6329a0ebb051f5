package protocol

import (
	"errors"
	"fmt"
)

// Connection-level failures. They abort the connection before any handler runs.
var (
	ErrNoVersion      = errors.New("protocol: no version")
	ErrWrongVersion   = errors.New("protocol: wrong version")
	ErrNoPassword     = errors.New("protocol: no password")
	ErrWrongPassword  = errors.New("protocol: wrong password")
	ErrAuthFailed     = errors.New("protocol: credential check failed")
	ErrCannotRead     = errors.New("protocol: cannot read request")
	ErrWriteFailed    = errors.New("protocol: write failed")
	ErrParseFailed    = errors.New("protocol: parse failed")
	ErrResponseFailed = errors.New("protocol: response failed")
	ErrOther          = errors.New("protocol: unsupported method")
)

type ErrorKind int

const (
	KindArgCount ErrorKind = iota
	KindNotInteger
	KindInvalidArgument
	KindUnknownRequest
	KindNoData
	KindDatabase
)

func (k ErrorKind) String() string {
	switch k {
	case KindArgCount:
		return "wrong argument count"
	case KindNotInteger:
		return "argument not integer"
	case KindInvalidArgument:
		return "invalid argument"
	case KindUnknownRequest:
		return "unknown request"
	case KindNoData:
		return "no data"
	case KindDatabase:
		return "database error"
	default:
		return "unknown error"
	}
}

// RequestError is a failure inside a handler. It always maps to a reply.
type RequestError struct {
	Kind  ErrorKind
	Token string
	Err   error
}

func (e *RequestError) Error() string {
	switch {
	case e.Kind == KindNotInteger:
		return fmt.Sprintf("%s: %q", e.Kind, e.Token)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return e.Kind.String()
	}
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

func ArgCountError(want, got int) *RequestError {
	return &RequestError{Kind: KindArgCount, Err: fmt.Errorf("want %d arguments, got %d", want, got)}
}

func NotIntegerError(token string) *RequestError {
	return &RequestError{Kind: KindNotInteger, Token: token}
}

func InvalidArgumentError(err error) *RequestError {
	return &RequestError{Kind: KindInvalidArgument, Err: err}
}

func UnknownRequestError(method Method, number uint8) *RequestError {
	return &RequestError{Kind: KindUnknownRequest, Err: fmt.Errorf("%s %d", method, number)}
}

func NoDataError(err error) *RequestError {
	return &RequestError{Kind: KindNoData, Err: err}
}

func DatabaseError(err error) *RequestError {
	return &RequestError{Kind: KindDatabase, Err: err}
}
