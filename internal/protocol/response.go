package protocol

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

const fieldSeparator = ";"

// Response is one status line:
//
//	<code> <Reason>[ <payload>]
//
// Success payloads are fields joined by ';'. Error payloads are a single
// URL-escaped message.
type Response struct {
	Code    int
	Reason  string
	Fields  []string
	Message string
}

func OK(fields ...string) Response {
	return Response{Code: 200, Reason: "OK", Fields: fields}
}

func Created() Response {
	return Response{Code: 201, Reason: "Created"}
}

func NoContent() Response {
	return Response{Code: 204, Reason: "NoContent"}
}

func (r Response) String() string {
	line := fmt.Sprintf("%d %s", r.Code, r.Reason)
	switch {
	case len(r.Fields) > 0:
		return line + " " + strings.Join(r.Fields, fieldSeparator)
	case r.Message != "":
		return line + " " + url.QueryEscape(r.Message)
	default:
		return line
	}
}

func (r Response) IsSuccess() bool {
	return r.Code >= 200 && r.Code < 300
}

func failure(code int, reason string, err error) Response {
	return Response{Code: code, Reason: reason, Message: err.Error()}
}

// ErrorResponse maps a connection-level or request-level error to its reply.
// The second result is false when the client gets no reply at all.
func ErrorResponse(err error) (Response, bool) {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		switch reqErr.Kind {
		case KindNoData:
			return NoContent(), true
		case KindUnknownRequest:
			return failure(404, "UnknownRequest", err), true
		case KindDatabase:
			return failure(500, "DatabaseError", err), true
		default:
			return failure(400, "BadRequest", err), true
		}
	}

	switch {
	case errors.Is(err, ErrOther), errors.Is(err, ErrCannotRead):
		return Response{}, false
	case errors.Is(err, ErrWrongVersion):
		return failure(505, "VersionNotSupported", err), true
	case errors.Is(err, ErrNoPassword):
		return failure(401, "Unauthorized", err), true
	case errors.Is(err, ErrWrongPassword):
		return failure(403, "Forbidden", ErrWrongPassword), true
	case errors.Is(err, ErrAuthFailed):
		return failure(500, "InternalError", ErrAuthFailed), true
	case errors.Is(err, ErrNoVersion), errors.Is(err, ErrParseFailed):
		return failure(400, "BadRequest", err), true
	default:
		return failure(500, "InternalError", ErrResponseFailed), true
	}
}
