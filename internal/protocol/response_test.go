package protocol

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResponseString(t *testing.T) {
	assert.Equal(t, "200 OK 3;12;4;2", OK("3", "12", "4", "2").String())
	assert.Equal(t, "200 OK ack", OK("ack").String())
	assert.Equal(t, "201 Created", Created().String())
	assert.Equal(t, "204 NoContent", NoContent().String())
	assert.Equal(t,
		"400 BadRequest argument+not+integer%3A+%22x%22",
		Response{Code: 400, Reason: "BadRequest", Message: `argument not integer: "x"`}.String(),
	)
}

func TestErrorResponse(t *testing.T) {
	testCases := []struct {
		name      string
		err       error
		wantCode  int
		wantReply bool
	}{
		{name: "other", err: fmt.Errorf("%w: PUT", ErrOther), wantReply: false},
		{name: "cannot read", err: ErrCannotRead, wantReply: false},
		{name: "no version", err: ErrNoVersion, wantCode: 400, wantReply: true},
		{name: "wrong version", err: ErrWrongVersion, wantCode: 505, wantReply: true},
		{name: "no password", err: ErrNoPassword, wantCode: 401, wantReply: true},
		{name: "wrong password", err: ErrWrongPassword, wantCode: 403, wantReply: true},
		{name: "credential backend down", err: fmt.Errorf("%w: redis down", ErrAuthFailed), wantCode: 500, wantReply: true},
		{name: "parse failed", err: ErrParseFailed, wantCode: 400, wantReply: true},
		{name: "arg count", err: ArgCountError(2, 1), wantCode: 400, wantReply: true},
		{name: "not integer", err: NotIntegerError("abc"), wantCode: 400, wantReply: true},
		{name: "invalid argument", err: InvalidArgumentError(errors.New("empty name")), wantCode: 400, wantReply: true},
		{name: "unknown request", err: UnknownRequestError(MethodPost, 42), wantCode: 404, wantReply: true},
		{name: "no data", err: NoDataError(errors.New("nothing")), wantCode: 204, wantReply: true},
		{name: "database", err: DatabaseError(errors.New("disk I/O error")), wantCode: 500, wantReply: true},
		{name: "unexpected", err: errors.New("boom"), wantCode: 500, wantReply: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp, ok := ErrorResponse(tc.err)
			assert.Equal(t, tc.wantReply, ok)
			if tc.wantReply {
				assert.Equal(t, tc.wantCode, resp.Code)
			}
		})
	}
}

func TestCredentialFailuresHideCause(t *testing.T) {
	resp, ok := ErrorResponse(fmt.Errorf("%w: hash mismatch detail", ErrWrongPassword))
	assert.True(t, ok)
	assert.Equal(t, "403 Forbidden protocol%3A+wrong+password", resp.String())

	resp, ok = ErrorResponse(fmt.Errorf("%w: dial tcp 10.0.0.5:6379: connection refused", ErrAuthFailed))
	assert.True(t, ok)
	assert.Equal(t, "500 InternalError protocol%3A+credential+check+failed", resp.String())
}

func TestNotIntegerKeepsToken(t *testing.T) {
	err := NotIntegerError("12a")
	assert.Equal(t, `argument not integer: "12a"`, err.Error())
	assert.Equal(t, "12a", err.Token)
}
