package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardError_IsMatchesCode(t *testing.T) {
	err := fmt.Errorf("classify: %w", NewBadFormatError("type: nope"))

	assert.True(t, stderrors.Is(err, BadFormat))
	assert.False(t, stderrors.Is(err, LoginNeeded))
	assert.Equal(t, ErrCodeBadFormat, CodeOf(err))
	assert.True(t, IsUserError(err))
}

func TestNewNotFoundError(t *testing.T) {
	err := NewNotFoundError(ErrCodeNoSuchSupportTicket, 42)

	assert.Equal(t, "no-such-support-ticket", err.Message)
	assert.Equal(t, "id: 42", err.Details)
	assert.False(t, err.Retryable)
	assert.True(t, IsUserError(err))
	assert.Equal(t, "NOT_FOUND", GetErrorCategory(err.Code))
}

func TestQueryError_UnwrapsCause(t *testing.T) {
	cause := stderrors.New("connection reset")
	err := NewQueryExecutionFailedError("node", cause)

	assert.ErrorIs(t, err, cause)
	assert.True(t, err.Retryable)
	assert.False(t, IsUserError(err))
}

func TestConvertToBPMNError(t *testing.T) {
	tests := []struct {
		name        string
		err         *StandardError
		wantCode    string
		wantRetries int
	}{
		{"user error throws without retries", NewLoginNeededError(), "login-needed", 0},
		{"not found keeps site identifier", NewNotFoundError(ErrCodeNoSuchNode, 1), "no-such-node", 0},
		{"database error retries", NewDatabaseInsertFailedError(stderrors.New("deadlock")), "DATABASE_INSERT_FAILED", 3},
		{"timeout retries twice", &StandardError{Code: ErrCodeQueryTimeout, Retryable: true}, "QUERY_TIMEOUT", 2},
		{"non-retryable flag wins", &StandardError{Code: ErrCodeQueryExecutionFailed, Retryable: false}, "QUERY_EXECUTION_FAILED", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bpmn := ConvertToBPMNError(tt.err)
			assert.Equal(t, tt.wantCode, bpmn.Code)
			assert.Equal(t, tt.wantRetries, bpmn.Retries)
			assert.Equal(t, string(tt.err.Code), bpmn.ToErrorVariables()["originalErrorCode"])
		})
	}
}

func TestNormalize(t *testing.T) {
	plain := stderrors.New("boom")
	std := Normalize(plain)
	require.NotNil(t, std)
	assert.Equal(t, ErrCodeInternal, std.Code)
	assert.ErrorIs(t, std, plain)

	wrapped := fmt.Errorf("outer: %w", NewBadFormatError("x"))
	assert.Equal(t, ErrCodeBadFormat, Normalize(wrapped).Code)
}

func TestShouldRetry(t *testing.T) {
	tests := []struct {
		name       string
		err        *StandardError
		jobRetries int32
		want       bool
	}{
		{"infrastructure error with retries left", NewQueryExecutionFailedError("node", stderrors.New("reset")), 3, true},
		{"broker unavailable", NewBrokerUnavailableError("complete job", stderrors.New("unavailable")), 1, true},
		{"no retries left", NewDatabaseInsertFailedError(stderrors.New("deadlock")), 0, false},
		{"user error", NewBadFormatError("x"), 3, false},
		{"retryable flag on a code with no retry budget", &StandardError{Code: ErrCodeInvalidInput, Retryable: true}, 3, false},
		{"retryable code marked permanent", &StandardError{Code: ErrCodeQueryTimeout, Retryable: false}, 3, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shouldRetry(tt.err, tt.jobRetries))
		})
	}
}
