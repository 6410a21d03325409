package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDomainError(t *testing.T) {
	baseErr := errors.New("base error")
	domainErr := NewDomainError(ErrorTypeNotFound, "resource not found", baseErr)

	assert.Equal(t, ErrorTypeNotFound, domainErr.Type)
	assert.Equal(t, "resource not found", domainErr.Message)
	assert.Equal(t, baseErr, domainErr.Err)
	assert.NotNil(t, domainErr.Details)
}

func TestDomainError_Error(t *testing.T) {
	tests := []struct {
		name    string
		err     *DomainError
		wantMsg string
	}{
		{
			name: "error with wrapped error",
			err: &DomainError{
				Type:    ErrorTypeCorpusUnavailable,
				Message: "species corpus unreachable",
				Err:     errors.New("connection refused"),
			},
			wantMsg: "corpus_unavailable: species corpus unreachable (connection refused)",
		},
		{
			name: "error without wrapped error",
			err: &DomainError{
				Type:    ErrorTypeValidation,
				Message: "question is required",
			},
			wantMsg: "validation: question is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMsg, tt.err.Error())
		})
	}
}

func TestDomainError_Unwrap(t *testing.T) {
	baseErr := errors.New("base error")
	domainErr := NewDomainError(ErrorTypeInternal, "internal error", baseErr)

	assert.Equal(t, baseErr, errors.Unwrap(domainErr))
}

func TestDomainError_Is(t *testing.T) {
	wrapped := fmt.Errorf("answering question: %w", ErrEmptyQuestion)

	assert.ErrorIs(t, wrapped, ErrEmptyQuestion)
	assert.ErrorIs(t, wrapped, ErrInvalidInput) // same type, Is matches on type
	assert.NotErrorIs(t, wrapped, ErrUnauthorized)
}

func TestErrorTypeHelpers(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		checker func(error) bool
		want    bool
	}{
		{"empty question is validation", ErrEmptyQuestion, IsValidationError, true},
		{"corpus unavailable", ErrCorpusUnavailable, IsCorpusUnavailableError, true},
		{"external search", ErrExternalSearchFailure, IsExternalSearchError, true},
		{"wrapped external search", fmt.Errorf("fallback: %w", ErrExternalSearchFailure), IsExternalSearchError, true},
		{"unauthorized", ErrUnauthorized, IsUnauthorizedError, true},
		{"not found", ErrQueryLogNotFound, IsNotFoundError, true},
		{"internal", ErrDatabaseError, IsInternalError, true},
		{"plain error is nothing", errors.New("plain"), IsValidationError, false},
		{"nil error", nil, IsInternalError, false},
		{"cross-type mismatch", ErrEmptyQuestion, IsInternalError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.checker(tt.err))
		})
	}
}

func TestGetErrorType(t *testing.T) {
	assert.Equal(t, ErrorTypeValidation, GetErrorType(ErrEmptyQuestion))
	assert.Equal(t, ErrorType(""), GetErrorType(errors.New("plain")))
}

func TestWrapError(t *testing.T) {
	cause := errors.New("timeout")
	err := WrapError(ErrorTypeExternalSearch, "calling search API", cause)

	assert.True(t, IsExternalSearchError(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "calling search API")
}

func TestWithDetail(t *testing.T) {
	err := NewDomainError(ErrorTypeValidation, "invalid limit", nil).
		WithDetail("limit", -1)

	details := GetErrorDetails(err)
	assert.Equal(t, -1, details["limit"])
}
