package utils

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategorizeError_NilError(t *testing.T) {
	assert.Equal(t, "None", CategorizeError(nil))
}

func TestCategorizeError_SentinelErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"ScopeViolation", ErrScopeViolation, "Policy_Scope"},
		{"MaxDepthExceeded", ErrMaxDepthExceeded, "Policy_MaxDepth"},
		{"AlreadyVisited", ErrAlreadyVisited, "Policy_Visited"},
		{"Decoding", ErrDecoding, "Content_Decoding"},
		{"RequestCreation", ErrRequestCreation, "Internal_RequestCreation"},
		{"ResponseBodyRead", ErrResponseBodyRead, "Network_BodyRead"},
		{"ConfigValidation", ErrConfigValidation, "Config_Validation"},
		{"ServerHTTPError", ErrServerHTTPError, "HTTP_5xx"},
		{"OtherHTTPError", ErrOtherHTTPError, "HTTP_OtherStatus"},
		{"ClientHTTPError", ErrClientHTTPError, "HTTP_4xx"},
		{"Database", ErrDatabase, "Database_Other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CategorizeError(tt.err))
		})
	}
}

func TestCategorizeError_WrappedErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"404", fmt.Errorf("%w: status 404 Not Found", ErrClientHTTPError), "HTTP_404"},
		{"403", fmt.Errorf("%w: status 403 Forbidden", ErrClientHTTPError), "HTTP_403"},
		{"503", fmt.Errorf("fetch: %w", fmt.Errorf("%w: status 503", ErrServerHTTPError)), "HTTP_5xx"},
		{"HTML parse", WrapErrorf(ErrParsing, "parsing HTML from '%s'", "http://x"), "Content_ParsingHTML"},
		{"URL parse", WrapErrorf(ErrParsing, "bad URL '%s'", "::"), "Content_ParsingURL"},
		{"other parse", fmt.Errorf("%w: something", ErrParsing), "Content_ParsingOther"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CategorizeError(tt.err))
		})
	}
}

func TestCategorizeError_Fallbacks(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"Canceled", fmt.Errorf("get: %w", context.Canceled), "System_ContextCanceled"},
		{"Deadline", context.DeadlineExceeded, "System_ContextDeadlineExceeded"},
		{"Timeout text", errors.New("i/o timeout"), "Network_TimeoutGeneric"},
		{"Refused", errors.New("dial tcp: connection refused"), "Network_ConnectionRefused"},
		{"DNS", errors.New("lookup nowhere.invalid: no such host"), "Network_DNSLookup"},
		{"TLS", errors.New("x509: certificate signed by unknown authority"), "Network_TLS"},
		{"Network other", fmt.Errorf("%w: requesting 'http://x': %w", ErrNetwork, errors.New("EOF")), "Network_Other"},
		{"Network refused", fmt.Errorf("%w: %w", ErrNetwork, errors.New("dial tcp: connection refused")), "Network_ConnectionRefused"},
		{"Network canceled", fmt.Errorf("%w: %w", ErrNetwork, context.Canceled), "System_ContextCanceled"},
		{"Unknown", errors.New("something odd"), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CategorizeError(tt.err))
		})
	}
}

func TestWrapErrorf(t *testing.T) {
	err := WrapErrorf(ErrConfigValidation, "site '%s' has max_depth %d", "docs", -1)

	assert.ErrorIs(t, err, ErrConfigValidation)
	assert.Equal(t, "configuration validation error: site 'docs' has max_depth -1", err.Error())
}
