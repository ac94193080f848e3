package cwa

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestCategorizeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCategory
	}{
		{"nil", nil, ""},
		{"timeout sentinel", fmt.Errorf("%w: slow upstream", ErrTimeout), ErrorCategoryTimeout},
		{"deadline exceeded", context.DeadlineExceeded, ErrorCategoryTimeout},
		{"invalid api key", fmt.Errorf("%w: too short", ErrInvalidAPIKey), ErrorCategoryInvalidAPIKey},
		{"empty body", ErrEmptyBody, ErrorCategoryEmptyResponse},
		{"invalid response", fmt.Errorf("%w: parse JSON", ErrInvalidResponse), ErrorCategoryInvalidResponse},
		{"no records", ErrNoRecords, ErrorCategoryNoRecords},
		{"upstream", fmt.Errorf("%w: HTTP 502", ErrUpstream), ErrorCategoryUpstream},
		{"network string", errors.New("dial tcp: connection refused"), ErrorCategoryNetwork},
		{"timeout string", errors.New("i/o timeout"), ErrorCategoryTimeout},
		{"validation string", errors.New("invalid location name"), ErrorCategoryValidation},
		{"unknown", errors.New("boom"), ErrorCategoryUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CategorizeError(tt.err); got != tt.want {
				t.Errorf("CategorizeError(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}
