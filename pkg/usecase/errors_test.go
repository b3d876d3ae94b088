package usecase_test

import (
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/caseline/pkg/usecase"
)

func TestErrors_SentinelErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrCaseNotFound", usecase.ErrCaseNotFound},
		{"ErrTitleRequired", usecase.ErrTitleRequired},
		{"ErrInvalidStatus", usecase.ErrInvalidStatus},
		{"ErrInvalidPriority", usecase.ErrInvalidPriority},
		{"ErrStatusUnchanged", usecase.ErrStatusUnchanged},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Value(t, tt.err).NotNil()
		})
	}
}

func TestErrors_ErrorsAreDistinct(t *testing.T) {
	gt.Bool(t, errors.Is(usecase.ErrCaseNotFound, usecase.ErrStatusUnchanged)).False()
	gt.Bool(t, errors.Is(usecase.ErrInvalidStatus, usecase.ErrInvalidPriority)).False()
}
