package domain_test

import (
	"errors"
	"testing"

	"github.com/paveproject/pave/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/zerr"
)

func TestExitError_Error(t *testing.T) {
	err := &domain.ExitError{Code: 2}
	assert.Equal(t, "exit status 2", err.Error())
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "nil error means success",
			err:  nil,
			want: 0,
		},
		{
			name: "bare exit error",
			err:  &domain.ExitError{Code: 2},
			want: 2,
		},
		{
			name: "exit error wrapped with context",
			err:  zerr.With(zerr.Wrap(&domain.ExitError{Code: 23}, "command failed"), "exit_code", 23),
			want: 23,
		},
		{
			name: "exit error joined with a sentinel",
			err:  errors.Join(domain.ErrSetupFailed, zerr.Wrap(&domain.ExitError{Code: 1}, "command failed")),
			want: 1,
		},
		{
			name: "large exit code passes through verbatim",
			err:  &domain.ExitError{Code: 130},
			want: 130,
		},
		{
			name: "plain error falls back to one",
			err:  errors.New("boom"),
			want: 1,
		},
		{
			name: "sentinel without exit code falls back to one",
			err:  domain.ErrConfigParseFailed,
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.ExitCode(tt.err))
		})
	}
}
