package detector_test

import (
	"testing"

	"github.com/paveproject/pave/internal/adapters/detector"
)

func TestIsCI(t *testing.T) {
	tests := []struct {
		name     string
		ciValue  string
		expected bool
	}{
		{
			name:     "CI=true",
			ciValue:  "true",
			expected: true,
		},
		{
			name:     "CI=1",
			ciValue:  "1",
			expected: true,
		},
		{
			name:     "CI=false",
			ciValue:  "false",
			expected: false,
		},
		{
			name:     "CI unset",
			ciValue:  "",
			expected: false,
		},
		{
			name:     "CI=yes is not recognized",
			ciValue:  "yes",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CI", tt.ciValue)

			if got := detector.IsCI(); got != tt.expected {
				t.Errorf("IsCI() with CI=%q = %v, want %v", tt.ciValue, got, tt.expected)
			}
		})
	}
}

func TestIsInteractive_CIWins(t *testing.T) {
	// Even on a terminal, CI environments must never get a PTY.
	t.Setenv("CI", "true")

	if detector.IsInteractive() {
		t.Error("IsInteractive() = true with CI=true, want false")
	}
}

func TestIsInteractive_RequiresTTY(t *testing.T) {
	t.Setenv("CI", "")

	// The test harness pipes stdout, so without a terminal the session
	// cannot be interactive.
	if !detector.IsTTY() && detector.IsInteractive() {
		t.Error("IsInteractive() = true without a TTY, want false")
	}
}
