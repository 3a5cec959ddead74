package domain

// CheckStatus is the outcome of a single environment check.
type CheckStatus int

const (
	// StatusOK means the check passed.
	StatusOK CheckStatus = iota
	// StatusWarn means the check passed with a caveat worth surfacing.
	StatusWarn
	// StatusFail means the check failed and setup is unlikely to succeed.
	StatusFail
)

// CheckResult is the outcome of one diagnosis check.
type CheckResult struct {
	Name   string
	Status CheckStatus
	// Message describes what was observed.
	Message string
	// Recommendation suggests a fix. Empty when Status is StatusOK.
	Recommendation string
}

// Failed reports whether any result in the set is a failure.
func Failed(results []CheckResult) bool {
	for _, r := range results {
		if r.Status == StatusFail {
			return true
		}
	}
	return false
}
