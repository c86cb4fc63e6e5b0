package ai

import (
	"errors"
	"fmt"
)

// FailureKind classifies normalized provider failures.
type FailureKind string

const (
	// FailureCredential covers missing or rejected model credentials.
	FailureCredential FailureKind = "credential"
	// FailureTransport covers network errors, timeouts and provider-side
	// call failures.
	FailureTransport FailureKind = "transport"
	// FailureMalformed covers responses the caller cannot use at all,
	// e.g. an empty completion.
	FailureMalformed FailureKind = "malformed"
)

// ProviderError is the uniform failure signal for provider exchanges.
type ProviderError struct {
	Kind FailureKind
	Err  error
}

func (e *ProviderError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("provider %s failure", e.Kind)
	}
	return fmt.Sprintf("provider %s failure: %v", e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// KindOf extracts the failure kind from an error chain, or "" when the
// error is not a provider failure.
func KindOf(err error) FailureKind {
	var perr *ProviderError
	if errors.As(err, &perr) {
		return perr.Kind
	}
	return ""
}
