package bddcli

import (
	"errors"
	"fmt"

	"github.com/google/go-cmp/cmp"
)

var (
	// ErrVerify matches every *VerifyError.
	ErrVerify = errors.New("call verification failed")

	// ErrNoResponse is returned when verifying a call that has no expected
	// response.
	ErrNoResponse = errors.New("call has no expected response")

	// ErrNoApplication is returned when invoking a call against a nil
	// Application.
	ErrNoApplication = errors.New("no application to invoke")
)

// VerifyError is returned by Verify when the observed response is not equal
// to the expected one.
type VerifyError struct {
	Title    string
	Expected Response
	Observed Response
}

func (e *VerifyError) Error() string {
	return fmt.Sprintf("%s: %q", ErrVerify, e.Title)
}

func (e *VerifyError) Is(target error) bool {
	return target == ErrVerify
}

// Diff returns a human readable diff of the two responses (-expected
// +observed).
func (e *VerifyError) Diff() string {
	return cmp.Diff(e.Expected, e.Observed)
}
