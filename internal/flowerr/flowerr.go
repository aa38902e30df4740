// Package flowerr provides the typed error taxonomy a flow returns, so a
// CLI or TUI front-end can decide how to present a failure (retry, prompt
// the user, or surface raw git output) without string-matching error text.
package flowerr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies why a flow stopped.
type Kind string

const (
	KindUserCancel               Kind = "user_cancel"
	KindPreconditionFailed       Kind = "precondition_failed"
	KindGitCommandFailed         Kind = "git_command_failed"
	KindConflictPending          Kind = "conflict_pending"
	KindDivergencePending        Kind = "divergence_pending"
	KindNetworkError             Kind = "network_error"
	KindAuthError                Kind = "auth_error"
	KindProtectedBranchViolation Kind = "protected_branch_violation"
	KindUnexpected               Kind = "unexpected"
)

// FlowError is the error type every flow operation returns on failure.
type FlowError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *FlowError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *FlowError) Unwrap() error { return e.Err }

func newErr(kind Kind, message string, err error) *FlowError {
	return &FlowError{Kind: kind, Message: message, Err: err}
}

func UserCancel(message string) *FlowError {
	return newErr(KindUserCancel, message, nil)
}

func PreconditionFailed(message string) *FlowError {
	return newErr(KindPreconditionFailed, message, nil)
}

func GitCommandFailed(message string, err error) *FlowError {
	return newErr(KindGitCommandFailed, message, err)
}

func ConflictPending(message string) *FlowError {
	return newErr(KindConflictPending, message, nil)
}

func DivergencePending(message string) *FlowError {
	return newErr(KindDivergencePending, message, nil)
}

func NetworkError(message string, err error) *FlowError {
	return newErr(KindNetworkError, message, err)
}

func AuthError(message string) *FlowError {
	return newErr(KindAuthError, message, nil)
}

func ProtectedBranchViolation(branch string) *FlowError {
	return newErr(KindProtectedBranchViolation, fmt.Sprintf("branch %q is protected", branch), nil)
}

func Unexpected(message string, err error) *FlowError {
	return newErr(KindUnexpected, message, err)
}

// AnalyzePushError classifies the output of a failed `git push`, matching
// the substring heuristics the underlying git plumbing surfaces instead of
// relying on exit codes alone (git uses exit code 1 for most push failures
// regardless of cause).
func AnalyzePushError(output string, err error) *FlowError {
	lower := strings.ToLower(output)
	switch {
	case strings.Contains(lower, "authentication") || strings.Contains(lower, "permission denied") || strings.Contains(lower, "403"):
		return AuthError("git host rejected the push credentials")
	case strings.Contains(lower, "could not resolve host") || strings.Contains(lower, "connection") || strings.Contains(lower, "timed out"):
		return NetworkError("could not reach the remote", err)
	case strings.Contains(lower, "protected branch") || strings.Contains(lower, "required status check"):
		return ProtectedBranchViolation("remote")
	case strings.Contains(lower, "non-fast-forward") || strings.Contains(lower, "fetch first") || strings.Contains(lower, "rejected"):
		return DivergencePending("remote has commits this branch does not")
	default:
		return GitCommandFailed("git push failed", err)
	}
}

// Is reports whether err is a FlowError of kind k, unwrapping through
// wrapped errors the way errors.Is would.
func Is(err error, k Kind) bool {
	var fe *FlowError
	return errors.As(err, &fe) && fe.Kind == k
}
