package flowerr

import (
	"errors"
	"testing"
)

func TestAnalyzePushError(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   Kind
	}{
		{"auth", "remote: Permission denied to user", KindAuthError},
		{"network", "fatal: could not resolve host: github.com", KindNetworkError},
		{"protected", "remote: error: GH006: Protected branch update failed", KindProtectedBranchViolation},
		{"diverged", "! [rejected] main -> main (non-fast-forward)", KindDivergencePending},
		{"unknown", "fatal: something else entirely", KindGitCommandFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AnalyzePushError(tt.output, errors.New("exit status 1"))
			if got.Kind != tt.want {
				t.Errorf("AnalyzePushError(%q) kind = %v, want %v", tt.output, got.Kind, tt.want)
			}
		})
	}
}

func TestFlowError_Unwrap(t *testing.T) {
	inner := errors.New("boom")
	fe := GitCommandFailed("git failed", inner)
	if !errors.Is(fe, inner) {
		t.Error("expected errors.Is to find the wrapped error")
	}
}

func TestIs(t *testing.T) {
	err := UserCancel("user declined")
	if !Is(err, KindUserCancel) {
		t.Error("expected Is to match KindUserCancel")
	}
	if Is(err, KindAuthError) {
		t.Error("did not expect Is to match KindAuthError")
	}
}
