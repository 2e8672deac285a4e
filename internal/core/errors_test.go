package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestDomainError_Matching(t *testing.T) {
	err := ErrNotFound(CodeMissingManifest, "subtasks.json not found")
	wrapped := fmt.Errorf("loading workspace: %w", err)

	if !errors.Is(wrapped, ErrNotFound(CodeMissingManifest, "")) {
		t.Fatalf("expected wrapped error to match by category and code")
	}
	if errors.Is(wrapped, ErrNotFound(CodeMissingMetadata, "")) {
		t.Fatalf("expected mismatched code not to match")
	}
	if !IsCategory(wrapped, ErrCatNotFound) {
		t.Fatalf("expected not_found category")
	}
}

func TestDomainError_Cause(t *testing.T) {
	cause := errors.New("disk gone")
	err := ErrParse(CodeParseFailed, "reading output").WithCause(cause)

	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be unwrappable")
	}
	if GetCategory(errors.New("plain")) != ErrCatInternal {
		t.Fatalf("expected plain errors to classify as internal")
	}
}
