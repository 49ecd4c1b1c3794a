package fetcher

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorMessage(t *testing.T) {
	err := &Error{Kind: KindNavigation, Op: "cwd", Week: "2190", Path: "2190", Err: errBoom}
	msg := err.Error()
	for _, want := range []string{"navigation", "cwd", "2190", "boom"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q should contain %q", msg, want)
		}
	}
}

func TestErrorKinds(t *testing.T) {
	wrapped := fmt.Errorf("week loop: %w", &Error{Kind: KindTransfer, Op: "retrieve", Err: errBoom})

	if !IsKind(wrapped, KindTransfer) {
		t.Error("IsKind should see through wrapping")
	}
	if IsKind(wrapped, KindSession) {
		t.Error("IsKind should not match a different kind")
	}
	if KindOf(wrapped) != KindTransfer {
		t.Errorf("KindOf() = %v", KindOf(wrapped))
	}
	if KindOf(errBoom) != 0 {
		t.Errorf("KindOf(plain error) = %v, want 0", KindOf(errBoom))
	}
	if !errors.Is(wrapped, errBoom) {
		t.Error("Unwrap should expose the cause")
	}
}

func TestKindString(t *testing.T) {
	for kind, want := range map[Kind]string{
		KindSession:    "session",
		KindNavigation: "navigation",
		KindTransfer:   "transfer",
		Kind(42):       "Kind(42)",
	} {
		if got := kind.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", int(kind), got, want)
		}
	}
}
