package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestAppErrorWrapsSentinel(t *testing.T) {
	err := Newf(ErrWordNotFound, "no entry for %q", "zeppelin")
	if !errors.Is(err, ErrWordNotFound) {
		t.Error("AppError does not unwrap to its sentinel")
	}
	want := `word not found in corpus: no entry for "zeppelin"`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		want Kind
	}{
		{New(ErrInvalidQuery, "empty"), KindValidation},
		{New(ErrWordNotFound, "missing"), KindNotFound},
		{New(ErrProcessing, "boom"), KindProcessing},
		{New(ErrTimeout, "slow"), KindTimeout},
		{New(ErrUnsupportedFormat, "pdf"), KindUnsupportedFormat},
		{New(ErrRunInFlight, "busy"), KindConflict},
		{errors.New("anything else"), KindInternal},
		{fmt.Errorf("outer: %w", New(ErrTimeout, "slow")), KindTimeout},
	}
	for _, tt := range tests {
		if got := KindOf(tt.err); got != tt.want {
			t.Errorf("KindOf(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestKindString(t *testing.T) {
	tests := map[Kind]string{
		KindInternal:          "internal",
		KindValidation:        "validation",
		KindNotFound:          "not_found",
		KindProcessing:        "processing",
		KindTimeout:           "timeout",
		KindUnsupportedFormat: "unsupported_format",
		KindConflict:          "conflict",
	}
	for kind, want := range tests {
		if got := kind.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", kind, got, want)
		}
	}
}
