package gateway

import (
	"errors"
	"testing"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		code string
		want int
	}{
		{ErrInvalidArgument, 400},
		{ErrInvalidSessionID, 404},
		{ErrNoSuchElement, 404},
		{ErrTimeout, 408},
		{ErrUnknownError, 500},
		{"not a real code", 500},
	}
	for _, c := range cases {
		if got := statusFor(c.code); got != c.want {
			t.Errorf("statusFor(%q) = %d, want %d", c.code, got, c.want)
		}
	}
}

func TestAsW3CError(t *testing.T) {
	t.Run("passes through an existing W3CError", func(t *testing.T) {
		orig := NewW3CError(ErrNoSuchWindow, "gone")
		got := asW3CError(orig)
		if got != orig {
			t.Errorf("expected the same *W3CError instance back")
		}
	})

	t.Run("wraps a plain error as unknown error", func(t *testing.T) {
		got := asW3CError(errors.New("boom"))
		if got.Code != ErrUnknownError {
			t.Errorf("code = %q, want %q", got.Code, ErrUnknownError)
		}
		if got.Message != "boom" {
			t.Errorf("message = %q, want %q", got.Message, "boom")
		}
	})
}

func TestInvalidSessionIDErr(t *testing.T) {
	err := invalidSessionIDErr("abc-123")
	if err.Code != ErrInvalidSessionID {
		t.Errorf("code = %q, want %q", err.Code, ErrInvalidSessionID)
	}
}
