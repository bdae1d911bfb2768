package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeNotFound, "template %q not found", "99")

	if err.Code != ErrCodeNotFound {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeNotFound)
	}
	if err.Message != `template "99" not found` {
		t.Errorf("Message = %v", err.Message)
	}
	want := `NOT_FOUND: template "99" not found`
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("decode failed")
	err := Wrap(ErrCodeRasterization, cause, "failed to rasterize card")

	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{"matching code", New(ErrCodeTooLarge, "x"), ErrCodeTooLarge, true},
		{"non-matching code", New(ErrCodeTooLarge, "x"), ErrCodeUnsupportedType, false},
		{"fmt wrapped", fmt.Errorf("outer: %w", New(ErrCodeBusy, "x")), ErrCodeBusy, true},
		{"plain error", errors.New("plain"), ErrCodeBusy, false},
		{"nil", nil, ErrCodeBusy, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCodeAndUserMessage(t *testing.T) {
	err := Wrap(ErrCodeMissingImages, errors.New("qr absent"), "Please add your profile image and QR code first!")

	if got := GetCode(err); got != ErrCodeMissingImages {
		t.Errorf("GetCode() = %v, want %v", got, ErrCodeMissingImages)
	}
	if got := UserMessage(err); got != "Please add your profile image and QR code first!" {
		t.Errorf("UserMessage() = %v", got)
	}
	if got := UserMessage(errors.New("plain")); got != "plain" {
		t.Errorf("UserMessage(plain) = %v", got)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %v, want empty", got)
	}
}
