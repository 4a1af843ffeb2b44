package apperrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	cause := errors.New("no rows")

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"not found", NotFound("User not found", cause), KindNotFound},
		{"forbidden", Forbidden("Not enough coins to open this pack", nil), KindForbidden},
		{"invalid state", InvalidState("Session is not active", nil), KindInvalidState},
		{"internal", Internal("Failed to load user", cause), KindInternal},
		{"plain error", cause, KindInternal},
		{"wrapped", fmt.Errorf("handler: %w", NotFound("Mail not found", nil)), KindNotFound},
		{"nil", nil, KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMessageOf(t *testing.T) {
	if got := MessageOf(NotFound("CardPack not found", nil)); got != "CardPack not found" {
		t.Errorf("MessageOf() = %q", got)
	}
	if got := MessageOf(errors.New("boom")); got != "Internal server error" {
		t.Errorf("MessageOf(plain) = %q", got)
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("no rows")
	err := NotFound("User not found", cause)
	if !errors.Is(err, cause) {
		t.Error("errors.Is should reach the cause")
	}
}
