package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestError_Format(t *testing.T) {
	err := New(ErrCodeInvalidLayer, "top layer %d too low", 2)
	want := "INVALID_LAYER: top layer 2 too low"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrap_PreservesCause(t *testing.T) {
	cause := stderrors.New("disk full")
	err := Wrap(ErrCodeInternal, cause, "write artifact")

	if !stderrors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
	if got := err.Error(); got != "INTERNAL_ERROR: write artifact: disk full" {
		t.Errorf("Error() = %q", got)
	}
}

func TestIs_MatchesCode(t *testing.T) {
	err := fmt.Errorf("plan: %w", New(ErrCodeRoutingInfeasible, "layer 3"))

	if !Is(err, ErrCodeRoutingInfeasible) {
		t.Error("Is(err, ROUTING_INFEASIBLE) = false, want true")
	}
	if Is(err, ErrCodeInvalidCell) {
		t.Error("Is(err, INVALID_CELL) = true, want false")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeCellNotFound, "x")); got != ErrCodeCellNotFound {
		t.Errorf("GetCode() = %q, want %q", got, ErrCodeCellNotFound)
	}
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeInvalidCell, "bad cell")); got != "bad cell" {
		t.Errorf("UserMessage() = %q, want %q", got, "bad cell")
	}
	if got := UserMessage(stderrors.New("plain")); got != "plain" {
		t.Errorf("UserMessage(plain) = %q, want %q", got, "plain")
	}
}

func TestValidateCellName(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"esd_small", false},
		{"clamp-v2", false},
		{"", true},
		{"a/b", true},
		{"..", true},
		{"bad\x00name", true},
	}
	for _, tt := range tests {
		err := ValidateCellName(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateCellName(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestValidateLayerRange(t *testing.T) {
	if err := ValidateLayerRange(2, 4); err != nil {
		t.Errorf("ValidateLayerRange(2, 4) = %v, want nil", err)
	}
	if err := ValidateLayerRange(4, 4); !Is(err, ErrCodeInvalidLayer) {
		t.Errorf("ValidateLayerRange(4, 4) = %v, want INVALID_LAYER", err)
	}
	if err := ValidateLayerRange(0, 4); !Is(err, ErrCodeInvalidLayer) {
		t.Errorf("ValidateLayerRange(0, 4) = %v, want INVALID_LAYER", err)
	}
}
