package errors

import (
	"errors"
	"net/http"
	"testing"
)

func TestAppError_ErrorFormat(t *testing.T) {
	err := NewValidationError("bad input", nil)
	if err.Error() != "validation: bad input" {
		t.Errorf("Unexpected error string: %s", err.Error())
	}

	cause := errors.New("boom")
	wrapped := NewInferenceError("forward pass failed", cause)
	want := "inference: forward pass failed (caused by: boom)"
	if wrapped.Error() != want {
		t.Errorf("Error() = %q, want %q", wrapped.Error(), want)
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("underlying")
	err := NewLoadError("cannot decode", cause)

	if !errors.Is(err, cause) {
		t.Error("Expected errors.Is to find the cause through Unwrap")
	}
}

func TestAppError_WithStage(t *testing.T) {
	err := NewRenderError("colormap failed", nil).WithStage("heatmap")
	if err.Stage != "heatmap" {
		t.Errorf("Expected stage heatmap, got %s", err.Stage)
	}
}

func TestStatusCodes(t *testing.T) {
	tests := []struct {
		err  *AppError
		want int
	}{
		{NewValidationError("x", nil), http.StatusBadRequest},
		{NewLoadError("x", nil), http.StatusUnprocessableEntity},
		{NewInferenceError("x", nil), http.StatusInternalServerError},
		{NewTimeoutError("x", nil), http.StatusGatewayTimeout},
	}
	for _, tt := range tests {
		if got := GetStatusCode(tt.err); got != tt.want {
			t.Errorf("GetStatusCode(%s) = %d, want %d", tt.err.Type, got, tt.want)
		}
	}

	if got := GetStatusCode(errors.New("plain")); got != http.StatusInternalServerError {
		t.Errorf("Expected 500 for plain error, got %d", got)
	}
}

func TestIsType(t *testing.T) {
	err := NewPersistenceError("disk full", nil)
	if !IsType(err, ErrorTypePersistence) {
		t.Error("Expected persistence type match")
	}
	if IsType(err, ErrorTypeValidation) {
		t.Error("Unexpected validation type match")
	}
	if IsType(errors.New("plain"), ErrorTypeValidation) {
		t.Error("Plain errors must not match any type")
	}
}
