package goerror

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestError_StatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "not found", err: NewBusiness("missing", CodeNotFound), want: http.StatusNotFound},
		{name: "conflict", err: NewBusiness("taken", CodeConflict), want: http.StatusConflict},
		{name: "invalid state", err: NewBusiness("bad state", CodeInvalidState), want: http.StatusConflict},
		{name: "expired", err: NewBusiness("expired", CodeExpired), want: http.StatusGone},
		{name: "rate limited", err: NewBusiness("slow down", CodeTooManyRequest), want: http.StatusTooManyRequests},
		{name: "forbidden", err: NewBusiness("not yours", CodeForbidden), want: http.StatusForbidden},
		{name: "server", err: NewServer(errors.New("boom")), want: http.StatusInternalServerError},
		{name: "deadline", err: NewServer(context.DeadlineExceeded), want: http.StatusGatewayTimeout},
		{name: "format", err: NewInvalidFormat(), want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gerr *Error
			if !errors.As(tt.err, &gerr) {
				t.Fatalf("expected *Error, got %T", tt.err)
			}
			if got := gerr.StatusCode(); got != tt.want {
				t.Fatalf("StatusCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNewInvalidInput_Fields(t *testing.T) {
	// Arrange & Act
	err := NewInvalidInput(nil, "date", "must not be in the past", "purpose", "is required")

	// Assert
	var gerr *Error
	if !errors.As(err, &gerr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if gerr.Code() != CodeInvalidInput {
		t.Fatalf("code = %s, want %s", gerr.Code(), CodeInvalidInput)
	}
	if gerr.Fields()["date"] != "must not be in the past" || len(gerr.Fields()) != 2 {
		t.Fatalf("unexpected fields: %v", gerr.Fields())
	}

	odd := NewInvalidInput(nil, "only-key")
	if CodeOf(odd) != CodeInvalidFormat {
		t.Fatalf("odd pairs should be invalid format, got %s", CodeOf(odd))
	}
}

func TestCodeOf_Wrapped(t *testing.T) {
	err := fmt.Errorf("outer: %w", NewBusiness("slot taken", CodeConflict))
	if CodeOf(err) != CodeConflict {
		t.Fatalf("CodeOf() = %s, want %s", CodeOf(err), CodeConflict)
	}
	if CodeOf(errors.New("plain")) != CodeInternal {
		t.Fatal("plain error must map to internal")
	}
}
