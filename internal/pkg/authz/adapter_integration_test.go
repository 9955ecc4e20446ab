//go:build integration

package authz

import (
	"context"
	"testing"

	"github.com/lankagov/gnportal/internal/pkg/testkit"
)

func TestPgxAdapter_SeededRules(t *testing.T) {
	pool := testkit.Postgres(t)
	ctx := context.Background()

	en, err := New(NewPgxAdapter(ctx, pool))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	t.Run("seeded policies", func(t *testing.T) {
		tests := []struct {
			role, route, method string
			want                bool
		}{
			{"citizen", "/api/v1/appointments/42/book", "POST", true},
			{"citizen", "/api/v1/officer/slots", "POST", false},
			{"officer", "/api/v1/officer/slots", "POST", true},
			{"officer", "/api/v1/staff/users", "POST", false},
			{"admin", "/api/v1/officer/appointments", "GET", true},
			{"admin", "/api/v1/staff/users", "POST", true},
		}
		for _, tt := range tests {
			got, err := en.Authorize(ctx, tt.role, tt.route, tt.method)
			if err != nil {
				t.Fatalf("Authorize() error = %v", err)
			}
			if got != tt.want {
				t.Fatalf("Authorize(%s, %s, %s) = %v, want %v", tt.role, tt.method, tt.route, got, tt.want)
			}
		}
	})

	t.Run("added policy is persisted", func(t *testing.T) {
		// Arrange
		if err := en.AddPolicy("officer", "/api/v1/reports", "GET"); err != nil {
			t.Fatalf("AddPolicy() error = %v", err)
		}

		// Act
		fresh, err := New(NewPgxAdapter(ctx, pool))
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		got, err := fresh.Authorize(ctx, "officer", "/api/v1/reports", "GET")

		// Assert
		if err != nil || !got {
			t.Fatalf("Authorize() = %v, %v, want true", got, err)
		}
	})
}
