package usecase

import (
	"context"
	"testing"

	"github.com/lankagov/gnportal/internal/citizen/entity"
	"github.com/lankagov/gnportal/internal/pkg/goerror"
	"github.com/lankagov/gnportal/internal/pkg/jwt"
)

func TestUsecase_Profile(t *testing.T) {
	t.Run("returns the caller with their division", func(t *testing.T) {
		// Arrange
		h := newHarness(t)
		c := h.seedCitizen(t, 1, "200156789012", "secret-pass")
		divID := int64(3)
		c.DivisionID = &divID
		h.repo.divisions["KAN-01"] = &entity.Division{ID: divID, Code: "KAN-01", Name: "Kandy North"}
		ctx := jwt.SetAuth(context.Background(), jwt.Claims{UserID: 1, Role: jwt.RoleCitizen})

		// Act
		got, err := h.uc.Profile(ctx)

		// Assert
		if err != nil {
			t.Fatalf("Profile() error = %v", err)
		}
		if got.Citizen.NIC != "200156789012" || got.Division == nil || got.Division.Code != "KAN-01" {
			t.Fatalf("profile = %+v", got)
		}
	})

	t.Run("staff token is rejected", func(t *testing.T) {
		h := newHarness(t)
		h.seedCitizen(t, 1, "200156789012", "secret-pass")
		ctx := jwt.SetAuth(context.Background(), jwt.Claims{UserID: 1, Role: jwt.RoleOfficer})

		_, err := h.uc.Profile(ctx)

		assertCode(t, err, goerror.CodeUnauthorized)
	})

	t.Run("deleted citizen is not found", func(t *testing.T) {
		h := newHarness(t)
		ctx := jwt.SetAuth(context.Background(), jwt.Claims{UserID: 9, Role: jwt.RoleCitizen})

		_, err := h.uc.Profile(ctx)

		assertCode(t, err, goerror.CodeNotFound)
	})
}
