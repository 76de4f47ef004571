package utils

import (
	"net/http/httptest"
	"testing"
	"time"

	"pixpay/internal/config"
	apperrors "pixpay/internal/errors"
	"pixpay/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIssuer(t *testing.T) {
	_, err := NewTokenIssuer(config.JWTConfig{})
	assert.ErrorIs(t, err, ErrMissingSecret)

	issuer, err := NewTokenIssuer(config.JWTConfig{Secret: "s3cret", Issuer: "pixpay-test", AccessExpiry: time.Minute})
	require.NoError(t, err)

	user := &models.User{Email: "a@pix.test", Role: models.RoleAdmin}
	user.ID = 7
	token, exp, err := issuer.Generate(user)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Minute), exp, 5*time.Second)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.True(t, claims.HasPermission(models.PermissionWithdrawalWrite))

	other, err := NewTokenIssuer(config.JWTConfig{Secret: "other", Issuer: "pixpay-test"})
	require.NoError(t, err)
	_, err = other.Parse(token)
	assert.Error(t, err)

	expired, err := NewTokenIssuer(config.JWTConfig{Secret: "s3cret", Issuer: "pixpay-test", AccessExpiry: -time.Minute})
	require.NoError(t, err)
	token, _, err = expired.Generate(user)
	require.NoError(t, err)
	_, err = issuer.Parse(token)
	assert.Error(t, err)
}

func TestGetPagination(t *testing.T) {
	app := fiber.New()
	var got Pagination
	app.Get("/", func(c *fiber.Ctx) error {
		got = GetPagination(c, 1, 20)
		return nil
	})

	tests := []struct {
		query      string
		page, size int
	}{
		{"", 1, 20},
		{"?page=3&limit=10", 3, 10},
		{"?page=0&limit=abc", 1, 20},
		{"?limit=500", 1, 100},
	}
	for _, tt := range tests {
		_, err := app.Test(httptest.NewRequest("GET", "/"+tt.query, nil))
		require.NoError(t, err)
		assert.Equal(t, tt.page, got.Page, tt.query)
		assert.Equal(t, tt.size, got.Limit, tt.query)
		assert.Equal(t, (tt.page-1)*tt.size, got.Offset, tt.query)
	}

	p := Pagination{Limit: 10}
	p.SetTotal(21)
	assert.Equal(t, 3, p.LastPage)
}

func TestDomainError(t *testing.T) {
	app := fiber.New()
	app.Get("/known", func(c *fiber.Ctx) error {
		return DomainError(c, fiber.StatusConflict, apperrors.ErrSettlementInProgress)
	})
	app.Get("/unknown", func(c *fiber.Ctx) error {
		return DomainError(c, fiber.StatusConflict, assert.AnError)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/known", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/unknown", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}
