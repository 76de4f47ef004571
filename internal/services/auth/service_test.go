package auth_test

import (
	"context"
	"testing"

	"pixpay/internal/config"
	"pixpay/internal/models"
	"pixpay/internal/repositories"
	"pixpay/internal/services/auth"
	"pixpay/internal/testutil"
	"pixpay/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	db := testutil.NewDB(t)
	hash, err := auth.HashPassword("Sup3r$ecret")
	require.NoError(t, err)
	user := &models.User{Name: "Admin", Email: "admin@pix.test", Password: hash, Role: models.RoleAdmin}
	require.NoError(t, db.Create(user).Error)

	tokens, err := utils.NewTokenIssuer(config.JWTConfig{Secret: "test", Issuer: "pixpay-test"})
	require.NoError(t, err)
	svc := auth.NewService(repositories.NewUserRepository(db), tokens)
	ctx := context.Background()

	session, err := svc.Login(ctx, " Admin@pix.test ", "Sup3r$ecret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, session.User.ID)

	claims, err := tokens.Parse(session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)

	_, err = svc.Login(ctx, "admin@pix.test", "wrong")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = svc.Login(ctx, "ghost@pix.test", "Sup3r$ecret")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}
