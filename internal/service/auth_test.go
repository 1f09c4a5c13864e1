package service

import (
	"context"
	"testing"

	"github.com/Elie-50/allo-gaz-lebanon/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedAccount(t *testing.T, svc Service) *models.User {
	t.Helper()

	user, err := svc.CreateUser(context.Background(), &models.CreateUserRequest{
		Username:    "elie",
		Password:    "s3cret-pass",
		Email:       "elie@example.com",
		PhoneNumber: "+96170123456",
		IsStaff:     true,
	})
	require.NoError(t, err)
	return user
}

func TestLoginByUsernameEmailAndPhone(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	seedAccount(t, svc)

	for _, identifier := range []string{"elie", "elie@example.com", "+96170123456"} {
		tokens, err := svc.Login(ctx, identifier, "s3cret-pass")
		require.NoError(t, err, identifier)
		assert.NotEmpty(t, tokens.Access)
		assert.NotEmpty(t, tokens.Refresh)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	user := seedAccount(t, svc)

	_, err := svc.Login(ctx, "elie", "wrong")
	require.Error(t, err)
	_, ok := AsValidationError(err)
	assert.True(t, ok)

	_, err = svc.Login(ctx, "nobody", "s3cret-pass")
	require.Error(t, err)

	// Deactivated accounts cannot log in
	require.NoError(t, svc.DeleteUser(ctx, user.ID))
	_, err = svc.Login(ctx, "elie", "s3cret-pass")
	require.Error(t, err)
}

func TestVerifyAccessTokenRoundTrip(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	user := seedAccount(t, svc)

	tokens, err := svc.Login(ctx, "elie", "s3cret-pass")
	require.NoError(t, err)

	verified, err := svc.VerifyAccessToken(ctx, tokens.Access)
	require.NoError(t, err)
	assert.Equal(t, user.ID, verified.ID)

	// A refresh token is not an access token
	_, err = svc.VerifyAccessToken(ctx, tokens.Refresh)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.VerifyAccessToken(ctx, "garbage")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestRefreshIssuesNewPair(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	seedAccount(t, svc)

	tokens, err := svc.Login(ctx, "elie", "s3cret-pass")
	require.NoError(t, err)

	renewed, err := svc.Refresh(ctx, tokens.Refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, renewed.Access)
	assert.NotEmpty(t, renewed.Refresh)

	_, err = svc.VerifyAccessToken(ctx, renewed.Access)
	require.NoError(t, err)

	// An access token cannot be used to refresh
	_, err = svc.Refresh(ctx, tokens.Access)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	seedAccount(t, svc)

	_, err := svc.CreateUser(ctx, &models.CreateUserRequest{
		Username: "elie",
		Password: "another-pass",
	})
	require.Error(t, err)
	ve, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "username")
}

func TestReceiptGeneration(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	staff, driver, customer, address := seedOrderRefs(t, db)
	item := seedItem(t, db, "Gas Bottle 10kg", 10, 12, 8)

	// A day without orders reads as not found
	_, err := svc.GenerateReceipt(ctx, address.ID, driver.ID, "", staff)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.CreateOrder(ctx, orderRequest(customer, address, driver, item.ID, 2), staff)
	require.NoError(t, err)

	receipt, err := svc.GenerateReceipt(ctx, address.ID, driver.ID, "", staff)
	require.NoError(t, err)
	assert.NotEmpty(t, receipt.File)

	deleted, err := svc.PurgeReceipts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}
