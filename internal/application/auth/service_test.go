package auth

import (
	"context"
	"testing"

	"homescout-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func TestVerifyUser_Nil(t *testing.T) {
	u, err := VerifyUser(nil)
	assert.Nil(t, u)
	assert.Equal(t, ErrNotAuthenticated, err)
}

func TestVerifyUser_NoUserID(t *testing.T) {
	u, err := VerifyUser(map[string]interface{}{
		"fullname": "Test",
		"email":    "a@b.com",
	})
	assert.Nil(t, u)
	assert.Equal(t, ErrNotAuthenticated, err)
}

func TestVerifyUser_Valid(t *testing.T) {
	u, err := VerifyUser(map[string]interface{}{
		"user_id":      "550e8400-e29b-41d4-a716-446655440000",
		"fullname":     "Test User",
		"email":        "test@example.com",
		"role":         "user",
		"kyc_verified": true,
	})
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "550e8400-e29b-41d4-a716-446655440000", u.UserID)
	assert.Equal(t, "Test User", u.Fullname)
	assert.Equal(t, "user", u.Role)
	assert.True(t, u.KYCVerified)
}

func setupUsers(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}))
	hash, err := bcrypt.GenerateFromPassword([]byte("password123!"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, db.Create(&domain.User{
		Fullname:     "Asha Rao",
		Email:        "asha@example.com",
		PasswordHash: string(hash),
		Role:         "user",
	}).Error)
	return db
}

func TestGormUserFinder(t *testing.T) {
	f := &GormUserFinder{DB: setupUsers(t)}
	ctx := context.Background()

	u, err := f.FindByEmailAndPassword(ctx, " ASHA@example.com ", "password123!")
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", u.Fullname)

	_, err = f.FindByEmailAndPassword(ctx, "asha@example.com", "wrong")
	assert.ErrorIs(t, err, ErrIncorrectPassword)

	_, err = f.FindByEmailAndPassword(ctx, "nobody@example.com", "password123!")
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = f.FindByEmailAndPassword(ctx, "", "")
	assert.ErrorIs(t, err, ErrEmailPasswordRequired)
}
