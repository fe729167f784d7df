package auth

import (
	"testing"

	"maia-sss/app/config"
	"maia-sss/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	config.AppConfig = &config.Config{JWTSecret: "test-secret"}
}

func strPtr(s string) *string { return &s }

func TestJWTRoundTrip(t *testing.T) {
	user := &models.User{
		ID:        "user-1",
		Email:     "dana@school.org",
		FirstName: strPtr("Dana"),
		LastName:  strPtr("Reyes"),
	}

	token, err := GenerateJWT(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)

	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "dana@school.org", claims.Email)
	assert.Equal(t, "Dana", claims.FirstName)
	assert.Equal(t, "Reyes", claims.LastName)
}

func TestValidateJWT_RejectsGarbage(t *testing.T) {
	_, err := ValidateJWT("not-a-token")
	assert.Error(t, err)
}

func TestValidateJWT_RejectsWrongSecret(t *testing.T) {
	user := &models.User{ID: "user-1", Email: "dana@school.org"}
	token, err := GenerateJWT(user)
	require.NoError(t, err)

	original := config.AppConfig.JWTSecret
	config.AppConfig.JWTSecret = "different-secret"
	defer func() { config.AppConfig.JWTSecret = original }()

	_, err = ValidateJWT(token)
	assert.Error(t, err)
}
