package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hootsuite-publisher/domain/model"
)

func TestIssueUserToken(t *testing.T) {
	issuedAt := time.Now().Truncate(time.Second)
	raw, err := IssueUserToken("admin", issuedAt, time.Hour, "secret")
	require.NoError(t, err)

	var claims model.UserClaims
	token, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	require.NoError(t, err)
	assert.True(t, token.Valid)
	assert.Equal(t, "HS256", token.Method.Alg())
	assert.Equal(t, "admin", claims.Subject)
	assert.Equal(t, "admin", claims.UserName)
	assert.Equal(t, issuedAt.Add(time.Hour).Unix(), claims.ExpiresAt)
}

func TestIssueUserToken_Expired(t *testing.T) {
	raw, err := IssueUserToken("admin", time.Now().Add(-2*time.Hour), time.Hour, "secret")
	require.NoError(t, err)

	_, err = jwt.ParseWithClaims(raw, &model.UserClaims{}, func(*jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	var ve *jwt.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.NotZero(t, ve.Errors&jwt.ValidationErrorExpired)
}
