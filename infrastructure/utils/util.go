package utils

import (
	"time"

	"github.com/golang-jwt/jwt"

	"hootsuite-publisher/domain/model"
	"hootsuite-publisher/infrastructure/logger"
)

// DefaultTokenTTL is the lifetime of tokens minted with -issue-token.
const DefaultTokenTTL = 30 * 24 * time.Hour

func GetCurrentTime() time.Time {
	return time.Now().UTC()
}

// GenerateToken signs arbitrary claims with HS256.
func GenerateToken(payload map[string]interface{}, secretKey string) (string, error) {
	return sign(jwt.MapClaims(payload), secretKey)
}

// IssueUserToken mints an API bearer token for userName, valid for ttl
// from issuedAt.
func IssueUserToken(userName string, issuedAt time.Time, ttl time.Duration, secretKey string) (string, error) {
	return sign(model.UserClaims{
		UserName: userName,
		StandardClaims: jwt.StandardClaims{
			Subject:   userName,
			IssuedAt:  issuedAt.Unix(),
			ExpiresAt: issuedAt.Add(ttl).Unix(),
		},
	}, secretKey)
}

func sign(claims jwt.Claims, secretKey string) (string, error) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secretKey))
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while generate token")
		return "", err
	}
	return token, nil
}
