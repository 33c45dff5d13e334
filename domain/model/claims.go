package model

import "github.com/golang-jwt/jwt"

// UserClaims are the claims carried by API bearer tokens.
type UserClaims struct {
	UserName string `json:"user_name"`
	jwt.StandardClaims
}
