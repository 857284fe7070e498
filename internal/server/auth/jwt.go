// Package auth implements the credential primitives of the service:
// HS256-signed bearer tokens and bcrypt password hashing.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/ums/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the token payload: the registered claim set (subject is the
// username) plus the account id and the denormalized roles string the
// directory resolved at issue time.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64  `json:"userId"`
	Roles  string `json:"roles"`
}

// GenerateToken mints a signed token for the given account. Issued-at is
// now, expires-at is now plus validityDuration.
func GenerateToken(username string, userID int64, roles string, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		UserID: userID,
		Roles:  roles,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken verifies the signature and expiry and returns the decoded
// claims. Expired tokens yield common.ErrTokenExpired; every other failure
// (bad signature, malformed input, wrong algorithm) yields
// common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.ErrInvalidToken
		}
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}

// IsTokenValid is a non-failing probe wrapping ParseToken.
func IsTokenValid(tokenString string, secretKey []byte) bool {
	_, err := ParseToken(tokenString, secretKey)
	return err == nil
}

// GetUserIDFromToken returns the account id claim of a valid token.
func GetUserIDFromToken(tokenString string, secretKey []byte) (int64, error) {
	claims, err := ParseToken(tokenString, secretKey)
	if err != nil {
		return 0, err
	}
	return claims.UserID, nil
}

// GetUsernameFromToken returns the subject of a valid token.
func GetUsernameFromToken(tokenString string, secretKey []byte) (string, error) {
	claims, err := ParseToken(tokenString, secretKey)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}
