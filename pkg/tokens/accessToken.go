package tokens

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Issuer is stamped on every access token and required when parsing.
const Issuer = "marine_shop"

// AccessClaims carries only the subject; roles are read from the user record.
type AccessClaims struct {
	jwt.RegisteredClaims
}

func NewAccessToken(secret []byte, userID string, now time.Time, ttl time.Duration) (string, time.Time, error) {
	exp := now.Add(ttl)
	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, exp, nil
}

func AccessClaimsFromToken(raw string, secret []byte) (*AccessClaims, error) {
	var claims AccessClaims
	tkn, err := jwt.ParseWithClaims(raw, &claims,
		func(*jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, jwt.ErrTokenSignatureInvalid
	}
	return &claims, nil
}

func IsExpired(err error) bool {
	return errors.Is(err, jwt.ErrTokenExpired)
}
