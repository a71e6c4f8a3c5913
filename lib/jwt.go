package lib

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"eterna_server/structs"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ParseToken parses and validates a JWT token string and returns the claims
func ParseToken(tokenStr string, secret string) (*structs.AuthClaims, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	sub, err := uuidClaim(claims, "sub")
	if err != nil {
		return nil, err
	}

	jti, err := uuidClaim(claims, "jti")
	if err != nil {
		return nil, err
	}

	email, ok := claims["email"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: invalid email claim", ErrInvalidToken)
	}

	role, ok := claims["role"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: invalid role claim", ErrInvalidToken)
	}

	iat, ok := claims["iat"].(float64)
	if !ok {
		return nil, fmt.Errorf("%w: invalid iat claim", ErrInvalidToken)
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return nil, fmt.Errorf("%w: invalid exp claim", ErrInvalidToken)
	}

	return &structs.AuthClaims{
		Sub:   sub,
		Email: email,
		Role:  role,
		Iat:   time.Unix(int64(iat), 0),
		Exp:   time.Unix(int64(exp), 0),
		Jti:   jti,
	}, nil
}

func uuidClaim(claims jwt.MapClaims, key string) (uuid.UUID, error) {
	raw, ok := claims[key].(string)
	if !ok {
		return uuid.Nil, fmt.Errorf("%w: invalid %s claim", ErrInvalidToken, key)
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid UUID in %s claim", ErrInvalidToken, key)
	}
	return id, nil
}

// ExtractClaims reads and validates the access token cookie
func ExtractClaims(r *http.Request, secret string) (*structs.AuthClaims, error) {
	return claimsFromCookie(r, AccessCookieName, secret)
}

// ExtractRefreshClaims reads and validates the refresh token cookie
func ExtractRefreshClaims(r *http.Request, secret string) (*structs.AuthClaims, error) {
	return claimsFromCookie(r, RefreshCookieName, secret)
}

func claimsFromCookie(r *http.Request, name, secret string) (*structs.AuthClaims, error) {
	token, err := GetCookieValue(name, r)
	if err != nil || token == "" {
		return nil, ErrInvalidToken
	}

	return ParseToken(token, secret)
}
