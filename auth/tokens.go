// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrWeakSecret   = errors.New("token secret must be at least 32 bytes")
)

// Identity is a resolved caller.
type Identity struct {
	UserID string
	Guest  bool
}

// Claims is the JWT payload for an identity token.
type Claims struct {
	jwt.RegisteredClaims
	Guest bool `json:"guest,omitempty"`
}

// TokenIssuer issues and validates HS256 identity tokens.
type TokenIssuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer creates an issuer. issuer doubles as the audience.
func NewTokenIssuer(secret []byte, issuer string, ttl time.Duration) (*TokenIssuer, error) {
	if len(secret) < 32 {
		return nil, ErrWeakSecret
	}
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &TokenIssuer{secret: secret, issuer: issuer, ttl: ttl, now: time.Now}, nil
}

// Issue signs a token for userID.
func (p *TokenIssuer) Issue(userID string, guest bool) (string, time.Time, error) {
	jti, err := GenerateID(16)
	if err != nil {
		return "", time.Time{}, err
	}
	now := p.now().UTC()
	expiresAt := now.Add(p.ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   userID,
			Issuer:    p.issuer,
			Audience:  jwt.ClaimStrings{p.issuer},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Guest: guest,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// Validate checks signature, expiry, issuer and audience, and returns the
// identity carried by the token.
func (p *TokenIssuer) Validate(tokenString string) (Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return p.secret, nil
	}, jwt.WithTimeFunc(p.now))
	if err != nil {
		return Identity{}, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Identity{}, ErrInvalidToken
	}
	if claims.Issuer != p.issuer || !slices.Contains(claims.Audience, p.issuer) {
		return Identity{}, ErrInvalidToken
	}
	if claims.Subject == "" {
		return Identity{}, ErrInvalidToken
	}
	return Identity{UserID: claims.Subject, Guest: claims.Guest}, nil
}
