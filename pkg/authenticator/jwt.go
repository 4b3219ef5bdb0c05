package authenticator

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

type TokenEngine interface {
	Generate(expiration time.Duration, obj any) (string, error)
	Verify(token string, obj any) error
}

type tokenClaims struct {
	jwt.RegisteredClaims
	Object json.RawMessage `json:"obj,omitempty"`
}

type jwtEngine struct {
	secret string
}

func NewTokenEngine(secret string) TokenEngine {
	return &jwtEngine{secret: secret}
}

func (e *jwtEngine) Generate(expiration time.Duration, obj any) (string, error) {
	b, err := json.Marshal(obj)
	if err != nil {
		return "", err
	}

	now := time.Now()
	claims := tokenClaims{
		Object: b,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(expiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(e.secret))
}

func (e *jwtEngine) Verify(token string, obj any) error {
	var claims tokenClaims
	_, err := jwt.ParseWithClaims(
		token, &claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return []byte(e.secret), nil
		},
	)
	if err != nil {
		return err
	}

	return json.Unmarshal(claims.Object, obj)
}
