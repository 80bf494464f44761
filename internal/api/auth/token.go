package auth

import (
	"fmt"
	"time"

	"artison-api/config"
	"artison-api/internal/api/apierr"

	"github.com/golang-jwt/jwt/v5"
)

// Claims identify the user a token was issued to through the subject.
type Claims struct {
	jwt.RegisteredClaims
}

type TokenService struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(cfg config.JWTConfig) (*TokenService, error) {
	method := jwt.GetSigningMethod(cfg.Algorithm)
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unsupported token algorithm %q", cfg.Algorithm)
	}
	if cfg.Secret == "" {
		return nil, fmt.Errorf("token secret not configured")
	}
	return &TokenService{
		secret: []byte(cfg.Secret),
		method: method,
		ttl:    cfg.Expiration,
		now:    time.Now,
	}, nil
}

func (s *TokenService) Issue(userID string) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(s.method, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, apierr.ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, apierr.ErrInvalidToken
	}
	return claims, nil
}
