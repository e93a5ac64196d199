// Package auth lets configured operators exchange a password for a signed
// token that opens the admin routes.
package auth

import (
	"context"
	"errors"
	"time"

	"kalasahayak/internal/config"
	"kalasahayak/internal/platform/crypto"
)

var ErrUnauthorized = errors.New("unauthorized")

type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Role        string `json:"role"`
}

type Service struct {
	secret    string
	ttl       time.Duration
	operators map[string]config.Operator
	dummyHash string
}

func NewService(secret string, ttl time.Duration, operators []config.Operator) (*Service, error) {
	dummy, err := HashPassword("no-such-operator")
	if err != nil {
		return nil, err
	}
	ops := make(map[string]config.Operator, len(operators))
	for _, op := range operators {
		ops[op.Name] = op
	}
	return &Service{secret: secret, ttl: ttl, operators: ops, dummyHash: dummy}, nil
}

// Login verifies name and password. Unknown names still pay for a bcrypt
// comparison so response time does not reveal which names exist.
func (s *Service) Login(ctx context.Context, name, password string) (Token, error) {
	op, ok := s.operators[name]
	hash := op.PasswordHash
	if !ok {
		hash = s.dummyHash
	}
	if !VerifyPassword(hash, password) || !ok {
		return Token{}, ErrUnauthorized
	}

	tok, _, err := crypto.GenerateToken(s.secret, op.Name, op.Role, s.ttl)
	if err != nil {
		return Token{}, err
	}
	return Token{
		AccessToken: tok,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.ttl.Seconds()),
		Role:        op.Role,
	}, nil
}
