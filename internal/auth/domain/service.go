package domain

import (
	"context"
	"errors"
	"time"

	accountdomain "github.com/gamevault/gamevault/internal/account/domain"
)

type LoginRequest struct {
	Username string
	Password string
}

type LoginResponse struct {
	Account   accountdomain.Account `json:"account"`
	Token     string                `json:"-"`
	ExpiresAt time.Time             `json:"expires_at"`
}

type Service interface {
	Login(context.Context, LoginRequest) (LoginResponse, error)
	Logout(ctx context.Context, token string) error

	// Resolve maps a session token to its account, rejecting expired
	// sessions.
	Resolve(ctx context.Context, token string) (accountdomain.Account, error)
}

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrRateLimited        = errors.New("rate_limited")
	ErrUnauthorized       = errors.New("unauthorized")
)
