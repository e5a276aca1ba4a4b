package domain

import (
	"context"
	"errors"

	"github.com/gamevault/gamevault/pkg/db/pagination"
)

type RegisterRequest struct {
	Username string
	Password string
	Email    string
}

type ListAccountRequest struct {
	PageToken string
	PageSize  int
	Username  string
	Role      string
}

type ListAccountFilter struct {
	Username string
	Role     Role
}

type ListAccountResponse struct {
	pagination.PageInfo
	Accounts []Account `json:"accounts"`
}

type GetAccountRequest struct {
	ID string
}

type SetRoleRequest struct {
	ID   string
	Role string
}

type CreditBalanceRequest struct {
	ID          string
	AmountCents int64
}

type SetSteamIDRequest struct {
	ID      string
	SteamID string
}

type SearchRequest struct {
	Term      string
	ExcludeID string
}

type Service interface {
	Register(context.Context, RegisterRequest) (Account, error)
	GetByID(context.Context, GetAccountRequest) (Account, error)
	GetByUsername(ctx context.Context, username string) (Account, error)
	List(context.Context, ListAccountRequest) (ListAccountResponse, error)
	Search(context.Context, SearchRequest) ([]Account, error)
	SetRole(context.Context, SetRoleRequest) (Account, error)
	CreditBalance(context.Context, CreditBalanceRequest) (Account, error)
	SetSteamID(context.Context, SetSteamIDRequest) (Account, error)
}

var (
	ErrInvalidUsername   = errors.New("invalid_username")
	ErrInvalidPassword   = errors.New("invalid_password")
	ErrInvalidEmail      = errors.New("invalid_email")
	ErrInvalidID         = errors.New("invalid_id")
	ErrInvalidRole       = errors.New("invalid_role")
	ErrInvalidAmount     = errors.New("invalid_amount")
	ErrDuplicateUsername = errors.New("duplicate_username")
	ErrNotFound          = errors.New("not_found")
)
