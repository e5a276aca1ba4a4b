package domain

import (
	"context"
	"errors"
)

type PurchaseRequest struct {
	AccountID string
	TitleID   string

	// AgreedPriceCents pins the price the buyer saw. When nil the title's
	// live price at call time is captured instead.
	AgreedPriceCents *int64
}

type ListOwnedRequest struct {
	AccountID string
}

type GetReceiptRequest struct {
	PurchaseID string
	AccountID  string
}

type Service interface {
	Purchase(context.Context, PurchaseRequest) (Purchase, error)
	ListOwned(context.Context, ListOwnedRequest) ([]OwnedItem, error)
	GetReceipt(context.Context, GetReceiptRequest) (Receipt, error)
}

var (
	ErrInvalidID         = errors.New("invalid_id")
	ErrInvalidPrice      = errors.New("invalid_price")
	ErrAccountNotFound   = errors.New("account_not_found")
	ErrTitleNotFound     = errors.New("title_not_found")
	ErrAlreadyOwned      = errors.New("already_owned")
	ErrInsufficientFunds = errors.New("insufficient_funds")
	ErrOutOfStock        = errors.New("out_of_stock")
	ErrNotFound          = errors.New("not_found")
)
