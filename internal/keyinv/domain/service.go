package domain

import (
	"context"
	"errors"
)

type AddKeyRequest struct {
	TitleID string
	KeyCode string
}

type AddKeyBatchRequest struct {
	TitleID string
	Count   int
}

type ListKeysRequest struct {
	TitleID string
}

type ListKeysResponse struct {
	Keys      []ActivationKey `json:"keys"`
	Available int64           `json:"available"`
}

type Service interface {
	Add(context.Context, AddKeyRequest) (ActivationKey, error)
	AddBatch(context.Context, AddKeyBatchRequest) ([]ActivationKey, error)
	ListByTitle(context.Context, ListKeysRequest) (ListKeysResponse, error)
	CountAvailable(ctx context.Context, titleID string) (int64, error)
}

var (
	ErrInvalidID        = errors.New("invalid_id")
	ErrInvalidKey       = errors.New("invalid_key")
	ErrInvalidBatchSize = errors.New("invalid_batch_size")
	ErrDuplicateKey     = errors.New("duplicate_key")
	ErrTitleNotFound    = errors.New("title_not_found")
)
