package domain

import (
	"context"
	"errors"

	"github.com/gamevault/gamevault/pkg/db/pagination"
)

type CreateTitleRequest struct {
	Name        string
	Description string
	PriceCents  int64
	Developer   string
	Publisher   string
	Genre       string
}

type UpdateTitleRequest struct {
	ID          string
	Name        *string
	Description *string
	PriceCents  *int64
	Developer   *string
	Publisher   *string
	Genre       *string
}

type GetTitleRequest struct {
	ID string
}

type DeleteTitleRequest struct {
	ID string
}

type ListTitleRequest struct {
	PageToken string
	PageSize  int
	Genre     string
}

type ListTitleFilter struct {
	Genre string
}

type ListTitleResponse struct {
	pagination.PageInfo
	Titles []Title `json:"titles"`
}

type Service interface {
	Create(context.Context, CreateTitleRequest) (Title, error)
	GetByID(context.Context, GetTitleRequest) (Title, error)
	List(context.Context, ListTitleRequest) (ListTitleResponse, error)
	Update(context.Context, UpdateTitleRequest) (Title, error)
	Delete(context.Context, DeleteTitleRequest) error
}

var (
	ErrInvalidID    = errors.New("invalid_id")
	ErrInvalidName  = errors.New("invalid_name")
	ErrInvalidPrice = errors.New("invalid_price")
	ErrNotFound     = errors.New("not_found")
	ErrTitleInUse   = errors.New("title_in_use")
)
