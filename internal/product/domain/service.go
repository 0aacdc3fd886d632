package domain

import (
	"context"
	"errors"
)

type CreateProductRequest struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
}

type Service interface {
	Create(ctx context.Context, req CreateProductRequest) (*Product, error)
	List(ctx context.Context) ([]*Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
}

var (
	ErrInvalidSchema = errors.New("invalid_schema")
	ErrInvalidName   = errors.New("invalid_name")
	ErrInvalidPrice  = errors.New("invalid_price")
	ErrInvalidID     = errors.New("invalid_id")
	ErrNotFound      = errors.New("not_found")
)
