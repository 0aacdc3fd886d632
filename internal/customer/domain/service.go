package domain

import (
	"context"
	"errors"
)

type CreateCustomerRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	RNC     string `json:"rnc"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type ListCustomerFilter struct {
	Name  string
	Email string
}

type Service interface {
	Create(ctx context.Context, req CreateCustomerRequest) (*Customer, error)
	List(ctx context.Context, filter ListCustomerFilter) ([]*Customer, error)
	GetByID(ctx context.Context, id string) (*Customer, error)
}

var (
	ErrInvalidSchema = errors.New("invalid_schema")
	ErrInvalidName   = errors.New("invalid_name")
	ErrInvalidID     = errors.New("invalid_id")
	ErrNotFound      = errors.New("not_found")
)
