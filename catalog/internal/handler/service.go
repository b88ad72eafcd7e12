package handler

import (
	"context"

	"github.com/bookhive/catalog-service/catalog/internal/model"
	"github.com/bookhive/catalog-service/catalog/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type CatalogService interface {
	CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error)
	CreateBooks(ctx context.Context, reqs []model.CreateBookRequest) ([]model.Book, error)
	ListBooks(ctx context.Context) ([]model.Book, error)
	CategoryBooks(ctx context.Context, category string) ([]model.Book, error)
	BookByTitle(ctx context.Context, title string) (model.Book, error)
	TierBooks(ctx context.Context, tier model.Tier) ([]model.Book, error)
	UpdateBook(ctx context.Context, id string, req model.UpdateBookRequest) (model.Book, error)
	DeleteBook(ctx context.Context, id string) error
}

var _ CatalogService = (*service.Service)(nil)
