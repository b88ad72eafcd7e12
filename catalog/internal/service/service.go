package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/bookhive/catalog-service/catalog/internal/errs"
	"github.com/bookhive/catalog-service/catalog/internal/model"
	"github.com/bookhive/catalog-service/catalog/internal/repository"
)

type Service struct {
	log   *zap.Logger
	repo  repository.Repository
	valid *validator.Validate
}

func NewService(repo repository.Repository, log *zap.Logger) *Service {
	return &Service{
		log:   log,
		repo:  repo,
		valid: validator.New(),
	}
}

func (s *Service) CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error) {
	book, err := s.normalize(req)
	if err != nil {
		return model.Book{}, err
	}
	return s.repo.CreateBook(ctx, book)
}

// CreateBooks validates every item before the store is touched; the insert
// itself is all-or-nothing at the storage layer.
func (s *Service) CreateBooks(ctx context.Context, reqs []model.CreateBookRequest) ([]model.Book, error) {
	books := make([]model.Book, 0, len(reqs))
	for _, req := range reqs {
		book, err := s.normalize(req)
		if err != nil {
			return nil, err
		}
		books = append(books, book)
	}
	if len(books) == 0 {
		return books, nil
	}
	return s.repo.CreateBooks(ctx, books)
}

func (s *Service) ListBooks(ctx context.Context) ([]model.Book, error) {
	return s.repo.ListBooks(ctx)
}

func (s *Service) CategoryBooks(ctx context.Context, category string) ([]model.Book, error) {
	return s.repo.ListByCategory(ctx, strings.ToLower(category))
}

func (s *Service) BookByTitle(ctx context.Context, title string) (model.Book, error) {
	return s.repo.GetByTitle(ctx, strings.TrimSpace(title))
}

func (s *Service) TierBooks(ctx context.Context, tier model.Tier) ([]model.Book, error) {
	return s.repo.ListByTier(ctx, tier)
}

func (s *Service) UpdateBook(ctx context.Context, id string, req model.UpdateBookRequest) (model.Book, error) {
	if err := s.valid.Struct(req); err != nil {
		return model.Book{}, errs.ErrInvalidTier
	}
	if req.Link != nil && *req.Link == model.TierPaid && req.Price == nil {
		return model.Book{}, errs.ErrPriceRequired
	}
	// Switching a book to the free tier does not re-zero its price here.
	// That mirrors the launched behavior; an open product question tracks it.
	if req.Title != nil {
		t := strings.TrimSpace(*req.Title)
		req.Title = &t
	}
	if req.Category != nil {
		c := strings.ToLower(*req.Category)
		req.Category = &c
	}
	return s.repo.UpdateBook(ctx, id, req)
}

func (s *Service) DeleteBook(ctx context.Context, id string) error {
	return s.repo.DeleteBook(ctx, id)
}

// normalize applies the create-path rules: all fields required, tier must be
// a known value, paid books must carry an explicit price, free books are
// stored with price 0, category is lowercased and title trimmed.
func (s *Service) normalize(req model.CreateBookRequest) (model.Book, error) {
	if err := s.valid.Struct(req); err != nil {
		return model.Book{}, errs.ErrInvalidTier
	}
	if req.Title == "" || req.Img == "" || req.Category == "" || req.Content == "" || req.Link == "" {
		return model.Book{}, errs.ErrMissingField
	}
	if req.Link == model.TierPaid && req.Price == nil {
		return model.Book{}, errs.ErrPriceRequired
	}
	var price float64
	if req.Link == model.TierPaid {
		price = *req.Price
	}
	return model.Book{
		Title:    strings.TrimSpace(req.Title),
		Img:      req.Img,
		Category: strings.ToLower(req.Category),
		Content:  req.Content,
		Link:     req.Link,
		Price:    price,
	}, nil
}
