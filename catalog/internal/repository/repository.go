package repository

import (
	"context"
	"database/sql"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/bookhive/catalog-service/catalog/internal/errs"
	"github.com/bookhive/catalog-service/catalog/internal/model"
)

//go:generate go run github.com/golang/mock/mockgen -source=repository.go -destination=mocks/mock.go

type Repository interface {
	CreateBook(ctx context.Context, book model.Book) (model.Book, error)
	CreateBooks(ctx context.Context, books []model.Book) ([]model.Book, error)
	ListBooks(ctx context.Context) ([]model.Book, error)
	ListByCategory(ctx context.Context, category string) ([]model.Book, error)
	GetByTitle(ctx context.Context, title string) (model.Book, error)
	ListByTier(ctx context.Context, tier model.Tier) ([]model.Book, error)
	UpdateBook(ctx context.Context, id string, req model.UpdateBookRequest) (model.Book, error)
	DeleteBook(ctx context.Context, id string) error
}

type repository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewRepository(db *sqlx.DB, log *zap.Logger) (*repository, error) {
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

const booksTableName = `books`

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var bookColumns = []string{"book_uid", "title", "img", "category", "content", "link", "price", "created_at", "updated_at"}

func returningBook() string {
	return "returning " + strings.Join(bookColumns, ", ")
}

func (r *repository) CreateBook(ctx context.Context, book model.Book) (model.Book, error) {
	q, args, err := qb.Insert(booksTableName).
		Columns("book_uid", "title", "img", "category", "content", "link", "price").
		Values(uuid.New(), book.Title, book.Img, book.Category, book.Content, book.Link, book.Price).
		Suffix(returningBook()).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	var created model.Book
	if err := r.db.GetContext(ctx, &created, q, args...); err != nil {
		r.log.Error("CreateBook", zap.String("q", q), zap.Any("args", args))
		return model.Book{}, mapConstraintErr(err)
	}
	return created, nil
}

// CreateBooks inserts the whole batch with a single multi-row INSERT, so any
// constraint violation rejects the batch with no partial insert.
func (r *repository) CreateBooks(ctx context.Context, books []model.Book) ([]model.Book, error) {
	ib := qb.Insert(booksTableName).
		Columns("book_uid", "title", "img", "category", "content", "link", "price")
	for _, book := range books {
		ib = ib.Values(uuid.New(), book.Title, book.Img, book.Category, book.Content, book.Link, book.Price)
	}
	q, args, err := ib.Suffix(returningBook()).ToSql()
	if err != nil {
		return nil, err
	}
	var created []model.Book
	if err := r.db.SelectContext(ctx, &created, q, args...); err != nil {
		r.log.Error("CreateBooks", zap.String("q", q), zap.Int("batch", len(books)))
		return nil, mapConstraintErr(err)
	}
	return created, nil
}

func (r *repository) ListBooks(ctx context.Context) ([]model.Book, error) {
	q, args, err := qb.Select(bookColumns...).
		From(booksTableName).
		OrderBy("created_at").
		ToSql()
	if err != nil {
		return nil, err
	}
	books := make([]model.Book, 0)
	if err := r.db.SelectContext(ctx, &books, q, args...); err != nil {
		return nil, err
	}
	return books, nil
}

func (r *repository) ListByCategory(ctx context.Context, category string) ([]model.Book, error) {
	q, args, err := qb.Select(bookColumns...).
		From(booksTableName).
		Where(sq.Eq{"category": category}).
		OrderBy("created_at").
		ToSql()
	if err != nil {
		return nil, err
	}
	books := make([]model.Book, 0)
	if err := r.db.SelectContext(ctx, &books, q, args...); err != nil {
		return nil, err
	}
	return books, nil
}

func (r *repository) GetByTitle(ctx context.Context, title string) (model.Book, error) {
	q, args, err := qb.Select(bookColumns...).
		From(booksTableName).
		Where("lower(title) = lower(?)", title).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	var book model.Book
	if err := r.db.GetContext(ctx, &book, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Book{}, errs.ErrNotFound
		}
		return model.Book{}, err
	}
	return book, nil
}

func (r *repository) ListByTier(ctx context.Context, tier model.Tier) ([]model.Book, error) {
	q, args, err := qb.Select(bookColumns...).
		From(booksTableName).
		Where(sq.Eq{"link": tier}).
		OrderBy("created_at").
		ToSql()
	if err != nil {
		return nil, err
	}
	books := make([]model.Book, 0)
	if err := r.db.SelectContext(ctx, &books, q, args...); err != nil {
		return nil, err
	}
	return books, nil
}

func (r *repository) UpdateBook(ctx context.Context, id string, req model.UpdateBookRequest) (model.Book, error) {
	ub := qb.Update(booksTableName).
		Set("updated_at", sq.Expr("now()"))
	if req.Title != nil {
		ub = ub.Set("title", *req.Title)
	}
	if req.Img != nil {
		ub = ub.Set("img", *req.Img)
	}
	if req.Category != nil {
		ub = ub.Set("category", *req.Category)
	}
	if req.Content != nil {
		ub = ub.Set("content", *req.Content)
	}
	if req.Link != nil {
		ub = ub.Set("link", *req.Link)
	}
	if req.Price != nil {
		ub = ub.Set("price", *req.Price)
	}
	q, args, err := ub.
		Where(sq.Eq{"book_uid": id}).
		Suffix(returningBook()).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	var book model.Book
	if err := r.db.GetContext(ctx, &book, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Book{}, errs.ErrNotFound
		}
		r.log.Error("UpdateBook", zap.String("q", q), zap.Any("args", args))
		return model.Book{}, mapConstraintErr(err)
	}
	return book, nil
}

func (r *repository) DeleteBook(ctx context.Context, id string) error {
	q, args, err := qb.Delete(booksTableName).
		Where(sq.Eq{"book_uid": id}).
		Suffix("returning book_uid").
		ToSql()
	if err != nil {
		return err
	}
	var deleted string
	if err := r.db.QueryRowContext(ctx, q, args...).Scan(&deleted); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return errs.ErrNotFound
		}
		return err
	}
	return nil
}

func mapConstraintErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return errs.ErrDuplicateTitle
	}
	return err
}
