package model

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

type Tier string

const (
	TierFree Tier = "free"
	TierPaid Tier = "paid"
)

type Book struct {
	ID        string    `json:"id" db:"book_uid"`
	Title     string    `json:"title" db:"title"`
	Img       string    `json:"img" db:"img"`
	Category  string    `json:"category" db:"category"`
	Content   string    `json:"content" db:"content"`
	Link      Tier      `json:"link" db:"link"`
	Price     float64   `json:"price" db:"price"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// CreateBookRequest carries a candidate book. Price is a pointer so a paid
// book with no price at all can be told apart from an explicit zero.
type CreateBookRequest struct {
	Title    string   `json:"title"`
	Img      string   `json:"img"`
	Category string   `json:"category"`
	Content  string   `json:"content"`
	Link     Tier     `json:"link" validate:"omitempty,oneof=free paid"`
	Price    *float64 `json:"price"`
}

// UpdateBookRequest is a partial book. Only non-nil fields are applied.
type UpdateBookRequest struct {
	Title    *string  `json:"title"`
	Img      *string  `json:"img"`
	Category *string  `json:"category"`
	Content  *string  `json:"content"`
	Link     *Tier    `json:"link" validate:"omitempty,oneof=free paid"`
	Price    *float64 `json:"price"`
}

// CreateRequest is the tagged form of a create body: exactly one of Single
// or Batch is set, depending on whether the client sent an object or an array.
type CreateRequest struct {
	Single *CreateBookRequest
	Batch  []CreateBookRequest
}

var ErrEmptyBody = errors.New("empty request body")

func DecodeCreateRequest(data []byte) (CreateRequest, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return CreateRequest{}, ErrEmptyBody
	}
	if trimmed[0] == '[' {
		var batch []CreateBookRequest
		if err := json.Unmarshal(trimmed, &batch); err != nil {
			return CreateRequest{}, err
		}
		return CreateRequest{Batch: batch}, nil
	}
	var single CreateBookRequest
	if err := json.Unmarshal(trimmed, &single); err != nil {
		return CreateRequest{}, err
	}
	return CreateRequest{Single: &single}, nil
}
