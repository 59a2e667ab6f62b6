package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	mysql "github.com/go-sql-driver/mysql"
	ulid "github.com/oklog/ulid/v2"
)

// ===== Error model =====

type Code string

const (
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeConflict        Code = "CONFLICT"
	CodeInternal        Code = "INTERNAL"
)

type APIError struct {
	Code    Code
	Message string
}

func (e *APIError) Error() string      { return fmt.Sprintf("%s: %s", e.Code, e.Message) }
func ErrInvalid(msg string) *APIError  { return &APIError{Code: CodeInvalidArgument, Message: msg} }
func ErrNotFound(msg string) *APIError { return &APIError{Code: CodeNotFound, Message: msg} }
func ErrConflict(msg string) *APIError { return &APIError{Code: CodeConflict, Message: msg} }

func toHTTPStatus(err error) int {
	var api *APIError
	if errors.As(err, &api) {
		switch api.Code {
		case CodeInvalidArgument:
			return 400
		case CodeNotFound:
			return 404
		case CodeConflict:
			return 409
		default:
			return 500
		}
	}
	return 500
}

// ===== Service =====

type Service struct {
	store *Store
}

func NewService(db *sql.DB) *Service { return &Service{store: NewStore(db)} }

const dateLayout = "2006-01-02"

func (s *Service) CreateBook(ctx context.Context, in CreateBookRequest) (*BookResponse, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Author) == "" ||
		strings.TrimSpace(in.ISBN) == "" || strings.TrimSpace(in.Genre) == "" {
		return nil, ErrInvalid("title, author, isbn, genre are required")
	}

	pubDate, err := time.Parse(dateLayout, in.PublicationDate)
	if err != nil {
		return nil, ErrInvalid("invalid publication_date format, expected YYYY-MM-DD")
	}

	total := 1
	if in.TotalCopies != nil {
		total = *in.TotalCopies
	}
	available := total
	if in.AvailableCopies != nil {
		available = *in.AvailableCopies
	}
	if total < 0 || available < 0 {
		return nil, ErrInvalid("copy counts must be >= 0")
	}
	if available > total {
		return nil, ErrInvalid("available_copies must not exceed total_copies")
	}

	// ISBNは業務キー。非アクティブな本とも重複させない
	dup, err := s.store.GetByISBN(ctx, in.ISBN)
	if err != nil {
		return nil, err
	}
	if dup != nil {
		return nil, ErrConflict("book with this ISBN already exists")
	}

	now := time.Now().UTC()
	b := &Book{
		BookID:          ulid.Make().String(),
		Title:           in.Title,
		Author:          in.Author,
		ISBN:            in.ISBN,
		PublicationDate: pubDate,
		Genre:           in.Genre,
		TotalCopies:     total,
		AvailableCopies: available,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.store.Insert(ctx, b); err != nil {
		// 事前チェックをすり抜けた同時登録はUNIQUE制約で拾う
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 {
			return nil, ErrConflict("book with this ISBN already exists")
		}
		return nil, err
	}

	resp := b.toResponse()
	return &resp, nil
}

// GetBook は公開用の1冊取得。ソフトデリート済みは見せない
func (s *Service) GetBook(ctx context.Context, bookID string) (*BookResponse, error) {
	b, err := s.store.GetByID(ctx, bookID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound("book not found")
		}
		return nil, err
	}
	if !b.IsActive {
		return nil, ErrNotFound("book not found")
	}
	resp := b.toResponse()
	return &resp, nil
}

func (s *Service) ListBooks(ctx context.Context, f BookSearchQuery, p Page) (*BookListResponse, error) {
	p = p.normalize()
	books, total, err := s.store.List(ctx, f, p)
	if err != nil {
		return nil, err
	}

	items := make([]BookResponse, 0, len(books))
	for i := range books {
		items = append(items, books[i].toResponse())
	}

	return &BookListResponse{
		Count:       len(items),
		Total:       total,
		TotalPages:  (total + int64(p.Limit) - 1) / int64(p.Limit),
		CurrentPage: p.Page,
		Items:       items,
	}, nil
}

// UpdateBook は管理者用のパッチ更新。非アクティブな本も編集できる
func (s *Service) UpdateBook(ctx context.Context, bookID string, in UpdateBookRequest) (*BookResponse, error) {
	b, err := s.store.GetByID(ctx, bookID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound("book not found")
		}
		return nil, err
	}

	if in.ISBN != nil && *in.ISBN != b.ISBN {
		other, err := s.store.GetByISBN(ctx, *in.ISBN)
		if err != nil {
			return nil, err
		}
		if other != nil && other.BookID != bookID {
			return nil, ErrConflict("another book with this ISBN already exists")
		}
	}

	var pubDate *time.Time
	if in.PublicationDate != nil {
		t, err := time.Parse(dateLayout, *in.PublicationDate)
		if err != nil {
			return nil, ErrInvalid("invalid publication_date format, expected YYYY-MM-DD")
		}
		pubDate = &t
	}

	// 更新後も 0 <= available <= total を満たすこと
	newTotal := b.TotalCopies
	if in.TotalCopies != nil {
		newTotal = *in.TotalCopies
	}
	newAvailable := b.AvailableCopies
	if in.AvailableCopies != nil {
		newAvailable = *in.AvailableCopies
	}
	if newTotal < 0 || newAvailable < 0 {
		return nil, ErrInvalid("copy counts must be >= 0")
	}
	if newAvailable > newTotal {
		return nil, ErrInvalid("available_copies must not exceed total_copies")
	}

	if _, err := s.store.Update(ctx, bookID, in, pubDate, time.Now().UTC()); err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 {
			return nil, ErrConflict("another book with this ISBN already exists")
		}
		return nil, err
	}

	updated, err := s.store.GetByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	resp := updated.toResponse()
	return &resp, nil
}

// DeleteBook はソフトデリート。貸出履歴からの参照は生かしたまま、新規貸出の対象から外す
func (s *Service) DeleteBook(ctx context.Context, bookID string) error {
	b, err := s.store.GetByID(ctx, bookID)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrNotFound("book not found")
		}
		return err
	}
	if !b.IsActive {
		return ErrNotFound("book not found")
	}

	n, err := s.store.SoftDelete(ctx, bookID, time.Now().UTC())
	if err != nil {
		return err
	}
	if n == 0 {
		// 直前に別リクエストが削除済み
		return ErrNotFound("book not found")
	}
	return nil
}
