package borrowing

import (
	"errors"
	"fmt"
)

type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

const (
	CodeNotFound        = "NOT_FOUND"
	CodeBookUnavailable = "BOOK_UNAVAILABLE"
	CodeDuplicateBorrow = "DUPLICATE_BORROW"
	CodeAlreadyReturned = "ALREADY_RETURNED"
	CodeForbidden       = "FORBIDDEN"
	CodeConflict        = "CONFLICT"
	CodeInvalidArgument = "INVALID_ARGUMENT"
	CodeInternal        = "INTERNAL"
)

func NewNotFoundError(msg string) error {
	return &DomainError{Code: CodeNotFound, Message: msg}
}

func NewBookUnavailableError() error {
	return &DomainError{Code: CodeBookUnavailable, Message: "book is currently not available"}
}

func NewDuplicateBorrowError() error {
	return &DomainError{Code: CodeDuplicateBorrow, Message: "already borrowed this book, return it first"}
}

func NewAlreadyReturnedError() error {
	return &DomainError{Code: CodeAlreadyReturned, Message: "book has already been returned"}
}

func NewForbiddenError(msg string) error {
	return &DomainError{Code: CodeForbidden, Message: msg}
}

// Conflict はトランザクション中の原子的更新に負けた場合。
// 呼び出し側は状態未変更とみなしてよいが、再試行前の確認を推奨
func NewConflictError(msg string) error {
	return &DomainError{Code: CodeConflict, Message: msg}
}

func NewInvalidArgumentError(msg string) error {
	return &DomainError{Code: CodeInvalidArgument, Message: msg}
}

func ToHTTPStatus(err error) int {
	var de *DomainError
	if errors.As(err, &de) {
		switch de.Code {
		case CodeNotFound:
			return 404
		case CodeBookUnavailable, CodeDuplicateBorrow, CodeAlreadyReturned, CodeInvalidArgument:
			return 400
		case CodeForbidden:
			return 403
		case CodeConflict:
			return 409
		default:
			return 500
		}
	}
	return 500
}
