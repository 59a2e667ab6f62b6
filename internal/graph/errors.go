package graph

import (
	"errors"

	"LMS-backend/internal/borrowing"
	"LMS-backend/internal/catalog"
	"LMS-backend/internal/platform/auth"
)

// gqlError は gqlerrors.ExtendedError を満たし、
// エラーコードを extensions.code としてクライアントに返す
type gqlError struct {
	code string
	msg  string
}

func (e *gqlError) Error() string { return e.msg }

func (e *gqlError) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": e.code}
}

func newGQLError(code, msg string) error {
	return &gqlError{code: code, msg: msg}
}

func errUnauthenticated() error {
	return newGQLError("UNAUTHENTICATED", "authentication required")
}

func errForbidden() error {
	return newGQLError("FORBIDDEN", "forbidden")
}

// wrapErr はサービス層の型付きエラーをGraphQLエラーに変換する
func wrapErr(err error) error {
	var de *borrowing.DomainError
	if errors.As(err, &de) {
		return newGQLError(de.Code, de.Message)
	}

	var ae *catalog.APIError
	if errors.As(err, &ae) {
		return newGQLError(string(ae.Code), ae.Message)
	}

	switch {
	case errors.Is(err, auth.ErrAlreadyExists):
		return newGQLError("CONFLICT", "user already exists")
	case errors.Is(err, auth.ErrAuthFailed):
		return newGQLError("UNAUTHENTICATED", "invalid credentials")
	case errors.Is(err, auth.ErrAccountDisabled):
		return newGQLError("UNAUTHENTICATED", "account is deactivated")
	case errors.Is(err, auth.ErrNotFound):
		return newGQLError("NOT_FOUND", "not found")
	case errors.Is(err, auth.ErrInvalidInput):
		return newGQLError("BAD_USER_INPUT", "invalid input")
	}

	return newGQLError("INTERNAL", "internal server error")
}
