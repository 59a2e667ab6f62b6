package catalog

import "time"

// Book は books テーブルの1行を表す。
// 蔵書の削除はソフトデリート（is_active=0）のみで、行は消さない
type Book struct {
	BookID          string
	Title           string
	Author          string
	ISBN            string
	PublicationDate time.Time
	Genre           string
	TotalCopies     int
	AvailableCopies int
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (b *Book) toResponse() BookResponse {
	return BookResponse{
		BookID:          b.BookID,
		Title:           b.Title,
		Author:          b.Author,
		ISBN:            b.ISBN,
		PublicationDate: b.PublicationDate,
		Genre:           b.Genre,
		TotalCopies:     b.TotalCopies,
		AvailableCopies: b.AvailableCopies,
		IsActive:        b.IsActive,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}
