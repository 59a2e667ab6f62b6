package catalog

import "time"

// ===== Requests =====

type CreateBookRequest struct {
	Title  string `json:"title" binding:"required"`
	Author string `json:"author" binding:"required"`
	ISBN   string `json:"isbn" binding:"required"`
	// "2006-01-02" 形式の文字列を想定（DATE）
	PublicationDate string `json:"publication_date" binding:"required"`
	Genre           string `json:"genre" binding:"required"`
	TotalCopies     *int   `json:"total_copies,omitempty"`     // 未指定なら 1
	AvailableCopies *int   `json:"available_copies,omitempty"` // 未指定なら total_copies と同じ
}

type UpdateBookRequest struct {
	Title           *string `json:"title,omitempty"`
	Author          *string `json:"author,omitempty"`
	ISBN            *string `json:"isbn,omitempty"`
	PublicationDate *string `json:"publication_date,omitempty"`
	Genre           *string `json:"genre,omitempty"`
	TotalCopies     *int    `json:"total_copies,omitempty"`
	AvailableCopies *int    `json:"available_copies,omitempty"`
}

// 部分一致フィルタ（公開一覧用）
type BookSearchQuery struct {
	Title  *string
	Author *string
	Genre  *string
}

type Page struct {
	Page  int
	Limit int
}

func (p Page) normalize() Page {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.Limit <= 0 || p.Limit > 100 {
		p.Limit = 10
	}
	return p
}

func (p Page) offset() int { return (p.Page - 1) * p.Limit }

// ===== Responses =====

type BookResponse struct {
	BookID          string    `json:"book_id"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	ISBN            string    `json:"isbn"`
	PublicationDate time.Time `json:"publication_date"`
	Genre           string    `json:"genre"`
	TotalCopies     int       `json:"total_copies"`
	AvailableCopies int       `json:"available_copies"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type BookListResponse struct {
	Count       int            `json:"count"`
	Total       int64          `json:"total"`
	TotalPages  int64          `json:"total_pages"`
	CurrentPage int            `json:"current_page"`
	Items       []BookResponse `json:"items"`
}
