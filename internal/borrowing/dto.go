package borrowing

import "time"

type UserSummary struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

type BookSummary struct {
	BookID string `json:"book_id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	ISBN   string `json:"isbn"`
	Genre  string `json:"genre"`
}

type BorrowingResponse struct {
	BorrowingID string       `json:"borrowing_id"`
	User        *UserSummary `json:"user,omitempty"`
	Book        *BookSummary `json:"book,omitempty"`
	BorrowDate  time.Time    `json:"borrow_date"`
	DueDate     time.Time    `json:"due_date"`
	ReturnDate  *time.Time   `json:"return_date,omitempty"`
	Status      string       `json:"status"`
	// 読み取り時の導出値。DBには保存しない
	Overdue bool `json:"overdue"`
}

type BorrowingListResponse struct {
	Count       int                 `json:"count"`
	Total       int64               `json:"total"`
	TotalPages  int64               `json:"total_pages"`
	CurrentPage int                 `json:"current_page"`
	Items       []BorrowingResponse `json:"items"`
}

// 貸出一覧の検索条件。UserID は管理者一覧でのみ自由指定できる
type ListFilter struct {
	Status *string
	UserID *string
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
