package borrowing

import (
	"database/sql"
	"time"
)

const (
	StatusBorrowed = "Borrowed"
	StatusReturned = "Returned"
	// StatusOverdue はスキーマ上宣言されているだけで、どのトランザクションも保存しない。
	// 期限超過は読み取り時に status=Borrowed かつ due_date < now で導出する
	StatusOverdue = "Overdue"
)

// Borrowing は borrowings テーブルの1行（貸出トランザクション1件）を表す。
// 行は一度だけ、対応する返却で更新される。削除は決してしない
type Borrowing struct {
	BorrowingID string
	UserID      string
	BookID      string
	BorrowDate  time.Time
	DueDate     time.Time
	ReturnDate  sql.NullTime
	Status      string
	CreatedAt   time.Time
}

// borrowingDetail は表示用に利用者・書籍情報をJOINした行。
// 参照先はソフトデリート後も行として残るが、念のためNULL許容で受ける
type borrowingDetail struct {
	Borrowing
	UserName   sql.NullString
	UserEmail  sql.NullString
	UserRole   sql.NullString
	BookTitle  sql.NullString
	BookAuthor sql.NullString
	BookISBN   sql.NullString
	BookGenre  sql.NullString
}

func (d *borrowingDetail) toResponse(now time.Time) BorrowingResponse {
	resp := BorrowingResponse{
		BorrowingID: d.BorrowingID,
		BorrowDate:  d.BorrowDate,
		DueDate:     d.DueDate,
		Status:      d.Status,
		Overdue:     d.Status == StatusBorrowed && d.DueDate.Before(now),
	}
	if d.ReturnDate.Valid {
		t := d.ReturnDate.Time
		resp.ReturnDate = &t
	}
	if d.UserName.Valid {
		resp.User = &UserSummary{
			UserID: d.UserID,
			Name:   d.UserName.String,
			Email:  d.UserEmail.String,
			Role:   d.UserRole.String,
		}
	}
	if d.BookTitle.Valid {
		resp.Book = &BookSummary{
			BookID: d.BookID,
			Title:  d.BookTitle.String,
			Author: d.BookAuthor.String,
			ISBN:   d.BookISBN.String,
			Genre:  d.BookGenre.String,
		}
	}
	return resp
}
