package borrowing

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"LMS-backend/internal/platform/db"
)

type Store struct{ db *sql.DB }

func NewStore(d *sql.DB) *Store { return &Store{db: d} }

// 貸出判定に必要な最小限の書籍情報
type bookRow struct {
	BookID          string
	TotalCopies     int
	AvailableCopies int
	IsActive        bool
}

// ---- Tx内で使うメソッド群 ----

func (s *Store) GetBookTx(ctx context.Context, q db.DBTX, bookID string) (*bookRow, error) {
	const query = `SELECT book_id, total_copies, available_copies, is_active FROM books WHERE book_id = ?`
	var b bookRow
	var isActiveInt int
	err := q.QueryRowContext(ctx, query, bookID).Scan(&b.BookID, &b.TotalCopies, &b.AvailableCopies, &isActiveInt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, NewNotFoundError("book not found")
		}
		return nil, err
	}
	b.IsActive = isActiveInt != 0
	return &b, nil
}

// HasOpenBorrowTx は (user, book) に status=Borrowed の記録が既にあるかを返す
func (s *Store) HasOpenBorrowTx(ctx context.Context, q db.DBTX, userID, bookID string) (bool, error) {
	const query = `
	SELECT COUNT(*) FROM borrowings
	WHERE user_id = ? AND book_id = ? AND status = ?`
	var n int
	if err := q.QueryRowContext(ctx, query, userID, bookID, StatusBorrowed).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store) InsertTx(ctx context.Context, q db.DBTX, b *Borrowing) error {
	const query = `
	INSERT INTO borrowings
	(borrowing_id, user_id, book_id, borrow_date, due_date, return_date, status, created_at)
	VALUES (?, ?, ?, ?, ?, NULL, ?, ?)`
	_, err := q.ExecContext(ctx, query,
		b.BorrowingID, b.UserID, b.BookID, b.BorrowDate, b.DueDate, b.Status, b.CreatedAt,
	)
	return err
}

// DecrementAvailableTx は在庫が残っている場合だけ1冊減らす。
// 条件付きUPDATEなので、最後の1冊を同時に取り合っても負の在庫にはならない
func (s *Store) DecrementAvailableTx(ctx context.Context, q db.DBTX, bookID string, now time.Time) error {
	const query = `
	UPDATE books
	SET available_copies = available_copies - 1, updated_at = ?
	WHERE book_id = ? AND is_active = 1 AND available_copies > 0`
	res, err := q.ExecContext(ctx, query, now, bookID)
	if err != nil {
		return err
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if aff != 1 {
		return NewConflictError("lost the race for the last available copy")
	}
	return nil
}

func (s *Store) GetBorrowingTx(ctx context.Context, q db.DBTX, borrowingID string) (*Borrowing, error) {
	const query = `
	SELECT borrowing_id, user_id, book_id, borrow_date, due_date, return_date, status, created_at
	FROM borrowings WHERE borrowing_id = ?`
	var b Borrowing
	err := q.QueryRowContext(ctx, query, borrowingID).Scan(
		&b.BorrowingID, &b.UserID, &b.BookID, &b.BorrowDate, &b.DueDate, &b.ReturnDate, &b.Status, &b.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, NewNotFoundError("borrowing record not found")
		}
		return nil, err
	}
	return &b, nil
}

// MarkReturnedTx は status=Borrowed の行だけを返却済みに更新する。
// 更新行数0は既に返却済みだったことを意味する
func (s *Store) MarkReturnedTx(ctx context.Context, q db.DBTX, borrowingID string, returnedAt time.Time) (int64, error) {
	const query = `
	UPDATE borrowings
	SET status = ?, return_date = ?
	WHERE borrowing_id = ? AND status = ?`
	res, err := q.ExecContext(ctx, query, StatusReturned, returnedAt, borrowingID, StatusBorrowed)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// IncrementAvailableTx は返却時の在庫戻し。
// 書籍が消えている・ソフトデリート済み・既に上限、のどれでも0行更新になる
func (s *Store) IncrementAvailableTx(ctx context.Context, q db.DBTX, bookID string, now time.Time) (int64, error) {
	const query = `
	UPDATE books
	SET available_copies = available_copies + 1, updated_at = ?
	WHERE book_id = ? AND is_active = 1 AND available_copies < total_copies`
	res, err := q.ExecContext(ctx, query, now, bookID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ---- 表示用クエリ ----

const detailColumns = `
	br.borrowing_id, br.user_id, br.book_id, br.borrow_date, br.due_date, br.return_date, br.status, br.created_at,
	u.name, u.email, u.role,
	b.title, b.author, b.isbn, b.genre`

func scanDetail(scan func(dest ...any) error) (*borrowingDetail, error) {
	var d borrowingDetail
	err := scan(
		&d.BorrowingID, &d.UserID, &d.BookID, &d.BorrowDate, &d.DueDate, &d.ReturnDate, &d.Status, &d.CreatedAt,
		&d.UserName, &d.UserEmail, &d.UserRole,
		&d.BookTitle, &d.BookAuthor, &d.BookISBN, &d.BookGenre,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *Store) GetDetail(ctx context.Context, borrowingID string) (*borrowingDetail, error) {
	query := `
	SELECT` + detailColumns + `
	FROM borrowings br
	LEFT JOIN users u ON u.user_id = br.user_id
	LEFT JOIN books b ON b.book_id = br.book_id
	WHERE br.borrowing_id = ?`
	d, err := scanDetail(s.db.QueryRowContext(ctx, query, borrowingID).Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, NewNotFoundError("borrowing record not found")
		}
		return nil, err
	}
	return d, nil
}

// ListDetails は新しい貸出順の一覧。
// filterのStatus=Overdueは保存された状態ではないので、読み取り時の条件に変換する
func (s *Store) ListDetails(ctx context.Context, f ListFilter, p Page, now time.Time) ([]borrowingDetail, int64, error) {
	where := strings.Builder{}
	where.WriteString(` WHERE 1=1`)
	args := []any{}
	if f.UserID != nil {
		where.WriteString(` AND br.user_id = ?`)
		args = append(args, *f.UserID)
	}
	if f.Status != nil {
		if *f.Status == StatusOverdue {
			where.WriteString(` AND br.status = ? AND br.due_date < ?`)
			args = append(args, StatusBorrowed, now)
		} else {
			where.WriteString(` AND br.status = ?`)
			args = append(args, *f.Status)
		}
	}

	var total int64
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM borrowings br`+where.String(), args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
	SELECT` + detailColumns + `
	FROM borrowings br
	LEFT JOIN users u ON u.user_id = br.user_id
	LEFT JOIN books b ON b.book_id = br.book_id` +
		where.String() + `
	ORDER BY br.borrow_date DESC
	LIMIT ? OFFSET ?`

	rows, err := s.db.QueryContext(ctx, query, append(args, p.Limit, p.offset())...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []borrowingDetail
	for rows.Next() {
		d, err := scanDetail(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
