package catalog

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

const bookColumns = `book_id, title, author, isbn, publication_date, genre, total_copies, available_copies, is_active, created_at, updated_at`

func scanBook(row *sql.Row) (*Book, error) {
	var b Book
	var isActiveInt int
	err := row.Scan(
		&b.BookID, &b.Title, &b.Author, &b.ISBN, &b.PublicationDate, &b.Genre,
		&b.TotalCopies, &b.AvailableCopies, &isActiveInt, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	b.IsActive = isActiveInt != 0
	return &b, nil
}

// GetByID は is_active に関係なく1冊取得する（管理系操作用）。
// 見つからなければ sql.ErrNoRows
func (s *Store) GetByID(ctx context.Context, bookID string) (*Book, error) {
	q := `SELECT ` + bookColumns + ` FROM books WHERE book_id = ?`
	return scanBook(s.db.QueryRowContext(ctx, q, bookID))
}

// GetByISBN は ISBN 重複チェック用。非アクティブな本も対象。
// 見つからなければ (nil, nil)
func (s *Store) GetByISBN(ctx context.Context, isbn string) (*Book, error) {
	q := `SELECT ` + bookColumns + ` FROM books WHERE isbn = ? LIMIT 1`
	b, err := scanBook(s.db.QueryRowContext(ctx, q, isbn))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return b, err
}

func (s *Store) Insert(ctx context.Context, b *Book) error {
	const q = `
	INSERT INTO books
	(book_id, title, author, isbn, publication_date, genre, total_copies, available_copies, is_active, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?)`
	_, err := s.db.ExecContext(ctx, q,
		b.BookID, b.Title, b.Author, b.ISBN, b.PublicationDate, b.Genre,
		b.TotalCopies, b.AvailableCopies, b.CreatedAt, b.UpdatedAt,
	)
	return err
}

func (s *Store) Update(ctx context.Context, bookID string, in UpdateBookRequest, pubDate *time.Time, now time.Time) (int64, error) {
	// 動的アップデート
	sets := []string{}
	args := []any{}
	if in.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *in.Title)
	}
	if in.Author != nil {
		sets = append(sets, "author = ?")
		args = append(args, *in.Author)
	}
	if in.ISBN != nil {
		sets = append(sets, "isbn = ?")
		args = append(args, *in.ISBN)
	}
	if pubDate != nil {
		sets = append(sets, "publication_date = ?")
		args = append(args, *pubDate)
	}
	if in.Genre != nil {
		sets = append(sets, "genre = ?")
		args = append(args, *in.Genre)
	}
	if in.TotalCopies != nil {
		sets = append(sets, "total_copies = ?")
		args = append(args, *in.TotalCopies)
	}
	if in.AvailableCopies != nil {
		sets = append(sets, "available_copies = ?")
		args = append(args, *in.AvailableCopies)
	}
	if len(sets) == 0 {
		return 0, nil
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, now)

	q := `UPDATE books SET ` + strings.Join(sets, ", ") + ` WHERE book_id = ?`
	args = append(args, bookID)

	res, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// SoftDelete は is_active を落とすだけ。蔵書数や貸出履歴には触らない
func (s *Store) SoftDelete(ctx context.Context, bookID string, now time.Time) (int64, error) {
	const q = `UPDATE books SET is_active = 0, updated_at = ? WHERE book_id = ? AND is_active = 1`
	res, err := s.db.ExecContext(ctx, q, now, bookID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *Store) List(ctx context.Context, f BookSearchQuery, p Page) ([]Book, int64, error) {
	where := strings.Builder{}
	where.WriteString(` WHERE is_active = 1`)
	args := []any{}
	if f.Title != nil {
		where.WriteString(` AND title LIKE ?`)
		args = append(args, "%"+*f.Title+"%")
	}
	if f.Author != nil {
		where.WriteString(` AND author LIKE ?`)
		args = append(args, "%"+*f.Author+"%")
	}
	if f.Genre != nil {
		where.WriteString(` AND genre LIKE ?`)
		args = append(args, "%"+*f.Genre+"%")
	}

	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM books`+where.String(), args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := `SELECT ` + bookColumns + ` FROM books` + where.String() + ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	rows, err := s.db.QueryContext(ctx, q, append(args, p.Limit, p.offset())...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Book
	for rows.Next() {
		var b Book
		var isActiveInt int
		if err := rows.Scan(
			&b.BookID, &b.Title, &b.Author, &b.ISBN, &b.PublicationDate, &b.Genre,
			&b.TotalCopies, &b.AvailableCopies, &isActiveInt, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		b.IsActive = isActiveInt != 0
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
