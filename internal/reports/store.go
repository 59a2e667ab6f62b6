package reports

import (
	"context"
	"database/sql"
	"time"
)

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) MostBorrowed(ctx context.Context, limit int) ([]MostBorrowedBook, error) {
	const q = `
	SELECT
		br.book_id,
		COUNT(*) AS borrow_count,
		SUM(CASE WHEN br.status = 'Borrowed' THEN 1 ELSE 0 END) AS currently_borrowed,
		b.title, b.author, b.isbn, b.genre, b.total_copies, b.available_copies
	FROM borrowings br
	JOIN books b ON b.book_id = br.book_id
	GROUP BY br.book_id, b.title, b.author, b.isbn, b.genre, b.total_copies, b.available_copies
	ORDER BY borrow_count DESC
	LIMIT ?`

	rows, err := s.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MostBorrowedBook
	for rows.Next() {
		var m MostBorrowedBook
		if err := rows.Scan(
			&m.BookID, &m.BorrowCount, &m.CurrentlyBorrowed,
			&m.Title, &m.Author, &m.ISBN, &m.Genre, &m.TotalCopies, &m.AvailableCopies,
		); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *Store) ActiveMembers(ctx context.Context, limit int) ([]ActiveMember, error) {
	const q = `
	SELECT
		br.user_id,
		COUNT(*) AS total_borrowings,
		SUM(CASE WHEN br.status = 'Borrowed' THEN 1 ELSE 0 END) AS current_borrowings,
		SUM(CASE WHEN br.status = 'Returned' THEN 1 ELSE 0 END) AS returned_books,
		u.name, u.email, u.role
	FROM borrowings br
	JOIN users u ON u.user_id = br.user_id
	GROUP BY br.user_id, u.name, u.email, u.role
	ORDER BY total_borrowings DESC
	LIMIT ?`

	rows, err := s.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ActiveMember
	for rows.Next() {
		var m ActiveMember
		if err := rows.Scan(
			&m.UserID, &m.TotalBorrowings, &m.CurrentBorrowings, &m.ReturnedBooks,
			&m.Name, &m.Email, &m.Role,
		); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *Store) AvailabilitySummary(ctx context.Context) (AvailabilitySummary, error) {
	const q = `
	SELECT COUNT(*), COALESCE(SUM(total_copies), 0), COALESCE(SUM(available_copies), 0)
	FROM books WHERE is_active = 1`

	var sum AvailabilitySummary
	if err := s.db.QueryRowContext(ctx, q).Scan(&sum.TotalBooks, &sum.TotalCopies, &sum.AvailableCopies); err != nil {
		return AvailabilitySummary{}, err
	}
	sum.BorrowedCopies = sum.TotalCopies - sum.AvailableCopies
	if sum.TotalCopies > 0 {
		sum.AvailabilityPercentage = float64(sum.AvailableCopies) / float64(sum.TotalCopies) * 100
	}
	return sum, nil
}

func (s *Store) GenreAvailability(ctx context.Context) ([]GenreAvailability, error) {
	const q = `
	SELECT genre, COUNT(*), COALESCE(SUM(total_copies), 0), COALESCE(SUM(available_copies), 0)
	FROM books WHERE is_active = 1
	GROUP BY genre
	ORDER BY COUNT(*) DESC`

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []GenreAvailability
	for rows.Next() {
		var g GenreAvailability
		if err := rows.Scan(&g.Genre, &g.TotalBooks, &g.TotalCopies, &g.AvailableCopies); err != nil {
			return nil, err
		}
		g.BorrowedCopies = g.TotalCopies - g.AvailableCopies
		out = append(out, g)
	}
	return out, rows.Err()
}

func (s *Store) CountOpenBorrowings(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM borrowings WHERE status = 'Borrowed'`).Scan(&n)
	return n, err
}

// Overdue は期限切れが近い（古い）順に返す
func (s *Store) Overdue(ctx context.Context, now time.Time) ([]OverdueBook, error) {
	const q = `
	SELECT
		br.borrowing_id, br.user_id, COALESCE(u.name, ''), COALESCE(u.email, ''),
		br.book_id, COALESCE(b.title, ''), COALESCE(b.author, ''), COALESCE(b.isbn, ''),
		br.borrow_date, br.due_date
	FROM borrowings br
	LEFT JOIN users u ON u.user_id = br.user_id
	LEFT JOIN books b ON b.book_id = br.book_id
	WHERE br.status = 'Borrowed' AND br.due_date < ?
	ORDER BY br.due_date ASC`

	rows, err := s.db.QueryContext(ctx, q, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OverdueBook
	for rows.Next() {
		var o OverdueBook
		if err := rows.Scan(
			&o.BorrowingID, &o.UserID, &o.UserName, &o.UserEmail,
			&o.BookID, &o.Title, &o.Author, &o.ISBN,
			&o.BorrowDate, &o.DueDate,
		); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
