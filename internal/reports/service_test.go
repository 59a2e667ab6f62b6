package reports

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `
CREATE TABLE users (
	user_id       TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	role          TEXT NOT NULL DEFAULT 'Member',
	is_active     INTEGER NOT NULL DEFAULT 1,
	created_at    DATETIME NOT NULL
);
CREATE TABLE books (
	book_id          TEXT PRIMARY KEY,
	title            TEXT NOT NULL,
	author           TEXT NOT NULL,
	isbn             TEXT NOT NULL UNIQUE,
	publication_date DATE NOT NULL,
	genre            TEXT NOT NULL,
	total_copies     INTEGER NOT NULL DEFAULT 1,
	available_copies INTEGER NOT NULL DEFAULT 1,
	is_active        INTEGER NOT NULL DEFAULT 1,
	created_at       DATETIME NOT NULL,
	updated_at       DATETIME NOT NULL
);
CREATE TABLE borrowings (
	borrowing_id TEXT PRIMARY KEY,
	user_id      TEXT NOT NULL,
	book_id      TEXT NOT NULL,
	borrow_date  DATETIME NOT NULL,
	due_date     DATETIME NOT NULL,
	return_date  DATETIME,
	status       TEXT NOT NULL DEFAULT 'Borrowed',
	created_at   DATETIME NOT NULL
);`

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	d, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	d.SetMaxOpenConns(1)
	_, err = d.Exec(testSchema)
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return d
}

var baseTime = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

func seedUser(t *testing.T, d *sql.DB, id, name string) {
	t.Helper()
	_, err := d.Exec(
		`INSERT INTO users (user_id, name, email, password_hash, role, is_active, created_at)
		 VALUES (?, ?, ?, 'x', 'Member', 1, ?)`, id, name, name+"@example.com", baseTime)
	require.NoError(t, err)
}

func seedBook(t *testing.T, d *sql.DB, id, title, genre string, total, available, active int) {
	t.Helper()
	_, err := d.Exec(
		`INSERT INTO books
		 (book_id, title, author, isbn, publication_date, genre, total_copies, available_copies, is_active, created_at, updated_at)
		 VALUES (?, ?, 'author', ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, title, "isbn-"+id, baseTime, genre, total, available, active, baseTime, baseTime)
	require.NoError(t, err)
}

func seedBorrowing(t *testing.T, d *sql.DB, id, userID, bookID, status string, borrowedAt time.Time) {
	t.Helper()
	var returnDate any
	if status == "Returned" {
		returnDate = borrowedAt.Add(24 * time.Hour)
	}
	_, err := d.Exec(
		`INSERT INTO borrowings
		 (borrowing_id, user_id, book_id, borrow_date, due_date, return_date, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, userID, bookID, borrowedAt, borrowedAt.Add(14*24*time.Hour), returnDate, status, borrowedAt)
	require.NoError(t, err)
}

func seedFixture(t *testing.T, d *sql.DB) {
	seedUser(t, d, "u1", "alice")
	seedUser(t, d, "u2", "bob")
	seedBook(t, d, "b1", "Dune", "Science Fiction", 3, 1, 1)
	seedBook(t, d, "b2", "The Hobbit", "Fantasy", 2, 2, 1)
	seedBook(t, d, "b3", "Old Atlas", "Reference", 1, 1, 0) // ソフトデリート済み

	// b1: 3回貸出、うち2回返却済み
	seedBorrowing(t, d, "br1", "u1", "b1", "Returned", baseTime)
	seedBorrowing(t, d, "br2", "u2", "b1", "Returned", baseTime.Add(time.Hour))
	seedBorrowing(t, d, "br3", "u1", "b1", "Borrowed", baseTime.Add(2*time.Hour))
	// b2: 1回、返却済み
	seedBorrowing(t, d, "br4", "u1", "b2", "Returned", baseTime.Add(3*time.Hour))
}

func TestMostBorrowedBooks(t *testing.T) {
	d := newTestDB(t)
	seedFixture(t, d)
	svc := NewService(d)

	items, err := svc.MostBorrowedBooks(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "b1", items[0].BookID)
	assert.Equal(t, int64(3), items[0].BorrowCount)
	assert.Equal(t, int64(1), items[0].CurrentlyBorrowed)
	assert.Equal(t, "Dune", items[0].Title)

	assert.Equal(t, "b2", items[1].BookID)
	assert.Equal(t, int64(1), items[1].BorrowCount)
	assert.Equal(t, int64(0), items[1].CurrentlyBorrowed)
}

func TestActiveMembers(t *testing.T) {
	d := newTestDB(t)
	seedFixture(t, d)
	svc := NewService(d)

	items, err := svc.ActiveMembers(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "u1", items[0].UserID)
	assert.Equal(t, int64(3), items[0].TotalBorrowings)
	assert.Equal(t, int64(1), items[0].CurrentBorrowings)
	assert.Equal(t, int64(2), items[0].ReturnedBooks)
	assert.Equal(t, "alice", items[0].Name)

	assert.Equal(t, "u2", items[1].UserID)
	assert.Equal(t, int64(1), items[1].TotalBorrowings)
}

func TestBookAvailability(t *testing.T) {
	d := newTestDB(t)
	seedFixture(t, d)
	svc := NewService(d)

	rep, err := svc.BookAvailability(context.Background())
	require.NoError(t, err)

	// 非アクティブな b3 は数えない
	assert.Equal(t, int64(2), rep.Summary.TotalBooks)
	assert.Equal(t, int64(5), rep.Summary.TotalCopies)
	assert.Equal(t, int64(3), rep.Summary.AvailableCopies)
	assert.Equal(t, int64(2), rep.Summary.BorrowedCopies)
	assert.InDelta(t, 60.0, rep.Summary.AvailabilityPercentage, 0.01)

	assert.Equal(t, int64(1), rep.CurrentBorrowings)

	require.Len(t, rep.GenreWise, 2)
	byGenre := map[string]GenreAvailability{}
	for _, g := range rep.GenreWise {
		byGenre[g.Genre] = g
	}
	sf := byGenre["Science Fiction"]
	assert.Equal(t, int64(1), sf.TotalBooks)
	assert.Equal(t, int64(3), sf.TotalCopies)
	assert.Equal(t, int64(2), sf.BorrowedCopies)
}

func TestBookAvailability_EmptyCatalog(t *testing.T) {
	d := newTestDB(t)
	svc := NewService(d)

	rep, err := svc.BookAvailability(context.Background())
	require.NoError(t, err)
	assert.Zero(t, rep.Summary.TotalBooks)
	assert.Zero(t, rep.Summary.AvailabilityPercentage)
	assert.Empty(t, rep.GenreWise)
}

func TestOverdueBooks(t *testing.T) {
	d := newTestDB(t)
	seedUser(t, d, "u1", "alice")
	seedBook(t, d, "b1", "Dune", "Science Fiction", 2, 0, 1)

	// 期限切れの未返却、期限内の未返却、期限切れだが返却済み
	seedBorrowing(t, d, "late", "u1", "b1", "Borrowed", baseTime.Add(-30*24*time.Hour))
	seedBorrowing(t, d, "ok", "u1", "b1", "Borrowed", baseTime)
	seedBorrowing(t, d, "done", "u1", "b1", "Returned", baseTime.Add(-60*24*time.Hour))

	// 基準時刻を固定して判定を検証する（サービス経由だと time.Now 依存になる）
	items, err := NewStore(d).Overdue(context.Background(), baseTime.Add(7*24*time.Hour))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "late", items[0].BorrowingID)
	assert.Equal(t, "alice", items[0].UserName)
	assert.Equal(t, "Dune", items[0].Title)
}
