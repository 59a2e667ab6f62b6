package borrowing

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LMS-backend/internal/platform/auth"
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
	// :memory: は接続ごとに別DBになるので1本に固定する
	d.SetMaxOpenConns(1)
	_, err = d.Exec(testSchema)
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return d
}

type stubClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *stubClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *stubClock) set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

func newTestService(d *sql.DB, clk Clock) *Service {
	return &Service{
		db:    d,
		store: NewStore(d),
		clock: clk,
		id:    ulidGen{},
		locks: newBookLocks(),
	}
}

func seedUser(t *testing.T, d *sql.DB, userID, name, role string) {
	t.Helper()
	_, err := d.Exec(
		`INSERT INTO users (user_id, name, email, password_hash, role, is_active, created_at)
		 VALUES (?, ?, ?, 'x', ?, 1, ?)`,
		userID, name, name+"@example.com", role, time.Now().UTC())
	require.NoError(t, err)
}

func seedBook(t *testing.T, d *sql.DB, bookID, title string, total, available int, active bool) {
	t.Helper()
	act := 0
	if active {
		act = 1
	}
	now := time.Now().UTC()
	_, err := d.Exec(
		`INSERT INTO books
		 (book_id, title, author, isbn, publication_date, genre, total_copies, available_copies, is_active, created_at, updated_at)
		 VALUES (?, ?, 'author', ?, ?, 'Fiction', ?, ?, ?, ?, ?)`,
		bookID, title, "isbn-"+bookID, now, total, available, act, now, now)
	require.NoError(t, err)
}

func availableCopies(t *testing.T, d *sql.DB, bookID string) int {
	t.Helper()
	var n int
	require.NoError(t, d.QueryRow(
		`SELECT available_copies FROM books WHERE book_id = ?`, bookID).Scan(&n))
	return n
}

func assertDomainCode(t *testing.T, err error, code string) {
	t.Helper()
	var de *DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, code, de.Code)
}

func TestBorrow(t *testing.T) {
	ctx := context.Background()
	t0 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		d := newTestDB(t)
		seedUser(t, d, "u1", "alice", auth.RoleMember)
		seedBook(t, d, "b1", "Dune", 3, 3, true)
		svc := newTestService(d, &stubClock{t: t0})

		resp, err := svc.Borrow(ctx, "u1", "b1")
		require.NoError(t, err)

		assert.Equal(t, StatusBorrowed, resp.Status)
		assert.True(t, resp.BorrowDate.Equal(t0))
		assert.True(t, resp.DueDate.Equal(t0.Add(14*24*time.Hour)))
		assert.Nil(t, resp.ReturnDate)
		assert.False(t, resp.Overdue)
		require.NotNil(t, resp.User)
		assert.Equal(t, "alice", resp.User.Name)
		require.NotNil(t, resp.Book)
		assert.Equal(t, "Dune", resp.Book.Title)

		assert.Equal(t, 2, availableCopies(t, d, "b1"))
	})

	t.Run("book not found", func(t *testing.T) {
		d := newTestDB(t)
		seedUser(t, d, "u1", "alice", auth.RoleMember)
		svc := newTestService(d, &stubClock{t: t0})

		_, err := svc.Borrow(ctx, "u1", "nope")
		assertDomainCode(t, err, CodeNotFound)
	})

	t.Run("soft deleted book looks like not found", func(t *testing.T) {
		d := newTestDB(t)
		seedUser(t, d, "u1", "alice", auth.RoleMember)
		seedBook(t, d, "b1", "Dune", 1, 1, false)
		svc := newTestService(d, &stubClock{t: t0})

		_, err := svc.Borrow(ctx, "u1", "b1")
		assertDomainCode(t, err, CodeNotFound)
	})

	t.Run("no copies available", func(t *testing.T) {
		d := newTestDB(t)
		seedUser(t, d, "u1", "alice", auth.RoleMember)
		seedBook(t, d, "b1", "Dune", 2, 0, true)
		svc := newTestService(d, &stubClock{t: t0})

		_, err := svc.Borrow(ctx, "u1", "b1")
		assertDomainCode(t, err, CodeBookUnavailable)
		assert.Equal(t, 0, availableCopies(t, d, "b1"))
	})

	t.Run("duplicate open borrow", func(t *testing.T) {
		d := newTestDB(t)
		seedUser(t, d, "u1", "alice", auth.RoleMember)
		seedBook(t, d, "b1", "Dune", 5, 5, true)
		svc := newTestService(d, &stubClock{t: t0})

		_, err := svc.Borrow(ctx, "u1", "b1")
		require.NoError(t, err)

		_, err = svc.Borrow(ctx, "u1", "b1")
		assertDomainCode(t, err, CodeDuplicateBorrow)
		// 失敗した試行は在庫を減らさない
		assert.Equal(t, 4, availableCopies(t, d, "b1"))
	})

	t.Run("can borrow again after return", func(t *testing.T) {
		d := newTestDB(t)
		seedUser(t, d, "u1", "alice", auth.RoleMember)
		seedBook(t, d, "b1", "Dune", 1, 1, true)
		svc := newTestService(d, &stubClock{t: t0})

		first, err := svc.Borrow(ctx, "u1", "b1")
		require.NoError(t, err)
		_, err = svc.Return(ctx, first.BorrowingID, "u1", auth.RoleMember)
		require.NoError(t, err)

		second, err := svc.Borrow(ctx, "u1", "b1")
		require.NoError(t, err)
		assert.NotEqual(t, first.BorrowingID, second.BorrowingID)
	})

	t.Run("missing arguments", func(t *testing.T) {
		d := newTestDB(t)
		svc := newTestService(d, &stubClock{t: t0})

		_, err := svc.Borrow(ctx, "", "b1")
		assertDomainCode(t, err, CodeInvalidArgument)
		_, err = svc.Borrow(ctx, "u1", "")
		assertDomainCode(t, err, CodeInvalidArgument)
	})
}

// 最後の1冊を同時に取り合っても、成功は1人だけで在庫は負にならない
func TestBorrow_LastCopyRace(t *testing.T) {
	ctx := context.Background()
	d := newTestDB(t)
	seedUser(t, d, "u1", "alice", auth.RoleMember)
	seedUser(t, d, "u2", "bob", auth.RoleMember)
	seedBook(t, d, "b1", "Dune", 1, 1, true)
	svc := newTestService(d, &stubClock{t: time.Now().UTC()})

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, uid := range []string{"u1", "u2"} {
		wg.Add(1)
		go func(i int, uid string) {
			defer wg.Done()
			_, errs[i] = svc.Borrow(ctx, uid, "b1")
		}(i, uid)
	}
	wg.Wait()

	okCount := 0
	for _, err := range errs {
		if err == nil {
			okCount++
			continue
		}
		assertDomainCode(t, err, CodeBookUnavailable)
	}
	assert.Equal(t, 1, okCount)
	assert.Equal(t, 0, availableCopies(t, d, "b1"))
}

func TestReturn(t *testing.T) {
	ctx := context.Background()
	t0 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	borrow := func(t *testing.T, svc *Service, userID, bookID string) string {
		t.Helper()
		resp, err := svc.Borrow(ctx, userID, bookID)
		require.NoError(t, err)
		return resp.BorrowingID
	}

	t.Run("owner returns", func(t *testing.T) {
		d := newTestDB(t)
		seedUser(t, d, "u1", "alice", auth.RoleMember)
		seedBook(t, d, "b1", "Dune", 2, 2, true)
		clk := &stubClock{t: t0}
		svc := newTestService(d, clk)

		id := borrow(t, svc, "u1", "b1")
		clk.set(t0.Add(48 * time.Hour))

		resp, err := svc.Return(ctx, id, "u1", auth.RoleMember)
		require.NoError(t, err)
		assert.Equal(t, StatusReturned, resp.Status)
		require.NotNil(t, resp.ReturnDate)
		assert.True(t, resp.ReturnDate.Equal(t0.Add(48*time.Hour)))
		assert.False(t, resp.Overdue)
		assert.Equal(t, 2, availableCopies(t, d, "b1"))
	})

	t.Run("admin returns for someone else", func(t *testing.T) {
		d := newTestDB(t)
		seedUser(t, d, "u1", "alice", auth.RoleMember)
		seedUser(t, d, "admin", "root", auth.RoleAdmin)
		seedBook(t, d, "b1", "Dune", 1, 1, true)
		svc := newTestService(d, &stubClock{t: t0})

		id := borrow(t, svc, "u1", "b1")
		_, err := svc.Return(ctx, id, "admin", auth.RoleAdmin)
		require.NoError(t, err)
	})

	t.Run("other member is forbidden", func(t *testing.T) {
		d := newTestDB(t)
		seedUser(t, d, "u1", "alice", auth.RoleMember)
		seedUser(t, d, "u2", "bob", auth.RoleMember)
		seedBook(t, d, "b1", "Dune", 1, 1, true)
		svc := newTestService(d, &stubClock{t: t0})

		id := borrow(t, svc, "u1", "b1")
		_, err := svc.Return(ctx, id, "u2", auth.RoleMember)
		assertDomainCode(t, err, CodeForbidden)
		// 弾かれた返却は状態を変えない
		assert.Equal(t, 0, availableCopies(t, d, "b1"))
	})

	t.Run("double return", func(t *testing.T) {
		d := newTestDB(t)
		seedUser(t, d, "u1", "alice", auth.RoleMember)
		seedBook(t, d, "b1", "Dune", 1, 1, true)
		svc := newTestService(d, &stubClock{t: t0})

		id := borrow(t, svc, "u1", "b1")
		_, err := svc.Return(ctx, id, "u1", auth.RoleMember)
		require.NoError(t, err)

		_, err = svc.Return(ctx, id, "u1", auth.RoleMember)
		assertDomainCode(t, err, CodeAlreadyReturned)
		// 在庫は二重に戻らない
		assert.Equal(t, 1, availableCopies(t, d, "b1"))
	})

	t.Run("record not found", func(t *testing.T) {
		d := newTestDB(t)
		svc := newTestService(d, &stubClock{t: t0})
		_, err := svc.Return(ctx, "nope", "u1", auth.RoleMember)
		assertDomainCode(t, err, CodeNotFound)
	})

	t.Run("return of soft deleted book still succeeds", func(t *testing.T) {
		d := newTestDB(t)
		seedUser(t, d, "u1", "alice", auth.RoleMember)
		seedBook(t, d, "b1", "Dune", 1, 1, true)
		svc := newTestService(d, &stubClock{t: t0})

		id := borrow(t, svc, "u1", "b1")

		_, err := d.Exec(`UPDATE books SET is_active = 0 WHERE book_id = 'b1'`)
		require.NoError(t, err)

		resp, err := svc.Return(ctx, id, "u1", auth.RoleMember)
		require.NoError(t, err)
		assert.Equal(t, StatusReturned, resp.Status)
		// 非アクティブな本の在庫は戻さない
		assert.Equal(t, 0, availableCopies(t, d, "b1"))
	})
}

func TestHistoryAndListAll(t *testing.T) {
	ctx := context.Background()
	t0 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	d := newTestDB(t)
	seedUser(t, d, "u1", "alice", auth.RoleMember)
	seedUser(t, d, "u2", "bob", auth.RoleMember)
	seedBook(t, d, "b1", "Dune", 5, 5, true)
	seedBook(t, d, "b2", "Foundation", 5, 5, true)
	seedBook(t, d, "b3", "Hyperion", 5, 5, true)

	clk := &stubClock{t: t0}
	svc := newTestService(d, clk)

	// u1: b1を借りて返却、b2を借りっぱなし。u2: b3を借りっぱなし
	first, err := svc.Borrow(ctx, "u1", "b1")
	require.NoError(t, err)
	clk.set(t0.Add(time.Hour))
	_, err = svc.Borrow(ctx, "u1", "b2")
	require.NoError(t, err)
	clk.set(t0.Add(2 * time.Hour))
	_, err = svc.Borrow(ctx, "u2", "b3")
	require.NoError(t, err)
	_, err = svc.Return(ctx, first.BorrowingID, "u1", auth.RoleMember)
	require.NoError(t, err)

	t.Run("history is scoped to the user, newest first", func(t *testing.T) {
		list, err := svc.History(ctx, "u1", nil, Page{})
		require.NoError(t, err)
		assert.Equal(t, int64(2), list.Total)
		require.Len(t, list.Items, 2)
		assert.Equal(t, "Foundation", list.Items[0].Book.Title)
		assert.Equal(t, "Dune", list.Items[1].Book.Title)
	})

	t.Run("history status filter", func(t *testing.T) {
		status := StatusReturned
		list, err := svc.History(ctx, "u1", &status, Page{})
		require.NoError(t, err)
		require.Len(t, list.Items, 1)
		assert.Equal(t, "Dune", list.Items[0].Book.Title)
	})

	t.Run("invalid status is rejected", func(t *testing.T) {
		status := "Lost"
		_, err := svc.History(ctx, "u1", &status, Page{})
		assertDomainCode(t, err, CodeInvalidArgument)
	})

	t.Run("list all sees everything", func(t *testing.T) {
		list, err := svc.ListAll(ctx, ListFilter{}, Page{})
		require.NoError(t, err)
		assert.Equal(t, int64(3), list.Total)
	})

	t.Run("list all filtered by user", func(t *testing.T) {
		uid := "u2"
		list, err := svc.ListAll(ctx, ListFilter{UserID: &uid}, Page{})
		require.NoError(t, err)
		require.Len(t, list.Items, 1)
		assert.Equal(t, "Hyperion", list.Items[0].Book.Title)
	})

	t.Run("overdue is derived at read time", func(t *testing.T) {
		// 期限(14日)を過ぎた時点から見ると、未返却分だけが延滞になる
		clk.set(t0.Add(20 * 24 * time.Hour))

		status := StatusOverdue
		list, err := svc.ListAll(ctx, ListFilter{Status: &status}, Page{})
		require.NoError(t, err)
		assert.Equal(t, int64(2), list.Total)
		for _, item := range list.Items {
			assert.Equal(t, StatusBorrowed, item.Status)
			assert.True(t, item.Overdue)
		}

		// DBには Overdue という状態は保存されていない
		var n int
		require.NoError(t, d.QueryRow(
			`SELECT COUNT(*) FROM borrowings WHERE status = 'Overdue'`).Scan(&n))
		assert.Zero(t, n)
	})

	t.Run("pagination", func(t *testing.T) {
		list, err := svc.ListAll(ctx, ListFilter{}, Page{Page: 2, Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(3), list.Total)
		assert.Equal(t, int64(2), list.TotalPages)
		assert.Equal(t, 2, list.CurrentPage)
		assert.Len(t, list.Items, 1)
	})
}
