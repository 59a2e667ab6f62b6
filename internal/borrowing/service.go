package borrowing

import (
	"context"
	"crypto/rand"
	"database/sql"
	"log"
	"time"

	"github.com/oklog/ulid/v2"

	"LMS-backend/internal/platform/auth"
	"LMS-backend/internal/platform/db"
)

// 貸出期間は固定14日（呼び出しごとの指定は不可）
const loanPeriod = 14 * 24 * time.Hour

// ===== インターフェース群 =====

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

type IDGen interface {
	New() (string, error)
}

type ulidGen struct{}

func (ulidGen) New() (string, error) {
	t := time.Now().UTC()
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(t), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// ===== Service本体 =====

type Service struct {
	db    *sql.DB
	store *Store
	clock Clock
	id    IDGen
	locks *bookLocks
}

func NewService(d *sql.DB) *Service {
	return &Service{
		db:    d,
		store: NewStore(d),
		clock: realClock{},
		id:    ulidGen{},
		locks: newBookLocks(),
	}
}

// Borrow は貸出トランザクションを実行する。
//
// 前提条件は次の順で検査し、最初の失敗を返す:
//  1. 書籍が存在しアクティブであること
//  2. available_copies > 0 であること
//  3. 同一利用者が同じ本を返却前に借りていないこと
//
// 記録の作成と在庫の減算は1つのDBトランザクションで行い、
// さらに同一書籍への同時貸出は bookLocks で直列化する。
// チェックと減算が別々に走って最後の1冊を二重に貸す、という事故を防ぐ
func (s *Service) Borrow(ctx context.Context, userID, bookID string) (*BorrowingResponse, error) {
	if userID == "" || bookID == "" {
		return nil, NewInvalidArgumentError("user_id and book_id are required")
	}

	idStr, err := s.id.New()
	if err != nil {
		return nil, err
	}

	unlock := s.locks.lock(bookID)
	defer unlock()

	var rec *Borrowing
	err = db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		book, err := s.store.GetBookTx(ctx, tx, bookID)
		if err != nil {
			return err
		}
		if !book.IsActive {
			// ソフトデリート済みの本は存在しない扱い
			return NewNotFoundError("book not found")
		}
		if book.AvailableCopies <= 0 {
			return NewBookUnavailableError()
		}

		open, err := s.store.HasOpenBorrowTx(ctx, tx, userID, bookID)
		if err != nil {
			return err
		}
		if open {
			return NewDuplicateBorrowError()
		}

		now := s.clock.Now().UTC()
		rec = &Borrowing{
			BorrowingID: idStr,
			UserID:      userID,
			BookID:      bookID,
			BorrowDate:  now,
			DueDate:     now.Add(loanPeriod),
			Status:      StatusBorrowed,
			CreatedAt:   now,
		}
		if err := s.store.InsertTx(ctx, tx, rec); err != nil {
			return err
		}

		// ロック下では通常失敗しない。失敗＝在庫の取り合いに負けたのでロールバック
		return s.store.DecrementAvailableTx(ctx, tx, bookID, now)
	})
	if err != nil {
		return nil, err
	}

	return s.detailResponse(ctx, rec.BorrowingID)
}

// Return は返却トランザクションを実行する。
// 本人または管理者だけが返却でき、二重返却は AlreadyReturned で弾く。
// 貸出記録の更新と在庫戻しは同一トランザクション。ただし参照先の書籍が
// ソフトデリート等で戻せない場合でも、返却自体は成立させる
// （永久に「借りっぱなし」の記録を残さないため）
func (s *Service) Return(ctx context.Context, borrowingID, actingUserID, actingRole string) (*BorrowingResponse, error) {
	if borrowingID == "" || actingUserID == "" {
		return nil, NewInvalidArgumentError("borrowing_id and user_id are required")
	}

	err := db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		rec, err := s.store.GetBorrowingTx(ctx, tx, borrowingID)
		if err != nil {
			return err
		}

		if rec.UserID != actingUserID && actingRole != auth.RoleAdmin {
			return NewForbiddenError("not authorized to return this book")
		}

		if rec.Status == StatusReturned {
			return NewAlreadyReturnedError()
		}

		now := s.clock.Now().UTC()
		aff, err := s.store.MarkReturnedTx(ctx, tx, borrowingID, now)
		if err != nil {
			return err
		}
		if aff == 0 {
			// 並行返却の保険
			return NewAlreadyReturnedError()
		}

		n, err := s.store.IncrementAvailableTx(ctx, tx, rec.BookID, now)
		if err != nil {
			return err
		}
		if n == 0 {
			// 書籍が消えているか非アクティブ。返却はそのまま成立させる
			log.Printf("[WARN] available_copies not restored for book %s on return %s", rec.BookID, borrowingID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.detailResponse(ctx, borrowingID)
}

// History は本人の貸出履歴（新しい順）
func (s *Service) History(ctx context.Context, userID string, status *string, p Page) (*BorrowingListResponse, error) {
	if userID == "" {
		return nil, NewInvalidArgumentError("user_id is required")
	}
	return s.list(ctx, ListFilter{UserID: &userID, Status: status}, p)
}

// ListAll は管理者用の全貸出一覧
func (s *Service) ListAll(ctx context.Context, f ListFilter, p Page) (*BorrowingListResponse, error) {
	return s.list(ctx, f, p)
}

func (s *Service) list(ctx context.Context, f ListFilter, p Page) (*BorrowingListResponse, error) {
	if f.Status != nil {
		switch *f.Status {
		case StatusBorrowed, StatusReturned, StatusOverdue:
		default:
			return nil, NewInvalidArgumentError("status must be Borrowed, Returned or Overdue")
		}
	}
	p = p.normalize()

	now := s.clock.Now().UTC()
	details, total, err := s.store.ListDetails(ctx, f, p, now)
	if err != nil {
		return nil, err
	}

	items := make([]BorrowingResponse, 0, len(details))
	for i := range details {
		items = append(items, details[i].toResponse(now))
	}

	return &BorrowingListResponse{
		Count:       len(items),
		Total:       total,
		TotalPages:  (total + int64(p.Limit) - 1) / int64(p.Limit),
		CurrentPage: p.Page,
		Items:       items,
	}, nil
}

func (s *Service) detailResponse(ctx context.Context, borrowingID string) (*BorrowingResponse, error) {
	d, err := s.store.GetDetail(ctx, borrowingID)
	if err != nil {
		return nil, err
	}
	resp := d.toResponse(s.clock.Now().UTC())
	return &resp, nil
}
