package reports

import (
	"context"
	"database/sql"
	"time"
)

// 集計系の読み取り専用サービス。
// 不変条件の検査はしない（それは貸出側の責務）
type Service struct {
	store *Store
}

func NewService(db *sql.DB) *Service { return &Service{store: NewStore(db)} }

func clampLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 10
	}
	return limit
}

func (s *Service) MostBorrowedBooks(ctx context.Context, limit int) ([]MostBorrowedBook, error) {
	return s.store.MostBorrowed(ctx, clampLimit(limit))
}

func (s *Service) ActiveMembers(ctx context.Context, limit int) ([]ActiveMember, error) {
	return s.store.ActiveMembers(ctx, clampLimit(limit))
}

func (s *Service) BookAvailability(ctx context.Context) (*AvailabilityReport, error) {
	summary, err := s.store.AvailabilitySummary(ctx)
	if err != nil {
		return nil, err
	}
	genres, err := s.store.GenreAvailability(ctx)
	if err != nil {
		return nil, err
	}
	open, err := s.store.CountOpenBorrowings(ctx)
	if err != nil {
		return nil, err
	}
	return &AvailabilityReport{
		Summary:           summary,
		CurrentBorrowings: open,
		GenreWise:         genres,
	}, nil
}

func (s *Service) OverdueBooks(ctx context.Context) ([]OverdueBook, error) {
	return s.store.Overdue(ctx, time.Now().UTC())
}
