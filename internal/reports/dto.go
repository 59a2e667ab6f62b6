package reports

import "time"

type MostBorrowedBook struct {
	BookID            string `json:"book_id"`
	BorrowCount       int64  `json:"borrow_count"`
	CurrentlyBorrowed int64  `json:"currently_borrowed"`
	Title             string `json:"title"`
	Author            string `json:"author"`
	ISBN              string `json:"isbn"`
	Genre             string `json:"genre"`
	TotalCopies       int    `json:"total_copies"`
	AvailableCopies   int    `json:"available_copies"`
}

type ActiveMember struct {
	UserID            string `json:"user_id"`
	TotalBorrowings   int64  `json:"total_borrowings"`
	CurrentBorrowings int64  `json:"current_borrowings"`
	ReturnedBooks     int64  `json:"returned_books"`
	Name              string `json:"name"`
	Email             string `json:"email"`
	Role              string `json:"role"`
}

type AvailabilitySummary struct {
	TotalBooks             int64   `json:"total_books"`
	TotalCopies            int64   `json:"total_copies"`
	AvailableCopies        int64   `json:"available_copies"`
	BorrowedCopies         int64   `json:"borrowed_copies"`
	AvailabilityPercentage float64 `json:"availability_percentage"`
}

type GenreAvailability struct {
	Genre           string `json:"genre"`
	TotalBooks      int64  `json:"total_books"`
	TotalCopies     int64  `json:"total_copies"`
	AvailableCopies int64  `json:"available_copies"`
	BorrowedCopies  int64  `json:"borrowed_copies"`
}

type AvailabilityReport struct {
	Summary           AvailabilitySummary `json:"summary"`
	CurrentBorrowings int64               `json:"current_borrowings"`
	GenreWise         []GenreAvailability `json:"genre_wise_availability"`
}

type OverdueBook struct {
	BorrowingID string    `json:"borrowing_id"`
	UserID      string    `json:"user_id"`
	UserName    string    `json:"user_name"`
	UserEmail   string    `json:"user_email"`
	BookID      string    `json:"book_id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	ISBN        string    `json:"isbn"`
	BorrowDate  time.Time `json:"borrow_date"`
	DueDate     time.Time `json:"due_date"`
}
