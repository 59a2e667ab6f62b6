package graph

import "github.com/graphql-go/graphql"

// オブジェクトのフィールド名はREST側のJSONキーに合わせる
// （graphql-goのデフォルトリゾルバがjsonタグで引くため）

var userType = graphql.NewObject(graphql.ObjectConfig{
	Name: "User",
	Fields: graphql.Fields{
		"user_id":    &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"name":       &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"email":      &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"role":       &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"is_active":  &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
		"created_at": &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
	},
})

var authPayloadType = graphql.NewObject(graphql.ObjectConfig{
	Name: "AuthPayload",
	Fields: graphql.Fields{
		"user":  &graphql.Field{Type: userType},
		"token": &graphql.Field{Type: graphql.String},
	},
})

var bookType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Book",
	Fields: graphql.Fields{
		"book_id":          &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"title":            &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"author":           &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"isbn":             &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"publication_date": &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
		"genre":            &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"total_copies":     &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"available_copies": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"is_active":        &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
		"created_at":       &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
		"updated_at":       &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
	},
})

var bookListType = graphql.NewObject(graphql.ObjectConfig{
	Name: "BookList",
	Fields: graphql.Fields{
		"count":        &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"total":        &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"total_pages":  &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"current_page": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"items":        &graphql.Field{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(bookType)))},
	},
})

var userSummaryType = graphql.NewObject(graphql.ObjectConfig{
	Name: "UserSummary",
	Fields: graphql.Fields{
		"user_id": &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"name":    &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"email":   &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"role":    &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
	},
})

var bookSummaryType = graphql.NewObject(graphql.ObjectConfig{
	Name: "BookSummary",
	Fields: graphql.Fields{
		"book_id": &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"title":   &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"author":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"isbn":    &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"genre":   &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
	},
})

var borrowingType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Borrowing",
	Fields: graphql.Fields{
		"borrowing_id": &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"user":         &graphql.Field{Type: userSummaryType},
		"book":         &graphql.Field{Type: bookSummaryType},
		"borrow_date":  &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
		"due_date":     &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
		"return_date":  &graphql.Field{Type: graphql.DateTime},
		"status":       &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"overdue":      &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
	},
})

var borrowingListType = graphql.NewObject(graphql.ObjectConfig{
	Name: "BorrowingList",
	Fields: graphql.Fields{
		"count":        &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"total":        &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"total_pages":  &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"current_page": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"items":        &graphql.Field{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(borrowingType)))},
	},
})

var mostBorrowedBookType = graphql.NewObject(graphql.ObjectConfig{
	Name: "MostBorrowedBook",
	Fields: graphql.Fields{
		"book_id":            &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"borrow_count":       &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"currently_borrowed": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"title":              &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"author":             &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"isbn":               &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"genre":              &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"total_copies":       &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"available_copies":   &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
	},
})

var activeMemberType = graphql.NewObject(graphql.ObjectConfig{
	Name: "ActiveMember",
	Fields: graphql.Fields{
		"user_id":            &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"total_borrowings":   &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"current_borrowings": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"returned_books":     &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"name":               &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"email":              &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"role":               &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
	},
})

var availabilitySummaryType = graphql.NewObject(graphql.ObjectConfig{
	Name: "AvailabilitySummary",
	Fields: graphql.Fields{
		"total_books":             &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"total_copies":            &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"available_copies":        &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"borrowed_copies":         &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"availability_percentage": &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
	},
})

var genreAvailabilityType = graphql.NewObject(graphql.ObjectConfig{
	Name: "GenreAvailability",
	Fields: graphql.Fields{
		"genre":            &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"total_books":      &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"total_copies":     &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"available_copies": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"borrowed_copies":  &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
	},
})

var availabilityReportType = graphql.NewObject(graphql.ObjectConfig{
	Name: "AvailabilityReport",
	Fields: graphql.Fields{
		"summary":                 &graphql.Field{Type: graphql.NewNonNull(availabilitySummaryType)},
		"current_borrowings":      &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"genre_wise_availability": &graphql.Field{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(genreAvailabilityType)))},
	},
})

var overdueBookType = graphql.NewObject(graphql.ObjectConfig{
	Name: "OverdueBook",
	Fields: graphql.Fields{
		"borrowing_id": &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"user_id":      &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"user_name":    &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"user_email":   &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"book_id":      &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"title":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"author":       &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"isbn":         &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"borrow_date":  &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
		"due_date":     &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
	},
})

var messageType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Message",
	Fields: graphql.Fields{
		"message": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
	},
})

// ===== Inputs =====

var registerInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "RegisterInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"name":     &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"email":    &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"password": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"role":     &graphql.InputObjectFieldConfig{Type: graphql.String},
	},
})

var loginInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "LoginInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"email":    &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"password": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
	},
})

var addBookInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "AddBookInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"title":            &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"author":           &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"isbn":             &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"publication_date": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"genre":            &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"total_copies":     &graphql.InputObjectFieldConfig{Type: graphql.Int},
		"available_copies": &graphql.InputObjectFieldConfig{Type: graphql.Int},
	},
})

var updateBookInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "UpdateBookInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"title":            &graphql.InputObjectFieldConfig{Type: graphql.String},
		"author":           &graphql.InputObjectFieldConfig{Type: graphql.String},
		"isbn":             &graphql.InputObjectFieldConfig{Type: graphql.String},
		"publication_date": &graphql.InputObjectFieldConfig{Type: graphql.String},
		"genre":            &graphql.InputObjectFieldConfig{Type: graphql.String},
		"total_copies":     &graphql.InputObjectFieldConfig{Type: graphql.Int},
		"available_copies": &graphql.InputObjectFieldConfig{Type: graphql.Int},
	},
})
