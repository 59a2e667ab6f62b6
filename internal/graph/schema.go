package graph

import (
	"github.com/graphql-go/graphql"

	"LMS-backend/internal/borrowing"
	"LMS-backend/internal/catalog"
	"LMS-backend/internal/platform/auth"
	"LMS-backend/internal/reports"
)

// Resolver はREST側と同じサービス層をGraphQLに橋渡しする。
// ビジネスロジックはサービス側にしかない
type Resolver struct {
	Auth    *auth.Service
	Catalog *catalog.Service
	Borrow  *borrowing.Service
	Reports *reports.Service
}

func identity(p graphql.ResolveParams) (auth.Identity, error) {
	id, ok := auth.IdentityFrom(p.Context)
	if !ok {
		return auth.Identity{}, errUnauthenticated()
	}
	return id, nil
}

func adminIdentity(p graphql.ResolveParams) (auth.Identity, error) {
	id, err := identity(p)
	if err != nil {
		return auth.Identity{}, err
	}
	if !id.IsAdmin() {
		return auth.Identity{}, errForbidden()
	}
	return id, nil
}

// ===== 引数ヘルパ =====

func inputMap(p graphql.ResolveParams) map[string]interface{} {
	if m, ok := p.Args["input"].(map[string]interface{}); ok {
		return m
	}
	return map[string]interface{}{}
}

func strArg(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func optStr(m map[string]interface{}, key string) *string {
	if v, ok := m[key].(string); ok {
		return &v
	}
	return nil
}

func optInt(m map[string]interface{}, key string) *int {
	if v, ok := m[key].(int); ok {
		return &v
	}
	return nil
}

func intArg(p graphql.ResolveParams, key string) int {
	if v, ok := p.Args[key].(int); ok {
		return v
	}
	// DefaultValue指定があるので通常ここには来ない
	return 0
}

// NewSchema は実行可能なスキーマを組み立てる
func NewSchema(r *Resolver) (graphql.Schema, error) {
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"me": &graphql.Field{
				Type: userType,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, err := identity(p)
					if err != nil {
						return nil, err
					}
					u, err := r.Auth.Profile(p.Context, id.UserID)
					if err != nil {
						return nil, wrapErr(err)
					}
					return u, nil
				},
			},
			"getBooks": &graphql.Field{
				Type: bookListType,
				Args: graphql.FieldConfigArgument{
					"title":  &graphql.ArgumentConfig{Type: graphql.String},
					"author": &graphql.ArgumentConfig{Type: graphql.String},
					"genre":  &graphql.ArgumentConfig{Type: graphql.String},
					"page":   &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 1},
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 10},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					f := catalog.BookSearchQuery{
						Title:  optStr(p.Args, "title"),
						Author: optStr(p.Args, "author"),
						Genre:  optStr(p.Args, "genre"),
					}
					pg := catalog.Page{Page: intArg(p, "page"), Limit: intArg(p, "limit")}
					list, err := r.Catalog.ListBooks(p.Context, f, pg)
					if err != nil {
						return nil, wrapErr(err)
					}
					return list, nil
				},
			},
			"getBookById": &graphql.Field{
				Type: bookType,
				Args: graphql.FieldConfigArgument{
					"book_id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					bookID, _ := p.Args["book_id"].(string)
					b, err := r.Catalog.GetBook(p.Context, bookID)
					if err != nil {
						return nil, wrapErr(err)
					}
					return b, nil
				},
			},
			"getBorrowHistory": &graphql.Field{
				Type: borrowingListType,
				Args: graphql.FieldConfigArgument{
					"status": &graphql.ArgumentConfig{Type: graphql.String},
					"page":   &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 1},
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 10},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, err := identity(p)
					if err != nil {
						return nil, err
					}
					pg := borrowing.Page{Page: intArg(p, "page"), Limit: intArg(p, "limit")}
					list, err := r.Borrow.History(p.Context, id.UserID, optStr(p.Args, "status"), pg)
					if err != nil {
						return nil, wrapErr(err)
					}
					return list, nil
				},
			},
			"getAllBorrowings": &graphql.Field{
				Type: borrowingListType,
				Args: graphql.FieldConfigArgument{
					"status":  &graphql.ArgumentConfig{Type: graphql.String},
					"user_id": &graphql.ArgumentConfig{Type: graphql.ID},
					"page":    &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 1},
					"limit":   &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 10},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if _, err := adminIdentity(p); err != nil {
						return nil, err
					}
					f := borrowing.ListFilter{
						Status: optStr(p.Args, "status"),
						UserID: optStr(p.Args, "user_id"),
					}
					pg := borrowing.Page{Page: intArg(p, "page"), Limit: intArg(p, "limit")}
					list, err := r.Borrow.ListAll(p.Context, f, pg)
					if err != nil {
						return nil, wrapErr(err)
					}
					return list, nil
				},
			},
			"mostBorrowedBooks": &graphql.Field{
				Type: graphql.NewList(graphql.NewNonNull(mostBorrowedBookType)),
				Args: graphql.FieldConfigArgument{
					"limit": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 10},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if _, err := adminIdentity(p); err != nil {
						return nil, err
					}
					items, err := r.Reports.MostBorrowedBooks(p.Context, intArg(p, "limit"))
					if err != nil {
						return nil, wrapErr(err)
					}
					return items, nil
				},
			},
			"activeMembers": &graphql.Field{
				Type: graphql.NewList(graphql.NewNonNull(activeMemberType)),
				Args: graphql.FieldConfigArgument{
					"limit": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 10},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if _, err := adminIdentity(p); err != nil {
						return nil, err
					}
					items, err := r.Reports.ActiveMembers(p.Context, intArg(p, "limit"))
					if err != nil {
						return nil, wrapErr(err)
					}
					return items, nil
				},
			},
			"bookAvailability": &graphql.Field{
				Type: availabilityReportType,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if _, err := adminIdentity(p); err != nil {
						return nil, err
					}
					rep, err := r.Reports.BookAvailability(p.Context)
					if err != nil {
						return nil, wrapErr(err)
					}
					return rep, nil
				},
			},
			"overdueBooks": &graphql.Field{
				Type: graphql.NewList(graphql.NewNonNull(overdueBookType)),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if _, err := adminIdentity(p); err != nil {
						return nil, err
					}
					items, err := r.Reports.OverdueBooks(p.Context)
					if err != nil {
						return nil, wrapErr(err)
					}
					return items, nil
				},
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"register": &graphql.Field{
				Type: authPayloadType,
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(registerInput)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					in := inputMap(p)
					u, token, err := r.Auth.Register(p.Context,
						strArg(in, "name"), strArg(in, "email"), strArg(in, "password"), strArg(in, "role"))
					if err != nil {
						return nil, wrapErr(err)
					}
					return map[string]interface{}{"user": u, "token": token}, nil
				},
			},
			"login": &graphql.Field{
				Type: authPayloadType,
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(loginInput)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					in := inputMap(p)
					u, token, err := r.Auth.Login(p.Context, strArg(in, "email"), strArg(in, "password"))
					if err != nil {
						return nil, wrapErr(err)
					}
					return map[string]interface{}{"user": u, "token": token}, nil
				},
			},
			"addBook": &graphql.Field{
				Type: bookType,
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(addBookInput)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if _, err := adminIdentity(p); err != nil {
						return nil, err
					}
					in := inputMap(p)
					req := catalog.CreateBookRequest{
						Title:           strArg(in, "title"),
						Author:          strArg(in, "author"),
						ISBN:            strArg(in, "isbn"),
						PublicationDate: strArg(in, "publication_date"),
						Genre:           strArg(in, "genre"),
						TotalCopies:     optInt(in, "total_copies"),
						AvailableCopies: optInt(in, "available_copies"),
					}
					b, err := r.Catalog.CreateBook(p.Context, req)
					if err != nil {
						return nil, wrapErr(err)
					}
					return b, nil
				},
			},
			"updateBook": &graphql.Field{
				Type: bookType,
				Args: graphql.FieldConfigArgument{
					"book_id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"input":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(updateBookInput)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if _, err := adminIdentity(p); err != nil {
						return nil, err
					}
					bookID, _ := p.Args["book_id"].(string)
					in := inputMap(p)
					req := catalog.UpdateBookRequest{
						Title:           optStr(in, "title"),
						Author:          optStr(in, "author"),
						ISBN:            optStr(in, "isbn"),
						PublicationDate: optStr(in, "publication_date"),
						Genre:           optStr(in, "genre"),
						TotalCopies:     optInt(in, "total_copies"),
						AvailableCopies: optInt(in, "available_copies"),
					}
					b, err := r.Catalog.UpdateBook(p.Context, bookID, req)
					if err != nil {
						return nil, wrapErr(err)
					}
					return b, nil
				},
			},
			"deleteBook": &graphql.Field{
				Type: messageType,
				Args: graphql.FieldConfigArgument{
					"book_id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if _, err := adminIdentity(p); err != nil {
						return nil, err
					}
					bookID, _ := p.Args["book_id"].(string)
					if err := r.Catalog.DeleteBook(p.Context, bookID); err != nil {
						return nil, wrapErr(err)
					}
					return map[string]interface{}{"message": "book deleted"}, nil
				},
			},
			"borrowBook": &graphql.Field{
				Type: borrowingType,
				Args: graphql.FieldConfigArgument{
					"book_id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, err := identity(p)
					if err != nil {
						return nil, err
					}
					bookID, _ := p.Args["book_id"].(string)
					rec, err := r.Borrow.Borrow(p.Context, id.UserID, bookID)
					if err != nil {
						return nil, wrapErr(err)
					}
					return rec, nil
				},
			},
			"returnBook": &graphql.Field{
				Type: borrowingType,
				Args: graphql.FieldConfigArgument{
					"borrowing_id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, err := identity(p)
					if err != nil {
						return nil, err
					}
					borrowingID, _ := p.Args["borrowing_id"].(string)
					rec, err := r.Borrow.Return(p.Context, borrowingID, id.UserID, id.Role)
					if err != nil {
						return nil, wrapErr(err)
					}
					return rec, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    query,
		Mutation: mutation,
	})
}
