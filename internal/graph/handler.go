package graph

import (
	"github.com/gin-gonic/gin"
	gqlhandler "github.com/graphql-go/handler"
)

// RegisterRoutes は /graphql を登録する。
// 認証は必須にせず（register/loginもここを通るため）、トークンがあれば
// optionalAuth が request context に Identity を積む。各リゾルバ側で判定する
func RegisterRoutes(r gin.IRoutes, resolver *Resolver, optionalAuth gin.HandlerFunc) error {
	schema, err := NewSchema(resolver)
	if err != nil {
		return err
	}

	h := gqlhandler.New(&gqlhandler.Config{
		Schema:   &schema,
		Pretty:   true,
		GraphiQL: true,
	})

	wrapped := gin.WrapH(h)
	r.POST("/graphql", optionalAuth, wrapped)
	r.GET("/graphql", optionalAuth, wrapped)
	return nil
}
