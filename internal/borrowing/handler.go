package borrowing

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"LMS-backend/internal/platform/auth"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service, authed, adminOnly gin.HandlerFunc) {
	h := &Handler{svc: svc}

	// 会員
	r.POST("/borrowings/:book_id", authed, h.Borrow)
	r.PATCH("/borrowings/:borrowing_id/return", authed, h.Return)
	r.GET("/borrowings/my-history", authed, h.MyHistory)

	// 管理者
	r.GET("/borrowings", authed, adminOnly, h.ListAll)
}

func (h *Handler) Borrow(c *gin.Context) {
	userID := c.GetString(auth.CtxUserIDKey)
	res, err := h.svc.Borrow(c.Request.Context(), userID, c.Param("book_id"))
	if err != nil {
		c.JSON(ToHTTPStatus(err), errorFromErr(err))
		return
	}
	c.Header("Location", "/borrowings/"+res.BorrowingID)
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) Return(c *gin.Context) {
	userID := c.GetString(auth.CtxUserIDKey)
	role := c.GetString(auth.CtxRoleKey)
	res, err := h.svc.Return(c.Request.Context(), c.Param("borrowing_id"), userID, role)
	if err != nil {
		c.JSON(ToHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) MyHistory(c *gin.Context) {
	userID := c.GetString(auth.CtxUserIDKey)

	var status *string
	if v := c.Query("status"); v != "" {
		status = &v
	}
	p := Page{
		Page:  atoiDef(c.Query("page"), 1),
		Limit: atoiDef(c.Query("limit"), 10),
	}

	res, err := h.svc.History(c.Request.Context(), userID, status, p)
	if err != nil {
		c.JSON(ToHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) ListAll(c *gin.Context) {
	var f ListFilter
	if v := c.Query("status"); v != "" {
		f.Status = &v
	}
	if v := c.Query("user_id"); v != "" {
		f.UserID = &v
	}
	p := Page{
		Page:  atoiDef(c.Query("page"), 1),
		Limit: atoiDef(c.Query("limit"), 10),
	}

	res, err := h.svc.ListAll(c.Request.Context(), f, p)
	if err != nil {
		c.JSON(ToHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

// ---------- helpers ----------

func atoiDef(s string, d int) int {
	if s == "" {
		return d
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return v
}

type errorDTO struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func errorBody(code, msg string) errorDTO {
	var e errorDTO
	e.Error.Code = code
	e.Error.Message = msg
	return e
}

func errorFromErr(err error) errorDTO {
	if de, ok := err.(*DomainError); ok {
		return errorBody(de.Code, de.Message)
	}
	return errorBody(CodeInternal, err.Error())
}
