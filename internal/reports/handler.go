package reports

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type Handler struct{ svc *Service }

// レポートは全て管理者のみ
func RegisterRoutes(r gin.IRoutes, svc *Service, authed, adminOnly gin.HandlerFunc) {
	h := &Handler{svc: svc}
	r.GET("/reports/most-borrowed-books", authed, adminOnly, h.MostBorrowedBooks)
	r.GET("/reports/active-members", authed, adminOnly, h.ActiveMembers)
	r.GET("/reports/book-availability", authed, adminOnly, h.BookAvailability)
	r.GET("/reports/overdue-books", authed, adminOnly, h.OverdueBooks)
}

func limitQuery(c *gin.Context) int {
	v, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil {
		return 10
	}
	return v
}

func (h *Handler) MostBorrowedBooks(c *gin.Context) {
	items, err := h.svc.MostBorrowedBooks(c.Request.Context(), limitQuery(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate report"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(items), "items": items})
}

func (h *Handler) ActiveMembers(c *gin.Context) {
	items, err := h.svc.ActiveMembers(c.Request.Context(), limitQuery(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate report"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(items), "items": items})
}

func (h *Handler) BookAvailability(c *gin.Context) {
	report, err := h.svc.BookAvailability(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate report"})
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) OverdueBooks(c *gin.Context) {
	items, err := h.svc.OverdueBooks(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate report"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(items), "items": items})
}
