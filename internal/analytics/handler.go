package analytics

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"library-backend/internal/platform/apierr"
	"library-backend/internal/platform/session"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	browse := session.RequireCapability(session.CapBrowse)
	r.GET("/analytics/genres", browse, h.GenreDistribution)
	r.GET("/analytics/top-borrowed", browse, h.TopBorrowed)
	r.GET("/analytics/status-count", session.RequireCapability(session.CapReports), h.StatusCounts)
}

// GET /analytics/genres
func (h *Handler) GenreDistribution(c *gin.Context) {
	res, err := h.svc.GenreDistribution(c.Request.Context())
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /analytics/top-borrowed?limit=
func (h *Handler) TopBorrowed(c *gin.Context) {
	limit := DefaultTopBorrowedLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			apierr.Respond(c, apierr.ErrInvalid("limit must be a number"))
			return
		}
		limit = n
	}
	res, err := h.svc.TopBorrowedBooks(c.Request.Context(), limit)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /analytics/status-count
func (h *Handler) StatusCounts(c *gin.Context) {
	res, err := h.svc.StatusCounts(c.Request.Context())
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
