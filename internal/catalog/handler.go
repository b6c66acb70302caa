package catalog

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"library-backend/internal/platform/apierr"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	r.GET("/books", h.ListBooks)
	r.GET("/books/search", h.SearchBooks)
	r.GET("/books/:id", h.GetBook)
	r.GET("/genres", h.ListGenres)
}

// GET /books
func (h *Handler) ListBooks(c *gin.Context) {
	res, err := h.svc.ListAllBooks(c.Request.Context())
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /books/search?title=
func (h *Handler) SearchBooks(c *gin.Context) {
	res, err := h.svc.SearchBooksByTitle(c.Request.Context(), c.Query("title"))
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /books/:id
func (h *Handler) GetBook(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		apierr.Respond(c, apierr.ErrInvalid("id must be a number"))
		return
	}
	res, err := h.svc.GetBook(c.Request.Context(), id)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /genres
func (h *Handler) ListGenres(c *gin.Context) {
	res, err := h.svc.ListGenres(c.Request.Context())
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
