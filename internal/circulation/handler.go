package circulation

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"library-backend/internal/platform/apierr"
	"library-backend/internal/platform/session"
)

const exportFilename = "checked_out_loans.csv"

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, staff gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	r.GET("/loans/active", session.RequireCapability(session.CapBrowse), h.ListActiveLoans)

	reports := session.RequireCapability(session.CapReports)
	staff.GET("/loans/checkedout", reports, h.ListCheckedOutLoans)
	staff.GET("/loans/checkedout/export", reports, h.ExportCheckedOutLoans)
	staff.GET("/fines/summary", reports, h.SummarizeFines)
}

// GET /loans/active
func (h *Handler) ListActiveLoans(c *gin.Context) {
	res, err := h.svc.ListActiveLoans(c.Request.Context())
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /staff/loans/checkedout
func (h *Handler) ListCheckedOutLoans(c *gin.Context) {
	res, err := h.svc.ListCheckedOutLoans(c.Request.Context())
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /staff/loans/checkedout/export?encoding=utf-8|utf-16|shift_jis
func (h *Handler) ExportCheckedOutLoans(c *gin.Context) {
	enc, err := ParseEncoding(c.Query("encoding"))
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	body, err := h.svc.ExportCheckedOutCSV(c.Request.Context(), enc)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+exportFilename+`"`)
	c.Data(http.StatusOK, enc.ContentType(), body)
}

// GET /staff/fines/summary
func (h *Handler) SummarizeFines(c *gin.Context) {
	res, err := h.svc.SummarizeFinesByMember(c.Request.Context())
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
