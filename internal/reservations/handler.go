package reservations

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"library-backend/internal/platform/apierr"
	"library-backend/internal/platform/session"
)

type Handler struct{ svc *Service }

// RegisterRoutes mounts the member-facing endpoints on r and the staff
// endpoints on staff (normally r.Group("/staff")).
func RegisterRoutes(r gin.IRoutes, staff gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	// member
	r.POST("/reserve", session.RequireCapability(session.CapReserve), h.CreateReservation)
	r.DELETE("/reserve/:id", session.RequireCapability(session.CapCancel), h.CancelReservation)
	r.GET("/members/:id/reservations", session.RequireCapability(session.CapViewOwn), h.ListMemberReservations)
	r.GET("/reservations/:id", session.RequireCapability(session.CapViewOwn), h.GetReservation)

	// staff
	staff.GET("/reservations/all", session.RequireCapability(session.CapViewAll), h.ListAllReservations)
	staff.PUT("/reservations/:id", session.RequireCapability(session.CapResolve), h.ResolveReservation)
}

// ---------- handlers ----------

// POST /reserve
func (h *Handler) CreateReservation(c *gin.Context) {
	var req CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Respond(c, apierr.ErrInvalid("memberId and bookId are required"))
		return
	}
	res, err := h.svc.CreateReservation(c.Request.Context(), session.FromContext(c), req)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.Header("Location", "/api/reservations/"+strconv.FormatInt(res.ReservationID, 10))
	c.JSON(http.StatusCreated, res)
}

// GET /members/:id/reservations
func (h *Handler) ListMemberReservations(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	res, err := h.svc.ListReservationsForMember(c.Request.Context(), session.FromContext(c), id)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /reservations/:id
func (h *Handler) GetReservation(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	res, err := h.svc.GetReservation(c.Request.Context(), session.FromContext(c), id)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// DELETE /reserve/:id
func (h *Handler) CancelReservation(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.svc.CancelReservation(c.Request.Context(), session.FromContext(c), id); err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, apierr.Message("Reservation cancelled."))
}

// GET /staff/reservations/all
func (h *Handler) ListAllReservations(c *gin.Context) {
	res, err := h.svc.ListAllReservations(c.Request.Context())
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// PUT /staff/reservations/:id
func (h *Handler) ResolveReservation(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req ResolveReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Respond(c, apierr.ErrInvalid("status is required"))
		return
	}
	msg, err := h.svc.ResolveReservation(c.Request.Context(), id, req.Status)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, apierr.Message(msg))
}

// ---------- helpers ----------

func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		apierr.Respond(c, apierr.ErrInvalid("id must be a positive number"))
		return 0, false
	}
	return id, true
}
